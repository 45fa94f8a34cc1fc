// Schema Generator
//
// Generates JSON Schema files from Go types so the front-office UI can
// derive its form validation from them. Go is the source of truth for
// the API types.
//
// Usage:
//
//	go run cmd/schema-gen/main.go
//
// Output:
//
//	docs/schemas/queue.json
//	docs/schemas/updates.json
//	docs/schemas/products.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/handlers"
	"github.com/priceapp/backoffice/internal/printqueue"
	"github.com/priceapp/backoffice/internal/priceupdate"
	"github.com/priceapp/backoffice/internal/session"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

func main() {
	outputDir := "docs/schemas"

	// Ensure output directory exists
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	// Define schema groups
	groups := []SchemaGroup{
		{
			Name: "queue",
			Types: []any{
				// Request types
				printqueue.ScanRequest{},
				printqueue.ManualRequest{},
				// Response types
				database.SheetEntry{},
				database.TagTemplate{},
				session.LastScan{},
			},
			Output: "queue.json",
		},
		{
			Name: "updates",
			Types: []any{
				// Request types
				handlers.UpdateTextRequest{},
				handlers.ConfirmUpdateItem{},
				handlers.ConfirmUpdatesRequest{},
				handlers.ResolveMissingItem{},
				handlers.ResolveMissingRequest{},
				// Response types
				database.UpdateCandidate{},
				database.MissingCandidate{},
				priceupdate.Result{},
			},
			Output: "updates.json",
		},
		{
			Name: "products",
			Types: []any{
				// Request types
				handlers.ListProductsRequest{},
				handlers.CreateProductRequest{},
				// Response types
				database.Product{},
				database.Country{},
				database.Category{},
				handlers.HealthResponse{},
			},
			Output: "products.json",
		},
	}

	// Generate schemas for each group
	for _, group := range groups {
		schema := generateGroupSchema(group)
		outputPath := filepath.Join(outputDir, group.Output)

		if err := writeSchema(schema, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", group.Output, err)
			os.Exit(1)
		}

		fmt.Printf("Generated %s\n", outputPath)
	}

	fmt.Println("Schema generation complete!")
}

// generateGroupSchema creates a combined schema with all types in a group
func generateGroupSchema(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{
		DoNotReference: false,
		ExpandedStruct: false,
	}

	// Create combined definitions
	definitions := make(map[string]any)

	for _, t := range group.Types {
		schema := reflector.Reflect(t)

		// Get the type name from the schema
		typeName := ""
		if schema.Ref != "" {
			// Extract type name from $ref like "#/$defs/ScanRequest"
			typeName = filepath.Base(schema.Ref)
		}

		// Add all definitions from this type's schema
		for name, def := range schema.Definitions {
			definitions[name] = def
		}

		// If there's a main type, add it to definitions too
		if typeName != "" && schema.Definitions[typeName] != nil {
			definitions[typeName] = schema.Definitions[typeName]
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://priceapp.example/schemas/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// writeSchema writes a schema to a JSON file
func writeSchema(schema map[string]any, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
