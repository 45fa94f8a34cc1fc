package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/inventory"
	"github.com/priceapp/backoffice/internal/priceupdate"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk-import products from a CSV file",
	Long: `Import inventory records from a semicolon-delimited CSV file with a
header line and columns sku;barcode;name;price;old_price;red_price;country;category.
Countries and categories are created on first use. The whole file is
inserted in one transaction; a duplicate barcode rejects the batch.`,
	Example: `  backoffice import products.csv`,
	Args:    cobra.ExactArgs(1),
	RunE:    runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	rows, err := priceupdate.ParseProductCSV(content)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}
	if len(rows) == 0 {
		logger.Warn().Msg("No rows to import")
		return nil
	}

	store := inventory.NewStore(database.Pool())

	products := make([]database.Product, 0, len(rows))
	for _, row := range rows {
		countryID, err := store.EnsureCountry(ctx, row.Country)
		if err != nil {
			return err
		}
		categoryID, err := store.EnsureCategory(ctx, row.Category)
		if err != nil {
			return err
		}

		p := database.Product{
			Barcode:    row.Barcode,
			Name:       row.Name,
			Price:      row.Price,
			OldPrice:   row.OldPrice,
			RedPrice:   row.RedPrice,
			CountryID:  countryID,
			CategoryID: categoryID,
		}
		if row.SKU != "" {
			sku := row.SKU
			p.SKU = &sku
		}
		products = append(products, p)
	}

	if err := store.BulkCreateProducts(ctx, products); err != nil {
		return err
	}

	logger.Info().Int("count", len(products)).Msg("Products imported")
	return nil
}
