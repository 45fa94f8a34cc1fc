package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/inventory"
)

var (
	seedCountries  string
	seedCategories string
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the tag catalog and reference data",
	Long: `Install the fixed price-tag template catalog (big/small, plain/discount)
and optionally a starting set of countries and categories. Safe to re-run;
existing rows are left untouched.`,
	Example: `  backoffice seed
  backoffice seed --countries "Вьетнам,Китай" --categories "наушники,колонки"`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedCountries, "countries", "", "Comma-separated country names to create")
	seedCmd.Flags().StringVar(&seedCategories, "categories", "", "Comma-separated category names to create")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store := inventory.NewStore(database.Pool())

	if err := store.SeedTags(ctx); err != nil {
		return err
	}
	logger.Info().Msg("Tag catalog seeded")

	for _, name := range splitNames(seedCountries) {
		if _, err := store.EnsureCountry(ctx, name); err != nil {
			return err
		}
		logger.Info().Str("country", name).Msg("Country ensured")
	}
	for _, name := range splitNames(seedCategories) {
		if _, err := store.EnsureCategory(ctx, name); err != nil {
			return err
		}
		logger.Info().Str("category", name).Msg("Category ensured")
	}

	return nil
}

func splitNames(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
