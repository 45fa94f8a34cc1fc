package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/inventory"
	"github.com/priceapp/backoffice/internal/jobs"
	"github.com/priceapp/backoffice/internal/priceupdate"
)

var updateApply bool

// updateFileCmd represents the update-file command
var updateFileCmd = &cobra.Command{
	Use:   "update-file <file>",
	Short: "Run the file price-update protocol against the inventory",
	Long: `Match an exported price file (CSV or XLSX, columns sku;price;old_price)
against the inventory and print the resulting update and missing sets.
Without --apply nothing is changed; with --apply the matched updates are
applied as-is, the way an operator confirming every row would.`,
	Example: `  backoffice update-file prices.csv
  backoffice update-file prices.xlsx --apply`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdateFile,
}

func init() {
	rootCmd.AddCommand(updateFileCmd)

	updateFileCmd.Flags().BoolVar(&updateApply, "apply", false, "Apply the matched updates instead of just reporting them")
}

func runUpdateFile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	store := inventory.NewStore(database.Pool())
	matcher := priceupdate.NewMatcher(store)

	// One throwaway session keeps the CLI run isolated from any live
	// operator staging; it is swept before exit.
	sessionID := uuid.New().String()
	defer func() {
		if _, err := jobs.CleanupSessionStaging(ctx, []string{sessionID}); err != nil {
			logger.Warn().Err(err).Msg("Failed to clean up CLI staging rows")
		}
	}()

	result, err := matcher.MatchFile(ctx, sessionID, args[0], content)
	if err != nil {
		return err
	}

	fmt.Printf("Parsed %d rows: %d matched, %d missing\n\n", result.Parsed, result.Updates, result.Missing)

	if result.Updates > 0 {
		candidates, err := store.ListUpdateCandidates(ctx, sessionID)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPRICE\tOLD PRICE\tRED")
		for _, c := range candidates {
			fmt.Fprintf(w, "%s\t%d\t%d\t%v\n", c.Name, c.Price, c.OldPrice, c.RedPrice)
		}
		w.Flush()
		fmt.Println()

		if updateApply {
			now := time.Now()
			for i := range candidates {
				candidates[i].UpdateAt = now
			}
			applied, err := store.ApplyUpdates(ctx, sessionID, candidates)
			if err != nil {
				return err
			}
			logger.Info().Int("applied", applied.Applied).
				Strs("skipped", applied.Skipped).Msg("Updates applied")
		}
	}

	if result.Missing > 0 {
		missing, err := store.ListMissingCandidates(ctx, sessionID)
		if err != nil {
			return err
		}

		fmt.Println("Missing from inventory:")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SKU\tPRICE\tOLD PRICE")
		for _, m := range missing {
			sku := ""
			if m.SKU != nil {
				sku = *m.SKU
			}
			fmt.Fprintf(w, "%s\t%d\t%d\n", sku, m.Price, m.OldPrice)
		}
		w.Flush()
	}

	return nil
}
