package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/whlim/billsplit/internal/cli"
	"github.com/whlim/billsplit/internal/engine"
)

func recategorizeCmd() *cobra.Command {
	var (
		force  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "recategorize",
		Short: "Re-run categorization over all saved expenses",
		Long: `Re-run keyword categorization over every saved expense, useful after
editing category keywords. The whole scan runs inside one transaction:
either every changed row is updated or none are.

Examples:
  # Preview what would change
  billsplit recategorize --dry-run

  # Apply without confirmation
  billsplit recategorize --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Error("failed to close storage", "error", closeErr)
				}
			}()

			if !force && !dryRun {
				fmt.Print("Recategorize all saved expenses? (y/N): ") //nolint:forbidigo // User prompt
				var response string
				if _, scanErr := fmt.Scanln(&response); scanErr != nil {
					response = "n"
				}
				if strings.ToLower(response) != "y" {
					fmt.Println("Recategorization canceled.") //nolint:forbidigo // User-facing output
					return nil
				}
			}

			var bar *progressbar.ProgressBar
			opts := engine.RecategorizeOptions{
				DryRun: dryRun,
				Progress: func(done, total int) {
					if bar == nil {
						bar = progressbar.NewOptions(total,
							progressbar.OptionSetDescription("Recategorizing"),
							progressbar.OptionSetWriter(os.Stderr),
							progressbar.OptionShowCount(),
							progressbar.OptionClearOnFinish(),
						)
					}
					_ = bar.Set(done)
				},
			}

			summary, err := engine.Recategorize(ctx, store, newCategorizer(), opts)
			if err != nil {
				return fmt.Errorf("recategorization failed: %w", err)
			}

			showChanges(summary)

			fmt.Printf("\nProcessed %d expenses, %d changed\n", summary.TotalProcessed, summary.TotalUpdated) //nolint:forbidigo // User-facing output
			if dryRun {
				fmt.Println(cli.InfoStyle.Render("Dry run complete - no changes made")) //nolint:forbidigo // User-facing output
				return nil
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Recategorization complete")) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip confirmation prompt")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview changes without applying them")

	return cmd
}

func showChanges(summary *engine.RecategorizeSummary) {
	if len(summary.Changes) == 0 {
		fmt.Println(cli.InfoStyle.Render("No category changes")) //nolint:forbidigo // User-facing output
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintln(w, "ID\tDESCRIPTION\tOLD\tNEW")
	for _, change := range summary.Changes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			change.ID, change.Description, change.OldCategory, change.NewCategory)
	}
}
