package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/whlim/billsplit/internal/cli"
	"github.com/whlim/billsplit/internal/model"
	"github.com/whlim/billsplit/internal/parse"
)

func importCmd() *cobra.Command {
	var (
		billMonth string
		splitPct  float64
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Bulk import statement rows",
		Long: `Import expenses from tab-separated statement rows: date, description,
raw amount text. Reads from a file or stdin.

Each row's amount is extracted from "S$xx.xx"-style text (the substring
"cr" marks a credit and negates the amount), its category is assigned by
fuzzy keyword matching, and the given split percentage is applied to all
rows. A batch containing any unparseable date is rejected wholesale.

Examples:
  # Import a statement paste for the March bill, 50-50 split
  billsplit import march.tsv --bill-month 2024-03

  # Preview without saving
  cat march.tsv | billsplit import --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			month, err := parseBillMonth(billMonth)
			if err != nil {
				return err
			}

			var input io.Reader = os.Stdin
			if len(args) == 1 {
				f, openErr := os.Open(args[0])
				if openErr != nil {
					return fmt.Errorf("failed to open input file: %w", openErr)
				}
				defer func() {
					if closeErr := f.Close(); closeErr != nil {
						slog.Warn("failed to close input file", "error", closeErr)
					}
				}()
				input = f
			}

			// All-or-nothing: any bad date rejects the whole batch here.
			rows, err := parse.ParseStatementRows(input)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println(cli.InfoStyle.Render("No statement rows found")) //nolint:forbidigo // User-facing output
				return nil
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Error("failed to close storage", "error", closeErr)
				}
			}()

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to load categories: %w", err)
			}

			categorizer := newCategorizer()
			expenses := make([]model.Expense, 0, len(rows))
			confidences := make([]int, 0, len(rows))
			for _, row := range rows {
				category, confidence := categorizer.Categorize(row.Description, categories)
				exp := model.Expense{
					Date:         row.Date,
					Description:  row.Description,
					Amount:       parse.ExtractAmount(row.RawText),
					Category:     category,
					OriginalText: row.RawText,
					BillMonth:    month,
				}
				exp.ApplySplit(splitPct)
				expenses = append(expenses, exp)
				confidences = append(confidences, confidence)
			}

			showAllocation(expenses, confidences)

			if dryRun {
				fmt.Println(cli.InfoStyle.Render("\nDry run complete - no changes made")) //nolint:forbidigo // User-facing output
				return nil
			}

			// Save the whole batch through one transaction.
			tx, err := store.BeginTx(ctx)
			if err != nil {
				return fmt.Errorf("failed to begin transaction: %w", err)
			}
			if err := tx.SaveExpenses(ctx, expenses); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to save expenses: %w", err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("failed to commit import: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("\n✓ Imported %d expenses", len(expenses)))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().StringVar(&billMonth, "bill-month", "", "statement month the rows belong to (YYYY-MM, default: current month)")
	cmd.Flags().Float64Var(&splitPct, "split", 50, "your share percentage applied to every row (0-100)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview the allocation without saving")

	return cmd
}

func showAllocation(expenses []model.Expense, confidences []int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintln(w, "DATE\tDESCRIPTION\tAMOUNT\tCATEGORY\tCONFIDENCE\tYOURS\tPARTNER")
	var total, selfTotal, partnerTotal float64
	for i, exp := range expenses {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%d%%\t%.2f\t%.2f\n",
			exp.Date.Format("2006-01-02"), exp.Description, exp.Amount,
			exp.Category, confidences[i], exp.SelfAmount, exp.PartnerAmount)
		total += exp.Amount
		selfTotal += exp.SelfAmount
		partnerTotal += exp.PartnerAmount
	}
	fmt.Fprintf(w, "\t\t%.2f\t\t\t%.2f\t%.2f\n", total, selfTotal, partnerTotal)
}
