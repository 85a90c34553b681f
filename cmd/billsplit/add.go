package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/whlim/billsplit/internal/cli"
	"github.com/whlim/billsplit/internal/common"
	"github.com/whlim/billsplit/internal/model"
	"github.com/whlim/billsplit/internal/parse"
)

func addCmd() *cobra.Command {
	var (
		dateText    string
		description string
		amount      float64
		category    string
		splitPct    float64
		billMonth   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a single expense",
		Long: `Add one expense entry. When --category is omitted the description is
categorized automatically.

Example:
  billsplit add --date "01 Jan 2024" --description "Din Tai Fung" --amount 48.60 --split 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			date, err := parse.NormalizeDate(dateText)
			if err != nil {
				return err
			}
			month, err := parseBillMonth(billMonth)
			if err != nil {
				return err
			}
			if description == "" {
				return fmt.Errorf("description is required")
			}
			if amount < 0 {
				return fmt.Errorf("%w: got %v", common.ErrInvalidAmount, amount)
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

			confidence := -1
			if category == "" {
				categories, listErr := store.ListCategories(ctx)
				if listErr != nil {
					return fmt.Errorf("failed to load categories: %w", listErr)
				}
				category, confidence = newCategorizer().Categorize(description, categories)
			}

			exp := model.Expense{
				Date:         date,
				Description:  description,
				Amount:       amount,
				Category:     model.NormalizeCategoryName(category),
				OriginalText: fmt.Sprintf("S$%.2f", amount),
				BillMonth:    month,
			}
			exp.ApplySplit(splitPct)

			if err := store.SaveExpenses(ctx, []model.Expense{exp}); err != nil {
				return fmt.Errorf("failed to save expense: %w", err)
			}

			if confidence >= 0 {
				fmt.Printf("Categorized as %q (confidence %d%%)\n", exp.Category, confidence) //nolint:forbidigo // User-facing output
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf( //nolint:forbidigo // User-facing output
				"✓ Added expense: %s %.2f (yours %.2f / partner %.2f)",
				exp.Description, exp.Amount, exp.SelfAmount, exp.PartnerAmount)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateText, "date", "", "expense date (e.g. \"01 Jan 2024\" or 2024-01-01)")
	cmd.Flags().StringVar(&description, "description", "", "expense description")
	cmd.Flags().Float64Var(&amount, "amount", 0, "total amount")
	cmd.Flags().StringVar(&category, "category", "", "category (default: automatic)")
	cmd.Flags().Float64Var(&splitPct, "split", 50, "your share percentage (0-100)")
	cmd.Flags().StringVar(&billMonth, "bill-month", "", "statement month (YYYY-MM, default: current month)")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
