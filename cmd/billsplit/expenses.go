package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/whlim/billsplit/internal/cli"
	"github.com/whlim/billsplit/internal/parse"
	"github.com/whlim/billsplit/internal/service"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "View and edit saved expenses",
	}

	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(setExpenseCmd())
	cmd.AddCommand(deleteExpenseCmd())

	return cmd
}

func listExpensesCmd() *cobra.Command {
	var (
		fromDate  string
		toDate    string
		billMonth string
		category  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Long: `List saved expenses, optionally filtered by date range, statement
month, or category, with total/self/partner sums.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := service.ExpenseFilter{Category: category}
			if fromDate != "" {
				from, err := parse.NormalizeDate(fromDate)
				if err != nil {
					return err
				}
				filter.StartDate = &from
			}
			if toDate != "" {
				to, err := parse.NormalizeDate(toDate)
				if err != nil {
					return err
				}
				// Include the whole end day.
				end := to.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
				filter.EndDate = &end
			}
			if billMonth != "" {
				month, err := parseBillMonth(billMonth)
				if err != nil {
					return err
				}
				filter.BillMonth = &month
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

			expenses, err := store.ListExpenses(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list expenses: %w", err)
			}
			if len(expenses) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses found")) //nolint:forbidigo // User-facing output
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("Expenses")) //nolint:forbidigo // User-facing output

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tDATE\tDESCRIPTION\tAMOUNT\tCATEGORY\tSHARE%\tYOURS\tPARTNER\tBILL MONTH")
			var total, selfTotal, partnerTotal float64
			for _, exp := range expenses {
				billMonthText := ""
				if !exp.BillMonth.IsZero() {
					billMonthText = exp.BillMonth.Format("2006-01")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\t%.0f\t%.2f\t%.2f\t%s\n",
					exp.ID, exp.Date.Format("2006-01-02"), exp.Description,
					exp.Amount, exp.Category, exp.SelfPercentage,
					exp.SelfAmount, exp.PartnerAmount, billMonthText)
				total += exp.Amount
				selfTotal += exp.SelfAmount
				partnerTotal += exp.PartnerAmount
			}
			fmt.Fprintf(w, "\t\t\t%.2f\t\t\t%.2f\t%.2f\t\n", total, selfTotal, partnerTotal)

			return nil
		},
	}

	cmd.Flags().StringVar(&fromDate, "from", "", "start date")
	cmd.Flags().StringVar(&toDate, "to", "", "end date")
	cmd.Flags().StringVar(&billMonth, "bill-month", "", "statement month filter (YYYY-MM)")
	cmd.Flags().StringVar(&category, "category", "", "category filter")

	return cmd
}

func setExpenseCmd() *cobra.Command {
	var (
		category string
		splitPct float64
	)

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update an expense's category or split",
		Long: `Update the category and/or split percentage of one expense. Changing
the split recomputes both derived shares together.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q: %w", args[0], err)
			}
			if category == "" && !cmd.Flags().Changed("split") {
				return fmt.Errorf("nothing to update: pass --category and/or --split")
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

			if category != "" {
				if err := store.UpdateExpenseCategory(ctx, id, category); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("split") {
				if err := store.UpdateExpenseSplit(ctx, id, splitPct); err != nil {
					return err
				}
			}

			exp, err := store.GetExpenseByID(ctx, id)
			if err != nil {
				return err
			}
			if exp == nil {
				return fmt.Errorf("expense %d not found", id)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf( //nolint:forbidigo // User-facing output
				"✓ Updated expense %d: %s, %.0f%% split (yours %.2f / partner %.2f)",
				exp.ID, exp.Category, exp.SelfPercentage, exp.SelfAmount, exp.PartnerAmount)))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().Float64Var(&splitPct, "split", 50, "new share percentage (0-100)")

	return cmd
}

func deleteExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q: %w", args[0], err)
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

			if err := store.DeleteExpense(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Deleted expense %d", id))) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}
