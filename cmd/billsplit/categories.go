package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/whlim/billsplit/internal/cli"
	"github.com/whlim/billsplit/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
		Long:  `List, edit, export, and import the keyword buckets used to categorize expenses.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(setCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())
	cmd.AddCommand(dupesCmd())
	cmd.AddCommand(exportCategoriesCmd())
	cmd.AddCommand(importCategoriesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories and their keywords",
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

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'billsplit categories set' to create one.")) //nolint:forbidigo // User-facing output
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("Categories")) //nolint:forbidigo // User-facing output

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "NAME\tKEYWORDS")
			for _, cat := range categories {
				keywords := model.JoinKeywords(cat.Keywords)
				if keywords == "" {
					keywords = cli.SubtleStyle.Render("(no keywords)")
				}
				fmt.Fprintf(w, "%s\t%s\n", cat.Name, keywords)
			}

			return nil
		},
	}
}

func setCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> [keywords]",
		Short: "Create or update a category",
		Long: `Create a category or replace its keyword list wholesale. Keywords are
comma-separated and lowercased; omit them to create an empty category.

Example:
  billsplit categories set transport "grab,taxi,mrt,bus"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var keywords []string
			if len(args) == 2 {
				keywords = model.SplitKeywords(args[1])
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

			name := model.NormalizeCategoryName(args[0])
			if err := store.UpsertCategory(ctx, name, keywords); err != nil {
				return err
			}

			// Warn about keywords this edit now shares with other categories.
			dupes, err := store.FindDuplicateKeywords(ctx)
			if err != nil {
				return err
			}
			warnDuplicates(dupes)

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Saved category %q with %d keywords", name, len(keywords)))) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			name := model.NormalizeCategoryName(args[0])
			if err := store.DeleteCategory(ctx, name); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Deleted category %q", name))) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func dupesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dupes",
		Short: "Find keywords shared by multiple categories",
		Long: `Scan the saved categories for keywords that currently appear in two or
more keyword lists. Shared keywords make categorization ambiguous; they
are resolved first-claim-wins on the next bulk import of categories.`,
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

			dupes, err := store.FindDuplicateKeywords(ctx)
			if err != nil {
				return err
			}
			if len(dupes) == 0 {
				fmt.Println(cli.SuccessStyle.Render("✓ All keywords are unique")) //nolint:forbidigo // User-facing output
				return nil
			}

			warnDuplicates(dupes)
			return nil
		},
	}
}

func exportCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export categories as JSON",
		Long:  `Write the categories as a flat JSON object mapping name to keyword list, to a file or stdout.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			interchange := make(map[string][]string, len(categories))
			for _, cat := range categories {
				keywords := cat.Keywords
				if keywords == nil {
					keywords = []string{}
				}
				interchange[cat.Name] = keywords
			}

			data, err := json.MarshalIndent(interchange, "", "    ")
			if err != nil {
				return fmt.Errorf("failed to encode categories: %w", err)
			}
			data = append(data, '\n')

			if len(args) == 1 {
				if err := os.WriteFile(args[0], data, 0600); err != nil {
					return fmt.Errorf("failed to write %s: %w", args[0], err)
				}
				fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Exported %d categories to %s", len(categories), args[0]))) //nolint:forbidigo // User-facing output
				return nil
			}

			_, err = os.Stdout.Write(data)
			return err
		},
	}
}

func importCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import categories from JSON",
		Long: `Load categories from a flat JSON object mapping name to keyword list.
Keyword lists are replaced wholesale. Keywords claimed by more than one
category in the file are kept by the first category (in name order) and
silently dropped from the rest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			var interchange map[string][]string
			if err := json.Unmarshal(data, &interchange); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			// Deterministic claim order for the uniqueness pass.
			names := make([]string, 0, len(interchange))
			for name := range interchange {
				names = append(names, name)
			}
			sort.Strings(names)

			edits := make([]model.KeywordEdit, 0, len(names))
			for _, name := range names {
				edits = append(edits, model.KeywordEdit{
					Category: name,
					Keywords: model.JoinKeywords(interchange[name]),
				})
			}
			resolved := model.ResolveKeywordEdits(edits)

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Error("failed to close storage", "error", closeErr)
				}
			}()

			results, err := store.ReplaceCategories(ctx, resolved)
			for _, res := range results {
				if res.Err != nil {
					fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf("✗ %s: %v", res.Name, res.Err))) //nolint:forbidigo // User-facing output
				}
			}
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Imported %d categories", len(resolved)))) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func warnDuplicates(dupes map[string][]string) {
	if len(dupes) == 0 {
		return
	}

	keywords := make([]string, 0, len(dupes))
	for kw := range dupes {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	fmt.Println(cli.WarningStyle.Render("⚠ Keywords appearing in multiple categories:")) //nolint:forbidigo // User-facing output
	for _, kw := range keywords {
		fmt.Printf("  %q in: %s\n", kw, strings.Join(dupes[kw], ", ")) //nolint:forbidigo // User-facing output
	}
}
