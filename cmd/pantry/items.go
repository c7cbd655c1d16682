package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/fetcher"
	"github.com/kitchenmania/pantry/internal/parser"
	"github.com/kitchenmania/pantry/internal/reconcile"
	"github.com/kitchenmania/pantry/internal/snapshot"
	"github.com/kitchenmania/pantry/internal/store"
	"github.com/kitchenmania/pantry/internal/units"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add <name> [quantity] [unit]",
		Short: "Add a single item",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, unit := 1.0, "pcs"
			if len(args) > 1 {
				v, err := parseQuantity(args[1])
				if err != nil {
					return err
				}
				quantity = v
			}
			if len(args) > 2 {
				unit = args[2]
			}
			if category == "" {
				category = parser.GuessCategory(args[0])
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			item, err := s.AddItem(args[0], quantity, unit, category)
			if err != nil {
				return err
			}
			fmt.Printf("Added %s: %s (%s)\n", shortID(item.ID), item.Name, item.Qty())
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "aisle (guessed from the name when empty)")
	return cmd
}

// parseQuantity reads a stock amount; negative and non-finite values are rejected
func parseQuantity(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("quantity must not be negative, got %s", s)
	}
	return v, nil
}

func listCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List pantry items",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			var items []domain.PantryItem
			if len(args) == 1 {
				items, err = s.SearchItems(args[0])
			} else {
				items, err = s.ListItems()
			}
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Println("Pantry is empty. Use 'pantry add' or 'pantry bulk' to stock it.")
				return nil
			}

			for _, it := range items {
				qty := it.Qty()
				if !raw {
					qty = units.BestDisplayUnit(qty)
				}
				fmt.Printf("%s  %-24s %12s  %s\n", shortID(it.ID), truncate(it.Name, 24), qty, it.Category)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "show quantities in their stored unit")
	return cmd
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an item by ID prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			items, err := s.ListItems()
			if err != nil {
				return err
			}
			ids := make([]string, len(items))
			for i, it := range items {
				ids[i] = it.ID
			}
			id, err := resolveID(args[0], ids)
			if err != nil {
				return err
			}

			if err := s.DeleteItem(id); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", shortID(id))
			return nil
		},
	}
}

func bulkCmd() *cobra.Command {
	var (
		file   string
		url    string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "bulk [lines...]",
		Short: "Add many items from free text, a file or a shared list URL",
		Long: `Parse a grocery list and merge it into the pantry.

Items already in the pantry are topped up, converting units where possible.
Lines whose unit cannot be merged with the stored one are listed separately
and left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			text, err := bulkText(ctx, args, file, url)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("nothing to add: pass lines, --file or --url")
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			names, err := s.ItemNames()
			if err != nil {
				return err
			}
			items, err := newParser().ParseText(ctx, text, names)
			if err != nil {
				return err
			}
			return reconcileAndApply(ctx, s, items, dryRun)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the list from a file (- for stdin)")
	cmd.Flags().StringVarP(&url, "url", "u", "", "fetch the list from a web page")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would change without writing")
	return cmd
}

func bulkText(ctx context.Context, args []string, file, url string) (string, error) {
	parts := []string{strings.Join(args, "\n")}

	if file != "" {
		var (
			data []byte
			err  error
		)
		if file == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return "", fmt.Errorf("read list: %w", err)
		}
		parts = append(parts, string(data))
	}

	if url != "" {
		if !fetcher.IsURL(url) {
			return "", fmt.Errorf("not a URL: %s", url)
		}
		fmt.Printf("Fetching %s... ", url)
		text, err := fetcher.Fetch(ctx, url)
		if err != nil {
			fmt.Println("failed")
			return "", err
		}
		fmt.Println("done")
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n"), nil
}

func receiptCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "receipt <image>",
		Short: "Add the items on a receipt photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(args[0])))
			if !strings.HasPrefix(mimeType, "image/") {
				mimeType = strings.SplitN(http.DetectContentType(image), ";", 2)[0]
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			names, err := s.ItemNames()
			if err != nil {
				return err
			}

			fmt.Print("Reading receipt... ")
			items, err := newParser().ParseReceipt(ctx, image, mimeType, names)
			if err != nil {
				fmt.Println("failed")
				return err
			}
			fmt.Printf("found %d items\n", len(items))

			return reconcileAndApply(ctx, s, items, dryRun)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would change without writing")
	return cmd
}

// reconcileAndApply matches items against the pantry, prints the plan and
// writes it unless dryRun is set
func reconcileAndApply(ctx context.Context, s *store.Store, items []domain.ParsedLineItem, dryRun bool) error {
	if len(items) == 0 {
		fmt.Println("No items recognised.")
		return nil
	}

	pantry, err := s.Snapshot()
	if err != nil {
		return err
	}
	res := reconcile.Reconcile(items, pantry)

	if dryRun {
		printPlan(res)
		return nil
	}

	report, err := s.ApplyReconciliation(ctx, res)
	if err != nil {
		return err
	}

	for _, it := range report.Created {
		fmt.Printf("  + %-24s %s\n", it.Name, it.Qty())
	}
	for _, it := range report.Updated {
		fmt.Printf("  ~ %-24s now %s\n", it.Name, units.BestDisplayUnit(it.Qty()))
	}
	printUnresolved(report.Unresolved)
	fmt.Printf("%d added, %d updated, %d unresolved\n",
		len(report.Created), len(report.Updated), len(report.Unresolved))
	return nil
}

func printPlan(res reconcile.Result) {
	for _, it := range res.NewItems {
		fmt.Printf("  + %-24s %s (%s)\n", it.Name, it.Qty(), it.Category)
	}
	for _, up := range res.Updates {
		if up.NewTotal == nil {
			continue
		}
		fmt.Printf("  ~ %-24s %s + %s = %s\n", up.Item.Name, up.Item.Quantity, up.AddQuantity, up.NewTotal)
	}
	printUnresolved(res.Unresolved())
	fmt.Println("(dry run, nothing written)")
}

func printUnresolved(updates []reconcile.Update) {
	if len(updates) == 0 {
		return
	}
	fmt.Println("Unresolved (not merged):")
	for _, up := range updates {
		fmt.Printf("  ! %-24s have %s, got %s", up.Item.Name, up.Item.Quantity, up.AddQuantity)
		if up.Reason != "" {
			fmt.Printf(" (%s)", up.Reason)
		}
		fmt.Println()
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write a pantry backup (msgpack) to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			items, err := s.ListItems()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return snapshot.Write(os.Stdout, items)
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
			if err := snapshot.Write(f, items); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Exported %d items to %s\n", len(items), args[0])
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a pantry backup into the current pantry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open backup: %w", err)
			}
			defer f.Close()

			backup, err := snapshot.Read(f)
			if err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			return reconcileAndApply(cmd.Context(), s, backup.LineItems(), dryRun)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would change without writing")
	return cmd
}
