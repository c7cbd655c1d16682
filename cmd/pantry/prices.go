package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func priceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Record and compare grocery prices",
	}
	cmd.AddCommand(priceAddCmd())
	cmd.AddCommand(priceListCmd())
	cmd.AddCommand(priceCompareCmd())
	return cmd
}

func priceAddCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "add <item> <store> <price> <quantity> <unit>",
		Short: "Record what an item cost",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := decimal.NewFromString(args[2])
			if err != nil || price.IsNegative() {
				return fmt.Errorf("invalid price %q", args[2])
			}
			quantity, err := strconv.ParseFloat(args[3], 64)
			if err != nil || quantity <= 0 {
				return fmt.Errorf("invalid quantity %q", args[3])
			}

			rec := domain.PriceRecord{
				ItemName: args[0],
				Store:    args[1],
				Price:    price,
				Quantity: quantity,
				Unit:     args[4],
			}
			if date != "" {
				if rec.PurchasedAt, err = time.Parse("2006-01-02", date); err != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", date)
				}
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			saved, err := s.AddPrice(rec)
			if err != nil {
				return err
			}

			fmt.Printf("Recorded %s at %s: %s for %s %s\n",
				saved.ItemName, saved.Store, saved.Price.StringFixed(2), strconv.FormatFloat(saved.Quantity, 'f', -1, 64), saved.Unit)
			if unitPrice, unit, err := pricing.UnitPrice(*saved); err == nil {
				fmt.Printf("  %s per %s\n", unitPrice.StringFixed(4), unit)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "purchase date, YYYY-MM-DD (default today)")
	return cmd
}

func priceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [item]",
		Short: "Show price history per store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			item := ""
			if len(args) == 1 {
				item = args[0]
			}
			records, err := s.ListPrices(item)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No prices recorded yet. Use 'pantry price add'.")
				return nil
			}

			for _, h := range pricing.History(records) {
				fmt.Printf("%s\n", h.Store)
				for _, r := range h.Records {
					fmt.Printf("  %s  %-20s %8s  %s %s\n",
						r.PurchasedAt.Format("2006-01-02"), truncate(r.ItemName, 20),
						r.Price.StringFixed(2), strconv.FormatFloat(r.Quantity, 'f', -1, 64), r.Unit)
				}
			}
			return nil
		},
	}
}

func priceCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <item>",
		Short: "Rank stores by unit price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.ListPrices(args[0])
			if err != nil {
				return err
			}

			cmp := pricing.Compare(records)
			if len(cmp.Entries) == 0 {
				fmt.Printf("No comparable prices for %s.\n", args[0])
				return nil
			}

			for i, e := range cmp.Entries {
				marker := " "
				if i == 0 {
					marker = "*"
				}
				fmt.Printf("%s %-16s %s per %s  (%s for %s %s)\n",
					marker, e.Record.Store, e.UnitPrice.StringFixed(4), cmp.BaseUnit,
					e.Record.Price.StringFixed(2), strconv.FormatFloat(e.Record.Quantity, 'f', -1, 64), e.Record.Unit)
			}
			for _, r := range cmp.Incomparable {
				fmt.Printf("  %-16s not comparable (%s)\n", r.Store, r.Unit)
			}
			return nil
		},
	}
}
