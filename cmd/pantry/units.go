package main

import (
	"fmt"
	"strconv"

	"github.com/kitchenmania/pantry/internal/units"
	"github.com/spf13/cobra"
)

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <amount> <from> <to>",
		Short: "Convert an amount between units",
		Args:  cobra.ExactArgs(3),
		// no store or config needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			v, err := units.Convert(amount, args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", units.Q(amount, args[1]), units.Q(v, args[2]))
			return nil
		},
	}
}

func displayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "display <amount> <unit>",
		Short: "Show an amount in its most readable unit",
		Args:  cobra.ExactArgs(2),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			fmt.Println(units.BestDisplayUnit(units.Q(amount, args[1])))
			return nil
		},
	}
}
