package main

import (
	"fmt"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/recipes"
	"github.com/spf13/cobra"
)

func recipeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Suggest, save and cook recipes",
	}
	cmd.AddCommand(recipeSuggestCmd())
	cmd.AddCommand(recipeListCmd())
	cmd.AddCommand(recipeCookCmd())
	return cmd
}

func recipeSuggestCmd() *cobra.Command {
	var (
		opts recipes.Options
		save bool
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask for recipes that use what is in the pantry",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			pantry, err := s.ListItems()
			if err != nil {
				return err
			}
			if len(pantry) == 0 {
				fmt.Println("Pantry is empty; nothing to cook with.")
				return nil
			}

			fmt.Print("Thinking... ")
			suggested, err := recipes.NewSuggester(newClient(), log).Suggest(cmd.Context(), pantry, opts)
			if err != nil {
				fmt.Println("failed")
				return err
			}
			fmt.Printf("%d recipes\n\n", len(suggested))

			for _, r := range suggested {
				if save {
					saved, err := s.SaveRecipe(r)
					if err != nil {
						return err
					}
					r = *saved
				}
				printRecipe(r)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "c", 3, "number of recipes")
	cmd.Flags().IntVarP(&opts.Servings, "servings", "s", 0, "servings per recipe")
	cmd.Flags().StringSliceVarP(&opts.Preferences, "prefer", "p", nil, "dietary preferences")
	cmd.Flags().BoolVar(&save, "save", false, "save the suggestions")
	return cmd
}

func printRecipe(r domain.Recipe) {
	if r.ID != "" {
		fmt.Printf("%s  %s\n", shortID(r.ID), r.Title)
	} else {
		fmt.Println(r.Title)
	}
	if r.Description != "" {
		fmt.Printf("  %s\n", r.Description)
	}
	for _, ing := range r.Ingredients {
		if ing.Quantity > 0 {
			fmt.Printf("  - %g %s %s\n", ing.Quantity, ing.Unit, ing.Name)
		} else {
			fmt.Printf("  - %s\n", ing.Name)
		}
	}
	for i, step := range r.Instructions {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
	fmt.Println()
}

func recipeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			list, err := s.ListRecipes()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("No saved recipes. Use 'pantry recipe suggest --save'.")
				return nil
			}
			for _, r := range list {
				fmt.Printf("%s  %s\n", shortID(r.ID), truncate(r.Title, 60))
			}
			return nil
		},
	}
}

func recipeCookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cook <id>",
		Short: "Deduct a saved recipe's ingredients from the pantry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			list, err := s.ListRecipes()
			if err != nil {
				return err
			}
			ids := make([]string, len(list))
			for i, r := range list {
				ids[i] = r.ID
			}
			id, err := resolveID(args[0], ids)
			if err != nil {
				return err
			}

			report, err := s.CookRecipe(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Printf("Cooked %s\n", report.Recipe.Title)
			for _, it := range report.Deducted {
				fmt.Printf("  - %-24s left %s\n", it.Name, it.Qty())
			}
			for _, sk := range report.Skipped {
				fmt.Printf("  ! skipped %s %s: %s\n", sk.Usage.Qty(), shortID(sk.Usage.ItemID), sk.Reason)
			}
			return nil
		},
	}
}
