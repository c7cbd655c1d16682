package parser

import "strings"

// categoryKeywords is checked in order; the first keyword contained in the
// item name decides its aisle
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Dairy", []string{"milk", "cheese", "yogurt", "yoghurt", "butter", "cream", "egg"}},
	{"Meat", []string{"chicken", "beef", "pork", "lamb", "turkey", "bacon", "ham", "sausage", "mince"}},
	{"Seafood", []string{"salmon", "tuna", "shrimp", "prawn", "cod", "fish"}},
	{"Bakery", []string{"bread", "bagel", "baguette", "croissant", "bun", "tortilla"}},
	{"Frozen", []string{"frozen", "ice cream", "peas"}},
	{"Beverages", []string{"juice", "coffee", "tea", "water", "soda", "beer", "wine"}},
	{"Spices", []string{"salt", "pepper", "cinnamon", "cumin", "paprika", "oregano", "basil", "thyme"}},
	{"Produce", []string{
		"apple", "banana", "orange", "lemon", "lime", "tomato", "potato", "onion", "garlic",
		"carrot", "lettuce", "spinach", "cucumber", "avocado", "berry", "berries", "grape", "mushroom",
	}},
	{"Pantry", []string{"flour", "sugar", "rice", "pasta", "oil", "vinegar", "beans", "oats", "cereal", "honey", "sauce"}},
	{"Household", []string{"soap", "detergent", "paper", "foil", "sponge"}},
}

// GuessCategory returns an aisle for a grocery name, or "" when unsure
func GuessCategory(name string) string {
	n := strings.ToLower(name)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(n, kw) {
				return c.category
			}
		}
	}
	return ""
}
