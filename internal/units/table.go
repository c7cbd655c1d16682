package units

import "strings"

// Category groups units that measure the same dimension
type Category string

const (
	Weight Category = "weight"
	Volume Category = "volume"
	Count  Category = "count"
	Length Category = "length"
)

// Unit describes a recognised unit symbol
type Unit struct {
	Symbol    string   `json:"symbol"`
	Category  Category `json:"category"`
	Factor    float64  `json:"factor,omitempty"` // amount * Factor = amount in the category base unit
	HasFactor bool     `json:"convertible"`
}

// Base units: grams for weight, milliliters for volume.
// Count units are synonyms of one piece. Length units are recognised
// for compatibility only and carry no factor.
var table = []Unit{
	{Symbol: "g", Category: Weight, Factor: 1, HasFactor: true},
	{Symbol: "kg", Category: Weight, Factor: 1000, HasFactor: true},
	{Symbol: "mg", Category: Weight, Factor: 0.001, HasFactor: true},
	{Symbol: "oz", Category: Weight, Factor: 28.3495, HasFactor: true},
	{Symbol: "lb", Category: Weight, Factor: 453.592, HasFactor: true},
	{Symbol: "lbs", Category: Weight, Factor: 453.592, HasFactor: true},

	{Symbol: "ml", Category: Volume, Factor: 1, HasFactor: true},
	{Symbol: "l", Category: Volume, Factor: 1000, HasFactor: true},
	{Symbol: "cl", Category: Volume, Factor: 10, HasFactor: true},
	{Symbol: "dl", Category: Volume, Factor: 100, HasFactor: true},
	{Symbol: "cup", Category: Volume, Factor: 240, HasFactor: true},
	{Symbol: "cups", Category: Volume, Factor: 240, HasFactor: true},
	{Symbol: "tbsp", Category: Volume, Factor: 15, HasFactor: true},
	{Symbol: "tsp", Category: Volume, Factor: 5, HasFactor: true},
	{Symbol: "fl oz", Category: Volume, Factor: 29.5735, HasFactor: true},
	{Symbol: "pint", Category: Volume, Factor: 473.176, HasFactor: true},
	{Symbol: "quart", Category: Volume, Factor: 946.353, HasFactor: true},
	{Symbol: "gallon", Category: Volume, Factor: 3785.41, HasFactor: true},

	{Symbol: "pcs", Category: Count, Factor: 1, HasFactor: true},
	{Symbol: "pieces", Category: Count, Factor: 1, HasFactor: true},
	{Symbol: "items", Category: Count, Factor: 1, HasFactor: true},
	{Symbol: "units", Category: Count, Factor: 1, HasFactor: true},
	{Symbol: "each", Category: Count, Factor: 1, HasFactor: true},

	{Symbol: "cm", Category: Length},
	{Symbol: "mm", Category: Length},
	{Symbol: "m", Category: Length},
	{Symbol: "inch", Category: Length},
	{Symbol: "ft", Category: Length},
}

var index = buildIndex(table)

func buildIndex(units []Unit) map[string]Unit {
	idx := make(map[string]Unit, len(units))
	for _, u := range units {
		idx[u.Symbol] = u
	}
	return idx
}

// Normalize lowercases and trims a unit symbol and collapses inner whitespace
func Normalize(unit string) string {
	return strings.Join(strings.Fields(strings.ToLower(unit)), " ")
}

// Lookup returns the descriptor for a unit symbol
func Lookup(unit string) (Unit, bool) {
	u, ok := index[Normalize(unit)]
	return u, ok
}

// CategoryOf returns the category of a unit, or false for unknown units
func CategoryOf(unit string) (Category, bool) {
	u, ok := Lookup(unit)
	if !ok {
		return "", false
	}
	return u.Category, true
}

// Units returns the units of a category in declaration order
func Units(c Category) []Unit {
	var out []Unit
	for _, u := range table {
		if u.Category == c {
			out = append(out, u)
		}
	}
	return out
}

// All returns a copy of the whole unit table
func All() []Unit {
	out := make([]Unit, len(table))
	copy(out, table)
	return out
}

// Symbols lists every recognised unit symbol
func Symbols() []string {
	out := make([]string, len(table))
	for i, u := range table {
		out[i] = u.Symbol
	}
	return out
}
