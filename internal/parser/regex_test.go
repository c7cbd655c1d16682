package parser

import (
	"context"
	"testing"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line     string
		name     string
		quantity float64
		unit     string
	}{
		{"2 kg flour", "flour", 2, "kg"},
		{"2kg flour", "flour", 2, "kg"},
		{"500 g of pasta", "pasta", 500, "g"},
		{"1,5 L milk", "milk", 1.5, "l"},
		{"1/2 cup sugar", "sugar", 0.5, "cup"},
		{"1 1/2 cups rice", "rice", 1.5, "cups"},
		{"3 tablespoons honey", "honey", 3, "tbsp"},
		{"2 fl oz vanilla", "vanilla", 2, "fl oz"},
		{"3x eggs", "eggs", 3, "pcs"},
		{"eggs x12", "eggs", 12, "pcs"},
		{"milk 1l", "milk", 1, "l"},
		{"Tomatoes 500 g", "Tomatoes", 500, "g"},
		{"2 garlic bulbs", "garlic bulbs", 2, "pcs"},
		{"6 apples", "apples", 6, "pcs"},
		{"bread", "bread", 1, "pcs"},
		{"- 4 lbs potatoes", "potatoes", 4, "lbs"},
		{"[ ] butter.", "butter", 1, "pcs"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			it, ok := ParseLine(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.name, it.Name)
			assert.Equal(t, tt.quantity, it.Quantity)
			assert.Equal(t, tt.unit, it.Unit)
		})
	}
}

func TestParseLine_Empty(t *testing.T) {
	for _, line := range []string{"", "   ", "-", "[ ]"} {
		_, ok := ParseLine(line)
		assert.False(t, ok, "%q", line)
	}
}

func TestRegexParser_ParseText(t *testing.T) {
	p := NewRegexParser()
	items, err := p.ParseText(context.Background(),
		"2 kg flour, milk 1,5 l; 3x eggs\n\n  bread  \n", []string{"Milk", "Salt"})
	require.NoError(t, err)

	require.Len(t, items, 4)
	assert.Equal(t, domain.ParsedLineItem{Name: "flour", Quantity: 2, Unit: "kg", Category: "Pantry"}, items[0])
	assert.Equal(t, domain.ParsedLineItem{Name: "milk", Quantity: 1.5, Unit: "l", Category: "Dairy", Exists: true}, items[1])
	assert.Equal(t, "eggs", items[2].Name)
	assert.Equal(t, "Dairy", items[2].Category)
	assert.False(t, items[2].Exists)
	assert.Equal(t, "Bakery", items[3].Category)
}

func TestRegexParser_ParseReceipt(t *testing.T) {
	_, err := NewRegexParser().ParseReceipt(context.Background(), []byte{1}, "image/png", nil)
	assert.ErrorIs(t, err, ErrReceiptUnsupported)
}

func TestGuessCategory(t *testing.T) {
	assert.Equal(t, "Produce", GuessCategory("Red Onions"))
	assert.Equal(t, "Meat", GuessCategory("chicken thighs"))
	assert.Equal(t, "", GuessCategory("mystery box"))
}

func TestCanonicalUnit(t *testing.T) {
	assert.Equal(t, "pcs", canonicalUnit(""))
	assert.Equal(t, "kg", canonicalUnit("Kilograms"))
	assert.Equal(t, "fl oz", canonicalUnit("FL  OZ"))
	assert.Equal(t, "bunch", canonicalUnit(" bunch "))
}
