package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientUnmarshal(t *testing.T) {
	var r Recipe
	err := json.Unmarshal([]byte(`{
		"title": "Omelette",
		"ingredients": [
			"  3 eggs ",
			{"name": "milk", "quantity": 50, "unit": "ml"}
		]
	}`), &r)
	require.NoError(t, err)

	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, Ingredient{Name: "3 eggs"}, r.Ingredients[0])
	assert.Equal(t, Ingredient{Name: "milk", Quantity: 50, Unit: "ml"}, r.Ingredients[1])
}

func TestIngredientUnmarshal_Invalid(t *testing.T) {
	var i Ingredient
	assert.Error(t, json.Unmarshal([]byte(`42`), &i))
}
