package recipes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest_NoClient(t *testing.T) {
	_, err := NewSuggester(nil, nil).Suggest(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, ErrSuggestionsUnavailable)
}

func TestSuggest(t *testing.T) {
	reply := `{"recipes": [{
		"title": "Omelette",
		"ingredients": ["3 eggs", {"name": "milk", "quantity": 50, "unit": "ml"}],
		"usageFromPantry": [
			{"itemId": "eggs-1", "quantity": 3, "unit": "pcs"},
			{"itemId": "made-up", "quantity": 1, "unit": "pcs"},
			{"itemId": "milk-1", "quantity": 0, "unit": "ml"}
		],
		"instructions": ["Whisk", "Fry"]
	}]}`

	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt = req.Messages[0].Content[0].Text
		body, _ := json.Marshal(map[string]any{"content": []map[string]string{{"type": "text", "text": reply}}})
		w.Write(body)
	}))
	defer srv.Close()

	pantry := []domain.PantryItem{
		{ID: "eggs-1", Name: "Eggs", Quantity: 6, Unit: "pcs"},
		{ID: "milk-1", Name: "Milk", Quantity: 1, Unit: "l"},
	}
	s := NewSuggester(llm.New(llm.Config{APIKey: "k", BaseURL: srv.URL}, nil), nil)

	got, err := s.Suggest(context.Background(), pantry, Options{Servings: 2, Preferences: []string{"vegetarian"}})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Omelette", got[0].Title)
	assert.Equal(t, "3 eggs", got[0].Ingredients[0].Name)
	require.Len(t, got[0].UsageFromPantry, 1)
	assert.Equal(t, "eggs-1", got[0].UsageFromPantry[0].ItemID)

	assert.Contains(t, prompt, "Suggest 3 recipes")
	assert.Contains(t, prompt, "- eggs-1 | Eggs | 6 pcs")
	assert.Contains(t, prompt, "serves 2")
	assert.Contains(t, prompt, "vegetarian")
}
