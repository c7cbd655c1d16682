// Package recipes asks a language model for recipes that use what is
// already in the pantry.
package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/llm"
	"go.uber.org/zap"
)

// ErrSuggestionsUnavailable is returned when no model is configured
var ErrSuggestionsUnavailable = errors.New("recipe suggestions require an AI API key")

// Options tune a suggestion request
type Options struct {
	Count       int      `json:"count,omitempty" validate:"omitempty,min=1,max=10"`
	Servings    int      `json:"servings,omitempty" validate:"omitempty,min=1,max=20"`
	Preferences []string `json:"preferences,omitempty"`
}

// Suggester produces recipe suggestions
type Suggester struct {
	client *llm.Client
	logger *zap.Logger
}

// NewSuggester creates a Suggester; client may be nil
func NewSuggester(client *llm.Client, logger *zap.Logger) *Suggester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Suggester{client: client, logger: logger}
}

// Suggest returns recipes built mostly from pantry items. Usages that do
// not reference a pantry item are dropped.
func (s *Suggester) Suggest(ctx context.Context, pantry []domain.PantryItem, opts Options) ([]domain.Recipe, error) {
	if s.client == nil {
		return nil, ErrSuggestionsUnavailable
	}
	if opts.Count <= 0 {
		opts.Count = 3
	}

	resp, err := s.client.Complete(ctx, buildPrompt(pantry, opts))
	if err != nil {
		return nil, fmt.Errorf("suggest recipes: %w", err)
	}

	var out struct {
		Recipes []domain.Recipe `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(llm.StripCodeFence(resp)), &out); err != nil {
		return nil, fmt.Errorf("parse recipes: %w", err)
	}

	known := make(map[string]struct{}, len(pantry))
	for _, it := range pantry {
		known[it.ID] = struct{}{}
	}
	for i := range out.Recipes {
		r := &out.Recipes[i]
		kept := r.UsageFromPantry[:0]
		for _, u := range r.UsageFromPantry {
			if _, ok := known[u.ItemID]; ok && u.Quantity > 0 {
				kept = append(kept, u)
			}
		}
		if dropped := len(r.UsageFromPantry) - len(kept); dropped > 0 {
			s.logger.Debug("dropped unknown pantry usages", zap.String("recipe", r.Title), zap.Int("dropped", dropped))
		}
		r.UsageFromPantry = kept
	}
	return out.Recipes, nil
}

func buildPrompt(pantry []domain.PantryItem, opts Options) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Suggest %d recipes that mainly use the ingredients in this pantry. Return JSON only.\n\n", opts.Count)
	sb.WriteString("Pantry (id | name | amount):\n")
	for _, it := range pantry {
		fmt.Fprintf(&sb, "- %s | %s | %s\n", it.ID, it.Name, it.Qty())
	}
	sb.WriteString("\n")
	if opts.Servings > 0 {
		fmt.Fprintf(&sb, "Each recipe serves %d.\n", opts.Servings)
	}
	if len(opts.Preferences) > 0 {
		sb.WriteString("Preferences: ")
		sb.WriteString(strings.Join(opts.Preferences, ", "))
		sb.WriteString("\n")
	}

	sb.WriteString(`
Return a JSON object with this structure:
{
  "recipes": [
    {
      "title": "Recipe name",
      "description": "One sentence",
      "servings": 2,
      "ingredients": [{"name": "flour", "quantity": 200, "unit": "g"}],
      "usageFromPantry": [{"itemId": "pantry id", "quantity": 200, "unit": "g"}],
      "instructions": ["Step one", "Step two"]
    }
  ]
}

Rules:
- usageFromPantry only references ids from the pantry list
- Do not use more of an item than the pantry holds
- Units should match the pantry item's unit where possible

Return ONLY the JSON, no other text.`)

	return sb.String()
}
