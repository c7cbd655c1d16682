package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Ingredient is a recipe ingredient. Model output sometimes lists
// ingredients as bare strings; those decode into Name only.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty"`
}

// UnmarshalJSON accepts either "2 eggs" or {"name": ..., "quantity": ..., "unit": ...}
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = Ingredient{Name: strings.TrimSpace(s)}
		return nil
	}

	type plain Ingredient
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode ingredient: %w", err)
	}
	*i = Ingredient(p)
	return nil
}
