package domain

import (
	"time"

	"github.com/kitchenmania/pantry/internal/units"
	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned to new items that arrive without one
const DefaultCategory = "Uncategorized"

// PantryItem represents a tracked grocery item
type PantryItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	Category  string    `json:"category"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Qty returns the item's stock as a Quantity
func (p PantryItem) Qty() units.Quantity {
	return units.Q(p.Quantity, p.Unit)
}

// ParsedLineItem is one grocery line produced by a text or receipt parser
type ParsedLineItem struct {
	Name     string  `json:"name" msgpack:"name"`
	Quantity float64 `json:"quantity" msgpack:"quantity"`
	Unit     string  `json:"unit" msgpack:"unit"`
	Category string  `json:"category,omitempty" msgpack:"category,omitempty"`
	Exists   bool    `json:"exists,omitempty" msgpack:"-"`
}

// Qty returns the parsed amount as a Quantity
func (p ParsedLineItem) Qty() units.Quantity {
	return units.Q(p.Quantity, p.Unit)
}

// PriceRecord is one observed purchase price
type PriceRecord struct {
	ID          string          `json:"id"`
	ItemName    string          `json:"item_name"`
	Store       string          `json:"store"`
	Price       decimal.Decimal `json:"price"`
	Quantity    float64         `json:"quantity"`
	Unit        string          `json:"unit"`
	PurchasedAt time.Time       `json:"purchased_at"`
}

// Recipe is a saved or suggested recipe
type Recipe struct {
	ID              string       `json:"id,omitempty"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Servings        int          `json:"servings,omitempty"`
	Ingredients     []Ingredient `json:"ingredients"`
	UsageFromPantry []Usage      `json:"usageFromPantry,omitempty"`
	Instructions    []string     `json:"instructions,omitempty"`
	CreatedAt       time.Time    `json:"created_at,omitempty"`
}

// Usage is the amount of a pantry item a recipe consumes
type Usage struct {
	ItemID   string  `json:"itemId"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Qty returns the usage as a Quantity
func (u Usage) Qty() units.Quantity {
	return units.Q(u.Quantity, u.Unit)
}
