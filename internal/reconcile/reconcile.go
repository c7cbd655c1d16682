// Package reconcile decides, for a batch of parsed grocery lines, which ones
// top up an existing pantry item and which ones become new items.
package reconcile

import (
	"errors"
	"math"
	"strings"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/units"
)

// PantryItem is the read-only view of a stored item used for matching
type PantryItem struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Quantity units.Quantity `json:"quantity"`
}

// Snapshot converts stored items into matching views
func Snapshot(items []domain.PantryItem) []PantryItem {
	out := make([]PantryItem, len(items))
	for i, it := range items {
		out[i] = PantryItem{ID: it.ID, Name: it.Name, Quantity: it.Qty()}
	}
	return out
}

// Update tops up an existing pantry item
type Update struct {
	Item        PantryItem            `json:"item"`
	Parsed      domain.ParsedLineItem `json:"parsed"`
	AddQuantity units.Quantity        `json:"add_quantity"`
	// NewTotal is nil when the line could not be merged
	NewTotal     *units.Quantity `json:"new_total,omitempty"`
	Incompatible bool            `json:"incompatible,omitempty"`
	Reason       string          `json:"reason,omitempty"`
}

// Result partitions a batch into new items and updates, in input order
type Result struct {
	NewItems []domain.ParsedLineItem `json:"new_items"`
	Updates  []Update                `json:"updates"`
}

// Unresolved returns the updates that could not be merged
func (r Result) Unresolved() []Update {
	var out []Update
	for _, u := range r.Updates {
		if u.NewTotal == nil {
			out = append(out, u)
		}
	}
	return out
}

// NormalizeName is the only fuzziness allowed when matching names
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Reconcile matches each parsed item against the pantry by normalized name.
// Every input item lands in exactly one of the two result lists.
func Reconcile(items []domain.ParsedLineItem, pantry []PantryItem) Result {
	byName := make(map[string]PantryItem, len(pantry))
	for _, p := range pantry {
		key := NormalizeName(p.Name)
		if _, dup := byName[key]; !dup {
			byName[key] = p
		}
	}

	res := Result{
		NewItems: []domain.ParsedLineItem{},
		Updates:  []Update{},
	}
	for _, it := range items {
		existing, ok := byName[NormalizeName(it.Name)]
		if !ok {
			if strings.TrimSpace(it.Category) == "" {
				it.Category = domain.DefaultCategory
			}
			res.NewItems = append(res.NewItems, it)
			continue
		}
		res.Updates = append(res.Updates, merge(existing, it))
	}
	return res
}

func merge(existing PantryItem, it domain.ParsedLineItem) Update {
	u := Update{Item: existing, Parsed: it, AddQuantity: it.Qty()}

	total, err := Add(existing.Quantity, it.Qty())
	if err != nil {
		// surfaced for manual resolution, never dropped
		u.Incompatible = errors.Is(err, units.ErrIncompatibleUnits)
		u.Reason = err.Error()
		return u
	}
	u.NewTotal = &total

	if units.Normalize(it.Unit) != units.Normalize(existing.Quantity.Unit) {
		if v, err := units.Convert(it.Quantity, it.Unit, existing.Quantity.Unit); err == nil {
			u.AddQuantity = units.Q(v, existing.Quantity.Unit)
		}
	}
	return u
}

// Add tops up stock with add. Identical units are summed directly and
// clamped at zero; other units go through units.AddWithConversion.
func Add(stock, add units.Quantity) (units.Quantity, error) {
	if units.Normalize(stock.Unit) != units.Normalize(add.Unit) {
		return units.AddWithConversion(stock, add)
	}
	if math.IsNaN(add.Amount) || math.IsInf(add.Amount, 0) {
		return stock, units.ErrInvalidAmount
	}
	sum := math.Round((stock.Amount+add.Amount)*100) / 100
	return units.Q(math.Max(0, sum), stock.Unit), nil
}

// Deduct removes a recipe usage from an item's stock. Incompatible usages
// return units.ErrIncompatibleUnits and leave the stock as it was.
func Deduct(item PantryItem, usage units.Quantity) (units.Quantity, error) {
	left, err := units.SubtractWithConversion(item.Quantity, usage)
	if err != nil {
		return item.Quantity, err
	}
	return left, nil
}
