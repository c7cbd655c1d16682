// Package pricing compares grocery prices across stores by normalizing
// each purchase to a price per base unit.
package pricing

import (
	"errors"
	"sort"
	"strings"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/units"
	"github.com/shopspring/decimal"
)

// ErrZeroQuantity is returned for records without a positive quantity
var ErrZeroQuantity = errors.New("price record has no quantity")

var baseUnits = map[units.Category]string{
	units.Weight: "g",
	units.Volume: "ml",
	units.Count:  "pcs",
}

// UnitPrice returns the price per base unit of the record's category and
// that unit. Units without conversion factors price per their own unit.
func UnitPrice(rec domain.PriceRecord) (decimal.Decimal, string, error) {
	if rec.Quantity <= 0 {
		return decimal.Zero, "", ErrZeroQuantity
	}

	qty, unit := rec.Quantity, units.Normalize(rec.Unit)
	if u, ok := units.Lookup(rec.Unit); ok && u.HasFactor {
		qty, unit = rec.Quantity*u.Factor, baseUnits[u.Category]
	}
	return rec.Price.Div(decimal.NewFromFloat(qty)), unit, nil
}

// Entry is a record with its normalized price
type Entry struct {
	Record    domain.PriceRecord `json:"record"`
	UnitPrice decimal.Decimal    `json:"unit_price"`
}

// Comparison ranks comparable records from cheapest to most expensive
type Comparison struct {
	BaseUnit     string               `json:"base_unit"`
	Entries      []Entry              `json:"entries"`
	Cheapest     *Entry               `json:"cheapest,omitempty"`
	Incomparable []domain.PriceRecord `json:"incomparable,omitempty"`
}

// Compare ranks records by unit price. The first usable record decides the
// base unit; records in other categories end up in Incomparable.
func Compare(records []domain.PriceRecord) Comparison {
	cmp := Comparison{Entries: []Entry{}}
	for _, rec := range records {
		price, unit, err := UnitPrice(rec)
		if err != nil {
			cmp.Incomparable = append(cmp.Incomparable, rec)
			continue
		}
		if cmp.BaseUnit == "" {
			cmp.BaseUnit = unit
		}
		if unit != cmp.BaseUnit {
			cmp.Incomparable = append(cmp.Incomparable, rec)
			continue
		}
		cmp.Entries = append(cmp.Entries, Entry{Record: rec, UnitPrice: price})
	}

	sort.SliceStable(cmp.Entries, func(i, j int) bool {
		return cmp.Entries[i].UnitPrice.LessThan(cmp.Entries[j].UnitPrice)
	})
	if len(cmp.Entries) > 0 {
		cheapest := cmp.Entries[0]
		cmp.Cheapest = &cheapest
	}
	return cmp
}

// StoreHistory is one store's price series for an item
type StoreHistory struct {
	Store   string               `json:"store"`
	Records []domain.PriceRecord `json:"records"`
}

// History groups records by store (case-insensitive) in chronological order
func History(records []domain.PriceRecord) []StoreHistory {
	byStore := make(map[string]*StoreHistory)
	var keys []string
	for _, rec := range records {
		key := strings.ToLower(strings.TrimSpace(rec.Store))
		h, ok := byStore[key]
		if !ok {
			h = &StoreHistory{Store: strings.TrimSpace(rec.Store)}
			byStore[key] = h
			keys = append(keys, key)
		}
		h.Records = append(h.Records, rec)
	}

	sort.Strings(keys)
	out := make([]StoreHistory, 0, len(keys))
	for _, k := range keys {
		h := byStore[k]
		sort.SliceStable(h.Records, func(i, j int) bool {
			return h.Records[i].PurchasedAt.Before(h.Records[j].PurchasedAt)
		})
		out = append(out, *h)
	}
	return out
}
