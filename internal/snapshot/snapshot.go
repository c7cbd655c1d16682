// Package snapshot reads and writes pantry backups in msgpack.
package snapshot

import (
	"fmt"
	"io"
	"time"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/vmihailenco/msgpack/v5"
)

// Version is the current backup format version
const Version = 1

// File is a pantry backup
type File struct {
	Version    int    `msgpack:"version"`
	ExportedAt int64  `msgpack:"exported_at"` // unix ms
	Items      []Item `msgpack:"items"`
}

// Item is one backed-up pantry item
type Item struct {
	Name     string  `msgpack:"name"`
	Quantity float64 `msgpack:"quantity"`
	Unit     string  `msgpack:"unit,omitempty"`
	Category string  `msgpack:"category,omitempty"`
}

// Write encodes the pantry to w
func Write(w io.Writer, items []domain.PantryItem) error {
	f := File{
		Version:    Version,
		ExportedAt: time.Now().UnixMilli(),
		Items:      make([]Item, len(items)),
	}
	for i, it := range items {
		f.Items[i] = Item{Name: it.Name, Quantity: it.Quantity, Unit: it.Unit, Category: it.Category}
	}

	if err := msgpack.NewEncoder(w).Encode(&f); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Read decodes a backup from r
func Read(r io.Reader) (*File, error) {
	var f File
	if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if f.Version > Version {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", f.Version, Version)
	}
	return &f, nil
}

// LineItems turns the backup into parsed items so it can be reconciled
// against the current pantry
func (f *File) LineItems() []domain.ParsedLineItem {
	out := make([]domain.ParsedLineItem, len(f.Items))
	for i, it := range f.Items {
		out[i] = domain.ParsedLineItem{Name: it.Name, Quantity: it.Quantity, Unit: it.Unit, Category: it.Category}
	}
	return out
}
