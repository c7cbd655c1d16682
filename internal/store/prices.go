package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kitchenmania/pantry/internal/domain"
)

// AddPrice records an observed price
func (s *Store) AddPrice(rec domain.PriceRecord) (*domain.PriceRecord, error) {
	rec.ID = uuid.New().String()
	rec.ItemName = strings.TrimSpace(rec.ItemName)
	rec.Store = strings.TrimSpace(rec.Store)
	if rec.PurchasedAt.IsZero() {
		rec.PurchasedAt = time.Now()
	}

	_, err := s.db.Exec(
		"INSERT INTO price_records (id, item_name, store, price, quantity, unit, purchased_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.ItemName, rec.Store, rec.Price, rec.Quantity, rec.Unit, rec.PurchasedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert price: %w", err)
	}
	return &rec, nil
}

// ListPrices returns price records for an item name (case-insensitive),
// or all records when itemName is empty, oldest first
func (s *Store) ListPrices(itemName string) ([]domain.PriceRecord, error) {
	query := "SELECT id, item_name, store, price, quantity, unit, purchased_at FROM price_records"
	var args []any
	if strings.TrimSpace(itemName) != "" {
		query += " WHERE item_name = ? COLLATE NOCASE"
		args = append(args, strings.TrimSpace(itemName))
	}
	query += " ORDER BY purchased_at"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	defer rows.Close()

	var records []domain.PriceRecord
	for rows.Next() {
		var r domain.PriceRecord
		if err := rows.Scan(&r.ID, &r.ItemName, &r.Store, &r.Price, &r.Quantity, &r.Unit, &r.PurchasedAt); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
