package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/reconcile"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a row does not exist
var ErrNotFound = errors.New("not found")

// Store handles database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *Store) Ping() error {
	return s.db.Ping()
}

const itemColumns = "id, name, quantity, unit, category, position, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.PantryItem, error) {
	var it domain.PantryItem
	err := row.Scan(&it.ID, &it.Name, &it.Quantity, &it.Unit, &it.Category, &it.Position, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func scanItems(rows *sql.Rows) ([]domain.PantryItem, error) {
	defer rows.Close()

	var items []domain.PantryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func insertItem(e execer, name string, quantity float64, unit, category string) (*domain.PantryItem, error) {
	if strings.TrimSpace(category) == "" {
		category = domain.DefaultCategory
	}

	var position int
	if err := e.QueryRow("SELECT COALESCE(MAX(position), -1) + 1 FROM pantry_items").Scan(&position); err != nil {
		return nil, fmt.Errorf("next position: %w", err)
	}

	it := domain.PantryItem{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Quantity:  quantity,
		Unit:      unit,
		Category:  category,
		Position:  position,
		CreatedAt: time.Now(),
	}
	it.UpdatedAt = it.CreatedAt

	_, err := e.Exec(
		"INSERT INTO pantry_items ("+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		it.ID, it.Name, it.Quantity, it.Unit, it.Category, it.Position, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return &it, nil
}

// AddItem creates a pantry item at the end of the list
func (s *Store) AddItem(name string, quantity float64, unit, category string) (*domain.PantryItem, error) {
	return insertItem(s.db, name, quantity, unit, category)
}

func getItem(e execer, id string) (*domain.PantryItem, error) {
	it, err := scanItem(e.QueryRow("SELECT "+itemColumns+" FROM pantry_items WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetItem retrieves an item by ID
func (s *Store) GetItem(id string) (*domain.PantryItem, error) {
	return getItem(s.db, id)
}

// ListItems returns all items in display order
func (s *Store) ListItems() ([]domain.PantryItem, error) {
	rows, err := s.db.Query("SELECT " + itemColumns + " FROM pantry_items ORDER BY position, created_at")
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return scanItems(rows)
}

// SearchItems performs a simple name search
func (s *Store) SearchItems(query string) ([]domain.PantryItem, error) {
	rows, err := s.db.Query(
		"SELECT "+itemColumns+" FROM pantry_items WHERE name LIKE ? ORDER BY position, created_at",
		"%"+query+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return scanItems(rows)
}

func setQuantity(e execer, id string, quantity float64, unit string) error {
	res, err := e.Exec(
		"UPDATE pantry_items SET quantity = ?, unit = ?, updated_at = ? WHERE id = ?",
		quantity, unit, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update item %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateQuantity overwrites an item's stock
func (s *Store) UpdateQuantity(id string, quantity float64, unit string) (*domain.PantryItem, error) {
	if err := setQuantity(s.db, id, quantity, unit); err != nil {
		return nil, err
	}
	return s.GetItem(id)
}

// RenameItem changes an item's name and category
func (s *Store) RenameItem(id, name, category string) (*domain.PantryItem, error) {
	res, err := s.db.Exec(
		"UPDATE pantry_items SET name = ?, category = ?, updated_at = ? WHERE id = ?",
		strings.TrimSpace(name), category, time.Now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("rename item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("rename item %s: %w", id, ErrNotFound)
	}
	return s.GetItem(id)
}

// DeleteItem removes an item
func (s *Store) DeleteItem(id string) error {
	res, err := s.db.Exec("DELETE FROM pantry_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete item %s: %w", id, ErrNotFound)
	}
	return nil
}

// ReorderItems stores the given order; ids not listed keep their position
// after the listed ones
func (s *Store) ReorderItems(ids []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE pantry_items SET position = position + ?", len(ids)); err != nil {
		return fmt.Errorf("shift positions: %w", err)
	}
	for i, id := range ids {
		if _, err := tx.Exec("UPDATE pantry_items SET position = ? WHERE id = ?", i, id); err != nil {
			return fmt.Errorf("reorder item: %w", err)
		}
	}
	return tx.Commit()
}

// Snapshot returns the read-only view used for reconciliation
func (s *Store) Snapshot() ([]reconcile.PantryItem, error) {
	items, err := s.ListItems()
	if err != nil {
		return nil, err
	}
	return reconcile.Snapshot(items), nil
}

// ItemNames lists the names of all items in display order
func (s *Store) ItemNames() ([]string, error) {
	items, err := s.ListItems()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names, nil
}
