package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/reconcile"
)

// SaveRecipe stores a recipe and returns it with its new ID
func (s *Store) SaveRecipe(r domain.Recipe) (*domain.Recipe, error) {
	r.ID = uuid.New().String()
	r.CreatedAt = time.Now()

	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal recipe: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO recipes (id, title, body, created_at) VALUES (?, ?, ?, ?)",
		r.ID, r.Title, string(body), r.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	return &r, nil
}

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	var (
		id, body  string
		createdAt time.Time
	)
	if err := row.Scan(&id, &body, &createdAt); err != nil {
		return nil, err
	}

	var r domain.Recipe
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("decode recipe %s: %w", id, err)
	}
	r.ID = id
	r.CreatedAt = createdAt
	return &r, nil
}

// GetRecipe retrieves a recipe by ID
func (s *Store) GetRecipe(id string) (*domain.Recipe, error) {
	r, err := scanRecipe(s.db.QueryRow("SELECT id, body, created_at FROM recipes WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get recipe %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return r, nil
}

// ListRecipes returns saved recipes, newest first
func (s *Store) ListRecipes() ([]domain.Recipe, error) {
	rows, err := s.db.Query("SELECT id, body, created_at FROM recipes ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []domain.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	return recipes, rows.Err()
}

// DeleteRecipe removes a recipe
func (s *Store) DeleteRecipe(id string) error {
	res, err := s.db.Exec("DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete recipe %s: %w", id, ErrNotFound)
	}
	return nil
}

// SkippedUsage is a recipe usage that could not be deducted
type SkippedUsage struct {
	Usage  domain.Usage `json:"usage"`
	Reason string       `json:"reason"`
}

// CookReport describes the stock changes made by CookRecipe
type CookReport struct {
	Recipe   domain.Recipe       `json:"recipe"`
	Deducted []domain.PantryItem `json:"deducted"`
	Skipped  []SkippedUsage      `json:"skipped"`
}

// CookRecipe deducts every pantry usage of a recipe in one transaction.
// Usages of missing items or in incompatible units are skipped and reported.
func (s *Store) CookRecipe(ctx context.Context, id string) (*CookReport, error) {
	recipe, err := s.GetRecipe(id)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin cook: %w", err)
	}
	defer tx.Rollback()

	report := &CookReport{
		Recipe:   *recipe,
		Deducted: []domain.PantryItem{},
		Skipped:  []SkippedUsage{},
	}
	for _, u := range recipe.UsageFromPantry {
		item, err := getItem(tx, u.ItemID)
		if errors.Is(err, ErrNotFound) {
			report.Skipped = append(report.Skipped, SkippedUsage{Usage: u, Reason: "item not in pantry"})
			continue
		}
		if err != nil {
			return nil, err
		}

		snap := reconcile.PantryItem{ID: item.ID, Name: item.Name, Quantity: item.Qty()}
		left, err := reconcile.Deduct(snap, u.Qty())
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedUsage{Usage: u, Reason: err.Error()})
			continue
		}
		if err := setQuantity(tx, item.ID, left.Amount, left.Unit); err != nil {
			return nil, err
		}
		item.Quantity = left.Amount
		report.Deducted = append(report.Deducted, *item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cook: %w", err)
	}
	return report, nil
}
