package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/reconcile"
	"github.com/kitchenmania/pantry/internal/units"
)

// ApplyReport describes what ApplyReconciliation wrote
type ApplyReport struct {
	Created    []domain.PantryItem `json:"created"`
	Updated    []domain.PantryItem `json:"updated"`
	Unresolved []reconcile.Update  `json:"unresolved"`
}

// ApplyReconciliation inserts new items and tops up existing ones in a
// single transaction. Each top-up is added to the row as currently stored,
// so several updates of the same item in one batch accumulate. Updates
// that cannot be merged, or whose item has since been removed, are
// returned untouched in Unresolved.
func (s *Store) ApplyReconciliation(ctx context.Context, res reconcile.Result) (*ApplyReport, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin apply: %w", err)
	}
	defer tx.Rollback()

	report := &ApplyReport{
		Created:    []domain.PantryItem{},
		Updated:    []domain.PantryItem{},
		Unresolved: []reconcile.Update{},
	}

	for _, it := range res.NewItems {
		created, err := insertItem(tx, it.Name, it.Quantity, it.Unit, it.Category)
		if err != nil {
			return nil, err
		}
		report.Created = append(report.Created, *created)
	}

	for _, up := range res.Updates {
		if up.NewTotal == nil {
			report.Unresolved = append(report.Unresolved, up)
			continue
		}

		current, err := getItem(tx, up.Item.ID)
		if errors.Is(err, ErrNotFound) {
			// removed since the snapshot was taken
			up.NewTotal = nil
			up.Reason = "item no longer in pantry"
			report.Unresolved = append(report.Unresolved, up)
			continue
		}
		if err != nil {
			return nil, err
		}
		total, err := reconcile.Add(current.Qty(), up.AddQuantity)
		if err != nil {
			// stock unit changed since the snapshot was taken
			up.Incompatible = errors.Is(err, units.ErrIncompatibleUnits)
			up.NewTotal = nil
			up.Reason = err.Error()
			report.Unresolved = append(report.Unresolved, up)
			continue
		}
		if err := setQuantity(tx, current.ID, total.Amount, total.Unit); err != nil {
			return nil, err
		}
		current.Quantity, current.Unit = total.Amount, total.Unit
		report.Updated = append(report.Updated, *current)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit apply: %w", err)
	}
	return report, nil
}
