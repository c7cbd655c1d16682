package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/reconcile"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "pantry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestItemsCRUD(t *testing.T) {
	s := newTestStore(t)

	milk, err := s.AddItem(" Milk ", 1, "l", "Dairy")
	require.NoError(t, err)
	assert.Equal(t, "Milk", milk.Name)
	assert.Equal(t, 0, milk.Position)

	eggs, err := s.AddItem("Eggs", 6, "pcs", "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategory, eggs.Category)
	assert.Equal(t, 1, eggs.Position)

	got, err := s.GetItem(milk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dairy", got.Category)

	updated, err := s.UpdateQuantity(milk.ID, 0.5, "l")
	require.NoError(t, err)
	assert.Equal(t, 0.5, updated.Quantity)

	renamed, err := s.RenameItem(eggs.ID, "Free range eggs", "Dairy")
	require.NoError(t, err)
	assert.Equal(t, "Free range eggs", renamed.Name)

	found, err := s.SearchItems("range")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, eggs.ID, found[0].ID)

	require.NoError(t, s.DeleteItem(milk.ID))
	_, err = s.GetItem(milk.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteItem(milk.ID), ErrNotFound)

	_, err = s.UpdateQuantity("missing", 1, "g")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorderItems(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddItem("a", 1, "pcs", "")
	b, _ := s.AddItem("b", 1, "pcs", "")
	c, _ := s.AddItem("c", 1, "pcs", "")

	require.NoError(t, s.ReorderItems([]string{c.ID, a.ID}))

	names, err := s.ItemNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, names)
	_ = b
}

func TestApplyReconciliation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddItem("Milk", 1, "l", "Dairy")
	require.NoError(t, err)
	_, err = s.AddItem("Rice", 1, "kg", "Pantry")
	require.NoError(t, err)

	snap, err := s.Snapshot()
	require.NoError(t, err)

	res := reconcile.Reconcile([]domain.ParsedLineItem{
		{Name: "milk", Quantity: 500, Unit: "ml"},
		{Name: "MILK", Quantity: 250, Unit: "ml"},
		{Name: "rice", Quantity: 2, Unit: "cups"},
		{Name: "Eggs", Quantity: 12, Unit: "pcs", Category: "Dairy"},
	}, snap)

	report, err := s.ApplyReconciliation(ctx, res)
	require.NoError(t, err)

	require.Len(t, report.Created, 1)
	assert.Equal(t, "Eggs", report.Created[0].Name)
	assert.Equal(t, 2, report.Created[0].Position)

	require.Len(t, report.Updated, 2)
	assert.Equal(t, 1.75, report.Updated[1].Quantity, "updates of the same item accumulate")

	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "rice", report.Unresolved[0].Parsed.Name)

	items, err := s.ListItems()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, 1.75, items[0].Quantity)
	assert.Equal(t, "l", items[0].Unit)
	assert.Equal(t, 1.0, items[1].Quantity, "incompatible update leaves stock alone")
}

func TestApplyReconciliation_ItemRemovedAfterSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	milk, err := s.AddItem("Milk", 1, "l", "Dairy")
	require.NoError(t, err)
	_, err = s.AddItem("Rice", 1, "kg", "Pantry")
	require.NoError(t, err)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	res := reconcile.Reconcile([]domain.ParsedLineItem{
		{Name: "milk", Quantity: 500, Unit: "ml"},
		{Name: "rice", Quantity: 500, Unit: "g"},
		{Name: "Eggs", Quantity: 6, Unit: "pcs"},
	}, snap)

	require.NoError(t, s.DeleteItem(milk.ID))

	report, err := s.ApplyReconciliation(ctx, res)
	require.NoError(t, err)

	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "milk", report.Unresolved[0].Parsed.Name)
	assert.Equal(t, "item no longer in pantry", report.Unresolved[0].Reason)
	assert.Nil(t, report.Unresolved[0].NewTotal)

	require.Len(t, report.Updated, 1)
	assert.Equal(t, 1.5, report.Updated[0].Quantity)
	require.Len(t, report.Created, 1)
	assert.Equal(t, "Eggs", report.Created[0].Name)
}

func TestApplyReconciliation_Empty(t *testing.T) {
	s := newTestStore(t)
	report, err := s.ApplyReconciliation(context.Background(), reconcile.Reconcile(nil, nil))
	require.NoError(t, err)
	assert.Empty(t, report.Created)
	assert.Empty(t, report.Updated)
	assert.Empty(t, report.Unresolved)
}

func TestPrices(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := s.AddPrice(domain.PriceRecord{ItemName: "Coffee", Store: "Aldi", Price: decimal.RequireFromString("4.99"), Quantity: 500, Unit: "g", PurchasedAt: day.Add(24 * time.Hour)})
	require.NoError(t, err)
	_, err = s.AddPrice(domain.PriceRecord{ItemName: "coffee ", Store: "Lidl", Price: decimal.RequireFromString("8.50"), Quantity: 1, Unit: "kg", PurchasedAt: day})
	require.NoError(t, err)
	_, err = s.AddPrice(domain.PriceRecord{ItemName: "Tea", Store: "Aldi", Price: decimal.RequireFromString("2"), Quantity: 20, Unit: "pcs"})
	require.NoError(t, err)

	coffee, err := s.ListPrices("COFFEE")
	require.NoError(t, err)
	require.Len(t, coffee, 2)
	assert.Equal(t, "Lidl", coffee[0].Store)
	assert.True(t, decimal.RequireFromString("8.5").Equal(coffee[0].Price))

	all, err := s.ListPrices("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecipesAndCooking(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	flour, _ := s.AddItem("Flour", 1, "kg", "Pantry")
	milk, _ := s.AddItem("Milk", 500, "ml", "Dairy")
	eggs, _ := s.AddItem("Eggs", 6, "pcs", "Dairy")

	saved, err := s.SaveRecipe(domain.Recipe{
		Title:       "Pancakes",
		Ingredients: []domain.Ingredient{{Name: "flour", Quantity: 250, Unit: "g"}},
		UsageFromPantry: []domain.Usage{
			{ItemID: flour.ID, Quantity: 250, Unit: "g"},
			{ItemID: milk.ID, Quantity: 1, Unit: "cup"},
			{ItemID: eggs.ID, Quantity: 100, Unit: "g"},
			{ItemID: "gone", Quantity: 1, Unit: "pcs"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	list, err := s.ListRecipes()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pancakes", list[0].Title)

	report, err := s.CookRecipe(ctx, saved.ID)
	require.NoError(t, err)
	assert.Len(t, report.Deducted, 2)
	assert.Len(t, report.Skipped, 2)

	f, _ := s.GetItem(flour.ID)
	assert.Equal(t, 0.75, f.Quantity)
	m, _ := s.GetItem(milk.ID)
	assert.Equal(t, 260.0, m.Quantity)
	e, _ := s.GetItem(eggs.ID)
	assert.Equal(t, 6.0, e.Quantity)

	require.NoError(t, s.DeleteRecipe(saved.ID))
	_, err = s.GetRecipe(saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.CookRecipe(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
