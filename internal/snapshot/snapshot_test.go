package snapshot

import (
	"bytes"
	"testing"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/reconcile"
	"github.com/kitchenmania/pantry/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestRestoreMergesIntoPantry(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []domain.PantryItem{
		{ID: "x", Name: "Milk", Quantity: 500, Unit: "ml", Category: "Dairy"},
		{ID: "y", Name: "Oats", Quantity: 1, Unit: "kg", Category: "Pantry"},
	}))

	f, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, Version, f.Version)
	assert.NotZero(t, f.ExportedAt)

	current := []reconcile.PantryItem{{ID: "m", Name: "milk", Quantity: units.Q(1, "l")}}
	res := reconcile.Reconcile(f.LineItems(), current)

	require.Len(t, res.Updates, 1)
	assert.Equal(t, units.Q(1.5, "l"), *res.Updates[0].NewTotal)
	require.Len(t, res.NewItems, 1)
	assert.Equal(t, "Oats", res.NewItems[0].Name)
	assert.Equal(t, "Pantry", res.NewItems[0].Category)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not msgpack")))
	assert.Error(t, err)

	b, err := msgpack.Marshal(&File{Version: Version + 1})
	require.NoError(t, err)
	_, err = Read(bytes.NewReader(b))
	assert.ErrorContains(t, err, "newer than supported")
}
