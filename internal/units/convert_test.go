package units

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		unit   string
		want   Category
		wantOK bool
	}{
		{"g", Weight, true},
		{" KG ", Weight, true},
		{"Lbs", Weight, true},
		{"fl oz", Volume, true},
		{"FL   OZ", Volume, true},
		{"cups", Volume, true},
		{"each", Count, true},
		{"inch", Length, true},
		{"handful", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			got, ok := CategoryOf(tt.unit)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAreCompatible(t *testing.T) {
	assert.True(t, AreCompatible("kg", "g"))
	assert.True(t, AreCompatible("cup", "ML"))
	assert.True(t, AreCompatible("pcs", "each"))
	assert.True(t, AreCompatible("cm", "ft"))
	assert.True(t, AreCompatible("handful", " Handful "))

	assert.False(t, AreCompatible("kg", "ml"))
	assert.False(t, AreCompatible("pcs", "g"))
	assert.False(t, AreCompatible("handful", "pinch"))
	assert.False(t, AreCompatible("handful", "g"))
}

func TestAreCompatible_Symmetric(t *testing.T) {
	symbols := append(Symbols(), "handful", "HANDFUL", "", "pinch")
	for _, a := range symbols {
		for _, b := range symbols {
			assert.Equal(t, AreCompatible(a, b), AreCompatible(b, a), "%q vs %q", a, b)
		}
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		from   string
		to     string
		want   float64
	}{
		{"kg to g", 1.5, "kg", "g", 1500},
		{"g to kg", 500, "g", "kg", 0.5},
		{"l to ml", 2, "l", "ml", 2000},
		{"cup to ml", 1, "cup", "ml", 240},
		{"tbsp to tsp", 1, "tbsp", "tsp", 3},
		{"lb to g rounds", 1, "lb", "g", 453.59},
		{"oz to g rounds", 2, "oz", "g", 56.7},
		{"ml to fl oz", 100, "ml", "fl oz", 3.38},
		{"pieces to pcs", 6, "pieces", "pcs", 6},
		{"case insensitive", 1, "KG", "G", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.amount, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvert_Identity(t *testing.T) {
	for _, x := range []float64{0, 0.001, 1.23456, 1e9, -3} {
		for _, unit := range append(Symbols(), "handful") {
			got, err := Convert(x, unit, unit)
			require.NoError(t, err)
			assert.Equal(t, x, got)
		}
	}

	got, err := Convert(0.333333, "Kg", " kg")
	require.NoError(t, err)
	assert.Equal(t, 0.333333, got)
}

func TestConvert_Incompatible(t *testing.T) {
	tests := []struct {
		from, to string
		unknown  bool
	}{
		{"kg", "ml", false},
		{"pcs", "g", false},
		{"cm", "m", false},
		{"inch", "ft", false},
		{"handful", "g", true},
		{"g", "pinch", true},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			_, err := Convert(5, tt.from, tt.to)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIncompatibleUnits))
			assert.Equal(t, tt.unknown, errors.Is(err, ErrUnknownUnit))

			var ie *IncompatibleError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.from, ie.From)
			assert.Equal(t, tt.to, ie.To)
		})
	}
}

func TestConvert_NegativeAmount(t *testing.T) {
	_, err := Convert(-1, "kg", "g")
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestConvert_NonFiniteAmount(t *testing.T) {
	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Convert(x, "kg", "g")
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = Convert(x, "kg", "kg")
		assert.ErrorIs(t, err, ErrInvalidAmount, "identical units are checked too")

		_, err = AddWithConversion(Q(1, "kg"), Q(x, "g"))
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = SubtractWithConversion(Q(x, "kg"), Q(1, "g"))
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

// Converting into a smaller unit and back loses at most two roundings.
func TestConvert_RoundTrip(t *testing.T) {
	for _, c := range []Category{Weight, Volume, Count} {
		us := Units(c)
		for _, a := range us {
			for _, b := range us {
				if b.Factor > a.Factor {
					continue
				}
				for _, x := range []float64{0, 1, 2.5, 12.34, 999.99} {
					there, err := Convert(x, a.Symbol, b.Symbol)
					require.NoError(t, err)
					back, err := Convert(there, b.Symbol, a.Symbol)
					require.NoError(t, err)
					assert.InDelta(t, x, back, 0.02, "%v %s -> %s", x, a.Symbol, b.Symbol)
				}
			}
		}
	}
}

func TestAddWithConversion(t *testing.T) {
	got, err := AddWithConversion(Q(1, "kg"), Q(500, "g"))
	require.NoError(t, err)
	assert.Equal(t, Q(1.5, "kg"), got)

	// left operand decides the unit
	got, err = AddWithConversion(Q(500, "g"), Q(1, "kg"))
	require.NoError(t, err)
	assert.Equal(t, Q(1500, "g"), got)

	got, err = AddWithConversion(Q(0.1, "l"), Q(0.2, "l"))
	require.NoError(t, err)
	assert.Equal(t, Q(0.3, "l"), got)

	got, err = AddWithConversion(Q(2, "Cup"), Q(240, "ml"))
	require.NoError(t, err)
	assert.Equal(t, Q(3, "Cup"), got)

	got, err = AddWithConversion(Q(2, "handful"), Q(1, "handful"))
	require.NoError(t, err)
	assert.Equal(t, Q(3, "handful"), got)
}

func TestAddWithConversion_Incompatible(t *testing.T) {
	_, err := AddWithConversion(Q(1, "kg"), Q(1, "l"))
	assert.ErrorIs(t, err, ErrIncompatibleUnits)

	_, err = AddWithConversion(Q(1, "m"), Q(20, "cm"))
	assert.ErrorIs(t, err, ErrIncompatibleUnits)

	_, err = AddWithConversion(Q(1, "handful"), Q(20, "g"))
	assert.ErrorIs(t, err, ErrIncompatibleUnits)
}

func TestSubtractWithConversion(t *testing.T) {
	got, err := SubtractWithConversion(Q(1, "kg"), Q(250, "g"))
	require.NoError(t, err)
	assert.Equal(t, Q(0.75, "kg"), got)

	got, err = SubtractWithConversion(Q(100, "ml"), Q(1, "cup"))
	require.NoError(t, err)
	assert.Equal(t, Q(0, "ml"), got, "never negative")

	_, err = SubtractWithConversion(Q(3, "pcs"), Q(100, "g"))
	assert.ErrorIs(t, err, ErrIncompatibleUnits)
}

func TestBestDisplayUnit(t *testing.T) {
	tests := []struct {
		name string
		in   Quantity
		want Quantity
	}{
		{"grams to kilograms", Q(1500, "g"), Q(1.5, "kg")},
		{"already in range", Q(50, "g"), Q(50, "g")},
		{"milligrams to kilograms", Q(250000, "mg"), Q(0.25, "kg")},
		{"lower bound is inclusive", Q(0.1, "kg"), Q(0.1, "kg")},
		{"unknown unit", Q(5000, "handful"), Q(5000, "handful")},
		{"length has no factors", Q(5000, "cm"), Q(5000, "cm")},
		{"zero stays", Q(0, "g"), Q(0, "g")},
		{"count synonyms cannot shrink", Q(5000, "pcs"), Q(5000, "pcs")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BestDisplayUnit(tt.in))
		})
	}
}

func TestQuantityEqual(t *testing.T) {
	assert.True(t, Q(1, "kg").Equal(Q(1, "KG")))
	assert.True(t, Q(1, "kg").Equal(Q(1000, "g")))
	assert.False(t, Q(1, "kg").Equal(Q(999, "g")))
	assert.False(t, Q(1, "kg").Equal(Q(1, "l")))
	assert.Equal(t, "1.5 kg", Q(1.5, "kg").String())
}
