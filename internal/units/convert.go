// Package units converts pantry quantities between the units of a category
// and picks readable display units. All functions are pure.
package units

import (
	"math"
	"strconv"
)

const (
	displayMin = 0.1
	displayMax = 1000
)

// Quantity is an amount expressed in a unit
type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Q is shorthand for building a Quantity
func Q(amount float64, unit string) Quantity {
	return Quantity{Amount: amount, Unit: unit}
}

func (q Quantity) String() string {
	return strconv.FormatFloat(q.Amount, 'f', -1, 64) + " " + q.Unit
}

// Equal reports whether both quantities denote the same amount.
// Quantities in different but convertible units compare after converting
// other into q's unit.
func (q Quantity) Equal(other Quantity) bool {
	if Normalize(q.Unit) == Normalize(other.Unit) {
		return q.Amount == other.Amount
	}
	v, err := Convert(other.Amount, other.Unit, q.Unit)
	return err == nil && v == q.Amount
}

// AreCompatible reports whether two units can be merged. Unknown units are
// only compatible with the identical symbol.
func AreCompatible(a, b string) bool {
	if Normalize(a) == Normalize(b) {
		return true
	}
	ca, okA := CategoryOf(a)
	cb, okB := CategoryOf(b)
	return okA && okB && ca == cb
}

// Convert expresses amount (given in from) in the to unit, rounded to two
// decimals. Identical units return amount unchanged.
func Convert(amount float64, from, to string) (float64, error) {
	if !finite(amount) {
		return 0, ErrInvalidAmount
	}
	if Normalize(from) == Normalize(to) {
		return amount, nil
	}
	if amount < 0 {
		return 0, ErrNegativeAmount
	}

	uf, okF := Lookup(from)
	ut, okT := Lookup(to)
	if !okF || !okT {
		return 0, &IncompatibleError{From: from, To: to, Reason: ErrUnknownUnit}
	}
	if uf.Category != ut.Category || !uf.HasFactor || !ut.HasFactor {
		return 0, &IncompatibleError{From: from, To: to}
	}

	base := amount * uf.Factor
	return round2(base / ut.Factor), nil
}

// AddWithConversion adds q2 to q1. The result is always in q1's unit.
func AddWithConversion(q1, q2 Quantity) (Quantity, error) {
	v, err := convertOperand(q1, q2)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Amount: round2(q1.Amount + v), Unit: q1.Unit}, nil
}

// SubtractWithConversion removes q2 from q1, clamping at zero. The result
// is always in q1's unit.
func SubtractWithConversion(q1, q2 Quantity) (Quantity, error) {
	v, err := convertOperand(q1, q2)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Amount: math.Max(0, round2(q1.Amount-v)), Unit: q1.Unit}, nil
}

func convertOperand(q1, q2 Quantity) (float64, error) {
	if !finite(q1.Amount) || !finite(q2.Amount) {
		return 0, ErrInvalidAmount
	}
	if q1.Amount < 0 || q2.Amount < 0 {
		return 0, ErrNegativeAmount
	}
	if !AreCompatible(q1.Unit, q2.Unit) {
		return 0, &IncompatibleError{From: q2.Unit, To: q1.Unit}
	}
	return Convert(q2.Amount, q2.Unit, q1.Unit)
}

// BestDisplayUnit re-expresses q in the unit of its category that yields
// the smallest amount within [0.1, 1000). Quantities already in range, in
// unknown units, or with no suitable unit are returned unchanged.
func BestDisplayUnit(q Quantity) Quantity {
	c, ok := CategoryOf(q.Unit)
	if !ok || inDisplayRange(q.Amount) {
		return q
	}

	best := q
	found := false
	for _, u := range Units(c) {
		v, err := Convert(q.Amount, q.Unit, u.Symbol)
		if err != nil || !inDisplayRange(v) {
			continue
		}
		if !found || v < best.Amount {
			best = Quantity{Amount: v, Unit: u.Symbol}
			found = true
		}
	}
	return best
}

func inDisplayRange(v float64) bool {
	return v >= displayMin && v < displayMax
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
