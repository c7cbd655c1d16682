package units

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompatibleUnits is returned when two units cannot be converted or merged
	ErrIncompatibleUnits = errors.New("incompatible units")
	// ErrUnknownUnit marks a unit symbol missing from the unit table
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrNegativeAmount is returned for negative magnitudes
	ErrNegativeAmount = errors.New("negative amount")
	// ErrInvalidAmount is returned for NaN and infinite magnitudes
	ErrInvalidAmount = errors.New("amount is not a finite number")
)

// IncompatibleError reports the unit pair that failed to convert
type IncompatibleError struct {
	From   string
	To     string
	Reason error // optional, e.g. ErrUnknownUnit
}

func (e *IncompatibleError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("incompatible units %q and %q: %v", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("incompatible units %q and %q", e.From, e.To)
}

// Is lets errors.Is match both ErrIncompatibleUnits and the reason
func (e *IncompatibleError) Is(target error) bool {
	return target == ErrIncompatibleUnits || (e.Reason != nil && target == e.Reason)
}
