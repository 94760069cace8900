package denom

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeTotal is returned when the total to decompose is negative.
	ErrNegativeTotal = errors.New("total must be a non-negative integer")
	// ErrNoUnits is returned when the value map contains no units.
	ErrNoUnits = errors.New("value map must contain at least one unit")
	// ErrInvalidUnitValue is returned when a unit value is zero or negative.
	ErrInvalidUnitValue = errors.New("unit values must be positive integers")
	// ErrInvalidUnitName is returned when a unit name is empty.
	ErrInvalidUnitName = errors.New("unit names must be non-empty")
	// ErrReservedUnitName is returned when a unit is named after the reserved remainder key.
	ErrReservedUnitName = errors.New("unit name is reserved for the remainder entry")
	// ErrUnknownUnit is returned when a count references a unit absent from the value map.
	ErrUnknownUnit = errors.New("unknown unit")
)

// UnknownUnitError identifies the count set entry whose name is absent from
// the value map. It unwraps to ErrUnknownUnit so callers can match either the
// sentinel or the concrete type.
type UnknownUnitError struct {
	Unit string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q", e.Unit)
}

func (e *UnknownUnitError) Unwrap() error {
	return ErrUnknownUnit
}
