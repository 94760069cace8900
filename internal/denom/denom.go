package denom

import (
	"sort"

	"github.com/govalues/decimal"
)

type greedyConverter struct{}

// New creates a Converter based on a single greedy pass.
func New() Converter {
	return &greedyConverter{}
}

func (c *greedyConverter) Decompose(values ValueMap, total int64) (Decomposition, error) {
	if total < 0 {
		return Decomposition{}, ErrNegativeTotal
	}
	units, err := orderUnits(values)
	if err != nil {
		return Decomposition{}, err
	}

	counts := make(map[string]int64, len(units))
	remaining := total
	for _, u := range units {
		if u.value > remaining {
			continue
		}
		count := remaining / u.value
		counts[u.name] = count
		remaining -= count * u.value
	}

	return Decomposition{Counts: counts, Remainder: remaining}, nil
}

func (c *greedyConverter) Total(values ValueMap, counts CountSet) (decimal.Decimal, error) {
	if err := Validate(values); err != nil {
		return decimal.Decimal{}, err
	}

	// Sorted iteration keeps the accumulation order, and therefore any
	// overflow error, deterministic across calls.
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	var total decimal.Decimal
	for _, name := range names {
		value, ok := values[name]
		if !ok {
			return decimal.Decimal{}, &UnknownUnitError{Unit: name}
		}
		unitValue, err := decimal.New(value, 0)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total, err = counts[name].FMA(unitValue, total)
		if err != nil {
			return decimal.Decimal{}, err
		}
	}

	return total, nil
}

// Validate checks a value map against the shared rules: at least one unit,
// positive values, no empty names, and no use of the reserved remainder key.
func Validate(values ValueMap) error {
	if len(values) == 0 {
		return ErrNoUnits
	}
	for name, value := range values {
		if name == "" {
			return ErrInvalidUnitName
		}
		if name == RemainderKey {
			return ErrReservedUnitName
		}
		if value <= 0 {
			return ErrInvalidUnitValue
		}
	}
	return nil
}

type unit struct {
	name  string
	value int64
}

// orderUnits validates the value map and returns its units ordered by
// descending value. Equal values fall back to name order so results are
// deterministic.
func orderUnits(values ValueMap) ([]unit, error) {
	if err := Validate(values); err != nil {
		return nil, err
	}

	units := make([]unit, 0, len(values))
	for name, value := range values {
		units = append(units, unit{name: name, value: value})
	}
	sort.Slice(units, func(i, j int) bool {
		if units[i].value != units[j].value {
			return units[i].value > units[j].value
		}
		return units[i].name < units[j].name
	})

	return units, nil
}
