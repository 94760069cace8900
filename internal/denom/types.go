package denom

import "github.com/govalues/decimal"

// RemainderKey is the name reserved on the wire for leftover value the greedy
// pass could not represent. Validation rejects it as a unit name so it can
// never collide with a real unit.
const RemainderKey = "_remainder"

// ValueMap maps a unit name to its positive integer value.
type ValueMap map[string]int64

// CountSet maps a unit name to a count. Counts need not be integers and need
// not originate from Decompose.
type CountSet map[string]decimal.Decimal

// Decomposition holds the result of a greedy decomposition. Units with a zero
// count are omitted from Counts. Remainder is kept separate from the counts
// so it never shares a namespace with unit names.
type Decomposition struct {
	Counts    map[string]int64
	Remainder int64
}

// HasRemainder reports whether part of the total could not be represented.
func (d Decomposition) HasRemainder() bool {
	return d.Remainder > 0
}

// CountSet converts the integer counts into a CountSet, allowing a
// decomposition to be fed back through Total.
func (d Decomposition) CountSet() CountSet {
	counts := make(CountSet, len(d.Counts))
	for name, count := range d.Counts {
		counts[name] = decimal.MustNew(count, 0)
	}
	return counts
}

// Converter describes the behaviour required from a denomination converter.
type Converter interface {
	Decompose(values ValueMap, total int64) (Decomposition, error)
	Total(values ValueMap, counts CountSet) (decimal.Decimal, error)
}
