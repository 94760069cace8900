package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eugenenazirov/denominator/internal/denom"
)

const maxUnits = 64

var (
	// ErrInvalidValueMap indicates the provided unit table violates validation rules.
	ErrInvalidValueMap = errors.New("value map must contain between 1 and 64 named units with positive values")
)

// defaultValueMap is the pre-decimal sterling table: 240 pence to the pound,
// 20 to the shilling.
var defaultValueMap = denom.ValueMap{
	"pound":    240,
	"shilling": 20,
	"penny":    1,
}

// Storage provides access to the unit table used by the converter.
type Storage interface {
	GetValueMap() (denom.ValueMap, error)
	SetValueMap(values denom.ValueMap) error
}

// MemoryStorage keeps the unit table in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu     sync.RWMutex
	values denom.ValueMap
}

// NewMemoryStorage initialises storage with a copy of the default unit table.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: clone(defaultValueMap),
	}
}

// DefaultValueMap returns a copy of the default unit table.
func DefaultValueMap() denom.ValueMap {
	return clone(defaultValueMap)
}

// GetValueMap returns a defensive copy of the currently configured unit table.
func (s *MemoryStorage) GetValueMap() (denom.ValueMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.values), nil
}

// SetValueMap validates and stores a copy of the provided unit table.
func (s *MemoryStorage) SetValueMap(values denom.ValueMap) error {
	if err := validateValueMap(values); err != nil {
		return err
	}

	s.mu.Lock()
	s.values = clone(values)
	s.mu.Unlock()

	return nil
}

func clone(src denom.ValueMap) denom.ValueMap {
	out := make(denom.ValueMap, len(src))
	for name, value := range src {
		out[name] = value
	}
	return out
}

func validateValueMap(values denom.ValueMap) error {
	if len(values) > maxUnits {
		return fmt.Errorf("%w: got %d units", ErrInvalidValueMap, len(values))
	}
	if err := denom.Validate(values); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidValueMap, err)
	}
	return nil
}
