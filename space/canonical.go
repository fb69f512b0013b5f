package space

import (
	"errors"
	"fmt"

	"github.com/sw965/hebb/quantity"
)

var ErrInvalidCanonical = errors.New("Spaceエラー: canonical formとして解釈出来ません")

// Canonical returns s as nested maps that encoding/json can write directly.
func (s *Space) Canonical() any {
	c := make(map[string]any, s.Len())
	s.Each(func(k string, v Value) {
		switch x := v.(type) {
		case quantity.Quantity:
			c[k] = x.Canonical()
		case Real:
			c[k] = float64(x)
		case *Space:
			c[k] = x.Canonical()
		}
	})
	return c
}

// FromCanonical rebuilds a Space from nested maps. A map whose keys are all
// pole names (including the empty map) is read as a Quantity, any other map as
// a nested Space and a number as a Real.
func FromCanonical(c map[string]any) (*Space, error) {
	s := New()
	for k, v := range c {
		value, err := fromCanonicalValue(v)
		if err != nil {
			return nil, fmt.Errorf("%w (label %q)", err, k)
		}
		s.entries[k] = value
	}
	return s, nil
}

func isPoleMap(m map[string]any) bool {
	for k, v := range m {
		if !quantity.IsPoleKey(k) {
			return false
		}
		if _, ok := v.(float64); !ok {
			return false
		}
	}
	return true
}

func fromCanonicalValue(v any) (Value, error) {
	switch x := v.(type) {
	case quantity.Quantity, Real, *Space:
		return x, nil
	case float64:
		return Real(x), nil
	case int:
		return Real(x), nil
	case map[string]float64:
		return quantity.FromCanonical(x)
	case map[string]any:
		if isPoleMap(x) {
			poles := make(map[string]float64, len(x))
			for k, pv := range x {
				poles[k] = pv.(float64)
			}
			return quantity.FromCanonical(poles)
		}
		return FromCanonical(x)
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidCanonical, v)
}
