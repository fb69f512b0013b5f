// Package space provides Space, a label keyed dictionary of quantities with a
// small set algebra.
//
// Reading an absent label never fails: the label is materialized with the
// additive identity and stays in the Space, so later iteration sees it. The
// learning unit relies on this to grow its weight tensors lazily.
//
// Package space はラベルをキーとするQuantityの辞書Spaceを提供します。
// 存在しないラベルを読み込むと0が書き込まれ、以降の走査に含まれます。
package space

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sw965/hebb/quantity"
	"golang.org/x/exp/maps"
)

var ErrUnsupportedValue = errors.New("Spaceエラー: 値の型がサポートされていません")

// Value is one of quantity.Quantity, Real or *Space.
type Value = any

// Real is a plain real valued entry.
type Real float64

type Space struct {
	entries map[string]Value
}

func New() *Space {
	return &Space{entries: map[string]Value{}}
}

func FromQuantities(m map[string]quantity.Quantity) *Space {
	s := New()
	for k, v := range m {
		s.entries[k] = v
	}
	return s
}

func FromReals(m map[string]float64) *Space {
	s := New()
	for k, v := range m {
		s.entries[k] = Real(v)
	}
	return s
}

func (s *Space) init() {
	if s.entries == nil {
		s.entries = map[string]Value{}
	}
}

// normalizeは数値型をRealに揃える。サポート外の型はプログラムの誤りなのでpanicする。
func normalize(v Value) Value {
	switch x := v.(type) {
	case quantity.Quantity, Real, *Space:
		return x
	case float64:
		return Real(x)
	case float32:
		return Real(x)
	case int:
		return Real(x)
	case complex128:
		return quantity.Quantity(x)
	}
	panic(fmt.Errorf("%w: %T", ErrUnsupportedValue, v))
}

// Get returns the value stored under label, inserting quantity.Zero first when
// the label is absent.
func (s *Space) Get(label string) Value {
	s.init()
	v, ok := s.entries[label]
	if !ok {
		v = quantity.Zero
		s.entries[label] = v
	}
	return v
}

// Quantity is Get converted to a quantity. A nested Space is reduced with Sum.
func (s *Space) Quantity(label string) quantity.Quantity {
	return ToQuantity(s.Get(label))
}

// Sub returns the nested Space stored under label, inserting an empty one when
// the label is absent or holds a scalar.
func (s *Space) Sub(label string) *Space {
	s.init()
	if sub, ok := s.entries[label].(*Space); ok {
		return sub
	}
	sub := New()
	s.entries[label] = sub
	return sub
}

// Lookup reads without materializing the label.
func (s *Space) Lookup(label string) (Value, bool) {
	v, ok := s.entries[label]
	return v, ok
}

func (s *Space) Has(label string) bool {
	_, ok := s.entries[label]
	return ok
}

// Set stores v under label. float64 and int values are stored as Real.
func (s *Space) Set(label string, v Value) {
	s.init()
	s.entries[label] = normalize(v)
}

func (s *Space) Remove(label string) {
	delete(s.entries, label)
}

// Clear resets the listed labels to zero. Absent labels are created.
func (s *Space) Clear(labels ...string) {
	s.init()
	for _, label := range labels {
		s.entries[label] = quantity.Zero
	}
}

func (s *Space) ClearAll() {
	for label := range s.entries {
		s.entries[label] = quantity.Zero
	}
}

// Empty drops every label.
func (s *Space) Empty() {
	s.entries = map[string]Value{}
}

func (s *Space) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

func (s *Space) Bool() bool {
	return s.Len() > 0
}

// Keys returns the labels in ascending order.
func (s *Space) Keys() []string {
	if s == nil {
		return []string{}
	}
	ks := maps.Keys(s.entries)
	slices.Sort(ks)
	return ks
}

// Each visits the entries in ascending label order. f must not add or remove labels.
func (s *Space) Each(f func(string, Value)) {
	for _, k := range s.Keys() {
		f(k, s.entries[k])
	}
}

func copyValue(v Value) Value {
	if sub, ok := v.(*Space); ok {
		return sub.Copy()
	}
	return v
}

func (s *Space) Copy() *Space {
	y := &Space{entries: make(map[string]Value, len(s.entries))}
	for k, v := range s.entries {
		y.entries[k] = copyValue(v)
	}
	return y
}

func (s *Space) mapValues(f func(Value) Value) *Space {
	y := &Space{entries: make(map[string]Value, len(s.entries))}
	for k, v := range s.entries {
		y.entries[k] = f(v)
	}
	return y
}

func ToQuantity(v Value) quantity.Quantity {
	switch x := v.(type) {
	case quantity.Quantity:
		return x
	case Real:
		return quantity.FromReal(float64(x))
	case *Space:
		return Sum(x)
	}
	return ToQuantity(normalize(v))
}

func Equal(a, b *Space) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	for k, va := range a.entries {
		vb, ok := b.entries[k]
		if !ok {
			return false
		}
		sa, aIsSpace := va.(*Space)
		sb, bIsSpace := vb.(*Space)
		if aIsSpace || bIsSpace {
			if !(aIsSpace && bIsSpace) || !Equal(sa, sb) {
				return false
			}
			continue
		}
		if va != vb {
			return false
		}
	}
	return true
}

// Pairs calls f for every ordered pair of labels of s, including (a, a), in
// ascending label order.
func (s *Space) Pairs(f func(a, b string, va, vb quantity.Quantity)) {
	ks := s.Keys()
	for _, a := range ks {
		va := ToQuantity(s.entries[a])
		for _, b := range ks {
			f(a, b, va, ToQuantity(s.entries[b]))
		}
	}
}

func (s *Space) String() string {
	return fmt.Sprint(s.Canonical())
}
