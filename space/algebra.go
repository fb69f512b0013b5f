package space

import (
	"github.com/sw965/hebb/quantity"
)

type op int

const (
	intersection op = iota
	union
	symmetricDifference
)

func (o op) quantity(a, b quantity.Quantity) quantity.Quantity {
	if o == intersection {
		return a.Mul(b)
	}
	return a.Union(b)
}

func (o op) real(a, b Real) Real {
	switch o {
	case intersection:
		return a * b
	case union:
		return a + b
	}
	// 独立な確率とみなした時のXOR確率 a + b - 2ab
	return a + b - 2*a*b
}

func (o op) spaces(a, b *Space) *Space {
	switch o {
	case intersection:
		return Intersect(a, b)
	case union:
		return Union(a, b)
	}
	return SymDiff(a, b)
}

// combineは2つの値を合成する。片方でもQuantityならQuantityとして合成し、Spaceは
// Sumで縮約する。それ以外でSpaceとRealの組の場合、RealをSpaceの各要素へ配る。
func (o op) combine(a, b Value) Value {
	_, aIsQuantity := a.(quantity.Quantity)
	_, bIsQuantity := b.(quantity.Quantity)
	if aIsQuantity || bIsQuantity {
		return o.quantity(ToQuantity(a), ToQuantity(b))
	}

	sa, aIsSpace := a.(*Space)
	sb, bIsSpace := b.(*Space)
	switch {
	case aIsSpace && bIsSpace:
		return o.spaces(sa, sb)
	case aIsSpace:
		return sa.mapValues(func(v Value) Value { return o.combine(v, b) })
	case bIsSpace:
		return sb.mapValues(func(v Value) Value { return o.combine(a, v) })
	}
	return o.real(a.(Real), b.(Real))
}

// Intersect keeps the labels present in both a and b and multiplies their values.
func Intersect(a, b *Space) *Space {
	y := New()
	for k, va := range a.entries {
		if vb, ok := b.entries[k]; ok {
			y.entries[k] = intersection.combine(va, vb)
		}
	}
	return y
}

func merge(a, b *Space, o op) *Space {
	y := New()
	for k, va := range a.entries {
		if vb, ok := b.entries[k]; ok {
			y.entries[k] = o.combine(va, vb)
		} else {
			y.entries[k] = copyValue(va)
		}
	}
	for k, vb := range b.entries {
		if _, ok := a.entries[k]; !ok {
			y.entries[k] = copyValue(vb)
		}
	}
	return y
}

// Union keeps every label of a and b. Shared quantities are merged with
// quantity.Quantity.Union and shared reals are added.
func Union(a, b *Space) *Space {
	return merge(a, b, union)
}

// SymDiff keeps every label of a and b. Shared reals combine as a + b - 2ab,
// shared quantities as in Union.
func SymDiff(a, b *Space) *Space {
	return merge(a, b, symmetricDifference)
}

// Sum folds every entry of s, in ascending label order, with quantity.Quantity.Union.
func Sum(s *Space) quantity.Quantity {
	total := quantity.Zero
	for _, k := range s.Keys() {
		total = total.Union(ToQuantity(s.entries[k]))
	}
	return total
}
