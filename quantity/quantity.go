// Package quantity implements the complex valued scalar used by the learning unit.
//
// A Quantity has two poles. The +0 pole is the real component and the -0 pole is
// the oriented (imaginary) component, so that z = (+0) + (-0)i.
package quantity

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"github.com/sw965/hebb/mathx"
	"github.com/sw965/hebb/mathx/randx"
)

var ErrUnknownPole = errors.New("Quantityエラー: 未知のpoleです")

type Pole string

const (
	Positive Pole = "+0"
	Negative Pole = "-0"
)

var AllPoles = []Pole{Positive, Negative}

type Poles map[Pole]float64

type Quantity complex128

const (
	Zero Quantity = 0
	One  Quantity = 1
)

func New(poles Poles) (Quantity, error) {
	var re, im float64
	for p, v := range poles {
		switch p {
		case Positive:
			re = v
		case Negative:
			im = v
		default:
			return Zero, fmt.Errorf("%w: %q", ErrUnknownPole, string(p))
		}
	}
	return Quantity(complex(re, im)), nil
}

func FromReal(x float64) Quantity {
	return Quantity(complex(x, 0))
}

// Randは各poleに独立した一様乱数[0, 1)を持つQuantityを返す。
func Rand(rng *rand.Rand) Quantity {
	re, im := randx.Uniform2(rng)
	return Quantity(complex(re, im))
}

func (q Quantity) Pole(p Pole) float64 {
	switch p {
	case Positive:
		return real(q)
	case Negative:
		return imag(q)
	}
	return 0.0
}

func (q Quantity) Poles() Poles {
	return Poles{Positive: real(q), Negative: imag(q)}
}

func (q Quantity) Add(other Quantity) Quantity {
	return q + other
}

func (q Quantity) Sub(other Quantity) Quantity {
	return q - other
}

// Mul is the combine operator.
func (q Quantity) Mul(other Quantity) Quantity {
	return q * other
}

// Union merges two quantities of the same label. The poles already carry the
// orientation of the mass, so opposite orientations cancel pole by pole.
func (q Quantity) Union(other Quantity) Quantity {
	return Quantity(complex(real(q)+real(other), imag(q)+imag(other)))
}

// Inverse returns the multiplicative inverse. The inverse of zero is zero.
func (q Quantity) Inverse() Quantity {
	if q == Zero {
		return Zero
	}
	return Quantity(1 / complex128(q))
}

// Pow raises q to e. Zero stays zero for every non-zero exponent.
func (q Quantity) Pow(e float64) Quantity {
	if e == 0.0 {
		return One
	}
	if q == Zero {
		return Zero
	}

	if e == 0.5 {
		return Quantity(cmplx.Sqrt(complex128(q)))
	}

	// 整数乗は掛け算の繰り返しで計算し、丸め誤差を避ける。
	if n, frac := math.Modf(e); frac == 0.0 && math.Abs(n) <= 64 {
		y := One
		for i := 0; i < int(math.Abs(n)); i++ {
			y *= q
		}
		if n < 0 {
			return y.Inverse()
		}
		return y
	}
	return Quantity(cmplx.Pow(complex128(q), complex(e, 0)))
}

// Less compares pole by pole. Each pole of the result is 1 where q is strictly
// less than other and 0 elsewhere.
func (q Quantity) Less(other Quantity) Quantity {
	var re, im float64
	if real(q) < real(other) {
		re = 1.0
	}
	if imag(q) < imag(other) {
		im = 1.0
	}
	return Quantity(complex(re, im))
}

func (q Quantity) Clamp(lo, hi Quantity) Quantity {
	return Quantity(complex(
		mathx.Clamp(real(q), real(lo), real(hi)),
		mathx.Clamp(imag(q), imag(lo), imag(hi)),
	))
}

func (q Quantity) Magnitude() float64 {
	return cmplx.Abs(complex128(q))
}

func (q Quantity) IsZero() bool {
	return q == Zero
}

// Canonical returns the sparse pole map of q. Zero poles are omitted.
func (q Quantity) Canonical() any {
	c := map[string]float64{}
	if re := real(q); re != 0.0 {
		c[string(Positive)] = re
	}
	if im := imag(q); im != 0.0 {
		c[string(Negative)] = im
	}
	return c
}

func FromCanonical(c map[string]float64) (Quantity, error) {
	poles := make(Poles, len(c))
	for k, v := range c {
		poles[Pole(k)] = v
	}
	return New(poles)
}

func IsPoleKey(k string) bool {
	for _, p := range AllPoles {
		if k == string(p) {
			return true
		}
	}
	return false
}

func (q Quantity) String() string {
	c := q.Canonical().(map[string]float64)
	ks := make([]string, 0, len(c))
	for k := range c {
		ks = append(ks, k)
	}
	sort.Strings(ks)

	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = k + ": " + strconv.FormatFloat(c[k], 'g', -1, 64)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
