// Package block provides small signal processing blocks that can be chained in
// series or in parallel to shape inputs before they reach a learning unit.
//
//	Constant:     -|[x]--
//	Proportional: --[x]--
//	Derivative:   --[d/dt]--
//	Integral:     --[+x*dt]--
//	Sum:          ==[x+y]--
//	Product:      ==[x*y]--
package block

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidTimeStep = errors.New("Blockエラー: dtは正である必要があります")
	ErrLengthMismatch  = errors.New("Blockエラー: 入力の長さが前回と一致しません")
	ErrUnknownKind     = errors.New("Blockエラー: 未知の種類です")
)

type Kind string

const (
	ConstantKind     Kind = "constant"
	ProportionalKind Kind = "proportional"
	DerivativeKind   Kind = "derivative"
	IntegralKind     Kind = "integral"
	SumKind          Kind = "sum"
	ProductKind      Kind = "product"
)

type Block interface {
	Input([]float64)
	Process(dt float64) error
	// Output returns a copy of the last processed value, nil before the first Process.
	Output() []float64
}

// New builds a block of the given kind with its default configuration.
func New(kind Kind) (Block, error) {
	switch kind {
	case ConstantKind:
		return NewConstant(DefaultConstantConfig()), nil
	case ProportionalKind:
		return NewProportional(DefaultProportionalConfig()), nil
	case DerivativeKind:
		return NewDerivative(), nil
	case IntegralKind:
		return NewIntegral(), nil
	case SumKind:
		return NewSum(), nil
	case ProductKind:
		return NewProduct(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
}

// Apply feeds x into b, processes one step of dt and returns the output.
func Apply(b Block, x []float64, dt float64) ([]float64, error) {
	b.Input(x)
	if err := b.Process(dt); err != nil {
		return nil, err
	}
	return b.Output(), nil
}

type ConstantConfig struct {
	Value []float64
}

func DefaultConstantConfig() ConstantConfig {
	return ConstantConfig{Value: []float64{1.0}}
}

// Constant emits its configured value and ignores Input.
type Constant struct {
	value  []float64
	output []float64
}

func NewConstant(cfg ConstantConfig) *Constant {
	return &Constant{value: slices.Clone(cfg.Value)}
}

func (c *Constant) Input([]float64) {}

func (c *Constant) Process(float64) error {
	c.output = slices.Clone(c.value)
	return nil
}

func (c *Constant) Output() []float64 {
	return slices.Clone(c.output)
}

type ProportionalConfig struct {
	Scale float64
}

func DefaultProportionalConfig() ProportionalConfig {
	return ProportionalConfig{Scale: 1.0}
}

// Proportional scales its input.
type Proportional struct {
	scale  float64
	input  []float64
	output []float64
}

func NewProportional(cfg ProportionalConfig) *Proportional {
	return &Proportional{scale: cfg.Scale}
}

func (p *Proportional) Input(x []float64) {
	p.input = slices.Clone(x)
}

func (p *Proportional) Process(float64) error {
	if p.input == nil {
		p.output = nil
		return nil
	}
	p.output = floats.ScaleTo(make([]float64, len(p.input)), p.scale, p.input)
	return nil
}

func (p *Proportional) Output() []float64 {
	return slices.Clone(p.output)
}

// Derivative emits (x - previous x) / dt. The first input is its own previous
// value, so the first output is zero.
type Derivative struct {
	input    []float64
	oldInput []float64
	output   []float64
}

func NewDerivative() *Derivative {
	return &Derivative{}
}

func (d *Derivative) Input(x []float64) {
	if d.input == nil {
		d.oldInput = slices.Clone(x)
	} else {
		d.oldInput = d.input
	}
	d.input = slices.Clone(x)
}

func (d *Derivative) Process(dt float64) error {
	if dt <= 0.0 {
		return fmt.Errorf("%w: %v", ErrInvalidTimeStep, dt)
	}
	if d.input == nil {
		return nil
	}
	if len(d.input) != len(d.oldInput) {
		return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(d.input), len(d.oldInput))
	}
	y := floats.SubTo(make([]float64, len(d.input)), d.input, d.oldInput)
	floats.Scale(1.0/dt, y)
	d.output = y
	return nil
}

func (d *Derivative) Output() []float64 {
	return slices.Clone(d.output)
}

// Integral accumulates x * dt.
type Integral struct {
	input  []float64
	output []float64
}

func NewIntegral() *Integral {
	return &Integral{}
}

func (it *Integral) Input(x []float64) {
	it.input = slices.Clone(x)
}

func (it *Integral) Process(dt float64) error {
	if dt <= 0.0 {
		return fmt.Errorf("%w: %v", ErrInvalidTimeStep, dt)
	}
	if it.input == nil {
		return nil
	}
	if it.output == nil {
		it.output = floats.ScaleTo(make([]float64, len(it.input)), dt, it.input)
		return nil
	}
	if len(it.input) != len(it.output) {
		return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(it.input), len(it.output))
	}
	floats.AddScaled(it.output, dt, it.input)
	return nil
}

func (it *Integral) Output() []float64 {
	return slices.Clone(it.output)
}

// Sum reduces its input to a single element.
type Sum struct {
	input  []float64
	output []float64
}

func NewSum() *Sum {
	return &Sum{}
}

func (s *Sum) Input(x []float64) {
	s.input = slices.Clone(x)
}

func (s *Sum) Process(float64) error {
	s.output = []float64{floats.Sum(s.input)}
	return nil
}

func (s *Sum) Output() []float64 {
	return slices.Clone(s.output)
}

// Product reduces its input to a single element.
type Product struct {
	input  []float64
	output []float64
}

func NewProduct() *Product {
	return &Product{}
}

func (p *Product) Input(x []float64) {
	p.input = slices.Clone(x)
}

func (p *Product) Process(float64) error {
	p.output = []float64{floats.Prod(p.input)}
	return nil
}

func (p *Product) Output() []float64 {
	return slices.Clone(p.output)
}
