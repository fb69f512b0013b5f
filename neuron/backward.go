package neuron

import (
	"math"
	"slices"

	"github.com/sw965/hebb/quantity"
	"github.com/sw965/hebb/space"
)

// ProcessLearning runs one backward pass. The reward error of every channel
// and the stimulus error are computed from the last forward pass, then both
// weight tensors are moved by an outer product of States.OldInput.
//
// ProcessLearningは重みのラベルを削除しない。
func (r *Regressor) ProcessLearning() {
	r.valueError()
	r.stimulusError()
	r.updateExpectedValueWeights()
	r.updateStimulusWeights()
	r.Phase = PhaseBackward
}

func errorLabels(observed, expected *space.Space) []string {
	labels := append(observed.Keys(), expected.Keys()...)
	slices.Sort(labels)
	return slices.Compact(labels)
}

// valueError は 期待値 - 観測値 を報酬チャンネル毎に求める。片方が無い場合は0として扱う。
func (r *Regressor) valueError() {
	observed := r.Rewards.Input
	expected := r.Rewards.ExpectedValue

	r.Rewards.Error.Empty()
	for _, label := range errorLabels(observed, expected) {
		ev := quantity.Zero
		if v, ok := expected.Lookup(label); ok {
			ev = space.ToQuantity(v)
		}
		in := quantity.Zero
		if v, ok := observed.Lookup(label); ok {
			in = space.ToQuantity(v)
		}
		r.Rewards.Error.Set(label, ev.Sub(in))
	}
}

func (r *Regressor) stimulusError() {
	logic := r.States.Output.Pow(2).Sub(r.States.Probability.Pow(2))
	if r.Rewards.Error.Bool() {
		r.States.Error = space.Sum(r.Rewards.Error).Mul(logic)
	} else {
		r.States.Error = logic
	}
	r.Rewards.Error.Set(LogicErrorLabel, quantity.FromReal(-math.Abs(logic.Magnitude())))
}

// accumulate は w[a][b] += (old[a])^-1 * err * old[b] を全ての組(a, b)に対して行う。
func accumulate(w, old *space.Space, err quantity.Quantity) {
	old.Pairs(func(a, b string, va, vb quantity.Quantity) {
		row := w.Sub(a)
		row.Set(b, row.Quantity(b).Add(va.Inverse().Mul(err).Mul(vb)))
	})
}

func (r *Regressor) updateExpectedValueWeights() {
	r.Rewards.Error.Each(func(channel string, v space.Value) {
		accumulate(r.Weights.ExpectedValue.Sub(channel), r.States.OldInput, space.ToQuantity(v))
	})
}

func (r *Regressor) updateStimulusWeights() {
	accumulate(r.Weights.Stimuli, r.States.OldInput, r.States.Error)
}
