package neuron

import (
	"github.com/sw965/hebb/quantity"
	"github.com/sw965/hebb/space"
)

// 活性確率の上限。両poleとも1で頭打ちにする。
const probabilityCeiling = quantity.Quantity(1 + 1i)

// bilinear は Σ_a Σ_b input[a] * w[a][b] * (input[b])^-1 を返す。
// 未知のラベルの組はwに0として作成される。
func bilinear(input, w *space.Space) quantity.Quantity {
	total := quantity.Zero
	input.Pairs(func(a, b string, va, vb quantity.Quantity) {
		total = total.Union(va.Mul(w.Sub(a).Quantity(b)).Mul(vb.Inverse()))
	})
	return total
}

// ProcessActivity runs one forward pass over the current input: stimulus,
// stochastic activation, reward prediction per known channel and reward
// emission. Weights grow a zero entry for every unseen label pair.
func (r *Regressor) ProcessActivity() {
	r.stimulus()
	r.activation()
	r.expectedValues()
	r.rewardEmission()
	r.Phase = PhaseForward
}

func (r *Regressor) stimulus() {
	r.States.Stimuli = bilinear(r.States.Input, r.Weights.Stimuli)
}

func (r *Regressor) expectedValues() {
	r.Rewards.ExpectedValue.Empty()
	for _, channel := range r.Weights.ExpectedValue.Keys() {
		ev := bilinear(r.States.Input, r.Weights.ExpectedValue.Sub(channel))
		r.Rewards.ExpectedValue.Set(channel, ev)
	}
}

// activation は各poleを確率 probability で独立に発火させる。
func (r *Regressor) activation() {
	r.States.Probability = r.States.Stimuli.Pow(0.5).Clamp(quantity.Zero, probabilityCeiling)
	r.States.Output = quantity.Rand(r.rng).Less(r.States.Probability)
}

func (r *Regressor) rewardEmission() {
	r.Rewards.Output.Empty()
	r.Rewards.ExpectedValue.Each(func(channel string, v space.Value) {
		emitted := space.ToQuantity(v).Mul(r.States.Output)
		r.Rewards.Output.Set(channel, space.Real(emitted.Pole(quantity.Positive)))
	})
}
