package neuron_test

import (
	"math"
	"testing"

	"github.com/sw965/hebb/mathx/randx"
	"github.com/sw965/hebb/neuron"
	"github.com/sw965/hebb/quantity"
	"github.com/sw965/hebb/space"
)

func cycle(r *neuron.Regressor, states, rewards map[string]float64) {
	r.InputStates(space.FromReals(states))
	r.ProcessActivity()
	r.InputRewards(space.FromReals(rewards))
	r.ProcessLearning()
}

func TestValueError(t *testing.T) {
	r := newRegressor(10)
	r.InputRewards(space.FromReals(map[string]float64{"profit": 2.0}))
	r.ProcessLearning()

	if q := r.Rewards.Error.Quantity("profit"); q != quantity.FromReal(-2.0) {
		t.Errorf("テスト失敗: %v", q)
	}
	if !r.Rewards.Error.Has(neuron.LogicErrorLabel) {
		t.Errorf("%sがありません", neuron.LogicErrorLabel)
	}
	if r.Phase != neuron.PhaseBackward {
		t.Errorf("テスト失敗: %v", r.Phase)
	}
}

func TestValueErrorMissingObservation(t *testing.T) {
	r := newRegressor(11)
	r.Rewards.ExpectedValue.Set("cost", quantity.FromReal(0.5))
	r.ProcessLearning()

	// 観測が無いチャンネルは観測値0として扱う。
	if q := r.Rewards.Error.Quantity("cost"); q != quantity.FromReal(0.5) {
		t.Errorf("テスト失敗: %v", q)
	}
}

func TestLogicError(t *testing.T) {
	r := newRegressor(12)
	r.Weights.Stimuli.Sub(neuron.BiasLabel).Set(neuron.BiasLabel, quantity.FromReal(0.25))
	r.InputStates(space.New())
	r.ProcessActivity()
	r.ProcessLearning()

	// 報酬が無いので刺激の誤差はlogicそのもの。
	logic := r.States.Output.Pow(2).Sub(r.States.Probability.Pow(2))
	if r.States.Error != logic {
		t.Errorf("テスト失敗: %v != %v", r.States.Error, logic)
	}
	if re := real(logic); re != -0.25 && re != 0.75 {
		t.Errorf("テスト失敗: %v", logic)
	}
	expected := quantity.FromReal(-math.Abs(logic.Magnitude()))
	if q := r.Rewards.Error.Quantity(neuron.LogicErrorLabel); q != expected {
		t.Errorf("テスト失敗: %v != %v", q, expected)
	}
}

func TestStimulusErrorScaledByRewardError(t *testing.T) {
	r := newRegressor(13)
	r.Weights.Stimuli.Sub(neuron.BiasLabel).Set(neuron.BiasLabel, quantity.FromReal(0.25))
	r.InputStates(space.New())
	r.ProcessActivity()
	r.InputRewards(space.FromReals(map[string]float64{"a": 1.0, "b": 2.0}))
	r.ProcessLearning()

	logic := r.States.Output.Pow(2).Sub(r.States.Probability.Pow(2))
	if expected := quantity.FromReal(-3.0).Mul(logic); r.States.Error != expected {
		t.Errorf("テスト失敗: %v != %v", r.States.Error, expected)
	}
}

func TestExpectedValueLearning(t *testing.T) {
	r := newRegressor(14)
	s := map[string]float64{"a": 1.0, "b": -1.0}
	cycle(r, s, map[string]float64{"profit": 2.0})

	// 1回目はOldInputが空なので重みは更新されない。
	if r.Weights.ExpectedValue.Sub("profit").Len() != 0 {
		t.Errorf("テスト失敗: %v", r.Weights.ExpectedValue)
	}

	cycle(r, s, map[string]float64{"profit": 2.0})

	if q := r.Rewards.Error.Quantity("profit"); q != quantity.FromReal(-2.0) {
		t.Fatalf("テスト失敗: %v", q)
	}
	w := r.Weights.ExpectedValue.Sub("profit")
	labels := []string{"a", "b", neuron.BiasLabel}
	for _, a := range labels {
		for _, b := range labels {
			q := w.Sub(a).Quantity(b)
			if q.IsZero() {
				t.Errorf("W[%s][%s]が0です", a, b)
			}
			// W[a][b] = -2 * s[b] / s[a]
			va := r.States.OldInput.Quantity(a)
			vb := r.States.OldInput.Quantity(b)
			if expected := va.Inverse().Mul(quantity.FromReal(-2.0)).Mul(vb); q != expected {
				t.Errorf("W[%s][%s] = %v, want %v", a, b, q, expected)
			}
		}
	}

	// 次の予測は学習した重みを使う。
	r.InputStates(space.FromReals(s))
	r.ProcessActivity()
	if q := r.Rewards.ExpectedValue.Quantity("profit"); q.IsZero() {
		t.Errorf("予測が更新されていません: %v", q)
	}
}

func pairs(w *space.Space) map[string]struct{} {
	set := map[string]struct{}{}
	for _, a := range w.Keys() {
		v, _ := w.Lookup(a)
		sub, ok := v.(*space.Space)
		if !ok {
			continue
		}
		for _, b := range sub.Keys() {
			set[a+"/"+b] = struct{}{}
		}
	}
	return set
}

func TestWeightGrowthMonotonic(t *testing.T) {
	rng := randx.NewPCG(15)
	r := neuron.NewRegressor(neuron.WithRand(rng))
	labels := []string{"a", "b", "c", "d"}

	prev := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		s := map[string]float64{}
		for _, label := range labels {
			if rng.IntN(2) == 0 {
				s[label] = rng.Float64()*2.0 - 1.0
			}
		}
		cycle(r, s, map[string]float64{"profit": rng.Float64()})

		current := pairs(r.Weights.Stimuli)
		for k := range prev {
			if _, ok := current[k]; !ok {
				t.Fatalf("step %d: %sが削除されました", i, k)
			}
		}
		prev = current
	}
	if len(prev) == 0 {
		t.Errorf("重みが作成されていません")
	}
}

func TestDeterministic(t *testing.T) {
	run := func() *neuron.Regressor {
		r := neuron.NewRegressor(neuron.WithRand(randx.NewMT19937(16)), neuron.WithID("unit"))
		r.Weights.Stimuli.Sub(neuron.BiasLabel).Set(neuron.BiasLabel, quantity.FromReal(0.3))
		for i := 0; i < 20; i++ {
			cycle(r, map[string]float64{"x": float64(i%3) - 1.0}, map[string]float64{"profit": 1.0})
		}
		return r
	}
	a, b := run(), run()
	if !space.Equal(a.Weights.Stimuli, b.Weights.Stimuli) || !space.Equal(a.Weights.ExpectedValue, b.Weights.ExpectedValue) {
		t.Errorf("同じシードで結果が異なります")
	}
}
