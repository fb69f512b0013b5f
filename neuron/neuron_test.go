package neuron_test

import (
	"math"
	"slices"
	"testing"

	"github.com/sw965/hebb/mathx/randx"
	"github.com/sw965/hebb/neuron"
	"github.com/sw965/hebb/quantity"
	"github.com/sw965/hebb/space"
)

func newRegressor(seed uint64) *neuron.Regressor {
	return neuron.NewRegressor(neuron.WithRand(randx.NewPCG(seed)))
}

func TestNewRegressor(t *testing.T) {
	r := neuron.NewRegressor()
	if r.ID == "" {
		t.Errorf("IDが空です")
	}
	if r.Phase != neuron.PhaseStateOutput {
		t.Errorf("テスト失敗: %v", r.Phase)
	}
	if other := neuron.NewRegressor(); other.ID == r.ID {
		t.Errorf("IDが重複しています")
	}
	if r := neuron.NewRegressor(neuron.WithID("unit")); r.ID != "unit" {
		t.Errorf("テスト失敗: %v", r.ID)
	}
}

func TestInputStates(t *testing.T) {
	r := newRegressor(0)
	r.InputStates(space.FromReals(map[string]float64{"a": 1.0}))
	r.InputStates(space.FromReals(map[string]float64{"b": -1.0}))

	if keys := r.States.Input.Keys(); !slices.Equal(keys, []string{"b", neuron.BiasLabel}) {
		t.Errorf("テスト失敗: %v", keys)
	}
	if keys := r.States.OldInput.Keys(); !slices.Equal(keys, []string{"a", neuron.BiasLabel}) {
		t.Errorf("テスト失敗: %v", keys)
	}
	if q := r.States.Input.Quantity(neuron.BiasLabel); q != quantity.One {
		t.Errorf("biasは1である必要があります: %v", q)
	}
	if q := r.States.Input.Quantity("b"); q != quantity.FromReal(-1.0) {
		t.Errorf("テスト失敗: %v", q)
	}

	// 呼び出し側のbiasが優先される。
	r.InputStates(space.FromReals(map[string]float64{neuron.BiasLabel: 3.0}))
	if q := r.States.Input.Quantity(neuron.BiasLabel); q != quantity.FromReal(3.0) {
		t.Errorf("テスト失敗: %v", q)
	}
	if r.Phase != neuron.PhaseStateInput {
		t.Errorf("テスト失敗: %v", r.Phase)
	}
}

func TestInputRewards(t *testing.T) {
	r := newRegressor(0)
	rewards := space.FromReals(map[string]float64{"profit": 1.0})
	r.InputRewards(rewards)
	r.InputRewards(space.FromReals(map[string]float64{"profit": 2.0}))

	if q := r.Rewards.OldInput.Quantity("profit"); q != quantity.FromReal(1.0) {
		t.Errorf("テスト失敗: %v", q)
	}
	if q := r.Rewards.Input.Quantity("profit"); q != quantity.FromReal(2.0) {
		t.Errorf("テスト失敗: %v", q)
	}

	// 入力はコピーとして保持される。
	rewards.Set("profit", 100.0)
	if q := r.Rewards.OldInput.Quantity("profit"); q != quantity.FromReal(1.0) {
		t.Errorf("報酬が呼び出し側と共有されています: %v", q)
	}
	if r.Phase != neuron.PhaseRewardInput {
		t.Errorf("テスト失敗: %v", r.Phase)
	}
}

func TestColdStart(t *testing.T) {
	r := newRegressor(1)
	r.Weights.ExpectedValue.Sub("profit")
	r.InputStates(space.FromReals(map[string]float64{"x": 1.0, "y": 2.0}))
	r.ProcessActivity()

	if r.States.Stimuli != quantity.Zero || r.States.Probability != quantity.Zero {
		t.Errorf("テスト失敗: %v %v", r.States.Stimuli, r.States.Probability)
	}
	if r.OutputState() != quantity.Zero {
		t.Errorf("確率0で発火しています: %v", r.States.Output)
	}
	if q := r.Rewards.ExpectedValue.Quantity("profit"); q != quantity.Zero {
		t.Errorf("テスト失敗: %v", q)
	}
	emission := r.RewardEmission()
	if v, ok := emission.Lookup("profit"); !ok || v != space.Real(0.0) {
		t.Errorf("テスト失敗: %v", emission)
	}
}

func TestForwardCreatesPairs(t *testing.T) {
	r := newRegressor(2)
	r.InputStates(space.FromReals(map[string]float64{"a": 1.0, "b": -1.0}))
	r.ProcessActivity()

	labels := []string{"a", "b", neuron.BiasLabel}
	if keys := r.Weights.Stimuli.Keys(); !slices.Equal(keys, labels) {
		t.Fatalf("テスト失敗: %v", keys)
	}
	for _, row := range labels {
		sub := r.Weights.Stimuli.Sub(row)
		if keys := sub.Keys(); !slices.Equal(keys, labels) {
			t.Errorf("%s: %v", row, keys)
		}
		for _, col := range labels {
			if q := sub.Quantity(col); q != quantity.Zero {
				t.Errorf("W[%s][%s] = %v", row, col, q)
			}
		}
	}
	if r.Phase != neuron.PhaseForward {
		t.Errorf("テスト失敗: %v", r.Phase)
	}
}

func TestActivationProbability(t *testing.T) {
	r := newRegressor(3)
	// stimulus = 0.25 なので probability = 0.5。
	r.Weights.Stimuli.Sub(neuron.BiasLabel).Set(neuron.BiasLabel, quantity.FromReal(0.25))
	r.InputStates(space.New())

	n := 4000
	fired := 0.0
	for i := 0; i < n; i++ {
		r.ProcessActivity()
		if r.States.Probability != quantity.FromReal(0.5) {
			t.Fatalf("テスト失敗: %v", r.States.Probability)
		}
		out := r.OutputState()
		if imag(out) != 0.0 {
			t.Fatalf("確率0のpoleが発火しています: %v", out)
		}
		fired += real(out)
	}
	if rate := fired / float64(n); math.Abs(rate-0.5) > 0.05 {
		t.Errorf("発火率が確率と一致しません: %v", rate)
	}
}

func TestProbabilityIsClamped(t *testing.T) {
	r := newRegressor(4)
	r.Weights.Stimuli.Sub(neuron.BiasLabel).Set(neuron.BiasLabel, quantity.FromReal(9.0))
	r.InputStates(space.New())
	r.ProcessActivity()
	if r.States.Probability != quantity.One {
		t.Errorf("テスト失敗: %v", r.States.Probability)
	}
	if r.States.Output != quantity.One {
		t.Errorf("確率1で発火していません: %v", r.States.Output)
	}
}

func TestRewardEmissionCopy(t *testing.T) {
	r := newRegressor(5)
	r.Weights.ExpectedValue.Sub("profit")
	r.InputStates(space.New())
	r.ProcessActivity()

	emission := r.RewardEmission()
	emission.Set("profit", 10.0)
	if v, _ := r.Rewards.Output.Lookup("profit"); v != space.Real(0.0) {
		t.Errorf("RewardEmissionが内部状態を共有しています: %v", v)
	}
	if r.Phase != neuron.PhaseRewardOutput {
		t.Errorf("テスト失敗: %v", r.Phase)
	}
}
