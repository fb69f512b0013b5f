// Package neuron implements Regressor, a single online learning unit.
//
// A Regressor observes a labeled input state, fires stochastically in
// proportion to a bilinear stimulus over that state, predicts a reward per
// channel and, once the realized rewards are pushed, updates its stimulus and
// expected value weights with an outer product of the previous input.
//
// Package neuron は単一のオンライン学習ユニットRegressorを提供します。
// 入力状態の双線形形式から確率的に発火し、報酬チャンネル毎の期待値を予測し、
// 実際の報酬との誤差から重みを更新します。
package neuron

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/sw965/hebb/mathx/randx"
	"github.com/sw965/hebb/quantity"
	"github.com/sw965/hebb/space"
)

const (
	// BiasLabel is injected into every input state with value 1.
	BiasLabel = "bias"
	// LogicErrorLabel is the synthetic reward channel that carries the logic error.
	LogicErrorLabel = "Logic Error"
)

// Phase records the last operation performed. It is diagnostic only and never
// gates an operation.
type Phase string

const (
	PhaseStateInput   Phase = "state-input"
	PhaseRewardInput  Phase = "reward-input"
	PhaseForward      Phase = "forward"
	PhaseBackward     Phase = "backward"
	PhaseStateOutput  Phase = "state-output"
	PhaseRewardOutput Phase = "reward-output"
)

type States struct {
	Input    *space.Space
	OldInput *space.Space

	Stimuli     quantity.Quantity
	Error       quantity.Quantity
	Probability quantity.Quantity
	Output      quantity.Quantity
}

type Rewards struct {
	Input         *space.Space
	OldInput      *space.Space
	ExpectedValue *space.Space
	Output        *space.Space
	Error         *space.Space
}

type Weights struct {
	// label -> label -> Quantity
	Stimuli *space.Space
	// reward channel -> label -> label -> Quantity
	ExpectedValue *space.Space
}

// Regressor is not safe for concurrent use. Callers must serialize every call
// on the same Regressor.
type Regressor struct {
	ID      string
	States  States
	Rewards Rewards
	Weights Weights
	Phase   Phase

	rng *rand.Rand
}

type Option func(*Regressor)

// WithRand replaces the generator used by the activation step.
func WithRand(rng *rand.Rand) Option {
	return func(r *Regressor) {
		r.rng = rng
	}
}

func WithID(id string) Option {
	return func(r *Regressor) {
		r.ID = id
	}
}

func NewRegressor(opts ...Option) *Regressor {
	r := &Regressor{
		ID: uuid.New().String(),
		States: States{
			Input:    space.New(),
			OldInput: space.New(),
		},
		Rewards: Rewards{
			Input:         space.New(),
			OldInput:      space.New(),
			ExpectedValue: space.New(),
			Output:        space.New(),
			Error:         space.New(),
		},
		Weights: Weights{
			Stimuli:       space.New(),
			ExpectedValue: space.New(),
		},
		Phase: PhaseStateOutput,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = randx.NewPCGFromGlobalSeed()
	}
	return r
}

// NewRegressorFromSnapshot builds a Regressor and restores every slot present in s.
func NewRegressorFromSnapshot(s Snapshot, opts ...Option) *Regressor {
	r := NewRegressor(opts...)
	r.Restore(s)
	return r
}

// InputStates moves the current input to OldInput and replaces it with the
// bias label followed by states. A "bias" label in states overrides the bias.
func (r *Regressor) InputStates(states *space.Space) {
	r.States.OldInput = r.States.Input.Copy()
	r.States.Input.Empty()

	r.States.Input.Set(BiasLabel, quantity.One)
	states.Each(func(label string, v space.Value) {
		r.States.Input.Set(label, space.ToQuantity(v))
	})
	r.Phase = PhaseStateInput
}

// InputRewards moves the current reward input to Rewards.OldInput and replaces
// it with a copy of rewards.
func (r *Regressor) InputRewards(rewards *space.Space) {
	r.Rewards.OldInput = r.Rewards.Input.Copy()
	r.Rewards.Input = rewards.Copy()
	r.Phase = PhaseRewardInput
}

// OutputState returns the activation of the last forward pass.
func (r *Regressor) OutputState() quantity.Quantity {
	r.Phase = PhaseStateOutput
	return r.States.Output
}

// RewardEmission returns a copy of the predicted reward per channel.
func (r *Regressor) RewardEmission() *space.Space {
	r.Phase = PhaseRewardOutput
	return r.Rewards.Output.Copy()
}
