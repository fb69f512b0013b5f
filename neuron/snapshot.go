package neuron

import (
	"encoding/json"

	"github.com/sw965/hebb/matrix"
	"github.com/sw965/hebb/persist"
	"github.com/sw965/hebb/quantity"
	"github.com/sw965/hebb/space"
	"gonum.org/v1/gonum/mat"
)

// スカラー状態のラベル。Snapshot.States.Scalarsのキーとして使う。
const (
	stimuliLabel     = "stimuli"
	errorLabel       = "error"
	probabilityLabel = "probability"
	outputLabel      = "output"
)

// StatesSnapshot keeps the scalar states in a Space so that a zero scalar is
// still distinguishable from an absent one after a gob round trip.
type StatesSnapshot struct {
	Input    *space.Space
	OldInput *space.Space
	Scalars  *space.Space
}

type RewardsSnapshot struct {
	Input         *space.Space
	OldInput      *space.Space
	ExpectedValue *space.Space
	Output        *space.Space
	Error         *space.Space
}

type WeightsSnapshot struct {
	Stimuli       *space.Space
	ExpectedValue *space.Space
}

// Snapshot is the persisted form of a Regressor. A nil field, an empty ID or
// an empty Phase means the slot is absent and Restore leaves it untouched.
type Snapshot struct {
	ID      string
	Phase   Phase
	States  *StatesSnapshot
	Rewards *RewardsSnapshot
	Weights *WeightsSnapshot
}

// Snapshot returns a deep copy of every slot.
func (r *Regressor) Snapshot() Snapshot {
	scalars := space.New()
	scalars.Set(stimuliLabel, r.States.Stimuli)
	scalars.Set(errorLabel, r.States.Error)
	scalars.Set(probabilityLabel, r.States.Probability)
	scalars.Set(outputLabel, r.States.Output)

	return Snapshot{
		ID:    r.ID,
		Phase: r.Phase,
		States: &StatesSnapshot{
			Input:    r.States.Input.Copy(),
			OldInput: r.States.OldInput.Copy(),
			Scalars:  scalars,
		},
		Rewards: &RewardsSnapshot{
			Input:         r.Rewards.Input.Copy(),
			OldInput:      r.Rewards.OldInput.Copy(),
			ExpectedValue: r.Rewards.ExpectedValue.Copy(),
			Output:        r.Rewards.Output.Copy(),
			Error:         r.Rewards.Error.Copy(),
		},
		Weights: &WeightsSnapshot{
			Stimuli:       r.Weights.Stimuli.Copy(),
			ExpectedValue: r.Weights.ExpectedValue.Copy(),
		},
	}
}

func restoreSpace(dst **space.Space, src *space.Space) {
	if src != nil {
		*dst = src.Copy()
	}
}

func restoreScalar(dst *quantity.Quantity, scalars *space.Space, label string) {
	if v, ok := scalars.Lookup(label); ok {
		*dst = space.ToQuantity(v)
	}
}

// Restore overwrites only the slots present in s.
func (r *Regressor) Restore(s Snapshot) {
	if s.ID != "" {
		r.ID = s.ID
	}
	if s.Phase != "" {
		r.Phase = s.Phase
	}

	if st := s.States; st != nil {
		restoreSpace(&r.States.Input, st.Input)
		restoreSpace(&r.States.OldInput, st.OldInput)
		if st.Scalars != nil {
			restoreScalar(&r.States.Stimuli, st.Scalars, stimuliLabel)
			restoreScalar(&r.States.Error, st.Scalars, errorLabel)
			restoreScalar(&r.States.Probability, st.Scalars, probabilityLabel)
			restoreScalar(&r.States.Output, st.Scalars, outputLabel)
		}
	}

	if rw := s.Rewards; rw != nil {
		restoreSpace(&r.Rewards.Input, rw.Input)
		restoreSpace(&r.Rewards.OldInput, rw.OldInput)
		restoreSpace(&r.Rewards.ExpectedValue, rw.ExpectedValue)
		restoreSpace(&r.Rewards.Output, rw.Output)
		restoreSpace(&r.Rewards.Error, rw.Error)
	}

	if w := s.Weights; w != nil {
		restoreSpace(&r.Weights.Stimuli, w.Stimuli)
		restoreSpace(&r.Weights.ExpectedValue, w.ExpectedValue)
	}
}

// Canonical returns the human readable form used by the JSON mirror.
func (r *Regressor) Canonical() any {
	return map[string]any{
		"id":    r.ID,
		"phase": string(r.Phase),
		"states": map[string]any{
			"input":       r.States.Input,
			"old_input":   r.States.OldInput,
			"stimuli":     r.States.Stimuli,
			"error":       r.States.Error,
			"probability": r.States.Probability,
			"output":      r.States.Output,
		},
		"rewards": map[string]any{
			"input":          r.Rewards.Input,
			"old_input":      r.Rewards.OldInput,
			"expected_value": r.Rewards.ExpectedValue,
			"output":         r.Rewards.Output,
			"error":          r.Rewards.Error,
		},
		"weights": map[string]any{
			"stimuli":        r.Weights.Stimuli,
			"expected_value": r.Weights.ExpectedValue,
		},
	}
}

func (r *Regressor) String() string {
	c, err := persist.Canonical(r)
	if err != nil {
		return err.Error()
	}
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// Save writes <dir>/<name>.gob and, when asJSON is set, the <dir>/<name>.json mirror.
func (r *Regressor) Save(dir, name string, asJSON bool) error {
	return r.SaveWithOptions(dir, name, asJSON, persist.Options{})
}

func (r *Regressor) SaveWithOptions(dir, name string, asJSON bool, opts persist.Options) error {
	if err := persist.SaveBinary(r.Snapshot(), dir, name, opts); err != nil {
		return err
	}
	if asJSON {
		return persist.SaveJSON(r, dir, name)
	}
	return nil
}

// Load restores the snapshot saved under dir and name. It reports false with a
// nil error when no snapshot exists.
func (r *Regressor) Load(dir, name string) (bool, error) {
	s, ok, err := persist.LoadBinary[Snapshot](dir, name)
	if err != nil || !ok {
		return false, err
	}
	r.Restore(s)
	return true, nil
}

// StimulusMatrix returns the given pole of the stimulus weights as a dense
// matrix together with its row and column labels.
func (r *Regressor) StimulusMatrix(pole quantity.Pole) (*mat.Dense, []string, error) {
	labels := matrix.Labels(r.Weights.Stimuli)
	d, err := matrix.Dense(r.Weights.Stimuli, labels, pole)
	return d, labels, err
}

// StimulusMaxAbs returns the largest absolute value of the given pole over the
// stimulus weights.
func (r *Regressor) StimulusMaxAbs(pole quantity.Pole) (float32, error) {
	gen, err := matrix.General(r.Weights.Stimuli, matrix.Labels(r.Weights.Stimuli), pole)
	if err != nil {
		return 0, err
	}
	return matrix.MaxAbs(gen), nil
}

// ExpectedValueMatrix is StimulusMatrix for one reward channel. An unknown
// channel is not created.
func (r *Regressor) ExpectedValueMatrix(channel string, pole quantity.Pole) (*mat.Dense, []string, error) {
	w := space.New()
	if v, ok := r.Weights.ExpectedValue.Lookup(channel); ok {
		if sub, ok := v.(*space.Space); ok {
			w = sub
		}
	}
	labels := matrix.Labels(w)
	d, err := matrix.Dense(w, labels, pole)
	return d, labels, err
}
