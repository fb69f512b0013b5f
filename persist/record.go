package persist

import (
	"encoding/json"
	"os"

	"github.com/sw965/omw/encoding/gobx"
	"github.com/sw965/omw/encoding/jsonx"
)

// Record is a flat, named label -> value table. Reading an absent label stores
// and returns 0.
type Record struct {
	Name   string
	Values map[string]float64
}

func NewRecord(name string) *Record {
	return &Record{Name: name, Values: map[string]float64{}}
}

func (r *Record) Get(label string) float64 {
	if r.Values == nil {
		r.Values = map[string]float64{}
	}
	v, ok := r.Values[label]
	if !ok {
		r.Values[label] = 0.0
	}
	return v
}

func (r *Record) Set(label string, v float64) {
	if r.Values == nil {
		r.Values = map[string]float64{}
	}
	r.Values[label] = v
}

func (r *Record) Remove(label string) {
	delete(r.Values, label)
}

func (r *Record) Clear(labels ...string) {
	for _, label := range labels {
		r.Set(label, 0.0)
	}
}

func (r *Record) ClearAll() {
	for label := range r.Values {
		r.Values[label] = 0.0
	}
}

func (r *Record) Empty() {
	r.Values = map[string]float64{}
}

func (r *Record) Canonical() any {
	return r.Values
}

func (r *Record) String() string {
	data, err := json.MarshalIndent(r.Values, "", "    ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// Save writes <dir>/<Name>.gob when asBinary is set and <dir>/<Name>.json otherwise.
func (r *Record) Save(dir string, asBinary bool) error {
	if asBinary {
		return SaveBinary(r.Values, dir, r.Name, Options{})
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return jsonx.Save(r.Values, JSONPath(dir, r.Name))
}

// Load replaces Values with the saved table. It reports false when the file
// does not exist.
func (r *Record) Load(dir string, asBinary bool) (bool, error) {
	var path string
	if asBinary {
		path = BinaryPath(dir, r.Name, Options{})
	} else {
		path = JSONPath(dir, r.Name)
	}
	if !exists(path) {
		return false, nil
	}

	var values map[string]float64
	var err error
	if asBinary {
		values, err = gobx.Load[map[string]float64](path)
	} else {
		values, err = jsonx.Load[map[string]float64](path)
	}
	if err != nil {
		return false, err
	}
	r.Values = values
	return true, nil
}
