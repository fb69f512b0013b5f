// Package persist writes learner state to disk: an exact binary snapshot (gob,
// optionally zstd compressed) and a human readable JSON mirror.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sw965/omw/encoding/gobx"
)

const (
	BinaryExt     = ".gob"
	CompressedExt = ".gob.zst"
	JSONExt       = ".json"
)

var ErrNotSerializable = errors.New("シリアライズエラー: canonical formを持たない値です")

// SerializationError reports the type of a value that has no canonical form.
type SerializationError struct {
	Type string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotSerializable.Error(), e.Type)
}

func (e *SerializationError) Unwrap() error {
	return ErrNotSerializable
}

// Serializable is implemented by every state and weight type that can appear
// in the JSON mirror. Canonical must return primitives, maps and slices only,
// or further Serializable values.
type Serializable interface {
	Canonical() any
}

type Options struct {
	// Compressがtrueの場合、バイナリスナップショットをzstdで圧縮して保存する。
	Compress bool
}

func BinaryPath(dir, name string, opts Options) string {
	if opts.Compress {
		return filepath.Join(dir, name+CompressedExt)
	}
	return filepath.Join(dir, name+BinaryExt)
}

func JSONPath(dir, name string) string {
	return filepath.Join(dir, name+JSONExt)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// SaveBinary writes v to <dir>/<name>.gob, or <dir>/<name>.gob.zst when
// opts.Compress is set. Missing directories are created, and the snapshot of
// the other format is removed so that LoadBinary reads the one just written.
func SaveBinary(v any, dir, name string, opts Options) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := BinaryPath(dir, name, opts)
	var err error
	if opts.Compress {
		err = saveCompressed(v, path)
	} else {
		err = gobx.Save(v, path)
	}
	if err != nil {
		return err
	}

	stale := BinaryPath(dir, name, Options{Compress: !opts.Compress})
	if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// LoadBinary reads the snapshot written by SaveBinary. The plain file is
// preferred if both exist. ok is false when neither file exists.
func LoadBinary[T any](dir, name string) (v T, ok bool, err error) {
	plain := BinaryPath(dir, name, Options{})
	if exists(plain) {
		v, err = gobx.Load[T](plain)
		return v, err == nil, err
	}

	compressed := BinaryPath(dir, name, Options{Compress: true})
	if exists(compressed) {
		v, err = loadCompressed[T](compressed)
		return v, err == nil, err
	}
	return v, false, nil
}

// Canonical converts v into values encoding/json writes directly, dispatching
// on Serializable. Any other value type is reported as a *SerializationError.
func Canonical(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, float64, float32, int, int64, uint64:
		return x, nil
	case Serializable:
		return Canonical(x.Canonical())
	case map[string]float64:
		return x, nil
	case []float64:
		return x, nil
	case map[string]any:
		y := make(map[string]any, len(x))
		for k, e := range x {
			c, err := Canonical(e)
			if err != nil {
				return nil, err
			}
			y[k] = c
		}
		return y, nil
	case []any:
		y := make([]any, len(x))
		for i, e := range x {
			c, err := Canonical(e)
			if err != nil {
				return nil, err
			}
			y[i] = c
		}
		return y, nil
	}
	return nil, &SerializationError{Type: fmt.Sprintf("%T", v)}
}

func writeJSON(v any, path string) error {
	// map のキーは encoding/json が昇順に並べる。
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SaveJSON writes the canonical form of v to <dir>/<name>.json with sorted
// keys and four space indentation.
func SaveJSON(v any, dir, name string) error {
	c, err := Canonical(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return writeJSON(c, JSONPath(dir, name))
}
