package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/sw965/omw/encoding/jsonx"
)

var ErrShapeMismatch = errors.New("配列エラー: インデックスが配列の形と一致しません")

// ArrayToMap turns nested slices into nested map[int]any keyed by index.
// Non slice values are returned unchanged.
func ArrayToMap(arr any) any {
	rv := reflect.ValueOf(arr)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return arr
	}
	m := make(map[int]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		m[i] = ArrayToMap(rv.Index(i).Interface())
	}
	return m
}

func toIndex(k any) (int, error) {
	switch x := k.(type) {
	case int:
		return x, nil
	case string:
		// JSONから読み込んだ場合、キーは文字列になっている。
		return strconv.Atoi(x)
	}
	return 0, fmt.Errorf("%w: key %v (%T)", ErrShapeMismatch, k, k)
}

// MapToArray is the inverse of ArrayToMap. Keys may be ints or, after a JSON
// round trip, decimal strings. Other values are returned unchanged.
func MapToArray(m any) (any, error) {
	rv := reflect.ValueOf(m)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return m, nil
	}

	n := rv.Len()
	arr := make([]any, n)
	iter := rv.MapRange()
	for iter.Next() {
		idx, err := toIndex(iter.Key().Interface())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
		}
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: index %d, length %d", ErrShapeMismatch, idx, n)
		}
		e, err := MapToArray(iter.Value().Interface())
		if err != nil {
			return nil, err
		}
		arr[idx] = e
	}
	return arr, nil
}

// SaveArray writes arr to <dir>/<name>.gob, or as an index keyed JSON object
// to <dir>/<name>.json.
func SaveArray(arr any, dir, name string, asBinary bool) error {
	if asBinary {
		return SaveBinary(arr, dir, name, Options{})
	}
	return SaveJSON(stringKeys(ArrayToMap(arr)), dir, name)
}

func stringKeys(v any) any {
	m, ok := v.(map[int]any)
	if !ok {
		return v
	}
	y := make(map[string]any, len(m))
	for k, e := range m {
		y[strconv.Itoa(k)] = stringKeys(e)
	}
	return y
}

// LoadArray reads an array saved by SaveArray into T. ok is false when the file
// does not exist.
func LoadArray[T any](dir, name string, asBinary bool) (v T, ok bool, err error) {
	if asBinary {
		return LoadBinary[T](dir, name)
	}

	path := JSONPath(dir, name)
	if !exists(path) {
		return v, false, nil
	}
	m, err := jsonx.Load[map[string]any](path)
	if err != nil {
		return v, false, err
	}
	arr, err := MapToArray(m)
	if err != nil {
		return v, false, err
	}

	// []any からTへの変換はJSONを経由する。
	data, err := json.Marshal(arr)
	if err != nil {
		return v, false, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, err
	}
	return v, true, nil
}
