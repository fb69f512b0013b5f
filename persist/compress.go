package persist

import (
	"encoding/gob"
	"os"

	"github.com/klauspost/compress/zstd"
)

func saveCompressed(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(enc).Encode(v); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

func loadCompressed[T any](path string) (T, error) {
	var v T
	f, err := os.Open(path)
	if err != nil {
		return v, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return v, err
	}
	defer dec.Close()

	err = gob.NewDecoder(dec).Decode(&v)
	return v, err
}
