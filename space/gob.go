package space

import (
	"bytes"
	"encoding/gob"

	"github.com/sw965/hebb/quantity"
)

func init() {
	// Spaceの値はインターフェースとして保存されるので、具体型を登録しておく。
	gob.Register(quantity.Zero)
	gob.Register(Real(0))
	gob.Register(&Space{})
}

func (s *Space) GobEncode() ([]byte, error) {
	s.init()
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s.entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Space) GobDecode(data []byte) error {
	entries := map[string]Value{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
		return err
	}
	s.entries = entries
	return nil
}
