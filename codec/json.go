package codec

import "encoding/json"

// JSON is the default codec. Records may customize their shape with
// json.Marshaler / json.Unmarshaler.
type JSON[R any] struct{}

var _ Codec[struct{}] = JSON[struct{}]{}

func (JSON[R]) Encode(v R) ([]byte, error) { return json.Marshal(v) }
func (JSON[R]) Decode(b []byte) (R, error) {
	var v R
	err := json.Unmarshal(b, &v)
	return v, err
}
