package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes records using vmihailenco/msgpack/v5.
// The zero value is ready to use. Fields follow `msgpack:"name"` tags.
type Msgpack[R any] struct{}

func (Msgpack[R]) Encode(v R) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (Msgpack[R]) Decode(b []byte) (R, error) {
	var v R
	err := msgpack.Unmarshal(b, &v)
	return v, err
}
