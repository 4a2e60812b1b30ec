package codec

import (
	"errors"

	"google.golang.org/protobuf/proto"
)

// Protobuf serializes records that are generated protobuf messages.
// ctor must return a new empty message on each call.
type Protobuf[R proto.Message] struct {
	new func() R
}

func NewProtobuf[R proto.Message](ctor func() R) Protobuf[R] {
	return Protobuf[R]{new: ctor}
}

func (c Protobuf[R]) Encode(v R) ([]byte, error) {
	return proto.Marshal(v)
}

func (c Protobuf[R]) Decode(b []byte) (R, error) {
	if c.new == nil {
		var zero R
		return zero, errors.New("codec: protobuf codec has no constructor")
	}
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
