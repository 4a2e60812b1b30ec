package codec

import (
	"errors"
	"fmt"
)

var ErrPayloadTooLarge = errors.New("codec: payload too large")

// Limit wraps another codec and refuses to decode payloads longer than
// MaxDecode bytes. Encode is forwarded unchanged. MaxDecode <= 0 disables it.
//
// Useful when the store is shared and entries may come from other writers.
type Limit[R any] struct {
	Inner     Codec[R]
	MaxDecode int
}

func (c Limit[R]) Encode(v R) ([]byte, error) { return c.Inner.Encode(v) }
func (c Limit[R]) Decode(b []byte) (R, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero R
		return zero, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
