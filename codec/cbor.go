package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// CBOR serializes records using fxamacker/cbor.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
//
// deterministic=true selects Core Deterministic Encoding (RFC 8949) so the
// same record always produces the same bytes; otherwise the preferred
// unsorted options are used. Times are encoded as RFC3339Nano.
type CBOR[R any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[struct{}] = CBOR[struct{}]{}

func NewCBOR[R any](deterministic bool) (CBOR[R], error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano

	em, err := eo.EncMode()
	if err != nil {
		return CBOR[R]{}, err
	}
	dm, err := (cbor.DecOptions{}).DecMode()
	if err != nil {
		return CBOR[R]{}, err
	}
	return CBOR[R]{enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error. Meant for tests and
// package-level variables.
func MustCBOR[R any](deterministic bool) CBOR[R] {
	c, err := NewCBOR[R](deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR[R]) Encode(v R) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c CBOR[R]) Decode(b []byte) (R, error) {
	var v R
	err := c.dec.Unmarshal(b, &v)
	return v, err
}
