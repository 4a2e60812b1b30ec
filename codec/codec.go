// Package codec serializes record payloads. The persisted flag and the
// one/many/none shape of a lookup result are framed separately, so a Codec
// only ever sees a single record.
package codec

import "fmt"

// Codec encodes/decodes records R to []byte for storage.
// Decode must return a fresh value on every call.
type Codec[R any] interface {
	Encode(R) ([]byte, error)
	Decode([]byte) (R, error)
}

// Names accepted by Lookup.
const (
	NameJSON    = "json"
	NameMsgpack = "msgpack"
	NameCBOR    = "cbor"
)

// Lookup returns the codec registered under name. An empty name means JSON.
func Lookup[R any](name string) (Codec[R], error) {
	switch name {
	case "", NameJSON:
		return JSON[R]{}, nil
	case NameMsgpack:
		return Msgpack[R]{}, nil
	case NameCBOR:
		c, err := NewCBOR[R](true)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("codec: unknown codec %q", name)
}
