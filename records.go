package rescache

import (
	"github.com/unkn0wn-root/rescache/codec"
	"github.com/unkn0wn-root/rescache/internal/wire"
)

// RecordCodec turns results into cache entries and back. Each record's
// persisted flag travels next to its payload and is re-applied on decode,
// whatever the codec or the record's constructor would default it to.
//
// Decode always materializes new instances, so every read is a defensive copy.
type RecordCodec[R Record] struct {
	codec codec.Codec[R]
}

// NewRecordCodec wraps c. A nil c means JSON.
func NewRecordCodec[R Record](c codec.Codec[R]) RecordCodec[R] {
	if c == nil {
		c = codec.JSON[R]{}
	}
	return RecordCodec[R]{codec: c}
}

func (rc RecordCodec[R]) Encode(res Result[R]) ([]byte, error) {
	switch res.kind {
	case resultOne:
		it, err := rc.item(res.one)
		if err != nil {
			return nil, err
		}
		return wire.Encode(wire.KindOne, []wire.Item{it}), nil
	case resultMany:
		items := make([]wire.Item, 0, len(res.many))
		for _, r := range res.many {
			it, err := rc.item(r)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		return wire.Encode(wire.KindMany, items), nil
	}
	return wire.Encode(wire.KindNone, nil), nil
}

func (rc RecordCodec[R]) item(r R) (wire.Item, error) {
	if isNil(r) {
		return wire.Item{}, ErrNilRecord
	}
	b, err := rc.codec.Encode(r)
	if err != nil {
		return wire.Item{}, err
	}
	return wire.Item{Persisted: r.IsPersisted(), Payload: b}, nil
}

func (rc RecordCodec[R]) Decode(b []byte) (Result[R], error) {
	kind, items, err := wire.Decode(b)
	if err != nil {
		return Result[R]{}, err
	}

	switch kind {
	case wire.KindOne:
		r, err := rc.record(items[0])
		if err != nil {
			return Result[R]{}, err
		}
		return Result[R]{kind: resultOne, one: r}, nil
	case wire.KindMany:
		out := make([]R, 0, len(items))
		for _, it := range items {
			r, err := rc.record(it)
			if err != nil {
				return Result[R]{}, err
			}
			out = append(out, r)
		}
		return Result[R]{kind: resultMany, many: out}, nil
	}
	return Result[R]{}, nil
}

func (rc RecordCodec[R]) record(it wire.Item) (R, error) {
	r, err := rc.codec.Decode(it.Payload)
	if err != nil {
		return r, err
	}
	if isNil(r) {
		return r, wire.ErrCorrupt
	}
	r.SetPersisted(it.Persisted)
	return r, nil
}

// Copy returns an independent instance equal to r, with r's persisted flag
// set explicitly on the copy.
func (rc RecordCodec[R]) Copy(r R) (R, error) {
	it, err := rc.item(r)
	if err != nil {
		var zero R
		return zero, err
	}
	return rc.record(it)
}
