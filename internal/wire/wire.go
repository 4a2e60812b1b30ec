package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

// Kind tells what shape of lookup result an entry holds.
type Kind byte

const (
	KindNone Kind = iota // explicit "nothing" marker
	KindOne
	KindMany
)

var (
	ErrCorrupt = errors.New("rescache: corrupt entry")
	magic4     = [...]byte{'R', 'S', 'C', 'E'}
)

// Item is one record payload plus its persisted flag.
// The flag is sidecar metadata and is never derived from Payload.
type Item struct {
	Persisted bool
	Payload   []byte
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

const header = 4 + 1 + 1 + 4

// Entry layout:
//
//	magic(4) | ver(1) | kind(1) | n(u32 be)
//	persisted(1) | vlen(u32 be) | payload(vlen) * n
//
// KindNone carries n=0, KindOne carries n=1.
func Encode(kind Kind, items []Item) []byte {
	switch kind {
	case KindNone:
		items = nil
	case KindOne:
		if len(items) != 1 {
			panic("rescache: single entry needs exactly one item")
		}
	case KindMany:
	default:
		panic("rescache: unknown entry kind")
	}

	total := header
	for _, it := range items {
		total += 1 + 4 + len(it.Payload)
	}

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(byte(kind))

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(items)))
	buf.Write(u4[:])

	for _, it := range items {
		if it.Persisted {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
		binary.BigEndian.PutUint32(u4[:], uint32(len(it.Payload)))
		buf.Write(u4[:])
		buf.Write(it.Payload)
	}

	return buf.Bytes()
}

// Decode parses an entry produced by Encode. Payload slices alias b.
func Decode(b []byte) (Kind, []Item, error) {
	if len(b) < header || !hasMagic(b) || b[4] != version {
		return 0, nil, ErrCorrupt
	}
	kind := Kind(b[5])
	if kind > KindMany {
		return 0, nil, ErrCorrupt
	}

	off := 6
	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4

	switch {
	case kind == KindNone && n != 0:
		return 0, nil, ErrCorrupt
	case kind == KindOne && n != 1:
		return 0, nil, ErrCorrupt
	case n < 0 || n > (len(b)-off)/5: // each item needs at least 5 bytes
		return 0, nil, ErrCorrupt
	}

	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		if off+5 > len(b) {
			return 0, nil, ErrCorrupt
		}
		flag := b[off]
		if flag > 1 {
			return 0, nil, ErrCorrupt
		}
		off++

		vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if vlen < 0 || vlen > len(b)-off {
			return 0, nil, ErrCorrupt
		}

		items = append(items, Item{
			Persisted: flag == 1,
			Payload:   b[off : off+vlen],
		})
		off += vlen
	}

	if off != len(b) {
		return 0, nil, ErrCorrupt
	}
	return kind, items, nil
}
