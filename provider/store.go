package provider

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"time"
)

var errEnvelope = errors.New("provider: corrupt envelope")

var envMagic = [...]byte{'R', 'G'}

const (
	envVersion byte = 1
	envHeader       = 2 + 1 + 8 + 8
)

// CostFunc computes the admission cost of a write (used by ristretto).
type CostFunc func(key string, value []byte) int64

// Store adds soft expiry and the race-condition grace window on top of a
// Provider.
//
// Every value is wrapped with its soft expiry and grace duration. The
// backend keeps it for TTL+grace. Once the soft expiry passes, the first
// reader inside the grace window pushes the expiry forward by one window and
// misses (so it refetches), while everyone else keeps getting the old value
// until the fresh write lands. Past the window the entry is dropped.
type Store struct {
	p    Provider
	now  func() time.Time
	cost CostFunc
}

type StoreOption func(*Store)

// WithClock overrides time.Now. Meant for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithCost sets the per-write cost passed to the provider. Default 1.
func WithCost(f CostFunc) StoreOption {
	return func(s *Store) { s.cost = f }
}

func NewStore(p Provider, opts ...StoreOption) *Store {
	s := &Store{
		p:    p,
		now:  time.Now,
		cost: func(string, []byte) int64 { return 1 },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Provider returns the wrapped backend.
func (s *Store) Provider() Provider { return s.p }

func (s *Store) Read(ctx context.Context, key string) ([]byte, bool, error) {
	raw, ok, err := s.p.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	expiresAt, grace, payload, err := openEnvelope(raw)
	if err != nil {
		_ = s.p.Del(ctx, key) // self-heal foreign or truncated value
		return nil, false, nil
	}

	now := s.now()
	if expiresAt.IsZero() || now.Before(expiresAt) {
		return payload, true, nil
	}

	if grace > 0 && now.Before(expiresAt.Add(grace)) {
		// keep serving the stale value to others while this reader refetches
		extended := sealEnvelope(now.Add(grace), grace, payload)
		_, _ = s.p.Set(ctx, key, extended, s.cost(key, extended), 2*grace)
		return nil, false, nil
	}

	_ = s.p.Del(ctx, key)
	return nil, false, nil
}

// Peek returns the value only while it is fresh. It never extends, refreshes
// or deletes the entry, so it does not take the refetch turn of the grace
// window.
func (s *Store) Peek(ctx context.Context, key string) ([]byte, bool, error) {
	raw, ok, err := s.p.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	expiresAt, _, payload, err := openEnvelope(raw)
	if err != nil {
		return nil, false, nil
	}
	if !expiresAt.IsZero() && !s.now().Before(expiresAt) {
		return nil, false, nil
	}
	return payload, true, nil
}

func (s *Store) Write(ctx context.Context, key string, value []byte, opts WriteOptions) (bool, error) {
	grace := opts.RaceConditionTTL
	if grace < 0 {
		grace = 0
	}

	var expiresAt time.Time
	var physical time.Duration
	if opts.TTL > 0 {
		expiresAt = s.now().Add(opts.TTL)
		physical = opts.TTL + grace
	}

	env := sealEnvelope(expiresAt, grace, value)
	return s.p.Set(ctx, key, env, s.cost(key, env), physical)
}

func (s *Store) DeleteMatched(ctx context.Context, prefix string) error {
	if !s.p.SupportsPrefixDelete() {
		return ErrPrefixDeleteUnsupported
	}
	return s.p.DeleteMatched(ctx, prefix)
}

func (s *Store) Clear(ctx context.Context) error { return s.p.Clear(ctx) }

func (s *Store) SupportsPrefixDelete() bool { return s.p.SupportsPrefixDelete() }

func (s *Store) Close(ctx context.Context) error { return s.p.Close(ctx) }

// envelope: magic(2) | ver(1) | expiresAt(i64 unix nanos, 0=never) | grace(i64 nanos) | payload
func sealEnvelope(expiresAt time.Time, grace time.Duration, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(envHeader + len(payload))

	buf.Write(envMagic[:])
	buf.WriteByte(envVersion)

	var u8 [8]byte
	var exp int64
	if !expiresAt.IsZero() {
		exp = expiresAt.UnixNano()
	}
	binary.BigEndian.PutUint64(u8[:], uint64(exp))
	buf.Write(u8[:])
	binary.BigEndian.PutUint64(u8[:], uint64(grace))
	buf.Write(u8[:])

	buf.Write(payload)
	return buf.Bytes()
}

func openEnvelope(b []byte) (time.Time, time.Duration, []byte, error) {
	if len(b) < envHeader || !bytes.Equal(b[:2], envMagic[:]) || b[2] != envVersion {
		return time.Time{}, 0, nil, errEnvelope
	}
	exp := int64(binary.BigEndian.Uint64(b[3:11]))
	grace := time.Duration(binary.BigEndian.Uint64(b[11:19]))
	if exp < 0 || grace < 0 {
		return time.Time{}, 0, nil, errEnvelope
	}

	var expiresAt time.Time
	if exp != 0 {
		expiresAt = time.Unix(0, exp)
	}
	return expiresAt, grace, b[envHeader:], nil
}
