// Package provider defines the storage abstraction used by rescache.
//
// A Provider is a byte store with TTLs. Implementations MUST be byte-for-byte
// transparent: Get must return exactly the bytes previously passed to Set for
// a key. Providers know nothing about records; Store layers the
// race-condition grace window on top of any Provider and is what the cache
// talks to.
package provider

import (
	"context"
	"errors"
	"time"
)

// ErrPrefixDeleteUnsupported is returned by DeleteMatched on providers whose
// SupportsPrefixDelete reports false.
var ErrPrefixDeleteUnsupported = errors.New("provider: prefix delete not supported")

// Provider is a minimal byte store with TTLs. Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL (<=0 means no expiry). May ignore
	// cost if unsupported. Returns ok=false when the store rejected the write
	// under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// DeleteMatched removes every key starting with prefix.
	DeleteMatched(ctx context.Context, prefix string) error

	// Clear removes every key the provider owns.
	Clear(ctx context.Context) error

	// SupportsPrefixDelete reports whether DeleteMatched can be used.
	SupportsPrefixDelete() bool

	// Close releases resources.
	Close(ctx context.Context) error
}

// WriteOptions carry the expiry policy of a single write.
type WriteOptions struct {
	// TTL is how long the entry is fresh. <=0 means it never expires.
	TTL time.Duration
	// RaceConditionTTL is the grace window during which an expired entry is
	// still served to concurrent readers while one of them refetches.
	RaceConditionTTL time.Duration
}
