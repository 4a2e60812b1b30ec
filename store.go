package rescache

import (
	"context"

	pr "github.com/unkn0wn-root/rescache/provider"
)

// CacheStore is the byte store the cache writes through. It owns expiry and
// the race-condition grace window. Must be safe for concurrent use.
type CacheStore interface {
	// Read returns (value, true, nil) on hit and (nil, false, nil) on miss.
	Read(ctx context.Context, key string) ([]byte, bool, error)
	// Peek is Read without side effects: entries past their soft expiry are
	// misses and are left as they are.
	Peek(ctx context.Context, key string) ([]byte, bool, error)
	// Write stores value. ok=false means the store dropped the write.
	Write(ctx context.Context, key string, value []byte, opts pr.WriteOptions) (ok bool, err error)
	// DeleteMatched removes every key starting with prefix.
	DeleteMatched(ctx context.Context, prefix string) error
	// Clear removes every entry.
	Clear(ctx context.Context) error
	// SupportsPrefixDelete reports whether DeleteMatched can be used. When
	// false, resource type invalidation falls back to Clear.
	SupportsPrefixDelete() bool
}

var _ CacheStore = (*pr.Store)(nil)
