package rescache

import (
	"context"
	"errors"
	"time"

	"github.com/unkn0wn-root/rescache/internal/wire"
	pr "github.com/unkn0wn-root/rescache/provider"
)

// Cached decorates a Finder with read-through/write-through caching.
// It holds no locks; concurrent misses on one key may each reach the Finder.
type Cached[R Record] struct {
	finder   Finder[R]
	store    CacheStore
	records  RecordCodec[R]
	classify Classifier
	log      Logger
	hooks    Hooks

	resourceType     string
	enabled          bool
	cacheCollections bool
	synchronize      bool
	ttl              TTLFunc
	raceTTL          time.Duration
}

func New[R Record](finder Finder[R], opts Options[R]) (*Cached[R], error) {
	if finder == nil {
		return nil, ErrNilFinder
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	c := &Cached[R]{
		finder:           finder,
		store:            opts.Store,
		records:          NewRecordCodec(opts.Codec),
		classify:         Classifier{CollectionArgs: opts.CollectionArgs},
		log:              safeLogger{opts.Logger},
		hooks:            safeHooks{opts.Hooks},
		resourceType:     opts.ResourceType,
		enabled:          !opts.Disabled,
		cacheCollections: !opts.DisableCollectionCache,
		synchronize:      opts.CollectionSynchronize,
		raceTTL:          opts.RaceConditionTTL,
	}
	if opts.TTLFunc != nil {
		c.ttl = opts.TTLFunc
	} else {
		ttl := opts.TTL
		c.ttl = func() time.Duration { return ttl }
	}
	return c, nil
}

func (c *Cached[R]) ResourceType() string { return c.resourceType }

func (c *Cached[R]) Enabled() bool { return c.enabled }

// Key returns the cache key of a lookup, with the reload option removed.
func (c *Cached[R]) Key(args Args) string {
	args, _ = stripReload(args)
	return DeriveKey(c.resourceType, args)
}

func (c *Cached[R]) collectionKey() string {
	return DeriveKey(c.resourceType, c.classify.CollectionArgs)
}

// Find serves args from the cache, or fetches them from the Finder and writes
// them through. Finder errors are returned unchanged; store and decode
// failures only turn hits into misses.
func (c *Cached[R]) Find(ctx context.Context, args Args) (Result[R], error) {
	args, reload := stripReload(args)
	key := DeriveKey(c.resourceType, args)
	anyCollection := c.classify.IsAnyCollection(args)

	force := reload || !c.enabled || (!c.cacheCollections && anyCollection)
	if !force {
		if res, ok := c.read(ctx, key); ok {
			return res, nil
		}
	}

	res, err := c.finder.Find(ctx, args)
	if err != nil {
		return Result[R]{}, err
	}

	if c.synchronize {
		c.sync(ctx, res, args)
	}

	if !c.cacheCollections && anyCollection {
		return res, nil
	}
	return c.writeThrough(ctx, key, res), nil
}

// writeThrough stores res and returns what the store hands back, so fresh and
// cached responses are built the same way. If the store drops the entry, the
// encoded payload is decoded directly instead.
func (c *Cached[R]) writeThrough(ctx context.Context, key string, res Result[R]) Result[R] {
	payload, ok := c.write(ctx, key, res)
	if payload == nil {
		return res
	}
	if ok {
		if out, hit := c.peek(ctx, key); hit {
			return out
		}
	}
	out, err := c.records.Decode(payload)
	if err != nil {
		c.log.Warn("decode of fresh payload failed", Fields{"key": key, "err": err})
		return res
	}
	return out
}

// read is a lookup that may take the refetch turn of a stale entry.
func (c *Cached[R]) read(ctx context.Context, key string) (Result[R], bool) {
	return c.load(ctx, key, c.store.Read)
}

// peek only returns fresh entries and leaves stale ones untouched.
func (c *Cached[R]) peek(ctx context.Context, key string) (Result[R], bool) {
	return c.load(ctx, key, c.store.Peek)
}

func (c *Cached[R]) load(ctx context.Context, key string, get func(context.Context, string) ([]byte, bool, error)) (Result[R], bool) {
	raw, ok, err := get(ctx, key)
	if err != nil {
		c.hooks.StoreError("read", key, err)
		c.log.Warn("cache read failed", Fields{"key": key, "err": err})
		return Result[R]{}, false
	}
	if !ok {
		return Result[R]{}, false
	}

	res, err := c.records.Decode(raw)
	if err != nil {
		reason := "decode"
		if errors.Is(err, wire.ErrCorrupt) {
			reason = "corrupt"
		}
		c.hooks.CorruptEntry(key, reason)
		c.log.Warn("cache entry unreadable", Fields{"key": key, "reason": reason, "err": err})
		return Result[R]{}, false
	}

	c.log.Info(logTag+" READ "+key, Fields{"key": key})
	return res, true
}

// write encodes and stores res. It returns the encoded payload (nil when res
// cannot be encoded) and whether the store accepted it.
func (c *Cached[R]) write(ctx context.Context, key string, res Result[R]) ([]byte, bool) {
	payload, err := c.records.Encode(res)
	if err != nil {
		c.log.Warn("cache encode failed", Fields{"key": key, "err": err})
		return nil, false
	}

	c.log.Info(logTag+" WRITE "+key, Fields{"key": key})
	ok, err := c.store.Write(ctx, key, payload, pr.WriteOptions{
		TTL:              c.ttl(),
		RaceConditionTTL: c.raceTTL,
	})
	switch {
	case err != nil:
		c.hooks.StoreError("write", key, err)
		c.log.Warn("cache write failed", Fields{"key": key, "err": err})
		return payload, false
	case !ok:
		c.hooks.WriteRejected(key)
		c.log.Debug("cache write rejected by store", Fields{"key": key})
	}
	return payload, ok
}

// stripReload returns args without the reload option, and whether it was set.
// A trailing options map left empty is dropped, so {1, {}} and {1} are the
// same lookup. The caller's slice and map are never modified.
func stripReload(args Args) (Args, bool) {
	if len(args) == 0 {
		return args, false
	}
	opts, ok := args[len(args)-1].(map[string]any)
	if !ok {
		return args, false
	}
	v, has := opts[ReloadOption]
	if !has && len(opts) > 0 {
		return args, false
	}
	reload, _ := v.(bool)

	out := make(Args, len(args)-1, len(args))
	copy(out, args[:len(args)-1])
	if len(opts) > 1 {
		rest := make(map[string]any, len(opts)-1)
		for k, val := range opts {
			if k != ReloadOption {
				rest[k] = val
			}
		}
		out = append(out, rest)
	}
	return out, reload
}
