// Package sturdyc adapts viccon/sturdyc as a Provider.
//
// sturdyc keeps a single TTL for the whole client, so per-write TTLs are
// ignored; provider.Store still enforces soft expiry from its envelope.
package sturdyc

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	sc "github.com/viccon/sturdyc"

	pr "github.com/unkn0wn-root/rescache/provider"
)

type Config struct {
	// Capacity is the maximum number of entries. Required.
	Capacity int
	// NumShards splits the keyspace for concurrent access. 0 => 64.
	NumShards int
	// TTL is the physical lifetime of every entry. It should be at least
	// TTL+RaceConditionTTL of the cache in front of it. Required.
	TTL time.Duration
	// EvictionPercentage is how much of a full shard is evicted at once. 0 => 10.
	EvictionPercentage int
	// EvictionInterval sets how often expired entries are swept. 0 = library default.
	EvictionInterval time.Duration
}

func (c *Config) setDefaults() {
	if c.NumShards == 0 {
		c.NumShards = 64
	}
	if c.EvictionPercentage == 0 {
		c.EvictionPercentage = 10
	}
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Min(1)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Nanosecond)),
		validation.Field(&c.EvictionPercentage, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
	)
}

type Provider struct {
	c *sc.Client[[]byte]
}

var _ pr.Provider = (*Provider)(nil)

func New(cfg Config) (*Provider, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var opts []sc.Option
	if cfg.EvictionInterval > 0 {
		opts = append(opts, sc.WithEvictionInterval(cfg.EvictionInterval))
	}
	c := sc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage, opts...)
	return &Provider{c: c}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	cp := make([]byte, len(value))
	copy(cp, value)
	p.c.Set(key, cp)
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Delete(key)
	return nil
}

func (p *Provider) DeleteMatched(_ context.Context, prefix string) error {
	for _, k := range p.c.ScanKeys() {
		if strings.HasPrefix(k, prefix) {
			p.c.Delete(k)
		}
	}
	return nil
}

func (p *Provider) Clear(ctx context.Context) error {
	return p.DeleteMatched(ctx, "")
}

func (p *Provider) SupportsPrefixDelete() bool { return true }

func (p *Provider) Close(context.Context) error { return nil }
