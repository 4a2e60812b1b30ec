// Package memory is an in-process Provider backed by a lock-free xsync map.
// It honours per-entry TTLs and supports prefix deletion.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	pr "github.com/unkn0wn-root/rescache/provider"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type Provider struct {
	m   *xsync.MapOf[string, entry]
	now func() time.Time

	ticker    *time.Ticker
	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	// CleanupInterval runs a background sweep of expired entries.
	// 0 disables it; expired entries are then dropped lazily on read.
	CleanupInterval time.Duration
	// Now overrides time.Now. Meant for tests.
	Now func() time.Time
}

func New(cfg Config) *Provider {
	p := &Provider{
		m:   xsync.NewMapOf[string, entry](),
		now: cfg.Now,
	}
	if p.now == nil {
		p.now = time.Now
	}
	if cfg.CleanupInterval > 0 {
		p.ticker = time.NewTicker(cfg.CleanupInterval)
		p.stopCh = make(chan struct{})
		p.wg.Add(1)
		go p.cleanupLoop()
	}
	return p
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := p.m.Load(key)
	if !ok {
		return nil, false, nil
	}
	if p.expired(e) {
		p.m.Delete(key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	var exp time.Time
	if ttl > 0 {
		exp = p.now().Add(ttl)
	}
	// own the bytes; callers may reuse their buffer
	v := make([]byte, len(value))
	copy(v, value)
	p.m.Store(key, entry{v: v, exp: exp})
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.m.Delete(key)
	return nil
}

func (p *Provider) DeleteMatched(_ context.Context, prefix string) error {
	p.m.Range(func(k string, _ entry) bool {
		if strings.HasPrefix(k, prefix) {
			p.m.Delete(k)
		}
		return true
	})
	return nil
}

func (p *Provider) Clear(context.Context) error {
	p.m.Clear()
	return nil
}

func (p *Provider) SupportsPrefixDelete() bool { return true }

// Len reports the number of stored entries, expired ones included.
func (p *Provider) Len() int { return p.m.Size() }

func (p *Provider) Close(context.Context) error {
	p.closeOnce.Do(func() {
		if p.stopCh != nil {
			close(p.stopCh)
			p.wg.Wait()
			p.ticker.Stop()
		}
	})
	return nil
}

func (p *Provider) expired(e entry) bool {
	return !e.exp.IsZero() && !p.now().Before(e.exp)
}

func (p *Provider) cleanupLoop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ticker.C:
			p.sweep()
		case <-p.stopCh:
			return
		}
	}
}

func (p *Provider) sweep() {
	p.m.Range(func(k string, e entry) bool {
		if p.expired(e) {
			p.m.Delete(k)
		}
		return true
	})
}
