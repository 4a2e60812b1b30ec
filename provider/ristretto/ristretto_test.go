package ristretto

import (
	"context"
	"errors"
	"testing"
	"time"

	pr "github.com/unkn0wn-root/rescache/provider"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(Config{NumCounters: 1000, MaxCost: 100, BufferItems: 64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p
}

func TestInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error for zero config")
	}
}

func TestSetGetClear(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	ok, err := p.Set(ctx, "widget/1", []byte("v"), 1, time.Minute)
	if err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	got, ok, err := p.Get(ctx, "widget/1")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("Get: %q ok=%v err=%v", got, ok, err)
	}

	if err := p.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "widget/1"); ok {
		t.Fatalf("expected miss after Clear")
	}
}

func TestNoPrefixDelete(t *testing.T) {
	p := newTestProvider(t)
	if p.SupportsPrefixDelete() {
		t.Fatalf("ristretto cannot enumerate keys")
	}
	if err := p.DeleteMatched(context.Background(), "widget/"); !errors.Is(err, pr.ErrPrefixDeleteUnsupported) {
		t.Fatalf("expected ErrPrefixDeleteUnsupported, got %v", err)
	}
}
