package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBuffered(opts Options) (*Hooks, *bytes.Buffer) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(l, opts), &buf
}

func TestKeysAreRedacted(t *testing.T) {
	h, buf := newBuffered(Options{})
	h.StoreError("read", "widget/secret", errors.New("timeout"))

	out := buf.String()
	if strings.Contains(out, "widget/secret") {
		t.Fatalf("raw key leaked: %q", out)
	}
	if !strings.Contains(out, "rescache.store_error") || !strings.Contains(out, "op=read") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCustomRedactAndScope(t *testing.T) {
	h, buf := newBuffered(Options{Redact: func(k string) string { return "k:" + k }})
	h.CorruptEntry("widget/1", "corrupt")
	h.InvalidateFailed("widget/", errors.New("down"))

	out := buf.String()
	for _, want := range []string{"key=k:widget/1", "reason=corrupt", "scope=widget/", "err=down"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestSampling(t *testing.T) {
	h, buf := newBuffered(Options{CorruptEvery: 3})
	for i := 0; i < 9; i++ {
		h.CorruptEntry("widget/1", "decode")
	}
	if n := strings.Count(buf.String(), "rescache.corrupt_entry"); n != 3 {
		t.Fatalf("expected 3 sampled lines, got %d", n)
	}
}

func TestNilLogger(t *testing.T) {
	h := New(nil, Options{})
	h.CorruptEntry("k", "r")
	h.StoreError("write", "k", errors.New("x"))
	h.WriteRejected("k")
	h.CollectionSynced("k", 1)
	h.InvalidateFailed("ALL", errors.New("x"))
}
