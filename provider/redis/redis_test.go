package redis

import (
	"testing"

	goredis "github.com/redis/go-redis/v9"
)

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(Config{}); err != ErrNilClient {
		t.Fatalf("expected ErrNilClient, got %v", err)
	}
}

func TestNewDefaultsAndPrefix(t *testing.T) {
	c := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	defer c.Close()

	p, err := New(Config{Client: c, KeyPrefix: "app:"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.scanCount != defaultScanCount {
		t.Fatalf("scanCount = %d", p.scanCount)
	}
	if got := p.key("widget/1"); got != "app:widget/1" {
		t.Fatalf("key = %q", got)
	}
	if !p.SupportsPrefixDelete() {
		t.Fatalf("redis supports prefix delete")
	}
}

func TestEscapeGlob(t *testing.T) {
	cases := map[string]string{
		"widget/":      "widget/",
		"app:*:x":      `app:\*:x`,
		"a?b[c]":       `a\?b\[c\]`,
		`back\slash`:   `back\\slash`,
	}
	for in, want := range cases {
		if got := escapeGlob(in); got != want {
			t.Errorf("escapeGlob(%q) = %q, want %q", in, got, want)
		}
	}
}
