package slog

import (
	"bytes"
	stdslog "log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/rescache"
)

func TestSortedAttrsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	h := stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{
		Level: stdslog.LevelInfo,
		ReplaceAttr: func(_ []string, a stdslog.Attr) stdslog.Attr {
			if a.Key == stdslog.TimeKey {
				return stdslog.Attr{}
			}
			return a
		},
	})
	l := Logger{L: stdslog.New(h)}

	l.Debug("hidden", rescache.Fields{"key": "x"})
	l.Info("[CachedResource] CLEAR widget/", rescache.Fields{"scope": "widget/", "b": 2, "a": 1})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered: %q", out)
	}
	want := `level=INFO msg="[CachedResource] CLEAR widget/" a=1 b=2 scope=widget/` + "\n"
	if out != want {
		t.Fatalf("got %q\nwant %q", out, want)
	}
}
