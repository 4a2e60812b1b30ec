package zap

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/rescache"
)

func TestLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Logger{L: zap.New(core)}

	l.Debug("d", nil)
	l.Info("[CachedResource] WRITE widget/all", rescache.Fields{"key": "widget/all"})
	l.Error("cache clear failed", rescache.Fields{"scope": "ALL", "err": errors.New("down")})

	entries := logs.AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel || len(entries[0].Context) != 0 {
		t.Fatalf("unexpected debug entry %+v", entries[0])
	}
	if got := entries[1].ContextMap()["key"]; got != "widget/all" {
		t.Fatalf("key field = %v", got)
	}
	ctx := entries[2].ContextMap()
	if entries[2].Level != zapcore.ErrorLevel || ctx["scope"] != "ALL" || ctx["err"] != "down" {
		t.Fatalf("unexpected error entry %+v", ctx)
	}
}
