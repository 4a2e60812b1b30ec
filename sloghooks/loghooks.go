// Package sloghooks reports cache events through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/rescache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	CorruptEvery uint64
	SyncEvery    uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	corruptCtr atomic.Uint64
	syncCtr    atomic.Uint64
}

var _ rescache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CorruptEntry(key, reason string) {
	if h.l == nil || !sample(h.opts.CorruptEvery, &h.corruptCtr) {
		return
	}
	h.l.Warn("rescache.corrupt_entry",
		"key", h.redact(key),
		"reason", reason)
}

func (h *Hooks) StoreError(op, key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("rescache.store_error",
		"op", op,
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) WriteRejected(key string) {
	if h.l == nil {
		return
	}
	h.l.Debug("rescache.write_rejected",
		"key", h.redact(key))
}

func (h *Hooks) CollectionSynced(key string, size int) {
	if h.l == nil || !sample(h.opts.SyncEvery, &h.syncCtr) {
		return
	}
	h.l.Debug("rescache.collection_synced",
		"key", h.redact(key),
		"size", size)
}

// InvalidateFailed logs the scope unredacted; it is a resource prefix or "ALL".
func (h *Hooks) InvalidateFailed(scope string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("rescache.invalidate_failed",
		"scope", scope,
		"err", err)
}
