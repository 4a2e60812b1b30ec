package rescache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	pr "github.com/unkn0wn-root/rescache/provider"
	"github.com/unkn0wn-root/rescache/provider/memory"
)

type widget struct {
	ID   int    `json:"id" msgpack:"id" cbor:"id"`
	Name string `json:"name" msgpack:"name" cbor:"name"`

	persisted bool
}

func (w *widget) PrimaryKey() any     { return w.ID }
func (w *widget) IsPersisted() bool   { return w.persisted }
func (w *widget) SetPersisted(p bool) { w.persisted = p }

func newWidget(id int, name string) *widget {
	return &widget{ID: id, Name: name, persisted: true}
}

type gadget struct {
	ID int `json:"id"`
}

func (g *gadget) PrimaryKey() any   { return g.ID }
func (g *gadget) IsPersisted() bool { return true }
func (g *gadget) SetPersisted(bool) {}

// fakeFinder answers from respond and counts calls.
type fakeFinder struct {
	mu       sync.Mutex
	calls    int
	lastArgs Args
	respond  func(args Args) (Result[*widget], error)
}

func (f *fakeFinder) Find(_ context.Context, args Args) (Result[*widget], error) {
	f.mu.Lock()
	f.calls++
	f.lastArgs = args
	f.mu.Unlock()
	return f.respond(args)
}

func (f *fakeFinder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// catalog serves "all" as every widget and an int as that widget.
func catalog(ws map[int]string) func(Args) (Result[*widget], error) {
	return func(args Args) (Result[*widget], error) {
		if len(args) > 0 {
			if id, ok := args[0].(int); ok {
				name, ok := ws[id]
				if !ok {
					return None[*widget](), nil
				}
				return One(newWidget(id, name)), nil
			}
		}
		out := make([]*widget, 0, len(ws))
		for id := 1; id <= len(ws); id++ {
			out = append(out, newWidget(id, ws[id]))
		}
		return Many(out...), nil
	}
}

func newMemoryStore(t *testing.T) *pr.Store {
	t.Helper()
	s := pr.NewStore(memory.New(memory.Config{}))
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// newClockStore is a memory store whose expiry follows clk.
func newClockStore(t *testing.T, clk *fakeClock) *pr.Store {
	t.Helper()
	s := pr.NewStore(memory.New(memory.Config{Now: clk.Now}), pr.WithClock(clk.Now))
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

type recLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recLogger) Debug(string, Fields) {}
func (l *recLogger) Warn(string, Fields)  {}
func (l *recLogger) Error(string, Fields) {}
func (l *recLogger) Info(msg string, _ Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, msg)
}

func (l *recLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

type panicLogger struct{}

func (panicLogger) Debug(string, Fields) { panic("debug") }
func (panicLogger) Info(string, Fields)  { panic("info") }
func (panicLogger) Warn(string, Fields)  { panic("warn") }
func (panicLogger) Error(string, Fields) { panic("error") }

var errBackend = errors.New("backend down")

// brokenStore fails every operation.
type brokenStore struct {
	prefix bool
}

func (brokenStore) Read(context.Context, string) ([]byte, bool, error) {
	return nil, false, errBackend
}

func (brokenStore) Peek(context.Context, string) ([]byte, bool, error) {
	return nil, false, errBackend
}

func (brokenStore) Write(context.Context, string, []byte, pr.WriteOptions) (bool, error) {
	return false, errBackend
}

func (brokenStore) DeleteMatched(context.Context, string) error { return errBackend }
func (brokenStore) Clear(context.Context) error                 { return errBackend }
func (s brokenStore) SupportsPrefixDelete() bool                { return s.prefix }

// countingStore wraps a CacheStore and records invalidation calls.
type countingStore struct {
	CacheStore
	prefix  bool
	matched []string
	clears  int
}

func (s *countingStore) DeleteMatched(ctx context.Context, prefix string) error {
	s.matched = append(s.matched, prefix)
	return s.CacheStore.DeleteMatched(ctx, prefix)
}

func (s *countingStore) Clear(ctx context.Context) error {
	s.clears++
	return s.CacheStore.Clear(ctx)
}

func (s *countingStore) SupportsPrefixDelete() bool { return s.prefix }

type recHooks struct {
	NopHooks
	mu       sync.Mutex
	corrupt  []string
	storeErr []string
	synced   map[string]int
	failed   []string
}

func (h *recHooks) CorruptEntry(key, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.corrupt = append(h.corrupt, key+":"+reason)
}

func (h *recHooks) StoreError(op, key string, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.storeErr = append(h.storeErr, op+":"+key)
}

func (h *recHooks) CollectionSynced(key string, size int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.synced == nil {
		h.synced = map[string]int{}
	}
	h.synced[key] = size
}

func (h *recHooks) InvalidateFailed(scope string, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failed = append(h.failed, scope)
}

type panicHooks struct{}

func (panicHooks) CorruptEntry(string, string)      { panic("corrupt") }
func (panicHooks) StoreError(string, string, error) { panic("store") }
func (panicHooks) WriteRejected(string)             { panic("rejected") }
func (panicHooks) CollectionSynced(string, int)     { panic("synced") }
func (panicHooks) InvalidateFailed(string, error)   { panic("invalidate") }
