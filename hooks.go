package rescache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths. A panicking hook is recovered and ignored.
type Hooks interface {
	// An entry could not be decoded and was treated as a miss.
	// reason ∈ {"corrupt", "decode"}
	CorruptEntry(key, reason string)

	// The store failed. op ∈ {"read", "write"}
	StoreError(op, key string, err error)

	// The store returned ok=false on Write (backpressure/eviction).
	WriteRejected(key string)

	// The full-collection entry was rewritten by the synchronizer.
	CollectionSynced(key string, size int)

	// Clearing a prefix (or "ALL") failed.
	InvalidateFailed(scope string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CorruptEntry(string, string)      {}
func (NopHooks) StoreError(string, string, error) {}
func (NopHooks) WriteRejected(string)             {}
func (NopHooks) CollectionSynced(string, int)     {}
func (NopHooks) InvalidateFailed(string, error)   {}

// safeHooks keeps a panicking hook from failing a cache operation.
type safeHooks struct{ h Hooks }

func (s safeHooks) CorruptEntry(key, reason string) {
	defer swallow()
	s.h.CorruptEntry(key, reason)
}

func (s safeHooks) StoreError(op, key string, err error) {
	defer swallow()
	s.h.StoreError(op, key, err)
}

func (s safeHooks) WriteRejected(key string) {
	defer swallow()
	s.h.WriteRejected(key)
}

func (s safeHooks) CollectionSynced(key string, size int) {
	defer swallow()
	s.h.CollectionSynced(key, size)
}

func (s safeHooks) InvalidateFailed(scope string, err error) {
	defer swallow()
	s.h.InvalidateFailed(scope, err)
}
