package rescache

import (
	"context"
	"reflect"
)

// All is the sentinel argument marking a request for every record.
const All = "all"

// ReloadOption is the reserved key of the trailing options map that forces a
// cache bypass when set to true.
const ReloadOption = "reload"

// Args is an ordered lookup argument list. A trailing Opts (or
// map[string]any) is the options map.
type Args []any

// Opts is the trailing options map of a lookup.
type Opts = map[string]any

// Record is what the cache needs from a fetched record. Everything else is
// opaque payload handled by the codec. Implementations are pointer types.
type Record interface {
	PrimaryKey() any
	IsPersisted() bool
	SetPersisted(bool)
}

// Finder fetches records from the remote source.
type Finder[R Record] interface {
	Find(ctx context.Context, args Args) (Result[R], error)
}

// FinderFunc adapts a function to Finder.
type FinderFunc[R Record] func(ctx context.Context, args Args) (Result[R], error)

func (f FinderFunc[R]) Find(ctx context.Context, args Args) (Result[R], error) {
	return f(ctx, args)
}

type resultKind uint8

const (
	resultNone resultKind = iota
	resultOne
	resultMany
)

// Result is one record, an ordered collection of records, or nothing.
// The zero value is nothing.
type Result[R Record] struct {
	kind resultKind
	one  R
	many []R
}

// One wraps a single record. A nil record yields None.
func One[R Record](r R) Result[R] {
	if isNil(r) {
		return Result[R]{}
	}
	return Result[R]{kind: resultOne, one: r}
}

// Many wraps a collection. An empty collection is still a collection.
func Many[R Record](rs ...R) Result[R] {
	cp := make([]R, len(rs))
	copy(cp, rs)
	return Result[R]{kind: resultMany, many: cp}
}

func None[R Record]() Result[R] { return Result[R]{} }

func (r Result[R]) IsCollection() bool { return r.kind == resultMany }

func (r Result[R]) IsEmpty() bool { return r.Len() == 0 }

func (r Result[R]) Single() (R, bool) {
	return r.one, r.kind == resultOne
}

// Records returns the records as a new slice; a single record becomes a
// one-element slice.
func (r Result[R]) Records() []R {
	switch r.kind {
	case resultOne:
		return []R{r.one}
	case resultMany:
		out := make([]R, len(r.many))
		copy(out, r.many)
		return out
	}
	return nil
}

func (r Result[R]) Len() int {
	switch r.kind {
	case resultOne:
		return 1
	case resultMany:
		return len(r.many)
	}
	return 0
}

// Collect converts the canonical record slice into a caller-defined
// collection type.
func Collect[R Record, C any](res Result[R], wrap func([]R) C) C {
	return wrap(res.Records())
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
