package rescache

import (
	"context"
)

const scopeAll = "ALL"

// Clear drops every entry of this resource type. Stores that cannot delete by
// prefix are cleared entirely.
func (c *Cached[R]) Clear(ctx context.Context) error {
	return clearPrefix(ctx, c.store, NamespacePrefix(c.resourceType), c.log, c.hooks)
}

// ClearAll drops every entry in the store, of every resource type.
func (c *Cached[R]) ClearAll(ctx context.Context) error {
	return clearAll(ctx, c.store, c.log, c.hooks)
}

// ClearForResourceType drops every entry under resourceType's namespace and
// leaves other resource types alone, or clears store entirely when it cannot
// delete by prefix. log may be nil.
func ClearForResourceType(ctx context.Context, store CacheStore, resourceType string, log Logger) error {
	return clearPrefix(ctx, store, NamespacePrefix(resourceType), loggerOrNop(log), NopHooks{})
}

// ClearAll drops every entry in store. log may be nil.
func ClearAll(ctx context.Context, store CacheStore, log Logger) error {
	return clearAll(ctx, store, loggerOrNop(log), NopHooks{})
}

func clearPrefix(ctx context.Context, store CacheStore, prefix string, log Logger, hooks Hooks) error {
	if !store.SupportsPrefixDelete() {
		return clearAll(ctx, store, log, hooks)
	}
	log.Info(logTag+" CLEAR "+prefix, Fields{"scope": prefix})
	if err := store.DeleteMatched(ctx, prefix); err != nil {
		return invalidateFailed(prefix, err, log, hooks)
	}
	return nil
}

func clearAll(ctx context.Context, store CacheStore, log Logger, hooks Hooks) error {
	log.Info(logTag+" CLEAR "+scopeAll, Fields{"scope": scopeAll})
	if err := store.Clear(ctx); err != nil {
		return invalidateFailed(scopeAll, err, log, hooks)
	}
	return nil
}

func invalidateFailed(scope string, err error, log Logger, hooks Hooks) error {
	hooks.InvalidateFailed(scope, err)
	log.Error("cache clear failed", Fields{"scope": scope, "err": err})
	return &InvalidateError{Scope: scope, Err: err}
}

func loggerOrNop(l Logger) Logger {
	if l == nil {
		return safeLogger{NopLogger{}}
	}
	return safeLogger{l}
}
