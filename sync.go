package rescache

import "context"

// sync folds a fresh result into the full-collection entry.
//
// A collection result also refreshes the per-record entries of its members.
// The full-collection request itself is skipped: it is written as the
// collection entry by the caller.
func (c *Cached[R]) sync(ctx context.Context, res Result[R], args Args) {
	if res.IsCollection() {
		records := res.Records()
		c.updateSingles(ctx, records)
		if !c.classify.IsFullCollection(args) {
			c.updateCollection(ctx, records)
		}
		return
	}
	if r, ok := res.Single(); ok {
		c.updateCollection(ctx, []R{r})
	}
}

// updateSingles writes each record under its primary-key key.
func (c *Cached[R]) updateSingles(ctx context.Context, records []R) {
	for _, r := range records {
		if !c.hasKey(r) {
			continue
		}
		c.write(ctx, DeriveKey(c.resourceType, Args{r.PrimaryKey()}), One(r))
	}
}

// updateCollection upserts updates into the cached full collection by primary
// key. Existing order is kept and unseen records are appended. Nothing is
// written when the collection is not cached or past its soft expiry; a stale
// collection is left for the next full lookup to refetch.
func (c *Cached[R]) updateCollection(ctx context.Context, updates []R) {
	if len(updates) == 0 {
		return
	}
	key := c.collectionKey()
	existing, ok := c.peek(ctx, key)
	if !ok || !existing.IsCollection() {
		return
	}

	current := existing.Records()
	merged := make([]R, 0, len(current)+len(updates))
	index := make(map[string]int, len(current)+len(updates))
	upsert := func(r R) {
		if !c.hasKey(r) {
			return
		}
		pk := argKey(r.PrimaryKey())
		if i, seen := index[pk]; seen {
			merged[i] = r
			return
		}
		index[pk] = len(merged)
		merged = append(merged, r)
	}
	for _, r := range current {
		upsert(r)
	}
	for _, r := range updates {
		upsert(r)
	}

	c.write(ctx, key, Many(merged...))
	c.hooks.CollectionSynced(key, len(merged))
}

func (c *Cached[R]) hasKey(r R) bool {
	if isNil(r) {
		return false
	}
	if r.PrimaryKey() == nil {
		c.log.Warn("record skipped by synchronizer", Fields{"resource": c.resourceType, "err": ErrNoPrimaryKey})
		return false
	}
	return true
}
