// Package rescache is a read-through/write-through cache in front of a remote
// Finder. Responses are cached per resource type and argument tuple, and a
// cached full-collection entry is kept coherent with newer single-record and
// sub-collection fetches.
//
// Components:
//   - Finder[R]: the remote lookup. Cached[R] decorates one and is itself a Finder[R].
//   - CacheStore: byte store with TTL and a race-condition grace window.
//     provider.Store implements it over any provider.Provider (memory, Redis,
//     Ristretto, BigCache, sturdyc).
//   - codec.Codec[R]: (de)serializes a record <-> []byte.
//
// Keys:
//
//	<resource/path>/<arg>/<arg>...   e.g. widget/all, widget/1, shop/widget/42
//
// Usage:
//
//	store := provider.NewStore(memory.New(memory.Config{}))
//	widgets, _ := rescache.New[*Widget](remote, rescache.Options[*Widget]{
//	    Store:                 store,
//	    CollectionSynchronize: true,
//	})
//	res, err := widgets.Find(ctx, rescache.Args{rescache.All})
//	one, err := widgets.Find(ctx, rescache.Args{1, rescache.Opts{rescache.ReloadOption: true}})
package rescache
