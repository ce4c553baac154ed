// Package enum implements cached enumeration classes: small, mostly static
// reference tables held fully in memory and looked up by id or by name while
// the backing store stays the source of truth.
//
// # Overview
//
// The package exports three main pieces:
//
//   - Record / Member: the contract an enumeration row satisfies, and an
//     embeddable base row for bun-mapped tables
//   - Cache: a read-through, bidirectionally indexed cache of one class,
//     with a mutation guard and explicit invalidation
//   - Value: the tagged input shape accepted wherever an enumeration
//     reference is expected
//
// # Basic Usage
//
// Define a class, back it with a store, and look rows up:
//
//	type Country struct {
//		bun.BaseModel `bun:"table:countries"`
//		enum.Member
//	}
//
//	cache, err := enum.NewCache("countries", bunstore.New[Country](db), nil)
//	if err != nil {
//		return err
//	}
//
//	ua, found, err := cache.ByName(ctx, "ua")
//
// The first lookup loads the whole table and builds both indices from that
// one fetch; later lookups are in-memory reads. Reload drops the snapshot
// and refetches.
//
// # Snapshot Consistency
//
// The id index and the name index are fields of one immutable snapshot value
// built from a single store fetch. Replacing a snapshot replaces both
// indices at once, so concurrent readers observe either the fully-old or the
// fully-new pair, never a mix. Concurrent loads of the same class are
// deduplicated by the underlying sturdyc client.
//
// # Mutation Guard
//
// Enumeration tables are read extremely often and written almost never.
// Create, Destroy and DestroyAll fail fast with GuardError unless the guard
// was explicitly enabled:
//
//	cache.AllowMutation(true)
//	defer cache.AllowMutation(false)
//	_, err := cache.Create(ctx, Country{Member: enum.Member{Name: "ua"}})
//
// The guard turns an accidental write into a loud failure instead of silent
// cache/store divergence. Successful mutations invalidate and reload.
//
// # Error Handling
//
// Store failures during load or reload propagate as-is; the cache never
// retries internally. Lookup misses are reported through the found flag, not
// an error, because only the caller knows whether a miss is fatal; see the
// enumerated package for the attribute-level failure policies.
//
// # See Also
//
// Package enumerated binds cached classes to attributes on host records.
// Package bunstore provides the store implementations.
package enum
