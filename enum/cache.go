package enum

import (
	"context"
	"sync/atomic"
)

// KeySeparator delimits the segments of snapshot keys.
const KeySeparator = "::"

const keyPrefix = "enum" + KeySeparator

// snapshot is one immutable view of an enumeration class: the ordered rows
// plus both derived indices, built from a single store fetch. The indices are
// never rebuilt in place; a reload produces a whole new snapshot, so readers
// see either the old pair or the new pair and never a mix.
type snapshot[T Record] struct {
	records []T
	byID    map[int64]T
	byName  map[string]T
}

// Cache owns the full row set of one enumeration class and serves lookups by
// id and by name from an in-memory snapshot. The first lookup loads lazily;
// Reload invalidates and refetches. Create and destroy are gated by a
// per-class mutation guard that is off by default, so accidental writes to
// what callers treat as static reference data fail fast instead of silently
// diverging from the cache.
type Cache[T Record] struct {
	name    string
	store   Store[T]
	service SnapshotService
	guard   atomic.Bool
}

// NewCache builds the cache for one enumeration class. name identifies the
// class (typically the table name) and must be unique across caches sharing
// a snapshot service. A nil service gets the default sturdyc-backed one.
func NewCache[T Record](name string, store Store[T], service SnapshotService) (*Cache[T], error) {
	if name == "" {
		return nil, &ConfigError{Option: "name", Message: "cannot be empty"}
	}
	if store == nil {
		return nil, &ConfigError{Option: "store", Message: "cannot be nil"}
	}
	if service == nil {
		svc, err := NewSnapshotService(DefaultConfig())
		if err != nil {
			return nil, err
		}
		service = svc
	}
	return &Cache[T]{name: name, store: store, service: service}, nil
}

// Name returns the class name the cache was built with.
func (c *Cache[T]) Name() string { return c.name }

// AllowMutation toggles the mutation guard. It is safe to flip concurrently
// with lookups; typical callers enable it only around controlled setup code.
func (c *Cache[T]) AllowMutation(allowed bool) { c.guard.Store(allowed) }

// MutationAllowed reports the current guard state.
func (c *Cache[T]) MutationAllowed() bool { return c.guard.Load() }

func (c *Cache[T]) key() string { return keyPrefix + c.name }

func (c *Cache[T]) fetch(ctx context.Context) (*snapshot[T], error) {
	rows, err := c.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	snap := &snapshot[T]{
		records: rows,
		byID:    make(map[int64]T, len(rows)),
		byName:  make(map[string]T, len(rows)),
	}
	for _, r := range rows {
		snap.byID[r.EnumID()] = r
		snap.byName[r.EnumName()] = r
	}
	return snap, nil
}

func (c *Cache[T]) snap(ctx context.Context) (*snapshot[T], error) {
	return GetOrFetch(ctx, c.service, c.key(), func(ctx context.Context) (*snapshot[T], error) {
		return c.fetch(ctx)
	})
}

// Load warms the cache. It is idempotent: when a snapshot is already held
// this is a cheap in-memory read. Store failures propagate as-is; the cache
// never retries internally.
func (c *Cache[T]) Load(ctx context.Context) error {
	_, err := c.snap(ctx)
	return err
}

// Reload drops the current snapshot and fetches a fresh one. Concurrent
// readers keep serving the old snapshot until the new one is in place.
func (c *Cache[T]) Reload(ctx context.Context) error {
	if err := c.service.Delete(ctx, c.key()); err != nil {
		return err
	}
	return c.Load(ctx)
}

// ByID looks a row up by its integer key. found is false on a miss; err is
// only ever a load failure. Callers decide whether a miss is an error.
func (c *Cache[T]) ByID(ctx context.Context, id int64) (rec T, found bool, err error) {
	snap, err := c.snap(ctx)
	if err != nil {
		return rec, false, err
	}
	rec, found = snap.byID[id]
	return rec, found, nil
}

// ByName looks a row up by exact name match.
func (c *Cache[T]) ByName(ctx context.Context, name string) (rec T, found bool, err error) {
	snap, err := c.snap(ctx)
	if err != nil {
		return rec, false, err
	}
	rec, found = snap.byName[name]
	return rec, found, nil
}

// All returns every row in store order. The slice is a copy; mutating it
// does not affect the cache.
func (c *Cache[T]) All(ctx context.Context) ([]T, error) {
	snap, err := c.snap(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(snap.records))
	copy(out, snap.records)
	return out, nil
}

// Len returns the number of rows in the class.
func (c *Cache[T]) Len(ctx context.Context) (int, error) {
	snap, err := c.snap(ctx)
	if err != nil {
		return 0, err
	}
	return len(snap.records), nil
}

// Names returns every row name in store order.
func (c *Cache[T]) Names(ctx context.Context) ([]string, error) {
	snap, err := c.snap(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(snap.records))
	for i, r := range snap.records {
		names[i] = r.EnumName()
	}
	return names, nil
}

// IDs returns every row id in store order.
func (c *Cache[T]) IDs(ctx context.Context) ([]int64, error) {
	snap, err := c.snap(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(snap.records))
	for i, r := range snap.records {
		ids[i] = r.EnumID()
	}
	return ids, nil
}

// Create inserts a row through the backing store and reloads the cache so
// lookups reflect it. Fails with GuardError while the mutation guard is
// disabled, before any store access.
func (c *Cache[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if !c.guard.Load() {
		return zero, &GuardError{Class: c.name, Op: "create"}
	}
	created, err := c.store.Insert(ctx, rec)
	if err != nil {
		return zero, err
	}
	if err := c.Reload(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// Destroy removes the row with the given id and reloads. Same guard
// requirement as Create.
func (c *Cache[T]) Destroy(ctx context.Context, id int64) (int, error) {
	if !c.guard.Load() {
		return 0, &GuardError{Class: c.name, Op: "destroy"}
	}
	n, err := c.store.Delete(ctx, id)
	if err != nil {
		return n, err
	}
	if err := c.Reload(ctx); err != nil {
		return n, err
	}
	return n, nil
}

// DestroyAll removes every row of the class and reloads. Same guard
// requirement as Create.
func (c *Cache[T]) DestroyAll(ctx context.Context) (int, error) {
	if !c.guard.Load() {
		return 0, &GuardError{Class: c.name, Op: "destroy"}
	}
	n, err := c.store.DeleteAll(ctx)
	if err != nil {
		return n, err
	}
	if err := c.Reload(ctx); err != nil {
		return n, err
	}
	return n, nil
}
