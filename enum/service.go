package enum

import "context"

// FetchFn is the function signature the snapshot service expects when
// loading a class from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// SnapshotService is the cache surface the enumeration cache builds on: a
// read-through fetch keyed by class, plus deletion for explicit invalidation.
// It is exported so callers can supply alternate backends; the default is the
// sturdyc-backed implementation from NewSnapshotService.
type SnapshotService interface {
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)
	Delete(ctx context.Context, key string) error
}

// GetOrFetch is a type-safe wrapper that restores the generic result type a
// SnapshotService implementation erases.
func GetOrFetch[T any](ctx context.Context, service SnapshotService, key string, fetchFn FetchFn[T]) (T, error) {
	result, err := service.GetOrFetch(ctx, key, fetchFn)
	if err != nil {
		var zero T
		return zero, err
	}
	if result == nil {
		var zero T
		return zero, nil
	}
	return result.(T), nil
}
