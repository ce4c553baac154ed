package enum

import "context"

// Store is the backing-store collaborator for one enumeration class. The
// cache consumes it through exactly these operations; query building,
// transactions and schema management stay on the other side of the line.
//
// FetchAll must return rows in their natural store order; the cache preserves
// that order in All.
type Store[T Record] interface {
	FetchAll(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, rec T) (T, error)
	Delete(ctx context.Context, id int64) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}
