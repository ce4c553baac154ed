// Package bunstore provides the bun-backed implementations of the
// enumeration store contract: one directly over *bun.DB, one adapting a
// go-repository-bun repository so an existing repository can back an
// enumeration class unchanged.
package bunstore

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-enumerated/enum"
)

var _ enum.Store[enum.Member] = (*Store[enum.Member])(nil)
var _ enum.Store[enum.Member] = (*RepositoryStore[enum.Member])(nil)

// Store speaks to the enumeration table through bun directly.
type Store[T enum.Record] struct {
	db *bun.DB
}

// New builds a Store for the enumeration class T.
func New[T enum.Record](db *bun.DB) *Store[T] {
	return &Store[T]{db: db}
}

// FetchAll returns every row ordered by primary key.
func (s *Store[T]) FetchAll(ctx context.Context) ([]T, error) {
	var rows []T
	if err := s.db.NewSelect().Model(&rows).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert creates one row and returns it with store-assigned columns filled.
func (s *Store[T]) Insert(ctx context.Context, rec T) (T, error) {
	if _, err := s.db.NewInsert().Model(&rec).Returning("*").Exec(ctx); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// Delete removes the row with the given id and reports how many rows went.
func (s *Store[T]) Delete(ctx context.Context, id int64) (int, error) {
	res, err := s.db.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res), nil
}

// DeleteAll removes every row of the class.
func (s *Store[T]) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.NewDelete().Model((*T)(nil)).Where("1 = 1").Exec(ctx)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res), nil
}

// RepositoryStore adapts a go-repository-bun repository to the enumeration
// store contract. Deletion counts are not reported through the repository
// layer, so Delete and DeleteAll return 0 on success.
type RepositoryStore[T enum.Record] struct {
	base repository.Repository[T]
}

// FromRepository wraps an existing repository.
func FromRepository[T enum.Record](base repository.Repository[T]) *RepositoryStore[T] {
	return &RepositoryStore[T]{base: base}
}

// FetchAll lists every row in repository order.
func (s *RepositoryStore[T]) FetchAll(ctx context.Context) ([]T, error) {
	rows, _, err := s.base.List(ctx)
	return rows, err
}

// Insert creates one row through the repository.
func (s *RepositoryStore[T]) Insert(ctx context.Context, rec T) (T, error) {
	return s.base.Create(ctx, rec)
}

// Delete removes the row with the given id.
func (s *RepositoryStore[T]) Delete(ctx context.Context, id int64) (int, error) {
	err := s.base.DeleteWhere(ctx, func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.Where("id = ?", id)
	})
	return 0, err
}

// DeleteAll removes every row of the class.
func (s *RepositoryStore[T]) DeleteAll(ctx context.Context) (int, error) {
	err := s.base.DeleteWhere(ctx, func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.Where("1 = 1")
	})
	return 0, err
}

func rowsAffected(res interface{ RowsAffected() (int64, error) }) int {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}
