package enumerated

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-enumerated/enum"
)

// Scope resolves one or more enumeration references and returns a reusable
// query criterion matching records whose foreign key is in the resolved id
// set. References accept the same shapes as Set; a reference that does not
// resolve fails with LookupError here, never deferred, since a filter lives
// outside any single record's validation lifecycle. The attribute must have
// been declared with WithScope.
func (b *Binding[T]) Scope(ctx context.Context, values ...enum.Value) (repository.SelectCriteria, error) {
	if !b.ref.CreateScope {
		return nil, &enum.ConfigError{
			Option:  "scope",
			Message: "attribute " + b.ref.Attribute + " was not declared with a scope",
		}
	}
	ids, err := b.resolveIDs(ctx, values)
	if err != nil {
		return nil, err
	}
	fk := b.ref.ForeignKey
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? IN (?)", bun.Ident(fk), bun.In(ids))
	}, nil
}

// ScopeAny is Scope over arbitrary Go values, coerced like SetAny.
func (b *Binding[T]) ScopeAny(ctx context.Context, values ...any) (repository.SelectCriteria, error) {
	coerced := make([]enum.Value, len(values))
	for i, v := range values {
		value, err := enum.Coerce(v)
		if err != nil {
			return nil, err
		}
		coerced[i] = value
	}
	return b.Scope(ctx, coerced...)
}

func (b *Binding[T]) resolveIDs(ctx context.Context, values []enum.Value) ([]int64, error) {
	if len(values) == 0 {
		return nil, &enum.ConfigError{Option: "scope", Message: "needs at least one value"}
	}
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		if v.IsNone() {
			return nil, b.lookupError(enum.OpScope, v)
		}
		rec, found, err := b.resolve(ctx, v)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, b.lookupError(enum.OpScope, v)
		}
		ids = append(ids, rec.EnumID())
	}
	return ids, nil
}

func (b *Binding[T]) lookupError(op enum.Op, v enum.Value) error {
	return &enum.LookupError{
		Class:     b.ref.Cache.Name(),
		Op:        op,
		Attribute: b.ref.Attribute,
		Value:     v,
	}
}
