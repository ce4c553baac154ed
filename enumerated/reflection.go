package enumerated

import (
	"context"

	"github.com/goliatone/go-enumerated/enum"
)

// Failure describes one lookup miss handed to an OnLookupFailure handler.
type Failure struct {
	Op         enum.Op
	Attribute  string
	ForeignKey string
	Class      string
	Value      enum.Value
}

// Handler is the pluggable policy invoked when a read or write cannot
// resolve to a cache entry.
//
// On reads the handler supplies the result: a substitute record, no value
// (present false), or an error that propagates unchanged to the caller. On
// writes the handler absorbs the miss; record and present are ignored, any
// side effect is the handler's own business, and only its error surfaces.
type Handler[T enum.Record] func(ctx context.Context, f Failure) (rec T, present bool, err error)

// Reflection is the static configuration for one declared attribute. It is
// resolved and validated once at declaration time and shared read-only by
// every host instance afterwards.
type Reflection[T enum.Record] struct {
	// Attribute is the name the attribute is declared under; validation
	// errors are keyed by it.
	Attribute string

	// ForeignKey is the host field holding the numeric id. Derived from the
	// attribute name (snake_case + "_id") when not set explicitly.
	ForeignKey string

	// Cache is the enumeration class backing the attribute.
	Cache *enum.Cache[T]

	// OnLookupFailure, when set, absorbs write-path misses and resolves
	// read-path misses. When nil, write misses defer to validation and read
	// misses fail with LookupError.
	OnLookupFailure Handler[T]

	// PermitEmptyName treats an empty-string input as a real name lookup
	// instead of normalizing it to "no value".
	PermitEmptyName bool

	// Default is assigned through the regular write path after host
	// construction when the attribute reads as "no value".
	Default enum.Value

	// CreateScope enables the query-filter helper for this attribute.
	CreateScope bool
}

// Option configures a Reflection at declaration time.
type Option[T enum.Record] func(*Reflection[T])

// WithForeignKey overrides the derived foreign-key field name.
func WithForeignKey[T enum.Record](name string) Option[T] {
	return func(r *Reflection[T]) { r.ForeignKey = name }
}

// WithDefault sets the value assigned after construction when the attribute
// is unset.
func WithDefault[T enum.Record](v enum.Value) Option[T] {
	return func(r *Reflection[T]) { r.Default = v }
}

// WithPermitEmptyName lets an empty string resolve as a name lookup.
func WithPermitEmptyName[T enum.Record]() Option[T] {
	return func(r *Reflection[T]) { r.PermitEmptyName = true }
}

// WithScope enables the query-filter helper.
func WithScope[T enum.Record]() Option[T] {
	return func(r *Reflection[T]) { r.CreateScope = true }
}

// WithOnLookupFailure installs the lookup-failure handler.
func WithOnLookupFailure[T enum.Record](h Handler[T]) Option[T] {
	return func(r *Reflection[T]) { r.OnLookupFailure = h }
}

func newReflection[T enum.Record](cache *enum.Cache[T], attribute string, opts ...Option[T]) (*Reflection[T], error) {
	if attribute == "" {
		return nil, &enum.ConfigError{Option: "attribute", Message: "cannot be empty"}
	}
	if cache == nil {
		return nil, &enum.ConfigError{Option: "cache", Message: "cannot be nil"}
	}

	r := &Reflection[T]{
		Attribute: attribute,
		Cache:     cache,
	}
	for _, opt := range opts {
		if opt == nil {
			return nil, &enum.ConfigError{Option: "option", Message: "cannot be nil"}
		}
		opt(r)
	}

	if r.ForeignKey == "" {
		r.ForeignKey = toSnake(attribute) + "_id"
	}
	if toSnake(r.ForeignKey) != r.ForeignKey {
		return nil, &enum.ConfigError{Option: "foreign key", Message: "must be snake_case: " + r.ForeignKey}
	}
	if rec, ok := r.Default.Record(); ok {
		if _, isT := rec.(T); !isT {
			return nil, &enum.ConfigError{Option: "default", Message: "record is not of the target class"}
		}
	}
	return r, nil
}
