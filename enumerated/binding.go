package enumerated

import (
	"context"
	"database/sql"
	"reflect"
	"strings"

	"github.com/goliatone/go-enumerated/enum"
)

// Result is what a read of an enumerated attribute produces. Exactly one of
// three states holds:
//
//   - Present: the foreign key resolved (or a handler substituted) a record.
//   - Invalid: the last write failed lookup and is still pending; Raw is the
//     original input, handed back verbatim.
//   - neither: the attribute has no value.
type Result[T enum.Record] struct {
	Record  T
	Present bool
	Invalid bool
	Raw     enum.Value
}

// Binding implements the get/set/validate contract for one attribute. One
// instance exists per (host type, attribute) pair; per-record state lives on
// the host itself, so a Binding is safe to share.
type Binding[T enum.Record] struct {
	ref *Reflection[T]
}

// Reflection exposes the attribute's static configuration.
func (b *Binding[T]) Reflection() *Reflection[T] { return b.ref }

// Attribute returns the declared attribute name.
func (b *Binding[T]) Attribute() string { return b.ref.Attribute }

// Get reads the attribute from host.
//
// A pending invalid write wins and is returned raw. An unset foreign key is
// no value, not an error. A set foreign key with no matching cache entry is a
// data-integrity violation: the configured handler resolves it, or the read
// fails with LookupError.
func (b *Binding[T]) Get(ctx context.Context, host any) (Result[T], error) {
	state, err := stateOf(host)
	if err != nil {
		return Result[T]{}, err
	}
	if raw, ok := state.pendingValue(b.ref.Attribute); ok {
		return Result[T]{Invalid: true, Raw: raw}, nil
	}

	id, set, err := b.readFK(host)
	if err != nil {
		return Result[T]{}, err
	}
	if !set {
		return Result[T]{}, nil
	}

	rec, found, err := b.ref.Cache.ByID(ctx, id)
	if err != nil {
		return Result[T]{}, err
	}
	if found {
		return Result[T]{Record: rec, Present: true}, nil
	}

	if h := b.ref.OnLookupFailure; h != nil {
		rec, present, err := h(ctx, b.failure(enum.OpRead, enum.ID(id)))
		if err != nil {
			return Result[T]{}, err
		}
		return Result[T]{Record: rec, Present: present}, nil
	}
	return Result[T]{}, b.lookupError(enum.OpRead, enum.ID(id))
}

// Set assigns the attribute on host.
//
// None always succeeds: it clears the foreign key and any pending state. A
// resolved reference stores the id and clears pending state. An unresolved
// reference leaves the foreign key untouched and either defers to validation
// (no handler) or hands off to the handler.
func (b *Binding[T]) Set(ctx context.Context, host any, v enum.Value) error {
	state, err := stateOf(host)
	if err != nil {
		return err
	}

	// Empty names normalize to "no value" unless the class permits them.
	if (v.Kind() == enum.KindName || v.Kind() == enum.KindToken) && !b.ref.PermitEmptyName {
		if raw, _ := v.Raw().(string); raw == "" {
			v = enum.None()
		}
	}

	if v.IsNone() {
		state.clearPending(b.ref.Attribute)
		return b.writeFK(host, 0, false)
	}

	rec, found, err := b.resolve(ctx, v)
	if err != nil {
		return err
	}
	if found {
		state.clearPending(b.ref.Attribute)
		return b.writeFK(host, rec.EnumID(), true)
	}

	if h := b.ref.OnLookupFailure; h != nil {
		state.clearPending(b.ref.Attribute)
		_, _, err := h(ctx, b.failure(enum.OpWrite, v))
		return err
	}

	state.setPending(b.ref.Attribute, v)
	return nil
}

// SetAny coerces an arbitrary Go value and assigns it. Unsupported shapes
// fail with TypeError before any state changes.
func (b *Binding[T]) SetAny(ctx context.Context, host any, v any) error {
	value, err := enum.Coerce(v)
	if err != nil {
		return err
	}
	return b.Set(ctx, host, value)
}

// ApplyDefault runs once after host construction: it assigns the declared
// default through the regular write path, but only when the attribute
// currently reads as no value.
func (b *Binding[T]) ApplyDefault(ctx context.Context, host any) error {
	if b.ref.Default.IsNone() {
		return nil
	}
	state, err := stateOf(host)
	if err != nil {
		return err
	}
	if _, ok := state.pendingValue(b.ref.Attribute); ok {
		return nil
	}
	_, set, err := b.readFK(host)
	if err != nil {
		return err
	}
	if set {
		return nil
	}
	return b.Set(ctx, host, b.ref.Default)
}

// resolve maps a non-none value onto a cache entry. found false with nil
// error is a lookup miss; the caller picks the failure policy.
func (b *Binding[T]) resolve(ctx context.Context, v enum.Value) (rec T, found bool, err error) {
	switch v.Kind() {
	case enum.KindRecord:
		raw, _ := v.Record()
		typed, ok := raw.(T)
		if !ok {
			return rec, false, &enum.TypeError{Value: raw}
		}
		// Already validated by construction; no cache consult needed.
		return typed, true, nil
	case enum.KindName, enum.KindToken:
		name, _ := v.Raw().(string)
		return b.ref.Cache.ByName(ctx, name)
	case enum.KindID:
		id, _ := v.Raw().(int64)
		return b.ref.Cache.ByID(ctx, id)
	default:
		return rec, false, &enum.TypeError{Value: v.Raw()}
	}
}

func (b *Binding[T]) failure(op enum.Op, v enum.Value) Failure {
	return Failure{
		Op:         op,
		Attribute:  b.ref.Attribute,
		ForeignKey: b.ref.ForeignKey,
		Class:      b.ref.Cache.Name(),
		Value:      v,
	}
}

var nullInt64Type = reflect.TypeOf(sql.NullInt64{})

// fkField locates the foreign-key field on the host struct, matching the
// configured name against the bun column tag, the snake_cased Go field name,
// or the Go field name itself.
func (b *Binding[T]) fkField(host any) (reflect.Value, error) {
	v := reflect.ValueOf(host)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return reflect.Value{}, &enum.ConfigError{Option: "host", Message: "must be a non-nil struct pointer"}
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, &enum.ConfigError{Option: "host", Message: "must point to a struct"}
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if columnName(field) == b.ref.ForeignKey ||
			toSnake(field.Name) == b.ref.ForeignKey ||
			field.Name == b.ref.ForeignKey {
			return v.Field(i), nil
		}
	}
	return reflect.Value{}, &enum.ConfigError{
		Option:  "foreign key",
		Message: "host has no field for column " + b.ref.ForeignKey,
	}
}

// columnName extracts the column from a bun struct tag, if any.
func columnName(field reflect.StructField) string {
	tag, ok := field.Tag.Lookup("bun")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// readFK reads the foreign-key field. Unset sentinels: nil *int64, invalid
// NullInt64, zero for the plain integer kinds.
func (b *Binding[T]) readFK(host any) (int64, bool, error) {
	field, err := b.fkField(host)
	if err != nil {
		return 0, false, err
	}

	switch {
	case field.Type() == nullInt64Type:
		nv := field.Interface().(sql.NullInt64)
		return nv.Int64, nv.Valid, nil
	case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Int64:
		if field.IsNil() {
			return 0, false, nil
		}
		return field.Elem().Int(), true, nil
	case field.Kind() == reflect.Int || field.Kind() == reflect.Int64:
		id := field.Int()
		return id, id != 0, nil
	default:
		return 0, false, &enum.ConfigError{
			Option:  "foreign key",
			Message: "unsupported field type " + field.Type().String(),
		}
	}
}

// writeFK stores the resolved id, or clears the field when present is false.
func (b *Binding[T]) writeFK(host any, id int64, present bool) error {
	field, err := b.fkField(host)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return &enum.ConfigError{Option: "foreign key", Message: "field is not settable"}
	}

	switch {
	case field.Type() == nullInt64Type:
		field.Set(reflect.ValueOf(sql.NullInt64{Int64: id, Valid: present}))
	case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Int64:
		if !present {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		p := reflect.New(field.Type().Elem())
		p.Elem().SetInt(id)
		field.Set(p)
	case field.Kind() == reflect.Int || field.Kind() == reflect.Int64:
		if !present {
			field.SetInt(0)
			return nil
		}
		field.SetInt(id)
	default:
		return &enum.ConfigError{
			Option:  "foreign key",
			Message: "unsupported field type " + field.Type().String(),
		}
	}
	return nil
}
