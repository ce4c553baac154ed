package enum

import (
	"fmt"
	"reflect"
)

// Kind tags the shape of a write-path input.
type Kind uint8

const (
	// KindNone is the "no value" sentinel. Assigning it always succeeds and
	// clears both the foreign key and any pending invalid state.
	KindNone Kind = iota
	// KindRecord carries an enumeration record of the target class.
	KindRecord
	// KindName carries a plain string resolved by name lookup.
	KindName
	// KindToken carries a symbol-like token (a named string type in practice),
	// resolved through its string form.
	KindToken
	// KindID carries an integer resolved by id lookup.
	KindID
)

// Value is the tagged input accepted wherever an enumeration reference is
// expected: attribute assignment, defaults, and filter building. Each kind
// has its own resolution rule; there is no runtime type sniffing past Coerce.
type Value struct {
	kind Kind
	rec  Record
	str  string
	id   int64
}

// None returns the "no value" sentinel.
func None() Value { return Value{} }

// Of wraps an enumeration record. A nil record is the same as None.
func Of(r Record) Value {
	if r == nil {
		return Value{}
	}
	return Value{kind: KindRecord, rec: r}
}

// Name wraps a plain string for name lookup.
func Name(s string) Value { return Value{kind: KindName, str: s} }

// Token wraps a symbol-like reference. Named string types keep their meaning
// as tokens rather than raw names.
func Token[S ~string](s S) Value { return Value{kind: KindToken, str: string(s)} }

// ID wraps an integer key for id lookup.
func ID[N ~int | ~int32 | ~int64](n N) Value { return Value{kind: KindID, id: int64(n)} }

// Coerce maps an arbitrary Go value onto the tagged form. Supported shapes:
// nil, Value, Record, string, any named string type, and the signed integer
// kinds. Anything else fails with TypeError naming the offending type.
func Coerce(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return None(), nil
	case Value:
		return x, nil
	case Record:
		return Of(x), nil
	case string:
		return Name(x), nil
	case int:
		return ID(x), nil
	case int32:
		return ID(x), nil
	case int64:
		return ID(x), nil
	}

	// Named string and integer types land here.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return Token(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ID(rv.Int()), nil
	case reflect.Ptr:
		if rv.IsNil() {
			return None(), nil
		}
		return Coerce(rv.Elem().Interface())
	}

	return Value{}, &TypeError{Value: v}
}

// Kind returns the shape tag.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is the "no value" sentinel.
func (v Value) IsNone() bool { return v.kind == KindNone }

// Record returns the wrapped record for KindRecord values.
func (v Value) Record() (Record, bool) {
	if v.kind != KindRecord {
		return nil, false
	}
	return v.rec, true
}

// Raw returns the value in the shape the caller originally supplied. A getter
// reading back an unresolved write hands out exactly this.
func (v Value) Raw() any {
	switch v.kind {
	case KindRecord:
		return v.rec
	case KindName, KindToken:
		return v.str
	case KindID:
		return v.id
	default:
		return nil
	}
}

// String renders the value for error messages.
func (v Value) String() string {
	switch v.kind {
	case KindRecord:
		return fmt.Sprintf("record(%d %q)", v.rec.EnumID(), v.rec.EnumName())
	case KindName:
		return fmt.Sprintf("name(%q)", v.str)
	case KindToken:
		return fmt.Sprintf("token(%q)", v.str)
	case KindID:
		return fmt.Sprintf("id(%d)", v.id)
	default:
		return "none"
	}
}
