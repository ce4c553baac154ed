package enumerated

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-enumerated/enum"
)

// ErrInvalidValue is reported for an attribute whose last write failed
// lookup and was never corrected.
var ErrInvalidValue = validation.NewError("invalid_enum_value", "is not a valid enumeration entry")

// Validate reports the attribute's deferred invalid state, if any. It is
// purely local: no store or cache access, so it composes with any other rule
// on the host in any order. A non-nil result is a validation.Errors keyed by
// the attribute name.
func (b *Binding[T]) Validate(host any) error {
	state, err := stateOf(host)
	if err != nil {
		return err
	}
	if raw, ok := state.pendingValue(b.ref.Attribute); ok {
		return validation.Errors{
			b.ref.Attribute: ErrInvalidValue.SetParams(map[string]any{
				"value": raw.String(),
				"class": b.ref.Cache.Name(),
			}),
		}
	}
	return nil
}

// Rule adapts the binding to an ozzo validation.Rule so the attribute can be
// listed inside validation.ValidateStruct next to the host's other rules:
//
//	validation.ValidateStruct(&order,
//		validation.Field(&order.CountryID, enumerated.Rule(countryAttr, &order)),
//	)
func Rule[T enum.Record](b *Binding[T], host any) validation.Rule {
	return validation.By(func(any) error {
		state, err := stateOf(host)
		if err != nil {
			return err
		}
		if _, ok := state.pendingValue(b.ref.Attribute); ok {
			return ErrInvalidValue
		}
		return nil
	})
}
