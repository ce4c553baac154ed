package enumerated

import (
	"context"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-enumerated/enum"
)

// AttrBinding is the type-erased view of a declared attribute that the Model
// sweeps over for defaults and validation. The typed *Binding[T] returned by
// Declare is the full read/write surface.
type AttrBinding interface {
	Attribute() string
	ApplyDefault(ctx context.Context, host any) error
	Validate(host any) error
}

// Model collects the enumerated attributes declared for one host type. It is
// built once at startup and read concurrently afterwards.
type Model struct {
	attrs *xsync.MapOf[string, AttrBinding]
}

// NewModel returns an empty attribute registry for a host type.
func NewModel() *Model {
	return &Model{attrs: xsync.NewMapOf[string, AttrBinding]()}
}

// Declare installs one enumerated attribute: it validates the options, builds
// the Reflection, registers the binding on the model, and returns the typed
// binding. Declaring the same attribute twice is a ConfigError.
func Declare[T enum.Record](m *Model, cache *enum.Cache[T], attribute string, opts ...Option[T]) (*Binding[T], error) {
	ref, err := newReflection(cache, attribute, opts...)
	if err != nil {
		return nil, err
	}
	b := &Binding[T]{ref: ref}
	if m != nil {
		if _, loaded := m.attrs.LoadOrStore(attribute, b); loaded {
			return nil, &enum.ConfigError{Option: "attribute", Message: "already declared: " + attribute}
		}
	}
	return b, nil
}

// Binding returns the registered binding for an attribute name.
func (m *Model) Binding(attribute string) (AttrBinding, bool) {
	return m.attrs.Load(attribute)
}

// Attributes returns the declared attribute names, sorted.
func (m *Model) Attributes() []string {
	var names []string
	m.attrs.Range(func(name string, _ AttrBinding) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

// Construct is the post-construction hook: it applies every declared default
// to a freshly built host, before any caller-visible access. Attributes that
// already hold a value are left alone.
func (m *Model) Construct(ctx context.Context, host any) error {
	var firstErr error
	m.attrs.Range(func(_ string, b AttrBinding) bool {
		if err := b.ApplyDefault(ctx, host); err != nil {
			firstErr = err
			return false
		}
		return true
	})
	return firstErr
}

// Validate runs every attribute's deferred-state check and merges the
// results into one validation.Errors, so a host reports all invalid
// enumerated attributes at once.
func (m *Model) Validate(host any) error {
	errs := validation.Errors{}
	var hard error
	m.attrs.Range(func(_ string, b AttrBinding) bool {
		err := b.Validate(host)
		if err == nil {
			return true
		}
		verrs, ok := err.(validation.Errors)
		if !ok {
			hard = err
			return false
		}
		for name, e := range verrs {
			errs[name] = e
		}
		return true
	})
	if hard != nil {
		return hard
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
