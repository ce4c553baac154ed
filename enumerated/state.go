package enumerated

import "github.com/goliatone/go-enumerated/enum"

// Attrs carries the transient per-instance state of a host record's
// enumerated attributes: the raw values of writes that failed lookup and
// have not been corrected yet. Host types embed it next to their columns:
//
//	type Order struct {
//		ID        string `bun:"id,pk"`
//		CountryID int64  `bun:"country_id"`
//
//		enumerated.Attrs `bun:"-" json:"-"`
//	}
//
// The state is never persisted; it exists so a failed write reads back
// verbatim and surfaces as a validation error instead of an immediate panic,
// letting batch validation report every problem on a record at once.
type Attrs struct {
	pending map[string]enum.Value
}

// pendingCarrier is how bindings reach the embedded state on an arbitrary
// host pointer.
type pendingCarrier interface {
	pendingAttrs() *Attrs
}

func (a *Attrs) pendingAttrs() *Attrs { return a }

func (a *Attrs) pendingValue(attribute string) (enum.Value, bool) {
	v, ok := a.pending[attribute]
	return v, ok
}

func (a *Attrs) setPending(attribute string, v enum.Value) {
	if a.pending == nil {
		a.pending = make(map[string]enum.Value, 1)
	}
	a.pending[attribute] = v
}

func (a *Attrs) clearPending(attribute string) {
	delete(a.pending, attribute)
}

func stateOf(host any) (*Attrs, error) {
	carrier, ok := host.(pendingCarrier)
	if !ok {
		return nil, &enum.ConfigError{Option: "host", Message: "host must be a pointer to a struct embedding enumerated.Attrs"}
	}
	return carrier.pendingAttrs(), nil
}
