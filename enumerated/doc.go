// Package enumerated binds cached enumeration classes to attributes on host
// records: the record persists a plain integer foreign key while callers
// read and write the attribute by record, name, token, or id.
//
// # Declaring an Attribute
//
// A host type embeds enumerated.Attrs next to its columns and declares its
// attributes once, at startup:
//
//	type Order struct {
//		ID        string `bun:"id,pk"`
//		CountryID int64  `bun:"country_id"`
//
//		enumerated.Attrs `bun:"-" json:"-"`
//	}
//
//	orders := enumerated.NewModel()
//	country, err := enumerated.Declare(orders, countries, "country",
//		enumerated.WithDefault[Country](enum.Name("ua")),
//		enumerated.WithScope[Country](),
//	)
//
// Declare validates its options eagerly; a bad declaration is a ConfigError
// at startup, not a surprise at request time. The foreign-key field is
// derived from the attribute name ("country" -> "country_id") unless
// overridden, and located on the host by bun column tag or field name.
//
// # Reading and Writing
//
//	err := country.Set(ctx, &order, enum.Name("ua")) // fk becomes 1
//	res, err := country.Get(ctx, &order)             // res.Record is the ua row
//
// A write that does not resolve is not an immediate failure: the raw input
// parks on the host instance, the foreign key stays untouched, and the
// getter hands the raw input back verbatim until it is corrected or the
// record is validated. Assigning enum.None always succeeds and clears both
// the foreign key and any parked input. Inputs of an unsupported shape fail
// with TypeError right away; that is a programmer error, never deferred.
//
// # Validation
//
// Binding.Validate and Model.Validate report parked invalid writes as
// ozzo-validation errors keyed by attribute name, without touching the store.
// Rule adapts a binding for use inside validation.ValidateStruct so
// enumerated attributes compose with the host's other rules in any order.
//
// # Lookup-Failure Handlers
//
// WithOnLookupFailure installs a policy for misses. On reads the handler
// either substitutes a record, reports no value, or fails; its error
// propagates unchanged. On writes the handler fully absorbs the miss and the
// attribute records nothing. Without a handler, a read of a foreign key with
// no matching row fails with LookupError, since that is a data-integrity
// violation, while a write defers to validation as described above.
//
// # Scopes
//
// Attributes declared with WithScope build reusable query criteria from the
// same input shapes:
//
//	crit, err := country.ScopeAny(ctx, "ua", 2)
//	orders, total, err := repo.List(ctx, crit)
//
// Scope resolution failures are LookupErrors, never deferred: a filter
// operates outside any single record's validation lifecycle.
package enumerated
