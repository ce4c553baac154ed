package enum

import "fmt"

// Op identifies which access path triggered a lookup.
type Op string

const (
	// OpRead marks a lookup performed while reading an attribute back.
	OpRead Op = "read"
	// OpWrite marks a lookup performed while assigning an attribute.
	OpWrite Op = "write"
	// OpScope marks a lookup performed while building a query filter.
	OpScope Op = "scope"
)

// ConfigError reports an invalid declaration or construction option.
// It is always raised eagerly, never deferred to use time.
type ConfigError struct {
	Option  string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "enum: invalid option " + e.Option + ": " + e.Message
}

// GuardError reports a create or destroy attempted on an enumeration class
// whose mutation guard is disabled. The backing store is never touched when
// this is returned.
type GuardError struct {
	Class string
	Op    string
}

// Error implements the error interface.
func (e *GuardError) Error() string {
	return fmt.Sprintf("enum: %s on %q rejected: mutation guard disabled", e.Op, e.Class)
}

// TypeError reports a write-path input of an unsupported shape. This is a
// programmer error and is never deferred to validation.
type TypeError struct {
	Value any
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("enum: unsupported value %v (type %T)", e.Value, e.Value)
}

// LookupError reports a reference that resolved to no cache entry on a path
// where a miss is a hard failure: reading a foreign key with no matching row
// and no handler, or resolving filter arguments.
type LookupError struct {
	Class     string
	Op        Op
	Attribute string
	Value     Value
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("enum: no %q entry for %s (%s of %q)", e.Class, e.Value, e.Op, e.Attribute)
	}
	return fmt.Sprintf("enum: no %q entry for %s (%s)", e.Class, e.Value, e.Op)
}
