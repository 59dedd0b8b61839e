package di

import "strconv"

// NotRegisteredError is returned when no builder exists for a key in the
// store or any of its parents.
type NotRegisteredError struct{ Key InstanceKey }

// Error implements the error interface.
func (e NotRegisteredError) Error() string {
	// Example: di: no builder registered for "Logger"
	return "di: no builder registered for " + strconv.Quote(e.Key.String())
}

// CyclicResolveError is returned when a builder re-enters the resolve of
// the key it is currently building.
type CyclicResolveError struct{ Key InstanceKey }

// Error implements the error interface.
func (e CyclicResolveError) Error() string {
	// Example: di: cyclic resolve of "Logger"
	return "di: cyclic resolve of " + strconv.Quote(e.Key.String())
}

// NilBuilderError is returned when a registration carries no builder.
type NilBuilderError struct{ Key InstanceKey }

// Error implements the error interface.
func (e NilBuilderError) Error() string {
	return "di: nil builder for " + strconv.Quote(e.Key.String())
}
