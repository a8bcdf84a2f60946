// Package execution provides the read-only facade over an executed query:
// its measure and attribute definitions and the descriptors the backend
// returned for them, all keyed by local identifier.
//
// A Facade is built once per execution result and never mutated. The
// predicate engine resolves derived and arithmetic measure chains through
// it.
package execution
