// Package predicate implements header predicates: pure functions deciding
// whether a mapping header is identified by a uri, identifier, local id,
// item name or domain object.
//
// Predicates never fail. Malformed input (an empty uri, identifier or name)
// produces a predicate that is always false, and a facade lookup that
// misses is treated as no match.
//
// Derived (PoP, previous period) and arithmetic measures are resolved
// through the Facade carried in the evaluation Context:
//
//	URIMatch / IdentifierMatch         one derived-master hop, no arithmetic
//	ComposedFromURI / ...Identifier    arithmetic operands, recursively
package predicate
