package predicate

import "github.com/roach88/drillkit/internal/model"

// ComposedFromURI matches an arithmetic measure (or a measure derived from
// one) with any operand, at any nesting depth, matching URIMatch(uri).
func ComposedFromURI(uri string) HeaderPredicate {
	if uri == "" {
		return Never
	}
	return composedFrom(URIMatch(uri))
}

// ComposedFromIdentifier matches an arithmetic measure (or a measure
// derived from one) with any operand matching IdentifierMatch(identifier).
func ComposedFromIdentifier(identifier string) HeaderPredicate {
	if identifier == "" {
		return Never
	}
	return composedFrom(IdentifierMatch(identifier))
}

// composedFrom never falls back to base on the header itself: a simple or
// bare derived measure does not match even when base would.
func composedFrom(base HeaderPredicate) HeaderPredicate {
	return func(h model.MappingHeader, ctx Context) bool {
		md, ok := h.(model.MeasureDescriptor)
		if !ok {
			return false
		}
		m, ok := ctx.measure(md.LocalIdentifier)
		if !ok {
			return false
		}
		am, ok := arithmeticOf(m, ctx)
		if !ok {
			return false
		}
		return anyOperandMatches(am, base, ctx, map[string]bool{})
	}
}

// arithmeticOf returns m when it is arithmetic, or its master when m is
// derived from an arithmetic measure.
func arithmeticOf(m model.Measure, ctx Context) (model.Measure, bool) {
	if model.IsArithmetic(m) {
		return m, true
	}
	masterID, ok := model.MasterLocalIdentifier(m)
	if !ok {
		return model.Measure{}, false
	}
	master, ok := ctx.measure(masterID)
	if !ok || !model.IsArithmetic(master) {
		return model.Measure{}, false
	}
	return master, true
}

// anyOperandMatches walks the operands of am. Nested arithmetic operands
// recurse; the rest are tested with base against their own descriptor, which
// for derived operands resolves one master hop. A measure already visited
// contributes false, so a malformed cyclic chain terminates.
func anyOperandMatches(am model.Measure, base HeaderPredicate, ctx Context, visited map[string]bool) bool {
	if visited[am.LocalIdentifier] {
		return false
	}
	visited[am.LocalIdentifier] = true

	for _, opID := range model.OperandLocalIdentifiers(am) {
		op, ok := ctx.measure(opID)
		if !ok {
			continue
		}
		if nested, ok := arithmeticOf(op, ctx); ok {
			if anyOperandMatches(nested, base, ctx, visited) {
				return true
			}
			continue
		}
		if base(ctx.operandDescriptor(opID), ctx) {
			return true
		}
	}
	return false
}
