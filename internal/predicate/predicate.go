package predicate

import "github.com/roach88/drillkit/internal/model"

// Facade is the part of an execution facade predicates resolve measures
// through. *execution.Facade implements it.
type Facade interface {
	MeasureDefinition(localID string) (model.Measure, bool)
	MeasureDescriptor(localID string) (model.MeasureDescriptor, bool)
}

// Context is the evaluation context of a predicate. Workspace is the
// current workspace composite identifiers are resolved against.
type Context struct {
	Facade    Facade
	Workspace string
}

// HeaderPredicate decides whether h is identified by the predicate.
// Predicates are pure and safe to call repeatedly in any order.
type HeaderPredicate func(h model.MappingHeader, ctx Context) bool

// Never is the always-false predicate.
func Never(model.MappingHeader, Context) bool { return false }

// Or matches when any of preds matches.
func Or(preds ...HeaderPredicate) HeaderPredicate {
	return func(h model.MappingHeader, ctx Context) bool {
		for _, p := range preds {
			if p(h, ctx) {
				return true
			}
		}
		return false
	}
}

func (c Context) measure(localID string) (model.Measure, bool) {
	if c.Facade == nil || localID == "" {
		return model.Measure{}, false
	}
	return c.Facade.MeasureDefinition(localID)
}

func (c Context) descriptor(localID string) (model.MeasureDescriptor, bool) {
	if c.Facade == nil || localID == "" {
		return model.MeasureDescriptor{}, false
	}
	return c.Facade.MeasureDescriptor(localID)
}

// operandDescriptor returns the descriptor of a measure, or a bare one
// carrying only its local id when the result has none, so base predicates
// can still resolve it through its definition.
func (c Context) operandDescriptor(localID string) model.MeasureDescriptor {
	if d, ok := c.descriptor(localID); ok {
		return d
	}
	return model.MeasureDescriptor{LocalIdentifier: localID}
}
