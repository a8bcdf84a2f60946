package drill

import (
	"fmt"

	"github.com/roach88/drillkit/internal/model"
	"github.com/roach88/drillkit/internal/predicate"
)

// Spec is a sealed drill specification. Only URISpec, IdentifierSpec,
// LegacySpec, PredicateSpec and ExpressionSpec implement it.
type Spec interface {
	drillSpec()
}

// URISpec makes headers with the given uri drillable.
type URISpec struct {
	URI string
}

func (URISpec) drillSpec() {}

// IdentifierSpec makes headers with the given identifier drillable. The
// identifier may be composite.
type IdentifierSpec struct {
	Identifier string
}

func (IdentifierSpec) drillSpec() {}

// LegacySpec is the combined {uri, identifier} shape. The uri wins and the
// identifier is ignored.
type LegacySpec struct {
	URI        string
	Identifier string
}

func (LegacySpec) drillSpec() {}

// PredicateSpec passes a prebuilt predicate through. Description is used in
// diagnostics only.
type PredicateSpec struct {
	Predicate   predicate.HeaderPredicate
	Description string
}

func (PredicateSpec) drillSpec() {}

// ExpressionSpec is an expr-lang boolean expression over the header view.
type ExpressionSpec struct {
	Source string
}

func (ExpressionSpec) drillSpec() {}

// ConvertSpecsToPredicates converts specs to predicates in order. A nil or
// empty list yields an empty list. Only expression compile failures are
// errors; every other malformed spec degrades to a never-matching predicate.
func ConvertSpecsToPredicates(specs []Spec) ([]predicate.HeaderPredicate, error) {
	preds := make([]predicate.HeaderPredicate, 0, len(specs))
	for i, spec := range specs {
		p, err := convertSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("drill spec %d: %w", i, err)
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func convertSpec(spec Spec) (predicate.HeaderPredicate, error) {
	switch s := spec.(type) {
	case PredicateSpec:
		if s.Predicate == nil {
			return predicate.Never, nil
		}
		return s.Predicate, nil
	case LegacySpec:
		return predicate.URIMatch(s.URI), nil
	case URISpec:
		return predicate.URIMatch(s.URI), nil
	case IdentifierSpec:
		return predicate.IdentifierMatch(s.Identifier), nil
	case ExpressionSpec:
		return predicate.ExpressionMatch(s.Source)
	default:
		return predicate.Never, nil
	}
}

// IsAnyPredicateMatched reports whether any predicate matches h. Evaluation
// stops at the first match; an empty list never matches.
func IsAnyPredicateMatched(preds []predicate.HeaderPredicate, h model.MappingHeader, ctx predicate.Context) bool {
	for _, p := range preds {
		if p(h, ctx) {
			return true
		}
	}
	return false
}

// DescribeSpec renders spec for CLI and trace output.
func DescribeSpec(spec Spec) string {
	switch s := spec.(type) {
	case URISpec:
		return fmt.Sprintf("uri(%s)", s.URI)
	case IdentifierSpec:
		return fmt.Sprintf("identifier(%s)", s.Identifier)
	case LegacySpec:
		return fmt.Sprintf("legacy(uri=%s, identifier=%s)", s.URI, s.Identifier)
	case ExpressionSpec:
		return fmt.Sprintf("expr(%s)", s.Source)
	case PredicateSpec:
		if s.Description != "" {
			return s.Description
		}
		return "predicate"
	default:
		return fmt.Sprintf("unknown(%T)", spec)
	}
}
