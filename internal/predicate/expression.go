package predicate

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/roach88/drillkit/internal/model"
)

// HeaderView is the environment an expression predicate is evaluated
// against. Kind uses the short names "attribute", "attributeItem",
// "measure", "total", "color" and "attributeValue".
type HeaderView struct {
	Kind            string `expr:"kind"`
	LocalIdentifier string `expr:"localIdentifier"`
	Identifier      string `expr:"identifier"`
	URI             string `expr:"uri"`
	Name            string `expr:"name"`
	FormattedName   string `expr:"formattedName"`
	Workspace       string `expr:"workspace"`
}

var shortKinds = map[model.HeaderKind]string{
	model.KindAttributeDescriptor: "attribute",
	model.KindAttributeItem:       "attributeItem",
	model.KindMeasureDescriptor:   "measure",
	model.KindTotalDescriptor:     "total",
	model.KindColorDescriptor:     "color",
	model.KindAttributeValue:      "attributeValue",
}

// NewHeaderView flattens h for expression evaluation. Identities the header
// does not carry are empty strings.
func NewHeaderView(h model.MappingHeader, ctx Context) HeaderView {
	localID, _ := model.LocalIdentifier(h)
	identifier, _ := model.Identifier(h)
	return HeaderView{
		Kind:            shortKinds[model.Kind(h)],
		LocalIdentifier: localID,
		Identifier:      identifier,
		URI:             model.URI(h),
		Name:            model.Name(h),
		FormattedName:   model.FormattedName(h),
		Workspace:       ctx.Workspace,
	}
}

// ExpressionError reports an expression that does not compile to a boolean
// program.
type ExpressionError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *ExpressionError) Error() string {
	return fmt.Sprintf("compile expression %q: %v", e.Source, e.Err)
}

// Unwrap returns the underlying compiler error.
func (e *ExpressionError) Unwrap() error { return e.Err }

// ExpressionMatch compiles src into a predicate over HeaderView, e.g.
//
//	kind == "measure" && localIdentifier startsWith "m_"
//
// Compile errors are returned. A runtime error evaluates to false.
func ExpressionMatch(src string) (HeaderPredicate, error) {
	program, err := CompileExpression(src)
	if err != nil {
		return nil, err
	}
	return func(h model.MappingHeader, ctx Context) bool {
		out, err := expr.Run(program, NewHeaderView(h, ctx))
		if err != nil {
			return false
		}
		matched, ok := out.(bool)
		return ok && matched
	}, nil
}

// CompileExpression type-checks src against HeaderView as a boolean
// expression.
func CompileExpression(src string) (*vm.Program, error) {
	if src == "" {
		return nil, &ExpressionError{Source: src, Err: fmt.Errorf("empty expression")}
	}
	program, err := expr.Compile(src, expr.Env(HeaderView{}), expr.AsBool())
	if err != nil {
		return nil, &ExpressionError{Source: src, Err: err}
	}
	return program, nil
}
