package drillconfig

import (
	"fmt"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/drillkit/internal/drill"
	"github.com/roach88/drillkit/internal/grouping"
	"github.com/roach88/drillkit/internal/predicate"
)

// Item kinds, named after the CUE fields that select them.
const (
	KindURI               = "uri"
	KindIdentifier        = "identifier"
	KindLegacy            = "legacy"
	KindExpr              = "expr"
	KindComposedFrom      = "composedFrom"
	KindLocalIdentifier   = "localIdentifier"
	KindAttributeItemName = "attributeItemName"
)

// Item is one compiled drill item.
type Item struct {
	Kind string
	Spec drill.Spec
	Pos  token.Pos
}

// Config is a compiled drill configuration.
type Config struct {
	Workspace string
	// Grouping enables table row grouping. It defaults to true.
	Grouping bool
	Items    []Item
}

// GroupingProvider returns the row grouping strategy c selects.
func (c *Config) GroupingProvider() grouping.Provider {
	return grouping.NewProvider(c.Grouping)
}

// Specs returns the drill specs of c in item order.
func (c *Config) Specs() []drill.Spec {
	specs := make([]drill.Spec, len(c.Items))
	for i, item := range c.Items {
		specs[i] = item.Spec
	}
	return specs
}

// Compile parses the drill struct v into a Config.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`drill: { items: [{uri: "/u"}] }`)
//	cfg, err := Compile(v.LookupPath(cue.ParsePath("drill")))
func Compile(v cue.Value) (*Config, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if !v.Exists() {
		return nil, &CompileError{Field: "drill", Message: "drill is required"}
	}

	cfg := &Config{Grouping: true}

	if wsVal := v.LookupPath(cue.ParsePath("workspace")); wsVal.Exists() {
		ws, err := wsVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		cfg.Workspace = ws
	}

	if gVal := v.LookupPath(cue.ParsePath("grouping")); gVal.Exists() {
		g, err := gVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		cfg.Grouping = g
	}

	itemsVal := v.LookupPath(cue.ParsePath("items"))
	if !itemsVal.Exists() {
		return cfg, nil
	}
	iter, err := itemsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		item, err := compileItem(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		cfg.Items = append(cfg.Items, item)
	}
	return cfg, nil
}

// CompileData compiles a drill struct given as plain data, as decoded from
// YAML or JSON. Items compiled this way carry no source position.
func CompileData(data map[string]any) (*Config, error) {
	return Compile(cuecontext.New().Encode(data))
}

func compileItem(v cue.Value, index int) (Item, error) {
	field := fmt.Sprintf("items[%d]", index)

	fields, err := stringFields(v, field)
	if err != nil {
		return Item{}, err
	}
	keys := sortedKeys(fields)
	item := Item{Pos: v.Pos()}

	switch strings.Join(keys, ",") {
	case "":
		return Item{}, &CompileError{Field: field, Message: "drill item is empty", Pos: v.Pos()}
	case "uri":
		item.Kind = KindURI
		item.Spec = drill.URISpec{URI: fields["uri"]}
	case "identifier":
		item.Kind = KindIdentifier
		item.Spec = drill.IdentifierSpec{Identifier: fields["identifier"]}
	case "identifier,uri":
		item.Kind = KindLegacy
		item.Spec = drill.LegacySpec{URI: fields["uri"], Identifier: fields["identifier"]}
	case "expr":
		if _, err := predicate.CompileExpression(fields["expr"]); err != nil {
			return Item{}, &CompileError{Field: field + ".expr", Message: err.Error(), Pos: v.Pos()}
		}
		item.Kind = KindExpr
		item.Spec = drill.ExpressionSpec{Source: fields["expr"]}
	case "localIdentifier":
		id := fields["localIdentifier"]
		item.Kind = KindLocalIdentifier
		item.Spec = drill.PredicateSpec{
			Predicate:   predicate.LocalIdentifierMatch(id),
			Description: fmt.Sprintf("localIdentifier(%s)", id),
		}
	case "attributeItemName":
		name := fields["attributeItemName"]
		item.Kind = KindAttributeItemName
		item.Spec = drill.PredicateSpec{
			Predicate:   predicate.AttributeItemNameMatch(name),
			Description: fmt.Sprintf("attributeItemName(%s)", name),
		}
	case "composedFrom":
		spec, err := compileComposedFrom(v.LookupPath(cue.ParsePath("composedFrom")), field+".composedFrom")
		if err != nil {
			return Item{}, err
		}
		item.Kind = KindComposedFrom
		item.Spec = spec
	default:
		return Item{}, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unknown drill item shape {%s}", strings.Join(keys, ", ")),
			Pos:     v.Pos(),
		}
	}
	return item, nil
}

func compileComposedFrom(v cue.Value, field string) (drill.Spec, error) {
	fields, err := stringFields(v, field)
	if err != nil {
		return nil, err
	}
	switch strings.Join(sortedKeys(fields), ",") {
	case "uri":
		uri := fields["uri"]
		return drill.PredicateSpec{
			Predicate:   predicate.ComposedFromURI(uri),
			Description: fmt.Sprintf("composedFrom(uri=%s)", uri),
		}, nil
	case "identifier":
		id := fields["identifier"]
		return drill.PredicateSpec{
			Predicate:   predicate.ComposedFromIdentifier(id),
			Description: fmt.Sprintf("composedFrom(identifier=%s)", id),
		}, nil
	default:
		return nil, &CompileError{Field: field, Message: "composedFrom needs exactly one of uri, identifier", Pos: v.Pos()}
	}
}

// stringFields reads the fields of an item struct. Every field but
// composedFrom must be a non-empty string.
func stringFields(v cue.Value, field string) (map[string]string, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, &CompileError{Field: field, Message: "drill item must be a struct", Pos: v.Pos()}
	}
	out := map[string]string{}
	for iter.Next() {
		label := iter.Label()
		if label == "composedFrom" {
			out[label] = ""
			continue
		}
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{Field: field + "." + label, Message: "must be a string", Pos: iter.Value().Pos()}
		}
		if s == "" {
			return nil, &CompileError{Field: field + "." + label, Message: "must be non-empty", Pos: iter.Value().Pos()}
		}
		out[label] = s
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}
