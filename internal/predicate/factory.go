package predicate

import (
	"strings"

	"github.com/roach88/drillkit/internal/model"
)

// URIMatch matches a header whose own uri is uri. A measure descriptor also
// matches when its simple definition item is that uri, or when it is a
// derived measure whose master descriptor or master item is that uri.
func URIMatch(uri string) HeaderPredicate {
	if uri == "" {
		return Never
	}
	return func(h model.MappingHeader, ctx Context) bool {
		if model.URI(h) == uri {
			return true
		}
		return measureRefMatches(h, ctx, func(ref model.ObjRef) bool {
			r, ok := ref.(model.URIRef)
			return ok && r.URI == uri
		}, func(d model.MeasureDescriptor) bool {
			return d.URI == uri
		})
	}
}

// IdentifierMatch mirrors URIMatch by identifier. A composite identifier
// "<workspace>:<identifier>" matches only in that workspace; a bare one
// matches in any. Result attribute items never match.
func IdentifierMatch(identifier string) HeaderPredicate {
	if identifier == "" {
		return Never
	}
	workspace, bare, composite := strings.Cut(identifier, ":")

	return func(h model.MappingHeader, ctx Context) bool {
		equals := func(candidate string) bool {
			if candidate == "" {
				return false
			}
			if candidate == identifier {
				return true
			}
			return composite && bare != "" && workspace == ctx.Workspace && candidate == bare
		}

		if model.IsAttributeItem(h) {
			return false
		}
		if id, err := model.Identifier(h); err == nil && equals(id) {
			return true
		}
		return measureRefMatches(h, ctx, func(ref model.ObjRef) bool {
			r, ok := ref.(model.IdentifierRef)
			return ok && equals(r.Identifier)
		}, func(d model.MeasureDescriptor) bool {
			return equals(d.Identifier)
		})
	}
}

// measureRefMatches resolves a measure descriptor through the facade: its
// own simple definition item, then one hop to the master of a derived
// measure (the master's descriptor and its simple definition item).
func measureRefMatches(
	h model.MappingHeader,
	ctx Context,
	refMatches func(model.ObjRef) bool,
	descMatches func(model.MeasureDescriptor) bool,
) bool {
	md, ok := h.(model.MeasureDescriptor)
	if !ok {
		return false
	}
	m, ok := ctx.measure(md.LocalIdentifier)
	if !ok {
		return false
	}
	if item, ok := model.SimpleItem(m); ok && refMatches(item) {
		return true
	}

	masterID, ok := model.MasterLocalIdentifier(m)
	if !ok {
		return false
	}
	if d, ok := ctx.descriptor(masterID); ok && descMatches(d) {
		return true
	}
	master, ok := ctx.measure(masterID)
	if !ok {
		return false
	}
	item, ok := model.SimpleItem(master)
	return ok && refMatches(item)
}

// AttributeItemNameMatch matches a result attribute item named exactly name.
func AttributeItemNameMatch(name string) HeaderPredicate {
	if name == "" {
		return Never
	}
	return func(h model.MappingHeader, _ Context) bool {
		item, ok := h.(model.ResultAttributeHeaderItem)
		return ok && item.Name == name
	}
}

// LocalIdentifierMatch matches an attribute or measure descriptor with the
// given local id.
func LocalIdentifierMatch(localID string) HeaderPredicate {
	if localID == "" {
		return Never
	}
	return func(h model.MappingHeader, _ Context) bool {
		switch v := h.(type) {
		case model.AttributeDescriptor:
			return v.LocalIdentifier == localID
		case model.MeasureDescriptor:
			return v.LocalIdentifier == localID
		case model.AttributeValueHeader:
			return v.Attribute.LocalIdentifier == localID
		default:
			return false
		}
	}
}

// MeasureLocalIdentifierMatch matches the descriptor of measure m.
func MeasureLocalIdentifierMatch(m model.Measure) HeaderPredicate {
	return LocalIdentifierMatch(m.LocalIdentifier)
}

// ObjRefMatch dispatches to IdentifierMatch for identifier refs and to
// URIMatch for uri refs. Local id refs and nil never match.
func ObjRefMatch(ref model.ObjRef) HeaderPredicate {
	switch r := ref.(type) {
	case model.IdentifierRef:
		return IdentifierMatch(r.Identifier)
	case model.URIRef:
		return URIMatch(r.URI)
	default:
		return Never
	}
}

// ObjMatch builds a predicate from a domain object:
//
//	model.Attribute   local id OR display form ref
//	model.Measure     local id OR item ref (simple measures only)
//	model.ObjRef      ObjRefMatch
//
// Anything else, nil included, never matches.
func ObjMatch(obj any) HeaderPredicate {
	switch v := obj.(type) {
	case model.Attribute:
		return Or(LocalIdentifierMatch(v.LocalIdentifier), ObjRefMatch(v.DisplayForm))
	case *model.Attribute:
		if v == nil {
			return Never
		}
		return ObjMatch(*v)
	case model.Measure:
		item, ok := model.SimpleItem(v)
		if !ok {
			return Never
		}
		return Or(LocalIdentifierMatch(v.LocalIdentifier), ObjRefMatch(item))
	case *model.Measure:
		if v == nil {
			return Never
		}
		return ObjMatch(*v)
	case model.ObjRef:
		return ObjRefMatch(v)
	default:
		return Never
	}
}
