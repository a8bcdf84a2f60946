package execution

import (
	"fmt"

	"github.com/roach88/drillkit/internal/model"
)

// Definition is the execution definition: what was asked of the backend.
type Definition struct {
	Workspace  string
	Measures   []model.Measure
	Attributes []model.Attribute
}

// ResultDescriptors are the dimension descriptors the backend returned.
type ResultDescriptors struct {
	Measures   []model.MeasureDescriptor
	Attributes []model.AttributeDescriptor
}

// Facade is an immutable lookup over one execution result.
type Facade struct {
	workspace string

	measures   []model.Measure
	attributes []model.Attribute

	measureByID    map[string]model.Measure
	attributeByID  map[string]model.Attribute
	measureDescs   map[string]model.MeasureDescriptor
	attributeDescs map[string]model.AttributeDescriptor
}

// New validates def and builds its Facade.
//
// Local identifiers must be unique across measures and attributes, and the
// measure dependency graph must be acyclic. A master or operand that is not
// part of def is not an error; predicates treat it as no match.
func New(def Definition, descriptors ResultDescriptors) (*Facade, error) {
	f := &Facade{
		workspace:      def.Workspace,
		measures:       append([]model.Measure(nil), def.Measures...),
		attributes:     append([]model.Attribute(nil), def.Attributes...),
		measureByID:    make(map[string]model.Measure, len(def.Measures)),
		attributeByID:  make(map[string]model.Attribute, len(def.Attributes)),
		measureDescs:   make(map[string]model.MeasureDescriptor, len(descriptors.Measures)),
		attributeDescs: make(map[string]model.AttributeDescriptor, len(descriptors.Attributes)),
	}

	seen := make(map[string]bool, len(def.Measures)+len(def.Attributes))
	claim := func(id, what string) error {
		if id == "" {
			return &ChainError{Code: ErrCodeInvalidDocument, Message: what + " without localIdentifier"}
		}
		if seen[id] {
			return &ChainError{
				Code:    ErrCodeDuplicateLocalID,
				Message: fmt.Sprintf("duplicate local identifier in %s", what),
				LocalID: id,
			}
		}
		seen[id] = true
		return nil
	}

	for _, m := range def.Measures {
		if err := claim(m.LocalIdentifier, "measures"); err != nil {
			return nil, err
		}
		f.measureByID[m.LocalIdentifier] = m
	}
	for _, a := range def.Attributes {
		if err := claim(a.LocalIdentifier, "attributes"); err != nil {
			return nil, err
		}
		f.attributeByID[a.LocalIdentifier] = a
	}

	for _, d := range descriptors.Measures {
		if _, dup := f.measureDescs[d.LocalIdentifier]; dup {
			return nil, &ChainError{Code: ErrCodeDuplicateLocalID, Message: "duplicate measure descriptor", LocalID: d.LocalIdentifier}
		}
		f.measureDescs[d.LocalIdentifier] = d
	}
	for _, d := range descriptors.Attributes {
		if _, dup := f.attributeDescs[d.LocalIdentifier]; dup {
			return nil, &ChainError{Code: ErrCodeDuplicateLocalID, Message: "duplicate attribute descriptor", LocalID: d.LocalIdentifier}
		}
		f.attributeDescs[d.LocalIdentifier] = d
	}

	if cerr := findCycle(f.measures); cerr != nil {
		return nil, cerr
	}
	return f, nil
}

// Workspace returns the workspace the execution ran in.
func (f *Facade) Workspace() string { return f.workspace }

// MeasureDefinition returns the measure with the given local id.
func (f *Facade) MeasureDefinition(localID string) (model.Measure, bool) {
	m, ok := f.measureByID[localID]
	return m, ok
}

// MeasureDescriptor returns the result descriptor of a measure.
func (f *Facade) MeasureDescriptor(localID string) (model.MeasureDescriptor, bool) {
	d, ok := f.measureDescs[localID]
	return d, ok
}

// Attribute returns the attribute with the given local id.
func (f *Facade) Attribute(localID string) (model.Attribute, bool) {
	a, ok := f.attributeByID[localID]
	return a, ok
}

// AttributeDescriptor returns the result descriptor of an attribute.
func (f *Facade) AttributeDescriptor(localID string) (model.AttributeDescriptor, bool) {
	d, ok := f.attributeDescs[localID]
	return d, ok
}

// Measures returns the measures in definition order.
func (f *Facade) Measures() []model.Measure {
	return append([]model.Measure(nil), f.measures...)
}

// Attributes returns the attributes in definition order.
func (f *Facade) Attributes() []model.Attribute {
	return append([]model.Attribute(nil), f.attributes...)
}

// Headers returns every descriptor as a mapping header: attributes first,
// then measures, each in definition order. Definitions without a returned
// descriptor are skipped.
func (f *Facade) Headers() []model.MappingHeader {
	headers := make([]model.MappingHeader, 0, len(f.attributeDescs)+len(f.measureDescs))
	for _, a := range f.attributes {
		if d, ok := f.attributeDescs[a.LocalIdentifier]; ok {
			headers = append(headers, d)
		}
	}
	for _, m := range f.measures {
		if d, ok := f.measureDescs[m.LocalIdentifier]; ok {
			headers = append(headers, d)
		}
	}
	return headers
}
