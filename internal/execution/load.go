package execution

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/roach88/drillkit/internal/model"
)

// document is the on-disk facade form. Descriptors use the wrapped header
// wire form ({"measureHeaderItem": {...}}).
type document struct {
	Workspace  string `json:"workspace"`
	Definition struct {
		Measures   []model.Measure   `json:"measures"`
		Attributes []model.Attribute `json:"attributes"`
	} `json:"definition"`
	Descriptors struct {
		Measures   []json.RawMessage `json:"measures"`
		Attributes []json.RawMessage `json:"attributes"`
	} `json:"descriptors"`
}

// Load reads a facade document from path.
func Load(path string) (*Facade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open facade: %w", err)
	}
	defer f.Close()

	facade, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return facade, nil
}

// Decode reads a facade document from r and builds the Facade.
func Decode(r io.Reader) (*Facade, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, &ChainError{Code: ErrCodeInvalidDocument, Message: err.Error()}
	}

	var descs ResultDescriptors
	for i, raw := range doc.Descriptors.Measures {
		h, err := model.UnmarshalHeader(raw)
		if err != nil {
			return nil, fmt.Errorf("descriptors.measures[%d]: %w", i, err)
		}
		d, ok := h.(model.MeasureDescriptor)
		if !ok {
			return nil, &ChainError{Code: ErrCodeInvalidDocument, Message: fmt.Sprintf("descriptors.measures[%d]: expected measureHeaderItem, got %s", i, model.Kind(h))}
		}
		descs.Measures = append(descs.Measures, d)
	}
	for i, raw := range doc.Descriptors.Attributes {
		h, err := model.UnmarshalHeader(raw)
		if err != nil {
			return nil, fmt.Errorf("descriptors.attributes[%d]: %w", i, err)
		}
		d, ok := h.(model.AttributeDescriptor)
		if !ok {
			return nil, &ChainError{Code: ErrCodeInvalidDocument, Message: fmt.Sprintf("descriptors.attributes[%d]: expected attributeHeader, got %s", i, model.Kind(h))}
		}
		descs.Attributes = append(descs.Attributes, d)
	}

	return New(Definition{
		Workspace:  doc.Workspace,
		Measures:   doc.Definition.Measures,
		Attributes: doc.Definition.Attributes,
	}, descs)
}
