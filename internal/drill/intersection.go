package drill

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/roach88/drillkit/internal/model"
)

// IntersectionElement is one step of the header path a drill event was
// fired on.
type IntersectionElement struct {
	Header model.MappingHeader
}

type intersectionElementJSON struct {
	Header json.RawMessage `json:"header"`
}

// MarshalJSON emits {"header": <wrapped header>}.
func (e IntersectionElement) MarshalJSON() ([]byte, error) {
	raw, err := model.MarshalHeader(e.Header)
	if err != nil {
		return nil, fmt.Errorf("intersection element: %w", err)
	}
	return json.Marshal(intersectionElementJSON{Header: raw})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *IntersectionElement) UnmarshalJSON(data []byte) error {
	var aux intersectionElementJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("intersection element: %w", err)
	}
	h, err := model.UnmarshalHeader(aux.Header)
	if err != nil {
		return fmt.Errorf("intersection element: %w", err)
	}
	e.Header = h
	return nil
}

// BuildIntersection flattens a header path. An attribute descriptor
// directly preceded by a result attribute item is merged with it into an
// AttributeValueHeader; a descriptor with no preceding item is emitted
// alone. Measure and total descriptors are emitted as they are. Items and
// color descriptors are never emitted on their own.
//
// An item with an empty uri has its name blanked in the merged header.
func BuildIntersection(headers []model.MappingHeader) []IntersectionElement {
	out := make([]IntersectionElement, 0, len(headers))
	for i, h := range headers {
		switch v := h.(type) {
		case model.AttributeDescriptor:
			if i > 0 {
				if item, ok := headers[i-1].(model.ResultAttributeHeaderItem); ok {
					out = append(out, IntersectionElement{Header: mergeAttributeValue(v, item)})
					continue
				}
			}
			out = append(out, IntersectionElement{Header: v})
		case model.MeasureDescriptor, model.TotalDescriptor:
			out = append(out, IntersectionElement{Header: v})
		}
	}
	return out
}

func mergeAttributeValue(attr model.AttributeDescriptor, item model.ResultAttributeHeaderItem) model.AttributeValueHeader {
	if item.URI == "" {
		item.Name = ""
	}
	return model.AttributeValueHeader{Item: item, Attribute: attr}
}

// SliceIntersectionFrom returns the intersection from the first merged
// attribute value whose descriptor has localID to the end. When no element
// matches the whole intersection is returned.
func SliceIntersectionFrom(intersection []IntersectionElement, localID string) []IntersectionElement {
	start := 0
	for i, el := range intersection {
		if v, ok := el.Header.(model.AttributeValueHeader); ok && v.Attribute.LocalIdentifier == localID {
			start = i
			break
		}
	}
	return intersection[start:]
}

// LegacyHeader is the {uri, identifier} header of a legacy intersection
// element.
type LegacyHeader struct {
	URI        string `json:"uri"`
	Identifier string `json:"identifier"`
}

// LegacyIntersectionElement is the pre-descriptor intersection shape still
// accepted from older embedders.
type LegacyIntersectionElement struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Header *LegacyHeader `json:"header,omitempty"`
}

// CreateDrillIntersectionElement builds a legacy element. The header is
// present when either uri or identifier is non-empty; the missing one is
// the empty string.
func CreateDrillIntersectionElement(id, title, uri, identifier string) LegacyIntersectionElement {
	el := LegacyIntersectionElement{ID: id, Title: title}
	if uri != "" || identifier != "" {
		el.Header = &LegacyHeader{URI: uri, Identifier: identifier}
	}
	return el
}
