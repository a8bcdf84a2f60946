package model

// MappingHeader is a sealed interface over the header shapes found in an
// execution result. Only the types in this file implement it.
type MappingHeader interface {
	mappingHeader() // Sealed - only these types implement it
}

// HeaderKind names a MappingHeader variant.
type HeaderKind string

// Header kinds, named after their wire keys.
const (
	KindAttributeDescriptor HeaderKind = "attributeHeader"
	KindAttributeItem       HeaderKind = "attributeHeaderItem"
	KindMeasureDescriptor   HeaderKind = "measureHeaderItem"
	KindTotalDescriptor     HeaderKind = "totalHeaderItem"
	KindColorDescriptor     HeaderKind = "colorHeaderItem"
	KindAttributeValue      HeaderKind = "attributeValue"
	KindUnknown             HeaderKind = ""
)

// AttributeFormOf identifies the attribute a display form belongs to.
type AttributeFormOf struct {
	Identifier string `json:"identifier"`
	URI        string `json:"uri"`
	Name       string `json:"name"`
}

// AttributeDescriptor is the static descriptor of an attribute (display
// form) in a result dimension.
type AttributeDescriptor struct {
	LocalIdentifier string          `json:"localIdentifier"`
	Identifier      string          `json:"identifier,omitempty"`
	URI             string          `json:"uri,omitempty"`
	Name            string          `json:"name"`
	FormOf          AttributeFormOf `json:"formOf"`
}

func (AttributeDescriptor) mappingHeader() {}

// ResultAttributeHeaderItem is one concrete value of an attribute in a
// result. It has no local identifier of its own.
type ResultAttributeHeaderItem struct {
	URI           string `json:"uri"`
	Name          string `json:"name"`
	FormattedName string `json:"formattedName,omitempty"`
}

func (ResultAttributeHeaderItem) mappingHeader() {}

// MeasureDescriptor is the static descriptor of a measure.
type MeasureDescriptor struct {
	LocalIdentifier string `json:"localIdentifier"`
	Identifier      string `json:"identifier,omitempty"`
	URI             string `json:"uri,omitempty"`
	Name            string `json:"name"`
	Format          string `json:"format"`
}

func (MeasureDescriptor) mappingHeader() {}

// TotalDescriptor describes a computed total (sum, avg, ...).
type TotalDescriptor struct {
	Name          string `json:"name"`
	FormattedName string `json:"formattedName,omitempty"`
}

func (TotalDescriptor) mappingHeader() {}

// ColorDescriptor is a legend/coloring identity.
type ColorDescriptor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (ColorDescriptor) mappingHeader() {}

// AttributeValueHeader pairs an attribute value with the descriptor of its
// attribute. It is produced by the intersection builder; the item's uri and
// name take precedence over the descriptor's.
type AttributeValueHeader struct {
	Item      ResultAttributeHeaderItem
	Attribute AttributeDescriptor
}

func (AttributeValueHeader) mappingHeader() {}

// Kind returns the variant name of h, or KindUnknown.
func Kind(h MappingHeader) HeaderKind {
	switch h.(type) {
	case AttributeDescriptor:
		return KindAttributeDescriptor
	case ResultAttributeHeaderItem:
		return KindAttributeItem
	case MeasureDescriptor:
		return KindMeasureDescriptor
	case TotalDescriptor:
		return KindTotalDescriptor
	case ColorDescriptor:
		return KindColorDescriptor
	case AttributeValueHeader:
		return KindAttributeValue
	default:
		return KindUnknown
	}
}

// LocalIdentifier returns the header's own local identifier.
//
// Result attribute items and totals carry no identity; asking them fails
// with ErrCodeNoLocalIdentifier.
func LocalIdentifier(h MappingHeader) (string, error) {
	switch v := h.(type) {
	case AttributeDescriptor:
		return v.LocalIdentifier, nil
	case MeasureDescriptor:
		return v.LocalIdentifier, nil
	case ColorDescriptor:
		return v.ID, nil
	case AttributeValueHeader:
		return v.Attribute.LocalIdentifier, nil
	case ResultAttributeHeaderItem, TotalDescriptor:
		return "", newHeaderError(ErrCodeNoLocalIdentifier, h, "header has no local identifier")
	default:
		return "", newHeaderError(ErrCodeUnknownHeaderKind, h, "unknown mapping header")
	}
}

// Identifier returns the stable metadata identifier of an attribute or
// measure descriptor.
func Identifier(h MappingHeader) (string, error) {
	switch v := h.(type) {
	case AttributeDescriptor:
		return v.Identifier, nil
	case MeasureDescriptor:
		return v.Identifier, nil
	case AttributeValueHeader:
		return v.Attribute.Identifier, nil
	case ResultAttributeHeaderItem, TotalDescriptor, ColorDescriptor:
		return "", newHeaderError(ErrCodeNoIdentifier, h, "header has no identifier")
	default:
		return "", newHeaderError(ErrCodeUnknownHeaderKind, h, "unknown mapping header")
	}
}

// URI returns the header uri. Totals and colors have none and return "".
func URI(h MappingHeader) string {
	switch v := h.(type) {
	case AttributeDescriptor:
		return v.URI
	case ResultAttributeHeaderItem:
		return v.URI
	case MeasureDescriptor:
		return v.URI
	case AttributeValueHeader:
		return v.Item.URI
	default:
		return ""
	}
}

// Name returns the display name. For an attribute descriptor this is the
// name of the attribute it belongs to, not of the display form.
func Name(h MappingHeader) string {
	switch v := h.(type) {
	case AttributeDescriptor:
		return v.FormOf.Name
	case ResultAttributeHeaderItem:
		return v.Name
	case MeasureDescriptor:
		return v.Name
	case TotalDescriptor:
		return v.Name
	case ColorDescriptor:
		return v.Name
	case AttributeValueHeader:
		return v.Item.Name
	default:
		return ""
	}
}

// FormattedName prefers the formatted variant where the header carries one.
func FormattedName(h MappingHeader) string {
	switch v := h.(type) {
	case ResultAttributeHeaderItem:
		if v.FormattedName != "" {
			return v.FormattedName
		}
		return v.Name
	case TotalDescriptor:
		if v.FormattedName != "" {
			return v.FormattedName
		}
		return v.Name
	default:
		return Name(h)
	}
}

// IsAttributeDescriptor reports whether h is a bare attribute descriptor.
func IsAttributeDescriptor(h MappingHeader) bool {
	_, ok := h.(AttributeDescriptor)
	return ok
}

// IsMeasureDescriptor reports whether h is a measure descriptor.
func IsMeasureDescriptor(h MappingHeader) bool {
	_, ok := h.(MeasureDescriptor)
	return ok
}

// IsAttributeItem reports whether h is a result attribute item.
func IsAttributeItem(h MappingHeader) bool {
	_, ok := h.(ResultAttributeHeaderItem)
	return ok
}
