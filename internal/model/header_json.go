package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Wire keys wrapping each header shape.
const (
	keyAttributeHeader     = "attributeHeader"
	keyAttributeHeaderItem = "attributeHeaderItem"
	keyMeasureHeaderItem   = "measureHeaderItem"
	keyTotalHeaderItem     = "totalHeaderItem"
	keyColorHeaderItem     = "colorHeaderItem"
)

// MarshalJSON wraps the descriptor under its wire key.
func (h AttributeDescriptor) MarshalJSON() ([]byte, error) {
	type plain AttributeDescriptor
	return json.Marshal(map[string]plain{keyAttributeHeader: plain(h)})
}

// MarshalJSON wraps the item under its wire key.
func (h ResultAttributeHeaderItem) MarshalJSON() ([]byte, error) {
	type plain ResultAttributeHeaderItem
	return json.Marshal(map[string]plain{keyAttributeHeaderItem: plain(h)})
}

// MarshalJSON wraps the descriptor under its wire key.
func (h MeasureDescriptor) MarshalJSON() ([]byte, error) {
	type plain MeasureDescriptor
	return json.Marshal(map[string]plain{keyMeasureHeaderItem: plain(h)})
}

// MarshalJSON wraps the descriptor under its wire key.
func (h TotalDescriptor) MarshalJSON() ([]byte, error) {
	type plain TotalDescriptor
	return json.Marshal(map[string]plain{keyTotalHeaderItem: plain(h)})
}

// MarshalJSON wraps the descriptor under its wire key.
func (h ColorDescriptor) MarshalJSON() ([]byte, error) {
	type plain ColorDescriptor
	return json.Marshal(map[string]plain{keyColorHeaderItem: plain(h)})
}

// MarshalJSON emits both the item and the attribute descriptor keys, the
// shape drill payload consumers expect for an attribute value.
func (h AttributeValueHeader) MarshalJSON() ([]byte, error) {
	type plainItem ResultAttributeHeaderItem
	type plainAttr AttributeDescriptor
	return json.Marshal(struct {
		Item      plainItem `json:"attributeHeaderItem"`
		Attribute plainAttr `json:"attributeHeader"`
	}{plainItem(h.Item), plainAttr(h.Attribute)})
}

// MarshalHeader encodes h in its wrapped wire form.
func MarshalHeader(h MappingHeader) ([]byte, error) {
	if Kind(h) == KindUnknown {
		return nil, newHeaderError(ErrCodeUnknownHeaderKind, h, fmt.Sprintf("cannot marshal %T", h))
	}
	return json.Marshal(h)
}

// UnmarshalHeader decodes a wrapped header. Exactly one wire key must be
// present, or the attributeHeaderItem/attributeHeader pair. A wire key
// whose body is null does not name a header.
func UnmarshalHeader(data []byte) (MappingHeader, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("mapping header: %w", err)
	}
	for _, key := range sortedRawKeys(raw) {
		if bytes.Equal(bytes.TrimSpace(raw[key]), []byte("null")) {
			return nil, &HeaderError{
				Code:    ErrCodeUnknownHeaderKind,
				Message: fmt.Sprintf("header key %q has a null body", key),
			}
		}
	}

	if len(raw) == 2 && raw[keyAttributeHeader] != nil && raw[keyAttributeHeaderItem] != nil {
		var v AttributeValueHeader
		if err := json.Unmarshal(raw[keyAttributeHeaderItem], &v.Item); err != nil {
			return nil, fmt.Errorf("%s: %w", keyAttributeHeaderItem, err)
		}
		if err := json.Unmarshal(raw[keyAttributeHeader], &v.Attribute); err != nil {
			return nil, fmt.Errorf("%s: %w", keyAttributeHeader, err)
		}
		return v, nil
	}

	if len(raw) != 1 {
		return nil, &HeaderError{
			Code:    ErrCodeUnknownHeaderKind,
			Message: fmt.Sprintf("expected exactly one header key, got [%s]", strings.Join(sortedRawKeys(raw), ", ")),
		}
	}

	for key, body := range raw {
		switch key {
		case keyAttributeHeader:
			var v AttributeDescriptor
			if err := decodeHeaderBody(key, body, &v); err != nil {
				return nil, err
			}
			return v, nil
		case keyAttributeHeaderItem:
			var v ResultAttributeHeaderItem
			if err := decodeHeaderBody(key, body, &v); err != nil {
				return nil, err
			}
			return v, nil
		case keyMeasureHeaderItem:
			var v MeasureDescriptor
			if err := decodeHeaderBody(key, body, &v); err != nil {
				return nil, err
			}
			return v, nil
		case keyTotalHeaderItem:
			var v TotalDescriptor
			if err := decodeHeaderBody(key, body, &v); err != nil {
				return nil, err
			}
			return v, nil
		case keyColorHeaderItem:
			var v ColorDescriptor
			if err := decodeHeaderBody(key, body, &v); err != nil {
				return nil, err
			}
			return v, nil
		default:
			return nil, &HeaderError{
				Code:    ErrCodeUnknownHeaderKind,
				Message: fmt.Sprintf("unknown header key %q", key),
			}
		}
	}
	// unreachable: len(raw) == 1
	return nil, nil
}

// UnmarshalHeaders decodes a JSON array of wrapped headers.
func UnmarshalHeaders(data []byte) ([]MappingHeader, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("mapping headers: %w", err)
	}
	headers := make([]MappingHeader, 0, len(raws))
	for i, r := range raws {
		h, err := UnmarshalHeader(r)
		if err != nil {
			return nil, fmt.Errorf("headers[%d]: %w", i, err)
		}
		headers = append(headers, h)
	}
	return headers, nil
}

func decodeHeaderBody(key string, body json.RawMessage, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func sortedRawKeys(raw map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
