package model

import (
	"encoding/json"
	"fmt"
)

// ObjRef is a sealed reference to a metadata object.
// Only URIRef, IdentifierRef and LocalIDRef implement it.
type ObjRef interface {
	objRef()
}

// URIRef references an object by its uri.
type URIRef struct {
	URI string `json:"uri"`
}

func (URIRef) objRef() {}

// IdentifierRef references an object by its stable identifier. The
// identifier may be composite ("<workspace>:<identifier>").
type IdentifierRef struct {
	Identifier string `json:"identifier"`
	Type       string `json:"type,omitempty"`
}

func (IdentifierRef) objRef() {}

// LocalIDRef references an object defined in the same execution by its
// local identifier.
type LocalIDRef struct {
	LocalIdentifier string `json:"localIdentifier"`
}

func (LocalIDRef) objRef() {}

// IsIdentifierRef reports whether ref is identifier-shaped.
func IsIdentifierRef(ref ObjRef) bool {
	_, ok := ref.(IdentifierRef)
	return ok
}

// MarshalObjRef encodes ref in its wire form.
func MarshalObjRef(ref ObjRef) ([]byte, error) {
	switch r := ref.(type) {
	case URIRef, IdentifierRef, LocalIDRef:
		return json.Marshal(r)
	case nil:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("unknown ObjRef type: %T", ref)
	}
}

// UnmarshalObjRef decodes an ObjRef, dispatching on which key is present.
// A JSON null decodes to a nil ObjRef.
func UnmarshalObjRef(data []byte) (ObjRef, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ObjRef: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	switch {
	case raw["uri"] != nil:
		var r URIRef
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("ObjRef uri: %w", err)
		}
		return r, nil
	case raw["identifier"] != nil:
		var r IdentifierRef
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("ObjRef identifier: %w", err)
		}
		return r, nil
	case raw["localIdentifier"] != nil:
		var r LocalIDRef
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("ObjRef localIdentifier: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("ObjRef: expected one of uri, identifier, localIdentifier")
	}
}
