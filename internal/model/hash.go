package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainDrillEvent   = "drillkit/drill_event/v1"
	DomainIntersection = "drillkit/intersection/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DrillEventID computes the content-addressed ID of a dispatched drill
// event payload within a session. The same payload at the same position
// always yields the same ID.
func DrillEventID(session string, seq int64, payload any) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"session": session,
		"seq":     seq,
		"payload": payload,
	})
	if err != nil {
		return "", fmt.Errorf("DrillEventID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDrillEvent, canonical), nil
}

// IntersectionHash fingerprints an intersection. Used by the harness to
// compare intersections independently of formatting.
func IntersectionHash(intersection any) (string, error) {
	canonical, err := MarshalCanonical(intersection)
	if err != nil {
		return "", fmt.Errorf("IntersectionHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainIntersection, canonical), nil
}

// MustDrillEventID is like DrillEventID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDrillEventID(session string, seq int64, payload any) string {
	id, err := DrillEventID(session, seq, payload)
	if err != nil {
		panic(err)
	}
	return id
}
