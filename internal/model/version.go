package model

// Version constants for the drill event payload schema and the library.
const (
	// PayloadVersion is the drill event payload schema version.
	PayloadVersion = "1"

	// LibraryVersion is the drillkit version.
	LibraryVersion = "0.1.0"
)
