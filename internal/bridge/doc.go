// Package bridge connects drill events to an embedding host application.
//
// Outbound, every drill event is posted as a message envelope
//
//	{"gdc": {"product": "...", "event": {"name": "drill", "data": {...}, "contextId": "..."}}}
//
// written to an io.Writer with a Codec (newline-delimited JSON or
// MessagePack). Inbound, the host may send a "drillableItems" command whose
// uris, identifiers and composedFrom lists become drill specs; commands that
// cannot be processed are answered with an "appCommandFailed" envelope.
//
// Bridge.Callback plugs into drill.FireDrillEvent. Once a message is posted
// the generic dispatch is suppressed unless WithDispatch(true) is given.
package bridge
