package bridge

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Products the bridge can post for.
const (
	ProductAnalyticalDesigner = "analyticalDesigner"
	ProductDashboard          = "dashboard"
)

// Event and command names.
const (
	EventDrill            = "drill"
	EventAppCommandFailed = "appCommandFailed"
	CommandDrillableItems = "drillableItems"
)

// Event is the named payload of a message.
type Event struct {
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data,omitempty"`
	ContextID string          `json:"contextId,omitempty"`
}

// Message is the body of an envelope.
type Message struct {
	Product string `json:"product"`
	Event   Event  `json:"event"`
}

// Envelope is one message exchanged with the host.
type Envelope struct {
	GDC Message `json:"gdc"`
}

// EventName returns the event name of env, "" if it has none.
func EventName(env Envelope) string {
	return env.GDC.Event.Name
}

// NewEnvelope wraps data, encoded as JSON, into an envelope.
func NewEnvelope(product, name, contextID string, data any) (Envelope, error) {
	env := Envelope{GDC: Message{
		Product: product,
		Event:   Event{Name: name, ContextID: contextID},
	}}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Envelope{}, fmt.Errorf("envelope %s: %w", name, err)
		}
		env.GDC.Event.Data = raw
	}
	return env, nil
}
