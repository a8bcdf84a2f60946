package drill

import (
	"io"
	"log/slog"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// EventType is the type of every custom event dispatched by this package.
const EventType = "drill"

// DataViewRef identifies the result a drill event originates from.
type DataViewRef struct {
	Workspace   string `json:"workspace"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// DrillPoint is one point of a label (group) click.
type DrillPoint struct {
	X            float64               `json:"x"`
	Y            *float64              `json:"y"`
	Intersection []IntersectionElement `json:"intersection"`
	Type         string                `json:"type,omitempty"`
}

// DrillContext describes what was clicked. Which fields are set depends on
// the visualization type and the click kind.
type DrillContext struct {
	Type             string                `json:"type"`
	Element          string                `json:"element"`
	ElementChartType string                `json:"elementChartType,omitempty"`
	X                *float64              `json:"x,omitempty"`
	Y                *float64              `json:"y,omitempty"`
	Z                *float64              `json:"z,omitempty"`
	Value            *string               `json:"value,omitempty"`
	Intersection     []IntersectionElement `json:"intersection,omitempty"`
	Points           []DrillPoint          `json:"points,omitempty"`
	ColumnIndex      *int                  `json:"columnIndex,omitempty"`
	RowIndex         *int                  `json:"rowIndex,omitempty"`
	Row              []string              `json:"row,omitempty"`
}

// DrillEvent is the payload of a drill. ChartX and ChartY are the click
// coordinates within the chart when known.
type DrillEvent struct {
	DataView     DataViewRef  `json:"dataView"`
	DrillContext DrillContext `json:"drillContext"`
	ChartX       *float64     `json:"chartX,omitempty"`
	ChartY       *float64     `json:"chartY,omitempty"`
}

// CustomEvent is the generic event dispatched after the host callback.
type CustomEvent struct {
	Type    string
	Bubbles bool
	Detail  DrillEvent
}

// NewCustomEvent wraps ev in a bubbling "drill" event.
func NewCustomEvent(ev DrillEvent) CustomEvent {
	return CustomEvent{Type: EventType, Bubbles: true, Detail: ev}
}

// EventTarget receives dispatched drill events. DispatchEvent reports
// whether the event was accepted.
type EventTarget interface {
	DispatchEvent(CustomEvent) bool
}

// EventTargetFunc adapts a function to EventTarget.
type EventTargetFunc func(CustomEvent) bool

// DispatchEvent implements EventTarget.
func (f EventTargetFunc) DispatchEvent(ev CustomEvent) bool { return f(ev) }

// Callback is a host drill callback. Returning a pointer to false suppresses
// the generic dispatch; nil or true lets it proceed.
type Callback func(DrillEvent) *bool

// Proceed is the callback result that lets the generic dispatch happen.
func Proceed() *bool {
	v := true
	return &v
}

// Suppress is the callback result that stops the generic dispatch.
func Suppress() *bool {
	v := false
	return &v
}

// FireDrillEvent calls cb with ev and then dispatches ev on target unless
// cb explicitly returned false. It reports whether the event was dispatched.
func FireDrillEvent(cb Callback, ev DrillEvent, target EventTarget) bool {
	return fireDrillEvent(cb, ev, target, discardLogger)
}

func fireDrillEvent(cb Callback, ev DrillEvent, target EventTarget, logger *slog.Logger) bool {
	if cb != nil {
		if result := cb(ev); result != nil && !*result {
			logger.Debug("drill dispatch suppressed by callback",
				"type", ev.DrillContext.Type,
				"element", ev.DrillContext.Element)
			return false
		}
	}
	if target == nil {
		return false
	}
	target.DispatchEvent(NewCustomEvent(ev))
	return true
}
