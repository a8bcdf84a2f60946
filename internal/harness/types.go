package harness

// Trace event kinds.
const (
	KindCheck        = "check"
	KindIntersection = "intersection"
	KindDrill        = "drill"
	KindGrouping     = "grouping"
)

// TraceEvent is one observed outcome of a scenario. Which fields are set
// depends on Kind.
type TraceEvent struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Seq  int64  `json:"seq"`

	// check
	Header    string `json:"header,omitempty"`
	Drillable *bool  `json:"drillable,omitempty"`

	// intersection
	Elements []string `json:"elements,omitempty"`

	// drill
	EventID    string `json:"event_id,omitempty"`
	Element    string `json:"element,omitempty"`
	Suppressed *bool  `json:"suppressed,omitempty"`

	// grouping
	Repeated   map[string][]bool `json:"repeated,omitempty"`
	Boundaries []bool            `json:"boundaries,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation and assertion holds.
	Pass bool `json:"pass"`

	// Trace contains every observed outcome in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
