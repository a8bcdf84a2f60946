package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/roach88/drillkit/internal/execution"
	"github.com/roach88/drillkit/internal/model"
)

// Scenario defines a drill conformance scenario.
// A scenario loads an execution facade and a drill configuration, then
// exercises drillability checks, intersections, chart clicks and row
// grouping, asserting on the resulting trace.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Facade is the path of the execution facade document.
	// Relative paths are resolved against the scenario file location.
	Facade string `yaml:"facade"`

	// Config is a CUE drill config directory. Mutually exclusive with Items.
	Config string `yaml:"config,omitempty"`

	// Items are inline drill items, in the same shapes as the CUE config.
	Items []map[string]any `yaml:"items,omitempty"`

	// Workspace overrides the workspace of the facade and config.
	Workspace string `yaml:"workspace,omitempty"`

	// Session is the fixed journal session for deterministic golden files.
	// If empty, defaults to "test-session-default".
	Session string `yaml:"session,omitempty"`

	Checks        []Check            `yaml:"checks,omitempty"`
	Intersections []IntersectionCase `yaml:"intersections,omitempty"`
	Clicks        []Click            `yaml:"clicks,omitempty"`
	Grouping      *GroupingCase      `yaml:"grouping,omitempty"`

	// Assertions validate the final trace and journal.
	// Supported types: trace_contains, trace_order, trace_count, journal
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Check asks whether one header is drillable.
type Check struct {
	Name   string    `yaml:"name"`
	Header HeaderRef `yaml:"header"`

	// Drillable is the expected answer. If nil, the answer is only traced.
	Drillable *bool `yaml:"drillable,omitempty"`
}

// IntersectionCase builds an intersection from a header path.
type IntersectionCase struct {
	Name    string      `yaml:"name"`
	Headers []HeaderRef `yaml:"headers"`

	// From slices the intersection from this attribute local identifier.
	From string `yaml:"from,omitempty"`

	// Expect lists the expected element local identifiers (or kinds, for
	// elements without one). If nil, the elements are only traced.
	Expect []string `yaml:"expect,omitempty"`
}

// Click fires a chart point click.
type Click struct {
	Name    string      `yaml:"name"`
	Vis     string      `yaml:"vis"`
	Headers []HeaderRef `yaml:"headers"`
	X       float64     `yaml:"x"`
	Y       float64     `yaml:"y"`

	// Suppress makes the host callback suppress the generic dispatch.
	Suppress bool `yaml:"suppress,omitempty"`
}

// GroupingCase feeds result pages to a grouping engine.
type GroupingCase struct {
	Columns []string       `yaml:"columns"`
	Pages   []Page         `yaml:"pages"`
	Expect  *GroupingCheck `yaml:"expect,omitempty"`
}

// Page is one loaded page of rows. A null row is a row that is not loaded.
type Page struct {
	Offset int                        `yaml:"offset"`
	Rows   []map[string]AttributeItem `yaml:"rows"`
}

// AttributeItem is one attribute value cell.
type AttributeItem struct {
	URI  string `yaml:"uri"`
	Name string `yaml:"name"`
}

// GroupingCheck is the expected grouping state after every page is loaded.
type GroupingCheck struct {
	Repeated   map[string][]bool `yaml:"repeated,omitempty"`
	Boundaries []bool            `yaml:"boundaries,omitempty"`
}

// Assertion validates the trace or the journal.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an event of Kind with Name appears in the trace
	// - "trace_order": the Names appear in this order
	// - "trace_count": Kind appears exactly Count times
	// - "journal": the journaled elements equal Elements (and Suppressed)
	Type string `yaml:"type"`

	Kind       string   `yaml:"kind,omitempty"`
	Name       string   `yaml:"name,omitempty"`
	Names      []string `yaml:"names,omitempty"`
	Count      int      `yaml:"count,omitempty"`
	Elements   []string `yaml:"elements,omitempty"`
	Suppressed []bool   `yaml:"suppressed,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertJournal       = "journal"
)

// HeaderRef is a header given inline in its wire form, or a local
// identifier resolved against the facade headers.
type HeaderRef struct {
	LocalID string
	Header  model.MappingHeader
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *HeaderRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var id string
		if err := node.Decode(&id); err != nil {
			return err
		}
		*h = HeaderRef{LocalID: id}
		return nil
	}

	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("line %d: header: %w", node.Line, err)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("line %d: header: %w", node.Line, err)
	}
	header, err := model.UnmarshalHeader(data)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*h = HeaderRef{Header: header}
	return nil
}

func (h HeaderRef) isZero() bool {
	return h.LocalID == "" && h.Header == nil
}

// resolve returns the inline header, or the facade header whose local
// identifier is LocalID.
func (h HeaderRef) resolve(f *execution.Facade) (model.MappingHeader, error) {
	if h.Header != nil {
		return h.Header, nil
	}
	for _, header := range f.Headers() {
		if id, err := model.LocalIdentifier(header); err == nil && id == h.LocalID {
			return header, nil
		}
	}
	return nil, fmt.Errorf("no facade header with local identifier %q", h.LocalID)
}

func resolveAll(refs []HeaderRef, f *execution.Facade) ([]model.MappingHeader, error) {
	headers := make([]model.MappingHeader, len(refs))
	for i, ref := range refs {
		h, err := ref.resolve(f)
		if err != nil {
			return nil, fmt.Errorf("headers[%d]: %w", i, err)
		}
		headers[i] = h
	}
	return headers, nil
}

// LoadScenario reads and parses a scenario YAML file, resolving the facade
// and config paths relative to the file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	if scenario.Facade != "" && !filepath.IsAbs(scenario.Facade) {
		scenario.Facade = filepath.Join(base, scenario.Facade)
	}
	if scenario.Config != "" && !filepath.IsAbs(scenario.Config) {
		scenario.Config = filepath.Join(base, scenario.Config)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML without resolving or validating paths.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the *.yaml files directly under dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Facade == "" {
		return fmt.Errorf("facade is required")
	}
	if _, err := os.Stat(s.Facade); os.IsNotExist(err) {
		return fmt.Errorf("facade file not found: %s", s.Facade)
	}
	if s.Config != "" && len(s.Items) > 0 {
		return fmt.Errorf("config and items are mutually exclusive")
	}
	if len(s.Checks) == 0 && len(s.Intersections) == 0 && len(s.Clicks) == 0 && s.Grouping == nil {
		return fmt.Errorf("at least one of checks, intersections, clicks, grouping is required")
	}

	for i, c := range s.Checks {
		if c.Name == "" {
			return fmt.Errorf("checks[%d]: name is required", i)
		}
		if c.Header.isZero() {
			return fmt.Errorf("checks[%d]: header is required", i)
		}
	}
	for i, ic := range s.Intersections {
		if ic.Name == "" {
			return fmt.Errorf("intersections[%d]: name is required", i)
		}
		if len(ic.Headers) == 0 {
			return fmt.Errorf("intersections[%d]: headers is required", i)
		}
	}
	for i, c := range s.Clicks {
		if c.Name == "" {
			return fmt.Errorf("clicks[%d]: name is required", i)
		}
		if c.Vis == "" {
			return fmt.Errorf("clicks[%d]: vis is required", i)
		}
	}
	if g := s.Grouping; g != nil {
		if len(g.Columns) == 0 {
			return fmt.Errorf("grouping: columns is required")
		}
		if len(g.Pages) == 0 {
			return fmt.Errorf("grouping: pages is required")
		}
		for i, p := range g.Pages {
			if p.Offset < 0 {
				return fmt.Errorf("grouping.pages[%d]: offset must be non-negative", i)
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceContains:
		if a.Kind == "" || a.Name == "" {
			return fmt.Errorf("assertions[%d]: kind and name are required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Names) == 0 {
			return fmt.Errorf("assertions[%d]: names list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertJournal:
		if a.Elements == nil {
			return fmt.Errorf("assertions[%d]: elements is required for journal", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
