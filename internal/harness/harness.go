package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/drillkit/internal/drill"
	"github.com/roach88/drillkit/internal/drillconfig"
	"github.com/roach88/drillkit/internal/execution"
	"github.com/roach88/drillkit/internal/grouping"
	"github.com/roach88/drillkit/internal/journal"
	"github.com/roach88/drillkit/internal/model"
	"github.com/roach88/drillkit/internal/predicate"
	"github.com/roach88/drillkit/internal/testutil"
)

// Harness is the scenario execution engine.
// It runs scenarios with a deterministic clock and a fixed journal session.
type Harness struct {
	journal  *journal.Journal
	recorder *journal.Recorder
	facade   *execution.Facade
	preds    []predicate.HeaderPredicate
	pctx     predicate.Context
	clock    *testutil.ScenarioClock
	groups   grouping.Provider
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory journal for isolation.
//
// Execution flow:
// 1. Load the facade and compile the drill items
// 2. Run checks, intersections, clicks and grouping, in that order
// 3. Evaluate assertions against the trace and journal
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	facade, err := execution.Load(scenario.Facade)
	if err != nil {
		return nil, fmt.Errorf("failed to load facade: %w", err)
	}
	cfg, err := loadConfig(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load drill config: %w", err)
	}
	preds, err := drill.ConvertSpecsToPredicates(cfg.Specs())
	if err != nil {
		return nil, fmt.Errorf("failed to convert drill items: %w", err)
	}

	workspace := facade.Workspace()
	if cfg.Workspace != "" {
		workspace = cfg.Workspace
	}
	if scenario.Workspace != "" {
		workspace = scenario.Workspace
	}

	j, err := journal.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer j.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // scenario runs are quiet
	clock := testutil.NewScenarioClock()
	recorder, err := j.NewRecorder(ctx,
		journal.WithSessionGenerator(testutil.NewFixedSessionGenerator(scenario.Session)),
		journal.WithClock(clock),
		journal.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to start journal session: %w", err)
	}

	h := &Harness{
		journal:  j,
		recorder: recorder,
		facade:   facade,
		preds:    preds,
		pctx:     predicate.Context{Facade: facade, Workspace: workspace},
		clock:    clock,
		groups:   cfg.GroupingProvider(),
		logger:   logger,
	}

	result := NewResult()
	if err := h.runChecks(scenario.Checks, result); err != nil {
		return nil, fmt.Errorf("failed to run checks: %w", err)
	}
	if err := h.runIntersections(scenario.Intersections, result); err != nil {
		return nil, fmt.Errorf("failed to run intersections: %w", err)
	}
	if err := h.runClicks(ctx, scenario.Clicks, result); err != nil {
		return nil, fmt.Errorf("failed to run clicks: %w", err)
	}
	if scenario.Grouping != nil {
		h.runGrouping(*scenario.Grouping, result)
	}

	actx := &AssertionContext{
		Journal: j,
		Session: recorder.Session(),
		Ctx:     ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}
	return result, nil
}

func loadConfig(s *Scenario) (*drillconfig.Config, error) {
	if s.Config != "" {
		res, err := drillconfig.LoadDir(s.Config)
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}
	items := make([]any, len(s.Items))
	for i, item := range s.Items {
		items[i] = item
	}
	return drillconfig.CompileData(map[string]any{"items": items})
}

// runChecks evaluates every check against the compiled drill items.
func (h *Harness) runChecks(checks []Check, result *Result) error {
	for i, c := range checks {
		header, err := c.Header.resolve(h.facade)
		if err != nil {
			return fmt.Errorf("check %d: %w", i, err)
		}
		drillable := drill.IsAnyPredicateMatched(h.preds, header, h.pctx)

		result.AddTrace(TraceEvent{
			Kind:      KindCheck,
			Name:      c.Name,
			Seq:       h.clock.Next(),
			Header:    DescribeHeader(header),
			Drillable: &drillable,
		})
		if c.Drillable != nil && *c.Drillable != drillable {
			result.AddError(fmt.Sprintf("check %q: drillable = %t, expected %t", c.Name, drillable, *c.Drillable))
		}

		h.logger.Info("check evaluated",
			"check", c.Name,
			"header", DescribeHeader(header),
			"drillable", drillable,
		)
	}
	return nil
}

// runIntersections builds and optionally slices every intersection.
func (h *Harness) runIntersections(cases []IntersectionCase, result *Result) error {
	for i, ic := range cases {
		headers, err := resolveAll(ic.Headers, h.facade)
		if err != nil {
			return fmt.Errorf("intersection %d: %w", i, err)
		}
		intersection := drill.BuildIntersection(headers)
		if ic.From != "" {
			intersection = drill.SliceIntersectionFrom(intersection, ic.From)
		}

		elements := make([]string, len(intersection))
		for j, el := range intersection {
			elements[j] = elementLabel(el.Header)
		}
		result.AddTrace(TraceEvent{
			Kind:     KindIntersection,
			Name:     ic.Name,
			Seq:      h.clock.Next(),
			Elements: elements,
		})
		if ic.Expect != nil && !slices.Equal(ic.Expect, elements) {
			result.AddError(fmt.Sprintf("intersection %q: elements = %v, expected %v", ic.Name, elements, ic.Expect))
		}
	}
	return nil
}

// runClicks fires every click through the drill dispatcher. The journal
// recorder is the event target, and also records suppressed events.
func (h *Harness) runClicks(ctx context.Context, clicks []Click, result *Result) error {
	for i, c := range clicks {
		headers, err := resolveAll(c.Headers, h.facade)
		if err != nil {
			return fmt.Errorf("click %d: %w", i, err)
		}

		var onDrill drill.Callback
		if c.Suppress {
			onDrill = func(drill.DrillEvent) *bool { return drill.Suppress() }
		}
		cfg := drill.DrillConfig{
			DataView: drill.DataViewRef{Workspace: h.pctx.Workspace},
			OnDrill:  h.recorder.Intercept(onDrill),
			Logger:   h.logger,
		}
		point := drill.ChartPoint{X: c.X, Y: c.Y, Intersection: drill.BuildIntersection(headers)}

		before, err := h.journal.ReadSession(ctx, h.recorder.Session())
		if err != nil {
			return fmt.Errorf("click %d: %w", i, err)
		}
		if _, err := drill.ChartClick(cfg, drill.ChartClickEvent{Point: &point}, h.recorder, c.Vis); err != nil {
			result.AddError(fmt.Sprintf("click %q: %v", c.Name, err))
			continue
		}
		if err := h.recorder.Err(); err != nil {
			return fmt.Errorf("click %d: %w", i, err)
		}

		after, err := h.journal.ReadSession(ctx, h.recorder.Session())
		if err != nil {
			return fmt.Errorf("click %d: %w", i, err)
		}
		for _, entry := range after[len(before):] {
			suppressed := entry.Suppressed
			result.AddTrace(TraceEvent{
				Kind:       KindDrill,
				Name:       c.Name,
				Seq:        entry.Seq,
				EventID:    entry.ID,
				Element:    entry.Element,
				Suppressed: &suppressed,
			})
		}
	}
	return nil
}

// runGrouping loads every page into the configured grouping provider and
// traces the final grouping state.
func (h *Harness) runGrouping(g GroupingCase, result *Result) {
	h.groups.Reset()
	rows := 0
	for _, page := range g.Pages {
		h.groups.ProcessPage(toRows(page.Rows), page.Offset, g.Columns)
		rows = max(rows, page.Offset+len(page.Rows))
	}

	repeated := make(map[string][]bool, len(g.Columns))
	boundaries := make([]bool, rows)
	for _, col := range g.Columns {
		repeated[col] = make([]bool, rows)
	}
	for row := 0; row < rows; row++ {
		for _, col := range g.Columns {
			repeated[col][row] = h.groups.IsRepeated(col, row)
		}
		boundaries[row] = h.groups.IsGroupBoundary(row)
	}

	result.AddTrace(TraceEvent{
		Kind:       KindGrouping,
		Name:       "grouping",
		Seq:        h.clock.Next(),
		Repeated:   repeated,
		Boundaries: boundaries,
	})

	if g.Expect == nil {
		return
	}
	for col, want := range g.Expect.Repeated {
		got, ok := repeated[col]
		if !ok {
			result.AddError(fmt.Sprintf("grouping: column %q is not grouped", col))
			continue
		}
		if !slices.Equal(want, got) {
			result.AddError(fmt.Sprintf("grouping: repeated[%s] = %v, expected %v", col, got, want))
		}
	}
	if g.Expect.Boundaries != nil && !slices.Equal(g.Expect.Boundaries, boundaries) {
		result.AddError(fmt.Sprintf("grouping: boundaries = %v, expected %v", boundaries, g.Expect.Boundaries))
	}
}

func toRows(rows []map[string]AttributeItem) []grouping.Row {
	out := make([]grouping.Row, len(rows))
	for i, r := range rows {
		if r == nil {
			continue
		}
		row := make(grouping.Row, len(r))
		for col, item := range r {
			row[col] = model.ResultAttributeHeaderItem{URI: item.URI, Name: item.Name}
		}
		out[i] = row
	}
	return out
}

// DescribeHeader renders h as "<kind>:<local identifier>", falling back to
// the uri and then the name for headers without a local identifier.
func DescribeHeader(h model.MappingHeader) string {
	kind := string(model.Kind(h))
	if id, err := model.LocalIdentifier(h); err == nil && id != "" {
		return kind + ":" + id
	}
	if uri := model.URI(h); uri != "" {
		return kind + ":" + uri
	}
	return kind + ":" + model.Name(h)
}

// elementLabel is the local identifier of an intersection element, or its
// kind when it has none.
func elementLabel(h model.MappingHeader) string {
	if id, err := model.LocalIdentifier(h); err == nil && id != "" {
		return id
	}
	return string(model.Kind(h))
}
