package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drillkit/internal/journal"
	"github.com/roach88/drillkit/internal/model"
)

const (
	drillabilityScenario = "testdata/scenarios/drillability.yaml"
	clicksScenario       = "testdata/scenarios/clicks.yaml"
	testFacade           = "testdata/facade.json"
)

func boolPtr(b bool) *bool { return &b }

func TestRun_Drillability(t *testing.T) {
	scenario, err := LoadScenario(drillabilityScenario)
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Trace, 9)
	assert.Equal(t, KindCheck, result.Trace[0].Kind)
	assert.Equal(t, KindIntersection, result.Trace[6].Kind)
	assert.Equal(t, KindGrouping, result.Trace[8].Kind)
}

func TestRun_ClicksAreJournaled(t *testing.T) {
	scenario, err := LoadScenario(clicksScenario)
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	var drills []TraceEvent
	for _, ev := range result.Trace {
		if ev.Kind == KindDrill {
			drills = append(drills, ev)
		}
	}
	require.Len(t, drills, 3)

	// The check takes seq 1; drill events share the harness clock.
	assert.Equal(t, []int64{2, 3, 4}, []int64{drills[0].Seq, drills[1].Seq, drills[2].Seq})
	assert.Equal(t, "bar", drills[0].Element)
	assert.Equal(t, boolPtr(true), drills[1].Suppressed)
	for _, d := range drills {
		assert.Len(t, d.EventID, 64)
	}
}

func TestRun_ClickIDsAreDeterministic(t *testing.T) {
	scenario, err := LoadScenario(clicksScenario)
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
}

func TestRun_FailedExpectations(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "every expectation is wrong",
		Facade:      testFacade,
		Items:       []map[string]any{{"uri": "/gdc/md/ws1/obj/1"}},
		Checks: []Check{
			{Name: "m1", Header: HeaderRef{LocalID: "m1"}, Drillable: boolPtr(false)},
		},
		Intersections: []IntersectionCase{
			{Name: "m2 alone", Headers: []HeaderRef{{LocalID: "m2"}}, Expect: []string{"m1"}},
		},
		Grouping: &GroupingCase{
			Columns: []string{"a1"},
			Pages: []Page{{Rows: []map[string]AttributeItem{
				{"a1": {URI: "/x"}},
				{"a1": {URI: "/x"}},
			}}},
			Expect: &GroupingCheck{
				Repeated:   map[string][]bool{"a1": {false, false}, "a9": {false}},
				Boundaries: []bool{false, false},
			},
		},
		Assertions: []Assertion{
			{Type: AssertTraceCount, Kind: KindCheck, Count: 2},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 6)
	assert.Contains(t, result.Errors[0], `check "m1": drillable = true, expected false`)
	assert.Contains(t, result.Errors[1], `intersection "m2 alone"`)
}

func TestRun_UnknownVisTypeIsReported(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad click",
		Description: "unknown chart type",
		Facade:      testFacade,
		Clicks:      []Click{{Name: "radar", Vis: "radar", Headers: []HeaderRef{{LocalID: "m1"}}}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `click "radar"`)
}

func TestRun_SetupErrors(t *testing.T) {
	tests := []struct {
		name     string
		scenario Scenario
	}{
		{"missing facade", Scenario{Facade: "testdata/nope.json"}},
		{"bad config dir", Scenario{Facade: testFacade, Config: "testdata/nope"}},
		{"bad inline item", Scenario{Facade: testFacade, Items: []map[string]any{{"uri": 1}}}},
		{"unknown header", Scenario{Facade: testFacade, Checks: []Check{{Name: "x", Header: HeaderRef{LocalID: "nope"}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(&tt.scenario)
			assert.Error(t, err)
		})
	}
}

func TestRun_WorkspaceOverride(t *testing.T) {
	scenario := &Scenario{
		Name:        "workspace",
		Description: "composite identifiers follow the scenario workspace",
		Facade:      testFacade,
		Workspace:   "ws2",
		Items:       []map[string]any{{"identifier": "ws1:label.region"}},
		Checks: []Check{
			{Name: "a1", Header: HeaderRef{LocalID: "a1"}, Drillable: boolPtr(false)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestDescribeHeader(t *testing.T) {
	tests := []struct {
		name   string
		header model.MappingHeader
		want   string
	}{
		{"measure", model.MeasureDescriptor{LocalIdentifier: "m1"}, "measureHeaderItem:m1"},
		{"item by uri", model.ResultAttributeHeaderItem{URI: "/u", Name: "n"}, "attributeHeaderItem:/u"},
		{"total by name", model.TotalDescriptor{Name: "sum"}, "totalHeaderItem:sum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeHeader(tt.header))
		})
	}
}

func TestAssertJournal(t *testing.T) {
	ctx := context.Background()
	j, err := journal.Open(":memory:")
	require.NoError(t, err)
	defer j.Close()

	actx := &AssertionContext{Journal: j, Session: "s", Ctx: ctx}
	errs := EvaluateAssertions(NewResult(), []Assertion{
		{Type: AssertJournal, Elements: []string{}},
		{Type: AssertJournal, Elements: []string{"bar"}},
	}, actx)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "elements [bar]")

	errs = EvaluateAssertions(NewResult(), []Assertion{{Type: AssertJournal, Elements: []string{}}}, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "requires journal context")
}

func TestRun_GroupingFollowsConfig(t *testing.T) {
	groupingCase := &GroupingCase{
		Columns: []string{"a1"},
		Pages: []Page{{Rows: []map[string]AttributeItem{
			{"a1": {URI: "/x"}},
			{"a1": {URI: "/x"}},
			{"a1": {URI: "/y"}},
		}}},
	}

	tests := []struct {
		name           string
		cue            string
		wantRepeated   []bool
		wantBoundaries []bool
	}{
		{
			name:           "grouping by default",
			cue:            "package config\ndrill: items: [{uri: \"/gdc/md/ws1/obj/1\"}]\n",
			wantRepeated:   []bool{false, true, false},
			wantBoundaries: []bool{false, true, true},
		},
		{
			name:           "grouping disabled",
			cue:            "package config\ndrill: {grouping: false, items: [{uri: \"/gdc/md/ws1/obj/1\"}]}\n",
			wantRepeated:   []bool{false, false, false},
			wantBoundaries: []bool{false, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "drill.cue"), []byte(tt.cue), 0644))

			result, err := Run(&Scenario{
				Name:        tt.name,
				Description: "row grouping strategy from config",
				Facade:      testFacade,
				Config:      dir,
				Grouping:    groupingCase,
			})
			require.NoError(t, err)
			require.True(t, result.Pass, "errors: %v", result.Errors)
			require.Len(t, result.Trace, 1)
			assert.Equal(t, tt.wantRepeated, result.Trace[0].Repeated["a1"])
			assert.Equal(t, tt.wantBoundaries, result.Trace[0].Boundaries)
		})
	}
}
