package drill

import (
	"bytes"
	"log/slog"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drillkit/internal/model"
)

func ptr[T any](v T) *T { return &v }

func makeTestIntersection(ids ...string) []IntersectionElement {
	out := make([]IntersectionElement, len(ids))
	for i, id := range ids {
		out[i] = IntersectionElement{Header: model.MeasureDescriptor{
			LocalIdentifier: id,
			URI:             "uri-" + id,
			Identifier:      "identifier-" + id,
			Name:            "title",
		}}
	}
	return out
}

func makeTestPoint() ChartPoint {
	return ChartPoint{X: 1, Y: 2, Value: ptr(678.0), Intersection: makeTestIntersection("id1", "id2", "id3")}
}

func makeTestConfig() DrillConfig {
	return DrillConfig{DataView: DataViewRef{Workspace: "testWorkspace", Fingerprint: "fp"}}
}

func fireChart(t *testing.T, click ChartClickEvent, visType string) DrillEvent {
	t.Helper()
	target := &recordingTarget{}
	dispatched, err := ChartClick(makeTestConfig(), click, target, visType)
	require.NoError(t, err)
	require.True(t, dispatched)
	require.Len(t, target.events, 1)
	return target.events[0].Detail
}

func TestClickableElementName(t *testing.T) {
	tests := map[string]string{
		VisLine:    "point",
		VisColumn:  "bar",
		VisBar:     "bar",
		VisPie:     "slice",
		VisTreemap: "slice",
		VisHeatmap: "cell",
		VisBubble:  "point",
	}
	for vis, want := range tests {
		got, err := ClickableElementName(vis)
		require.NoError(t, err, vis)
		assert.Equal(t, want, got, vis)
	}

	_, err := ClickableElementName("headline")
	require.Error(t, err)
	assert.True(t, IsUnknownVisType(err))
}

func TestChartClickPoint(t *testing.T) {
	p := makeTestPoint()
	ev := fireChart(t, ChartClickEvent{Point: &p}, VisLine)

	assert.Equal(t, makeTestConfig().DataView, ev.DataView)
	assert.Equal(t, DrillContext{
		Type:         VisLine,
		Element:      "point",
		X:            ptr(1.0),
		Y:            ptr(2.0),
		Intersection: p.Intersection,
	}, ev.DrillContext)
}

func TestChartClickEmptyPointsIsPointClick(t *testing.T) {
	p := makeTestPoint()
	ev := fireChart(t, ChartClickEvent{Point: &p, Points: []ChartPoint{}}, VisLine)
	assert.Equal(t, "point", ev.DrillContext.Element)
}

func TestChartClickValueForTreemapAndHeatmap(t *testing.T) {
	p := makeTestPoint()

	ev := fireChart(t, ChartClickEvent{Point: &p}, VisTreemap)
	require.NotNil(t, ev.DrillContext.Value)
	assert.Equal(t, "678", *ev.DrillContext.Value)
	assert.Nil(t, ev.DrillContext.X, "treemap has no coordinates")

	ev = fireChart(t, ChartClickEvent{Point: &p}, VisHeatmap)
	require.NotNil(t, ev.DrillContext.Value)
	assert.Equal(t, "678", *ev.DrillContext.Value)

	p.Value = nil
	ev = fireChart(t, ChartClickEvent{Point: &p}, VisHeatmap)
	require.NotNil(t, ev.DrillContext.Value)
	assert.Equal(t, "", *ev.DrillContext.Value)

	ev = fireChart(t, ChartClickEvent{Point: &p}, VisLine)
	assert.Nil(t, ev.DrillContext.Value)
}

func TestChartClickHeatmapDropsIgnoredPoints(t *testing.T) {
	in := makeTestIntersection("a1")
	points := []ChartPoint{
		{X: 0, Y: 0, Value: ptr(268.8), Intersection: in},
		{X: 0, Y: 1, Intersection: in},
		{X: 0, Y: 1, Intersection: in, IgnoredInDrillEventContext: true},
		{X: 0, Y: 2, Intersection: in},
		{X: 0, Y: 2, Intersection: in, IgnoredInDrillEventContext: true},
		{X: 0, Y: 3, Value: ptr(3644.0), Intersection: in},
	}
	ev := fireChart(t, ChartClickEvent{Points: points}, VisHeatmap)

	assert.Equal(t, []DrillPoint{
		{X: 0, Y: ptr(0.0), Intersection: in},
		{X: 0, Y: ptr(1.0), Intersection: in},
		{X: 0, Y: ptr(2.0), Intersection: in},
		{X: 0, Y: ptr(3.0), Intersection: in},
	}, ev.DrillContext.Points)
}

func TestChartClickZCoordinate(t *testing.T) {
	p := makeTestPoint()
	p.Z = ptr(12000.0)
	ev := fireChart(t, ChartClickEvent{Point: &p}, VisBubble)

	assert.Equal(t, DrillContext{
		Type:         VisBubble,
		Element:      "point",
		X:            ptr(1.0),
		Y:            ptr(2.0),
		Z:            ptr(12000.0),
		Intersection: p.Intersection,
	}, ev.DrillContext)
}

func TestChartClickLabel(t *testing.T) {
	in := makeTestIntersection("id1")
	ev := fireChart(t, ChartClickEvent{Points: []ChartPoint{{X: 1, Y: 2, Intersection: in}}}, VisLine)

	assert.Equal(t, DrillContext{
		Type:    VisLine,
		Element: "label",
		Points:  []DrillPoint{{X: 1, Y: ptr(2.0), Intersection: in}},
	}, ev.DrillContext)
}

func TestChartClickCallback(t *testing.T) {
	p := makeTestPoint()

	t.Run("callback and dispatch", func(t *testing.T) {
		calls := 0
		cfg := makeTestConfig()
		cfg.OnDrill = func(DrillEvent) *bool { calls++; return nil }
		target := &recordingTarget{}

		_, err := ChartClick(cfg, ChartClickEvent{Point: &p}, target, VisLine)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Len(t, target.events, 1)
	})

	t.Run("callback only", func(t *testing.T) {
		cfg := makeTestConfig()
		cfg.OnDrill = func(DrillEvent) *bool { return Suppress() }
		target := &recordingTarget{}

		dispatched, err := ChartClick(cfg, ChartClickEvent{Point: &p}, target, VisLine)
		require.NoError(t, err)
		assert.False(t, dispatched)
		assert.Empty(t, target.events)
	})
}

func TestChartClickCarriesChartCoordinates(t *testing.T) {
	p := makeTestPoint()
	ev := fireChart(t, ChartClickEvent{Point: &p, ChartX: ptr(10.5), ChartY: ptr(20.0)}, VisColumn)
	assert.Equal(t, ptr(10.5), ev.ChartX)
	assert.Equal(t, ptr(20.0), ev.ChartY)
	assert.Equal(t, "bar", ev.DrillContext.Element)
}

func TestChartClickCombo(t *testing.T) {
	column := makeTestPoint()
	column.SeriesType = VisColumn
	line := ChartPoint{X: 2, Y: 3, SeriesType: VisLine, Intersection: makeTestIntersection("id4", "id5")}

	t.Run("label click types each point", func(t *testing.T) {
		ev := fireChart(t, ChartClickEvent{Point: &column, Points: []ChartPoint{column, line}}, VisCombo2)
		assert.Equal(t, DrillContext{
			Type:    VisCombo,
			Element: "label",
			Points: []DrillPoint{
				{X: 1, Y: ptr(2.0), Intersection: column.Intersection, Type: VisColumn},
				{X: 2, Y: ptr(3.0), Intersection: line.Intersection, Type: VisLine},
			},
		}, ev.DrillContext)
	})

	t.Run("point click carries element chart type", func(t *testing.T) {
		ev := fireChart(t, ChartClickEvent{Point: &line}, VisCombo2)
		assert.Equal(t, DrillContext{
			Type:             VisCombo,
			Element:          "point",
			ElementChartType: VisLine,
			X:                ptr(2.0),
			Y:                ptr(3.0),
			Intersection:     line.Intersection,
		}, ev.DrillContext)
	})

	t.Run("not added outside combo", func(t *testing.T) {
		ev := fireChart(t, ChartClickEvent{Points: []ChartPoint{column}}, VisColumn)
		require.Len(t, ev.DrillContext.Points, 1)
		assert.Empty(t, ev.DrillContext.Points[0].Type)

		ev = fireChart(t, ChartClickEvent{Point: &line}, VisLine)
		assert.Empty(t, ev.DrillContext.ElementChartType)
	})
}

func TestChartClickBullet(t *testing.T) {
	targetPoint := ChartPoint{X: 1, Y: 2, Target: ptr(100.0), SeriesType: "bullet", BulletMeasureType: BulletTarget}
	nullTarget := ChartPoint{X: 1, Y: 0, Target: ptr(0.0), IsNullTarget: true, SeriesType: "bullet", BulletMeasureType: BulletTarget}
	primary := ChartPoint{X: 1, Y: 2, Target: ptr(100.0), SeriesType: VisBar, BulletMeasureType: BulletPrimary}
	comparative := ChartPoint{X: 1, Y: 3, Target: ptr(100.0), SeriesType: VisBar, BulletMeasureType: BulletComparative}

	tests := []struct {
		name        string
		point       ChartPoint
		wantElement string
		wantY       float64
	}{
		{"target", targetPoint, "target", 100},
		{"primary", primary, "primary", 2},
		{"comparative", comparative, "comparative", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.point
			ev := fireChart(t, ChartClickEvent{Point: &p}, VisBullet)
			assert.Equal(t, tt.wantElement, ev.DrillContext.Element)
			require.NotNil(t, ev.DrillContext.Y)
			assert.Equal(t, tt.wantY, *ev.DrillContext.Y)
		})
	}

	t.Run("attribute drilling", func(t *testing.T) {
		ev := fireChart(t, ChartClickEvent{Points: []ChartPoint{targetPoint, primary, comparative}}, VisBullet)
		assert.Equal(t, []DrillPoint{
			{Type: "target", X: 1, Y: ptr(100.0)},
			{Type: "primary", X: 1, Y: ptr(2.0)},
			{Type: "comparative", X: 1, Y: ptr(3.0)},
		}, ev.DrillContext.Points)
	})

	t.Run("attribute drilling with null target", func(t *testing.T) {
		ev := fireChart(t, ChartClickEvent{Points: []ChartPoint{nullTarget, primary, comparative}}, VisBullet)
		require.Len(t, ev.DrillContext.Points, 3)
		assert.Nil(t, ev.DrillContext.Points[0].Y)

		data, err := json.Marshal(ev.DrillContext.Points[0])
		require.NoError(t, err)
		assert.JSONEq(t, `{"x":1,"y":null,"intersection":null,"type":"target"}`, string(data))
	})
}

func TestChartClickErrors(t *testing.T) {
	p := makeTestPoint()

	_, err := ChartClick(makeTestConfig(), ChartClickEvent{Point: &p}, &recordingTarget{}, "headline")
	assert.True(t, IsUnknownVisType(err))

	_, err = ChartClick(makeTestConfig(), ChartClickEvent{}, &recordingTarget{}, VisLine)
	var de *DrillError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ErrCodeNoPoint, de.Code)
}

func TestCellClick(t *testing.T) {
	in := makeTestIntersection("id1")
	target := &recordingTarget{}

	dispatched := CellClick(makeTestConfig(), TableCellClick{ColumnIndex: 1, RowIndex: 2, Row: []string{"3"}, Intersection: in}, target)
	require.True(t, dispatched)
	require.Len(t, target.events, 1)

	assert.Equal(t, DrillContext{
		Type:         VisTable,
		Element:      "cell",
		ColumnIndex:  ptr(1),
		RowIndex:     ptr(2),
		Row:          []string{"3"},
		Intersection: in,
	}, target.events[0].Detail.DrillContext)
}

func TestDrillEventJSON(t *testing.T) {
	p := makeTestPoint()
	ev := fireChart(t, ChartClickEvent{Point: &p}, VisHeatmap)

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	dc := generic["drillContext"].(map[string]any)
	assert.Equal(t, "heatmap", dc["type"])
	assert.Equal(t, "cell", dc["element"])
	assert.Equal(t, "678", dc["value"])
	assert.Len(t, dc["intersection"], 3)
	assert.NotContains(t, generic, "chartX")
}

func TestDrillConfigLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := makeTestConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg.OnDrill = func(DrillEvent) *bool { return Suppress() }

	p := makeTestPoint()
	_, err := ChartClick(cfg, ChartClickEvent{Point: &p}, &recordingTarget{}, VisColumn)
	require.NoError(t, err)
	CellClick(cfg, TableCellClick{ColumnIndex: 1, RowIndex: 2}, &recordingTarget{})

	out := buf.String()
	assert.Contains(t, out, `msg="chart drill" type=column element=bar`)
	assert.Contains(t, out, `msg="drill dispatch suppressed by callback" type=column element=bar`)
	assert.Contains(t, out, `msg="table drill" column=1 row=2`)
}

func TestDrillConfigWithoutLoggerIsQuiet(t *testing.T) {
	p := makeTestPoint()
	dispatched, err := ChartClick(DrillConfig{}, ChartClickEvent{Point: &p}, &recordingTarget{}, VisColumn)
	require.NoError(t, err)
	assert.True(t, dispatched)
}
