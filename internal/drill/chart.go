package drill

import (
	"log/slog"
	"strconv"
)

// Visualization types with drill support.
const (
	VisLine    = "line"
	VisArea    = "area"
	VisScatter = "scatter"
	VisBubble  = "bubble"
	VisColumn  = "column"
	VisBar     = "bar"
	VisBullet  = "bullet"
	VisPie     = "pie"
	VisDonut   = "donut"
	VisFunnel  = "funnel"
	VisPyramid = "pyramid"
	VisTreemap = "treemap"
	VisHeatmap = "heatmap"
	VisCombo   = "combo"
	VisCombo2  = "combo2"
	VisTable   = "table"
)

// Bullet chart measure roles, also used as the clicked element name.
const (
	BulletPrimary     = "primary"
	BulletTarget      = "target"
	BulletComparative = "comparative"
)

// DrillConfig is the drill setup of one visualization.
type DrillConfig struct {
	DataView DataViewRef
	OnDrill  Callback
	// Logger receives debug records of composed drills. Nil discards them.
	Logger *slog.Logger
}

func (cfg DrillConfig) logger() *slog.Logger {
	if cfg.Logger == nil {
		return discardLogger
	}
	return cfg.Logger
}

// ChartPoint is a clicked chart point as reported by the chart library.
type ChartPoint struct {
	X     float64
	Y     float64
	Z     *float64
	Value *float64

	// SeriesType is the series chart type; set for combo and bullet charts.
	SeriesType string
	// BulletMeasureType is one of the Bullet* roles.
	BulletMeasureType string
	Target            *float64
	IsNullTarget      bool

	IgnoredInDrillEventContext bool
	Intersection               []IntersectionElement
}

// ChartClickEvent is a chart click. A non-empty Points is a label click on
// a group of points; otherwise Point was clicked.
type ChartClickEvent struct {
	Point  *ChartPoint
	Points []ChartPoint
	ChartX *float64
	ChartY *float64
}

// TableCellClick is a click on a drillable table cell.
type TableCellClick struct {
	ColumnIndex  int
	RowIndex     int
	Row          []string
	Intersection []IntersectionElement
}

// ClickableElementName returns the name of the clickable element of a
// chart type.
func ClickableElementName(visType string) (string, error) {
	switch visType {
	case VisLine, VisArea, VisScatter, VisBubble:
		return "point", nil
	case VisColumn, VisBar, VisBullet:
		return "bar", nil
	case VisPie, VisDonut, VisFunnel, VisPyramid, VisTreemap:
		return "slice", nil
	case VisHeatmap:
		return "cell", nil
	default:
		return "", newUnknownVisType(visType)
	}
}

func normalizeVisType(visType string) string {
	if visType == VisCombo2 {
		return VisCombo
	}
	return visType
}

// ChartClick composes the drill context of click and fires it through
// cfg.OnDrill and target. It reports whether the event was dispatched.
func ChartClick(cfg DrillConfig, click ChartClickEvent, target EventTarget, visType string) (bool, error) {
	var (
		dc  DrillContext
		err error
	)
	if len(click.Points) > 0 {
		dc = groupContext(click.Points, visType)
	} else {
		if click.Point == nil {
			return false, &DrillError{Code: ErrCodeNoPoint, VisType: visType, Message: "chart click has neither point nor points"}
		}
		dc, err = pointContext(*click.Point, visType)
		if err != nil {
			return false, err
		}
	}

	logger := cfg.logger()
	logger.Debug("chart drill",
		"type", dc.Type,
		"element", dc.Element,
		"points", len(dc.Points))

	ev := DrillEvent{
		DataView:     cfg.DataView,
		DrillContext: dc,
		ChartX:       click.ChartX,
		ChartY:       click.ChartY,
	}
	return fireDrillEvent(cfg.OnDrill, ev, target, logger), nil
}

func groupContext(points []ChartPoint, visType string) DrillContext {
	combo := isCombo(visType)
	out := make([]DrillPoint, 0, len(points))
	for _, p := range points {
		if visType == VisHeatmap && p.IgnoredInDrillEventContext {
			continue
		}
		dp := DrillPoint{X: p.X, Y: pointY(p, visType), Intersection: p.Intersection}
		switch {
		case visType == VisBullet:
			dp.Type = p.BulletMeasureType
		case combo:
			dp.Type = p.SeriesType
		}
		out = append(out, dp)
	}
	return DrillContext{Type: normalizeVisType(visType), Element: "label", Points: out}
}

func pointContext(p ChartPoint, visType string) (DrillContext, error) {
	dc := DrillContext{Type: normalizeVisType(visType), Intersection: p.Intersection}

	switch {
	case visType == VisBullet && p.BulletMeasureType != "":
		dc.Element = p.BulletMeasureType
	case isCombo(visType):
		name, err := ClickableElementName(p.SeriesType)
		if err != nil {
			return DrillContext{}, err
		}
		dc.Element = name
		dc.ElementChartType = p.SeriesType
	default:
		name, err := ClickableElementName(visType)
		if err != nil {
			return DrillContext{}, err
		}
		dc.Element = name
	}

	if visType != VisTreemap {
		x := p.X
		dc.X = &x
		dc.Y = pointY(p, visType)
	}
	if p.Z != nil {
		z := *p.Z
		dc.Z = &z
	}
	if visType == VisTreemap || visType == VisHeatmap {
		v := ""
		if p.Value != nil {
			v = strconv.FormatFloat(*p.Value, 'f', -1, 64)
		}
		dc.Value = &v
	}
	return dc, nil
}

// pointY is the y of a point; bullet target points report their target,
// with a null target as nil.
func pointY(p ChartPoint, visType string) *float64 {
	if visType == VisBullet && p.BulletMeasureType == BulletTarget {
		if p.IsNullTarget || p.Target == nil {
			return nil
		}
		t := *p.Target
		return &t
	}
	y := p.Y
	return &y
}

func isCombo(visType string) bool {
	return visType == VisCombo || visType == VisCombo2
}

// CellClick fires the drill of a table cell click.
func CellClick(cfg DrillConfig, cell TableCellClick, target EventTarget) bool {
	col, row := cell.ColumnIndex, cell.RowIndex
	ev := DrillEvent{
		DataView: cfg.DataView,
		DrillContext: DrillContext{
			Type:         VisTable,
			Element:      "cell",
			ColumnIndex:  &col,
			RowIndex:     &row,
			Row:          cell.Row,
			Intersection: cell.Intersection,
		},
	}
	logger := cfg.logger()
	logger.Debug("table drill", "column", col, "row", row)
	return fireDrillEvent(cfg.OnDrill, ev, target, logger)
}
