package grouping

import "github.com/roach88/drillkit/internal/model"

// Row maps attribute column ids to the attribute value of one result row.
// A nil Row is a row that was not loaded.
type Row map[string]model.ResultAttributeHeaderItem

// Provider answers the grouping queries a table renderer asks per cell.
type Provider interface {
	// Reset drops all accumulated pages.
	Reset()
	// ProcessPage records rows at absolute positions offset..offset+len-1
	// for the attribute columns columnIDs, in left-to-right order.
	ProcessPage(rows []Row, offset int, columnIDs []string)
	// IsRepeated reports whether the cell repeats the one directly above.
	IsRepeated(columnID string, row int) bool
	// IsGroupBoundary reports whether row closes a group.
	IsGroupBoundary(row int) bool
	// IsColumnWithGrouping reports whether columnID takes part in grouping.
	IsColumnWithGrouping(columnID string) bool
}

// NewProvider returns a run-length Engine when enabled, NoGrouping otherwise.
func NewProvider(enabled bool) Provider {
	if enabled {
		return NewEngine()
	}
	return NoGrouping{}
}

// NoGrouping is the Provider of tables with grouping disabled.
type NoGrouping struct{}

func (NoGrouping) Reset() {}
func (NoGrouping) ProcessPage([]Row, int, []string) {}
func (NoGrouping) IsRepeated(string, int) bool { return false }
func (NoGrouping) IsGroupBoundary(int) bool { return false }
func (NoGrouping) IsColumnWithGrouping(string) bool { return false }
