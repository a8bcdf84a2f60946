package cli

import (
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/roach88/drillkit/internal/grouping"
)

// GroupOptions holds flags for the group command.
type GroupOptions struct {
	*RootOptions
	Config     string
	NoGrouping bool
}

// PagesDocument is the input of the group command. A null row is a row
// that was not loaded.
type PagesDocument struct {
	Columns []string    `json:"columns"`
	Pages   []PageInput `json:"pages"`
}

// PageInput is one loaded page of rows.
type PageInput struct {
	Offset int            `json:"offset"`
	Rows   []grouping.Row `json:"rows"`
}

// GroupResult is the grouping state after every page was processed.
type GroupResult struct {
	Grouping bool       `json:"grouping"`
	Columns  []string   `json:"columns"`
	Rows     []GroupRow `json:"rows"`
}

// GroupRow is the grouping state of one row.
type GroupRow struct {
	Row      int             `json:"row"`
	Repeated map[string]bool `json:"repeated"`
	Boundary bool            `json:"boundary"`
}

// NewGroupCommand creates the group command.
func NewGroupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GroupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "group <pages.json>",
		Short: "Compute table row grouping for loaded pages",
		Long: `Feed the pages of pages.json to the row grouping provider in order and
print, per row, which attribute cells repeat the cell above and whether the
row closes a group.

With --config, the grouping setting of the drill config selects the
strategy; --no-grouping always disables it.

pages.json has the form:
  {"columns": ["a1", "a2"],
   "pages": [{"offset": 0, "rows": [{"a1": {"uri": "...", "name": "..."}}, null]}]}`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroup(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "drill config directory selecting the grouping strategy")
	cmd.Flags().BoolVar(&opts.NoGrouping, "no-grouping", false, "disable grouping; no cell repeats")

	return cmd
}

func runGroup(opts *GroupOptions, pagesPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	data, err := os.ReadFile(pagesPath)
	if err != nil {
		return reportError(formatter, ErrCodeInvalidInput, fmt.Sprintf("reading pages: %v", err))
	}
	var doc PagesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return reportError(formatter, ErrCodeInvalidInput, fmt.Sprintf("decoding pages %s: %v", pagesPath, err))
	}

	enabled := !opts.NoGrouping
	if opts.Config != "" {
		loaded, err := loadConfig(formatter, opts.Config)
		if err != nil {
			return err
		}
		enabled = enabled && loaded.Config.Grouping
	}

	provider := grouping.NewProvider(enabled)
	rows := 0
	for _, page := range doc.Pages {
		if page.Offset < 0 {
			return reportError(formatter, ErrCodeInvalidInput, fmt.Sprintf("page offset %d is negative", page.Offset))
		}
		provider.ProcessPage(page.Rows, page.Offset, doc.Columns)
		rows = max(rows, page.Offset+len(page.Rows))
		formatter.VerboseLog("Processed %d row(s) at offset %d", len(page.Rows), page.Offset)
	}

	result := GroupResult{Grouping: enabled, Columns: doc.Columns, Rows: make([]GroupRow, 0, rows)}
	for r := 0; r < rows; r++ {
		row := GroupRow{Row: r, Repeated: make(map[string]bool, len(doc.Columns)), Boundary: provider.IsGroupBoundary(r)}
		for _, col := range doc.Columns {
			row.Repeated[col] = provider.IsRepeated(col, r)
		}
		result.Rows = append(result.Rows, row)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	w := formatter.Writer
	fmt.Fprintf(w, "row  %s  boundary\n", strings.Join(doc.Columns, "  "))
	for _, row := range result.Rows {
		cells := make([]string, len(doc.Columns))
		for i, col := range doc.Columns {
			cells[i] = mark(row.Repeated[col], len(col))
		}
		fmt.Fprintf(w, "%-3d  %s  %s\n", row.Row, strings.Join(cells, "  "), mark(row.Boundary, 0))
	}
	return nil
}

// mark renders a flag padded to width.
func mark(v bool, width int) string {
	s := "-"
	if v {
		s = "x"
	}
	return fmt.Sprintf("%-*s", width, s)
}
