package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/drillkit/internal/drill"
	"github.com/roach88/drillkit/internal/harness"
	"github.com/roach88/drillkit/internal/model"
	"github.com/roach88/drillkit/internal/predicate"
)

// MatchResult is the drillability of each input header.
type MatchResult struct {
	Workspace string        `json:"workspace"`
	Headers   []HeaderMatch `json:"headers"`
}

// HeaderMatch is the drillability of one header. MatchedBy describes the
// first drill item that matched it.
type HeaderMatch struct {
	Header    string `json:"header"`
	Drillable bool   `json:"drillable"`
	MatchedBy string `json:"matchedBy,omitempty"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <facade.json> <config-dir> <headers.json>",
		Short: "Report which headers are drillable",
		Long: `Evaluate the drill items of config-dir against every header of
headers.json, a JSON array of wire-format mapping headers. Measures are
resolved through the execution facade in facade.json.

Example:
  drillkit match ./facade.json ./drill ./headers.json --format json`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runMatch(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	in, err := loadInputs(formatter, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	specs := in.config.Config.Specs()
	preds, err := drill.ConvertSpecsToPredicates(specs)
	if err != nil {
		return reportError(formatter, ErrCodeInvalidInput, err.Error())
	}
	pctx := in.predicateContext()

	result := MatchResult{Workspace: pctx.Workspace, Headers: make([]HeaderMatch, 0, len(in.headers))}
	for _, h := range in.headers {
		m := HeaderMatch{Header: harness.DescribeHeader(h)}
		if i := firstMatch(preds, h, pctx); i >= 0 {
			m.Drillable = true
			m.MatchedBy = drill.DescribeSpec(specs[i])
		}
		result.Headers = append(result.Headers, m)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	w := formatter.Writer
	for _, m := range result.Headers {
		if m.Drillable {
			fmt.Fprintf(w, "✓ %s (%s)\n", m.Header, m.MatchedBy)
		} else {
			fmt.Fprintf(w, "✗ %s\n", m.Header)
		}
	}
	return nil
}

// firstMatch returns the index of the first predicate matching h, or -1.
func firstMatch(preds []predicate.HeaderPredicate, h model.MappingHeader, pctx predicate.Context) int {
	for i, p := range preds {
		if p(h, pctx) {
			return i
		}
	}
	return -1
}
