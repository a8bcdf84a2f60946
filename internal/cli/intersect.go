package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/drillkit/internal/drill"
	"github.com/roach88/drillkit/internal/harness"
	"github.com/roach88/drillkit/internal/model"
)

// IntersectOptions holds flags for the intersect command.
type IntersectOptions struct {
	*RootOptions
	From string
}

// IntersectResult is a built intersection and its fingerprint.
type IntersectResult struct {
	Intersection []drill.IntersectionElement `json:"intersection"`
	Hash         string                      `json:"hash"`
}

// NewIntersectCommand creates the intersect command.
func NewIntersectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IntersectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "intersect <headers.json>",
		Short: "Build the drill intersection of a header path",
		Long: `Flatten a header path into a drill intersection. An attribute item
directly followed by its attribute descriptor is merged into one attribute
value element.

With --from, the intersection starts at the first attribute value whose
descriptor has the given local identifier.

Examples:
  drillkit intersect ./path.json
  drillkit intersect ./path.json --from a2 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntersect(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "local identifier of the attribute to slice the intersection from")

	return cmd
}

func runIntersect(opts *IntersectOptions, headersPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	headers, err := loadHeaders(formatter, headersPath)
	if err != nil {
		return err
	}

	intersection := drill.BuildIntersection(headers)
	if opts.From != "" {
		intersection = drill.SliceIntersectionFrom(intersection, opts.From)
	}
	hash, err := model.IntersectionHash(intersection)
	if err != nil {
		return reportError(formatter, ErrCodeInvalidInput, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(IntersectResult{Intersection: intersection, Hash: hash})
	}
	w := formatter.Writer
	for i, el := range intersection {
		fmt.Fprintf(w, "%d. %s\n", i, harness.DescribeHeader(el.Header))
	}
	fmt.Fprintf(w, "hash %s\n", hash)
	return nil
}
