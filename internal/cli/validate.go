package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/drillkit/internal/drill"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool            `json:"valid"`
	Workspace string          `json:"workspace,omitempty"`
	Grouping  bool            `json:"grouping"`
	Items     []ValidatedItem `json:"items"`
}

// ValidatedItem is one compiled drill item.
type ValidatedItem struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Line        int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-dir>",
		Short: "Validate a CUE drill config",
		Long: `Load the CUE package in config-dir and compile its drill struct.

Every item must be exactly one of uri, identifier, legacy {uri, identifier},
expr, composedFrom, localIdentifier or attributeItemName. Expressions are
compiled, so syntax errors are reported here rather than at match time.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, configDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loaded, err := loadConfig(formatter, configDir)
	if err != nil {
		return err
	}
	if _, err := drill.ConvertSpecsToPredicates(loaded.Config.Specs()); err != nil {
		return reportError(formatter, ErrCodeInvalidInput, err.Error())
	}

	result := ValidationResult{
		Valid:     true,
		Workspace: loaded.Config.Workspace,
		Grouping:  loaded.Config.Grouping,
		Items:     make([]ValidatedItem, 0, len(loaded.Config.Items)),
	}
	for _, item := range loaded.Config.Items {
		v := ValidatedItem{Kind: item.Kind, Description: drill.DescribeSpec(item.Spec)}
		if item.Pos.IsValid() {
			v.Line = item.Pos.Line()
		}
		result.Items = append(result.Items, v)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	for _, item := range result.Items {
		fmt.Fprintf(w, "  %-18s %s\n", item.Kind, item.Description)
	}
	fmt.Fprintf(w, "✓ Drill config valid (%d item(s))\n", len(result.Items))
	return nil
}
