package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/drillkit/internal/bridge"
	"github.com/roach88/drillkit/internal/drill"
	"github.com/roach88/drillkit/internal/journal"
)

// DrillOptions holds flags for the drill command.
type DrillOptions struct {
	*RootOptions
	Database string
	Session  string
	Vis      string
	X        float64
	Y        float64
	Bridge   string
	Commands string
	Dispatch bool
}

// DrillResult is a fired drill event and its journal entry.
type DrillResult struct {
	Session    string           `json:"session"`
	Dispatched bool             `json:"dispatched"`
	Entry      journal.Entry    `json:"entry"`
	Event      drill.DrillEvent `json:"event"`
}

// NewDrillCommand creates the drill command.
func NewDrillCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DrillOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "drill <facade.json> <config-dir> <headers.json>",
		Short: "Fire a chart drill and journal it",
		Long: `Simulate a click on a chart point whose header path is headers.json.

The path must contain at least one drillable header. The drill event is
built for the visualization type given by --vis, dispatched, and appended to
the journal at --db. With --bridge, the event is also posted to stdout as a
host envelope in the given codec, and the summary goes to stderr.

--commands reads drillableItems host commands from a file in the bridge
codec; their items are drillable in addition to the config items.

Examples:
  drillkit drill ./facade.json ./drill ./path.json --db ./journal.db
  drillkit drill ./facade.json ./drill ./path.json --db ./journal.db --vis pie --bridge msgpack`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrill(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to append to (default: new UUIDv7 session)")
	cmd.Flags().StringVar(&opts.Vis, "vis", drill.VisColumn, "visualization type of the clicked chart")
	cmd.Flags().Float64Var(&opts.X, "x", 0, "x of the clicked point")
	cmd.Flags().Float64Var(&opts.Y, "y", 0, "y of the clicked point")
	cmd.Flags().StringVar(&opts.Bridge, "bridge", "", "post the event to stdout in this codec (json|msgpack)")
	cmd.Flags().StringVar(&opts.Commands, "commands", "", "file of drillableItems host commands")
	cmd.Flags().BoolVar(&opts.Dispatch, "dispatch", false, "with --bridge, still dispatch the generic drill event")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runDrill(opts *DrillOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	logger := slog.Default()

	var host *bridge.Bridge
	if opts.Bridge != "" || opts.Commands != "" {
		codec, err := bridge.CodecByName(opts.Bridge)
		if err != nil {
			return reportError(formatter, ErrCodeInvalidInput, err.Error())
		}
		host = bridge.New(cmd.OutOrStdout(),
			bridge.WithCodec(codec),
			bridge.WithDispatch(opts.Dispatch),
			bridge.WithLogger(logger),
		)
		// The envelope stream owns stdout.
		formatter.Writer = cmd.ErrOrStderr()
	}

	in, err := loadInputs(formatter, args[0], args[1], args[2])
	if err != nil {
		return err
	}

	specs := in.config.Config.Specs()
	if opts.Commands != "" {
		hostSpecs, err := readCommands(host, opts.Commands)
		if err != nil {
			return reportError(formatter, ErrCodeBridge, err.Error())
		}
		formatter.VerboseLog("Read %d drillable item(s) from %s", len(hostSpecs), opts.Commands)
		specs = append(specs, hostSpecs...)
	}
	preds, err := drill.ConvertSpecsToPredicates(specs)
	if err != nil {
		return reportError(formatter, ErrCodeInvalidInput, err.Error())
	}

	pctx := in.predicateContext()
	drillable := false
	for _, h := range in.headers {
		if drill.IsAnyPredicateMatched(preds, h, pctx) {
			drillable = true
			break
		}
	}
	if !drillable {
		_ = formatter.Error(ErrCodeNotDrillable, "no header of the path is drillable", nil)
		return NewExitError(ExitFailure, fmt.Sprintf("%s: no header of the path is drillable", ErrCodeNotDrillable))
	}

	ctx := context.Background()
	j, err := journal.Open(opts.Database)
	if err != nil {
		return reportError(formatter, ErrCodeJournal, fmt.Sprintf("opening journal: %v", err))
	}
	defer func() {
		if closeErr := j.Close(); closeErr != nil {
			logger.Error("error closing journal", "error", closeErr)
		}
	}()

	recOpts := []journal.RecorderOption{journal.WithLogger(logger)}
	if opts.Session != "" {
		recOpts = append(recOpts, journal.WithSession(opts.Session))
	}
	rec, err := j.NewRecorder(ctx, recOpts...)
	if err != nil {
		return reportError(formatter, ErrCodeJournal, err.Error())
	}

	var onDrill drill.Callback
	if host != nil && opts.Bridge != "" {
		onDrill = host.Callback()
	}
	cfg := drill.DrillConfig{
		DataView: drill.DataViewRef{Workspace: pctx.Workspace},
		OnDrill:  rec.Intercept(onDrill),
		Logger:   logger,
	}
	point := drill.ChartPoint{X: opts.X, Y: opts.Y, Intersection: drill.BuildIntersection(in.headers)}

	dispatched, err := drill.ChartClick(cfg, drill.ChartClickEvent{Point: &point}, rec, opts.Vis)
	if err != nil {
		if drill.IsUnknownVisType(err) {
			return reportError(formatter, ErrCodeUnknownVis, err.Error())
		}
		return reportError(formatter, ErrCodeInvalidInput, err.Error())
	}
	if err := rec.Err(); err != nil {
		return reportError(formatter, ErrCodeJournal, err.Error())
	}
	if host != nil {
		if err := host.Err(); err != nil {
			return reportError(formatter, ErrCodeBridge, err.Error())
		}
	}

	entries, err := j.ReadSession(ctx, rec.Session())
	if err != nil {
		return reportError(formatter, ErrCodeJournal, fmt.Sprintf("reading journaled event: %v", err))
	}
	if len(entries) == 0 {
		return reportError(formatter, ErrCodeJournal, "drill event was not journaled")
	}
	entry := entries[len(entries)-1]
	ev, err := entry.Event()
	if err != nil {
		return reportError(formatter, ErrCodeJournal, err.Error())
	}

	result := DrillResult{Session: rec.Session(), Dispatched: dispatched, Entry: entry, Event: ev}
	if formatter.Format == "json" {
		return formatter.SuccessWithTrace(result, rec.Session())
	}
	state := "dispatched"
	if !dispatched {
		state = "suppressed"
	}
	fmt.Fprintf(formatter.Writer, "✓ %s on %s %s (session %s, seq %d)\n", entry.Element, opts.Vis, state, entry.Session, entry.Seq)
	fmt.Fprintf(formatter.Writer, "  id %s\n", entry.ID)
	return nil
}

// readCommands reads the host command file through the bridge, so rejected
// commands are answered on the same stream.
func readCommands(host *bridge.Bridge, path string) ([]drill.Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return host.ReadDrillableItems(f)
}
