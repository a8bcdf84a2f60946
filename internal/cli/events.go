package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/drillkit/internal/journal"
)

// EventsOptions holds flags for the events command.
type EventsOptions struct {
	*RootOptions
	Database string
	Session  string
}

// SessionsResult lists the sessions of a journal.
type SessionsResult struct {
	Sessions []SessionSummary `json:"sessions"`
}

// SessionSummary is one journaled session.
type SessionSummary struct {
	Session string `json:"session"`
	LastSeq int64  `json:"lastSeq"`
}

// EventsResult holds the journaled events of one session.
type EventsResult struct {
	Session string          `json:"session"`
	Events  []journal.Entry `json:"events"`
	Stats   EventsStats     `json:"stats"`
}

// EventsStats holds summary statistics for a session.
type EventsStats struct {
	Total      int `json:"total"`
	Dispatched int `json:"dispatched"`
	Suppressed int `json:"suppressed"`
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List journaled drill events",
		Long: `List the drill events of a journal session in sequence order.

Without --session, every session of the journal is listed with its last
sequence number.

Examples:
  drillkit events --db ./journal.db
  drillkit events --db ./journal.db --session 0192c4d2-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to list")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runEvents(opts *EventsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	// Opening would create an empty journal.
	if _, err := os.Stat(opts.Database); err != nil {
		return reportError(formatter, ErrCodeJournal, fmt.Sprintf("journal not found: %s", opts.Database))
	}
	j, err := journal.Open(opts.Database)
	if err != nil {
		return reportError(formatter, ErrCodeJournal, fmt.Sprintf("opening journal: %v", err))
	}
	defer j.Close()

	ctx := context.Background()
	if opts.Session == "" {
		return listSessions(ctx, formatter, j)
	}

	entries, err := j.ReadSession(ctx, opts.Session)
	if err != nil {
		return reportError(formatter, ErrCodeJournal, err.Error())
	}
	result := EventsResult{Session: opts.Session, Events: entries, Stats: EventsStats{Total: len(entries)}}
	for _, e := range entries {
		if e.Suppressed {
			result.Stats.Suppressed++
		} else {
			result.Stats.Dispatched++
		}
	}

	if formatter.Format == "json" {
		return formatter.SuccessWithTrace(result, opts.Session)
	}
	w := formatter.Writer
	fmt.Fprintf(w, "Session: %s\n\n", opts.Session)
	for _, e := range entries {
		flag := ""
		if e.Suppressed {
			flag = " (suppressed)"
		}
		fmt.Fprintf(w, "[%d] %-6s %-8s %s%s\n", e.Seq, e.Element, e.VisType, e.ID, flag)
	}
	fmt.Fprintf(w, "\n%d event(s): %d dispatched, %d suppressed\n", result.Stats.Total, result.Stats.Dispatched, result.Stats.Suppressed)
	return nil
}

func listSessions(ctx context.Context, formatter *OutputFormatter, j *journal.Journal) error {
	sessions, err := j.Sessions(ctx)
	if err != nil {
		return reportError(formatter, ErrCodeJournal, err.Error())
	}
	result := SessionsResult{Sessions: make([]SessionSummary, 0, len(sessions))}
	for _, s := range sessions {
		last, err := j.LastSeq(ctx, s)
		if err != nil {
			return reportError(formatter, ErrCodeJournal, err.Error())
		}
		result.Sessions = append(result.Sessions, SessionSummary{Session: s, LastSeq: last})
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	w := formatter.Writer
	if len(result.Sessions) == 0 {
		fmt.Fprintln(w, "No sessions")
		return nil
	}
	for _, s := range result.Sessions {
		fmt.Fprintf(w, "%s  last seq %d\n", s.Session, s.LastSeq)
	}
	return nil
}
