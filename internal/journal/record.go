package journal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/drillkit/internal/drill"
	"github.com/roach88/drillkit/internal/model"
)

// Recorder appends the drill events of one session to a Journal. It is a
// drill.EventTarget, so it can sit where a DOM target would.
type Recorder struct {
	journal *Journal
	session string
	clock   Clock
	logger  *slog.Logger

	mu      sync.Mutex
	lastErr error
}

var _ drill.EventTarget = (*Recorder)(nil)

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderConfig)

type recorderConfig struct {
	sessions SessionGenerator
	session  string
	clock    Clock
	logger   *slog.Logger
}

// WithSessionGenerator sets how the session id is chosen. The default is
// UUIDv7Generator.
func WithSessionGenerator(g SessionGenerator) RecorderOption {
	return func(c *recorderConfig) { c.sessions = g }
}

// WithSession continues an existing session.
func WithSession(session string) RecorderOption {
	return func(c *recorderConfig) { c.session = session }
}

// WithClock sets the seq clock. The default resumes after the highest seq
// already recorded for the session.
func WithClock(clock Clock) RecorderOption {
	return func(c *recorderConfig) { c.clock = clock }
}

// WithLogger sets the logger used for dispatch failures.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(c *recorderConfig) { c.logger = logger }
}

// NewRecorder starts recording a session.
func (j *Journal) NewRecorder(ctx context.Context, opts ...RecorderOption) (*Recorder, error) {
	cfg := recorderConfig{sessions: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.session == "" {
		cfg.session = cfg.sessions.Generate()
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.clock == nil {
		last, err := j.LastSeq(ctx, cfg.session)
		if err != nil {
			return nil, fmt.Errorf("new recorder: %w", err)
		}
		cfg.clock = NewSeqClockAt(last)
	}
	return &Recorder{
		journal: j,
		session: cfg.session,
		clock:   cfg.clock,
		logger:  cfg.logger,
	}, nil
}

// Session returns the session id entries are recorded under.
func (r *Recorder) Session() string { return r.session }

// Record appends ev. The payload is stored as canonical JSON and the entry
// id is derived from session, seq and payload.
func (r *Recorder) Record(ctx context.Context, ev drill.DrillEvent, suppressed bool) (Entry, error) {
	payload, err := model.MarshalCanonical(ev)
	if err != nil {
		return Entry{}, fmt.Errorf("record drill event: %w", err)
	}

	seq := r.clock.Next()
	id, err := model.DrillEventID(r.session, seq, ev)
	if err != nil {
		return Entry{}, fmt.Errorf("record drill event: %w", err)
	}

	entry := Entry{
		ID:         id,
		Session:    r.session,
		Seq:        seq,
		VisType:    ev.DrillContext.Type,
		Element:    ev.DrillContext.Element,
		Payload:    string(payload),
		Suppressed: suppressed,
	}
	if err := r.journal.write(ctx, entry); err != nil {
		return Entry{}, err
	}

	r.logger.Debug("drill event recorded",
		"session", entry.Session,
		"seq", entry.Seq,
		"id", entry.ID,
		"suppressed", suppressed)
	return entry, nil
}

// DispatchEvent implements drill.EventTarget. Failures are logged and kept
// for Err; the event is then reported as not accepted.
func (r *Recorder) DispatchEvent(ev drill.CustomEvent) bool {
	if ev.Type != drill.EventType {
		return false
	}
	if _, err := r.Record(context.Background(), ev.Detail, false); err != nil {
		r.logger.Error("recording drill event failed", "session", r.session, "error", err)
		r.keepErr(err)
		return false
	}
	return true
}

func (r *Recorder) keepErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastErr == nil {
		r.lastErr = err
	}
}

// Err returns the first recording failure of DispatchEvent or an
// intercepted callback, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Intercept wraps cb so that events it suppresses are still journaled,
// flagged as suppressed. Dispatched events are recorded by DispatchEvent.
func (r *Recorder) Intercept(cb drill.Callback) drill.Callback {
	return func(ev drill.DrillEvent) *bool {
		if cb == nil {
			return nil
		}
		result := cb(ev)
		if result != nil && !*result {
			if _, err := r.Record(context.Background(), ev, true); err != nil {
				r.logger.Error("recording suppressed drill event failed", "session", r.session, "error", err)
				r.keepErr(err)
			}
		}
		return result
	}
}

func (j *Journal) write(ctx context.Context, e Entry) error {
	suppressed := 0
	if e.Suppressed {
		suppressed = 1
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO drill_events
		(id, session, seq, vis_type, element, payload, suppressed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.Session,
		e.Seq,
		e.VisType,
		e.Element,
		e.Payload,
		suppressed,
	)
	if err != nil {
		return fmt.Errorf("write drill event: %w", err)
	}
	return nil
}
