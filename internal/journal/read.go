package journal

import (
	"context"
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/roach88/drillkit/internal/drill"
)

// Entry is one journaled drill event.
type Entry struct {
	ID         string `json:"id"`
	Session    string `json:"session"`
	Seq        int64  `json:"seq"`
	VisType    string `json:"visType"`
	Element    string `json:"element"`
	Payload    string `json:"payload"`
	Suppressed bool   `json:"suppressed"`
}

// Event decodes the stored payload.
func (e Entry) Event() (drill.DrillEvent, error) {
	var ev drill.DrillEvent
	if err := json.Unmarshal([]byte(e.Payload), &ev); err != nil {
		return drill.DrillEvent{}, fmt.Errorf("decode entry %s: %w", e.ID, err)
	}
	return ev, nil
}

// ReadSession returns the entries of session ordered by seq ASC, id ASC
// COLLATE BINARY. Returns an empty slice (not nil) for an unknown session.
func (j *Journal) ReadSession(ctx context.Context, session string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, session, seq, vis_type, element, payload, suppressed
		FROM drill_events
		WHERE session = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("query drill events: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drill events: %w", err)
	}
	return entries, nil
}

// Sessions returns every recorded session id in binary order.
func (j *Journal) Sessions(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT DISTINCT session FROM drill_events
		ORDER BY session COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// LastSeq returns the highest seq recorded for session, 0 if none.
func (j *Journal) LastSeq(ctx context.Context, session string) (int64, error) {
	var seq sql.NullInt64
	err := j.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM drill_events WHERE session = ?
	`, session).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("query last seq: %w", err)
	}
	return seq.Int64, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e          Entry
		suppressed int
	)
	if err := rows.Scan(&e.ID, &e.Session, &e.Seq, &e.VisType, &e.Element, &e.Payload, &suppressed); err != nil {
		return Entry{}, fmt.Errorf("scan drill event: %w", err)
	}
	e.Suppressed = suppressed != 0
	return e, nil
}
