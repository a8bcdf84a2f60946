// Package journal provides SQLite-backed durable storage for drill events.
//
// The journal is an append-only log with one row per drill event, both
// dispatched and suppressed ones.
//
// # Identity and Ordering
//
//   - Event ids are content-addressed: model.DrillEventID over the session,
//     the seq and the canonical JSON payload
//   - Ordering uses the seq INTEGER of a logical clock, never timestamps
//   - Queries order by seq ASC, id ASC COLLATE BINARY
//   - Writes use ON CONFLICT(id) DO NOTHING, so re-recording the same event
//     at the same position is a no-op
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s for locks
//   - user_version migrations applied on Open
package journal
