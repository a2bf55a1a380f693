package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/blogforge/internal/db"
)

// Store persists analytics events.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Track records an event named name with optional data.
func (s *Store) Track(ctx context.Context, name string, data map[string]any) error {
	return s.Log(ctx, Event{Name: name, Data: data})
}

// Log inserts an event. A missing ID or timestamp is filled in.
func (s *Store) Log(ctx context.Context, ev Event) error {
	if ev.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.now()
	}
	if ev.Data == nil {
		ev.Data = map[string]any{}
	}

	data, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("marshalling event data: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analytics_events (id, timestamp, name, data) VALUES (?, ?, ?, ?)`,
		ev.ID,
		ev.Timestamp.UTC().Format(time.DateTime),
		ev.Name,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Filter controls which events are returned by Query.
type Filter struct {
	Name  string
	Since *time.Time
	Limit int
}

// Query returns events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter Filter) ([]Event, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Name != "" {
		clauses = append(clauses, "name = ?")
		args = append(args, filter.Name)
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}

	query := "SELECT id, timestamp, name, data FROM analytics_events"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Counts returns the number of events recorded per name.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, COUNT(*) FROM analytics_events GROUP BY name`)
	if err != nil {
		return nil, fmt.Errorf("counting events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

// DeleteBefore removes events older than cutoff and returns how many were
// removed.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM analytics_events WHERE timestamp < ?`,
		cutoff.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting events: %w", err)
	}
	return res.RowsAffected()
}

func scanEvent(rows *sql.Rows) (Event, error) {
	var (
		ev       Event
		ts       string
		dataJSON string
	)
	if err := rows.Scan(&ev.ID, &ts, &ev.Name, &dataJSON); err != nil {
		return ev, err
	}

	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		ev.Timestamp = t
	} else if t, parseErr := time.Parse(time.RFC3339, ts); parseErr == nil {
		ev.Timestamp = t
	}

	if err := json.Unmarshal([]byte(dataJSON), &ev.Data); err != nil {
		ev.Data = nil
	}
	return ev, nil
}
