package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/sessionplanner/internal/core"

	_ "modernc.org/sqlite"
)

// SQLite stores sessions in a local database file. Tags are kept as a JSON
// array and timestamps as RFC 3339 text in UTC.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema. ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every pooled connection to ":memory:" would be a separate database.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, now: time.Now}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) ensureSchema(ctx context.Context) error {
	category, status, priority := enumChecks()
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS study_sessions (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  title TEXT NOT NULL CHECK (trim(title) <> ''),
  description TEXT,
  category TEXT NOT NULL %s,
  status TEXT NOT NULL DEFAULT 'planned' %s,
  priority TEXT NOT NULL DEFAULT 'medium' %s,
  duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
  color TEXT,
  tags TEXT NOT NULL DEFAULT '[]',
  notes TEXT,
  scheduled_for TEXT,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS study_sessions_owner_scheduled_idx
  ON study_sessions (owner_id, scheduled_for);
`, category, status, priority)

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create study_sessions table: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Ping checks the database handle for health endpoints.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Create inserts one session.
func (s *SQLite) Create(ctx context.Context, ownerID string, d core.SessionDraft) (core.Session, error) {
	r, err := newRecord(d)
	if err != nil {
		return core.Session{}, err
	}

	tags, err := json.Marshal(r.tags)
	if err != nil {
		return core.Session{}, fmt.Errorf("encode tags: %w", err)
	}

	var scheduled sql.NullString
	if r.scheduled != nil {
		scheduled = sql.NullString{String: r.scheduled.Format(time.RFC3339), Valid: true}
	}

	id := uuid.NewString()
	createdAt := s.now().UTC()

	const stmt = `
INSERT INTO study_sessions
  (id, owner_id, title, description, category, status, priority,
   duration_minutes, color, tags, notes, scheduled_for, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, stmt,
		id,
		ownerID,
		r.title,
		nullString(r.description),
		r.category,
		r.status,
		r.priority,
		r.duration,
		nullString(r.color),
		string(tags),
		nullString(r.notes),
		scheduled,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return core.Session{}, fmt.Errorf("insert session: %w", err)
	}

	return r.session(id, ownerID, createdAt), nil
}

// List returns an owner's sessions ordered by schedule, unscheduled last.
func (s *SQLite) List(ctx context.Context, ownerID string, limit int) ([]core.Session, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
SELECT id, owner_id, title, description, category, status, priority,
       duration_minutes, color, tags, notes, scheduled_for, created_at
FROM study_sessions
WHERE owner_id = ?
ORDER BY scheduled_for IS NULL, scheduled_for, created_at
LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []core.Session
	for rows.Next() {
		var (
			sess                      core.Session
			description, color, notes sql.NullString
			scheduled                 sql.NullString
			tags, createdAt           string
			category, status, prio    string
		)
		if err := rows.Scan(&sess.ID, &sess.OwnerID, &sess.Title, &description, &category, &status, &prio,
			&sess.DurationMinutes, &color, &tags, &notes, &scheduled, &createdAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &sess.Tags); err != nil {
			return nil, fmt.Errorf("decode tags of %s: %w", sess.ID, err)
		}
		sess.Description = description.String
		sess.Color = color.String
		sess.Notes = notes.String
		sess.Category = core.Category(category)
		sess.Status = core.Status(status)
		sess.Priority = core.Priority(prio)
		if scheduled.Valid {
			t, err := time.Parse(time.RFC3339, scheduled.String)
			if err != nil {
				return nil, fmt.Errorf("decode scheduled_for of %s: %w", sess.ID, err)
			}
			sess.ScheduledFor = &t
		}
		if sess.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("decode created_at of %s: %w", sess.ID, err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
