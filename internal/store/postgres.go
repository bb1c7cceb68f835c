package store

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/sessionplanner/internal/core"
)

// Postgres stores sessions in a study_sessions table through a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an open pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the sessions table and its index when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	category, status, priority := enumChecks()
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS study_sessions (
  id UUID PRIMARY KEY,
  owner_id TEXT NOT NULL,
  title TEXT NOT NULL CHECK (btrim(title) <> ''),
  description TEXT,
  category TEXT NOT NULL %s,
  status TEXT NOT NULL DEFAULT 'planned' %s,
  priority TEXT NOT NULL DEFAULT 'medium' %s,
  duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
  color TEXT,
  tags TEXT[] NOT NULL DEFAULT '{}',
  notes TEXT,
  scheduled_for TIMESTAMPTZ,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS study_sessions_owner_scheduled_idx
  ON study_sessions (owner_id, scheduled_for);
`, category, status, priority)

	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create study_sessions table: %w", err)
	}
	return nil
}

// Create inserts one session. Each call is its own statement; nothing spans
// several creates.
func (p *Postgres) Create(ctx context.Context, ownerID string, d core.SessionDraft) (core.Session, error) {
	r, err := newRecord(d)
	if err != nil {
		return core.Session{}, err
	}

	duration, err := toPgInt4(r.duration)
	if err != nil {
		return core.Session{}, fmt.Errorf("duration_minutes: %w", err)
	}

	id := uuid.New()
	const stmt = `
INSERT INTO study_sessions
  (id, owner_id, title, description, category, status, priority,
   duration_minutes, color, tags, notes, scheduled_for)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING created_at`

	var createdAt pgtype.Timestamptz
	err = p.pool.QueryRow(ctx, stmt,
		pgtype.UUID{Bytes: id, Valid: true},
		ownerID,
		r.title,
		toPgText(r.description),
		r.category,
		r.status,
		r.priority,
		duration,
		toPgText(r.color),
		r.tags,
		toPgText(r.notes),
		toPgTimestamptz(r.scheduled),
	).Scan(&createdAt)
	if err != nil {
		return core.Session{}, fmt.Errorf("insert session: %w", err)
	}

	return r.session(id.String(), ownerID, createdAt.Time), nil
}

// List returns an owner's sessions ordered by schedule, unscheduled last.
func (p *Postgres) List(ctx context.Context, ownerID string, limit int) ([]core.Session, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
SELECT id, owner_id, title, description, category, status, priority,
       duration_minutes, color, tags, notes, scheduled_for, created_at
FROM study_sessions
WHERE owner_id = $1
ORDER BY scheduled_for ASC NULLS LAST, created_at ASC
LIMIT $2`

	rows, err := p.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []core.Session
	for rows.Next() {
		var (
			id                        pgtype.UUID
			s                         core.Session
			description, color, notes pgtype.Text
			duration                  pgtype.Int4
			scheduled, createdAt      pgtype.Timestamptz
			category, status, prio    string
		)
		if err := rows.Scan(&id, &s.OwnerID, &s.Title, &description, &category, &status, &prio,
			&duration, &color, &s.Tags, &notes, &scheduled, &createdAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.ID = uuidToString(id)
		s.Description = description.String
		s.Category = core.Category(category)
		s.Status = core.Status(status)
		s.Priority = core.Priority(prio)
		s.DurationMinutes = int(duration.Int32)
		s.Color = color.String
		s.Notes = notes.String
		s.ScheduledFor = fromPgTimestamptz(scheduled)
		s.CreatedAt = createdAt.Time
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Ping checks database connectivity for health endpoints.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// ----------------------------------------------------------------------------
// pgtype conversion helpers
// ----------------------------------------------------------------------------

func toPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// toPgInt4 refuses values outside the int32 range instead of wrapping them.
func toPgInt4(i int) (pgtype.Int4, error) {
	if i < math.MinInt32 || i > math.MaxInt32 {
		return pgtype.Int4{}, fmt.Errorf("value %d out of range for INTEGER column", i)
	}
	return pgtype.Int4{Int32: int32(i), Valid: true}, nil
}

func toPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func fromPgTimestamptz(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func uuidToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

// OpenPostgres parses url, applies pool sizing and verifies connectivity.
func OpenPostgres(ctx context.Context, url string, opts PoolOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns > 0 {
		cfg.MinConns = int32(opts.MinConns)
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// PoolOptions sizes a Postgres connection pool. Zero fields keep pgx defaults.
type PoolOptions struct {
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}
