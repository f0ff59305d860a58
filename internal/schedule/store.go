package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// Schedule is one stored calendar entry.
type Schedule struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	StartTime       time.Time `db:"start_time" json:"start_time"`
	EndTime         time.Time `db:"end_time" json:"end_time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Priority        int       `db:"priority" json:"priority"`
	Status          string    `db:"status" json:"status"`
	Meta            string    `db:"meta" json:"meta"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS schedules (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id          INTEGER NOT NULL,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	start_time       TIMESTAMP NOT NULL,
	end_time         TIMESTAMP NOT NULL,
	duration_minutes INTEGER NOT NULL,
	priority         INTEGER NOT NULL DEFAULT 5,
	status           TEXT NOT NULL DEFAULT 'pending',
	meta             TEXT NOT NULL DEFAULT '{}',
	created_at       TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_schedules_user_start ON schedules(user_id, start_time);
`

// Store is the durable schedule collaborator backed by SQLite.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the store at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	log.Info().Str("path", path).Msg("schedule store opened")
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection. Used by tests with sqlmock.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the backing database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// List returns the user's schedules ordered by start time. A non-nil date
// restricts the result to entries starting on that calendar day.
func (s *Store) List(ctx context.Context, userID int64, date *time.Time) ([]Schedule, error) {
	var out []Schedule
	if date != nil {
		dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		dayEnd := dayStart.Add(24 * time.Hour)
		err := s.db.SelectContext(ctx, &out, `
			SELECT * FROM schedules
			WHERE user_id = ? AND start_time >= ? AND start_time < ?
			ORDER BY start_time`, userID, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("list schedules: %w", err)
		}
		return out, nil
	}
	err := s.db.SelectContext(ctx, &out, `
		SELECT * FROM schedules
		WHERE user_id = ?
		ORDER BY start_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return out, nil
}

// Save persists a new schedule and returns its id.
func (s *Store) Save(ctx context.Context, sc Schedule) (int64, error) {
	now := time.Now()
	if sc.Status == "" {
		sc.Status = "pending"
	}
	if sc.Meta == "" {
		sc.Meta = "{}"
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO schedules (user_id, title, description, start_time, end_time, duration_minutes, priority, status, meta, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.UserID, sc.Title, sc.Description, sc.StartTime, sc.EndTime,
		sc.DurationMinutes, sc.Priority, sc.Status, sc.Meta, now, now)
	if err != nil {
		return 0, fmt.Errorf("save schedule: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save schedule: %w", err)
	}
	return id, nil
}

// OptimizationResult reports on a stored schedule's fit within its day.
type OptimizationResult struct {
	ScheduleID       int64    `json:"schedule_id"`
	OptimizationType string   `json:"optimization_type"`
	EfficiencyScore  float64  `json:"efficiency_score"`
	Conflicts        []string `json:"conflicts"`
}

// Optimize checks a stored schedule against the rest of the user's day and
// scores it. Overlapping entries count as conflicts.
func (s *Store) Optimize(ctx context.Context, scheduleID int64, optimizationType string) (OptimizationResult, error) {
	if optimizationType == "" {
		optimizationType = "efficiency"
	}
	var sc Schedule
	if err := s.db.GetContext(ctx, &sc, `SELECT * FROM schedules WHERE id = ?`, scheduleID); err != nil {
		return OptimizationResult{}, fmt.Errorf("load schedule %d: %w", scheduleID, err)
	}

	var overlaps []Schedule
	err := s.db.SelectContext(ctx, &overlaps, `
		SELECT * FROM schedules
		WHERE user_id = ? AND id != ? AND start_time < ? AND end_time > ?
		ORDER BY start_time`, sc.UserID, sc.ID, sc.EndTime, sc.StartTime)
	if err != nil {
		return OptimizationResult{}, fmt.Errorf("find conflicts: %w", err)
	}

	result := OptimizationResult{
		ScheduleID:       scheduleID,
		OptimizationType: optimizationType,
		EfficiencyScore:  100,
	}
	for _, o := range overlaps {
		result.Conflicts = append(result.Conflicts,
			fmt.Sprintf("overlaps %q (%s - %s)", o.Title,
				o.StartTime.Format("15:04"), o.EndTime.Format("15:04")))
	}
	result.EfficiencyScore -= 15 * float64(len(result.Conflicts))
	if optimizationType == "focus" && sc.DurationMinutes > 120 {
		// long unbroken sessions score lower for focus optimization
		result.EfficiencyScore -= 10
	}
	if result.EfficiencyScore < 0 {
		result.EfficiencyScore = 0
	}
	return result, nil
}
