// Package audit keeps an append-only SQLite record of artifact-generation
// requests for operator inspection.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record is one generation or link request outcome.
type Record struct {
	ID         string        `json:"id"`
	ArtifactID string        `json:"artifact_id"`
	Command    string        `json:"command"`
	Template   string        `json:"template,omitempty"`
	Bucket     string        `json:"bucket,omitempty"`
	Status     string        `json:"status"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Store is a SQLite-backed audit log.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the audit database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize audit schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS artifact_requests (
		id TEXT PRIMARY KEY,
		artifact_id TEXT NOT NULL,
		command TEXT NOT NULL,
		template TEXT,
		bucket TEXT,
		status TEXT NOT NULL,
		error TEXT,
		duration_ns INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_artifact_requests_created_at
		ON artifact_requests(created_at DESC)`)
	return err
}

// Record appends one request outcome. A missing ID or timestamp is filled
// in.
func (s *Store) Record(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO artifact_requests
		(id, artifact_id, command, template, bucket, status, error, duration_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ArtifactID, rec.Command, rec.Template, rec.Bucket,
		rec.Status, rec.Error, rec.Duration.Nanoseconds(), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("record artifact request: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, artifact_id, command, template, bucket, status, error, duration_ns, created_at
		FROM artifact_requests ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list artifact requests: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var durationNS int64
		if err := rows.Scan(&rec.ID, &rec.ArtifactID, &rec.Command, &rec.Template,
			&rec.Bucket, &rec.Status, &rec.Error, &durationNS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan artifact request: %w", err)
		}
		rec.Duration = time.Duration(durationNS)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
