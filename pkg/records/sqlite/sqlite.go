// Package sqlite provides a SQLite-backed analysis record store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/reverielabs/reverie/pkg/records"
)

const schema = `
CREATE TABLE IF NOT EXISTS video_analyses (
	id         TEXT PRIMARY KEY,
	video_id   TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// Store implements records.Store on a SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the analysis record database at dbPath.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Create(ctx context.Context, videoID, description string) (*records.Analysis, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video id is required")
	}

	now := time.Now().UTC()
	analysis := &records.Analysis{
		ID:          uuid.NewString(),
		VideoID:     videoID,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO video_analyses (id, video_id, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		analysis.ID, analysis.VideoID, analysis.Description, analysis.CreatedAt, analysis.UpdatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return nil, fmt.Errorf("%w: video %s", records.ErrDuplicate, videoID)
		}
		return nil, fmt.Errorf("failed to insert analysis: %w", err)
	}

	return analysis, nil
}

func (s *Store) Get(ctx context.Context, videoID string) (*records.Analysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, video_id, description, created_at, updated_at
		 FROM video_analyses WHERE video_id = ?`,
		videoID,
	)
	return scanAnalysis(row, videoID)
}

func (s *Store) List(ctx context.Context) ([]*records.Analysis, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, video_id, description, created_at, updated_at
		 FROM video_analyses ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var out []*records.Analysis
	for rows.Next() {
		var a records.Analysis
		if err := rows.Scan(&a.ID, &a.VideoID, &a.Description, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, videoID, description string) (*records.Analysis, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`UPDATE video_analyses SET description = ?, updated_at = ? WHERE video_id = ?`,
		description, now, videoID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update analysis: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: video %s", records.ErrNotFound, videoID)
	}

	return s.Get(ctx, videoID)
}

func (s *Store) Delete(ctx context.Context, videoID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM video_analyses WHERE video_id = ?`,
		videoID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: video %s", records.ErrNotFound, videoID)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func scanAnalysis(row *sql.Row, videoID string) (*records.Analysis, error) {
	var a records.Analysis
	err := row.Scan(&a.ID, &a.VideoID, &a.Description, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: video %s", records.ErrNotFound, videoID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan analysis: %w", err)
	}
	return &a, nil
}
