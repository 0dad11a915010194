// Package records persists video analysis results: the AI-generated
// description of each indexed video, keyed by its video id.
package records

import (
	"context"
	"errors"
	"time"
)

// Analysis is one stored video analysis record.
type Analysis struct {
	ID          string    `json:"id"`
	VideoID     string    `json:"video_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store is the persistence interface for analysis records.
type Store interface {
	// Create inserts a new record for the given video id.
	Create(ctx context.Context, videoID, description string) (*Analysis, error)

	// Get returns the record for the given video id.
	Get(ctx context.Context, videoID string) (*Analysis, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]*Analysis, error)

	// Update replaces the description for the given video id.
	Update(ctx context.Context, videoID, description string) (*Analysis, error)

	// Delete removes the record for the given video id.
	Delete(ctx context.Context, videoID string) error

	// Close releases the underlying database handle.
	Close() error
}

var (
	// ErrNotFound is returned when no record exists for a video id.
	ErrNotFound = errors.New("analysis record not found")

	// ErrDuplicate is returned when creating a record for a video id that
	// already has one.
	ErrDuplicate = errors.New("analysis record already exists")
)
