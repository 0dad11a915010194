// Package videoai defines the video understanding surface. Videos are
// uploaded to a hosted index, analyzed into text (gists, summaries, open
// prompts), and that text feeds the keyword embedding pipeline.
package videoai

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured indicates the provider is missing required
	// configuration (e.g., an API key or index id).
	ErrNotConfigured = errors.New("video provider not configured")

	// ErrProvider indicates the video understanding backend failed.
	ErrProvider = errors.New("video provider request failed")
)

// Task tracks an indexing job for an uploaded video.
type Task struct {
	ID      string `json:"id"`
	VideoID string `json:"video_id,omitempty"`
	Status  string `json:"status"`
}

// Ready reports whether indexing finished successfully.
func (t Task) Ready() bool { return t.Status == "ready" }

// Failed reports whether indexing failed.
func (t Task) Failed() bool { return t.Status == "failed" }

// Video is an indexed video.
type Video struct {
	ID        string  `json:"id"`
	Filename  string  `json:"filename,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`

	// StreamURL is the HLS playback URL, when streaming was enabled at
	// upload time.
	StreamURL string `json:"stream_url,omitempty"`
}

// Gist is the quick structured read on a video.
type Gist struct {
	Title    string   `json:"title,omitempty"`
	Topics   []string `json:"topics,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
}

// Provider is a video understanding backend.
type Provider interface {
	// CreateTask submits a video URL for indexing and returns the
	// tracking task.
	CreateTask(ctx context.Context, videoURL string) (*Task, error)

	// Task fetches the current state of an indexing task.
	Task(ctx context.Context, id string) (*Task, error)

	// Videos lists the indexed videos.
	Videos(ctx context.Context) ([]Video, error)

	// Video fetches a single indexed video, including its stream URL.
	Video(ctx context.Context, id string) (*Video, error)

	// Gist returns title, topics, and hashtags for a video.
	Gist(ctx context.Context, videoID string) (*Gist, error)

	// Summarize returns a prose summary of a video.
	Summarize(ctx context.Context, videoID string) (string, error)

	// Analyze runs an open-ended prompt against a video.
	Analyze(ctx context.Context, videoID, prompt string) (string, error)
}
