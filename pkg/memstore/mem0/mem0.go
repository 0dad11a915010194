// Package mem0 provides a memstore.Driver backed by the hosted mem0 REST
// API. Extraction and ranking happen server-side; this driver is a thin
// authenticated client.
package mem0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/reverielabs/reverie/pkg/memstore"
)

const (
	// DefaultBaseURL is the hosted mem0 API endpoint.
	DefaultBaseURL = "https://api.mem0.ai"

	// DefaultSearchLimit bounds the number of memories a search returns.
	DefaultSearchLimit = 10

	defaultTimeout = 30 * time.Second
)

// Config holds configuration for the mem0 driver.
type Config struct {
	// APIKey authenticates against the mem0 API. Required.
	APIKey string

	// BaseURL overrides the hosted endpoint, mainly for tests.
	BaseURL string

	// Logger receives request diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Driver implements memstore.Driver over the mem0 REST API.
type Driver struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewDriver creates a mem0-backed memory driver.
func NewDriver(cfg Config) (*Driver, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: mem0 api key is required", memstore.ErrNotConfigured)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Driver{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}, nil
}

type mem0Memory struct {
	ID     string  `json:"id"`
	Memory string  `json:"memory"`
	Score  float64 `json:"score"`
}

type addRequest struct {
	Messages []memstore.Message `json:"messages"`
	UserID   string             `json:"user_id"`
}

type searchRequest struct {
	Query   string         `json:"query"`
	Filters map[string]any `json:"filters"`
	Limit   int            `json:"limit"`
}

// Store submits the messages for server-side memory extraction.
func (d *Driver) Store(ctx context.Context, userID string, messages []memstore.Message) error {
	if len(messages) == 0 {
		return nil
	}

	payload := addRequest{
		Messages: messages,
		UserID:   userID,
	}
	if err := d.post(ctx, "/v1/memories/", payload, nil); err != nil {
		return fmt.Errorf("storing memories: %w", err)
	}

	d.logger.Debug("stored messages in mem0",
		"userID", userID,
		"messages", len(messages),
	)
	return nil
}

// Search asks mem0 for memories relevant to the query.
func (d *Driver) Search(ctx context.Context, userID, query string) ([]memstore.Memory, error) {
	payload := searchRequest{
		Query:   query,
		Filters: map[string]any{"user_id": userID},
		Limit:   DefaultSearchLimit,
	}

	var raw []mem0Memory
	if err := d.post(ctx, "/v2/memories/search/", payload, &raw); err != nil {
		return nil, fmt.Errorf("searching memories: %w", err)
	}

	return convert(raw), nil
}

// All returns every memory mem0 holds for the user.
func (d *Driver) All(ctx context.Context, userID string) ([]memstore.Memory, error) {
	endpoint := d.baseURL + "/v1/memories/?user_id=" + url.QueryEscape(userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing memories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mem0 returned status %d: %s", resp.StatusCode, string(body))
	}

	var raw []mem0Memory
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding memories: %w", err)
	}

	return convert(raw), nil
}

// Close is a no-op; the driver holds no persistent connections.
func (d *Driver) Close() error {
	return nil
}

// post sends a JSON payload and decodes the JSON response into out when out
// is non-nil.
func (d *Driver) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mem0 returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func convert(raw []mem0Memory) []memstore.Memory {
	out := make([]memstore.Memory, len(raw))
	for i, m := range raw {
		out[i] = memstore.Memory{
			ID:      m.ID,
			Content: m.Memory,
			Score:   m.Score,
		}
	}
	return out
}
