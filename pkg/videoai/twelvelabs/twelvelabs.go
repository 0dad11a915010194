// Package twelvelabs implements pkg/videoai's Provider against the Twelve
// Labs REST API.
package twelvelabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/reverielabs/reverie/pkg/videoai"
)

const (
	// DefaultBaseURL is the hosted Twelve Labs API endpoint.
	DefaultBaseURL = "https://api.twelvelabs.io"

	apiVersion     = "/v1.3"
	defaultTimeout = 120 * time.Second
)

// Config holds configuration for the Twelve Labs client.
type Config struct {
	// APIKey authenticates against the Twelve Labs API. Required.
	APIKey string

	// IndexID is the index videos are uploaded to. Required.
	IndexID string

	// BaseURL overrides the hosted endpoint, mainly for tests.
	BaseURL string
}

// Client wraps the Twelve Labs indexing and analysis endpoints.
type Client struct {
	apiKey  string
	indexID string
	baseURL string
	client  *http.Client
}

// NewClient creates a Twelve Labs video understanding client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: twelve labs api key is required", videoai.ErrNotConfigured)
	}
	if cfg.IndexID == "" {
		return nil, fmt.Errorf("%w: twelve labs index id is required", videoai.ErrNotConfigured)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		apiKey:  cfg.APIKey,
		indexID: cfg.IndexID,
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}, nil
}

type taskResponse struct {
	ID      string `json:"_id"`
	VideoID string `json:"video_id"`
	Status  string `json:"status"`
}

func (t taskResponse) task() *videoai.Task {
	return &videoai.Task{ID: t.ID, VideoID: t.VideoID, Status: t.Status}
}

// CreateTask submits a video URL for indexing.
func (c *Client) CreateTask(ctx context.Context, videoURL string) (*videoai.Task, error) {
	if videoURL == "" {
		return nil, fmt.Errorf("%w: video url is required", videoai.ErrProvider)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("index_id", c.indexID); err != nil {
		return nil, fmt.Errorf("%w: building form: %v", videoai.ErrProvider, err)
	}
	if err := form.WriteField("video_url", videoURL); err != nil {
		return nil, fmt.Errorf("%w: building form: %v", videoai.ErrProvider, err)
	}
	if err := form.WriteField("enable_video_stream", "true"); err != nil {
		return nil, fmt.Errorf("%w: building form: %v", videoai.ErrProvider, err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("%w: building form: %v", videoai.ErrProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiVersion+"/tasks", &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", videoai.ErrProvider, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("x-api-key", c.apiKey)

	var decoded taskResponse
	if err := c.do(req, &decoded); err != nil {
		return nil, err
	}
	return decoded.task(), nil
}

// Task fetches the current state of an indexing task.
func (c *Client) Task(ctx context.Context, id string) (*videoai.Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+apiVersion+"/tasks/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", videoai.ErrProvider, err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	var decoded taskResponse
	if err := c.do(req, &decoded); err != nil {
		return nil, err
	}
	return decoded.task(), nil
}

type videoResponse struct {
	ID             string `json:"_id"`
	CreatedAt      string `json:"created_at"`
	SystemMetadata struct {
		Filename string  `json:"filename"`
		Duration float64 `json:"duration"`
	} `json:"system_metadata"`
	HLS struct {
		VideoURL string `json:"video_url"`
	} `json:"hls"`
}

func (v videoResponse) video() videoai.Video {
	return videoai.Video{
		ID:        v.ID,
		Filename:  v.SystemMetadata.Filename,
		Duration:  v.SystemMetadata.Duration,
		CreatedAt: v.CreatedAt,
		StreamURL: v.HLS.VideoURL,
	}
}

// Videos lists the videos in the configured index.
func (c *Client) Videos(ctx context.Context) ([]videoai.Video, error) {
	endpoint := fmt.Sprintf("%s%s/indexes/%s/videos", c.baseURL, apiVersion, url.PathEscape(c.indexID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", videoai.ErrProvider, err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	var decoded struct {
		Data []videoResponse `json:"data"`
	}
	if err := c.do(req, &decoded); err != nil {
		return nil, err
	}

	videos := make([]videoai.Video, len(decoded.Data))
	for i, v := range decoded.Data {
		videos[i] = v.video()
	}
	return videos, nil
}

// Video fetches a single indexed video, including its HLS stream URL.
func (c *Client) Video(ctx context.Context, id string) (*videoai.Video, error) {
	endpoint := fmt.Sprintf("%s%s/indexes/%s/videos/%s",
		c.baseURL, apiVersion, url.PathEscape(c.indexID), url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", videoai.ErrProvider, err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	var decoded videoResponse
	if err := c.do(req, &decoded); err != nil {
		return nil, err
	}

	video := decoded.video()
	return &video, nil
}

// Gist returns title, topics, and hashtags for a video.
func (c *Client) Gist(ctx context.Context, videoID string) (*videoai.Gist, error) {
	payload := map[string]any{
		"video_id": videoID,
		"types":    []string{"title", "topic", "hashtag"},
	}

	var decoded struct {
		Title    string   `json:"title"`
		Topics   []string `json:"topics"`
		Hashtags []string `json:"hashtags"`
	}
	if err := c.postJSON(ctx, "/gist", payload, &decoded); err != nil {
		return nil, err
	}

	return &videoai.Gist{
		Title:    decoded.Title,
		Topics:   decoded.Topics,
		Hashtags: decoded.Hashtags,
	}, nil
}

// Summarize returns a prose summary of a video.
func (c *Client) Summarize(ctx context.Context, videoID string) (string, error) {
	payload := map[string]any{
		"video_id": videoID,
		"type":     "summary",
	}

	var decoded struct {
		Summary string `json:"summary"`
	}
	if err := c.postJSON(ctx, "/summarize", payload, &decoded); err != nil {
		return "", err
	}
	return decoded.Summary, nil
}

// Analyze runs an open-ended prompt against a video.
func (c *Client) Analyze(ctx context.Context, videoID, prompt string) (string, error) {
	payload := map[string]any{
		"video_id": videoID,
		"prompt":   prompt,
		"stream":   false,
	}

	var decoded struct {
		Data string `json:"data"`
	}
	if err := c.postJSON(ctx, "/analyze", payload, &decoded); err != nil {
		return "", err
	}
	return decoded.Data, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encoding request: %v", videoai.ErrProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiVersion+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", videoai.ErrProvider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending request: %v", videoai.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: twelve labs returned status %d: %s", videoai.ErrProvider, resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("%w: decoding response: %v", videoai.ErrProvider, err)
	}
	return nil
}
