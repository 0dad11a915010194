// Package chroma provides a Chroma vector database driver implementation.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/reverielabs/reverie/pkg/vector"
)

const (
	// DefaultCollectionName is the default collection for video keyword embeddings.
	DefaultCollectionName = "video_keywords"

	// DefaultMaxRetries is the number of connection attempts made at construction.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the initial delay between connection attempts.
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay caps the exponential backoff between attempts.
	DefaultMaxRetryDelay = 5 * time.Second
)

// Driver implements vector.Driver using Chroma's REST API.
type Driver struct {
	baseURL        string
	collectionName string
	httpClient     *http.Client
	logger         *slog.Logger

	// collectionID is refreshed by Reset; guarded for safety since the
	// driver is shared across requests.
	mu           sync.Mutex
	collectionID string
}

// Config holds configuration for the Chroma driver.
type Config struct {
	// URL is the Chroma server URL (e.g., "http://localhost:8000").
	URL string

	// CollectionName is the name of the collection to use.
	// Defaults to DefaultCollectionName if empty.
	CollectionName string

	// MaxRetries is the number of connection attempts made at construction.
	MaxRetries int

	// RetryDelay is the initial delay between connection attempts.
	RetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff between attempts.
	MaxRetryDelay time.Duration
}

// NewDriver creates a new Chroma vector driver. It verifies connectivity by
// getting or creating the collection, retrying with exponential backoff; if
// every attempt fails the driver is not usable and an error wrapping
// vector.ErrConnection is returned.
func NewDriver(c Config, logger *slog.Logger) (*Driver, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("chroma URL is required")
	}

	collectionName := c.CollectionName
	if collectionName == "" {
		collectionName = DefaultCollectionName
	}

	maxRetries := c.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	retryDelay := c.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	maxRetryDelay := c.MaxRetryDelay
	if maxRetryDelay <= 0 {
		maxRetryDelay = DefaultMaxRetryDelay
	}

	d := &Driver{
		baseURL:        c.URL,
		collectionName: collectionName,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}

	var (
		collectionID string
		err          error
	)
	delay := retryDelay
	for attempt := 1; attempt <= maxRetries; attempt++ {
		collectionID, err = d.getOrCreateCollection(context.Background())
		if err == nil {
			break
		}
		if attempt < maxRetries {
			logger.Debug("chroma not ready, retrying",
				"attempt", attempt,
				"delay", delay,
				"error", err,
			)
			time.Sleep(delay)
			delay *= 2
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getting or creating collection %q after %d attempts: %v",
			vector.ErrConnection, collectionName, maxRetries, err)
	}
	d.collectionID = collectionID

	logger.Info("connected to Chroma",
		"url", c.URL,
		"collection", collectionName,
		"collection_id", collectionID,
	)

	return d, nil
}

func (d *Driver) collectionsURL() string {
	return fmt.Sprintf("%s/api/v2/tenants/default_tenant/databases/default_database/collections", d.baseURL)
}

func (d *Driver) currentCollectionID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.collectionID
}

// getOrCreateCollection gets an existing collection or creates a new one.
func (d *Driver) getOrCreateCollection(ctx context.Context) (string, error) {
	// Try to get existing collection first
	url := fmt.Sprintf("%s/%s", d.collectionsURL(), d.collectionName)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("creating get request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending get request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var collection chromaCollection
		if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
			return "", fmt.Errorf("decoding collection response: %w", err)
		}
		return collection.ID, nil
	}

	// Collection doesn't exist, create it
	createBody := map[string]string{"name": d.collectionName}
	jsonBody, err := json.Marshal(createBody)
	if err != nil {
		return "", fmt.Errorf("marshaling create request: %w", err)
	}

	req, err = http.NewRequestWithContext(ctx, "POST", d.collectionsURL(), bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err = d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending create request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to create collection: status %d: %s", resp.StatusCode, string(body))
	}

	var collection chromaCollection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return "", fmt.Errorf("decoding create response: %w", err)
	}

	return collection.ID, nil
}

// Add stores documents with their embeddings, text, and metadata.
// Documents with an existing ID are updated in place (Chroma upsert).
func (d *Driver) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, len(docs))
	embeddings := make([][]float32, len(docs))
	metadatas := make([]map[string]any, len(docs))
	documents := make([]string, len(docs))

	for i, doc := range docs {
		ids[i] = doc.ID
		embeddings[i] = doc.Embedding
		metadatas[i] = doc.Metadata
		documents[i] = doc.Text
	}

	reqBody := chromaAddRequest{
		IDs:        ids,
		Embeddings: embeddings,
		Metadatas:  metadatas,
		Documents:  documents,
	}

	url := fmt.Sprintf("%s/%s/upsert", d.collectionsURL(), d.currentCollectionID())
	if err := d.post(ctx, url, reqBody, nil); err != nil {
		return fmt.Errorf("upserting documents: %w", err)
	}

	d.logger.Debug("added documents to chroma",
		"count", len(docs),
	)

	return nil
}

// All returns every document in the collection with embeddings, text, and metadata.
func (d *Driver) All(ctx context.Context) ([]vector.Document, error) {
	reqBody := chromaGetRequest{
		Include: []string{"metadatas", "embeddings", "documents"},
	}

	var getResp chromaGetResponse
	url := fmt.Sprintf("%s/%s/get", d.collectionsURL(), d.currentCollectionID())
	if err := d.post(ctx, url, reqBody, &getResp); err != nil {
		return nil, fmt.Errorf("getting documents: %w", err)
	}

	docs := make([]vector.Document, len(getResp.IDs))
	for i, id := range getResp.IDs {
		docs[i] = vector.Document{ID: id}

		if i < len(getResp.Metadatas) {
			docs[i].Metadata = getResp.Metadatas[i]
		}
		if i < len(getResp.Embeddings) {
			docs[i].Embedding = getResp.Embeddings[i]
		}
		if i < len(getResp.Documents) {
			docs[i].Text = getResp.Documents[i]
		}
	}

	d.logger.Debug("fetched all documents from chroma",
		"count", len(docs),
	)

	return docs, nil
}

// Query finds the topK most similar documents to the given embedding.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	reqBody := chromaQueryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        topK,
		Include:         []string{"metadatas", "distances", "embeddings", "documents"},
	}

	var queryResp chromaQueryResponse
	url := fmt.Sprintf("%s/%s/query", d.collectionsURL(), d.currentCollectionID())
	if err := d.post(ctx, url, reqBody, &queryResp); err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}

	var results []vector.QueryResult

	// Process first group (we only query with one embedding)
	if len(queryResp.IDs) == 0 || len(queryResp.IDs[0]) == 0 {
		return results, nil
	}

	ids := queryResp.IDs[0]
	distances := queryResp.Distances[0]

	var metadatas []map[string]any
	if len(queryResp.Metadatas) > 0 {
		metadatas = queryResp.Metadatas[0]
	}

	var embeddings [][]float32
	if len(queryResp.Embeddings) > 0 {
		embeddings = queryResp.Embeddings[0]
	}

	var documents []string
	if len(queryResp.Documents) > 0 {
		documents = queryResp.Documents[0]
	}

	for i, id := range ids {
		result := vector.QueryResult{
			Document: vector.Document{
				ID: id,
			},
		}

		if i < len(metadatas) {
			result.Metadata = metadatas[i]
		}
		if i < len(embeddings) {
			result.Embedding = embeddings[i]
		}
		if i < len(documents) {
			result.Text = documents[i]
		}

		// Convert distance to similarity score.
		// Lower distance = higher similarity.
		if i < len(distances) {
			result.Score = 1.0 / (1.0 + distances[i])
		}

		results = append(results, result)
	}

	d.logger.Debug("queried chroma",
		"results", len(results),
	)

	return results, nil
}

// Count returns the number of documents in the collection.
func (d *Driver) Count(ctx context.Context) (int, error) {
	url := fmt.Sprintf("%s/%s/count", d.collectionsURL(), d.currentCollectionID())

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating count request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: sending count request: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("failed to count documents: status %d: %s", resp.StatusCode, string(body))
	}

	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("decoding count response: %w", err)
	}

	return count, nil
}

// Reset deletes the collection and recreates it empty. Stored documents are
// irrecoverably gone afterwards.
func (d *Driver) Reset(ctx context.Context) error {
	url := fmt.Sprintf("%s/%s", d.collectionsURL(), d.collectionName)

	req, err := http.NewRequestWithContext(ctx, "DELETE", url, nil)
	if err != nil {
		return fmt.Errorf("creating delete request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending delete request: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to delete collection: status %d: %s", resp.StatusCode, string(body))
	}

	collectionID, err := d.getOrCreateCollection(ctx)
	if err != nil {
		return fmt.Errorf("recreating collection %q: %w", d.collectionName, err)
	}

	d.mu.Lock()
	d.collectionID = collectionID
	d.mu.Unlock()

	d.logger.Info("reset chroma collection",
		"collection", d.collectionName,
		"collection_id", collectionID,
	)

	return nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// post sends a JSON POST and decodes the JSON response into out.
func (d *Driver) post(ctx context.Context, url string, in, out any) error {
	jsonBody, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending request: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

var _ vector.Driver = (*Driver)(nil)
