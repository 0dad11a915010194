// Package qdrant provides a Qdrant vector database driver implementation.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	qdrantclient "github.com/qdrant/go-client/qdrant"

	"github.com/reverielabs/reverie/pkg/vector"
)

const (
	// DefaultCollectionName is the default collection for video keyword embeddings.
	DefaultCollectionName = "video_keywords"

	// scrollPageSize bounds a full-collection scan. The working set here is
	// one document per analyzed video, so a single page is plenty.
	scrollPageSize = 10_000

	// payload keys used alongside the user metadata
	payloadKeyID   = "_doc_id"
	payloadKeyText = "_text"
)

// Driver implements vector.Driver using Qdrant's gRPC API.
type Driver struct {
	client         *qdrantclient.Client
	collectionName string
	dimensions     uint64
	logger         *slog.Logger
}

// Config holds configuration for the Qdrant driver.
type Config struct {
	// Host is the Qdrant server host (e.g., "localhost").
	Host string

	// Port is the Qdrant gRPC port (typically 6334).
	Port int

	// APIKey authenticates against Qdrant Cloud. Optional.
	APIKey string

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool

	// CollectionName is the name of the collection to use.
	// Defaults to DefaultCollectionName if empty.
	CollectionName string

	// Dimensions is the embedding dimensionality used when the collection
	// must be created.
	Dimensions uint
}

// NewDriver creates a new Qdrant vector driver. It verifies connectivity by
// ensuring the collection exists; failure marks the store unusable and returns
// an error wrapping vector.ErrConnection.
func NewDriver(c Config, logger *slog.Logger) (*Driver, error) {
	if c.Host == "" {
		return nil, fmt.Errorf("qdrant host is required")
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("qdrant embedding dimensions cannot be 0, must be configured")
	}

	collectionName := c.CollectionName
	if collectionName == "" {
		collectionName = DefaultCollectionName
	}

	client, err := qdrantclient.NewClient(&qdrantclient.Config{
		Host:   c.Host,
		Port:   c.Port,
		APIKey: c.APIKey,
		UseTLS: c.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating qdrant client: %v", vector.ErrConnection, err)
	}

	d := &Driver{
		client:         client,
		collectionName: collectionName,
		dimensions:     uint64(c.Dimensions),
		logger:         logger,
	}

	if err := d.ensureCollection(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ensuring collection %q: %v", vector.ErrConnection, collectionName, err)
	}

	logger.Info("connected to Qdrant",
		"host", c.Host,
		"port", c.Port,
		"collection", collectionName,
	)

	return d, nil
}

// ensureCollection creates the collection if it does not exist yet.
func (d *Driver) ensureCollection(ctx context.Context) error {
	exists, err := d.client.CollectionExists(ctx, d.collectionName)
	if err != nil {
		return fmt.Errorf("checking collection: %w", err)
	}
	if exists {
		return nil
	}

	err = d.client.CreateCollection(ctx, &qdrantclient.CreateCollection{
		CollectionName: d.collectionName,
		VectorsConfig: qdrantclient.NewVectorsConfig(&qdrantclient.VectorParams{
			Size:     d.dimensions,
			Distance: qdrantclient.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// pointID derives a stable UUID point id from a document id, so re-adding a
// document with the same id upserts rather than duplicates. Qdrant point ids
// must be integers or UUIDs; our document ids are neither.
func pointID(docID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(docID)).String()
}

// Add stores documents with their embeddings, text, and metadata.
func (d *Driver) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*qdrantclient.PointStruct, len(docs))
	for i, doc := range docs {
		payload := make(map[string]any, len(doc.Metadata)+2)
		for k, v := range doc.Metadata {
			payload[k] = v
		}
		payload[payloadKeyID] = doc.ID
		payload[payloadKeyText] = doc.Text

		points[i] = &qdrantclient.PointStruct{
			Id:      qdrantclient.NewID(pointID(doc.ID)),
			Vectors: qdrantclient.NewVectorsDense(doc.Embedding),
			Payload: qdrantclient.NewValueMap(payload),
		}
	}

	_, err := d.client.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: d.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}

	d.logger.Debug("added documents to qdrant",
		"count", len(docs),
	)

	return nil
}

// documentFromPayload rebuilds a vector.Document from a Qdrant payload and
// dense vector data.
func documentFromPayload(payload map[string]*qdrantclient.Value, data []float32) vector.Document {
	doc := vector.Document{
		Embedding: data,
		Metadata:  make(map[string]any, len(payload)),
	}

	for k, v := range payload {
		switch k {
		case payloadKeyID:
			doc.ID = v.GetStringValue()
		case payloadKeyText:
			doc.Text = v.GetStringValue()
		default:
			doc.Metadata[k] = valueToAny(v)
		}
	}

	return doc
}

// valueToAny converts a Qdrant payload value back to a plain Go value.
func valueToAny(v *qdrantclient.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrantclient.Value_StringValue:
		return kind.StringValue
	case *qdrantclient.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrantclient.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrantclient.Value_BoolValue:
		return kind.BoolValue
	case *qdrantclient.Value_ListValue:
		values := kind.ListValue.GetValues()
		list := make([]any, len(values))
		for i, item := range values {
			list[i] = valueToAny(item)
		}
		return list
	case *qdrantclient.Value_StructValue:
		fields := kind.StructValue.GetFields()
		m := make(map[string]any, len(fields))
		for k, item := range fields {
			m[k] = valueToAny(item)
		}
		return m
	default:
		return nil
	}
}

// All returns every document in the collection with embeddings, text, and metadata.
func (d *Driver) All(ctx context.Context) ([]vector.Document, error) {
	points, err := d.client.Scroll(ctx, &qdrantclient.ScrollPoints{
		CollectionName: d.collectionName,
		Limit:          qdrantclient.PtrOf(uint32(scrollPageSize)),
		WithPayload:    qdrantclient.NewWithPayload(true),
		WithVectors:    qdrantclient.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("scrolling points: %w", err)
	}

	docs := make([]vector.Document, len(points))
	for i, p := range points {
		docs[i] = documentFromPayload(p.GetPayload(), p.GetVectors().GetVector().GetData())
	}

	d.logger.Debug("fetched all documents from qdrant",
		"count", len(docs),
	)

	return docs, nil
}

// Query finds the topK most similar documents to the given embedding.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	points, err := d.client.Query(ctx, &qdrantclient.QueryPoints{
		CollectionName: d.collectionName,
		Query:          qdrantclient.NewQueryDense(embedding),
		Limit:          qdrantclient.PtrOf(uint64(topK)),
		WithPayload:    qdrantclient.NewWithPayload(true),
		WithVectors:    qdrantclient.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}

	results := make([]vector.QueryResult, len(points))
	for i, p := range points {
		results[i] = vector.QueryResult{
			Document: documentFromPayload(p.GetPayload(), p.GetVectors().GetVector().GetData()),
			Score:    p.GetScore(),
		}
	}

	d.logger.Debug("queried qdrant",
		"results", len(results),
	)

	return results, nil
}

// Count returns the number of stored documents.
func (d *Driver) Count(ctx context.Context) (int, error) {
	count, err := d.client.Count(ctx, &qdrantclient.CountPoints{
		CollectionName: d.collectionName,
		Exact:          qdrantclient.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("counting points: %w", err)
	}
	return int(count), nil
}

// Reset deletes the collection and recreates it empty.
func (d *Driver) Reset(ctx context.Context) error {
	if err := d.client.DeleteCollection(ctx, d.collectionName); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}

	if err := d.ensureCollection(ctx); err != nil {
		return fmt.Errorf("recreating collection %q: %w", d.collectionName, err)
	}

	d.logger.Info("reset qdrant collection",
		"collection", d.collectionName,
	)

	return nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	return d.client.Close()
}

var _ vector.Driver = (*Driver)(nil)
