// Package atlas orchestrates the embedding geometry pipeline: it embeds
// video keywords, persists them in a vector store, and projects the stored
// vectors into a 3D coordinate space for visualization. It is used by both
// the REST API endpoints and the MCP server tools.
package atlas

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reverielabs/reverie/pkg/embeddings"
	"github.com/reverielabs/reverie/pkg/geometry"
	"github.com/reverielabs/reverie/pkg/vector"
)

const (
	// DefaultTopK is the result count used when a search request does not
	// specify one.
	DefaultTopK = 10

	// DefaultSeed matches the original pipeline's fixed random state so
	// repeated map requests produce the same layout.
	DefaultSeed = 42
)

// Service wires an embedder and a vector store into the keyword pipeline.
// Construct one per process with New; all dependencies are explicit.
type Service struct {
	embedder   embeddings.Embedder
	store      vector.Driver
	collection string
	model      string
	logger     *slog.Logger
}

// New creates a Service over the given embedder and vector store.
func New(embedder embeddings.Embedder, store vector.Driver, opts ...Option) *Service {
	s := &Service{
		embedder:   embedder,
		store:      store,
		collection: "video_keywords",
		model:      "all-minilm",
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MapRequest configures a Map projection.
type MapRequest struct {
	Method string `json:"method,omitempty"`
	Dims   int    `json:"n_components,omitempty"`

	// Seed fixes the random state for reduction and clustering. Zero
	// means DefaultSeed; an explicit seed of 0 cannot be requested.
	Seed int64 `json:"random_state,omitempty"`
	Normalize   *bool  `json:"normalize_embeddings,omitempty"`
	Cluster     bool   `json:"cluster_after_reduction,omitempty"`
	NumClusters int    `json:"n_clusters,omitempty"`
}

// Point is one video placed in the reduced coordinate space.
type Point struct {
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Z        float64        `json:"z"`
	ID       string         `json:"id"`
	AssetID  string         `json:"indexed_asset_id"`
	Keywords []string       `json:"keywords"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ClusterInfo summarizes the k-means partition of a Map result.
type ClusterInfo struct {
	NumClusters int         `json:"n_clusters"`
	Centers     [][]float64 `json:"cluster_centers"`
}

// RecordRef identifies one stored video in a similarity matrix.
type RecordRef struct {
	ID      string `json:"id"`
	AssetID string `json:"indexed_asset_id"`
	Title   string `json:"title"`
}

// VectorRecord is one stored document with its raw embedding.
type VectorRecord struct {
	ID       string         `json:"id"`
	Vector   []float32      `json:"vector"`
	Document string         `json:"document"`
	Metadata map[string]any `json:"metadata"`
}

// Stats describes the state of the backing collection.
type Stats struct {
	TotalVideos int    `json:"total_videos"`
	Collection  string `json:"collection_name"`
	Model       string `json:"model_name"`
}

// StoreKeywords embeds a video's keywords as a single space-joined text and
// persists the resulting vector. The returned document id is
// "video_<assetID>_<8 hex chars>". Caller metadata is merged into the
// document metadata and may override the generated fields.
func (s *Service) StoreKeywords(ctx context.Context, assetID string, keywords []string, meta map[string]any) (string, error) {
	if assetID == "" {
		return "", fmt.Errorf("indexed asset id is required")
	}
	if len(keywords) == 0 {
		return "", fmt.Errorf("at least one keyword is required")
	}

	text := strings.Join(keywords, " ")
	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("failed to embed keywords: %w", err)
	}

	docMeta := map[string]any{
		"indexed_asset_id": assetID,
		"keywords":         keywords,
		"keyword_count":    len(keywords),
		"created_at":       time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		docMeta[k] = v
	}

	id := fmt.Sprintf("video_%s_%s", assetID, fmt.Sprintf("%x", uuid.New())[:8])

	doc := vector.Document{
		ID:        id,
		Text:      text,
		Embedding: embedding,
		Metadata:  docMeta,
	}
	if err := s.store.Add(ctx, []vector.Document{doc}); err != nil {
		return "", fmt.Errorf("failed to store keywords: %w", err)
	}

	s.logger.Info("stored video keywords",
		"assetID", assetID,
		"docID", id,
		"keywords", len(keywords),
	)
	return id, nil
}

// Map fetches every stored embedding and projects it into the reduced
// coordinate space. Points come back in store order, one per stored record.
// A single stored video is placed at the origin without invoking any
// reduction method. ClusterInfo is nil unless clustering was requested.
func (s *Service) Map(ctx context.Context, req MapRequest) ([]Point, *ClusterInfo, error) {
	docs, err := s.store.All(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch embeddings: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil, ErrNoEmbeddings
	}

	if len(docs) == 1 {
		point := pointFromDocument(docs[0], [3]float64{0, 0, 0}, nil, 0)
		return []Point{point}, nil, nil
	}

	method := req.Method
	if method == "" {
		method = string(geometry.MethodMDS)
	}
	parsed, err := geometry.ParseMethod(method)
	if err != nil {
		return nil, nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	normalize := true
	if req.Normalize != nil {
		normalize = *req.Normalize
	}

	vectors := make([][]float64, len(docs))
	for i, doc := range docs {
		vectors[i] = make([]float64, len(doc.Embedding))
		for j, x := range doc.Embedding {
			vectors[i][j] = float64(x)
		}
	}

	result, err := geometry.Reduce(vectors, geometry.Options{
		Method:      parsed,
		Dims:        req.Dims,
		Seed:        seed,
		Normalize:   normalize,
		Cluster:     req.Cluster,
		NumClusters: req.NumClusters,
	})
	if err != nil {
		return nil, nil, err
	}

	points := make([]Point, len(docs))
	for i, doc := range docs {
		coords := result.Coordinates[i]
		var xyz [3]float64
		for j := 0; j < len(coords) && j < 3; j++ {
			xyz[j] = coords[j]
		}
		if result.ClusterLabels != nil {
			points[i] = pointFromDocument(doc, xyz, &result.ClusterLabels[i], result.NumClusters)
		} else {
			points[i] = pointFromDocument(doc, xyz, nil, 0)
		}
	}

	var info *ClusterInfo
	if result.ClusterLabels != nil {
		info = &ClusterInfo{
			NumClusters: result.NumClusters,
			Centers:     result.ClusterCenters,
		}
	}

	s.logger.Debug("mapped embeddings",
		"points", len(points),
		"method", method,
	)
	return points, info, nil
}

// SimilarityMatrix computes pairwise cosine similarity over the raw stored
// vectors, independent of any projection. Row and column order matches the
// returned record refs.
func (s *Service) SimilarityMatrix(ctx context.Context) ([][]float64, []RecordRef, error) {
	docs, err := s.store.All(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch embeddings: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil, ErrNoEmbeddings
	}

	vectors := make([][]float64, len(docs))
	for i, doc := range docs {
		vectors[i] = make([]float64, len(doc.Embedding))
		for j, x := range doc.Embedding {
			vectors[i][j] = float64(x)
		}
	}

	matrix, err := geometry.CosineMatrix(vectors)
	if err != nil {
		return nil, nil, err
	}

	refs := make([]RecordRef, len(docs))
	for i, doc := range docs {
		refs[i] = RecordRef{
			ID:      doc.ID,
			AssetID: metaString(doc.Metadata, "indexed_asset_id"),
			Title:   metaString(doc.Metadata, "title"),
		}
	}
	return matrix, refs, nil
}

// Vectors returns every stored record with its raw embedding and metadata.
func (s *Service) Vectors(ctx context.Context) ([]VectorRecord, error) {
	docs, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vectors: %w", err)
	}

	records := make([]VectorRecord, len(docs))
	for i, doc := range docs {
		records[i] = VectorRecord{
			ID:       doc.ID,
			Vector:   doc.Embedding,
			Document: doc.Text,
			Metadata: doc.Metadata,
		}
	}
	return records, nil
}

// Search embeds the query text and returns the topK nearest stored records.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	results, err := s.store.Query(ctx, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}
	return results, nil
}

// SearchByVector returns the topK stored records nearest the raw vector.
func (s *Service) SearchByVector(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	results, err := s.store.Query(ctx, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}
	return results, nil
}

// Reset wipes every stored record, leaving an empty collection behind.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset collection: %w", err)
	}
	s.logger.Info("reset vector collection", "collection", s.collection)
	return nil
}

// CollectionStats reports the record count plus collection and model names.
func (s *Service) CollectionStats(ctx context.Context) (*Stats, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	return &Stats{
		TotalVideos: count,
		Collection:  s.collection,
		Model:       s.model,
	}, nil
}

// pointFromDocument builds a Point from a stored record. The point metadata
// is the document metadata minus the fields lifted into the Point itself,
// plus cluster assignment when clustering ran.
func pointFromDocument(doc vector.Document, xyz [3]float64, clusterID *int, totalClusters int) Point {
	meta := make(map[string]any, len(doc.Metadata))
	for k, v := range doc.Metadata {
		if k == "indexed_asset_id" || k == "keywords" {
			continue
		}
		meta[k] = v
	}
	if clusterID != nil {
		meta["cluster_id"] = *clusterID
		meta["total_clusters"] = totalClusters
	}

	return Point{
		X:        xyz[0],
		Y:        xyz[1],
		Z:        xyz[2],
		ID:       doc.ID,
		AssetID:  metaString(doc.Metadata, "indexed_asset_id"),
		Keywords: metaStrings(doc.Metadata, "keywords"),
		Metadata: meta,
	}
}

// metaString reads a string metadata field, tolerating absence.
func metaString(meta map[string]any, key string) string {
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

// metaStrings reads a string-slice metadata field. Stores that round-trip
// metadata through JSON hand back []any, so both shapes are accepted.
func metaStrings(meta map[string]any, key string) []string {
	switch v := meta[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
