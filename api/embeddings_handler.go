package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/reverielabs/reverie/pkg/atlas"
)

// StoreKeywordsRequest is the body for POST /v1/embeddings/keywords.
type StoreKeywordsRequest struct {
	IndexedAssetID string         `json:"indexed_asset_id"`
	Keywords       []string       `json:"keywords"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// handleStoreKeywords embeds and stores a video's keywords.
func (s *Server) handleStoreKeywords(c *fiber.Ctx) error {
	var req StoreKeywordsRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.IndexedAssetID == "" {
		return errorJSON(c, fiber.StatusBadRequest, "indexed_asset_id is required")
	}
	if len(req.Keywords) == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "keywords are required")
	}

	docID, err := s.services.Atlas.StoreKeywords(c.Context(), req.IndexedAssetID, req.Keywords, req.Metadata)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"doc_id": docID,
	})
}

// handleMap projects every stored embedding into 3D coordinates.
func (s *Server) handleMap(c *fiber.Ctx) error {
	var req atlas.MapRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	points, clusters, err := s.services.Atlas.Map(c.Context(), req)
	if err != nil {
		return s.fail(c, err)
	}

	method := req.Method
	if method == "" {
		method = "mds"
	}

	resp := fiber.Map{
		"status":       "success",
		"points":       points,
		"method":       method,
		"total_videos": len(points),
	}
	if clusters != nil {
		resp["clusters"] = clusters
	}
	return c.JSON(resp)
}

// handleSimilarity returns the pairwise cosine similarity matrix.
func (s *Server) handleSimilarity(c *fiber.Ctx) error {
	matrix, refs, err := s.services.Atlas.SimilarityMatrix(c.Context())
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":            "success",
		"similarity_matrix": matrix,
		"videos":            refs,
		"count":             len(refs),
	})
}

// handleVectors dumps every stored vector with its metadata.
func (s *Server) handleVectors(c *fiber.Ctx) error {
	vectors, err := s.services.Atlas.Vectors(c.Context())
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"vectors": vectors,
		"total":   len(vectors),
	})
}

// handleSearch finds stored videos similar to a text query.
// Query parameters:
//   - query (required): the search query text
//   - top_k (optional, default 10): number of results to return
func (s *Server) handleSearch(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return errorJSON(c, fiber.StatusBadRequest, "query parameter is required")
	}

	topK := 0
	if raw := c.Query("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return errorJSON(c, fiber.StatusBadRequest, "top_k must be a positive integer")
		}
		topK = parsed
	}

	results, err := s.services.Atlas.Search(c.Context(), query, topK)
	if err != nil {
		return s.fail(c, err)
	}

	formatted := make([]fiber.Map, len(results))
	for i, r := range results {
		formatted[i] = fiber.Map{
			"doc_id":   r.ID,
			"score":    r.Score,
			"document": r.Text,
			"metadata": r.Metadata,
		}
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"results": formatted,
	})
}

// handleResetCollection wipes the vector collection.
func (s *Server) handleResetCollection(c *fiber.Ctx) error {
	if err := s.services.Atlas.Reset(c.Context()); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// handleStats returns collection statistics.
func (s *Server) handleStats(c *fiber.Ctx) error {
	stats, err := s.services.Atlas.CollectionStats(c.Context())
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"stats":  stats,
	})
}
