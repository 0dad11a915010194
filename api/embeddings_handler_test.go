package api_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reverielabs/reverie/pkg/vector"
)

var _ = Describe("Embeddings endpoints", func() {
	var ts *testServer

	BeforeEach(func() {
		ts = newTestServer()
	})

	seed := func(id, assetID, text string, emb []float32) {
		ts.store.Documents = append(ts.store.Documents, vector.Document{
			ID:        id,
			Text:      text,
			Embedding: emb,
			Metadata: map[string]any{
				"indexed_asset_id": assetID,
				"keywords":         []any{text},
			},
		})
	}

	Describe("POST /v1/embeddings/keywords", func() {
		It("stores keywords and returns the document id", func() {
			status, body := ts.request(http.MethodPost, "/v1/embeddings/keywords", map[string]any{
				"indexed_asset_id": "asset123",
				"keywords":         []string{"beach", "sunset"},
			})

			Expect(status).To(Equal(http.StatusOK))
			Expect(body["status"]).To(Equal("success"))
			Expect(body["doc_id"]).To(MatchRegexp(`^video_asset123_[0-9a-f]{8}$`))
			Expect(ts.store.Documents).To(HaveLen(1))
			Expect(ts.store.Documents[0].Text).To(Equal("beach sunset"))
		})

		It("rejects a missing asset id", func() {
			status, body := ts.request(http.MethodPost, "/v1/embeddings/keywords", map[string]any{
				"keywords": []string{"beach"},
			})
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body["status"]).To(Equal("error"))
		})

		It("rejects empty keywords", func() {
			status, _ := ts.request(http.MethodPost, "/v1/embeddings/keywords", map[string]any{
				"indexed_asset_id": "asset123",
				"keywords":         []string{},
			})
			Expect(status).To(Equal(http.StatusBadRequest))
		})

		It("maps embedder failures to 502", func() {
			ts.embedder.FailOn = "beach"

			status, _ := ts.request(http.MethodPost, "/v1/embeddings/keywords", map[string]any{
				"indexed_asset_id": "asset123",
				"keywords":         []string{"beach"},
			})
			Expect(status).To(Equal(http.StatusBadGateway))
		})
	})

	Describe("POST /v1/embeddings/map", func() {
		It("answers 404 with a stable message when the store is empty", func() {
			status, body := ts.request(http.MethodPost, "/v1/embeddings/map", map[string]any{})
			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body["status"]).To(Equal("error"))
			Expect(body["error"]).To(Equal("No embeddings found"))
		})

		It("places a single video at the origin", func() {
			seed("doc-1", "a", "beach sunset", []float32{0.1, 0.2, 0.3})

			status, body := ts.request(http.MethodPost, "/v1/embeddings/map", map[string]any{})
			Expect(status).To(Equal(http.StatusOK))
			Expect(body["status"]).To(Equal("success"))
			Expect(body["total_videos"]).To(BeNumerically("==", 1))

			points := body["points"].([]any)
			point := points[0].(map[string]any)
			Expect(point["x"]).To(BeNumerically("==", 0))
			Expect(point["y"]).To(BeNumerically("==", 0))
			Expect(point["z"]).To(BeNumerically("==", 0))
			Expect(point["indexed_asset_id"]).To(Equal("a"))
		})

		It("projects multiple videos and reports the method", func() {
			seed("doc-1", "a", "beach sunset", []float32{1, 0, 0, 0})
			seed("doc-2", "b", "mountain hike", []float32{0, 1, 0, 0})
			seed("doc-3", "c", "city night", []float32{0, 0, 1, 0})

			status, body := ts.request(http.MethodPost, "/v1/embeddings/map", map[string]any{
				"method": "pca",
			})
			Expect(status).To(Equal(http.StatusOK))
			Expect(body["method"]).To(Equal("pca"))
			Expect(body["points"]).To(HaveLen(3))
		})

		It("attaches cluster info when requested", func() {
			seed("doc-1", "a", "beach sunset", []float32{1, 0, 0, 0})
			seed("doc-2", "b", "mountain hike", []float32{0, 1, 0, 0})
			seed("doc-3", "c", "city night", []float32{0, 0, 1, 0})

			status, body := ts.request(http.MethodPost, "/v1/embeddings/map", map[string]any{
				"method":                  "pca",
				"cluster_after_reduction": true,
			})
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(HaveKey("clusters"))
		})

		It("rejects an unknown method", func() {
			seed("doc-1", "a", "beach sunset", []float32{1, 0, 0})
			seed("doc-2", "b", "mountain hike", []float32{0, 1, 0})

			status, _ := ts.request(http.MethodPost, "/v1/embeddings/map", map[string]any{
				"method": "umap",
			})
			Expect(status).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /v1/embeddings/similarity", func() {
		It("returns the matrix with video references", func() {
			seed("doc-1", "a", "beach sunset", []float32{1, 0})
			seed("doc-2", "b", "mountain hike", []float32{0, 1})

			status, body := ts.request(http.MethodGet, "/v1/embeddings/similarity", nil)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body["count"]).To(BeNumerically("==", 2))

			matrix := body["similarity_matrix"].([]any)
			Expect(matrix).To(HaveLen(2))
			row := matrix[0].([]any)
			Expect(row[0]).To(BeNumerically("~", 1.0, 1e-6))
			Expect(row[1]).To(BeNumerically("~", 0.0, 1e-6))
		})

		It("answers 404 when the store is empty", func() {
			status, body := ts.request(http.MethodGet, "/v1/embeddings/similarity", nil)
			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body["error"]).To(Equal("No embeddings found"))
		})
	})

	Describe("GET /v1/embeddings/vectors", func() {
		It("dumps every stored vector", func() {
			seed("doc-1", "a", "beach sunset", []float32{1, 0})

			status, body := ts.request(http.MethodGet, "/v1/embeddings/vectors", nil)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body["total"]).To(BeNumerically("==", 1))
			vectors := body["vectors"].([]any)
			first := vectors[0].(map[string]any)
			Expect(first["id"]).To(Equal("doc-1"))
			Expect(first["document"]).To(Equal("beach sunset"))
		})
	})

	Describe("GET /v1/embeddings/search", func() {
		It("requires a query parameter", func() {
			status, _ := ts.request(http.MethodGet, "/v1/embeddings/search", nil)
			Expect(status).To(Equal(http.StatusBadRequest))
		})

		It("returns ranked results", func() {
			seed("doc-1", "a", "beach sunset", []float32{0.1, 0.2, 0.3})

			status, body := ts.request(http.MethodGet, "/v1/embeddings/search?query=beach", nil)
			Expect(status).To(Equal(http.StatusOK))
			results := body["results"].([]any)
			Expect(results).To(HaveLen(1))
			first := results[0].(map[string]any)
			Expect(first["doc_id"]).To(Equal("doc-1"))
		})

		It("rejects a non-numeric top_k", func() {
			status, _ := ts.request(http.MethodGet, "/v1/embeddings/search?query=beach&top_k=many", nil)
			Expect(status).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("DELETE /v1/embeddings/collection", func() {
		It("wipes the collection", func() {
			seed("doc-1", "a", "beach sunset", []float32{1, 0})

			status, body := ts.request(http.MethodDelete, "/v1/embeddings/collection", nil)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body["status"]).To(Equal("success"))
			Expect(ts.store.Documents).To(BeEmpty())
		})
	})

	Describe("GET /v1/embeddings/stats", func() {
		It("reports collection statistics", func() {
			seed("doc-1", "a", "beach sunset", []float32{1, 0})

			status, body := ts.request(http.MethodGet, "/v1/embeddings/stats", nil)
			Expect(status).To(Equal(http.StatusOK))

			stats := body["stats"].(map[string]any)
			Expect(stats["total_videos"]).To(BeNumerically("==", 1))
			Expect(stats["collection_name"]).To(Equal("video_keywords"))
		})

		It("maps store connection failures to 503", func() {
			ts.store.FailWith = vector.ErrConnection

			status, _ := ts.request(http.MethodGet, "/v1/embeddings/stats", nil)
			Expect(status).To(Equal(http.StatusServiceUnavailable))
		})
	})
})
