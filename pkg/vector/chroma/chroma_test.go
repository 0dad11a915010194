package chroma_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reverielabs/reverie/pkg/logger"
	"github.com/reverielabs/reverie/pkg/vector"
	"github.com/reverielabs/reverie/pkg/vector/chroma"
)

var _ = Describe("Driver", func() {
	var (
		ctx context.Context
		log *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		log = logger.Nop()
	})

	// collectionServer answers the get-collection probe made at
	// construction, then delegates everything else to handle.
	collectionServer := func(handle http.HandlerFunc) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/collections/video_keywords") {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]string{
					"id":   "coll-1",
					"name": "video_keywords",
				})
				return
			}
			handle(w, r)
		}))
	}

	newDriver := func(url string) *chroma.Driver {
		driver, err := chroma.NewDriver(chroma.Config{
			URL:        url,
			MaxRetries: 1,
			RetryDelay: time.Millisecond,
		}, log)
		Expect(err).NotTo(HaveOccurred())
		return driver
	}

	Describe("NewDriver", func() {
		It("returns an error when URL is empty", func() {
			_, err := chroma.NewDriver(chroma.Config{URL: ""}, log)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("chroma URL is required"))
		})

		It("succeeds after retrying when Chroma becomes available", func() {
			var attempts atomic.Int32

			// The GET for the collection and the POST to create it are
			// separate requests; each retry cycle may hit both. Fail the
			// first 4 requests to simulate Chroma still starting up.
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempt := attempts.Add(1)
				if attempt <= 4 {
					http.Error(w, "service unavailable", http.StatusServiceUnavailable)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]string{
					"id":   "coll-1",
					"name": "video_keywords",
				})
			}))
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{
				URL:           server.URL,
				MaxRetries:    5,
				RetryDelay:    10 * time.Millisecond,
				MaxRetryDelay: 50 * time.Millisecond,
			}, log)
			Expect(err).NotTo(HaveOccurred())
			Expect(driver).NotTo(BeNil())
			Expect(attempts.Load()).To(BeNumerically(">=", int32(5)))
		})

		It("wraps exhaustion of all retries in ErrConnection", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			}))
			defer server.Close()

			_, err := chroma.NewDriver(chroma.Config{
				URL:           server.URL,
				MaxRetries:    3,
				RetryDelay:    10 * time.Millisecond,
				MaxRetryDelay: 50 * time.Millisecond,
			}, log)
			Expect(err).To(MatchError(vector.ErrConnection))
			Expect(err.Error()).To(ContainSubstring("after 3 attempts"))
		})
	})

	Describe("Add", func() {
		It("upserts documents against the collection id", func() {
			var gotPath string
			var gotBody map[string]any

			server := collectionServer(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
				w.WriteHeader(http.StatusOK)
			})
			defer server.Close()

			driver := newDriver(server.URL)
			err := driver.Add(ctx, []vector.Document{
				{
					ID:        "video_a_00000001",
					Text:      "beach sunset waves",
					Embedding: []float32{0.1, 0.2, 0.3},
					Metadata:  map[string]any{"indexed_asset_id": "a"},
				},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(gotPath).To(HaveSuffix("/collections/coll-1/upsert"))
			Expect(gotBody["ids"]).To(ConsistOf("video_a_00000001"))
			Expect(gotBody["documents"]).To(ConsistOf("beach sunset waves"))
		})

		It("does nothing for an empty batch", func() {
			called := false
			server := collectionServer(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})
			defer server.Close()

			driver := newDriver(server.URL)
			Expect(driver.Add(ctx, nil)).To(Succeed())
			Expect(called).To(BeFalse())
		})
	})

	Describe("All", func() {
		It("returns every document with embeddings and metadata", func() {
			server := collectionServer(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(HaveSuffix("/collections/coll-1/get"))
				_, _ = w.Write([]byte(`{
					"ids": ["doc-1", "doc-2"],
					"documents": ["beach sunset", "mountain hike"],
					"embeddings": [[0.1, 0.2], [0.3, 0.4]],
					"metadatas": [{"indexed_asset_id": "a"}, {"indexed_asset_id": "b"}]
				}`))
			})
			defer server.Close()

			driver := newDriver(server.URL)
			docs, err := driver.All(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(docs).To(HaveLen(2))
			Expect(docs[0].ID).To(Equal("doc-1"))
			Expect(docs[0].Text).To(Equal("beach sunset"))
			Expect(docs[0].Embedding).To(Equal([]float32{0.1, 0.2}))
			Expect(docs[1].Metadata).To(HaveKeyWithValue("indexed_asset_id", "b"))
		})
	})

	Describe("Query", func() {
		It("converts distances to similarity scores", func() {
			server := collectionServer(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(HaveSuffix("/collections/coll-1/query"))
				_, _ = w.Write([]byte(`{
					"ids": [["doc-1", "doc-2"]],
					"distances": [[0.0, 1.0]],
					"documents": [["beach", "mountain"]],
					"embeddings": [[[0.1], [0.2]]],
					"metadatas": [[{}, {}]]
				}`))
			})
			defer server.Close()

			driver := newDriver(server.URL)
			results, err := driver.Query(ctx, []float32{0.1}, 2)
			Expect(err).NotTo(HaveOccurred())

			Expect(results).To(HaveLen(2))
			Expect(results[0].Score).To(BeNumerically("~", 1.0, 1e-6))
			Expect(results[1].Score).To(BeNumerically("~", 0.5, 1e-6))
		})

		It("returns no results for an empty collection", func() {
			server := collectionServer(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"ids": [[]], "distances": [[]]}`))
			})
			defer server.Close()

			driver := newDriver(server.URL)
			results, err := driver.Query(ctx, []float32{0.1}, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})
	})

	Describe("Count", func() {
		It("returns the document count", func() {
			server := collectionServer(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(HaveSuffix("/collections/coll-1/count"))
				_, _ = w.Write([]byte(`7`))
			})
			defer server.Close()

			driver := newDriver(server.URL)
			count, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(7))
		})
	})

	Describe("Reset", func() {
		It("deletes and recreates the collection", func() {
			var deleted atomic.Bool

			server := collectionServer(func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodDelete {
					deleted.Store(true)
					w.WriteHeader(http.StatusOK)
					return
				}
				http.Error(w, "unexpected request", http.StatusBadRequest)
			})
			defer server.Close()

			driver := newDriver(server.URL)
			Expect(driver.Reset(ctx)).To(Succeed())
			Expect(deleted.Load()).To(BeTrue())
		})
	})

	Describe("Interface compliance", func() {
		It("implements vector.Driver", func() {
			var _ vector.Driver = (*chroma.Driver)(nil)
		})
	})
})
