package api_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reverielabs/reverie/api"
	"github.com/reverielabs/reverie/pkg/atlas"
	"github.com/reverielabs/reverie/pkg/logger"
	recordsqlite "github.com/reverielabs/reverie/pkg/records/sqlite"
	testutils "github.com/reverielabs/reverie/pkg/utils/test"
)

var _ = Describe("analysis record handlers", func() {
	var (
		ts      *testServer
		records *recordsqlite.Store
	)

	BeforeEach(func() {
		var err error
		records, err = recordsqlite.New(":memory:")
		Expect(err).NotTo(HaveOccurred())

		embedder := testutils.NewMockEmbedder()
		store := testutils.NewMockVectorDriver()
		server := api.NewServer(api.Config{}, api.Services{
			Atlas:   atlas.New(embedder, store, atlas.WithLogger(logger.Nop())),
			Records: records,
		}, logger.Nop())
		ts = &testServer{server: server, embedder: embedder, store: store}
	})

	AfterEach(func() {
		Expect(records.Close()).To(Succeed())
	})

	Describe("POST /v1/analyses", func() {
		It("stores a new analysis record", func() {
			status, body := ts.request(http.MethodPost, "/v1/analyses", map[string]any{
				"video_id":    "vid-1",
				"description": "a walk through the park",
			})

			Expect(status).To(Equal(http.StatusCreated))
			Expect(body["status"]).To(Equal("success"))
			analysis := body["analysis"].(map[string]any)
			Expect(analysis["video_id"]).To(Equal("vid-1"))
			Expect(analysis["description"]).To(Equal("a walk through the park"))
			Expect(analysis["id"]).NotTo(BeEmpty())
		})

		It("rejects a missing video_id", func() {
			status, body := ts.request(http.MethodPost, "/v1/analyses", map[string]any{
				"description": "no video",
			})

			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(Equal("video_id is required"))
		})

		It("rejects a missing description", func() {
			status, body := ts.request(http.MethodPost, "/v1/analyses", map[string]any{
				"video_id": "vid-1",
			})

			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(Equal("description is required"))
		})

		It("answers 409 for a duplicate video id", func() {
			status, _ := ts.request(http.MethodPost, "/v1/analyses", map[string]any{
				"video_id":    "vid-1",
				"description": "first",
			})
			Expect(status).To(Equal(http.StatusCreated))

			status, body := ts.request(http.MethodPost, "/v1/analyses", map[string]any{
				"video_id":    "vid-1",
				"description": "second",
			})
			Expect(status).To(Equal(http.StatusConflict))
			Expect(body["status"]).To(Equal("error"))
		})
	})

	Describe("GET /v1/analyses", func() {
		It("lists stored records with a total", func() {
			for _, id := range []string{"vid-1", "vid-2"} {
				status, _ := ts.request(http.MethodPost, "/v1/analyses", map[string]any{
					"video_id":    id,
					"description": "desc for " + id,
				})
				Expect(status).To(Equal(http.StatusCreated))
			}

			status, body := ts.request(http.MethodGet, "/v1/analyses", nil)

			Expect(status).To(Equal(http.StatusOK))
			Expect(body["total"]).To(BeEquivalentTo(2))
			Expect(body["analyses"].([]any)).To(HaveLen(2))
		})

		It("returns an empty list when nothing is stored", func() {
			status, body := ts.request(http.MethodGet, "/v1/analyses", nil)

			Expect(status).To(Equal(http.StatusOK))
			Expect(body["total"]).To(BeEquivalentTo(0))
		})
	})

	Describe("GET /v1/analyses/:id", func() {
		It("fetches a record by video id", func() {
			status, _ := ts.request(http.MethodPost, "/v1/analyses", map[string]any{
				"video_id":    "vid-1",
				"description": "a walk through the park",
			})
			Expect(status).To(Equal(http.StatusCreated))

			status, body := ts.request(http.MethodGet, "/v1/analyses/vid-1", nil)

			Expect(status).To(Equal(http.StatusOK))
			analysis := body["analysis"].(map[string]any)
			Expect(analysis["description"]).To(Equal("a walk through the park"))
		})

		It("answers 404 for an unknown video id", func() {
			status, body := ts.request(http.MethodGet, "/v1/analyses/missing", nil)

			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body["status"]).To(Equal("error"))
		})
	})

	Describe("PUT /v1/analyses/:id", func() {
		It("replaces the description", func() {
			status, _ := ts.request(http.MethodPost, "/v1/analyses", map[string]any{
				"video_id":    "vid-1",
				"description": "old description",
			})
			Expect(status).To(Equal(http.StatusCreated))

			status, body := ts.request(http.MethodPut, "/v1/analyses/vid-1", map[string]any{
				"description": "new description",
			})

			Expect(status).To(Equal(http.StatusOK))
			analysis := body["analysis"].(map[string]any)
			Expect(analysis["description"]).To(Equal("new description"))
		})

		It("rejects an empty description", func() {
			status, _ := ts.request(http.MethodPut, "/v1/analyses/vid-1", map[string]any{})

			Expect(status).To(Equal(http.StatusBadRequest))
		})

		It("answers 404 for an unknown video id", func() {
			status, _ := ts.request(http.MethodPut, "/v1/analyses/missing", map[string]any{
				"description": "anything",
			})

			Expect(status).To(Equal(http.StatusNotFound))
		})
	})

	Describe("DELETE /v1/analyses/:id", func() {
		It("removes the record", func() {
			status, _ := ts.request(http.MethodPost, "/v1/analyses", map[string]any{
				"video_id":    "vid-1",
				"description": "to be removed",
			})
			Expect(status).To(Equal(http.StatusCreated))

			status, body := ts.request(http.MethodDelete, "/v1/analyses/vid-1", nil)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body["status"]).To(Equal("success"))

			status, _ = ts.request(http.MethodGet, "/v1/analyses/vid-1", nil)
			Expect(status).To(Equal(http.StatusNotFound))
		})

		It("answers 404 for an unknown video id", func() {
			status, _ := ts.request(http.MethodDelete, "/v1/analyses/missing", nil)

			Expect(status).To(Equal(http.StatusNotFound))
		})
	})

	Describe("without a records store", func() {
		It("answers 503", func() {
			bare := newTestServer()
			status, _ := bare.request(http.MethodGet, "/v1/analyses", nil)
			Expect(status).To(Equal(http.StatusServiceUnavailable))
		})
	})
})
