package api_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reverielabs/reverie/api"
	"github.com/reverielabs/reverie/pkg/atlas"
	"github.com/reverielabs/reverie/pkg/logger"
	"github.com/reverielabs/reverie/pkg/videoai"
)

var _ = Describe("video handlers", func() {
	var ts *testServer

	BeforeEach(func() {
		ts = newTestServer()
	})

	Describe("POST /v1/videos", func() {
		It("accepts a video url for indexing", func() {
			status, body := ts.request(http.MethodPost, "/v1/videos", map[string]any{
				"video_url": "https://example.com/trip.mp4",
			})

			Expect(status).To(Equal(http.StatusAccepted))
			Expect(body["status"]).To(Equal("success"))
			task, ok := body["task"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(task["id"]).To(Equal("task-1"))
			Expect(task["status"]).To(Equal("pending"))
		})

		It("rejects a missing video_url", func() {
			status, body := ts.request(http.MethodPost, "/v1/videos", map[string]any{})

			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(Equal("video_url is required"))
		})

		It("answers 502 when the provider fails", func() {
			ts.video.FailWith = videoai.ErrProvider

			status, _ := ts.request(http.MethodPost, "/v1/videos", map[string]any{
				"video_url": "https://example.com/trip.mp4",
			})

			Expect(status).To(Equal(http.StatusBadGateway))
		})
	})

	Describe("GET /v1/videos", func() {
		It("lists indexed videos with a total", func() {
			ts.video.VideoList = []videoai.Video{
				{ID: "vid-1", Filename: "beach.mp4", Duration: 12.5},
				{ID: "vid-2", Filename: "hike.mp4", Duration: 33},
			}

			status, body := ts.request(http.MethodGet, "/v1/videos", nil)

			Expect(status).To(Equal(http.StatusOK))
			Expect(body["total"]).To(BeEquivalentTo(2))
			videos, ok := body["videos"].([]any)
			Expect(ok).To(BeTrue())
			first := videos[0].(map[string]any)
			Expect(first["id"]).To(Equal("vid-1"))
			Expect(first["filename"]).To(Equal("beach.mp4"))
		})
	})

	Describe("GET /v1/videos/tasks/:id", func() {
		It("reports task state for the requested id", func() {
			ts.video.TaskResult = videoai.Task{Status: "ready", VideoID: "vid-9"}

			status, body := ts.request(http.MethodGet, "/v1/videos/tasks/task-42", nil)

			Expect(status).To(Equal(http.StatusOK))
			task := body["task"].(map[string]any)
			Expect(task["id"]).To(Equal("task-42"))
			Expect(task["status"]).To(Equal("ready"))
			Expect(task["video_id"]).To(Equal("vid-9"))
		})
	})

	Describe("POST /v1/videos/:id/analyze", func() {
		It("defaults to a summary", func() {
			ts.video.SummaryText = "a day at the beach"

			status, body := ts.request(http.MethodPost, "/v1/videos/vid-1/analyze", map[string]any{})

			Expect(status).To(Equal(http.StatusOK))
			Expect(body["summary"]).To(Equal("a day at the beach"))
		})

		It("summarizes without a body at all", func() {
			ts.video.SummaryText = "a day at the beach"

			status, body := ts.request(http.MethodPost, "/v1/videos/vid-1/analyze", nil)

			Expect(status).To(Equal(http.StatusOK))
			Expect(body["summary"]).To(Equal("a day at the beach"))
		})

		It("returns a gist when asked", func() {
			ts.video.GistResult = videoai.Gist{
				Title:    "Beach Day",
				Topics:   []string{"travel"},
				Hashtags: []string{"#beach"},
			}

			status, body := ts.request(http.MethodPost, "/v1/videos/vid-1/analyze", map[string]any{
				"kind": "gist",
			})

			Expect(status).To(Equal(http.StatusOK))
			gist := body["gist"].(map[string]any)
			Expect(gist["title"]).To(Equal("Beach Day"))
			Expect(gist["hashtags"]).To(ContainElement("#beach"))
		})

		It("runs an open-ended prompt", func() {
			ts.video.AnalysisText = "the dog appears at 0:42"

			status, body := ts.request(http.MethodPost, "/v1/videos/vid-1/analyze", map[string]any{
				"kind":   "prompt",
				"prompt": "when does the dog appear?",
			})

			Expect(status).To(Equal(http.StatusOK))
			Expect(body["analysis"]).To(Equal("the dog appears at 0:42"))
			Expect(ts.video.Prompts).To(ContainElement("when does the dog appear?"))
		})

		It("rejects a prompt kind without a prompt", func() {
			status, _ := ts.request(http.MethodPost, "/v1/videos/vid-1/analyze", map[string]any{
				"kind": "prompt",
			})

			Expect(status).To(Equal(http.StatusBadRequest))
		})

		It("rejects an unknown kind", func() {
			status, _ := ts.request(http.MethodPost, "/v1/videos/vid-1/analyze", map[string]any{
				"kind": "transcript",
			})

			Expect(status).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("without a video provider", func() {
		It("answers 503 on every video route", func() {
			bare := api.NewServer(api.Config{}, api.Services{
				Atlas: atlas.New(ts.embedder, ts.store, atlas.WithLogger(logger.Nop())),
			}, logger.Nop())
			bareTS := &testServer{server: bare}

			status, _ := bareTS.request(http.MethodGet, "/v1/videos", nil)
			Expect(status).To(Equal(http.StatusServiceUnavailable))

			status, _ = bareTS.request(http.MethodPost, "/v1/videos", map[string]any{
				"video_url": "https://example.com/x.mp4",
			})
			Expect(status).To(Equal(http.StatusServiceUnavailable))
		})
	})
})
