package api_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reverielabs/reverie/pkg/memstore"
	"github.com/reverielabs/reverie/pkg/speech"
)

var _ = Describe("chat handlers", func() {
	var ts *testServer

	BeforeEach(func() {
		ts = newTestServer()
	})

	Describe("POST /v1/chat", func() {
		It("returns the generated reply", func() {
			status, body := ts.request(http.MethodPost, "/v1/chat", map[string]any{
				"user_id": "ada",
				"prompt":  "what did I do at the beach?",
			})

			Expect(status).To(Equal(http.StatusOK))
			Expect(body["status"]).To(Equal("success"))
			Expect(body["text"]).To(Equal("a canned reply"))
			Expect(body["model"]).NotTo(BeEmpty())
		})

		It("surfaces recalled memories in the response", func() {
			ts.memDriver.SearchResults = []memstore.Memory{
				{ID: "m1", Content: "I watched the sunset at Baker Beach", Score: 0.91},
			}

			status, body := ts.request(http.MethodPost, "/v1/chat", map[string]any{
				"user_id": "ada",
				"prompt":  "tell me about the beach",
			})

			Expect(status).To(Equal(http.StatusOK))
			memories, ok := body["memories"].([]any)
			Expect(ok).To(BeTrue())
			Expect(memories).To(HaveLen(1))
			first := memories[0].(map[string]any)
			Expect(first["memory"]).To(Equal("I watched the sunset at Baker Beach"))
		})

		It("stores the exchange back into memory", func() {
			status, _ := ts.request(http.MethodPost, "/v1/chat", map[string]any{
				"user_id": "ada",
				"prompt":  "remember this trip",
			})

			Expect(status).To(Equal(http.StatusOK))
			Expect(ts.memDriver.StoredMessages["ada"]).To(HaveLen(2))
			Expect(ts.memDriver.StoredMessages["ada"][0].Role).To(Equal("user"))
			Expect(ts.memDriver.StoredMessages["ada"][1].Role).To(Equal("assistant"))
		})

		It("rejects an empty prompt", func() {
			status, body := ts.request(http.MethodPost, "/v1/chat", map[string]any{
				"user_id": "ada",
			})

			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body["status"]).To(Equal("error"))
		})

		It("answers 502 when the completion backend fails", func() {
			ts.completer.Fail = true

			status, body := ts.request(http.MethodPost, "/v1/chat", map[string]any{
				"user_id": "ada",
				"prompt":  "hello",
			})

			Expect(status).To(Equal(http.StatusBadGateway))
			Expect(body["status"]).To(Equal("error"))
		})
	})

	Describe("POST /v1/speech", func() {
		It("returns base64 audio with alignment", func() {
			ts.synth.Result.Alignment = &speech.Alignment{
				Characters: []string{"h", "i"},
				StartTimes: []float64{0, 0.1},
				EndTimes:   []float64{0.1, 0.2},
			}

			status, body := ts.request(http.MethodPost, "/v1/speech", map[string]any{
				"text": "hi",
			})

			Expect(status).To(Equal(http.StatusOK))
			Expect(body["status"]).To(Equal("success"))
			Expect(body["audio_base64"]).To(Equal("QUJD"))
			alignment, ok := body["alignment"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(alignment["characters"]).To(HaveLen(2))

			Expect(ts.synth.Requests).To(HaveLen(1))
			Expect(ts.synth.Requests[0].Text).To(Equal("hi"))
		})

		It("passes voice and model overrides through", func() {
			status, _ := ts.request(http.MethodPost, "/v1/speech", map[string]any{
				"text":  "bonjour",
				"voice": "custom-voice",
				"model": "eleven_turbo_v2",
			})

			Expect(status).To(Equal(http.StatusOK))
			Expect(ts.synth.Requests[0].Voice).To(Equal("custom-voice"))
			Expect(ts.synth.Requests[0].Model).To(Equal("eleven_turbo_v2"))
		})

		It("rejects a missing text field", func() {
			status, body := ts.request(http.MethodPost, "/v1/speech", map[string]any{})

			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(Equal("text is required"))
		})

		It("answers 502 when synthesis fails", func() {
			ts.synth.FailWith = speech.ErrSynthesis

			status, _ := ts.request(http.MethodPost, "/v1/speech", map[string]any{
				"text": "hi",
			})

			Expect(status).To(Equal(http.StatusBadGateway))
		})
	})
})
