package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reverielabs/reverie/pkg/embeddings"
	"github.com/reverielabs/reverie/pkg/embeddings/ollama"
	"github.com/reverielabs/reverie/pkg/vector"
)

var _ = Describe("Ollama Embedder", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("NewEmbedder", func() {
		It("applies defaults for base URL and model", func() {
			e, err := ollama.NewEmbedder(ollama.EmbedderConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(e).NotTo(BeNil())
		})
	})

	Describe("Embed", func() {
		It("posts the model and input to the embed endpoint", func() {
			var gotPath string
			var gotBody map[string]any

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
				_, _ = w.Write([]byte(`{"embeddings": [[0.1, 0.2, 0.3]]}`))
			}))
			defer server.Close()

			e, err := ollama.NewEmbedder(ollama.EmbedderConfig{
				BaseURL: server.URL,
				Model:   "all-minilm",
			})
			Expect(err).NotTo(HaveOccurred())

			emb, err := e.Embed(ctx, "beach sunset waves")
			Expect(err).NotTo(HaveOccurred())

			Expect(gotPath).To(Equal("/api/embed"))
			Expect(gotBody["model"]).To(Equal("all-minilm"))
			Expect(gotBody["input"]).To(Equal("beach sunset waves"))
			Expect(emb).To(Equal([]float32{0.1, 0.2, 0.3}))
		})

		It("wraps API failures in vector.ErrEmbedding", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			}))
			defer server.Close()

			e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
			Expect(err).NotTo(HaveOccurred())

			_, err = e.Embed(ctx, "text")
			Expect(err).To(MatchError(vector.ErrEmbedding))
		})

		It("errors when the response carries no embeddings", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"embeddings": []}`))
			}))
			defer server.Close()

			e, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
			Expect(err).NotTo(HaveOccurred())

			_, err = e.Embed(ctx, "text")
			Expect(err).To(MatchError(vector.ErrEmbedding))
		})
	})

	Describe("Interface compliance", func() {
		It("implements embeddings.Embedder", func() {
			var _ embeddings.Embedder = (*ollama.Embedder)(nil)
		})
	})
})
