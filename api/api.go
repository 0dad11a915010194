package api

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/reverielabs/reverie/pkg/atlas"
	"github.com/reverielabs/reverie/pkg/chat"
	"github.com/reverielabs/reverie/pkg/records"
	"github.com/reverielabs/reverie/pkg/speech"
	"github.com/reverielabs/reverie/pkg/videoai"
)

// Services are the backends the server routes to. Atlas is required;
// everything else is optional and its routes answer 503 when absent.
type Services struct {
	// Atlas is the embedding geometry pipeline.
	Atlas *atlas.Service

	// Chat generates memory-grounded conversational replies.
	Chat *chat.Service

	// Speech synthesizes narration audio.
	Speech speech.Synthesizer

	// Video is the video understanding provider.
	Video videoai.Provider

	// Records persists video analysis records.
	Records records.Store

	// MCP is the mounted Model Context Protocol handler.
	MCP http.Handler
}

// Server is the HTTP API server for the reverie backend.
type Server struct {
	config   Config
	services Services
	logger   *slog.Logger
	app      *fiber.App
}

// NewServer creates a new API server. Services are injected to allow
// sharing with other components and swapping fakes in tests.
func NewServer(config Config, services Services, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		services: services,
		logger:   logger,
		app:      app,
	}

	app.Get("/ping", s.handlePing)

	v1 := app.Group("/v1")

	emb := v1.Group("/embeddings")
	emb.Post("/keywords", s.handleStoreKeywords)
	emb.Post("/map", s.handleMap)
	emb.Get("/similarity", s.handleSimilarity)
	emb.Get("/vectors", s.handleVectors)
	emb.Get("/search", s.handleSearch)
	emb.Delete("/collection", s.handleResetCollection)
	emb.Get("/stats", s.handleStats)

	v1.Post("/chat", s.handleChat)
	v1.Post("/speech", s.handleSpeech)

	v1.Post("/videos", s.handleCreateVideo)
	v1.Get("/videos", s.handleListVideos)
	v1.Get("/videos/tasks/:id", s.handleVideoTask)
	v1.Post("/videos/:id/analyze", s.handleAnalyzeVideo)

	v1.Post("/analyses", s.handleCreateAnalysis)
	v1.Get("/analyses", s.handleListAnalyses)
	v1.Get("/analyses/:id", s.handleGetAnalysis)
	v1.Put("/analyses/:id", s.handleUpdateAnalysis)
	v1.Delete("/analyses/:id", s.handleDeleteAnalysis)

	if services.MCP != nil {
		app.All("/mcp", adaptor.HTTPHandler(services.MCP))
	}

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}
