package api

import (
	"github.com/gofiber/fiber/v2"
)

// CreateVideoRequest is the body for POST /v1/videos.
type CreateVideoRequest struct {
	VideoURL string `json:"video_url"`
}

// AnalyzeVideoRequest is the body for POST /v1/videos/:id/analyze.
type AnalyzeVideoRequest struct {
	// Kind selects the analysis: "gist", "summary", or "prompt".
	// Defaults to "summary".
	Kind string `json:"kind,omitempty"`

	// Prompt is the open-ended question, required when Kind is "prompt".
	Prompt string `json:"prompt,omitempty"`
}

// handleCreateVideo submits a video URL for indexing.
func (s *Server) handleCreateVideo(c *fiber.Ctx) error {
	if s.services.Video == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "video provider is not configured")
	}

	var req CreateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.VideoURL == "" {
		return errorJSON(c, fiber.StatusBadRequest, "video_url is required")
	}

	task, err := s.services.Video.CreateTask(c.Context(), req.VideoURL)
	if err != nil {
		return s.fail(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "success",
		"task":   task,
	})
}

// handleListVideos lists the indexed videos.
func (s *Server) handleListVideos(c *fiber.Ctx) error {
	if s.services.Video == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "video provider is not configured")
	}

	videos, err := s.services.Video.Videos(c.Context())
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"videos": videos,
		"total":  len(videos),
	})
}

// handleVideoTask reports the state of an indexing task.
func (s *Server) handleVideoTask(c *fiber.Ctx) error {
	if s.services.Video == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "video provider is not configured")
	}

	task, err := s.services.Video.Task(c.Context(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"task":   task,
	})
}

// handleAnalyzeVideo runs video understanding against an indexed video.
func (s *Server) handleAnalyzeVideo(c *fiber.Ctx) error {
	if s.services.Video == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "video provider is not configured")
	}

	videoID := c.Params("id")

	var req AnalyzeVideoRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	switch req.Kind {
	case "gist":
		gist, err := s.services.Video.Gist(c.Context(), videoID)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(fiber.Map{"status": "success", "gist": gist})

	case "prompt":
		if req.Prompt == "" {
			return errorJSON(c, fiber.StatusBadRequest, "prompt is required for kind \"prompt\"")
		}
		text, err := s.services.Video.Analyze(c.Context(), videoID, req.Prompt)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(fiber.Map{"status": "success", "analysis": text})

	case "", "summary":
		summary, err := s.services.Video.Summarize(c.Context(), videoID)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(fiber.Map{"status": "success", "summary": summary})

	default:
		return errorJSON(c, fiber.StatusBadRequest, "kind must be \"gist\", \"summary\", or \"prompt\"")
	}
}
