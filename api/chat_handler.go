package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/reverielabs/reverie/pkg/chat"
	"github.com/reverielabs/reverie/pkg/speech"
)

// handleChat generates a conversational reply grounded in stored memories.
func (s *Server) handleChat(c *fiber.Ctx) error {
	if s.services.Chat == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "chat is not configured")
	}

	var req chat.Request
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	reply, err := s.services.Chat.Reply(c.Context(), req)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"text":     reply.Text,
		"model":    reply.Model,
		"memories": reply.Memories,
	})
}

// handleSpeech synthesizes narration audio with character timestamps.
func (s *Server) handleSpeech(c *fiber.Ctx) error {
	if s.services.Speech == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "speech is not configured")
	}

	var req speech.Request
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Text == "" {
		return errorJSON(c, fiber.StatusBadRequest, "text is required")
	}

	synthesis, err := s.services.Speech.Synthesize(c.Context(), req)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"audio_base64": synthesis.AudioBase64,
		"alignment":    synthesis.Alignment,
	})
}
