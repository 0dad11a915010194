package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/reverielabs/reverie/pkg/atlas"
	"github.com/reverielabs/reverie/pkg/chat"
	"github.com/reverielabs/reverie/pkg/geometry"
	"github.com/reverielabs/reverie/pkg/memstore"
	"github.com/reverielabs/reverie/pkg/records"
	"github.com/reverielabs/reverie/pkg/speech"
	"github.com/reverielabs/reverie/pkg/vector"
	"github.com/reverielabs/reverie/pkg/videoai"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Status: "error", Error: msg})
}

// fail maps a service error to its HTTP status. Upstream dependency
// failures become 502/503; domain errors become 4xx; everything else is a
// 500 with the error text.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, atlas.ErrNoEmbeddings):
		return errorJSON(c, fiber.StatusNotFound, "No embeddings found")
	case errors.Is(err, geometry.ErrInsufficientData):
		return errorJSON(c, fiber.StatusBadRequest, "No embeddings found")
	case errors.Is(err, geometry.ErrUnknownMethod),
		errors.Is(err, geometry.ErrDimensionMismatch),
		errors.Is(err, chat.ErrEmptyPrompt):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, records.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, records.ErrDuplicate):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, vector.ErrConnection),
		errors.Is(err, speech.ErrNotConfigured),
		errors.Is(err, videoai.ErrNotConfigured),
		errors.Is(err, memstore.ErrNotConfigured):
		return errorJSON(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, vector.ErrEmbedding),
		errors.Is(err, chat.ErrCompletion),
		errors.Is(err, speech.ErrSynthesis),
		errors.Is(err, videoai.ErrProvider):
		return errorJSON(c, fiber.StatusBadGateway, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
}
