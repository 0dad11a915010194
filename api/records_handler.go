package api

import (
	"github.com/gofiber/fiber/v2"
)

// AnalysisRequest is the body for creating or updating an analysis record.
// The :id route parameter, when present, takes precedence over VideoID.
type AnalysisRequest struct {
	VideoID     string `json:"video_id"`
	Description string `json:"description"`
}

// handleCreateAnalysis stores a new video analysis record.
func (s *Server) handleCreateAnalysis(c *fiber.Ctx) error {
	if s.services.Records == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "analysis records are not configured")
	}

	var req AnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.VideoID == "" {
		return errorJSON(c, fiber.StatusBadRequest, "video_id is required")
	}
	if req.Description == "" {
		return errorJSON(c, fiber.StatusBadRequest, "description is required")
	}

	analysis, err := s.services.Records.Create(c.Context(), req.VideoID, req.Description)
	if err != nil {
		return s.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":   "success",
		"analysis": analysis,
	})
}

// handleListAnalyses lists every stored analysis record, newest first.
func (s *Server) handleListAnalyses(c *fiber.Ctx) error {
	if s.services.Records == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "analysis records are not configured")
	}

	analyses, err := s.services.Records.List(c.Context())
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"analyses": analyses,
		"total":    len(analyses),
	})
}

// handleGetAnalysis fetches the analysis record for a video id.
func (s *Server) handleGetAnalysis(c *fiber.Ctx) error {
	if s.services.Records == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "analysis records are not configured")
	}

	analysis, err := s.services.Records.Get(c.Context(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"analysis": analysis,
	})
}

// handleUpdateAnalysis replaces the description on an existing record.
func (s *Server) handleUpdateAnalysis(c *fiber.Ctx) error {
	if s.services.Records == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "analysis records are not configured")
	}

	var req AnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Description == "" {
		return errorJSON(c, fiber.StatusBadRequest, "description is required")
	}

	analysis, err := s.services.Records.Update(c.Context(), c.Params("id"), req.Description)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"analysis": analysis,
	})
}

// handleDeleteAnalysis removes the analysis record for a video id.
func (s *Server) handleDeleteAnalysis(c *fiber.Ctx) error {
	if s.services.Records == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "analysis records are not configured")
	}

	if err := s.services.Records.Delete(c.Context(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{"status": "success"})
}
