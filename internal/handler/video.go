package handler

import (
	"vidquiz/internal/domain"
	"vidquiz/internal/dto"
	"vidquiz/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// VideoHandler handles video processing HTTP requests
type VideoHandler struct {
	pipeline domain.VideoPipeline
}

// NewVideoHandler creates a new VideoHandler instance
func NewVideoHandler(pipeline domain.VideoPipeline) *VideoHandler {
	return &VideoHandler{
		pipeline: pipeline,
	}
}

// ProcessVideo handles POST /api/videos/questions
// It runs the full segment-to-question pipeline for one video and returns
// the ordered segments plus their generated questions.
func (h *VideoHandler) ProcessVideo(c *fiber.Ctx) error {
	var req dto.ProcessVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	logger.Get().Info("Processing video",
		zap.String("source_url", req.SourceURL),
		zap.Int("timestamps", len(req.Timestamps)))

	result, err := h.pipeline.Process(c.UserContext(), domain.ProcessRequest{
		SourceURL:      req.SourceURL,
		Timestamps:     req.Timestamps,
		QuestionCounts: req.QuestionCounts,
		Styles:         req.Styles(),
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.FromPipelineResult(result))
}
