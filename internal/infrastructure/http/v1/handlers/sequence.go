package handlers

import (
	"github.com/gin-gonic/gin"

	"numera/internal/core/sequence"
	"numera/internal/domain/rules"
	"numera/internal/infrastructure/http/v1/dto"
)

// SequenceHandler issues and previews document numbers.
type SequenceHandler struct {
	*BaseHandler
	generator sequence.Generator
}

// NewSequenceHandler creates a new sequence handler.
func NewSequenceHandler(generator sequence.Generator) *SequenceHandler {
	return &SequenceHandler{
		BaseHandler: NewBaseHandler(),
		generator:   generator,
	}
}

// Generate issues the next number for a rule.
// POST /api/v1/sequences/:code/generate
func (h *SequenceHandler) Generate(c *gin.Context) {
	code := rules.NormalizeCode(c.Param("code"))

	number, err := h.generator.Generate(c.Request.Context(), code)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.GenerateResponse{
		RuleCode: code,
		Number:   number,
	})
}

// Preview returns what Generate would currently produce, without reserving it.
// GET /api/v1/sequences/:code/preview
func (h *SequenceHandler) Preview(c *gin.Context) {
	code := rules.NormalizeCode(c.Param("code"))

	number, err := h.generator.PreviewNextNumber(c.Request.Context(), code)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.PreviewResponse{
		RuleCode: code,
		Number:   number,
	})
}
