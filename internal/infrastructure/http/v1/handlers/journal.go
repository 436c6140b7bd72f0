package handlers

import (
	"github.com/gin-gonic/gin"

	"numera/internal/domain/rules"
	"numera/internal/infrastructure/http/v1/dto"
	"numera/internal/infrastructure/storage/postgres"
)

// JournalHandler exposes the issuance journal.
type JournalHandler struct {
	*BaseHandler
	journal *postgres.JournalService
}

// NewJournalHandler creates a new journal handler.
func NewJournalHandler(journal *postgres.JournalService) *JournalHandler {
	return &JournalHandler{
		BaseHandler: NewBaseHandler(),
		journal:     journal,
	}
}

// List returns issued numbers, newest first.
// GET /api/v1/journal
func (h *JournalHandler) List(c *gin.Context) {
	var req dto.ListJournalRequest
	if !h.BindQuery(c, &req) {
		return
	}
	req.Defaults()

	entries, err := h.journal.List(c.Request.Context(), postgres.JournalFilter{
		RuleCode: rules.NormalizeCode(req.RuleCode),
		From:     req.From,
		To:       req.To,
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromJournalEntries(entries),
		TotalCount: int64(len(entries)),
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
}
