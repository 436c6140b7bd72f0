package handlers

import (
	"github.com/gin-gonic/gin"

	"numera/internal/core/sequence"
	"numera/internal/domain/rules"
	"numera/internal/infrastructure/http/v1/dto"
)

// RulesHandler administers numbering rules.
type RulesHandler struct {
	*BaseHandler
	service *rules.Service
}

// NewRulesHandler creates a new rules handler.
func NewRulesHandler(service *rules.Service) *RulesHandler {
	return &RulesHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Create registers a new numbering rule.
// POST /api/v1/rules
func (h *RulesHandler) Create(c *gin.Context) {
	var req dto.CreateRuleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rule := sequence.NewRule(req.Code, req.Name, req.Prefix)
	if req.DateFormat != "" {
		rule.DateFormat = sequence.DateFormat(req.DateFormat)
	}
	if req.SequenceLength > 0 {
		rule.SequenceLength = req.SequenceLength
	}
	if req.ResetPeriod != "" {
		rule.ResetPeriod = sequence.ResetPeriod(req.ResetPeriod)
	}

	if err := h.service.Create(c.Request.Context(), rule); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromRule(rule))
}

// Get returns a single rule by code.
// GET /api/v1/rules/:code
func (h *RulesHandler) Get(c *gin.Context) {
	rule, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromRule(rule))
}

// List returns rules matching the filter.
// GET /api/v1/rules
func (h *RulesHandler) List(c *gin.Context) {
	var req dto.ListRulesRequest
	if !h.BindQuery(c, &req) {
		return
	}
	req.Defaults()

	items, total, err := h.service.List(c.Request.Context(), rules.ListFilter{
		Search:         req.Search,
		IsActive:       req.IsActive,
		IncludeDeleted: req.IncludeDeleted,
		Limit:          req.Limit,
		Offset:         req.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromRules(items),
		TotalCount: total,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
}

// Update applies administrative changes. Fields left null in the request
// keep their stored values; the version is required for optimistic locking.
// PUT /api/v1/rules/:code
func (h *RulesHandler) Update(c *gin.Context) {
	var req dto.UpdateRuleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	rule, err := h.service.GetByCode(ctx, c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Prefix != nil {
		rule.Prefix = *req.Prefix
	}
	if req.DateFormat != nil {
		rule.DateFormat = sequence.DateFormat(*req.DateFormat)
	}
	if req.SequenceLength != nil {
		rule.SequenceLength = *req.SequenceLength
	}
	if req.ResetPeriod != nil {
		rule.ResetPeriod = sequence.ResetPeriod(*req.ResetPeriod)
	}
	rule.Version = req.Version

	if err := h.service.Update(ctx, rule); err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.GetByCode(ctx, rule.Code)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromRule(updated))
}

// Activate enables generation for a rule.
// POST /api/v1/rules/:code/activate
func (h *RulesHandler) Activate(c *gin.Context) {
	if err := h.service.SetActive(c.Request.Context(), c.Param("code"), true); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "rule activated")
}

// Deactivate disables generation for a rule. Preview keeps working.
// POST /api/v1/rules/:code/deactivate
func (h *RulesHandler) Deactivate(c *gin.Context) {
	if err := h.service.SetActive(c.Request.Context(), c.Param("code"), false); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "rule deactivated")
}

// SetSequence migrates the counter to a specific value, for cutover from
// a legacy numbering source.
// PUT /api/v1/rules/:code/sequence
func (h *RulesHandler) SetSequence(c *gin.Context) {
	var req dto.SetSequenceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetSequence(c.Request.Context(), c.Param("code"), req.Sequence); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "sequence updated")
}

// Delete soft-deletes a rule.
// DELETE /api/v1/rules/:code
func (h *RulesHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("code")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
