package dto

import (
	"time"

	"numera/internal/core/sequence"
)

// RuleResponse contains numbering rule fields.
type RuleResponse struct {
	ID              string     `json:"id"`
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	Prefix          string     `json:"prefix"`
	DateFormat      string     `json:"dateFormat"`
	SequenceLength  int        `json:"sequenceLength"`
	CurrentSequence int64      `json:"currentSequence"`
	ResetPeriod     string     `json:"resetPeriod"`
	LastResetAt     *time.Time `json:"lastResetAt,omitempty"`
	IsActive        bool       `json:"isActive"`
	DeletionMark    bool       `json:"deletionMark"`
	Version         int        `json:"version"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// FromRule creates RuleResponse from a sequence.Rule.
func FromRule(r *sequence.Rule) RuleResponse {
	return RuleResponse{
		ID:              r.ID.String(),
		Code:            r.Code,
		Name:            r.Name,
		Prefix:          r.Prefix,
		DateFormat:      string(r.DateFormat),
		SequenceLength:  r.SequenceLength,
		CurrentSequence: r.CurrentSequence,
		ResetPeriod:     string(r.ResetPeriod),
		LastResetAt:     r.LastResetAt,
		IsActive:        r.IsActive,
		DeletionMark:    r.DeletionMark,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// FromRules converts a slice of rules.
func FromRules(rules []*sequence.Rule) []RuleResponse {
	out := make([]RuleResponse, len(rules))
	for i, r := range rules {
		out[i] = FromRule(r)
	}
	return out
}

// CreateRuleRequest for creating numbering rules.
type CreateRuleRequest struct {
	Code           string `json:"code" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Prefix         string `json:"prefix"`
	DateFormat     string `json:"dateFormat"`
	SequenceLength int    `json:"sequenceLength" binding:"omitempty,min=1"`
	ResetPeriod    string `json:"resetPeriod"`
}

// UpdateRuleRequest for updating numbering rules.
type UpdateRuleRequest struct {
	Name           *string `json:"name"`
	Prefix         *string `json:"prefix"`
	DateFormat     *string `json:"dateFormat"`
	SequenceLength *int    `json:"sequenceLength" binding:"omitempty,min=1"`
	ResetPeriod    *string `json:"resetPeriod"`
	Version        int     `json:"version" binding:"required,min=1"`
}

// SetSequenceRequest for migrating a counter to a specific value.
type SetSequenceRequest struct {
	Sequence int64 `json:"sequence" binding:"min=0"`
}

// ListRulesRequest contains rule list filters.
type ListRulesRequest struct {
	PaginationRequest
	Search         string `form:"search"`
	IsActive       *bool  `form:"isActive"`
	IncludeDeleted bool   `form:"includeDeleted"`
}
