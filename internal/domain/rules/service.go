package rules

import (
	"context"
	"strings"

	"numera/internal/core/apperror"
	"numera/internal/core/sequence"
	"numera/internal/core/tx"
)

// Service provides business logic for the numbering-rule catalog.
//
// The counter fields (CurrentSequence, LastResetAt) are owned by the
// generator; the only administrative path that touches them is SetSequence,
// kept for migrations.
type Service struct {
	repo Repository
	txm  tx.Manager
}

// NewService creates a new rule catalog service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{repo: repo, txm: txm}
}

// Create validates and persists a new rule. Codes are normalized to upper
// case so callers can request "order" and "ORDER" interchangeably.
func (s *Service) Create(ctx context.Context, rule *sequence.Rule) error {
	rule.Code = NormalizeCode(rule.Code)

	if err := rule.Validate(ctx); err != nil {
		return err
	}
	if err := validateTokens(rule); err != nil {
		return err
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if existing, err := s.repo.GetByCode(ctx, rule.Code); err == nil && existing != nil {
			return apperror.NewDuplicate("numbering rule", "code", rule.Code)
		}
		return s.repo.Create(ctx, rule)
	})
}

// GetByCode retrieves a rule by code.
func (s *Service) GetByCode(ctx context.Context, code string) (*sequence.Rule, error) {
	return s.repo.GetByCode(ctx, NormalizeCode(code))
}

// List returns rules matching the filter plus the unpaginated total.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*sequence.Rule, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

// Update applies administrative changes to a rule. Counter fields are
// preserved from the stored row regardless of what the caller sends.
func (s *Service) Update(ctx context.Context, rule *sequence.Rule) error {
	rule.Code = NormalizeCode(rule.Code)

	if err := rule.Validate(ctx); err != nil {
		return err
	}
	if err := validateTokens(rule); err != nil {
		return err
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetByCode(ctx, rule.Code)
		if err != nil {
			return err
		}
		rule.ID = stored.ID
		rule.CurrentSequence = stored.CurrentSequence
		rule.LastResetAt = stored.LastResetAt
		rule.CreatedAt = stored.CreatedAt
		rule.Touch()
		return s.repo.Update(ctx, rule)
	})
}

// SetActive enables or disables generation for a rule. Disabled rules reject
// Generate until re-activated here.
func (s *Service) SetActive(ctx context.Context, code string, active bool) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		rule, err := s.repo.GetByCode(ctx, NormalizeCode(code))
		if err != nil {
			return err
		}
		if rule.IsActive == active {
			return nil
		}
		rule.IsActive = active
		rule.Touch()
		return s.repo.Update(ctx, rule)
	})
}

// Delete soft-deletes a rule. Journal rows referencing its numbers survive.
func (s *Service) Delete(ctx context.Context, code string) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		rule, err := s.repo.GetByCode(ctx, NormalizeCode(code))
		if err != nil {
			return err
		}
		if rule.DeletionMark {
			return nil
		}
		rule.DeletionMark = true
		rule.IsActive = false
		rule.Touch()
		return s.repo.Update(ctx, rule)
	})
}

// SetSequence overwrites the counter (migration escape hatch). Runs under the
// same row lock as Generate so it cannot interleave with an in-flight issue.
func (s *Service) SetSequence(ctx context.Context, code string, value int64) error {
	if value < 0 {
		return apperror.NewValidation("sequence value must not be negative").
			WithDetail("value", value)
	}
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		rule, err := s.repo.GetByCodeForUpdate(ctx, NormalizeCode(code))
		if err != nil {
			return err
		}
		rule.CurrentSequence = value
		return s.repo.UpdateCounters(ctx, rule)
	})
}

// NormalizeCode canonicalizes a rule code for lookup and storage.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// validateTokens rejects obvious configuration typos at the admin boundary.
// The engine itself degrades unknown tokens gracefully, but new rules should
// not be created with them.
func validateTokens(rule *sequence.Rule) error {
	if !sequence.IsKnownDateFormat(rule.DateFormat) {
		return apperror.NewValidation("unknown date format").
			WithDetail("field", "dateFormat").
			WithDetail("value", string(rule.DateFormat))
	}
	if !sequence.IsKnownResetPeriod(rule.ResetPeriod) {
		return apperror.NewValidation("unknown reset period").
			WithDetail("field", "resetPeriod").
			WithDetail("value", string(rule.ResetPeriod))
	}
	return nil
}
