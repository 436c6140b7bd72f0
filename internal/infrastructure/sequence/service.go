// Package sequence provides the transactional implementation of document
// number generation. It implements core/sequence.Generator on top of the
// rule repository and transaction manager.
package sequence

import (
	"context"
	"time"

	"numera/internal/core/apperror"
	coreseq "numera/internal/core/sequence"
	"numera/internal/core/tx"
	"numera/internal/domain/rules"
	"numera/pkg/logger"
)

// Service generates document numbers with serialized counter increments.
//
// Generate runs the whole read-decide-write cycle inside one transaction with
// the rule row locked, so two concurrent calls for the same code can never
// observe the same counter value. Preview reads outside any transaction and
// never writes.
type Service struct {
	rules    rules.Repository
	txm      tx.Manager
	recorder coreseq.Recorder
	now      func() time.Time
}

// Ensure compile-time interface compliance.
var _ coreseq.Generator = (*Service)(nil)

// NewService creates a generator. A nil recorder disables the journal.
func NewService(repo rules.Repository, txm tx.Manager, recorder coreseq.Recorder) *Service {
	if recorder == nil {
		recorder = coreseq.NopRecorder{}
	}
	return &Service{
		rules:    repo,
		txm:      txm,
		recorder: recorder,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock. For tests of reset boundaries.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Generate issues the next number for the rule identified by code.
//
// The returned string reflects exactly the persisted state: if the
// transaction fails at any point (including the journal write) the counter
// is not incremented and no number is observable.
func (s *Service) Generate(ctx context.Context, code string) (string, error) {
	code = rules.NormalizeCode(code)

	var number string
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		rule, err := s.rules.GetByCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}
		if !rule.IsActive {
			return apperror.NewRuleDisabled(code)
		}

		now := s.now()
		seq, reset := rule.Next(now)
		rule.CurrentSequence = seq
		if reset {
			resetAt := now
			rule.LastResetAt = &resetAt
		}
		if err := s.rules.UpdateCounters(ctx, rule); err != nil {
			return err
		}

		number = rule.Format(seq, now)
		return s.recorder.Record(ctx, coreseq.Issued{
			RuleID:   rule.ID,
			RuleCode: rule.Code,
			Number:   number,
			Sequence: seq,
			Reset:    reset,
			IssuedAt: now,
		})
	})
	if err != nil {
		return "", err
	}

	logger.Debug(ctx, "number generated", "rule_code", code, "number", number)
	return number, nil
}

// PreviewNextNumber computes what Generate would currently produce, from a
// plain read with no lock and no writes.
//
// Preview intentionally does NOT check IsActive: it returns a plausible
// next number even for a disabled rule that Generate would reject.
// Not-found behaves the same as Generate.
func (s *Service) PreviewNextNumber(ctx context.Context, code string) (string, error) {
	rule, err := s.rules.GetByCode(ctx, rules.NormalizeCode(code))
	if err != nil {
		return "", err
	}
	return rule.PreviewNumber(s.now()), nil
}
