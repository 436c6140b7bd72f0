// Package sequence provides the domain model and contracts for document
// auto-numbering. Pure computation (date segments, reset decisions, padding)
// lives here; the transactional implementation lives in infrastructure.
package sequence

import (
	"context"
	"strings"
	"time"

	"numera/internal/core/apperror"
	"numera/internal/core/id"
)

// MaxSequenceLength bounds the configurable pad width. The counter itself may
// grow past the pad width; this only caps the configured minimum.
const MaxSequenceLength = 18

// Rule is a persisted numbering configuration, one row per document type.
// Generate mutates only CurrentSequence and LastResetAt; everything else is
// administrative state.
type Rule struct {
	ID id.ID `db:"id" json:"id"`

	// Code is the unique key callers use to request a number (e.g. "ORDER").
	Code string `db:"code" json:"code"`

	// Name is a human-readable label for the rule.
	Name string `db:"name" json:"name"`

	// Prefix is prepended literally to every generated number.
	Prefix string `db:"prefix" json:"prefix"`

	// DateFormat selects the date-derived segment embedded in the number.
	DateFormat DateFormat `db:"date_format" json:"dateFormat"`

	// SequenceLength is the minimum digit width of the zero-padded counter.
	// It is a minimum, not a cap: wider counters are emitted unmodified.
	SequenceLength int `db:"sequence_length" json:"sequenceLength"`

	// CurrentSequence is the last issued counter value.
	CurrentSequence int64 `db:"current_sequence" json:"currentSequence"`

	// ResetPeriod governs when the counter returns to zero.
	// Unrecognized values behave as ResetNever.
	ResetPeriod ResetPeriod `db:"reset_period" json:"resetPeriod"`

	// LastResetAt is the instant of the last counter reset. Nil behaves as
	// the epoch, so the first reset check always fires.
	LastResetAt *time.Time `db:"last_reset_at" json:"lastResetAt,omitempty"`

	// IsActive gates Generate; disabled rules reject generation.
	IsActive bool `db:"is_active" json:"isActive"`

	DeletionMark bool      `db:"deletion_mark" json:"deletionMark"`
	Version      int       `db:"version" json:"version"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// NewRule creates a rule with required fields and sensible defaults.
func NewRule(code, name, prefix string) *Rule {
	now := time.Now().UTC()
	return &Rule{
		ID:             id.New(),
		Code:           strings.ToUpper(strings.TrimSpace(code)),
		Name:           name,
		Prefix:         prefix,
		DateFormat:     DateFormatNone,
		SequenceLength: 4,
		ResetPeriod:    ResetNever,
		IsActive:       true,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Validate checks rule invariants. It does not reject unrecognized
// DateFormat/ResetPeriod tokens: the engine degrades them to an empty
// segment / never-reset, and existing rows must keep generating.
func (r *Rule) Validate(ctx context.Context) error {
	if strings.TrimSpace(r.Code) == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if r.SequenceLength < 0 || r.SequenceLength > MaxSequenceLength {
		return apperror.NewValidation("sequence length out of range").
			WithDetail("field", "sequenceLength").
			WithDetail("max", MaxSequenceLength)
	}
	if r.CurrentSequence < 0 {
		return apperror.NewValidation("current sequence must not be negative").
			WithDetail("field", "currentSequence")
	}
	return nil
}

// Touch updates the modification timestamp. Version increments are owned by
// the repository (optimistic locking).
func (r *Rule) Touch() {
	r.UpdatedAt = time.Now().UTC()
}

// Next computes the counter value the rule would issue at now, and whether a
// reset fires first. It does not mutate the rule.
func (r *Rule) Next(now time.Time) (seq int64, reset bool) {
	reset = ResetDue(r.ResetPeriod, r.LastResetAt, now)
	seq = r.CurrentSequence
	if reset {
		seq = 0
	}
	return seq + 1, reset
}

// Format assembles the final number: <prefix><dateSegment><paddedSequence>,
// no separators. Lexicographic order of the result roughly tracks
// chronological + sequential order as long as the counter stays within the
// configured pad width.
func (r *Rule) Format(seq int64, now time.Time) string {
	return r.Prefix + DateSegment(r.DateFormat, now) + PadSequence(seq, r.SequenceLength)
}

// PreviewNumber returns the number Generate would currently produce, without
// mutating anything. The result is advisory: a concurrent Generate makes it
// stale.
func (r *Rule) PreviewNumber(now time.Time) string {
	seq, _ := r.Next(now)
	return r.Format(seq, now)
}
