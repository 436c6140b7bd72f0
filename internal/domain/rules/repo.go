// Package rules provides the numbering-rule catalog: administrative CRUD and
// lifecycle for the persisted rule records the sequence generator runs on.
package rules

import (
	"context"

	"numera/internal/core/sequence"
)

// ListFilter narrows List results.
type ListFilter struct {
	// Search matches against code, name and prefix (case-insensitive).
	Search string

	// IsActive filters by activation state when set.
	IsActive *bool

	// IncludeDeleted includes soft-deleted rules.
	IncludeDeleted bool

	Limit  int
	Offset int
}

// Repository defines persistence for numbering rules.
type Repository interface {
	// Create inserts a new rule.
	Create(ctx context.Context, rule *sequence.Rule) error

	// Update modifies a rule with optimistic locking on Version.
	Update(ctx context.Context, rule *sequence.Rule) error

	// GetByCode retrieves a rule by its unique code.
	// Returns apperror.CodeRuleNotFound when absent.
	GetByCode(ctx context.Context, code string) (*sequence.Rule, error)

	// GetByCodeForUpdate retrieves a rule with a row lock. Must be called
	// inside a transaction; concurrent callers for the same code block until
	// the owning transaction commits.
	GetByCodeForUpdate(ctx context.Context, code string) (*sequence.Rule, error)

	// UpdateCounters persists CurrentSequence and LastResetAt only.
	// Used by the generator inside its transaction; bypasses optimistic
	// locking because the row lock already serializes writers.
	UpdateCounters(ctx context.Context, rule *sequence.Rule) error

	// List returns rules matching the filter plus the unpaginated total.
	List(ctx context.Context, filter ListFilter) ([]*sequence.Rule, int64, error)
}
