// Package memory provides an in-memory implementation of the rule repository
// and transaction manager. Used by unit tests and local development without
// PostgreSQL.
package memory

import (
	"context"
	"strings"
	"sync"

	"numera/internal/core/apperror"
	"numera/internal/core/sequence"
	"numera/internal/core/tx"
	"numera/internal/domain/rules"
)

// Store holds all state behind a store-wide transaction mutex.
//
// RunInTransaction serializes callers with a single mutex, which trivially
// satisfies the generator's serialization contract. Mutations are applied
// immediately (no rollback on fn error) - fine for tests, which never rely
// on rollback of the memory store.
type Store struct {
	txMu sync.Mutex

	dataMu  sync.RWMutex
	rules   map[string]*sequence.Rule
	journal []sequence.Issued
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{rules: make(map[string]*sequence.Rule)}
}

// --- tx.Manager ---

type txKey struct{}

// RunInTransaction executes fn while holding the store-wide mutex.
// Nested calls reuse the held transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

// --- rules.Repository ---

func (s *Store) Create(ctx context.Context, rule *sequence.Rule) error {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	if _, exists := s.rules[rule.Code]; exists {
		return apperror.NewDuplicate("numbering rule", "code", rule.Code)
	}
	s.rules[rule.Code] = cloneRule(rule)
	return nil
}

func (s *Store) Update(ctx context.Context, rule *sequence.Rule) error {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	stored, exists := s.rules[rule.Code]
	if !exists {
		return apperror.NewRuleNotFound(rule.Code)
	}
	if stored.Version != rule.Version {
		return apperror.NewConcurrentModification("numbering rule", rule.Code)
	}
	next := cloneRule(rule)
	next.Version++
	s.rules[rule.Code] = next
	rule.Version = next.Version
	return nil
}

func (s *Store) GetByCode(ctx context.Context, code string) (*sequence.Rule, error) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()

	rule, exists := s.rules[code]
	if !exists || rule.DeletionMark {
		return nil, apperror.NewRuleNotFound(code)
	}
	return cloneRule(rule), nil
}

// GetByCodeForUpdate relies on the transaction mutex for serialization; the
// read itself is identical to GetByCode.
func (s *Store) GetByCodeForUpdate(ctx context.Context, code string) (*sequence.Rule, error) {
	return s.GetByCode(ctx, code)
}

func (s *Store) UpdateCounters(ctx context.Context, rule *sequence.Rule) error {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	stored, exists := s.rules[rule.Code]
	if !exists {
		return apperror.NewRuleNotFound(rule.Code)
	}
	stored.CurrentSequence = rule.CurrentSequence
	stored.LastResetAt = rule.LastResetAt
	return nil
}

func (s *Store) List(ctx context.Context, filter rules.ListFilter) ([]*sequence.Rule, int64, error) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()

	var matched []*sequence.Rule
	for _, rule := range s.rules {
		if rule.DeletionMark && !filter.IncludeDeleted {
			continue
		}
		if filter.IsActive != nil && rule.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" && !matchesSearch(rule, filter.Search) {
			continue
		}
		matched = append(matched, cloneRule(rule))
	}

	// stable order by code
	for i := range matched {
		for j := i + 1; j < len(matched); j++ {
			if matched[j].Code < matched[i].Code {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}
	}

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

// --- sequence.Recorder ---

func (s *Store) Record(ctx context.Context, issue sequence.Issued) error {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.journal = append(s.journal, issue)
	return nil
}

// Journal returns a copy of the recorded issues, in insertion order.
func (s *Store) Journal() []sequence.Issued {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	out := make([]sequence.Issued, len(s.journal))
	copy(out, s.journal)
	return out
}

// Ensure compile-time interface compliance.
var (
	_ rules.Repository  = (*Store)(nil)
	_ sequence.Recorder = (*Store)(nil)
	_ tx.Manager        = (*Store)(nil)
)

func cloneRule(r *sequence.Rule) *sequence.Rule {
	clone := *r
	if r.LastResetAt != nil {
		t := *r.LastResetAt
		clone.LastResetAt = &t
	}
	return &clone
}

func matchesSearch(r *sequence.Rule, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(r.Code), search) ||
		strings.Contains(strings.ToLower(r.Name), search) ||
		strings.Contains(strings.ToLower(r.Prefix), search)
}
