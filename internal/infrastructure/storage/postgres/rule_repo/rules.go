// Package rule_repo provides the PostgreSQL implementation of the
// numbering-rule repository.
package rule_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"numera/internal/core/apperror"
	"numera/internal/core/sequence"
	"numera/internal/domain/rules"
	"numera/internal/infrastructure/storage/postgres"
)

const ruleTable = "numbering_rules"

// RuleRepo implements rules.Repository.
type RuleRepo struct {
	txm        *postgres.TxManager
	selectCols []string
}

// Ensure compile-time interface compliance.
var _ rules.Repository = (*RuleRepo)(nil)

// NewRuleRepo creates a new rule repository.
func NewRuleRepo(txm *postgres.TxManager) *RuleRepo {
	return &RuleRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[sequence.Rule](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *RuleRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *RuleRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(ruleTable)
}

// Create inserts a new rule using its "db" tags.
func (r *RuleRepo) Create(ctx context.Context, rule *sequence.Rule) error {
	data := postgres.StructToMap(rule)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in rule")
	}

	q := r.Builder().
		Insert(ruleTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert %s: %w", ruleTable, err))
	}

	return nil
}

// Update modifies a rule with optimistic locking. Counter columns are never
// touched here; they belong to UpdateCounters.
func (r *RuleRepo) Update(ctx context.Context, rule *sequence.Rule) error {
	data := postgres.StructToMap(rule)

	filteredData := make(map[string]any, len(data))
	for col, val := range data {
		switch col {
		case "id", "version", "current_sequence", "last_reset_at", "created_at":
			continue
		}
		filteredData[col] = val
	}

	q := r.Builder().
		Update(ruleTable).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": rule.ID}).
		Where(squirrel.Eq{"version": rule.Version}) // optimistic lock: expect current version

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("update %s: %w", ruleTable, err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("numbering rule", rule.Code)
	}

	return nil
}

// GetByCode retrieves a rule by its unique code.
func (r *RuleRepo) GetByCode(ctx context.Context, code string) (*sequence.Rule, error) {
	return r.getByCode(ctx, code, false)
}

// GetByCodeForUpdate retrieves a rule with a row lock. Concurrent callers
// for the same code block on the lock until the owning transaction commits,
// which is what serializes the generator's read-modify-write cycle.
func (r *RuleRepo) GetByCodeForUpdate(ctx context.Context, code string) (*sequence.Rule, error) {
	return r.getByCode(ctx, code, true)
}

func (r *RuleRepo) getByCode(ctx context.Context, code string, forUpdate bool) (*sequence.Rule, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"code": code}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rule sequence.Rule
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rule, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewRuleNotFound(code)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get %s by code: %w", ruleTable, err))
	}

	return &rule, nil
}

// UpdateCounters persists CurrentSequence and LastResetAt only. No version
// bump: the caller holds the row lock, so nothing can interleave.
func (r *RuleRepo) UpdateCounters(ctx context.Context, rule *sequence.Rule) error {
	q := r.Builder().
		Update(ruleTable).
		Set("current_sequence", rule.CurrentSequence).
		Set("last_reset_at", rule.LastResetAt).
		Where(squirrel.Eq{"id": rule.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build counter update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("update counters %s: %w", ruleTable, err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewRuleNotFound(rule.Code)
	}

	return nil
}

// List returns rules matching the filter plus the unpaginated total.
func (r *RuleRepo) List(ctx context.Context, filter rules.ListFilter) ([]*sequence.Rule, int64, error) {
	base := r.Builder().Select().From(ruleTable)
	base = applyFilter(base, filter)

	countQ := base.Column("COUNT(*)")
	sql, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)

	var total int64
	if err := querier.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, apperror.NewDatabase(fmt.Errorf("count %s: %w", ruleTable, err))
	}

	listQ := base.
		Columns(r.selectCols...).
		OrderBy("code ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	sql, args, err = listQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list: %w", err)
	}

	var items []*sequence.Rule
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, 0, apperror.NewDatabase(fmt.Errorf("list %s: %w", ruleTable, err))
	}

	return items, total, nil
}

func applyFilter(q squirrel.SelectBuilder, filter rules.ListFilter) squirrel.SelectBuilder {
	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.IsActive != nil {
		q = q.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"prefix": pattern},
		})
	}
	return q
}
