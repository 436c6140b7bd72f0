package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numera/internal/core/apperror"
	"numera/internal/core/sequence"
	"numera/internal/domain/rules"
	"numera/internal/infrastructure/storage/memory"
)

func newTestService() (*rules.Service, *memory.Store) {
	store := memory.NewStore()
	return rules.NewService(store, store), store
}

func TestService_CreateNormalizesAndValidates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	rule := sequence.NewRule("order", "Sales orders", "ORD")
	rule.DateFormat = sequence.DateFormatYearMonthDay
	rule.ResetPeriod = sequence.ResetDaily
	require.NoError(t, svc.Create(ctx, rule))

	got, err := svc.GetByCode(ctx, "order")
	require.NoError(t, err)
	assert.Equal(t, "ORDER", got.Code)
	assert.True(t, got.IsActive)
}

func TestService_CreateRejectsDuplicateCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	require.NoError(t, svc.Create(ctx, sequence.NewRule("PO", "Purchase orders", "PO")))

	err := svc.Create(ctx, sequence.NewRule("po", "Again", "PO"))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestService_CreateRejectsUnknownTokens(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	badFormat := sequence.NewRule("A", "Bad format", "A")
	badFormat.DateFormat = "week"
	assert.Error(t, svc.Create(ctx, badFormat))

	badPeriod := sequence.NewRule("B", "Bad period", "B")
	badPeriod.ResetPeriod = "weekly"
	assert.Error(t, svc.Create(ctx, badPeriod))
}

func TestService_UpdatePreservesCounters(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	rule := sequence.NewRule("INVOICE", "Invoices", "INV")
	rule.CurrentSequence = 0
	require.NoError(t, svc.Create(ctx, rule))

	// simulate issued numbers
	stored, err := store.GetByCode(ctx, "INVOICE")
	require.NoError(t, err)
	stored.CurrentSequence = 42
	require.NoError(t, store.UpdateCounters(ctx, stored))

	// admin update tries to smuggle a counter change
	update, err := svc.GetByCode(ctx, "INVOICE")
	require.NoError(t, err)
	update.Prefix = "IN"
	update.CurrentSequence = 0
	require.NoError(t, svc.Update(ctx, update))

	got, err := svc.GetByCode(ctx, "INVOICE")
	require.NoError(t, err)
	assert.Equal(t, "IN", got.Prefix)
	assert.Equal(t, int64(42), got.CurrentSequence, "Update must not touch the counter")
}

func TestService_UpdateDetectsConcurrentModification(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	require.NoError(t, svc.Create(ctx, sequence.NewRule("GR", "Goods receipts", "GR")))

	first, err := svc.GetByCode(ctx, "GR")
	require.NoError(t, err)
	second, err := svc.GetByCode(ctx, "GR")
	require.NoError(t, err)

	first.Name = "Goods receipts v2"
	require.NoError(t, svc.Update(ctx, first))

	second.Name = "Stale write"
	err = svc.Update(ctx, second)
	require.Error(t, err)
	assert.True(t, apperror.IsConcurrentModification(err))
}

func TestService_SetActive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	require.NoError(t, svc.Create(ctx, sequence.NewRule("SHIFT", "Cashier shifts", "SH")))

	require.NoError(t, svc.SetActive(ctx, "SHIFT", false))
	got, err := svc.GetByCode(ctx, "SHIFT")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, svc.SetActive(ctx, "SHIFT", true))
	got, err = svc.GetByCode(ctx, "SHIFT")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestService_DeleteSoftDeletes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	require.NoError(t, svc.Create(ctx, sequence.NewRule("HOLD", "Hold orders", "H")))
	require.NoError(t, svc.Delete(ctx, "HOLD"))

	_, err := svc.GetByCode(ctx, "HOLD")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_SetSequence(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	require.NoError(t, svc.Create(ctx, sequence.NewRule("CUSTOMER", "Customers", "C")))
	require.NoError(t, svc.SetSequence(ctx, "CUSTOMER", 5000))

	got, err := svc.GetByCode(ctx, "CUSTOMER")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), got.CurrentSequence)

	assert.Error(t, svc.SetSequence(ctx, "CUSTOMER", -1))
}

func TestService_ListFilters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	a := sequence.NewRule("ORDER", "Sales orders", "ORD")
	b := sequence.NewRule("PO", "Purchase orders", "PO")
	c := sequence.NewRule("REFUND", "Refunds", "RF")
	require.NoError(t, svc.Create(ctx, a))
	require.NoError(t, svc.Create(ctx, b))
	require.NoError(t, svc.Create(ctx, c))
	require.NoError(t, svc.SetActive(ctx, "REFUND", false))

	all, total, err := svc.List(ctx, rules.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	active := true
	onlyActive, total, err := svc.List(ctx, rules.ListFilter{IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, onlyActive, 2)

	searched, _, err := svc.List(ctx, rules.ListFilter{Search: "purchase"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "PO", searched[0].Code)
}
