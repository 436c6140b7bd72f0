package sequence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(t time.Time) *time.Time { return &t }

func TestRule_Next_NoReset(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)
	r := &Rule{
		Code:            "ORDER",
		CurrentSequence: 5,
		ResetPeriod:     ResetNever,
	}

	seq, reset := r.Next(now)
	assert.Equal(t, int64(6), seq)
	assert.False(t, reset)
}

func TestRule_Next_DailyResetFires(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)
	r := &Rule{
		Code:            "SHIFT",
		CurrentSequence: 999,
		ResetPeriod:     ResetDaily,
		LastResetAt:     ts(now.AddDate(0, 0, -1)),
	}

	// reset fires first, then increments from 0
	seq, reset := r.Next(now)
	assert.Equal(t, int64(1), seq)
	assert.True(t, reset)
}

func TestRule_Next_SameDayKeepsCounting(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.Local)
	r := &Rule{
		Code:            "SHIFT",
		CurrentSequence: 7,
		ResetPeriod:     ResetDaily,
		LastResetAt:     ts(time.Date(2024, 3, 15, 6, 0, 0, 0, time.Local)),
	}

	seq, reset := r.Next(now)
	assert.Equal(t, int64(8), seq)
	assert.False(t, reset)
}

// Reference scenarios from the original POS back office.
func TestRule_Format_ReferenceScenarios(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	order := &Rule{Prefix: "ORD", DateFormat: "YYYYMMDD", SequenceLength: 4, CurrentSequence: 5, ResetPeriod: ResetNever}
	seq, _ := order.Next(now)
	assert.Equal(t, "ORD202403150006", order.Format(seq, now))

	po := &Rule{Prefix: "PO", DateFormat: "YYYYMM", SequenceLength: 5, CurrentSequence: 10, ResetPeriod: ResetNever}
	seq, _ = po.Next(now)
	assert.Equal(t, "PO20240300011", po.Format(seq, now))

	// overflow past the pad width widens the number, never truncates
	customer := &Rule{Prefix: "C", DateFormat: DateFormatNone, SequenceLength: 6, CurrentSequence: 999999, ResetPeriod: ResetNever}
	seq, _ = customer.Next(now)
	assert.Equal(t, "C1000000", customer.Format(seq, now))
}

func TestRule_PreviewNumber_MatchesNextFormat(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	r := &Rule{
		Prefix:          "INV",
		DateFormat:      DateFormatYear,
		SequenceLength:  5,
		CurrentSequence: 41,
		ResetPeriod:     ResetYearly,
		LastResetAt:     ts(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)),
	}

	assert.Equal(t, "INV202400042", r.PreviewNumber(now))
	// preview must not mutate the rule
	assert.Equal(t, int64(41), r.CurrentSequence)
}

func TestRule_Validate(t *testing.T) {
	ctx := context.Background()

	r := NewRule("order", "Sales orders", "ORD")
	assert.Equal(t, "ORDER", r.Code)
	assert.NoError(t, r.Validate(ctx))

	missing := NewRule("  ", "No code", "X")
	assert.Error(t, missing.Validate(ctx))

	tooWide := NewRule("X", "Wide", "X")
	tooWide.SequenceLength = MaxSequenceLength + 1
	assert.Error(t, tooWide.Validate(ctx))

	negative := NewRule("X", "Negative", "X")
	negative.CurrentSequence = -1
	assert.Error(t, negative.Validate(ctx))
}
