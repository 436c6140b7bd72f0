package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"numera/internal/core/sequence"
)

func TestExtractDBColumns_Rule(t *testing.T) {
	cols := ExtractDBColumns[sequence.Rule]()

	expectedCols := []string{
		"id", "code", "name", "prefix", "date_format", "sequence_length",
		"current_sequence", "reset_period", "last_reset_at", "is_active",
		"deletion_mark", "version", "created_at", "updated_at",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap_Rule(t *testing.T) {
	resetAt := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	rule := sequence.NewRule("ORDER", "Sales orders", "ORD")
	rule.DateFormat = sequence.DateFormatYearMonthDay
	rule.SequenceLength = 4
	rule.CurrentSequence = 42
	rule.ResetPeriod = sequence.ResetDaily
	rule.LastResetAt = &resetAt

	m := StructToMap(rule)

	assert.Equal(t, rule.ID, m["id"])
	assert.Equal(t, "ORDER", m["code"])
	assert.Equal(t, "ORD", m["prefix"])
	assert.Equal(t, sequence.DateFormatYearMonthDay, m["date_format"])
	assert.Equal(t, 4, m["sequence_length"])
	assert.Equal(t, int64(42), m["current_sequence"])
	assert.Equal(t, sequence.ResetDaily, m["reset_period"])
	assert.Equal(t, &resetAt, m["last_reset_at"])
	assert.Equal(t, true, m["is_active"])
	assert.Equal(t, 1, m["version"])
}
