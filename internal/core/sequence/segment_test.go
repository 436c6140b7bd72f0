package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateSegment(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.Local)

	tests := []struct {
		format   DateFormat
		expected string
	}{
		{DateFormatNone, ""},
		{"", ""},
		{DateFormatYear, "2024"},
		{DateFormatYearMonth, "202403"},
		{DateFormatYearMonthDay, "20240315"},
		// layout-style aliases used by historical callers
		{"YYYY", "2024"},
		{"YYYYMM", "202403"},
		{"YYYYMMDD", "20240315"},
		// unrecognized formats fall back to empty, not an error
		{"week", ""},
		{"DD-MM-YYYY", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DateSegment(tt.format, now), "format %q", tt.format)
	}
}

func TestPadSequence(t *testing.T) {
	tests := []struct {
		seq      int64
		width    int
		expected string
	}{
		{1, 4, "0001"},
		{42, 5, "00042"},
		{9999, 4, "9999"},
		// minimum width, never a cap: wider counters pass through unmodified
		{10000, 4, "10000"},
		{1000000, 6, "1000000"},
		{7, 0, "7"},
		{7, 1, "7"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PadSequence(tt.seq, tt.width))
	}
}

func TestResetDue_Daily(t *testing.T) {
	// Boundary rule: calendar day comparison, not elapsed duration.
	// 23:59 -> 00:01 next day is one minute but counts as a new day.
	lateNight := time.Date(2024, 3, 14, 23, 59, 0, 0, time.Local)
	justAfterMidnight := time.Date(2024, 3, 15, 0, 1, 0, 0, time.Local)

	assert.True(t, ResetDue(ResetDaily, &lateNight, justAfterMidnight))

	// Same calendar day, 20 hours apart: no reset.
	morning := time.Date(2024, 3, 15, 1, 0, 0, 0, time.Local)
	evening := time.Date(2024, 3, 15, 21, 0, 0, 0, time.Local)
	assert.False(t, ResetDue(ResetDaily, &morning, evening))
}

func TestResetDue_Monthly(t *testing.T) {
	march := time.Date(2024, 3, 31, 12, 0, 0, 0, time.Local)
	april := time.Date(2024, 4, 1, 12, 0, 0, 0, time.Local)

	assert.True(t, ResetDue(ResetMonthly, &march, april))
	assert.False(t, ResetDue(ResetMonthly, &april, april.Add(24*time.Hour)))

	// same month number, different year
	nextYear := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	assert.True(t, ResetDue(ResetMonthly, &march, nextYear))
}

func TestResetDue_Yearly(t *testing.T) {
	dec := time.Date(2024, 12, 31, 23, 0, 0, 0, time.Local)
	jan := time.Date(2025, 1, 1, 1, 0, 0, 0, time.Local)

	assert.True(t, ResetDue(ResetYearly, &dec, jan))

	june := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	assert.False(t, ResetDue(ResetYearly, &dec, june))
}

func TestResetDue_NeverAndUnknown(t *testing.T) {
	longAgo := time.Date(1999, 1, 1, 0, 0, 0, 0, time.Local)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	assert.False(t, ResetDue(ResetNever, &longAgo, now))
	// unrecognized periods degrade to never
	assert.False(t, ResetDue("weekly", &longAgo, now))
	assert.False(t, ResetDue("", &longAgo, now))
}

func TestResetDue_NilLastReset(t *testing.T) {
	// nil behaves as the epoch: always stale for any resetting period
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	assert.True(t, ResetDue(ResetDaily, nil, now))
	assert.True(t, ResetDue(ResetMonthly, nil, now))
	assert.True(t, ResetDue(ResetYearly, nil, now))
	assert.False(t, ResetDue(ResetNever, nil, now))
}

func TestIsKnownTokens(t *testing.T) {
	assert.True(t, IsKnownDateFormat(DateFormatYearMonthDay))
	assert.True(t, IsKnownDateFormat("YYYYMM"))
	assert.True(t, IsKnownDateFormat(""))
	assert.False(t, IsKnownDateFormat("week"))

	assert.True(t, IsKnownResetPeriod(ResetDaily))
	assert.True(t, IsKnownResetPeriod(""))
	assert.False(t, IsKnownResetPeriod("weekly"))
}
