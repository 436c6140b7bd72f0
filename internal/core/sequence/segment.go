package sequence

import (
	"strconv"
	"strings"
	"time"
)

// DateFormat selects the date segment embedded in generated numbers.
type DateFormat string

const (
	DateFormatNone         DateFormat = "none"
	DateFormatYear         DateFormat = "year"
	DateFormatYearMonth    DateFormat = "year-month"
	DateFormatYearMonthDay DateFormat = "year-month-day"
)

// ResetPeriod is the cadence at which the counter returns to zero.
type ResetPeriod string

const (
	ResetDaily   ResetPeriod = "daily"
	ResetMonthly ResetPeriod = "monthly"
	ResetYearly  ResetPeriod = "yearly"
	ResetNever   ResetPeriod = "never"
)

// KnownDateFormats lists the tokens accepted at rule creation.
// Layout-style aliases are kept because historical callers configured rules
// with the literal layouts.
var KnownDateFormats = []DateFormat{
	DateFormatNone, DateFormatYear, DateFormatYearMonth, DateFormatYearMonthDay,
	"YYYY", "YYYYMM", "YYYYMMDD",
}

// KnownResetPeriods lists the tokens accepted at rule creation.
var KnownResetPeriods = []ResetPeriod{ResetDaily, ResetMonthly, ResetYearly, ResetNever}

// IsKnownDateFormat reports whether f is an accepted token. Unknown tokens
// still generate (with an empty date segment); this is for admin validation.
func IsKnownDateFormat(f DateFormat) bool {
	if f == "" {
		return true
	}
	for _, known := range KnownDateFormats {
		if f == known {
			return true
		}
	}
	return false
}

// IsKnownResetPeriod reports whether p is an accepted token.
func IsKnownResetPeriod(p ResetPeriod) bool {
	if p == "" {
		return true
	}
	for _, known := range KnownResetPeriods {
		if p == known {
			return true
		}
	}
	return false
}

// DateSegment formats the date-derived substring for the given format.
// Empty or unrecognized formats yield an empty string, silently: a bad
// format must never block number generation.
func DateSegment(format DateFormat, now time.Time) string {
	switch format {
	case DateFormatYearMonthDay, "YYYYMMDD":
		return now.Format("20060102")
	case DateFormatYearMonth, "YYYYMM":
		return now.Format("200601")
	case DateFormatYear, "YYYY":
		return now.Format("2006")
	default:
		return ""
	}
}

// ResetDue decides whether the counter resets before the next issue.
// Comparison is by local calendar components, never elapsed duration: a rule
// reset at 23:59 and checked at 00:01 the next day counts as a new day.
// A nil lastReset behaves as the epoch and is always stale.
// Unrecognized periods never reset.
func ResetDue(period ResetPeriod, lastReset *time.Time, now time.Time) bool {
	var last time.Time
	if lastReset != nil {
		last = *lastReset
	}
	last, now = last.Local(), now.Local()

	switch period {
	case ResetDaily:
		return last.Year() != now.Year() || last.Month() != now.Month() || last.Day() != now.Day()
	case ResetMonthly:
		return last.Year() != now.Year() || last.Month() != now.Month()
	case ResetYearly:
		return last.Year() != now.Year()
	default:
		return false
	}
}

// PadSequence renders seq left-padded with zeros to at least minWidth digits.
// Counters wider than minWidth are emitted unmodified, never truncated.
func PadSequence(seq int64, minWidth int) string {
	s := strconv.FormatInt(seq, 10)
	if minWidth <= len(s) {
		return s
	}
	return strings.Repeat("0", minWidth-len(s)) + s
}
