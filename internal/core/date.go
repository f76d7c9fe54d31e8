package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CanonicalDateLayout is the only date form considered valid for storage
// and comparison.
const CanonicalDateLayout = "2006-01-02"

var (
	canonicalDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	allDigitsRe     = regexp.MustCompile(`^\d+$`)
)

// Layouts tried for freeform date input, most specific first. Users paste
// dates from other tools, so the common interchange forms are covered.
var freeformLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC1123,
}

// Normalize converts freeform date input to the canonical YYYY-MM-DD form.
// The second return value is false when no canonical form could be
// derived; that is never an error condition for the caller.
//
// Digit-only input is interpreted as a Unix timestamp: exactly ten digits
// means seconds, any other length means milliseconds. The calendar date is
// taken in UTC.
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if canonicalDateRe.MatchString(s) {
		return s, true
	}

	if allDigitsRe.MatchString(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// Too many digits to represent; no date.
			return "", false
		}
		if len(s) == 10 {
			ms *= 1000
		}
		t := time.UnixMilli(ms).UTC()
		if t.Year() < 1 || t.Year() > 9999 {
			return "", false
		}
		return t.Format(CanonicalDateLayout), true
	}

	for _, layout := range freeformLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(CanonicalDateLayout), true
		}
	}

	return "", false
}

// FormatTyped incrementally formats a date being typed digit by digit.
// Non-digits are stripped, the rest is truncated to eight digits
// (YYYYMMDD) and dashes are inserted as the month and day positions
// become available. Purely a display aid: the digits are not checked
// for calendar validity.
func FormatTyped(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 8 {
		digits = digits[:8]
	}

	switch {
	case len(digits) <= 4:
		return digits
	case len(digits) <= 6:
		return digits[:4] + "-" + digits[4:]
	default:
		return digits[:4] + "-" + digits[4:6] + "-" + digits[6:]
	}
}

// parseCanonicalDate parses a stored canonical date into a midnight
// time.Time in loc. Anything not canonical fails.
func parseCanonicalDate(s string, loc *time.Location) (time.Time, bool) {
	t, err := time.Parse(CanonicalDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
}
