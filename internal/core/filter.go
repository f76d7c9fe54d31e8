package core

import (
	"strings"
	"time"
)

// Window selects the time range a record list is filtered to.
type Window string

const (
	WindowAll   Window = "all"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// ParseWindow maps a selector string to a Window, defaulting to WindowAll
// for anything unrecognized.
func ParseWindow(s string) (Window, bool) {
	switch Window(strings.TrimSpace(s)) {
	case WindowWeek:
		return WindowWeek, true
	case WindowMonth:
		return WindowMonth, true
	case WindowAll, "":
		return WindowAll, true
	}
	return WindowAll, false
}

// Filter returns the records matching both the time window and the
// category selector, preserving input order. The input is never mutated.
//
// The week window runs Sunday through Saturday: it starts at the most
// recent Sunday at or before the local calendar date of now, and both
// week and month windows are half-open [start, end). Records without a
// parseable date never match week or month but always pass under all.
// An empty category selector applies no category filtering; a non-empty
// one requires a trimmed, case-sensitive exact match.
func Filter(records []Record, window Window, category string, now time.Time) []Record {
	var start, end time.Time
	byDate := false
	switch window {
	case WindowWeek:
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		start = today.AddDate(0, 0, -int(today.Weekday()))
		end = start.AddDate(0, 0, 7)
		byDate = true
	case WindowMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)
		byDate = true
	}

	wantCategory := strings.TrimSpace(category)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if byDate {
			t, ok := parseCanonicalDate(r.Date, now.Location())
			if !ok || t.Before(start) || !t.Before(end) {
				continue
			}
		}
		if wantCategory != "" && strings.TrimSpace(r.Category) != wantCategory {
			continue
		}
		out = append(out, r)
	}
	return out
}
