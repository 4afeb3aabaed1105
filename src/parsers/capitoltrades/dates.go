package capitoltrades

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Absolute layouts seen on the listing page and in older exports. Commas are stripped first.
var absoluteLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2006-01-02",
	"01/02/2006",
}

// Layouts without a year; the year is inferred from the processing time.
var yearlessLayouts = []string{
	"2 Jan",
	"2 January",
	"Jan 2",
	"January 2",
}

var (
	daysAgoRe = regexp.MustCompile(`^(\d+)\s+days?\s+ago$`)
	// The listing prints the filing time before the day, as in "13:05 Yesterday".
	leadingTimeRe = regexp.MustCompile(`^\d{1,2}:\d{2}\s+`)
)

// normalizeDateText strips commas and a leading HH:MM time, collapses spaces and maps "Sept"
// to Go's "Sep".
func normalizeDateText(s string) string {
	s = strings.ReplaceAll(s, ",", " ")
	s = strings.Join(strings.Fields(s), " ")
	s = leadingTimeRe.ReplaceAllString(s, "")
	return strings.Replace(s, "Sept ", "Sep ", 1)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseAbsoluteDate parses calendar dates in any known layout. A yearless date is placed in the
// current year, or the previous one if that would land in the future.
func parseAbsoluteDate(text string, now time.Time) (time.Time, bool) {
	s := normalizeDateText(text)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, true
		}
	}

	for _, layout := range yearlessLayouts {
		t, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			continue
		}
		candidate := time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
		// Feb 29 on a non-leap year normalizes into March; reject rather than guess.
		if candidate.Day() != t.Day() {
			return time.Time{}, false
		}
		if candidate.After(startOfDay(now)) {
			candidate = candidate.AddDate(-1, 0, 0)
		}
		return candidate, true
	}
	return time.Time{}, false
}

// parseRelativeDate handles "today", "yesterday" and "N days ago".
func parseRelativeDate(text string, now time.Time) (time.Time, bool) {
	s := strings.ToLower(normalizeDateText(text))
	today := startOfDay(now)
	switch s {
	case "today":
		return today, true
	case "yesterday":
		return today.AddDate(0, 0, -1), true
	}
	if m := daysAgoRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return today.AddDate(0, 0, -n), true
	}
	return time.Time{}, false
}

// parseTradeDate requires a real calendar date.
func parseTradeDate(text string, now time.Time) (time.Time, bool) {
	if t, ok := parseAbsoluteDate(text, now); ok {
		return t, true
	}
	return parseRelativeDate(text, now)
}

// parseDisclosureDate never fails: unreadable text falls back to the processing time.
func parseDisclosureDate(text string, now time.Time) (time.Time, bool) {
	if t, ok := parseRelativeDate(text, now); ok {
		return t, true
	}
	if t, ok := parseAbsoluteDate(text, now); ok {
		return t, true
	}
	return now, false
}
