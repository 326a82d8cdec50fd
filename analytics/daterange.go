package analytics

import (
	"strings"
	"time"

	"app/models"
)

// defaultWindowDays is the trailing window used when a custom range cannot
// be parsed. An unparseable range degrades, it never fails the request.
const defaultWindowDays = 30

// dateFormats are tried in order when parsing custom range boundaries.
// Clients send everything from RFC3339 timestamps to bare dates.
var dateFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses a date string against the supported formats.
func ParseDate(dateStr string) (time.Time, error) {
	var lastErr error
	for _, format := range dateFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// ResolveRange turns a date-range specifier into concrete start/end instants.
// Supported forms: the named tokens (last_7_days, last_30_days, last_90_days,
// last_year) and the custom form "<start> to <end>". Anything unparseable
// resolves to the trailing 30-day window.
func ResolveRange(spec string, now time.Time) (time.Time, time.Time) {
	switch spec {
	case models.RangeLast7Days:
		return now.AddDate(0, 0, -7), now
	case models.RangeLast30Days:
		return now.AddDate(0, 0, -30), now
	case models.RangeLast90Days:
		return now.AddDate(0, 0, -90), now
	case models.RangeLastYear:
		return now.AddDate(-1, 0, 0), now
	}

	if parts := strings.SplitN(spec, " to ", 2); len(parts) == 2 {
		start, errS := ParseDate(strings.TrimSpace(parts[0]))
		end, errE := ParseDate(strings.TrimSpace(parts[1]))
		if errS == nil && errE == nil && !end.Before(start) {
			return start, end
		}
	}

	return now.AddDate(0, 0, -defaultWindowDays), now
}

// PeriodFor classifies a resolved range span into the period bucket that
// selects the prompt's declared numeric bounds.
func PeriodFor(start, end time.Time) models.Period {
	days := end.Sub(start).Hours() / 24
	switch {
	case days <= 10:
		return models.PeriodWeek
	case days <= 45:
		return models.PeriodMonth
	case days <= 120:
		return models.PeriodQuarter
	default:
		return models.PeriodYear
	}
}
