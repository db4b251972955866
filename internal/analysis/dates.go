package analysis

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5,
	"june": 6, "july": 7, "august": 8, "september": 9, "october": 10,
	"november": 11, "december": 12,
}

// NormalizeDate coerces assorted date spellings to YYYY-MM-DD. Year-only
// and year-month inputs pad with 01; anything unparseable falls back to
// "today" so one bad date never sinks a whole analysis.
func NormalizeDate(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.Format("2006-01-02")
	}

	if m := isoDateRe.FindStringSubmatch(raw); m != nil {
		return normalizeISO(m[0])
	}
	if m := slashDateRe.FindStringSubmatch(raw); m != nil {
		return normalizeSlash(m[1], m[2], m[3])
	}
	if m := monthDayYearRe.FindStringSubmatch(raw); m != nil {
		return normalizeMonthName(m[1], m[2], m[3])
	}
	if m := monthYearRe.FindStringSubmatch(raw); m != nil {
		return normalizeMonthName(m[1], "1", m[2])
	}

	//YYYY-MM
	if len(raw) == 7 && raw[4] == '-' {
		if year, err := strconv.Atoi(raw[:4]); err == nil {
			if month, err := strconv.Atoi(raw[5:]); err == nil && month >= 1 && month <= 12 {
				return fmt.Sprintf("%04d-%02d-01", year, month)
			}
		}
	}
	//YYYY
	if len(raw) == 4 {
		if year, err := strconv.Atoi(raw); err == nil && year >= 1000 {
			return fmt.Sprintf("%04d-01-01", year)
		}
	}

	return now.Format("2006-01-02")
}

func normalizeISO(s string) string {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02")
	}
	return s
}

func normalizeSlash(month, day, year string) string {
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	y, _ := strconv.Atoi(year)
	return fmt.Sprintf("%04d-%02d-%02d", y, clampRange(m, 1, 12), clampRange(d, 1, 31))
}

func normalizeMonthName(month, day, year string) string {
	m := monthNumbers[strings.ToLower(month)]
	if m == 0 {
		m = 1
	}
	d, _ := strconv.Atoi(day)
	y, _ := strconv.Atoi(year)
	return fmt.Sprintf("%04d-%02d-%02d", y, m, clampRange(d, 1, 31))
}

func clampRange(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
