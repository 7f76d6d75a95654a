package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Temporal-span grammar: month-aware "Jan 2020 - Mar 2022" ranges, year-only
// "2020-2022" ranges, and the open-ended synonyms present/now/current. Spans
// with start after end or years outside 1950-2100 are rejected.

const (
	minSpanYear = 1950
	maxSpanYear = 2100
)

var monthIndex = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var (
	monthSpanRe = regexp.MustCompile(
		`(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+(\d{4})\s*(?:-|to|\x{2013}|\x{2014})\s*(?:(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+(\d{4})|present|now|current)`)
	yearSpanRe = regexp.MustCompile(
		`(\d{4})\s*(?:-|to|\x{2013}|\x{2014})\s*(\d{4}|present|now|current)`)
)

// InferYears estimates total experience in years from date ranges in text,
// relative to now. Month-aware spans are summed in months; year-only spans in
// whole years. A bullet-density heuristic adds half a month per bullet line
// so that sparse date information does not collapse to zero.
func InferYears(text string, now time.Time) float64 {
	t := strings.ToLower(text)
	curY, curM := now.Year(), int(now.Month())
	months := 0

	for _, m := range monthSpanRe.FindAllStringSubmatch(t, -1) {
		sy, _ := strconv.Atoi(m[2])
		sm := monthIndex[m[1]]
		var ey, em int
		if m[3] == "" {
			ey, em = curY, curM
		} else {
			ey, _ = strconv.Atoi(m[4])
			em = monthIndex[m[3]]
		}
		if sy >= minSpanYear && sy <= ey && ey <= maxSpanYear {
			if d := (ey-sy)*12 + (em - sm); d > 0 {
				months += d
			}
		}
	}

	for _, m := range yearSpanRe.FindAllStringSubmatch(t, -1) {
		y1, _ := strconv.Atoi(m[1])
		y2 := curY
		if isDigits(m[2]) {
			y2, _ = strconv.Atoi(m[2])
		}
		if y1 >= minSpanYear && y1 <= y2 && y2 <= maxSpanYear {
			months += (y2 - y1) * 12
		}
	}

	months += int(float64(CountBullets(text)) * 0.5)

	if months == 0 {
		return 0.0
	}
	return float64(months) / 12.0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
