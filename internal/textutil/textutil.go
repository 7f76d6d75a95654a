// Package textutil holds the tokenization and regex extraction primitives
// shared by the feature extractor and the scorers.
package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	tokenRe   = regexp.MustCompile(`[A-Za-z][A-Za-z0-9.+#]*|\+\+|C\+\+|C#`)
	emailRe   = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe   = regexp.MustCompile(`\+?\d[\d\-\s()]{7,}\d`)
	gpaRe     = regexp.MustCompile(`\bc?gpa[:\s]*([0-9]+(?:\.[0-9]+)?)\s*(?:/\s*([0-9]+(?:\.[0-9]+)?))?`)
	metricsRe = regexp.MustCompile(`\b\d+(?:\.\d+)?\s*%|\$\s*\d|\b\d{2,}\b`)
	yearsRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:\+|plus)?\s*(?:years|yrs|yr)\b`)
	lastYrRe  = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
	bulletRe  = regexp.MustCompile(`(?m)^[ \t]*[-\x{2022}\x{25CF}\x{25A0}]`)
)

// skillSynonyms maps common shorthand to canonical skill names.
var skillSynonyms = map[string]string{
	"py":          "python",
	"nodejs":      "node.js",
	"node":        "node.js",
	"js":          "javascript",
	"ts":          "typescript",
	"reactjs":     "react",
	"react.js":    "react",
	"vuejs":       "vue",
	"vue.js":      "vue",
	"c sharp":     "c#",
	"c plus plus": "c++",
	"sql server":  "sql",
	"postgresql":  "postgres",
	"sklearn":     "scikit-learn",
}

var honorPhrases = []string{
	"summa cum laude", "magna cum laude", "cum laude", "dean's list", "honors", "distinction", "valedictorian",
}

// Tokenize splits text into word-ish tokens, keeping symbol-bearing terms
// such as "c++" and "c#" intact.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(text, -1)
}

// NGrams returns every 1..maxN-token n-gram of tokens, space joined, in
// positional order.
func NGrams(tokens []string, maxN int) []string {
	var out []string
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// NormalizeSkill lowercases and trims a skill term, then maps known synonyms
// to their canonical form.
func NormalizeSkill(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if canon, ok := skillSynonyms[s]; ok {
		return canon
	}
	return s
}

// ExtractEmail returns the first email-shaped substring, or "".
func ExtractEmail(text string) string {
	return emailRe.FindString(text)
}

// ExtractPhone returns the first phone-shaped substring (8+ digits with
// optional separators and leading +), or "".
func ExtractPhone(text string) string {
	return phoneRe.FindString(text)
}

// ExtractGPA finds a "gpa N[/M]" mention and normalizes it to a 4.0 scale.
// Without an explicit denominator, values at or below 10 are assumed to be on
// a 10-point scale.
func ExtractGPA(text string) (float64, bool) {
	m := gpaRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	base := 4.0
	if m[2] != "" {
		base, err = strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, false
		}
	} else if val <= 10.0 {
		base = 10.0
	}
	if base <= 0 {
		return 0, false
	}
	return 4.0 * (val / base), true
}

// HasHonors reports whether any honors phrase appears in the text.
func HasHonors(text string) bool {
	t := strings.ToLower(text)
	for _, p := range honorPhrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

// CountMetrics counts quantified-outcome tokens: percentages, dollar amounts,
// and multi-digit numbers.
func CountMetrics(text string) int {
	return len(metricsRe.FindAllString(text, -1))
}

// ExplicitYears returns the largest "<N> years" phrase value found in text.
func ExplicitYears(text string) (float64, bool) {
	best := 0.0
	found := false
	for _, m := range yearsRe.FindAllStringSubmatch(strings.ToLower(text), -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if !found || v > best {
			best = v
		}
		found = true
	}
	return best, found
}

// LastYear returns the most recent 4-digit year (1900-2099) mentioned in
// text, or 0 when none appears.
func LastYear(text string) int {
	best := 0
	for _, m := range lastYrRe.FindAllStringSubmatch(text, -1) {
		if y, err := strconv.Atoi(m[1]); err == nil && y > best {
			best = y
		}
	}
	return best
}

// CountBullets counts lines that open with a bullet marker.
func CountBullets(text string) int {
	return len(bulletRe.FindAllString(text, -1))
}
