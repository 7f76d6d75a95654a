// Package feature normalizes an arbitrary nested resume record into the flat
// bundle consumed by every scorer.
package feature

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/takshd15/elite-signup/internal/domain"
	"github.com/takshd15/elite-signup/internal/lexicon"
	"github.com/takshd15/elite-signup/internal/textutil"
	"github.com/takshd15/elite-signup/pkg/textx"
)

// Bundle is the per-request feature set. It is built fresh for every rating
// call and never mutated afterwards.
type Bundle struct {
	AggregateText        string
	Email                string
	Phone                string
	DegreeText           string
	CollegeText          string
	Skills               []string // sorted, unique, normalized
	ExperienceText       string
	TotalExperienceYears float64
	GPA4                 float64 // normalized to a 4.0 scale
	HasGPA               bool
	Honors               bool
	CertCount            int
	LastYear             int
}

// Extractor builds Bundles against a fixed lexicon. Now is injectable so that
// temporal inference is testable with a pinned clock.
type Extractor struct {
	Lex *lexicon.Lexicon
	Now func() time.Time
}

// NewExtractor returns an Extractor with a wall-clock Now.
func NewExtractor(lex *lexicon.Lexicon) *Extractor {
	return &Extractor{Lex: lex, Now: time.Now}
}

// Extract derives the feature bundle from cv. Missing or mistyped fields are
// treated as absent; Extract never fails.
func (e *Extractor) Extract(cv domain.CVRecord) Bundle {
	all := flattenStrings(cv)
	aggregate := strings.Join(all, "\n")

	var email, phone string
	for _, s := range all {
		if email == "" {
			email = textutil.ExtractEmail(s)
		}
		if phone == "" {
			phone = textutil.ExtractPhone(s)
		}
		if email != "" && phone != "" {
			break
		}
	}

	degree := scalarOrJoined(cv["degree"])
	// An email inside the degree field means the upstream parse mixed
	// columns up; drop the field rather than score garbage.
	if textutil.ExtractEmail(degree) != "" {
		degree = ""
	}

	college := ""
	if s, ok := cv["college_name"].(string); ok {
		college = s
	}

	skills := e.collectSkills(cv, aggregate)

	expText := ""
	for _, key := range []string{"experience", "work_experience", "employment", "positions"} {
		if list, ok := cv[key].([]any); ok {
			expText = joinScalars(list)
			break
		}
	}
	if expText == "" {
		expText = aggregate
	}

	years := e.inferTotalYears(cv, aggregate)

	gpa, hasGPA := textutil.ExtractGPA(aggregate)

	return Bundle{
		AggregateText:        aggregate,
		Email:                email,
		Phone:                phone,
		DegreeText:           degree,
		CollegeText:          college,
		Skills:               skills,
		ExperienceText:       expText,
		TotalExperienceYears: years,
		GPA4:                 gpa,
		HasGPA:               hasGPA,
		Honors:               textutil.HasHonors(aggregate),
		CertCount:            e.countCerts(aggregate),
		LastYear:             textutil.LastYear(aggregate),
	}
}

// collectSkills unions explicit skills entries, lexicon n-gram hits, and
// bucket member tokens, all normalized.
func (e *Extractor) collectSkills(cv domain.CVRecord, aggregate string) []string {
	set := make(map[string]struct{})
	if list, ok := cv["skills"].([]any); ok {
		for _, it := range list {
			if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
				set[textutil.NormalizeSkill(s)] = struct{}{}
			}
		}
	}

	raw := textutil.Tokenize(aggregate)
	tokens := make([]string, len(raw))
	for i, t := range raw {
		tokens[i] = textutil.NormalizeSkill(strings.ToLower(t))
	}
	for _, ng := range textutil.NGrams(tokens, 3) {
		if _, ok := e.Lex.Skills[ng]; ok {
			set[ng] = struct{}{}
		}
	}
	for _, t := range tokens {
		if e.Lex.InBucketUnion(t) {
			set[t] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// inferTotalYears prefers an explicit numeric total_experience field, then
// the largest "<N> years" phrase, then date-range inference.
func (e *Extractor) inferTotalYears(cv domain.CVRecord, aggregate string) float64 {
	if v, ok := numericField(cv["total_experience"]); ok && v >= 0 {
		return v
	}
	if v, ok := textutil.ExplicitYears(aggregate); ok {
		return v
	}
	return textutil.InferYears(aggregate, e.Now())
}

func (e *Extractor) countCerts(aggregate string) int {
	t := strings.ToLower(aggregate)
	n := 0
	for _, kw := range e.Lex.CertKeywords {
		if strings.Contains(t, kw) {
			n++
		}
	}
	return n
}

// flattenStrings recursively descends any nesting of strings, numbers, lists,
// and mappings into a flat ordered list of sanitized strings. Map keys are
// visited in sorted order so the result is stable for identical input.
func flattenStrings(v any) []string {
	var out []string
	var walk func(any)
	walk = func(v any) {
		switch x := v.(type) {
		case string:
			out = append(out, textx.SanitizeText(x))
		case float64:
			out = append(out, strconv.FormatFloat(x, 'f', -1, 64))
		case int:
			out = append(out, strconv.Itoa(x))
		case int64:
			out = append(out, strconv.FormatInt(x, 10))
		case []any:
			for _, it := range x {
				walk(it)
			}
		case map[string]any:
			keys := make([]string, 0, len(x))
			for k := range x {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(x[k])
			}
		}
	}
	walk(v)
	return out
}

// scalarOrJoined reads a field that may be a string or a list of scalars.
func scalarOrJoined(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []any:
		return joinScalars(x)
	}
	return ""
}

func joinScalars(list []any) string {
	var parts []string
	for _, it := range list {
		switch x := it.(type) {
		case string:
			parts = append(parts, x)
		case float64:
			parts = append(parts, strconv.FormatFloat(x, 'f', -1, 64))
		case int:
			parts = append(parts, strconv.Itoa(x))
		}
	}
	return strings.Join(parts, " ")
}

func numericField(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
