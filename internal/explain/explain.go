// Package explain builds the deterministic rating rationale: highlights, top
// archetype matches, component echoes, and exactly three strengths and three
// weaknesses.
package explain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/takshd15/elite-signup/internal/domain"
	"github.com/takshd15/elite-signup/internal/feature"
	"github.com/takshd15/elite-signup/internal/lexicon"
	"github.com/takshd15/elite-signup/internal/textutil"
)

const maxHighlights = 10

var (
	internRe      = regexp.MustCompile(`\b(intern|internship)\b`)
	leadershipRe  = regexp.MustCompile(`\b(vice[-\s]?president|leader|led|managed|director|head)\b`)
	publicationRe = regexp.MustCompile(`\b(published|publication|peer[-\s]?review|in press|doi|arxiv)\b`)
	productionRe  = regexp.MustCompile(`\b(deployed|shipped|released|production)\b`)
	teachingRe    = regexp.MustCompile(`\b(taught|teaching|lecturer|mentoring|tutoring|supervised)\b`)
	devopsRe      = regexp.MustCompile(`\b(docker|kubernetes|ci/?cd|pipeline|terraform|ansible)\b`)
	languageRe    = regexp.MustCompile(`\b(spanish|bilingual|multilingual|english|french|german|mandarin|hindi|arabic)\b`)
	dateSpanRe    = regexp.MustCompile(`\d{4}\s*[-\x{2013}]\s*(\d{4}|present|now|current)`)
)

var complianceTerms = []string{"sop", "iso", "rohs", "gmp", "glp", "compliance", "regulatory", "quality"}

// evidence is the precomputed view of a bundle that the rule catalogs and
// highlight checks consume.
type evidence struct {
	txt            string // aggregate text, lower-cased
	degreeText     string
	email, phone   string
	skills         []string // sorted, normalized
	skillSet       map[string]struct{}
	years          float64
	bullets        int
	metrics        int
	certs          int
	gpa            float64
	hasGPA         bool
	lastYear       int
	nowYear        int
	toolHits       int
	bucketCoverage int
	comps          domain.ComponentScores
}

func (e *evidence) containsAny(keys ...string) bool {
	for _, k := range keys {
		if strings.Contains(e.txt, k) {
			return true
		}
	}
	return false
}

func (e *evidence) hasWord(w string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(w) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(e.txt)
}

func (e *evidence) hasAnySkill(keys ...string) bool {
	for _, k := range keys {
		if _, ok := e.skillSet[k]; ok {
			return true
		}
	}
	return false
}

// Assembler builds explanations against a fixed lexicon. Now is injectable
// for recency-dependent rules.
type Assembler struct {
	Lex *lexicon.Lexicon
	Now func() time.Time
}

// New returns an Assembler with a wall-clock Now.
func New(lex *lexicon.Lexicon) *Assembler {
	return &Assembler{Lex: lex, Now: time.Now}
}

// Build assembles the full explanation. sims carries the per-archetype match
// percentages in catalog order when the similarity backend produced them; a
// nil slice falls back to rule-based token-overlap ranking, and a ranking
// failure degrades to an empty match list rather than aborting the rating.
func (a *Assembler) Build(b feature.Bundle, comps domain.ComponentScores, sims []float64) domain.Explanation {
	ev := a.gather(b, comps)

	return domain.Explanation{
		Highlights:          a.highlights(b, ev),
		TopArchetypeMatches: a.topMatches(b.AggregateText, sims),
		ComponentDetails:    comps.Rounded(),
		Notes:               selectNotes(ev),
	}
}

func (a *Assembler) gather(b feature.Bundle, comps domain.ComponentScores) *evidence {
	skillSet := make(map[string]struct{}, len(b.Skills))
	for _, s := range b.Skills {
		skillSet[s] = struct{}{}
	}
	low := strings.ToLower(b.AggregateText)

	toolHits := 0
	for _, kw := range a.Lex.ToolKeywords {
		if strings.Contains(low, kw) {
			toolHits++
		}
	}
	coverage := 0
	for _, bucket := range a.Lex.Buckets {
		for s := range skillSet {
			if _, ok := bucket.Terms[s]; ok {
				coverage++
				break
			}
		}
	}

	return &evidence{
		txt:            low,
		degreeText:     b.DegreeText,
		email:          b.Email,
		phone:          b.Phone,
		skills:         b.Skills,
		skillSet:       skillSet,
		years:          b.TotalExperienceYears,
		bullets:        textutil.CountBullets(b.AggregateText),
		metrics:        textutil.CountMetrics(low),
		certs:          b.CertCount,
		gpa:            b.GPA4,
		hasGPA:         b.HasGPA,
		lastYear:       b.LastYear,
		nowYear:        a.Now().Year(),
		toolHits:       toolHits,
		bucketCoverage: coverage,
		comps:          comps,
	}
}

// highlights lists the signals recruiters scan for first, then folds in one
// representative evidence line each for education, experience, and skills.
func (a *Assembler) highlights(b feature.Bundle, ev *evidence) []string {
	var out []string
	add := func(cond bool, msg string) {
		if cond {
			out = append(out, msg)
		}
	}

	add(internRe.MatchString(ev.txt), "Internship experience detected.")
	add(leadershipRe.MatchString(ev.txt), "Leadership/ownership signals present.")
	add(publicationRe.MatchString(ev.txt), "Publication or knowledge-sharing track record.")
	add(productionRe.MatchString(ev.txt), "Evidence of shipping to production.")
	add(teachingRe.MatchString(ev.txt), "Teaching/mentoring experience.")
	add(devopsRe.MatchString(ev.txt), "DevOps/automation exposure.")
	add(languageRe.MatchString(ev.txt), "Language/cross-cultural capability.")
	add(ev.metrics >= 2, "Quantified outcomes present (%, $, counts).")
	add(ev.bullets >= 10, "Well-structured resume with clear bulleting.")
	add(ev.containsAny(complianceTerms...), "Quality/standards/compliance awareness.")

	for _, msg := range []string{a.educationEvidence(b), a.experienceEvidence(b, ev), skillsEvidence(b)} {
		if msg == "" {
			continue
		}
		dup := false
		for _, h := range out {
			if h == msg {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, msg)
		}
	}

	if len(out) > maxHighlights {
		out = out[:maxHighlights]
	}
	return out
}

func (a *Assembler) educationEvidence(b feature.Bundle) string {
	deg := strings.ToLower(b.DegreeText)
	switch {
	case containsAny(deg, "phd", "doctor", "md", "jd", "dphil"):
		return "Doctoral-level degree signals."
	case containsAny(deg, "master", "msc", "m.s", "m.eng", "ms "):
		return "Master's-level degree signals."
	case containsAny(deg, "bachelor", "b.sc", "beng", "b.s", "ba "):
		return "Bachelor-level degree signals."
	case strings.TrimSpace(deg) != "":
		return "Degree present (level not clearly parsed)."
	}
	return ""
}

func (a *Assembler) experienceEvidence(b feature.Bundle, ev *evidence) string {
	msg := fmt.Sprintf("Estimated total experience ~%.1f years.", b.TotalExperienceYears)
	if n := len(dateSpanRe.FindAllString(ev.txt, -1)); n > 0 {
		msg = fmt.Sprintf("%s Date spans detected: %d.", msg, n)
	}
	return msg
}

func skillsEvidence(b feature.Bundle) string {
	if len(b.Skills) == 0 {
		return ""
	}
	sample := b.Skills
	suffix := ""
	if len(sample) > 10 {
		sample = sample[:10]
		suffix = ", ..."
	}
	return fmt.Sprintf("%d unique skills parsed: %s%s.", len(b.Skills), strings.Join(sample, ", "), suffix)
}

// topMatches converts backend similarity percentages into the top-3 list, or
// falls back to rule-based ranking when the backend produced nothing.
func (a *Assembler) topMatches(text string, sims []float64) []domain.ArchetypeMatch {
	names := a.Lex.ArchetypeNames()
	if len(sims) == len(names) && len(sims) > 0 {
		idx := make([]int, len(sims))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool { return sims[idx[i]] > sims[idx[j]] })
		k := min(3, len(idx))
		out := make([]domain.ArchetypeMatch, 0, k)
		for _, i := range idx[:k] {
			out = append(out, domain.ArchetypeMatch{Name: names[i], MatchPct: domain.Round1(sims[i])})
		}
		return out
	}
	return a.rankRuleBased(text)
}

// archetype ranking stopwords, independent of the scoring stopword lexicon.
var rankStopwords = toStopwordSet([]string{
	"the", "a", "an", "and", "or", "to", "for", "of", "in", "on", "with", "by", "from", "as", "at",
	"this", "that", "these", "those", "be", "is", "are", "was", "were", "will", "can", "able",
	"using", "use", "used", "via", "per", "based", "including", "include", "across",
})

var phraseSplitRe = regexp.MustCompile(`[;,/]| and | or `)

// rankRuleBased scores each archetype by token overlap with the resume text
// plus weighted phrase containment, and reports the top three relative to
// the best raw score.
func (a *Assembler) rankRuleBased(text string) []domain.ArchetypeMatch {
	low := strings.ToLower(text)
	queryTokens := contentTokens(low)
	if len(a.Lex.Archetypes) == 0 {
		return []domain.ArchetypeMatch{}
	}

	type ranked struct {
		name string
		raw  int
	}
	var scores []ranked
	for _, arch := range a.Lex.Archetypes {
		descTokens := contentTokens(strings.ToLower(arch.Description))
		if len(descTokens) == 0 {
			continue
		}
		overlap := 0
		for tok := range descTokens {
			if _, ok := queryTokens[tok]; ok {
				overlap++
			}
		}
		phraseHits := 0
		for _, p := range phraseSplitRe.Split(strings.ToLower(arch.Description), -1) {
			p = strings.TrimSpace(p)
			// phrases count double relative to single tokens
			if len(p) >= 8 && strings.Contains(low, p) {
				phraseHits += 2
			}
		}
		scores = append(scores, ranked{name: arch.Name, raw: overlap + phraseHits})
	}
	if len(scores) == 0 {
		return []domain.ArchetypeMatch{}
	}

	maxRaw := 0
	for _, s := range scores {
		if s.raw > maxRaw {
			maxRaw = s.raw
		}
	}
	if maxRaw == 0 {
		maxRaw = 1
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].raw > scores[j].raw })

	k := min(3, len(scores))
	out := make([]domain.ArchetypeMatch, 0, k)
	for _, s := range scores[:k] {
		out = append(out, domain.ArchetypeMatch{
			Name:     s.name,
			MatchPct: domain.Round1(100.0 * float64(s.raw) / float64(maxRaw)),
		})
	}
	return out
}

func contentTokens(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range textutil.Tokenize(s) {
		if _, stop := rankStopwords[t]; !stop {
			out[t] = struct{}{}
		}
	}
	return out
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func toStopwordSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[it] = struct{}{}
	}
	return out
}
