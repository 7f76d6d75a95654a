// Package score implements the four component scorers and their weighted
// aggregation. Every scorer returns a value clamped to [0,100].
package score

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/takshd15/elite-signup/internal/domain"
	"github.com/takshd15/elite-signup/internal/feature"
	"github.com/takshd15/elite-signup/internal/lexicon"
	"github.com/takshd15/elite-signup/internal/textutil"
)

// Degree tier keywords, highest tier first. Matching is substring-based
// against the lower-cased degree text.
var degreeTiers = []struct {
	keys  []string
	bonus float64
}{
	{[]string{"phd", "doctor", "md", "jd", "dphil"}, 55},
	{[]string{"master", "msc", "m.s", "m.eng", "ms "}, 45},
	{[]string{"bachelor", "b.sc", "beng", "b.s", "ba "}, 35},
	{[]string{"bootcamp", "nanodegree", "certificate"}, 20},
	{[]string{"high school", "secondary", "undergrad"}, 15},
}

// earlyCareerCues credit signals that matter for junior candidates.
var earlyCareerCues = []lexicon.Cue{
	{Term: "intern", Bonus: 3},
	{Term: "trainee", Bonus: 2},
	{Term: "research assistant", Bonus: 3},
	{Term: "junior", Bonus: 2},
}

// leadershipTitles and earlyCareerTitles feed the flat ai_signal bonuses.
var (
	leadershipTitles  = []string{"vice-president", "vice president", "president", "lecturer", "postdoc"}
	earlyCareerTitles = []string{"intern", "research assistant"}
)

// Scorer evaluates feature bundles against a lexicon. Embed supplies the
// similarity backend for the role-fit component; Now is injectable for
// recency bonuses.
type Scorer struct {
	Lex   *lexicon.Lexicon
	Embed domain.Embedder
	Now   func() time.Time
}

// NewScorer constructs a Scorer with a wall-clock Now.
func NewScorer(lex *lexicon.Lexicon, emb domain.Embedder) *Scorer {
	return &Scorer{Lex: lex, Embed: emb, Now: time.Now}
}

// Education scores degree level, STEM focus, GPA, honors, institution, and
// certifications.
func (s *Scorer) Education(b feature.Bundle) float64 {
	deg := strings.ToLower(b.DegreeText)

	base := 20.0
	tierBonus := 10.0 // unknown-degree floor
	for _, tier := range degreeTiers {
		if containsAny(deg, tier.keys) {
			tierBonus = tier.bonus
			break
		}
	}
	base += tierBonus

	if containsAny(deg, s.Lex.STEMTerms) {
		base += 7
	}
	if b.HasGPA {
		switch {
		case b.GPA4 >= 3.9:
			base += 10
		case b.GPA4 >= 3.7:
			base += 7
		case b.GPA4 >= 3.5:
			base += 5
		case b.GPA4 >= 3.2:
			base += 3
		}
	}
	if b.Honors {
		base += 6
	}
	if strings.TrimSpace(b.CollegeText) != "" {
		base += 5
	}
	if strings.HasSuffix(b.Email, ".edu") {
		base += 5
	}
	base += math.Min(8, 2*float64(b.CertCount))

	return domain.Clamp(base, 0, 100)
}

// Experience scores a recentered logistic curve over inferred years plus
// seniority cues, tooling keywords, recency, and quantified outcomes.
func (s *Scorer) Experience(b feature.Bundle) float64 {
	text := strings.ToLower(b.ExperienceText)

	v := 100.0 * sigmoid(0.55*(b.TotalExperienceYears-2.5))
	v = 20 + 0.8*(v-50)
	v = domain.Clamp(v, 0, 100)

	for _, cue := range s.Lex.SeniorityCues {
		if strings.Contains(text, cue.Term) {
			v += float64(cue.Bonus)
		}
	}
	for _, cue := range earlyCareerCues {
		if strings.Contains(text, cue.Term) {
			v += float64(cue.Bonus)
		}
	}
	for _, kw := range s.Lex.ToolKeywords {
		if strings.Contains(text, kw) {
			v += 1.2
		}
	}

	if b.LastYear > 0 {
		switch age := s.Now().Year() - b.LastYear; {
		case age <= 1:
			v += 6
		case age <= 3:
			v += 3
		}
	}

	v += math.Min(10, float64(textutil.CountMetrics(text)))

	return domain.Clamp(v, 0, 100)
}

// Skills combines breadth (saturating in the unique skill count), bucket
// coverage, and depth (strong skills plus proficiency adjacency).
func (s *Scorer) Skills(b feature.Bundle) float64 {
	unique := b.Skills // already sorted and deduplicated
	n := len(unique)
	txt := strings.ToLower(b.AggregateText)

	profBonus := 0.0
	for _, skill := range unique {
		occ := countWordOccurrences(txt, skill)
		lvl := 0
		lvl += 3 * levelHit(txt, skill, s.Lex.ProfTerms[3])
		lvl += 2 * levelHit(txt, skill, s.Lex.ProfTerms[2])
		lvl += 1 * levelHit(txt, skill, s.Lex.ProfTerms[1])
		hit := 0.0
		if lvl > 0 {
			hit = 1.0
		}
		profBonus += math.Min(4.0, 0.5*float64(occ)+hit+0.5*math.Max(0, float64(lvl-1)))
	}

	breadth := 100.0 * (1 - math.Exp(-float64(n)/9.0))

	covered := 0.0
	for _, bucket := range s.Lex.Buckets {
		for _, skill := range unique {
			if _, ok := bucket.Terms[skill]; ok {
				covered++
				break
			}
		}
	}
	coverage := normalize0100(covered, 0, float64(len(s.Lex.Buckets)))

	depth := 30.0
	for _, skill := range unique {
		if _, ok := s.Lex.StrongSkills[skill]; ok {
			depth += 25.0
			break
		}
	}
	depth += math.Min(20.0, profBonus)

	return domain.Clamp(0.45*breadth+0.30*coverage+0.25*depth, 0, 100)
}

// AISignal ranks the aggregate text against every archetype description
// through the similarity backend, rewarding strong top matches while still
// crediting broad alignment.
func (s *Scorer) AISignal(ctx context.Context, b feature.Bundle) float64 {
	if strings.TrimSpace(b.AggregateText) == "" {
		return 0.0
	}
	return s.AISignalFromSims(b, s.archetypeSimilarities(ctx, b.AggregateText))
}

// AISignalFromSims computes the component from already-computed archetype
// similarities, so callers that also need them for explanations embed once.
func (s *Scorer) AISignalFromSims(b feature.Bundle, sims []float64) float64 {
	text := b.AggregateText
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	v := 0.0
	if len(sims) > 0 {
		sorted := append([]float64(nil), sims...)
		sort.Float64s(sorted)
		topK := min(4, len(sorted))
		v = 0.7*mean(sorted[len(sorted)-topK:]) + 0.3*mean(sims)
	}

	low := strings.ToLower(text)
	if containsAny(low, leadershipTitles) {
		v += 3.0
	}
	if containsAny(low, earlyCareerTitles) {
		v += 3.0
	}

	return domain.Clamp(v, 0, 100)
}

// ArchetypeSimilarities exposes the per-archetype match percentages in
// catalog order, for explanation reuse. An empty slice means the backend
// could not produce similarities.
func (s *Scorer) ArchetypeSimilarities(ctx context.Context, text string) []float64 {
	return s.archetypeSimilarities(ctx, text)
}

func (s *Scorer) archetypeSimilarities(ctx context.Context, text string) []float64 {
	descs := s.Lex.ArchetypeDescriptions()
	if len(descs) == 0 || s.Embed == nil {
		return nil
	}
	vecs, err := s.Embed.Embed(ctx, append([]string{text}, descs...))
	if err != nil || len(vecs) != len(descs)+1 {
		return nil
	}
	query := vecs[0]
	sims := make([]float64, len(descs))
	for i, v := range vecs[1:] {
		sims[i] = similarityPct(dot(query, v))
	}
	return sims
}

// similarityPct maps a cosine in [-1,1] onto [0,100].
func similarityPct(cos float64) float64 {
	return domain.Clamp((cos+1.0)/2.0, 0, 1) * 100.0
}

func dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func normalize0100(x, lo, hi float64) float64 {
	if hi == lo {
		return 0.0
	}
	return domain.Clamp(100.0*(x-lo)/(hi-lo), 0, 100)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// countWordOccurrences counts whole-word matches of term in text.
func countWordOccurrences(text, term string) int {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\b`)
	if err != nil {
		return 0
	}
	return len(re.FindAllString(text, -1))
}

// levelHit reports 1 when a proficiency term sits next to the skill in
// either order ("expert python" or "python expert").
func levelHit(text, skill string, terms []string) int {
	for _, term := range terms {
		before, err1 := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\s+` + regexp.QuoteMeta(skill) + `\b`)
		after, err2 := regexp.Compile(`\b` + regexp.QuoteMeta(skill) + `\s+` + regexp.QuoteMeta(term) + `\b`)
		if err1 != nil || err2 != nil {
			continue
		}
		if before.MatchString(text) || after.MatchString(text) {
			return 1
		}
	}
	return 0
}
