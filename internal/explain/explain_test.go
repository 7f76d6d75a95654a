package explain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takshd15/elite-signup/internal/domain"
	"github.com/takshd15/elite-signup/internal/feature"
	"github.com/takshd15/elite-signup/internal/lexicon"
)

func fixedNow() time.Time {
	return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
}

func testAssembler(t *testing.T) *Assembler {
	t.Helper()
	lex := lexicon.Load(t.TempDir())
	return &Assembler{Lex: lex, Now: fixedNow}
}

func TestBuildAlwaysThreeAndThree(t *testing.T) {
	t.Parallel()
	a := testAssembler(t)

	cases := []feature.Bundle{
		{}, // nothing extracted at all
		{
			AggregateText:        "Senior engineer, led team of 5, shipped to production, 40% latency cut",
			Skills:               []string{"go", "kubernetes", "postgres"},
			TotalExperienceYears: 6,
			LastYear:             2024,
		},
	}
	for _, b := range cases {
		exp := a.Build(b, domain.ComponentScores{}, nil)
		assert.Len(t, exp.Notes.Strengths, 3)
		assert.Len(t, exp.Notes.Weaknesses, 3)
	}
}

func TestBuildNotesNoDuplicates(t *testing.T) {
	t.Parallel()
	a := testAssembler(t)

	b := feature.Bundle{
		AggregateText:        "Published papers, taught courses, led research, deployed production systems",
		Skills:               []string{"python", "pytorch"},
		TotalExperienceYears: 8,
		CertCount:            3,
		GPA4:                 3.9,
		HasGPA:               true,
		LastYear:             2024,
	}
	exp := a.Build(b, domain.ComponentScores{Education: 80, Experience: 75, Skills: 70, AISignal: 65}, nil)

	seen := map[string]bool{}
	for _, s := range exp.Notes.Strengths {
		assert.False(t, seen[s], "duplicate strength: %s", s)
		seen[s] = true
	}
	seen = map[string]bool{}
	for _, w := range exp.Notes.Weaknesses {
		assert.False(t, seen[w], "duplicate weakness: %s", w)
		seen[w] = true
	}
}

func TestHighlightsDetectSignals(t *testing.T) {
	t.Parallel()
	a := testAssembler(t)

	b := feature.Bundle{
		AggregateText: "Software intern. Led and managed a team. Published a paper on arxiv. " +
			"Deployed to production with docker and kubernetes CI/CD pipelines. " +
			"Taught undergraduate labs. Fluent in Spanish. Reduced costs by 30% and saved $2000.",
		DegreeText:           "BSc in Computer Science, bachelor",
		TotalExperienceYears: 2.5,
		Skills:               []string{"docker", "kubernetes", "python"},
	}
	exp := a.Build(b, domain.ComponentScores{}, nil)

	joined := ""
	for _, h := range exp.Highlights {
		joined += h + "\n"
	}
	assert.Contains(t, joined, "Internship experience detected.")
	assert.Contains(t, joined, "Leadership/ownership signals present.")
	assert.Contains(t, joined, "Publication or knowledge-sharing track record.")
	assert.Contains(t, joined, "Evidence of shipping to production.")
	assert.Contains(t, joined, "Teaching/mentoring experience.")
	assert.Contains(t, joined, "DevOps/automation exposure.")
	assert.Contains(t, joined, "Language/cross-cultural capability.")
	assert.Contains(t, joined, "Quantified outcomes present (%, $, counts).")
	assert.LessOrEqual(t, len(exp.Highlights), maxHighlights)
}

func TestHighlightsCap(t *testing.T) {
	t.Parallel()
	a := testAssembler(t)

	// Trip every signal at once so the cap kicks in.
	b := feature.Bundle{
		AggregateText: "intern led managed director published arxiv deployed production taught mentoring " +
			"docker kubernetes terraform spanish bilingual iso gmp compliance 30% $500 2018 - 2022\n" +
			"- a\n- b\n- c\n- d\n- e\n- f\n- g\n- h\n- i\n- j\n- k\n",
		DegreeText:           "PhD in Physics",
		Skills:               []string{"docker", "python", "terraform"},
		TotalExperienceYears: 4,
	}
	exp := a.Build(b, domain.ComponentScores{}, nil)
	assert.Len(t, exp.Highlights, maxHighlights)
}

func TestEducationEvidenceLevels(t *testing.T) {
	t.Parallel()
	a := testAssembler(t)

	assert.Equal(t, "Doctoral-level degree signals.", a.educationEvidence(feature.Bundle{DegreeText: "PhD in CS"}))
	assert.Equal(t, "Master's-level degree signals.", a.educationEvidence(feature.Bundle{DegreeText: "MSc Data Science"}))
	assert.Equal(t, "Bachelor-level degree signals.", a.educationEvidence(feature.Bundle{DegreeText: "Bachelor of Arts"}))
	assert.Equal(t, "Degree present (level not clearly parsed).", a.educationEvidence(feature.Bundle{DegreeText: "Diploma in welding"}))
	assert.Equal(t, "", a.educationEvidence(feature.Bundle{}))
}

func TestTopMatchesFromBackendSimilarities(t *testing.T) {
	t.Parallel()
	a := testAssembler(t)

	names := a.Lex.ArchetypeNames()
	require.GreaterOrEqual(t, len(names), 3)

	sims := make([]float64, len(names))
	for i := range sims {
		sims[i] = float64(10 * i)
	}
	got := a.topMatches("anything", sims)
	require.Len(t, got, 3)
	// Highest similarity first.
	assert.Equal(t, names[len(names)-1], got[0].Name)
	assert.Equal(t, names[len(names)-2], got[1].Name)
	assert.Equal(t, names[len(names)-3], got[2].Name)
	assert.InDelta(t, float64(10*(len(names)-1)), got[0].MatchPct, 0.001)
}

func TestTopMatchesLengthMismatchFallsBack(t *testing.T) {
	t.Parallel()
	a := testAssembler(t)

	// Wrong-length slice must not index out of bounds; it triggers the
	// rule-based ranker instead.
	got := a.topMatches("software engineer building backend services", []float64{1, 2})
	assert.Len(t, got, 3)
}

func TestRuleBasedRankerPrefersOverlap(t *testing.T) {
	t.Parallel()
	a := testAssembler(t)

	text := "Software engineer designing and building scalable backend services, APIs, and distributed systems in production."
	got := a.rankRuleBased(text)
	require.Len(t, got, 3)
	assert.Equal(t, "software_engineer", got[0].Name)
	assert.InDelta(t, 100.0, got[0].MatchPct, 0.001)
	for _, m := range got {
		assert.GreaterOrEqual(t, m.MatchPct, 0.0)
		assert.LessOrEqual(t, m.MatchPct, 100.0)
	}
}

func TestRuleBasedRankerNoSignalStillRanks(t *testing.T) {
	t.Parallel()
	a := testAssembler(t)

	got := a.rankRuleBased("zzz qqq xxx")
	assert.Len(t, got, 3)
	for _, m := range got {
		assert.GreaterOrEqual(t, m.MatchPct, 0.0)
	}
}

func TestBuildDeterministic(t *testing.T) {
	t.Parallel()
	a := testAssembler(t)

	b := feature.Bundle{
		AggregateText:        "Data scientist, published research, python pandas sklearn, 2019 - 2023",
		DegreeText:           "MSc Statistics",
		Skills:               []string{"pandas", "python", "scikit-learn"},
		TotalExperienceYears: 4,
		LastYear:             2023,
	}
	comps := domain.ComponentScores{Education: 62, Experience: 55, Skills: 48, AISignal: 70}

	first := a.Build(b, comps, nil)
	for range 10 {
		assert.Equal(t, first, a.Build(b, comps, nil))
	}
}

func TestPadToThree(t *testing.T) {
	t.Parallel()

	pool := []string{"p1", "p2", "p3", "p4", "p5"}
	got := padToThree([]string{"a"}, pool)
	assert.Len(t, got, 3)
	assert.Equal(t, "a", got[0])

	got = padToThree(nil, pool)
	assert.Equal(t, []string{"p1", "p2", "p3"}, got)

	// Pool entries already present are skipped.
	got = padToThree([]string{"p1", "p3"}, pool)
	assert.Equal(t, []string{"p1", "p3", "p2"}, got)
}
