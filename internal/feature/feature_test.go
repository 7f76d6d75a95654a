package feature_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takshd15/elite-signup/internal/feature"
	"github.com/takshd15/elite-signup/internal/lexicon"
)

func newExtractor(t *testing.T) *feature.Extractor {
	t.Helper()
	ex := feature.NewExtractor(lexicon.Load(t.TempDir()))
	ex.Now = func() time.Time { return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC) }
	return ex
}

func TestExtract_EmptyRecord(t *testing.T) {
	t.Parallel()
	b := newExtractor(t).Extract(map[string]any{})

	assert.Empty(t, b.AggregateText)
	assert.Empty(t, b.Email)
	assert.Empty(t, b.Skills)
	assert.Zero(t, b.TotalExperienceYears)
	assert.False(t, b.HasGPA)
	assert.Zero(t, b.LastYear)
}

func TestExtract_FlattensNestedStructures(t *testing.T) {
	t.Parallel()
	cv := map[string]any{
		"a": "first",
		"b": []any{"second", map[string]any{"x": "third"}, 42.0},
	}
	b := newExtractor(t).Extract(cv)
	assert.Equal(t, "first\nsecond\nthird\n42", b.AggregateText)
}

func TestExtract_FirstEmailAndPhoneWin(t *testing.T) {
	t.Parallel()
	cv := map[string]any{
		"a_contact": "early@first.com, +12 345 678 901",
		"z_contact": "late@second.com, +99 999 999 999",
	}
	b := newExtractor(t).Extract(cv)
	assert.Equal(t, "early@first.com", b.Email)
	assert.Equal(t, "+12 345 678 901", b.Phone)
}

func TestExtract_DegreeField(t *testing.T) {
	t.Parallel()
	ex := newExtractor(t)

	b := ex.Extract(map[string]any{"degree": "BSc Computer Science"})
	assert.Equal(t, "BSc Computer Science", b.DegreeText)

	b = ex.Extract(map[string]any{"degree": []any{"BSc", "MSc"}})
	assert.Equal(t, "BSc MSc", b.DegreeText)

	// Email leakage into the degree field discards it.
	b = ex.Extract(map[string]any{"degree": "someone@leaked.edu"})
	assert.Empty(t, b.DegreeText)

	// Mistyped field contributes nothing.
	b = ex.Extract(map[string]any{"degree": 17.0})
	assert.Empty(t, b.DegreeText)
}

func TestExtract_SkillsUnionAndNormalization(t *testing.T) {
	t.Parallel()
	cv := map[string]any{
		"skills":  []any{" JS ", "node", "", 3.0},
		"summary": "Shipped python services on kubernetes with docker",
	}
	b := newExtractor(t).Extract(cv)

	assert.Contains(t, b.Skills, "javascript")
	assert.Contains(t, b.Skills, "node.js")
	assert.Contains(t, b.Skills, "python")
	assert.Contains(t, b.Skills, "docker")
	require.NotEmpty(t, b.Skills)
	assert.IsIncreasing(t, b.Skills)
}

func TestExtract_ExperienceFieldPreference(t *testing.T) {
	t.Parallel()
	ex := newExtractor(t)

	b := ex.Extract(map[string]any{
		"work_experience": []any{"Engineer at Acme", "Intern at Globex"},
		"positions":       []any{"ignored because work_experience wins"},
	})
	assert.Equal(t, "Engineer at Acme Intern at Globex", b.ExperienceText)

	// Scalar experience field is not a list, so aggregate text is used.
	b = ex.Extract(map[string]any{"experience": "five years of plumbing"})
	assert.Equal(t, b.AggregateText, b.ExperienceText)
}

func TestExtract_YearsPreferenceOrder(t *testing.T) {
	t.Parallel()
	ex := newExtractor(t)

	b := ex.Extract(map[string]any{"total_experience": 5.0, "summary": "2 years at Acme 2010-2020"})
	assert.Equal(t, 5.0, b.TotalExperienceYears)

	b = ex.Extract(map[string]any{"summary": "3 years at Acme, spans 2010-2020"})
	assert.Equal(t, 3.0, b.TotalExperienceYears)

	b = ex.Extract(map[string]any{"summary": "Acme 2018-2022"})
	assert.GreaterOrEqual(t, b.TotalExperienceYears, 4.0)
}

func TestExtract_GPAHonorsCertsLastYear(t *testing.T) {
	t.Parallel()
	cv := map[string]any{
		"education": "BS 2019, GPA: 3.8/4.0, magna cum laude",
		"extras":    "AWS Certified Developer, Scrum Master certified 2023",
	}
	b := newExtractor(t).Extract(cv)

	require.True(t, b.HasGPA)
	assert.InDelta(t, 3.8, b.GPA4, 1e-9)
	assert.True(t, b.Honors)
	assert.Equal(t, 2023, b.LastYear)
	assert.GreaterOrEqual(t, b.CertCount, 2)
}

func TestExtract_Determinism(t *testing.T) {
	t.Parallel()
	cv := map[string]any{
		"skills": []any{"python", "sql"},
		"z":      "omega text",
		"a":      "alpha text",
		"nested": map[string]any{"k2": "two", "k1": "one"},
	}
	ex := newExtractor(t)
	first := ex.Extract(cv)
	for range 10 {
		assert.Equal(t, first, ex.Extract(cv))
	}
}
