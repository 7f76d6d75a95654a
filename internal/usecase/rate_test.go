package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takshd15/elite-signup/internal/domain"
	"github.com/takshd15/elite-signup/internal/lexicon"
)

type stubEmbedder struct {
	vec []float32
}

func (s stubEmbedder) Name() string { return "stub" }

func (s stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = s.vec
	}
	return out, nil
}

func fixedNow() time.Time {
	return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
}

func newService(t *testing.T) *RaterService {
	t.Helper()
	lex := lexicon.Load(t.TempDir())
	svc := NewRaterService(lex, stubEmbedder{vec: []float32{1, 0}}, domain.DefaultWeights())
	svc.SetNow(fixedNow)
	return svc
}

func sampleRecord() domain.CVRecord {
	return domain.CVRecord{
		"name":         "Sam Doe",
		"email":        "sam@university.edu",
		"degree":       "PhD in Computer Science, GPA 3.9/4.0, magna cum laude",
		"college_name": "MIT",
		"experience": []any{
			"Senior Software Engineer, 2018 - 2023. Led a team of 6, cut costs by 30%.",
			"Research Assistant, 2016 - 2018. Published two papers.",
		},
		"skills": []any{"Python", "Go", "Kubernetes", "PostgreSQL"},
	}
}

func TestRateNilRecordRejected(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	_, err := svc.Rate(context.Background(), nil, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRateEmptyRecordFloors(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	res, err := svc.Rate(context.Background(), domain.CVRecord{}, true)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.OverallScore, 0.0)
	assert.LessOrEqual(t, res.OverallScore, 100.0)
	// Empty text yields no similarity signal at all.
	assert.Zero(t, res.Components.AISignal)
	require.NotNil(t, res.Explanation)
	assert.Len(t, res.Explanation.Notes.Strengths, 3)
	assert.Len(t, res.Explanation.Notes.Weaknesses, 3)
}

func TestRateStrongRecordScoresHigh(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	res, err := svc.Rate(context.Background(), sampleRecord(), true)
	require.NoError(t, err)

	assert.Greater(t, res.Components.Education, 80.0)
	assert.Greater(t, res.Components.Experience, 40.0)
	assert.Greater(t, res.OverallScore, 40.0)
	assert.LessOrEqual(t, res.OverallScore, 100.0)
	require.NotNil(t, res.Explanation)
	assert.NotEmpty(t, res.Explanation.Highlights)
	assert.Len(t, res.Explanation.TopArchetypeMatches, 3)
}

func TestRateWithoutExplanation(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	withExp, err := svc.Rate(context.Background(), sampleRecord(), true)
	require.NoError(t, err)
	withoutExp, err := svc.Rate(context.Background(), sampleRecord(), false)
	require.NoError(t, err)

	assert.Nil(t, withoutExp.Explanation)
	assert.Equal(t, withExp.OverallScore, withoutExp.OverallScore)
	assert.Equal(t, withExp.Components, withoutExp.Components)

	b, err := json.Marshal(withoutExp)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "explanation")
}

func TestRateDeterministic(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	first, err := svc.Rate(context.Background(), sampleRecord(), true)
	require.NoError(t, err)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	for range 10 {
		again, err := svc.Rate(context.Background(), sampleRecord(), true)
		require.NoError(t, err)
		againJSON, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, string(firstJSON), string(againJSON))
	}
}

func TestRateScoresAlwaysBounded(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	records := []domain.CVRecord{
		{},
		{"education": "high school"},
		{"experience": "worked 40 years in everything", "skills": []any{"go"}},
		{"free_text": "x", "nested": map[string]any{"deep": []any{"a", map[string]any{"b": "c"}}}},
		sampleRecord(),
	}
	for _, cv := range records {
		res, err := svc.Rate(context.Background(), cv, false)
		require.NoError(t, err)
		for _, v := range []float64{
			res.OverallScore,
			res.Components.Education,
			res.Components.Experience,
			res.Components.Skills,
			res.Components.AISignal,
		} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	}
}

func TestRateCancelledContext(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Rate(ctx, sampleRecord(), true)
	assert.Error(t, err)
}
