package bow

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedFixedWidth(t *testing.T) {
	t.Parallel()
	e := New([]string{
		"software engineering and systems",
		"data science and statistics",
		"hardware design and prototyping",
	}, nil)

	vecs, err := e.Embed(context.Background(), []string{
		"software systems",
		"completely unrelated words zzz",
		"",
	})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	for _, v := range vecs {
		assert.Len(t, v, e.Dim())
	}
}

func TestEmbedUnitNorm(t *testing.T) {
	t.Parallel()
	e := New([]string{"go rust python", "python pandas numpy"}, nil)

	vecs, err := e.Embed(context.Background(), []string{"python and go"})
	require.NoError(t, err)

	var norm float64
	for _, x := range vecs[0] {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestEmbedOutOfVocabZeroVector(t *testing.T) {
	t.Parallel()
	e := New([]string{"alpha beta gamma"}, nil)

	vecs, err := e.Embed(context.Background(), []string{"delta epsilon"})
	require.NoError(t, err)
	for _, x := range vecs[0] {
		assert.Zero(t, x)
	}
}

func TestSimilarityOrdering(t *testing.T) {
	t.Parallel()
	corpus := []string{
		"builds software systems programming testing deployment",
		"analyzes data statistical models python statistics",
		"designs physical components cad manufacturing",
	}
	e := New(corpus, nil)

	vecs, err := e.Embed(context.Background(), append([]string{"software programming and testing"}, corpus...))
	require.NoError(t, err)

	q := vecs[0]
	cos := func(a, b []float32) float64 {
		var dot float64
		for i := range a {
			dot += float64(a[i]) * float64(b[i])
		}
		return dot
	}
	softwareSim := cos(q, vecs[1])
	dataSim := cos(q, vecs[2])
	hardwareSim := cos(q, vecs[3])

	assert.Greater(t, softwareSim, dataSim)
	assert.Greater(t, softwareSim, hardwareSim)
	assert.False(t, math.IsNaN(softwareSim))
}

func TestEmptyCorpus(t *testing.T) {
	t.Parallel()
	e := New(nil, nil)
	assert.Zero(t, e.Dim())

	vecs, err := e.Embed(context.Background(), []string{"anything"})
	require.NoError(t, err)
	assert.Empty(t, vecs[0])
}

func TestCaseInsensitive(t *testing.T) {
	t.Parallel()
	e := New([]string{"Python Go Rust"}, nil)

	vecs, err := e.Embed(context.Background(), []string{"PYTHON go"})
	require.NoError(t, err)

	var norm float64
	for _, x := range vecs[0] {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "bow", New(nil, nil).Name())
}

func TestStopwordsExcludedFromVocabulary(t *testing.T) {
	t.Parallel()
	stop := map[string]struct{}{"and": {}, "the": {}}
	e := New([]string{"go and rust", "the python"}, stop)

	assert.Equal(t, 3, e.Dim())

	vecs, err := e.Embed(context.Background(), []string{"and the"})
	require.NoError(t, err)
	for _, x := range vecs[0] {
		assert.Zero(t, x)
	}
}
