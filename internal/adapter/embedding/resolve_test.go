package embedding

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takshd15/elite-signup/internal/config"
)

var testCorpus = []string{
	"builds software systems programming testing",
	"analyzes data statistical models python",
}

func TestResolverFallsBackToBOW(t *testing.T) {
	t.Parallel()
	// onnx requested but no model files exist, so resolution lands on bow.
	cfg := config.Config{
		EmbeddingsBackend:  "onnx",
		EmbeddingsModelDir: filepath.Join(t.TempDir(), "missing"),
	}
	r := NewResolver(cfg, testCorpus, nil)

	vecs, err := r.Embed(context.Background(), []string{"software testing"})
	require.NoError(t, err)
	require.Len(t, vecs, 1)
	assert.Equal(t, "bow", r.Name())
}

func TestResolverExplicitBOW(t *testing.T) {
	t.Parallel()
	r := NewResolver(config.Config{EmbeddingsBackend: "bow"}, testCorpus, nil)
	assert.Equal(t, "bow", r.Name())
}

func TestResolverAPIWithoutKeyFallsThrough(t *testing.T) {
	t.Parallel()
	// api requested but no key; onnx model also missing, so bow serves.
	cfg := config.Config{
		EmbeddingsBackend:  "api",
		EmbeddingsModel:    "text-embedding-3-small",
		EmbeddingsModelDir: filepath.Join(t.TempDir(), "missing"),
	}
	r := NewResolver(cfg, testCorpus, nil)
	assert.Equal(t, "bow", r.Name())
}

func TestResolverResolvesOnce(t *testing.T) {
	t.Parallel()
	r := NewResolver(config.Config{EmbeddingsBackend: "bow"}, testCorpus, nil)

	first, err := r.Embed(context.Background(), []string{"python data"})
	require.NoError(t, err)
	for range 5 {
		again, err := r.Embed(context.Background(), []string{"python data"})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolverEmbedNeverFailsOnText(t *testing.T) {
	t.Parallel()
	r := NewResolver(config.Config{EmbeddingsBackend: "bow"}, testCorpus, nil)

	vecs, err := r.Embed(context.Background(), []string{"", "completely out of vocabulary zzz"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)
}
