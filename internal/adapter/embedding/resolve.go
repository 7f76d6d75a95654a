// Package embedding resolves which similarity backend actually serves
// requests. Resolution is lazy and happens once per process; every failure
// falls through toward the dependency-free bag-of-words encoder, so an
// Embedder obtained here effectively never refuses to embed.
package embedding

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/takshd15/elite-signup/internal/adapter/embedding/bow"
	"github.com/takshd15/elite-signup/internal/adapter/embedding/onnx"
	"github.com/takshd15/elite-signup/internal/adapter/embedding/openai"
	"github.com/takshd15/elite-signup/internal/adapter/observability"
	"github.com/takshd15/elite-signup/internal/config"
	"github.com/takshd15/elite-signup/internal/domain"
)

// Resolver picks a backend on first use: the remote API when requested and
// configured, otherwise the local ONNX model, otherwise bag-of-words. A
// per-call failure of the resolved backend degrades that call to bag-of-words
// instead of surfacing the error.
type Resolver struct {
	cfg       config.Config
	corpus    []string
	stopwords map[string]struct{}

	once     sync.Once
	active   domain.Embedder
	fallback *bow.Encoder
}

// NewResolver defers all backend construction until the first Embed call.
// corpus seeds the bag-of-words vocabulary; archetype descriptions are the
// natural choice since those are what similarity is measured against.
// stopwords are dropped from that vocabulary and may be nil.
func NewResolver(cfg config.Config, corpus []string, stopwords map[string]struct{}) *Resolver {
	return &Resolver{cfg: cfg, corpus: corpus, stopwords: stopwords}
}

func (r *Resolver) resolve() {
	r.once.Do(func() {
		r.fallback = bow.New(r.corpus, r.stopwords)
		r.active = r.pick()
		observability.EmbedBackendResolved.WithLabelValues(r.active.Name()).Inc()
		slog.Info("embeddings backend resolved",
			slog.String("requested", r.cfg.EmbeddingsBackend),
			slog.String("active", r.active.Name()))
	})
}

func (r *Resolver) pick() domain.Embedder {
	requested := strings.ToLower(r.cfg.EmbeddingsBackend)

	if requested == "api" {
		c, err := openai.New(openai.Config{
			APIKey:         r.cfg.OpenAIAPIKey,
			BaseURL:        r.cfg.OpenAIBaseURL,
			Model:          r.cfg.EmbeddingsModel,
			MaxInputTokens: r.cfg.EmbedMaxInputTokens,
			Timeout:        r.cfg.EmbedTimeout,
			MaxElapsedTime: r.cfg.EmbedRetryMaxElapsed,
		})
		if err == nil {
			return c
		}
		slog.Warn("api embeddings backend unavailable, trying onnx", slog.Any("error", err))
	}

	if requested != "bow" {
		e, err := onnx.New(onnx.Config{
			ModelDir:       r.cfg.EmbeddingsModelDir,
			ONNXFile:       r.cfg.EmbeddingsONNXFile,
			SharedLibPath:  r.cfg.ONNXSharedLibPath,
			IntraOpThreads: r.cfg.ORTIntraOpThreads,
			InterOpThreads: r.cfg.ORTInterOpThreads,
		})
		if err == nil {
			return e
		}
		slog.Warn("onnx embeddings backend unavailable, using bag-of-words", slog.Any("error", err))
	}

	return r.fallback
}

// Name reports the resolved backend, resolving it if needed.
func (r *Resolver) Name() string {
	r.resolve()
	return r.active.Name()
}

// Embed runs the resolved backend and degrades to bag-of-words when it fails
// mid-flight. Context cancellation is respected, not degraded around.
func (r *Resolver) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	r.resolve()

	vecs, err := r.active.Embed(ctx, texts)
	if err == nil {
		return vecs, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	slog.Warn("embeddings backend failed, degrading to bag-of-words",
		slog.String("backend", r.active.Name()),
		slog.Any("error", err))
	observability.EmbedRequestsTotal.WithLabelValues("bow").Inc()
	return r.fallback.Embed(ctx, texts)
}
