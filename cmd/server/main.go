// Command server starts the resume rating HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/takshd15/elite-signup/internal/adapter/embedding"
	httpserver "github.com/takshd15/elite-signup/internal/adapter/httpserver"
	"github.com/takshd15/elite-signup/internal/adapter/observability"
	"github.com/takshd15/elite-signup/internal/app"
	"github.com/takshd15/elite-signup/internal/config"
	"github.com/takshd15/elite-signup/internal/lexicon"
	"github.com/takshd15/elite-signup/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP, embedding, and rating instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	weights, err := cfg.Weights()
	if err != nil {
		slog.Error("invalid weights configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Lexicons: built-in defaults, overridable per file from LEXICON_DIR.
	lex := lexicon.Load(cfg.LexiconDir)
	slog.Info("lexicon loaded",
		slog.String("dir", cfg.LexiconDir),
		slog.Int("archetypes", len(lex.Archetypes)),
		slog.Int("buckets", len(lex.Buckets)))

	// Similarity backend: resolved lazily on first use, degrades toward
	// bag-of-words so scoring never hard-fails.
	emb := embedding.NewResolver(cfg, lex.ArchetypeDescriptions(), lex.Stopwords)

	rater := usecase.NewRaterService(lex, emb, weights)

	srv := httpserver.NewServer(cfg, rater, emb)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
