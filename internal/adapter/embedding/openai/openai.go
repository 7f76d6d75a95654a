// Package openai implements the remote similarity backend against any
// OpenAI-compatible /embeddings endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	tiktoken "github.com/pkoukk/tiktoken-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/takshd15/elite-signup/internal/adapter/observability"
	"github.com/takshd15/elite-signup/internal/domain"
)

// Config carries everything the client needs; main wires it from the app
// configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// MaxInputTokens truncates each input before sending. Zero disables
	// truncation.
	MaxInputTokens int
	Timeout        time.Duration
	MaxElapsedTime time.Duration
}

// Client implements domain.Embedder over HTTP with retries.
type Client struct {
	cfg Config
	hc  *http.Client

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

// New validates the config and constructs a client. The HTTP transport is
// traced so outbound embed calls show up as spans.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.Model == "" {
		return nil, fmt.Errorf("%w: api key or model missing", domain.ErrInvalidArgument)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxElapsedTime <= 0 {
		cfg.MaxElapsedTime = 2 * time.Minute
	}
	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// Name identifies the backend in logs and metrics.
func (c *Client) Name() string { return "api" }

// Embed calls the /embeddings endpoint with exponential backoff. 429 and 5xx
// are retried; other 4xx are permanent.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	inputs := make([]string, len(texts))
	for i, t := range texts {
		inputs[i] = c.truncate(t)
	}
	body := map[string]any{
		"model": c.cfg.Model,
		"input": inputs,
	}
	b, _ := json.Marshal(body)

	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	op := func() error {
		start := time.Now()
		// Recreate request each attempt to avoid reusing consumed bodies
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/embeddings", bytes.NewReader(b))
		r.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		observability.EmbedRequestsTotal.WithLabelValues("api").Inc()
		observability.EmbedRequestDuration.WithLabelValues("api").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			slog.Warn("embeddings provider rate limited",
				slog.Int("status", resp.StatusCode),
				slog.String("x_request_id", resp.Header.Get("X-Request-Id")))
			return fmt.Errorf("rate limited: 429")
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			snippet := readSnippet(resp.Body, 512)
			slog.Warn("embeddings provider 4xx",
				slog.Int("status", resp.StatusCode),
				slog.String("model", c.cfg.Model),
				slog.String("body", snippet))
			return backoff.Permanent(fmt.Errorf("embed status %d", resp.StatusCode))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			snippet := readSnippet(resp.Body, 512)
			slog.Error("embeddings provider non-2xx",
				slog.Int("status", resp.StatusCode),
				slog.String("model", c.cfg.Model),
				slog.String("body", snippet))
			return fmt.Errorf("embed status %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			slog.Error("embeddings provider decode error", slog.Any("error", err))
			return err
		}
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime = c.cfg.MaxElapsedTime
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		return nil, fmt.Errorf("embeddings api: %w", err)
	}
	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("%w: embeddings api returned %d vectors for %d inputs",
			domain.ErrInternal, len(out.Data), len(texts))
	}

	res := make([][]float32, len(out.Data))
	for i := range out.Data {
		res[i] = normalize(out.Data[i].Embedding)
	}
	return res, nil
}

// normalize converts to float32 and L2-normalizes; providers do not all
// return unit vectors and downstream cosine is a bare dot product.
func normalize(v []float64) []float32 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm < 1e-12 {
		norm = 1
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x / norm)
	}
	return out
}

// truncate caps the input at MaxInputTokens using cl100k_base, the encoding
// shared by current embedding models.
func (c *Client) truncate(text string) string {
	if c.cfg.MaxInputTokens <= 0 {
		return text
	}
	c.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			slog.Warn("tiktoken encoding unavailable, skipping truncation", slog.Any("error", err))
			return
		}
		c.enc = enc
	})
	if c.enc == nil {
		return text
	}
	ids := c.enc.Encode(text, nil, nil)
	if len(ids) <= c.cfg.MaxInputTokens {
		return text
	}
	return c.enc.Decode(ids[:c.cfg.MaxInputTokens])
}

func readSnippet(r io.Reader, n int) string {
	if r == nil || n <= 0 {
		return ""
	}
	b, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return string(b)
}
