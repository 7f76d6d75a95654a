package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/takshd15/elite-signup/internal/config"
	"github.com/takshd15/elite-signup/internal/domain"
	"github.com/takshd15/elite-signup/internal/usecase"
)

// Server bundles handler dependencies.
type Server struct {
	Cfg      config.Config
	Rater    *usecase.RaterService
	Embedder domain.Embedder
}

// NewServer constructs a Server with its dependencies.
func NewServer(cfg config.Config, rater *usecase.RaterService, emb domain.Embedder) *Server {
	return &Server{Cfg: cfg, Rater: rater, Embedder: emb}
}

// RateHandler accepts an arbitrary JSON object describing a candidate and
// returns its rating. ?explain=false suppresses the explanation block.
func (s *Server) RateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Accept negotiation: only JSON responses supported
		if a := r.Header.Get("Accept"); a != "" && a != "*/*" && !strings.Contains(a, "application/json") {
			writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{
				Code: "INVALID_ARGUMENT", Message: "not acceptable", Details: map[string]any{"accept": a},
			}})
			return
		}

		maxBody := s.Cfg.MaxBodyBytes
		if maxBody <= 0 {
			maxBody = 1 << 20
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)

		var record domain.CVRecord
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&record); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeError(w, r, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrInvalidArgument, maxBody), nil)
				return
			}
			writeError(w, r, fmt.Errorf("%w: body must be a JSON object", domain.ErrInvalidArgument), nil)
			return
		}
		// Trailing garbage after the object is a malformed request too.
		if dec.More() {
			writeError(w, r, fmt.Errorf("%w: unexpected trailing data", domain.ErrInvalidArgument), nil)
			return
		}

		withExplanation := true
		if v := r.URL.Query().Get("explain"); v != "" {
			withExplanation = v != "false" && v != "0"
		}

		res, err := s.Rater.Rate(r.Context(), record, withExplanation)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// HealthzHandler reports process liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler probes the similarity backend with a tiny embed call. The
// backend degrades rather than fails, so readiness reports which backend is
// actually serving.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := make([]check, 0, 1)
		if s.Embedder != nil {
			if _, err := s.Embedder.Embed(ctx, []string{"ready"}); err != nil {
				checks = append(checks, check{Name: "embeddings", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "embeddings", OK: true, Details: s.Embedder.Name()})
			}
		}

		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
