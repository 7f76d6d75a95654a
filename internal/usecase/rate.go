// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/takshd15/elite-signup/internal/adapter/observability"
	"github.com/takshd15/elite-signup/internal/domain"
	"github.com/takshd15/elite-signup/internal/explain"
	"github.com/takshd15/elite-signup/internal/feature"
	"github.com/takshd15/elite-signup/internal/lexicon"
	"github.com/takshd15/elite-signup/internal/score"
)

// RaterService turns a raw candidate record into a scored, explained rating.
// The same record always produces the same result for a fixed clock and
// backend.
type RaterService struct {
	Lex       *lexicon.Lexicon
	Weights   domain.Weights
	extractor *feature.Extractor
	scorer    *score.Scorer
	assembler *explain.Assembler
}

// NewRaterService wires the pipeline against one lexicon, one similarity
// backend, and one set of component weights.
func NewRaterService(lex *lexicon.Lexicon, emb domain.Embedder, w domain.Weights) *RaterService {
	return &RaterService{
		Lex:       lex,
		Weights:   w,
		extractor: feature.NewExtractor(lex),
		scorer:    score.NewScorer(lex, emb),
		assembler: explain.New(lex),
	}
}

// SetNow fixes the clock across the pipeline, for reproducible results in
// tests and batch runs.
func (s *RaterService) SetNow(now func() time.Time) {
	s.extractor.Now = now
	s.scorer.Now = now
	s.assembler.Now = now
}

// Rate scores a candidate record. withExplanation controls whether the
// explanation block is assembled; scores are identical either way.
func (s *RaterService) Rate(ctx context.Context, cv domain.CVRecord, withExplanation bool) (domain.RatingResult, error) {
	if cv == nil {
		return domain.RatingResult{}, fmt.Errorf("%w: record required", domain.ErrInvalidArgument)
	}

	b := s.extractor.Extract(cv)

	var sims []float64
	if strings.TrimSpace(b.AggregateText) != "" {
		sims = s.scorer.ArchetypeSimilarities(ctx, b.AggregateText)
	}
	if err := ctx.Err(); err != nil {
		return domain.RatingResult{}, err
	}

	comps := domain.ComponentScores{
		Education:  s.scorer.Education(b),
		Experience: s.scorer.Experience(b),
		Skills:     s.scorer.Skills(b),
		AISignal:   s.scorer.AISignalFromSims(b, sims),
	}
	overall := domain.Round1(comps.Overall(s.Weights))

	res := domain.RatingResult{
		OverallScore: overall,
		Components:   comps.Rounded(),
		Weights:      s.Weights,
	}
	if withExplanation {
		exp := s.assembler.Build(b, comps, sims)
		res.Explanation = &exp
	}

	observability.ObserveRating(overall, comps.Education, comps.Experience, comps.Skills, comps.AISignal)
	return res, nil
}
