// Package domain defines the core types and ports of the resume rating engine.
package domain

import (
	"context"
	"errors"
	"math"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrUnavailable     = errors.New("backend unavailable")
	ErrInternal        = errors.New("internal error")
)

// CVRecord is the upstream parser's output: an arbitrary JSON-compatible
// nested structure. There is no fixed schema; fields are looked up by
// convention and any missing or mistyped field weakens a score instead of
// failing the request.
//
// Decoding into a map loses the document's key order, so text aggregation
// walks keys sorted lexically. "First" email/phone therefore means first in
// key order, not first in the source document.
type CVRecord = map[string]any

// Weights is the 4-tuple applied to component scores. Conventionally the
// values sum to 1.0, though this is not enforced.
type Weights struct {
	Education  float64 `json:"education" yaml:"education"`
	Experience float64 `json:"experience" yaml:"experience"`
	Skills     float64 `json:"skills" yaml:"skills"`
	AISignal   float64 `json:"ai_signal" yaml:"ai_signal"`
}

// DefaultWeights favors experience and role-fit over education and skills.
func DefaultWeights() Weights {
	return Weights{Education: 0.20, Experience: 0.30, Skills: 0.20, AISignal: 0.30}
}

// ComponentScores holds the four component scores, each in [0,100].
type ComponentScores struct {
	Education  float64
	Experience float64
	Skills     float64
	AISignal   float64
}

// Overall combines the components with the given weights, clamped to [0,100].
func (c ComponentScores) Overall(w Weights) float64 {
	total := c.Education*w.Education + c.Experience*w.Experience + c.Skills*w.Skills + c.AISignal*w.AISignal
	return Clamp(total, 0, 100)
}

// ComponentSet is the rounded component echo used in responses.
type ComponentSet struct {
	Education  float64 `json:"education"`
	Experience float64 `json:"experience"`
	Skills     float64 `json:"skills"`
	AISignal   float64 `json:"ai_signal"`
}

// Rounded returns the components rounded to one decimal place.
func (c ComponentScores) Rounded() ComponentSet {
	return ComponentSet{
		Education:  Round1(c.Education),
		Experience: Round1(c.Experience),
		Skills:     Round1(c.Skills),
		AISignal:   Round1(c.AISignal),
	}
}

// ArchetypeMatch reports one role archetype and its match percentage.
type ArchetypeMatch struct {
	Name     string  `json:"name"`
	MatchPct float64 `json:"match_pct"`
}

// Notes carries exactly three strengths and exactly three weaknesses.
type Notes struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// Explanation is the deterministic, human-readable rating rationale.
type Explanation struct {
	Highlights          []string         `json:"highlights"`
	TopArchetypeMatches []ArchetypeMatch `json:"top_archetype_matches"`
	ComponentDetails    ComponentSet     `json:"component_details"`
	Notes               Notes            `json:"notes"`
}

// RatingResult is the engine's caller-facing output record.
type RatingResult struct {
	OverallScore float64      `json:"overall_score"`
	Components   ComponentSet `json:"components"`
	Weights      Weights      `json:"weights"`
	Explanation  *Explanation `json:"explanation,omitempty"`
}

// Embedder (port)
//
// Embed returns one L2-normalized vector per input text; the vector width is
// stable for the lifetime of the implementation. Implementations must be safe
// for concurrent use after construction.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Name identifies the backend for logging and metrics.
	Name() string
}

// Clamp bounds x to [lo,hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Round1 rounds to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
