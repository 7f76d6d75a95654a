// Package bow provides a dependency-free bag-of-words embedder used as the
// last-resort similarity backend. Vectors are TF-IDF weighted over a
// vocabulary fixed at construction time, so every vector produced by one
// encoder instance has the same width. The flip side of the fixed width is
// that query terms outside the seed corpus contribute nothing; a query with
// no vocabulary overlap embeds to the zero vector and scores zero similarity.
package bow

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/takshd15/elite-signup/internal/textutil"
)

// Encoder embeds texts into a fixed-width TF-IDF space. The vocabulary and
// document frequencies come from the corpus passed to New; terms outside the
// vocabulary are ignored at encode time.
type Encoder struct {
	vocab     map[string]int
	idf       []float64
	stopwords map[string]struct{}
}

// New builds an encoder whose vocabulary is the union of terms in corpus,
// minus stopwords. An empty corpus yields a zero-width encoder that embeds
// everything to nil vectors; callers should seed it with at least one
// document. A nil stopword set disables filtering.
func New(corpus []string, stopwords map[string]struct{}) *Encoder {
	e := &Encoder{stopwords: stopwords}
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokens(doc) {
			seen[tok] = struct{}{}
		}
		for tok := range seen {
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	e.vocab = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, t := range terms {
		e.vocab[t] = i
		e.idf[i] = math.Log(1+n/float64(1+df[t])) + 1
	}
	return e
}

// Name identifies the backend in logs and metrics.
func (e *Encoder) Name() string { return "bow" }

// Dim reports the vector width.
func (e *Encoder) Dim() int { return len(e.idf) }

// Embed never fails; unknown terms simply contribute nothing, and a text with
// no vocabulary hits embeds to the zero vector.
func (e *Encoder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.encode(t)
	}
	return out, nil
}

func (e *Encoder) encode(text string) []float32 {
	vec := make([]float32, len(e.idf))
	tf := make(map[int]int)
	for _, tok := range e.tokens(text) {
		if idx, ok := e.vocab[tok]; ok {
			tf[idx]++
		}
	}
	var norm float64
	for idx, count := range tf {
		w := math.Log1p(float64(count)) * e.idf[idx]
		vec[idx] = float32(w)
		norm += w * w
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}

func (e *Encoder) tokens(s string) []string {
	raw := textutil.Tokenize(strings.ToLower(s))
	if len(e.stopwords) == 0 {
		return raw
	}
	kept := raw[:0]
	for _, tok := range raw {
		if _, stop := e.stopwords[tok]; !stop {
			kept = append(kept, tok)
		}
	}
	return kept
}
