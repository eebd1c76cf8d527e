// Package tfidf fits a term vocabulary with inverse-document-frequency
// weights and turns text into L2-normalized TF-IDF vectors.
package tfidf

import (
	"fmt"
	"math"
	"sort"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/textproc"
)

// Config controls vocabulary selection
type Config struct {
	Analyzer    textproc.Options
	MaxFeatures int // 0 keeps every term
	MinDF       int
}

// DefaultConfig keeps up to 50000 unigram and bigram terms
func DefaultConfig() Config {
	return Config{
		Analyzer:    textproc.DefaultOptions(),
		MaxFeatures: 50000,
		MinDF:       1,
	}
}

// Vectorizer implements pipeline.Vectorizer
type Vectorizer struct {
	cfg Config
}

// NewVectorizer creates a TF-IDF vectorizer
func NewVectorizer(cfg Config) *Vectorizer {
	if cfg.MinDF < 1 {
		cfg.MinDF = 1
	}
	return &Vectorizer{cfg: cfg}
}

type termDF struct {
	term string
	df   int
}

// Fit selects the vocabulary from corpus. Terms are ranked by document
// frequency (ties broken alphabetically) and the top MaxFeatures are kept.
// Kept terms are assigned columns in alphabetical order.
func (v *Vectorizer) Fit(corpus []string) (*pipeline.FeatureSpace, error) {
	analyzer := textproc.New(v.cfg.Analyzer)

	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, term := range analyzer.Terms(doc) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	if len(df) == 0 {
		return nil, fmt.Errorf("%w: %d documents", entity.ErrEmptyCorpus, len(corpus))
	}

	ranked := make([]termDF, 0, len(df))
	for term, n := range df {
		if n >= v.cfg.MinDF {
			ranked = append(ranked, termDF{term: term, df: n})
		}
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: no term reaches min_df=%d", entity.ErrEmptyCorpus, v.cfg.MinDF)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].df != ranked[j].df {
			return ranked[i].df > ranked[j].df
		}
		return ranked[i].term < ranked[j].term
	})
	if v.cfg.MaxFeatures > 0 && len(ranked) > v.cfg.MaxFeatures {
		ranked = ranked[:v.cfg.MaxFeatures]
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].term < ranked[j].term })

	n := float64(len(corpus))
	space := &pipeline.FeatureSpace{
		Analyzer:   analyzer.Options(),
		Vocabulary: make(map[string]int, len(ranked)),
		IDF:        make([]float64, len(ranked)),
	}
	for i, t := range ranked {
		space.Vocabulary[t.term] = i
		// smoothed idf, as if one extra document contained every term
		space.IDF[i] = math.Log((1+n)/(1+float64(t.df))) + 1
	}
	return space, nil
}

// Transform weighs each known term by count*idf and L2-normalizes the result.
// Terms outside the vocabulary are ignored.
func (v *Vectorizer) Transform(text string, space *pipeline.FeatureSpace) pipeline.SparseVector {
	analyzer := textproc.New(space.Analyzer)

	counts := make(map[int]float64)
	for _, term := range analyzer.Terms(text) {
		if idx, ok := space.Vocabulary[term]; ok {
			counts[idx]++
		}
	}

	vec := pipeline.SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	for _, idx := range vec.Indices {
		vec.Values = append(vec.Values, counts[idx]*space.IDF[idx])
	}
	vec.Normalize()
	return vec
}
