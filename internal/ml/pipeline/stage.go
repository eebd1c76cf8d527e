// Package pipeline defines the data model of a fitted emotion classifier and
// the three stages that produce and apply it.
//
// Each stage has a fit half, used once by training, and an apply half, used by
// every prediction. Fitted state lives only in the Artifact; stage values carry
// fit-time configuration and nothing else.
package pipeline

import "context"

// TrainingSet is a vectorized training partition. Y holds label indices into Labels.
type TrainingSet struct {
	X      []SparseVector
	Y      []int
	Dim    int
	Labels []string
}

// Subset returns the rows at the given positions, sharing the underlying vectors
func (s *TrainingSet) Subset(rows []int) *TrainingSet {
	sub := &TrainingSet{
		X:      make([]SparseVector, len(rows)),
		Y:      make([]int, len(rows)),
		Dim:    s.Dim,
		Labels: s.Labels,
	}
	for i, r := range rows {
		sub.X[i] = s.X[r]
		sub.Y[i] = s.Y[r]
	}
	return sub
}

// Vectorizer turns text into sparse feature vectors
type Vectorizer interface {
	Fit(corpus []string) (*FeatureSpace, error)
	Transform(text string, space *FeatureSpace) SparseVector
}

// Discriminator produces one raw, unbounded margin per label
type Discriminator interface {
	Fit(ctx context.Context, set *TrainingSet) (*ClassifierParameters, error)
	Score(x SparseVector, params *ClassifierParameters) []float64
}

// Calibrator maps raw margins to a normalized probability distribution
type Calibrator interface {
	Fit(ctx context.Context, set *TrainingSet, d Discriminator) (*CalibrationCurves, error)
	Calibrate(margins []float64, curves *CalibrationCurves) []float64
}

// Stages composes the three pipeline stages
type Stages struct {
	Vectorizer    Vectorizer
	Discriminator Discriminator
	Calibrator    Calibrator
}

// Probabilities runs text through the fitted artifact and returns one
// probability per artifact label, in label order.
func (s Stages) Probabilities(a *Artifact, text string) []float64 {
	x := s.Vectorizer.Transform(text, &a.Features)
	margins := s.Discriminator.Score(x, &a.Classifier)
	return s.Calibrator.Calibrate(margins, &a.Calibration)
}

// ArgMax returns the position of the largest value; the first one wins ties.
// It returns -1 for an empty slice.
func ArgMax(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}
