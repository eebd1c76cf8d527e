package pipeline

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/textproc"
)

// FeatureSpace is the fitted vocabulary. Vocabulary maps a term to its column
// and IDF holds the inverse-document-frequency weight of each column.
type FeatureSpace struct {
	Analyzer   textproc.Options `msgpack:"analyzer"`
	Vocabulary map[string]int   `msgpack:"vocabulary"`
	IDF        []float64        `msgpack:"idf"`
}

// Dim returns the number of feature columns
func (s *FeatureSpace) Dim() int {
	return len(s.IDF)
}

// ClassifierParameters holds one weight vector and bias per label
type ClassifierParameters struct {
	Labels  []string    `msgpack:"labels"`
	Weights [][]float64 `msgpack:"weights"`
	Bias    []float64   `msgpack:"bias"`
}

// CurveKind identifies how a calibration curve maps a margin to a probability
type CurveKind string

const (
	CurveIsotonic CurveKind = "isotonic"
	CurveSigmoid  CurveKind = "sigmoid"
	CurveConstant CurveKind = "constant"
)

// Curve is a monotonic mapping from raw margin to probability.
// Isotonic curves interpolate linearly between (X, Y) thresholds and clip
// outside them; sigmoid curves compute 1/(1+exp(A*margin+B)); constant curves
// always return Prior.
type Curve struct {
	Kind  CurveKind `msgpack:"kind"`
	X     []float64 `msgpack:"x,omitempty"`
	Y     []float64 `msgpack:"y,omitempty"`
	A     float64   `msgpack:"a,omitempty"`
	B     float64   `msgpack:"b,omitempty"`
	Prior float64   `msgpack:"prior,omitempty"`
}

// CalibrationCurves holds one curve per label
type CalibrationCurves struct {
	Labels []string `msgpack:"labels"`
	Curves []Curve  `msgpack:"curves"`
}

// Metadata describes where an artifact came from
type Metadata struct {
	ModelID       string    `msgpack:"model_id"`
	CreatedAt     time.Time `msgpack:"created_at"`
	Language      string    `msgpack:"language"`
	TrainExamples int       `msgpack:"train_examples"`
	TestExamples  int       `msgpack:"test_examples"`
	Accuracy      float64   `msgpack:"accuracy"`
}

// Artifact is the complete fitted pipeline. It is never mutated after
// training or loading, so one instance may be shared by any number of
// concurrent predictions.
type Artifact struct {
	Labels      []string             `msgpack:"labels"`
	Features    FeatureSpace         `msgpack:"features"`
	Classifier  ClassifierParameters `msgpack:"classifier"`
	Calibration CalibrationCurves    `msgpack:"calibration"`
	Metadata    Metadata             `msgpack:"metadata"`
}

// Validate checks that every part of the artifact agrees on the label list
// and on the feature dimension.
func (a *Artifact) Validate() error {
	if len(a.Labels) == 0 {
		return errors.New("artifact has no labels")
	}
	seen := make(map[string]struct{}, len(a.Labels))
	for _, l := range a.Labels {
		if _, dup := seen[l]; dup {
			return fmt.Errorf("duplicate label %q", l)
		}
		seen[l] = struct{}{}
	}
	if !sameLabels(a.Labels, a.Classifier.Labels) {
		return errors.New("classifier labels do not match artifact labels")
	}
	if !sameLabels(a.Labels, a.Calibration.Labels) {
		return errors.New("calibration labels do not match artifact labels")
	}

	dim := a.Features.Dim()
	if len(a.Features.Vocabulary) != dim {
		return fmt.Errorf("vocabulary has %d terms but %d idf weights", len(a.Features.Vocabulary), dim)
	}
	for term, idx := range a.Features.Vocabulary {
		if idx < 0 || idx >= dim {
			return fmt.Errorf("term %q has column %d outside [0,%d)", term, idx, dim)
		}
	}
	if len(a.Classifier.Weights) != len(a.Labels) || len(a.Classifier.Bias) != len(a.Labels) {
		return errors.New("classifier parameter count does not match labels")
	}
	for i, w := range a.Classifier.Weights {
		if len(w) != dim {
			return fmt.Errorf("weights for %q have dimension %d, want %d", a.Labels[i], len(w), dim)
		}
	}
	if len(a.Calibration.Curves) != len(a.Labels) {
		return errors.New("calibration curve count does not match labels")
	}
	for i, c := range a.Calibration.Curves {
		if err := c.validate(); err != nil {
			return fmt.Errorf("curve for %q: %w", a.Labels[i], err)
		}
	}
	return nil
}

func (c Curve) validate() error {
	switch c.Kind {
	case CurveIsotonic:
		if len(c.X) == 0 || len(c.X) != len(c.Y) {
			return errors.New("isotonic thresholds are malformed")
		}
		for i := 1; i < len(c.X); i++ {
			if c.X[i] < c.X[i-1] || c.Y[i] < c.Y[i-1] {
				return errors.New("isotonic thresholds are not monotonic")
			}
		}
	case CurveSigmoid:
		if math.IsNaN(c.A) || math.IsNaN(c.B) {
			return errors.New("sigmoid parameters are NaN")
		}
	case CurveConstant:
		if c.Prior < 0 || c.Prior > 1 {
			return errors.New("constant prior outside [0,1]")
		}
	default:
		return fmt.Errorf("unknown curve kind %q", c.Kind)
	}
	return nil
}

func sameLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
