// Package stages wires the concrete vectorizer, discriminator and calibrator
// into a pipeline.Stages value.
package stages

import (
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/calibration"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/svm"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/tfidf"
)

// Config holds fit-time settings for every stage
type Config struct {
	Vectorizer  tfidf.Config
	SVM         svm.Config
	Calibration calibration.Config
}

// DefaultConfig returns the stage defaults
func DefaultConfig() Config {
	return Config{
		Vectorizer:  tfidf.DefaultConfig(),
		SVM:         svm.DefaultConfig(),
		Calibration: calibration.DefaultConfig(),
	}
}

// New builds TF-IDF, linear SVM and cross-validated calibration stages.
// Inference only uses the apply half of each stage, so DefaultConfig is
// sufficient for serving any artifact.
func New(cfg Config) pipeline.Stages {
	return pipeline.Stages{
		Vectorizer:    tfidf.NewVectorizer(cfg.Vectorizer),
		Discriminator: svm.NewDiscriminator(cfg.SVM),
		Calibrator:    calibration.NewCalibrator(cfg.Calibration),
	}
}
