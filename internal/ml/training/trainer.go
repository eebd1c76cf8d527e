// Package training fits the full classification pipeline from labeled
// examples and evaluates it on a stratified held-out partition.
package training

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
)

// MinExamplesPerLabel is the smallest label count that can be stratified
const MinExamplesPerLabel = 2

// Config controls the train/test split
type Config struct {
	TestSize float64
	Seed     int64
	Language string
}

// DefaultConfig holds out 20% of every label
func DefaultConfig() Config {
	return Config{
		TestSize: 0.2,
		Seed:     42,
		Language: "en",
	}
}

// Result is a fitted artifact together with its evaluation
type Result struct {
	Artifact *pipeline.Artifact
	Report   *entity.EvaluationReport
	Duration time.Duration
}

// Trainer fits vectorizer, discriminator and calibrator in dependency order
type Trainer struct {
	stages pipeline.Stages
	cfg    Config
	logger *zap.Logger
}

// NewTrainer creates a trainer
func NewTrainer(stages pipeline.Stages, cfg Config, logger *zap.Logger) *Trainer {
	if cfg.TestSize <= 0 || cfg.TestSize >= 1 {
		cfg.TestSize = 0.2
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trainer{stages: stages, cfg: cfg, logger: logger}
}

// Train fits the pipeline on the train partition only and evaluates it on
// the test partition. A poor score is reported, never rejected. Any error
// aborts the run without returning a partially fitted artifact.
func (t *Trainer) Train(ctx context.Context, examples []entity.TrainingExample) (*Result, error) {
	start := time.Now()
	if err := checkExamples(examples); err != nil {
		return nil, err
	}

	labels := entity.DistinctLabels(examples)
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	y := make([]int, len(examples))
	for i, ex := range examples {
		y[i] = index[ex.Label]
	}

	trainRows, testRows := StratifiedSplit(y, len(labels), t.cfg.TestSize, t.cfg.Seed)
	t.logger.Info("dataset split",
		zap.Int("examples", len(examples)),
		zap.Strings("labels", labels),
		zap.Int("train", len(trainRows)),
		zap.Int("test", len(testRows)),
	)

	corpus := make([]string, len(trainRows))
	for i, r := range trainRows {
		corpus[i] = examples[r].Text
	}
	space, err := t.stages.Vectorizer.Fit(corpus)
	if err != nil {
		return nil, err
	}
	t.logger.Info("vocabulary fitted", zap.Int("features", space.Dim()))

	set := &pipeline.TrainingSet{
		X:      make([]pipeline.SparseVector, len(trainRows)),
		Y:      make([]int, len(trainRows)),
		Dim:    space.Dim(),
		Labels: labels,
	}
	for i, r := range trainRows {
		set.X[i] = t.stages.Vectorizer.Transform(examples[r].Text, space)
		set.Y[i] = y[r]
	}

	params, err := t.stages.Discriminator.Fit(ctx, set)
	if err != nil {
		return nil, fmt.Errorf("fit discriminator: %w", err)
	}
	t.logger.Info("discriminator fitted", zap.Int("labels", len(params.Labels)))

	curves, err := t.stages.Calibrator.Fit(ctx, set, t.stages.Discriminator)
	if err != nil {
		return nil, fmt.Errorf("fit calibration: %w", err)
	}
	kinds := make([]string, len(curves.Curves))
	for i, c := range curves.Curves {
		kinds[i] = string(c.Kind)
	}
	t.logger.Info("calibration fitted", zap.Strings("curves", kinds))

	artifact := &pipeline.Artifact{
		Labels:      labels,
		Features:    *space,
		Classifier:  *params,
		Calibration: *curves,
		Metadata: pipeline.Metadata{
			ModelID:       uuid.NewString(),
			CreatedAt:     time.Now().UTC(),
			Language:      t.cfg.Language,
			TrainExamples: len(trainRows),
			TestExamples:  len(testRows),
		},
	}
	if err := artifact.Validate(); err != nil {
		return nil, fmt.Errorf("fitted artifact is inconsistent: %w", err)
	}

	yTrue := make([]int, len(testRows))
	yPred := make([]int, len(testRows))
	for i, r := range testRows {
		yTrue[i] = y[r]
		yPred[i] = pipeline.ArgMax(t.stages.Probabilities(artifact, examples[r].Text))
	}
	report := Evaluate(labels, yTrue, yPred)
	artifact.Metadata.Accuracy = report.Accuracy

	duration := time.Since(start)
	t.logger.Info("training completed",
		zap.String("model_id", artifact.Metadata.ModelID),
		zap.Float64("accuracy", report.Accuracy),
		zap.Duration("duration", duration),
	)
	return &Result{Artifact: artifact, Report: report, Duration: duration}, nil
}

func checkExamples(examples []entity.TrainingExample) error {
	if len(examples) == 0 {
		return fmt.Errorf("%w: dataset is empty", entity.ErrInsufficientData)
	}
	counts := entity.LabelCounts(examples)
	if len(counts) < 2 {
		return fmt.Errorf("%w: need at least 2 labels, got %d", entity.ErrInsufficientData, len(counts))
	}
	var rare []string
	for _, label := range entity.DistinctLabels(examples) {
		if counts[label] < MinExamplesPerLabel {
			rare = append(rare, label)
		}
	}
	if len(rare) > 0 {
		return fmt.Errorf("%w: labels with fewer than %d examples: %s",
			entity.ErrInsufficientData, MinExamplesPerLabel, strings.Join(rare, ", "))
	}
	return nil
}
