package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/repository"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/infrastructure/metrics"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/artifact"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
)

// Error definitions for prediction usecase
var (
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrHistoryDisabled    = errors.New("prediction history is not configured")
)

// Predictor classifies one text against a model
type Predictor interface {
	Predict(ctx context.Context, model *pipeline.Artifact, text string) (*entity.PredictionResult, error)
}

// PredictInput represents the input for a prediction
type PredictInput struct {
	Text string `json:"text" binding:"max=10000"`
}

// PredictionOutput represents a served prediction
type PredictionOutput struct {
	ID             *uuid.UUID                `json:"id,omitempty"`
	Label          string                    `json:"label"`
	Display        string                    `json:"display"`
	Confidence     float64                   `json:"confidence"`
	Distribution   map[string]float64        `json:"distribution"`
	Ranked         []entity.LabelProbability `json:"ranked"`
	NormalizedText string                    `json:"normalized_text,omitempty"`
	ModelID        string                    `json:"model_id"`
	LatencyMs      int64                     `json:"latency_ms"`
}

// PredictionListOutput represents paginated prediction history
type PredictionListOutput struct {
	Predictions []*entity.PredictionRecord `json:"predictions"`
	Total       int64                      `json:"total"`
	Limit       int                        `json:"limit"`
	Offset      int                        `json:"offset"`
	HasMore     bool                       `json:"has_more"`
}

// PredictionStatsOutput represents prediction counts per label
type PredictionStatsOutput struct {
	Total  int64               `json:"total"`
	Labels []entity.LabelCount `json:"labels"`
}

// ModelInfoOutput describes the loaded model
type ModelInfoOutput struct {
	ModelID       string    `json:"model_id"`
	FormatVersion uint16    `json:"format_version"`
	CreatedAt     time.Time `json:"created_at"`
	Language      string    `json:"language"`
	Labels        []string  `json:"labels"`
	Features      int       `json:"features"`
	TrainExamples int       `json:"train_examples"`
	TestExamples  int       `json:"test_examples"`
	Accuracy      float64   `json:"accuracy"`
}

// PredictionUsecase defines the interface for prediction business logic
type PredictionUsecase interface {
	Predict(ctx context.Context, requestID string, input *PredictInput) (*PredictionOutput, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PredictionRecord, error)
	List(ctx context.Context, limit, offset int) (*PredictionListOutput, error)
	Stats(ctx context.Context) (*PredictionStatsOutput, error)
	ModelInfo() *ModelInfoOutput
}

type predictionUsecase struct {
	predictor Predictor
	model     *pipeline.Artifact
	repo      repository.PredictionRepository
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewPredictionUsecase creates a new prediction usecase. model is the
// artifact loaded at startup and is never replaced; repo and m may be nil.
func NewPredictionUsecase(predictor Predictor, model *pipeline.Artifact, repo repository.PredictionRepository, m *metrics.Metrics, logger *zap.Logger) PredictionUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &predictionUsecase{
		predictor: predictor,
		model:     model,
		repo:      repo,
		metrics:   m,
		logger:    logger,
	}
}

func (u *predictionUsecase) Predict(ctx context.Context, requestID string, input *PredictInput) (*PredictionOutput, error) {
	start := time.Now()
	result, err := u.predictor.Predict(ctx, u.model, input.Text)
	if err != nil {
		u.metrics.ObservePredictionError(entity.ErrorKind(err))
		return nil, err
	}
	elapsed := time.Since(start)
	u.metrics.ObservePrediction(result.Label, elapsed)

	output := &PredictionOutput{
		Label:          result.Label,
		Display:        result.Display,
		Confidence:     result.Confidence,
		Distribution:   result.Distribution,
		Ranked:         result.Ranked(),
		NormalizedText: result.NormalizedText,
		ModelID:        u.model.Metadata.ModelID,
		LatencyMs:      elapsed.Milliseconds(),
	}

	if u.repo != nil {
		record := entity.NewPredictionRecord(requestID, u.model.Metadata.ModelID, input.Text, result, output.LatencyMs)
		if err := u.repo.Create(ctx, record); err != nil {
			// history is best effort; the caller still gets the prediction
			u.logger.Warn("failed to store prediction",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		} else {
			output.ID = &record.ID
		}
	}

	return output, nil
}

func (u *predictionUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entity.PredictionRecord, error) {
	if u.repo == nil {
		return nil, ErrHistoryDisabled
	}
	record, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrPredictionNotFound
	}
	return record, nil
}

func (u *predictionUsecase) List(ctx context.Context, limit, offset int) (*PredictionListOutput, error) {
	if u.repo == nil {
		return nil, ErrHistoryDisabled
	}
	limit = clampLimit(limit)
	offset = clampOffset(offset)

	records, total, err := u.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &PredictionListOutput{
		Predictions: records,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
		HasMore:     int64(offset+limit) < total,
	}, nil
}

func (u *predictionUsecase) Stats(ctx context.Context) (*PredictionStatsOutput, error) {
	if u.repo == nil {
		return nil, ErrHistoryDisabled
	}
	counts, err := u.repo.CountByLabel(ctx)
	if err != nil {
		return nil, err
	}

	output := &PredictionStatsOutput{Labels: counts}
	for _, c := range counts {
		output.Total += c.Count
	}
	return output, nil
}

func (u *predictionUsecase) ModelInfo() *ModelInfoOutput {
	meta := u.model.Metadata
	return &ModelInfoOutput{
		ModelID:       meta.ModelID,
		FormatVersion: artifact.FormatVersion,
		CreatedAt:     meta.CreatedAt,
		Language:      meta.Language,
		Labels:        append([]string(nil), u.model.Labels...),
		Features:      u.model.Features.Dim(),
		TrainExamples: meta.TrainExamples,
		TestExamples:  meta.TestExamples,
		Accuracy:      meta.Accuracy,
	}
}
