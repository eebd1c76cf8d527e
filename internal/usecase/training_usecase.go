package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/repository"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/training"
)

// ErrInvalidTrainInput is returned when a training request lacks paths
var ErrInvalidTrainInput = errors.New("dataset path and model path are required")

// DatasetLoader reads labeled examples
type DatasetLoader interface {
	Load(path string) ([]entity.TrainingExample, error)
}

// ModelTrainer fits a pipeline from examples
type ModelTrainer interface {
	Train(ctx context.Context, examples []entity.TrainingExample) (*training.Result, error)
}

// ModelSaver persists a fitted pipeline
type ModelSaver interface {
	Save(path string, a *pipeline.Artifact) error
}

// TrainInput represents a training request
type TrainInput struct {
	DatasetPath string
	ModelPath   string
}

// TrainOutput represents a completed training run
type TrainOutput struct {
	ModelID    string                   `json:"model_id"`
	ModelPath  string                   `json:"model_path"`
	Labels     []string                 `json:"labels"`
	Features   int                      `json:"features"`
	Report     *entity.EvaluationReport `json:"report"`
	DurationMs int64                    `json:"duration_ms"`
	Recorded   bool                     `json:"recorded"`
}

// TrainingRunListOutput represents paginated training runs
type TrainingRunListOutput struct {
	Runs    []*entity.TrainingRun `json:"runs"`
	Total   int64                 `json:"total"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
	HasMore bool                  `json:"has_more"`
}

// TrainingUsecase defines the interface for offline training
type TrainingUsecase interface {
	Train(ctx context.Context, input *TrainInput) (*TrainOutput, error)
	ListRuns(ctx context.Context, limit, offset int) (*TrainingRunListOutput, error)
}

type trainingUsecase struct {
	loader  DatasetLoader
	trainer ModelTrainer
	saver   ModelSaver
	runRepo repository.TrainingRunRepository
	logger  *zap.Logger
}

// NewTrainingUsecase creates a new training usecase; runRepo may be nil
func NewTrainingUsecase(loader DatasetLoader, trainer ModelTrainer, saver ModelSaver, runRepo repository.TrainingRunRepository, logger *zap.Logger) TrainingUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &trainingUsecase{
		loader:  loader,
		trainer: trainer,
		saver:   saver,
		runRepo: runRepo,
		logger:  logger,
	}
}

// Train loads the dataset, fits and evaluates the pipeline and saves the
// artifact. Nothing is written when any step before saving fails.
func (u *trainingUsecase) Train(ctx context.Context, input *TrainInput) (*TrainOutput, error) {
	if input.DatasetPath == "" || input.ModelPath == "" {
		return nil, ErrInvalidTrainInput
	}

	examples, err := u.loader.Load(input.DatasetPath)
	if err != nil {
		return nil, err
	}
	u.logger.Info("dataset loaded",
		zap.String("path", input.DatasetPath),
		zap.Int("examples", len(examples)),
	)

	result, err := u.trainer.Train(ctx, examples)
	if err != nil {
		return nil, err
	}

	if err := u.saver.Save(input.ModelPath, result.Artifact); err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}
	u.logger.Info("model saved",
		zap.String("path", input.ModelPath),
		zap.String("model_id", result.Artifact.Metadata.ModelID),
	)

	output := &TrainOutput{
		ModelID:    result.Artifact.Metadata.ModelID,
		ModelPath:  input.ModelPath,
		Labels:     result.Artifact.Labels,
		Features:   result.Artifact.Features.Dim(),
		Report:     result.Report,
		DurationMs: result.Duration.Milliseconds(),
	}

	if u.runRepo != nil {
		run := &entity.TrainingRun{
			ID:            uuid.New(),
			ModelID:       output.ModelID,
			ModelPath:     input.ModelPath,
			DatasetPath:   input.DatasetPath,
			Labels:        output.Labels,
			TrainExamples: result.Artifact.Metadata.TrainExamples,
			TestExamples:  result.Artifact.Metadata.TestExamples,
			Features:      output.Features,
			Accuracy:      result.Report.Accuracy,
			Report:        result.Report,
			DurationMs:    output.DurationMs,
			CreatedAt:     time.Now().UTC(),
		}
		if err := u.runRepo.Create(ctx, run); err != nil {
			u.logger.Warn("failed to record training run", zap.Error(err))
		} else {
			output.Recorded = true
		}
	}

	return output, nil
}

func (u *trainingUsecase) ListRuns(ctx context.Context, limit, offset int) (*TrainingRunListOutput, error) {
	if u.runRepo == nil {
		return nil, ErrHistoryDisabled
	}
	limit = clampLimit(limit)
	offset = clampOffset(offset)

	runs, total, err := u.runRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &TrainingRunListOutput{
		Runs:    runs,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}, nil
}
