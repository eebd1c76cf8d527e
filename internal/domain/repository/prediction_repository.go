package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
)

// PredictionRepository defines the interface for prediction history
type PredictionRepository interface {
	// Create stores a served prediction
	Create(ctx context.Context, record *entity.PredictionRecord) error

	// GetByID retrieves a prediction by its ID; nil when it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PredictionRecord, error)

	// List retrieves predictions, newest first, with pagination
	List(ctx context.Context, limit, offset int) ([]*entity.PredictionRecord, int64, error)

	// CountByLabel counts stored predictions per winning label
	CountByLabel(ctx context.Context) ([]entity.LabelCount, error)
}

// TrainingRunRepository defines the interface for training run records
type TrainingRunRepository interface {
	// Create stores a completed training run
	Create(ctx context.Context, run *entity.TrainingRun) error

	// GetByModelID retrieves the run that produced a model; nil when unknown
	GetByModelID(ctx context.Context, modelID string) (*entity.TrainingRun, error)

	// List retrieves training runs, newest first, with pagination
	List(ctx context.Context, limit, offset int) ([]*entity.TrainingRun, int64, error)
}
