package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/repository"
)

type predictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(db *gorm.DB) repository.PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, record *entity.PredictionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *predictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PredictionRecord, error) {
	var record entity.PredictionRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *predictionRepository) List(ctx context.Context, limit, offset int) ([]*entity.PredictionRecord, int64, error) {
	var records []*entity.PredictionRecord
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.PredictionRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *predictionRepository) CountByLabel(ctx context.Context) ([]entity.LabelCount, error) {
	var counts []entity.LabelCount
	err := r.db.WithContext(ctx).
		Model(&entity.PredictionRecord{}).
		Select("label, COUNT(*) AS count").
		Group("label").
		Order("count DESC, label ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

type trainingRunRepository struct {
	db *gorm.DB
}

// NewTrainingRunRepository creates a new training run repository
func NewTrainingRunRepository(db *gorm.DB) repository.TrainingRunRepository {
	return &trainingRunRepository{db: db}
}

func (r *trainingRunRepository) Create(ctx context.Context, run *entity.TrainingRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *trainingRunRepository) GetByModelID(ctx context.Context, modelID string) (*entity.TrainingRun, error) {
	var run entity.TrainingRun
	err := r.db.WithContext(ctx).First(&run, "model_id = ?", modelID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (r *trainingRunRepository) List(ctx context.Context, limit, offset int) ([]*entity.TrainingRun, int64, error) {
	var runs []*entity.TrainingRun
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.TrainingRun{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&runs).Error
	if err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}
