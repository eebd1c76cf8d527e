package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/training"
)

// MockPredictor is a mock implementation of Predictor
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, model *pipeline.Artifact, text string) (*entity.PredictionResult, error) {
	args := m.Called(ctx, model, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PredictionResult), args.Error(1)
}

// MockPredictionRepository is a mock implementation of PredictionRepository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) Create(ctx context.Context, record *entity.PredictionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PredictionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PredictionRecord), args.Error(1)
}

func (m *MockPredictionRepository) List(ctx context.Context, limit, offset int) ([]*entity.PredictionRecord, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.PredictionRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockPredictionRepository) CountByLabel(ctx context.Context) ([]entity.LabelCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LabelCount), args.Error(1)
}

// MockTrainingRunRepository is a mock implementation of TrainingRunRepository
type MockTrainingRunRepository struct {
	mock.Mock
}

func (m *MockTrainingRunRepository) Create(ctx context.Context, run *entity.TrainingRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockTrainingRunRepository) GetByModelID(ctx context.Context, modelID string) (*entity.TrainingRun, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TrainingRun), args.Error(1)
}

func (m *MockTrainingRunRepository) List(ctx context.Context, limit, offset int) ([]*entity.TrainingRun, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.TrainingRun), args.Get(1).(int64), args.Error(2)
}

// MockDatasetLoader is a mock implementation of DatasetLoader
type MockDatasetLoader struct {
	mock.Mock
}

func (m *MockDatasetLoader) Load(path string) ([]entity.TrainingExample, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.TrainingExample), args.Error(1)
}

// MockModelTrainer is a mock implementation of ModelTrainer
type MockModelTrainer struct {
	mock.Mock
}

func (m *MockModelTrainer) Train(ctx context.Context, examples []entity.TrainingExample) (*training.Result, error) {
	args := m.Called(ctx, examples)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*training.Result), args.Error(1)
}

// MockModelSaver is a mock implementation of ModelSaver
type MockModelSaver struct {
	mock.Mock
}

func (m *MockModelSaver) Save(path string, a *pipeline.Artifact) error {
	args := m.Called(path, a)
	return args.Error(0)
}

func testModel() *pipeline.Artifact {
	labels := []string{"joy", "sadness"}
	return &pipeline.Artifact{
		Labels: labels,
		Features: pipeline.FeatureSpace{
			Vocabulary: map[string]int{"happy": 0, "sad": 1},
			IDF:        []float64{1.2, 1.3},
		},
		Classifier: pipeline.ClassifierParameters{
			Labels:  labels,
			Weights: [][]float64{{1, -1}, {-1, 1}},
			Bias:    []float64{0, 0},
		},
		Calibration: pipeline.CalibrationCurves{
			Labels: labels,
			Curves: []pipeline.Curve{
				{Kind: pipeline.CurveSigmoid, A: -2},
				{Kind: pipeline.CurveSigmoid, A: -2},
			},
		},
		Metadata: pipeline.Metadata{
			ModelID:       "model-1",
			Language:      "en",
			TrainExamples: 32,
			TestExamples:  8,
			Accuracy:      0.875,
		},
	}
}

func joyResult() *entity.PredictionResult {
	return &entity.PredictionResult{
		Label:        "joy",
		Display:      "JOY (80%)",
		Confidence:   0.8,
		Distribution: map[string]float64{"joy": 0.8, "sadness": 0.2},
		Labels:       []string{"joy", "sadness"},
	}
}
