package entity

import (
	"time"

	"github.com/google/uuid"
)

// LabelMetrics holds precision, recall and F1 for one label
type LabelMetrics struct {
	Label     string  `json:"label" msgpack:"label"`
	Precision float64 `json:"precision" msgpack:"precision"`
	Recall    float64 `json:"recall" msgpack:"recall"`
	F1        float64 `json:"f1" msgpack:"f1"`
	Support   int     `json:"support" msgpack:"support"`
}

// EvaluationReport summarizes a model on the held-out test partition
type EvaluationReport struct {
	Accuracy    float64        `json:"accuracy" msgpack:"accuracy"`
	Labels      []LabelMetrics `json:"labels" msgpack:"labels"`
	MacroAvg    LabelMetrics   `json:"macro_avg" msgpack:"macro_avg"`
	WeightedAvg LabelMetrics   `json:"weighted_avg" msgpack:"weighted_avg"`
	Confusion   [][]int        `json:"confusion" msgpack:"confusion"`
	TestSize    int            `json:"test_size" msgpack:"test_size"`
}

// TrainingRun records one offline training run
type TrainingRun struct {
	ID            uuid.UUID         `json:"id" gorm:"type:uuid;primary_key"`
	ModelID       string            `json:"model_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	ModelPath     string            `json:"model_path" gorm:"type:text;not null"`
	DatasetPath   string            `json:"dataset_path" gorm:"type:text;not null"`
	Labels        []string          `json:"labels" gorm:"serializer:json;type:jsonb"`
	TrainExamples int               `json:"train_examples" gorm:"not null"`
	TestExamples  int               `json:"test_examples" gorm:"not null"`
	Features      int               `json:"features" gorm:"not null"`
	Accuracy      float64           `json:"accuracy" gorm:"type:decimal(5,4)"`
	Report        *EvaluationReport `json:"report,omitempty" gorm:"serializer:json;type:jsonb"`
	DurationMs    int64             `json:"duration_ms" gorm:"default:0"`
	CreatedAt     time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (TrainingRun) TableName() string {
	return "training_runs"
}
