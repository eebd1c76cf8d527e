package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// PredictionResult is the outcome of classifying a single text
type PredictionResult struct {
	Label          string             `json:"label"`
	Display        string             `json:"display"`
	Confidence     float64            `json:"confidence"`
	Distribution   map[string]float64 `json:"distribution"`
	Labels         []string           `json:"labels"`
	NormalizedText string             `json:"normalized_text,omitempty"`
}

// LabelProbability pairs a label with its probability
type LabelProbability struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Ranked returns the distribution ordered by descending probability.
// Equal probabilities keep the artifact label order.
func (r *PredictionResult) Ranked() []LabelProbability {
	ranked := make([]LabelProbability, 0, len(r.Labels))
	for _, label := range r.Labels {
		ranked = append(ranked, LabelProbability{Label: label, Probability: r.Distribution[label]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})
	return ranked
}

// PredictionRecord is a served prediction kept for history and statistics
type PredictionRecord struct {
	ID             uuid.UUID          `json:"id" gorm:"type:uuid;primary_key"`
	RequestID      string             `json:"request_id" gorm:"type:varchar(64);index"`
	ModelID        string             `json:"model_id" gorm:"type:varchar(64);not null;index"`
	InputText      string             `json:"input_text" gorm:"type:text;not null"`
	NormalizedText string             `json:"normalized_text" gorm:"type:text"`
	Label          string             `json:"label" gorm:"type:varchar(100);not null;index"`
	Confidence     float64            `json:"confidence" gorm:"type:decimal(5,4)"`
	Distribution   map[string]float64 `json:"distribution" gorm:"serializer:json;type:jsonb"`
	LatencyMs      int64              `json:"latency_ms" gorm:"default:0"`
	CreatedAt      time.Time          `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (PredictionRecord) TableName() string {
	return "predictions"
}

// NewPredictionRecord creates a record from a prediction result
func NewPredictionRecord(requestID, modelID, input string, result *PredictionResult, latencyMs int64) *PredictionRecord {
	return &PredictionRecord{
		ID:             uuid.New(),
		RequestID:      requestID,
		ModelID:        modelID,
		InputText:      input,
		NormalizedText: result.NormalizedText,
		Label:          result.Label,
		Confidence:     result.Confidence,
		Distribution:   result.Distribution,
		LatencyMs:      latencyMs,
	}
}

// LabelCount is the number of stored predictions for one label
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}
