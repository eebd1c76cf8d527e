package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "dataset not found", err: ErrDatasetNotFound, expected: "DatasetNotFoundError"},
		{name: "wrapped parse error", err: fmt.Errorf("%w: line 3", ErrDatasetParse), expected: "DatasetParseError"},
		{name: "insufficient data", err: ErrInsufficientData, expected: "InsufficientDataError"},
		{name: "empty corpus", err: ErrEmptyCorpus, expected: "EmptyCorpusError"},
		{name: "model not found", err: ErrModelNotFound, expected: "ModelNotFoundError"},
		{name: "model corrupt", err: ErrModelCorrupt, expected: "ModelCorruptError"},
		{name: "incompatible version", err: fmt.Errorf("load: %w", ErrIncompatibleModelVersion), expected: "IncompatibleModelVersionError"},
		{name: "translation unavailable", err: ErrTranslationUnavailable, expected: "TranslationUnavailableError"},
		{name: "invalid input", err: ErrInvalidInput, expected: "InvalidInputError"},
		{name: "prediction", err: ErrPrediction, expected: "PredictionError"},
		{name: "unknown error", err: errors.New("boom"), expected: "PredictionError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorKind(tt.err))
		})
	}
}

func TestDistinctLabels(t *testing.T) {
	examples := []TrainingExample{
		{Text: "a", Label: "sadness"},
		{Text: "b", Label: "joy"},
		{Text: "c", Label: "anger"},
		{Text: "d", Label: "joy"},
	}

	assert.Equal(t, []string{"anger", "joy", "sadness"}, DistinctLabels(examples))
	assert.Empty(t, DistinctLabels(nil))
}

func TestLabelCounts(t *testing.T) {
	examples := []TrainingExample{
		{Text: "a", Label: "joy"},
		{Text: "b", Label: "joy"},
		{Text: "c", Label: "fear"},
	}

	counts := LabelCounts(examples)

	assert.Equal(t, 2, counts["joy"])
	assert.Equal(t, 1, counts["fear"])
}

func TestPredictionResult_Ranked(t *testing.T) {
	result := &PredictionResult{
		Label:        "joy",
		Labels:       []string{"anger", "joy", "sadness"},
		Distribution: map[string]float64{"anger": 0.25, "joy": 0.5, "sadness": 0.25},
	}

	ranked := result.Ranked()

	assert.Len(t, ranked, 3)
	assert.Equal(t, "joy", ranked[0].Label)
	// ties keep label order
	assert.Equal(t, "anger", ranked[1].Label)
	assert.Equal(t, "sadness", ranked[2].Label)
}

func TestNewPredictionRecord(t *testing.T) {
	result := &PredictionResult{
		Label:          "joy",
		Confidence:     0.87,
		Distribution:   map[string]float64{"joy": 0.87, "sadness": 0.13},
		NormalizedText: "i am happy",
	}

	record := NewPredictionRecord("req-1", "model-1", "estoy feliz", result, 12)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "req-1", record.RequestID)
	assert.Equal(t, "model-1", record.ModelID)
	assert.Equal(t, "estoy feliz", record.InputText)
	assert.Equal(t, "i am happy", record.NormalizedText)
	assert.Equal(t, "joy", record.Label)
	assert.Equal(t, 0.87, record.Confidence)
	assert.Equal(t, int64(12), record.LatencyMs)
	assert.Equal(t, "predictions", record.TableName())
	assert.Equal(t, "training_runs", TrainingRun{}.TableName())
}
