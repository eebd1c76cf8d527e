package entity

import "errors"

// Training-time errors
var (
	ErrDatasetNotFound  = errors.New("dataset not found")
	ErrDatasetParse     = errors.New("dataset could not be decoded")
	ErrInsufficientData = errors.New("insufficient training data")
	ErrEmptyCorpus      = errors.New("corpus has no usable tokens")
)

// Model artifact load errors
var (
	ErrModelNotFound            = errors.New("model not found")
	ErrModelCorrupt             = errors.New("model artifact is corrupt")
	ErrIncompatibleModelVersion = errors.New("incompatible model format version")
)

// Inference-time errors
var (
	ErrTranslationUnavailable = errors.New("translation service unavailable")
	ErrInvalidInput           = errors.New("invalid input")
	ErrPrediction             = errors.New("prediction failed")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrDatasetNotFound, "DatasetNotFoundError"},
	{ErrDatasetParse, "DatasetParseError"},
	{ErrInsufficientData, "InsufficientDataError"},
	{ErrEmptyCorpus, "EmptyCorpusError"},
	{ErrModelNotFound, "ModelNotFoundError"},
	{ErrModelCorrupt, "ModelCorruptError"},
	{ErrIncompatibleModelVersion, "IncompatibleModelVersionError"},
	{ErrTranslationUnavailable, "TranslationUnavailableError"},
	{ErrInvalidInput, "InvalidInputError"},
	{ErrPrediction, "PredictionError"},
}

// ErrorKind returns the taxonomy name of err. Errors outside the taxonomy are
// reported as PredictionError; a nil error has no kind.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "PredictionError"
}
