// Package inference answers single-text queries against a loaded model.
package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/normalize"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
)

// Decimals is the precision of presented probabilities
const Decimals = 2

// Engine runs normalize, vectorize, score, calibrate and format for one text.
// It holds no per-model state; the artifact is passed to every call and is
// only read, so one Engine and one artifact can serve concurrent calls.
type Engine struct {
	stages     pipeline.Stages
	normalizer normalize.Normalizer
	aliases    map[string]string
	logger     *zap.Logger
}

// NewEngine creates an inference engine. aliases maps a label to the name
// shown in the display string and may be nil.
func NewEngine(stages pipeline.Stages, normalizer normalize.Normalizer, aliases map[string]string, logger *zap.Logger) *Engine {
	if normalizer == nil {
		normalizer = normalize.Passthrough{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	copied := make(map[string]string, len(aliases))
	for k, v := range aliases {
		copied[k] = v
	}
	return &Engine{stages: stages, normalizer: normalizer, aliases: copied, logger: logger}
}

// Predict classifies text. Every failure, including a panic inside a stage,
// comes back as an error whose entity.ErrorKind is in the taxonomy.
func (e *Engine) Predict(ctx context.Context, model *pipeline.Artifact, text string) (result *entity.PredictionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", entity.ErrPrediction, r)
		}
		if err != nil {
			err = tagged(err)
			e.logger.Warn("prediction failed",
				zap.String("kind", entity.ErrorKind(err)),
				zap.Error(err),
			)
		}
	}()

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty", entity.ErrInvalidInput)
	}
	if model == nil {
		return nil, fmt.Errorf("%w: no model loaded", entity.ErrModelNotFound)
	}

	normalized, err := e.normalizer.Normalize(ctx, text)
	if err != nil {
		return nil, err
	}

	probs := e.stages.Probabilities(model, normalized)
	if len(probs) != len(model.Labels) {
		return nil, fmt.Errorf("%w: %d probabilities for %d labels", entity.ErrPrediction, len(probs), len(model.Labels))
	}
	for i, p := range probs {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("%w: probability %v for %q", entity.ErrPrediction, p, model.Labels[i])
		}
	}

	rounded := RoundDistribution(probs, Decimals)
	winner := Winner(rounded, probs)
	label := model.Labels[winner]

	distribution := make(map[string]float64, len(model.Labels))
	for i, l := range model.Labels {
		distribution[l] = rounded[i]
	}
	return &entity.PredictionResult{
		Label:          label,
		Display:        e.Display(label, rounded[winner]),
		Confidence:     rounded[winner],
		Distribution:   distribution,
		Labels:         append([]string(nil), model.Labels...),
		NormalizedText: normalized,
	}, nil
}

// Winner returns the index of the largest rounded probability. Rounded ties
// go to the larger calibrated probability, then to the earlier label, so the
// winner is always the calibrated argmax.
func Winner(rounded, calibrated []float64) int {
	best := -1
	for i := range rounded {
		if best < 0 || rounded[i] > rounded[best] ||
			(rounded[i] == rounded[best] && calibrated[i] > calibrated[best]) {
			best = i
		}
	}
	return best
}

// Display formats a label as an upper-cased name with its percentage,
// for example "JOY (87%)".
func (e *Engine) Display(label string, confidence float64) string {
	name := label
	if alias := e.aliases[label]; alias != "" {
		name = alias
	} else if alias := e.aliases[strings.ToLower(label)]; alias != "" {
		// config keys arrive lower-cased
		name = alias
	}
	return fmt.Sprintf("%s (%d%%)", strings.ToUpper(name), int(math.Round(confidence*100)))
}

// RoundDistribution rounds probabilities to the given number of decimals with
// the largest-remainder method, so the rounded values still sum to exactly
// one. Leftover units go to the largest remainders, earlier labels first.
func RoundDistribution(probs []float64, decimals int) []float64 {
	scale := math.Pow(10, float64(decimals))
	units := int(scale)
	floors := make([]int, len(probs))
	remainders := make([]float64, len(probs))
	total := 0
	for i, p := range probs {
		scaled := p * scale
		// absorb representation error such as 0.29*100 = 28.999999999999996
		f := int(math.Floor(scaled + 1e-9))
		floors[i] = f
		remainders[i] = scaled - float64(f)
		total += f
	}

	for deficit := units - total; deficit > 0; deficit-- {
		best := -1
		for i, r := range remainders {
			if best < 0 || r > remainders[best] {
				best = i
			}
		}
		if best < 0 {
			break
		}
		floors[best]++
		remainders[best] = math.Inf(-1)
	}

	out := make([]float64, len(probs))
	for i, f := range floors {
		out[i] = float64(f) / scale
	}
	return out
}

func tagged(err error) error {
	for _, known := range []error{
		entity.ErrInvalidInput,
		entity.ErrTranslationUnavailable,
		entity.ErrPrediction,
		entity.ErrModelNotFound,
		entity.ErrModelCorrupt,
		entity.ErrIncompatibleModelVersion,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", entity.ErrPrediction, err)
}
