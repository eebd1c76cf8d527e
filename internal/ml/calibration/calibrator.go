// Package calibration turns one-vs-rest margins into a probability
// distribution using per-label monotonic curves fitted on held-out folds.
package calibration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
)

// Config controls cross-validated calibration
type Config struct {
	Folds int
	// MinPositivesPerFold is the smallest number of held-out positives every
	// fold must contain for a label to get an isotonic curve; below it the
	// label falls back to a sigmoid.
	MinPositivesPerFold int
	Seed                int64
	Parallelism         int
}

// DefaultConfig returns 3-fold isotonic calibration
func DefaultConfig() Config {
	return Config{
		Folds:               3,
		MinPositivesPerFold: 2,
		Seed:                42,
		Parallelism:         3,
	}
}

// Calibrator implements pipeline.Calibrator
type Calibrator struct {
	cfg Config
}

// NewCalibrator creates a calibrator
func NewCalibrator(cfg Config) *Calibrator {
	if cfg.Folds < 2 {
		cfg.Folds = 2
	}
	if cfg.MinPositivesPerFold < 1 {
		cfg.MinPositivesPerFold = 1
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	return &Calibrator{cfg: cfg}
}

// Fit collects out-of-fold margins with stratified k-fold cross-validation
// and fits one curve per label on them. Folds are trained concurrently and
// their margins land at fixed row positions, so the curves are identical
// across runs with the same seed.
func (c *Calibrator) Fit(ctx context.Context, set *pipeline.TrainingSet, d pipeline.Discriminator) (*pipeline.CalibrationCurves, error) {
	k := len(set.Labels)
	if k == 0 || len(set.X) == 0 {
		return nil, errors.New("nothing to calibrate")
	}

	folds := c.cfg.Folds
	counts := make([]int, k)
	for _, y := range set.Y {
		counts[y]++
	}
	for _, n := range counts {
		if n > 0 && n < folds {
			folds = n
		}
	}

	margins := make([][]float64, len(set.X))
	var assignment []int
	if folds >= 2 {
		assignment = StratifiedFolds(set.Y, k, folds, c.cfg.Seed)
		if err := c.crossValidate(ctx, set, d, assignment, folds, margins); err != nil {
			return nil, err
		}
	} else {
		// too few examples to hold any out; margins are in-sample
		params, err := d.Fit(ctx, set)
		if err != nil {
			return nil, fmt.Errorf("fit discriminator for calibration: %w", err)
		}
		for i, x := range set.X {
			margins[i] = d.Score(x, params)
		}
	}

	curves := &pipeline.CalibrationCurves{
		Labels: append([]string(nil), set.Labels...),
		Curves: make([]pipeline.Curve, k),
	}
	scores := make([]float64, len(set.X))
	targets := make([]float64, len(set.X))
	positive := make([]bool, len(set.X))
	for label := 0; label < k; label++ {
		for i := range set.X {
			scores[i] = margins[i][label]
			positive[i] = set.Y[i] == label
			targets[i] = 0
			if positive[i] {
				targets[i] = 1
			}
		}
		if c.isotonicEligible(set.Y, label, assignment, folds) {
			curves.Curves[label] = FitIsotonic(scores, targets)
		} else {
			curves.Curves[label] = FitSigmoid(scores, positive)
		}
	}
	return curves, nil
}

func (c *Calibrator) crossValidate(ctx context.Context, set *pipeline.TrainingSet, d pipeline.Discriminator, assignment []int, folds int, margins [][]float64) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Parallelism)
	for f := 0; f < folds; f++ {
		g.Go(func() error {
			var trainRows, heldOut []int
			for i, a := range assignment {
				if a == f {
					heldOut = append(heldOut, i)
				} else {
					trainRows = append(trainRows, i)
				}
			}
			params, err := d.Fit(gctx, set.Subset(trainRows))
			if err != nil {
				return fmt.Errorf("calibration fold %d: %w", f, err)
			}
			// each row is held out by exactly one fold
			for _, i := range heldOut {
				margins[i] = d.Score(set.X[i], params)
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Calibrator) isotonicEligible(y []int, label int, assignment []int, folds int) bool {
	if assignment == nil {
		return false
	}
	perFold := make([]int, folds)
	for i, a := range assignment {
		if y[i] == label {
			perFold[a]++
		}
	}
	for _, n := range perFold {
		if n < c.cfg.MinPositivesPerFold {
			return false
		}
	}
	return true
}

// Calibrate maps each margin through its label's curve and renormalizes.
// When every curve yields zero the distribution is uniform.
func (c *Calibrator) Calibrate(margins []float64, curves *pipeline.CalibrationCurves) []float64 {
	k := len(curves.Curves)
	probs := make([]float64, k)
	var sum float64
	for i, curve := range curves.Curves {
		var m float64
		if i < len(margins) {
			m = margins[i]
		}
		p := Apply(curve, m)
		if math.IsNaN(p) {
			p = 0
		}
		probs[i] = math.Min(math.Max(p, 0), 1)
		sum += probs[i]
	}
	for i := range probs {
		if sum > 0 {
			probs[i] /= sum
		} else {
			probs[i] = 1 / float64(k)
		}
	}
	return probs
}

// Apply evaluates a single calibration curve
func Apply(curve pipeline.Curve, margin float64) float64 {
	switch curve.Kind {
	case pipeline.CurveIsotonic:
		return interpolate(curve.X, curve.Y, margin)
	case pipeline.CurveSigmoid:
		return sigmoid(curve.A, curve.B, margin)
	default:
		return curve.Prior
	}
}

// StratifiedFolds assigns every row to one of folds partitions so that each
// label is spread as evenly as possible. Rows of a label are shuffled with a
// seeded source and dealt round-robin.
func StratifiedFolds(y []int, numLabels, folds int, seed int64) []int {
	byLabel := make([][]int, numLabels)
	for i, label := range y {
		byLabel[label] = append(byLabel[label], i)
	}
	rng := rand.New(rand.NewSource(seed))
	assignment := make([]int, len(y))
	next := 0
	for _, rows := range byLabel {
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		for _, r := range rows {
			assignment[r] = next % folds
			next++
		}
	}
	return assignment
}
