// Package svm trains one-vs-rest linear support vector machines with a
// squared hinge loss, solved in the dual by coordinate descent.
package svm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
)

// Config controls the solver
type Config struct {
	C           float64 // regularization strength, larger fits harder
	MaxIter     int
	Tolerance   float64
	Seed        int64
	Bias        float64 // value of the constant feature that carries the intercept
	Parallelism int
}

// DefaultConfig returns C=1 with a unit intercept feature
func DefaultConfig() Config {
	return Config{
		C:           1.0,
		MaxIter:     1000,
		Tolerance:   1e-3,
		Seed:        42,
		Bias:        1.0,
		Parallelism: 4,
	}
}

// Discriminator implements pipeline.Discriminator
type Discriminator struct {
	cfg Config
}

// NewDiscriminator creates a linear discriminator
func NewDiscriminator(cfg Config) *Discriminator {
	if cfg.C <= 0 {
		cfg.C = 1.0
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = 1000
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-3
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	return &Discriminator{cfg: cfg}
}

// ClassWeights returns the balanced weight n/(k*n_c) of every label.
// Labels without examples get weight 0.
func ClassWeights(y []int, numLabels int) []float64 {
	counts := make([]int, numLabels)
	for _, c := range y {
		counts[c]++
	}
	weights := make([]float64, numLabels)
	for c, n := range counts {
		if n > 0 {
			weights[c] = float64(len(y)) / (float64(numLabels) * float64(n))
		}
	}
	return weights
}

// Fit trains one binary problem per label. The positive side of problem c is
// penalized with C*w_c where w_c is the balanced class weight, so rare labels
// are not drowned out by the rest. Problems are solved concurrently; each
// writes only its own slot, so the result does not depend on scheduling.
func (d *Discriminator) Fit(ctx context.Context, set *pipeline.TrainingSet) (*pipeline.ClassifierParameters, error) {
	k := len(set.Labels)
	if k == 0 {
		return nil, errors.New("no labels to fit")
	}
	if len(set.X) == 0 || len(set.X) != len(set.Y) {
		return nil, fmt.Errorf("training set has %d rows and %d targets", len(set.X), len(set.Y))
	}

	weights := ClassWeights(set.Y, k)
	params := &pipeline.ClassifierParameters{
		Labels:  append([]string(nil), set.Labels...),
		Weights: make([][]float64, k),
		Bias:    make([]float64, k),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Parallelism)
	for c := 0; c < k; c++ {
		g.Go(func() error {
			w, b, err := d.solveBinary(gctx, set, c, d.cfg.C*weights[c], d.cfg.C)
			if err != nil {
				return fmt.Errorf("label %q: %w", set.Labels[c], err)
			}
			params.Weights[c] = w
			params.Bias[c] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return params, nil
}

// Score returns w_c·x + b_c for every label
func (d *Discriminator) Score(x pipeline.SparseVector, params *pipeline.ClassifierParameters) []float64 {
	margins := make([]float64, len(params.Weights))
	for c, w := range params.Weights {
		margins[c] = x.Dot(w) + params.Bias[c]
	}
	return margins
}

// solveBinary runs dual coordinate descent for the L2-regularized squared
// hinge loss. The intercept is learned as the weight of a constant feature.
func (d *Discriminator) solveBinary(ctx context.Context, set *pipeline.TrainingSet, positive int, cPos, cNeg float64) ([]float64, float64, error) {
	n := len(set.X)
	bias := d.cfg.Bias
	w := make([]float64, set.Dim)
	var wb float64

	y := make([]float64, n)
	diag := make([]float64, n)
	qd := make([]float64, n)
	for i := range set.X {
		c := cNeg
		y[i] = -1
		if set.Y[i] == positive {
			c = cPos
			y[i] = 1
		}
		if c <= 0 {
			c = cNeg
		}
		diag[i] = 0.5 / c
		qd[i] = diag[i] + set.X[i].SquaredNorm() + bias*bias
	}

	alpha := make([]float64, n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewSource(d.cfg.Seed + int64(positive)))

	for iter := 0; iter < d.cfg.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

		maxPG, minPG := math.Inf(-1), math.Inf(1)
		for _, i := range order {
			x := set.X[i]
			grad := y[i]*(x.Dot(w)+wb*bias) - 1 + alpha[i]*diag[i]

			pg := grad
			if alpha[i] == 0 && grad > 0 {
				pg = 0
			}
			maxPG = math.Max(maxPG, pg)
			minPG = math.Min(minPG, pg)

			if math.Abs(pg) > 1e-12 {
				old := alpha[i]
				alpha[i] = math.Max(alpha[i]-grad/qd[i], 0)
				step := (alpha[i] - old) * y[i]
				x.AddScaledTo(w, step)
				wb += step * bias
			}
		}
		if maxPG-minPG <= d.cfg.Tolerance {
			break
		}
	}
	return w, wb * bias, nil
}
