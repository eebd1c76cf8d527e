package calibration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/svm"
)

func TestFitIsotonic(t *testing.T) {
	t.Run("monotonic fit pools violators", func(t *testing.T) {
		curve := FitIsotonic(
			[]float64{-2, -1, 0, 1, 2},
			[]float64{0, 1, 0, 1, 1},
		)

		require.Equal(t, pipeline.CurveIsotonic, curve.Kind)
		for i := 1; i < len(curve.Y); i++ {
			assert.GreaterOrEqual(t, curve.Y[i], curve.Y[i-1])
			assert.Greater(t, curve.X[i], curve.X[i-1])
		}
		assert.InDelta(t, 0.0, Apply(curve, -2), 1e-12)
		assert.InDelta(t, 0.5, Apply(curve, -0.5), 1e-12)
		assert.InDelta(t, 1.0, Apply(curve, 2), 1e-12)
	})

	t.Run("clips outside thresholds", func(t *testing.T) {
		curve := FitIsotonic([]float64{0, 1}, []float64{0, 1})

		assert.Equal(t, 0.0, Apply(curve, -100))
		assert.Equal(t, 1.0, Apply(curve, 100))
		assert.InDelta(t, 0.25, Apply(curve, 0.25), 1e-12)
	})

	t.Run("ties are averaged", func(t *testing.T) {
		curve := FitIsotonic([]float64{1, 1, 2}, []float64{0, 1, 1})

		assert.InDelta(t, 0.5, Apply(curve, 1), 1e-12)
	})

	t.Run("single threshold becomes constant", func(t *testing.T) {
		curve := FitIsotonic([]float64{3, 3, 3}, []float64{1, 0, 1})

		assert.Equal(t, pipeline.CurveConstant, curve.Kind)
		assert.InDelta(t, 2.0/3, curve.Prior, 1e-12)
	})
}

func TestFitSigmoid(t *testing.T) {
	t.Run("higher scores give higher probability", func(t *testing.T) {
		scores := []float64{-3, -2, -1.5, -1, 0.2, 1, 1.5, 2, 3, -0.2}
		positive := []bool{false, false, false, false, true, true, true, true, true, false}

		curve := FitSigmoid(scores, positive)

		require.Equal(t, pipeline.CurveSigmoid, curve.Kind)
		assert.Less(t, curve.A, 0.0)
		assert.Greater(t, Apply(curve, 2), 0.5)
		assert.Less(t, Apply(curve, -2), 0.5)
		assert.Greater(t, Apply(curve, 1), Apply(curve, 0))
	})

	t.Run("missing class yields constant prior", func(t *testing.T) {
		curve := FitSigmoid([]float64{1, 2, 3}, []bool{false, false, false})

		assert.Equal(t, pipeline.CurveConstant, curve.Kind)
		assert.InDelta(t, 1.0/5, curve.Prior, 1e-12)
	})
}

func TestStratifiedFolds(t *testing.T) {
	y := []int{0, 0, 0, 0, 0, 0, 1, 1, 1, 2, 2, 2}

	a := StratifiedFolds(y, 3, 3, 7)
	b := StratifiedFolds(y, 3, 3, 7)
	assert.Equal(t, a, b)

	perFold := map[int]map[int]int{}
	for i, f := range a {
		if perFold[f] == nil {
			perFold[f] = map[int]int{}
		}
		perFold[f][y[i]]++
	}
	require.Len(t, perFold, 3)
	for _, labels := range perFold {
		assert.Equal(t, 2, labels[0])
		assert.Equal(t, 1, labels[1])
		assert.Equal(t, 1, labels[2])
	}
}

func trainingSet(perLabel int) *pipeline.TrainingSet {
	set := &pipeline.TrainingSet{Dim: 4, Labels: []string{"anger", "joy", "sadness"}}
	for i := 0; i < perLabel*3; i++ {
		c := i % 3
		noise := float64(i%5) * 0.05
		set.X = append(set.X, pipeline.SparseVector{
			Indices: []int{c, 3},
			Values:  []float64{0.9 - noise, 0.1 + noise},
		})
		set.Y = append(set.Y, c)
	}
	return set
}

func TestCalibrator_Fit(t *testing.T) {
	d := svm.NewDiscriminator(svm.DefaultConfig())

	t.Run("produces one curve per label", func(t *testing.T) {
		c := NewCalibrator(DefaultConfig())
		curves, err := c.Fit(context.Background(), trainingSet(12), d)
		require.NoError(t, err)

		assert.Equal(t, []string{"anger", "joy", "sadness"}, curves.Labels)
		require.Len(t, curves.Curves, 3)
		for _, curve := range curves.Curves {
			assert.Equal(t, pipeline.CurveIsotonic, curve.Kind)
		}
	})

	t.Run("few positives per fold fall back to sigmoid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MinPositivesPerFold = 10
		c := NewCalibrator(cfg)

		curves, err := c.Fit(context.Background(), trainingSet(6), d)
		require.NoError(t, err)
		for _, curve := range curves.Curves {
			assert.Equal(t, pipeline.CurveSigmoid, curve.Kind)
		}
	})

	t.Run("single example label uses in-sample margins", func(t *testing.T) {
		set := trainingSet(4)
		set.X = append(set.X, pipeline.SparseVector{Indices: []int{3}, Values: []float64{1}})
		set.Y = append(set.Y, 3)
		set.Labels = append(set.Labels, "surprise")

		c := NewCalibrator(DefaultConfig())
		curves, err := c.Fit(context.Background(), set, d)
		require.NoError(t, err)
		assert.Len(t, curves.Curves, 4)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		c := NewCalibrator(DefaultConfig())
		a, err := c.Fit(context.Background(), trainingSet(9), d)
		require.NoError(t, err)
		b, err := c.Fit(context.Background(), trainingSet(9), d)
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	t.Run("empty set", func(t *testing.T) {
		c := NewCalibrator(DefaultConfig())
		_, err := c.Fit(context.Background(), &pipeline.TrainingSet{}, d)
		assert.Error(t, err)
	})
}

func TestCalibrator_Calibrate(t *testing.T) {
	c := NewCalibrator(DefaultConfig())

	t.Run("sums to one", func(t *testing.T) {
		curves := &pipeline.CalibrationCurves{
			Labels: []string{"a", "b", "c"},
			Curves: []pipeline.Curve{
				{Kind: pipeline.CurveIsotonic, X: []float64{-1, 1}, Y: []float64{0, 1}},
				{Kind: pipeline.CurveSigmoid, A: -2, B: 0},
				{Kind: pipeline.CurveConstant, Prior: 0.2},
			},
		}

		probs := c.Calibrate([]float64{0.5, 0, -3}, curves)

		require.Len(t, probs, 3)
		var sum float64
		for _, p := range probs {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.Greater(t, probs[0], probs[2])
	})

	t.Run("all zero becomes uniform", func(t *testing.T) {
		curves := &pipeline.CalibrationCurves{
			Labels: []string{"a", "b"},
			Curves: []pipeline.Curve{
				{Kind: pipeline.CurveConstant, Prior: 0},
				{Kind: pipeline.CurveConstant, Prior: 0},
			},
		}

		assert.Equal(t, []float64{0.5, 0.5}, c.Calibrate([]float64{1, 2}, curves))
	})
}
