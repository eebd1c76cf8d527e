package calibration

import (
	"sort"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
)

type block struct {
	x      float64 // first x of the block
	last   float64 // last x of the block
	sum    float64
	weight float64
}

func (b block) mean() float64 {
	return b.sum / b.weight
}

// FitIsotonic fits a non-decreasing step function to (score, target) pairs
// with pool-adjacent-violators and returns it as interpolation thresholds.
// Duplicate scores are merged into their mean target first.
func FitIsotonic(scores, targets []float64) pipeline.Curve {
	n := len(scores)
	if n == 0 {
		return pipeline.Curve{Kind: pipeline.CurveConstant, Prior: 0}
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return scores[order[i]] < scores[order[j]] })

	// merge ties so every x is unique
	points := make([]block, 0, n)
	for _, i := range order {
		x := scores[i]
		if len(points) > 0 && points[len(points)-1].x == x {
			points[len(points)-1].sum += targets[i]
			points[len(points)-1].weight++
			continue
		}
		points = append(points, block{x: x, last: x, sum: targets[i], weight: 1})
	}

	// pool adjacent violators
	stack := make([]block, 0, len(points))
	for _, p := range points {
		stack = append(stack, p)
		for len(stack) > 1 && stack[len(stack)-2].mean() > stack[len(stack)-1].mean() {
			top := stack[len(stack)-1]
			prev := &stack[len(stack)-2]
			prev.sum += top.sum
			prev.weight += top.weight
			prev.last = top.last
			stack = stack[:len(stack)-1]
		}
	}

	// a block spanning several x values becomes two thresholds with equal y
	var xs, ys []float64
	for _, b := range stack {
		xs = append(xs, b.x)
		ys = append(ys, b.mean())
		if b.last != b.x {
			xs = append(xs, b.last)
			ys = append(ys, b.mean())
		}
	}
	if len(xs) == 1 {
		return pipeline.Curve{Kind: pipeline.CurveConstant, Prior: ys[0]}
	}
	return pipeline.Curve{Kind: pipeline.CurveIsotonic, X: xs, Y: ys}
}

// interpolate evaluates an isotonic curve, clipping outside its thresholds
func interpolate(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}
	// first threshold strictly greater than x
	j := sort.Search(len(xs), func(i int) bool { return xs[i] > x })
	i := j - 1
	if xs[j] == xs[i] {
		return ys[j]
	}
	t := (x - xs[i]) / (xs[j] - xs[i])
	return ys[i] + t*(ys[j]-ys[i])
}
