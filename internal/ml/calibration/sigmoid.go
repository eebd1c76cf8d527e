package calibration

import (
	"math"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
)

// FitSigmoid fits P(positive | score) = 1/(1+exp(A*score+B)) by Newton's
// method with backtracking line search on regularized targets (Platt scaling).
func FitSigmoid(scores []float64, positive []bool) pipeline.Curve {
	var nPos, nNeg float64
	for _, p := range positive {
		if p {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return pipeline.Curve{Kind: pipeline.CurveConstant, Prior: (nPos + 1) / (nPos + nNeg + 2)}
	}

	hi := (nPos + 1) / (nPos + 2)
	lo := 1 / (nNeg + 2)
	t := make([]float64, len(scores))
	for i, p := range positive {
		t[i] = lo
		if p {
			t[i] = hi
		}
	}

	const (
		maxIter = 100
		minStep = 1e-10
		sigma   = 1e-12
		eps     = 1e-5
	)

	a := 0.0
	b := math.Log((nNeg + 1) / (nPos + 1))
	fval := objective(scores, t, a, b)

	for iter := 0; iter < maxIter; iter++ {
		h11, h22 := sigma, sigma
		var h21, g1, g2 float64
		for i, s := range scores {
			fApB := s*a + b
			var p, q float64
			if fApB >= 0 {
				e := math.Exp(-fApB)
				p = e / (1 + e)
				q = 1 / (1 + e)
			} else {
				e := math.Exp(fApB)
				p = 1 / (1 + e)
				q = e / (1 + e)
			}
			d2 := p * q
			h11 += s * s * d2
			h22 += d2
			h21 += s * d2
			d1 := t[i] - p
			g1 += s * d1
			g2 += d1
		}
		if math.Abs(g1) < eps && math.Abs(g2) < eps {
			break
		}

		det := h11*h22 - h21*h21
		dA := -(h22*g1 - h21*g2) / det
		dB := -(-h21*g1 + h11*g2) / det
		gd := g1*dA + g2*dB

		step := 1.0
		for step >= minStep {
			na, nb := a+step*dA, b+step*dB
			nf := objective(scores, t, na, nb)
			if nf < fval+0.0001*step*gd {
				a, b, fval = na, nb, nf
				break
			}
			step /= 2
		}
		if step < minStep {
			break
		}
	}
	return pipeline.Curve{Kind: pipeline.CurveSigmoid, A: a, B: b}
}

// objective is the cross-entropy of targets t under the sigmoid, computed
// without overflow for large |A*s+B|.
func objective(scores, t []float64, a, b float64) float64 {
	var f float64
	for i, s := range scores {
		fApB := s*a + b
		if fApB >= 0 {
			f += t[i]*fApB + math.Log1p(math.Exp(-fApB))
		} else {
			f += (t[i]-1)*fApB + math.Log1p(math.Exp(fApB))
		}
	}
	return f
}

func sigmoid(a, b, s float64) float64 {
	fApB := a*s + b
	if fApB >= 0 {
		e := math.Exp(-fApB)
		return e / (1 + e)
	}
	return 1 / (1 + math.Exp(fApB))
}
