package pipeline

import "math"

// SparseVector is one row of a sparse feature matrix. Indices are strictly
// increasing and Values has the same length.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries
func (v SparseVector) Len() int {
	return len(v.Indices)
}

// Dot returns the inner product with a dense vector. Indices beyond len(w)
// contribute nothing.
func (v SparseVector) Dot(w []float64) float64 {
	var sum float64
	for k, idx := range v.Indices {
		if idx < len(w) {
			sum += v.Values[k] * w[idx]
		}
	}
	return sum
}

// SquaredNorm returns the squared Euclidean norm
func (v SparseVector) SquaredNorm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return sum
}

// AddScaledTo performs w += a*v
func (v SparseVector) AddScaledTo(w []float64, a float64) {
	for k, idx := range v.Indices {
		w[idx] += a * v.Values[k]
	}
}

// Normalize scales the vector to unit Euclidean norm in place. The zero vector is left unchanged.
func (v SparseVector) Normalize() {
	n := math.Sqrt(v.SquaredNorm())
	if n == 0 {
		return
	}
	for k := range v.Values {
		v.Values[k] /= n
	}
}
