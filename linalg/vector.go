package linalg

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Dot returns the inner product of equally long a and b.
func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// AddScaled computes dst += alpha·x.
func AddScaled(dst []float64, alpha float64, x []float64) {
	floats.AddScaled(dst, alpha, x)
}

// Softmax writes the normalized exponentials of in to out, which may alias in.
func Softmax(out, in []float64) {
	if len(in) == 0 {
		return
	}
	max := in[0]
	for _, v := range in[1:] {
		if v > max {
			max = v
		}
	}
	var sum float64
	for i, v := range in {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	for i := range out[:len(in)] {
		out[i] /= sum
	}
}

// Argmax returns the index of the largest element, the first one on ties, or -1 when empty.
func Argmax(v []float64) int {
	if len(v) == 0 {
		return -1
	}
	return floats.MaxIdx(v)
}

// Zero clears v.
func Zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
