package learning

import "math"

const minProb = 1e-12

// CrossEntropy returns -log p[y] for a probability vector.
func CrossEntropy(probs []float64, y int) float64 {
	p := probs[y]
	if p < minProb {
		p = minProb
	}
	return -math.Log(p)
}

// SoftmaxCrossEntropyGrad writes the gradient of CrossEntropy(softmax(z), y)
// with respect to the logits z, which is probs minus the one-hot target.
func SoftmaxCrossEntropyGrad(dst, probs []float64, y int) {
	copy(dst, probs)
	dst[y] -= 1
}

// Uniform fills w with values drawn from [-scale, scale) by next, a source of [0, 1) floats.
func Uniform(w []float64, scale float64, next func() float64) {
	for i := range w {
		w[i] = (2*next() - 1) * scale
	}
}

// Xavier returns the Glorot uniform bound for a fanIn×fanOut weight matrix.
func Xavier(fanIn, fanOut int) float64 {
	return math.Sqrt(6 / float64(fanIn+fanOut))
}
