package trainer

import (
	"math"
	"math/rand"
)

// SampleSize calculates the statistically sufficient sample size
// for a given dataset size N and significance level (0–100).
func SampleSize(N int, significance byte) int {
	if N <= 0 {
		return 0
	}
	if significance >= 100 {
		return N
	}

	z := zScoreFromAlpha(100 - significance)

	// worst-case proportion p = 0.5 for max variability
	p := 0.5
	e := float64(100-significance) * 0.01

	numerator := math.Pow(z, 2) * p * (1 - p)
	denominator := math.Pow(e, 2)

	// initial sample size without population correction
	ss := numerator / denominator

	// finite population correction
	correctedSS := ss * float64(N) / (float64(N) - 1 + ss)

	if int(math.Ceil(correctedSS)) > N {
		return N
	}
	return int(math.Ceil(correctedSS))
}

// zScoreFromAlpha returns the Z-score for a given alpha level
// Common: 90% => 1.645, 95% => 1.96, 99% => 2.576
func zScoreFromAlpha(alpha byte) float64 {
	switch {
	case alpha <= 1:
		return 2.576
	case alpha <= 5:
		return 1.96
	case alpha <= 10:
		return 1.645
	default:
		return 1.96
	}
}

// NewEvaluateFunc fixes a random sample of SampleSize(n, significance)
// indices out of n and returns a function scoring the model on it. The
// sample is drawn once so that successive epochs are comparable.
func NewEvaluateFunc(n int, significance byte, seed int64, score func(idx []int) float64) func() float64 {
	size := SampleSize(n, significance)
	idx := rand.New(rand.NewSource(seed)).Perm(n)[:size]
	return func() float64 {
		if len(idx) == 0 {
			return 0
		}
		return score(idx)
	}
}
