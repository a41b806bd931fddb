// Package learning holds the hyperparameters, optimizers and losses shared by the classifiers.
package learning

import (
	"strings"

	"github.com/pkg/errors"
)

// HyperParameters configures gradient training.
type HyperParameters struct {
	Eta       float64 // learning rate
	MaxIter   int     // number of epochs
	BatchSize int     // examples per update, 0 means the whole set
	Tol       float64 // stop when the epoch loss improves by less than this, 0 disables

	L2 float64 // weight decay

	Optimizer   string  // "sgd", "adagrad" or "adam"
	MaxGradNorm float64 // clip the global gradient norm, 0 disables

	Seed    int64 // initialization and shuffling seed
	Threads int   // workers for batch gradients, 0 detects
}

// Defaults returns the settings used when a classifier is created without options.
func Defaults() HyperParameters {
	return HyperParameters{
		Eta:         0.01,
		MaxIter:     100,
		BatchSize:   1028,
		Tol:         1e-5,
		Optimizer:   "adam",
		MaxGradNorm: 5,
		Seed:        42,
	}
}

// Validate rejects settings no optimizer can work with.
func (h HyperParameters) Validate() error {
	if h.Eta <= 0 {
		return errors.Errorf("learning: eta must be positive, got %v", h.Eta)
	}
	if h.MaxIter <= 0 {
		return errors.Errorf("learning: max_iter must be positive, got %d", h.MaxIter)
	}
	if h.BatchSize < 0 {
		return errors.Errorf("learning: batch_size must not be negative, got %d", h.BatchSize)
	}
	if h.L2 < 0 || h.Tol < 0 || h.MaxGradNorm < 0 {
		return errors.New("learning: l2, tol and max_grad_norm must not be negative")
	}
	switch strings.ToLower(h.Optimizer) {
	case "", "sgd", "adagrad", "adam":
	default:
		return errors.Errorf("learning: unknown optimizer %q", h.Optimizer)
	}
	return nil
}

// NewOptimizer creates the configured optimizer for params.
func (h HyperParameters) NewOptimizer(params []*Param) Optimizer {
	switch strings.ToLower(h.Optimizer) {
	case "sgd":
		return NewSGD(h.Eta, h.L2)
	case "adagrad":
		return NewAdaGrad(params, h.Eta, h.L2)
	}
	return NewAdam(params, h.Eta, 0.9, 0.999, 1e-8, h.L2)
}

// Batches splits n examples into consecutive batches of the configured size.
func (h HyperParameters) Batches(n int) [][2]int {
	size := h.BatchSize
	if size <= 0 || size > n {
		size = n
	}
	var out [][2]int
	for from := 0; from < n; from += size {
		to := from + size
		if to > n {
			to = n
		}
		out = append(out, [2]int{from, to})
	}
	return out
}
