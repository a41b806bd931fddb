// Package logistic implements multinomial logistic regression over sparse
// feature matrices with L1 or L2 regularization.
package logistic

import (
	"context"
	"math"
	"math/rand"
	"strings"

	"github.com/pkg/errors"

	"github.com/neurlang/nli/learning"
	"github.com/neurlang/nli/linalg"
	"github.com/neurlang/nli/parallel"
	"github.com/neurlang/nli/trainer"
)

// Kind tags saved logistic models.
const Kind = "logistic"

// Params configures the classifier.
type Params struct {
	C       float64 `json:"c"`       // inverse regularization strength
	Penalty string  `json:"penalty"` // "l1" or "l2"

	learning.HyperParameters
}

// DefaultParams returns C=1 with an L2 penalty.
func DefaultParams() Params {
	h := learning.Defaults()
	h.Eta = 0.1
	h.BatchSize = 256
	h.Tol = 1e-4
	h.MaxGradNorm = 0
	return Params{C: 1, Penalty: "l2", HyperParameters: h}
}

// Validate checks C and the penalty before the learning settings.
func (p Params) Validate() error {
	if p.C <= 0 || math.IsInf(p.C, 0) || math.IsNaN(p.C) {
		return errors.Errorf("logistic: C must be positive, got %v", p.C)
	}
	switch strings.ToLower(p.Penalty) {
	case "l1", "l2":
	default:
		return errors.Errorf("logistic: unknown penalty %q", p.Penalty)
	}
	return p.HyperParameters.Validate()
}

// Classifier is a trained or untrained multinomial logistic regression.
// W is stored feature-major: the K class weights of feature j are W[j*K:(j+1)*K].
type Classifier struct {
	Params   Params    `json:"params"`
	Labels   []string  `json:"classes"`
	Features int       `json:"features"`
	W        []float64 `json:"w"`
	B        []float64 `json:"b"`
}

// New creates an untrained classifier.
func New(p Params) *Classifier {
	return &Classifier{Params: p}
}

// Classes returns the sorted class labels seen during Fit.
func (c *Classifier) Classes() []string {
	return c.Labels
}

func (c *Classifier) logits(dst []float64, x linalg.Sparse) {
	k := len(c.B)
	copy(dst, c.B)
	for n, j := range x.Indices {
		if j >= c.Features {
			continue
		}
		linalg.AddScaled(dst, x.Values[n], c.W[j*k:(j+1)*k])
	}
}

// Fit trains the classifier on the rows of X labelled by y.
func (c *Classifier) Fit(ctx context.Context, X *linalg.SparseMatrix, y []string) error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if X.Len() != len(y) {
		return errors.Wrapf(linalg.ErrShape, "logistic: %d rows, %d labels", X.Len(), len(y))
	}
	classes, index, err := learning.Classes(y)
	if err != nil {
		return err
	}
	targets := learning.Encode(y, index)
	k, n := len(classes), X.Len()

	c.Labels, c.Features = classes, X.Cols
	w := learning.NewParam("w", X.Cols*k)
	b := learning.NewParam("b", k)
	c.W, c.B = w.W, b.W
	params := []*learning.Param{w, b}
	opt := learning.NewAdaGrad(params, c.Params.Eta, 0)

	l1 := strings.ToLower(c.Params.Penalty) == "l1"
	lambda := 1 / (c.Params.C * float64(n))
	rng := rand.New(rand.NewSource(c.Params.Seed))
	probs := make([]float64, k)
	delta := make([]float64, k)

	_, err = trainer.Loop(ctx, trainer.LoopOptions{
		Name:    Kind,
		MaxIter: c.Params.MaxIter,
		Tol:     c.Params.Tol,
		Epoch: func(ctx context.Context, _ int) (float64, error) {
			order := rng.Perm(n)
			var loss float64
			for _, batch := range c.Params.Batches(n) {
				if err := ctx.Err(); err != nil {
					return 0, err
				}
				learning.ZeroGrad(params)
				scale := 1 / float64(batch[1]-batch[0])
				for _, i := range order[batch[0]:batch[1]] {
					row := X.Rows[i]
					c.logits(probs, row)
					linalg.Softmax(probs, probs)
					loss += learning.CrossEntropy(probs, targets[i])
					learning.SoftmaxCrossEntropyGrad(delta, probs, targets[i])
					for m, j := range row.Indices {
						linalg.AddScaled(w.G[j*k:(j+1)*k], scale*row.Values[m], delta)
					}
					linalg.AddScaled(b.G, scale, delta)
				}
				if !l1 {
					linalg.AddScaled(w.G, lambda, w.W)
				}
				opt.Step(params)
				if l1 {
					softThreshold(w.W, func(i int) float64 { return opt.Rate(0, i) * lambda })
				}
			}
			return loss/float64(n) + lambda*penalty(w.W, l1), nil
		},
	})
	return err
}

// softThreshold shrinks each weight toward zero by its own step, clipping at zero.
func softThreshold(w []float64, step func(i int) float64) {
	for i, v := range w {
		if v == 0 {
			continue
		}
		s := step(i)
		switch {
		case v > s:
			w[i] = v - s
		case v < -s:
			w[i] = v + s
		default:
			w[i] = 0
		}
	}
}

func penalty(w []float64, l1 bool) (r float64) {
	for _, v := range w {
		if l1 {
			r += math.Abs(v)
		} else {
			r += 0.5 * v * v
		}
	}
	return
}

// PredictProba returns the class probabilities of every row, ordered as Classes.
func (c *Classifier) PredictProba(X *linalg.SparseMatrix) ([][]float64, error) {
	if len(c.B) == 0 {
		return nil, learning.ErrNotFitted
	}
	out := make([][]float64, X.Len())
	parallel.ForChunks(X.Len(), parallel.Threads(c.Params.Threads), func(_, from, to int) {
		for i := from; i < to; i++ {
			p := make([]float64, len(c.B))
			c.logits(p, X.Rows[i])
			linalg.Softmax(p, p)
			out[i] = p
		}
	})
	return out, nil
}

// Predict returns the most probable label of every row.
func (c *Classifier) Predict(X *linalg.SparseMatrix) ([]string, error) {
	probs, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return learning.Decode(probs, c.Labels), nil
}

// NonZero counts the weights that are not exactly zero.
func (c *Classifier) NonZero() (n int) {
	for _, v := range c.W {
		if v != 0 {
			n++
		}
	}
	return
}
