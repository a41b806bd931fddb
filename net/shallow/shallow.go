// Package shallow implements a one-hidden-layer neural classifier on dense features.
package shallow

import (
	"context"
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/neurlang/nli/learning"
	"github.com/neurlang/nli/linalg"
	"github.com/neurlang/nli/parallel"
	"github.com/neurlang/nli/trainer"
)

// Kind tags saved shallow models.
const Kind = "shallow"

// Params configures the network.
type Params struct {
	HiddenDim int `json:"hidden_dim"`

	learning.HyperParameters
}

// DefaultParams returns a 50 unit hidden layer trained for 50 epochs.
func DefaultParams() Params {
	h := learning.Defaults()
	h.MaxIter = 50
	h.Eta = 0.01
	return Params{HiddenDim: 50, HyperParameters: h}
}

// Validate checks the settings.
func (p Params) Validate() error {
	if p.HiddenDim <= 0 {
		return errors.Errorf("shallow: hidden_dim must be positive, got %d", p.HiddenDim)
	}
	return p.HyperParameters.Validate()
}

// Classifier computes softmax(tanh(x·Wxh + bh)·Why + by).
type Classifier struct {
	Params Params    `json:"params"`
	Labels []string  `json:"classes"`
	Input  int       `json:"input"`
	Wxh    []float64 `json:"w_xh"`
	Bh     []float64 `json:"b_h"`
	Why    []float64 `json:"w_hy"`
	By     []float64 `json:"b_y"`
}

// New creates an untrained classifier.
func New(p Params) *Classifier {
	return &Classifier{Params: p}
}

// Classes returns the sorted class labels seen during Fit.
func (c *Classifier) Classes() []string {
	return c.Labels
}

func (c *Classifier) dims() (in, hid, out int) {
	return c.Input, len(c.Bh), len(c.By)
}

// forward fills h and probs for input x.
func (c *Classifier) forward(x, h, probs []float64) {
	in, hid, out := c.dims()
	(&linalg.Dense{Rows: in, Cols: hid, Data: c.Wxh}).MulVec(h, x)
	for j := range h {
		h[j] = math.Tanh(h[j] + c.Bh[j])
	}
	(&linalg.Dense{Rows: hid, Cols: out, Data: c.Why}).MulVec(probs, h)
	linalg.AddScaled(probs, 1, c.By)
	linalg.Softmax(probs, probs)
}

// Fit trains the network on the rows of X labelled by y.
func (c *Classifier) Fit(ctx context.Context, X *linalg.Dense, y []string) error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if X.Len() != len(y) {
		return errors.Wrapf(linalg.ErrShape, "shallow: %d rows, %d labels", X.Len(), len(y))
	}
	classes, index, err := learning.Classes(y)
	if err != nil {
		return err
	}
	targets := learning.Encode(y, index)
	in, hid, out, n := X.Cols, c.Params.HiddenDim, len(classes), X.Len()

	rng := rand.New(rand.NewSource(c.Params.Seed))
	wxh := learning.NewParam("w_xh", in*hid)
	bh := learning.NewParam("b_h", hid)
	why := learning.NewParam("w_hy", hid*out)
	by := learning.NewParam("b_y", out)
	learning.Uniform(wxh.W, learning.Xavier(in, hid), rng.Float64)
	learning.Uniform(why.W, learning.Xavier(hid, out), rng.Float64)
	params := []*learning.Param{wxh, bh, why, by}

	c.Labels, c.Input = classes, in
	c.Wxh, c.Bh, c.Why, c.By = wxh.W, bh.W, why.W, by.W

	opt := c.Params.NewOptimizer(params)
	acc := learning.NewAccumulator(params, c.Params.Threads)
	example := func(grads []*learning.Param, i int) float64 {
		h := make([]float64, hid)
		probs := make([]float64, out)
		c.forward(X.Row(i), h, probs)

		dy := make([]float64, out)
		learning.SoftmaxCrossEntropyGrad(dy, probs, targets[i])
		(&linalg.Dense{Rows: hid, Cols: out, Data: grads[2].G}).AddOuter(1, h, dy)
		linalg.AddScaled(grads[3].G, 1, dy)

		dh := make([]float64, hid)
		(&linalg.Dense{Rows: hid, Cols: out, Data: c.Why}).MulVecT(dh, dy)
		for j := range dh {
			dh[j] *= 1 - h[j]*h[j]
		}
		(&linalg.Dense{Rows: in, Cols: hid, Data: grads[0].G}).AddOuter(1, X.Row(i), dh)
		linalg.AddScaled(grads[1].G, 1, dh)
		return learning.CrossEntropy(probs, targets[i])
	}

	evaluate := trainer.NewEvaluateFunc(n, 95, c.Params.Seed, func(idx []int) float64 {
		return c.accuracy(X, y, idx)
	})

	_, err = trainer.Loop(ctx, trainer.LoopOptions{
		Name:     Kind,
		MaxIter:  c.Params.MaxIter,
		Tol:      c.Params.Tol,
		Evaluate: evaluate,
		Epoch: func(ctx context.Context, _ int) (float64, error) {
			order := rng.Perm(n)
			var loss float64
			for _, batch := range c.Params.Batches(n) {
				if err := ctx.Err(); err != nil {
					return 0, err
				}
				loss += acc.Run(order[batch[0]:batch[1]], example)
				learning.ClipGradients(params, c.Params.MaxGradNorm)
				opt.Step(params)
			}
			return loss / float64(n), nil
		},
	})
	return err
}

// accuracy is the share of the rows idx of X the network labels as y does.
func (c *Classifier) accuracy(X *linalg.Dense, y []string, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	h := make([]float64, len(c.Bh))
	probs := make([]float64, len(c.By))
	var ok int
	for _, i := range idx {
		c.forward(X.Row(i), h, probs)
		if c.Labels[linalg.Argmax(probs)] == y[i] {
			ok++
		}
	}
	return float64(ok) / float64(len(idx))
}

// PredictProba returns the class probabilities of every row, ordered as Classes.
func (c *Classifier) PredictProba(X *linalg.Dense) ([][]float64, error) {
	if len(c.By) == 0 {
		return nil, learning.ErrNotFitted
	}
	if X.Len() > 0 && X.Cols != c.Input {
		return nil, errors.Wrapf(linalg.ErrShape, "shallow: %d columns, fitted on %d", X.Cols, c.Input)
	}
	out := make([][]float64, X.Len())
	parallel.ForChunks(X.Len(), parallel.Threads(c.Params.Threads), func(_, from, to int) {
		h := make([]float64, len(c.Bh))
		for i := from; i < to; i++ {
			out[i] = make([]float64, len(c.By))
			c.forward(X.Row(i), h, out[i])
		}
	})
	return out, nil
}

// Predict returns the most probable label of every row.
func (c *Classifier) Predict(X *linalg.Dense) ([]string, error) {
	probs, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return learning.Decode(probs, c.Labels), nil
}
