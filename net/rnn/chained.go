package rnn

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/neurlang/nli/learning"
	"github.com/neurlang/nli/linalg"
	"github.com/neurlang/nli/parallel"
	"github.com/neurlang/nli/trainer"
)

// KindChained tags saved chained models.
const KindChained = "rnn-chained"

// Classifier reads one token sequence with an LSTM and classifies its final
// hidden state with a softmax layer.
type Classifier struct {
	Params Params     `json:"params"`
	Labels []string   `json:"classes"`
	Embed  *Embedding `json:"embedding"`
	Cell   *LSTM      `json:"cell"`
	Why    []float64  `json:"w_hy"`
	By     []float64  `json:"b_y"`

	vocab   []string
	vectors [][]float64
}

// NewClassifier creates an untrained classifier over vocab, which must hold
// $UNK. vectors, when not nil, initialize the embedding row by row.
func NewClassifier(vocab []string, vectors [][]float64, p Params) *Classifier {
	return &Classifier{Params: p, vocab: vocab, vectors: vectors}
}

// Classes returns the sorted class labels seen during Fit.
func (c *Classifier) Classes() []string {
	return c.Labels
}

func (c *Classifier) forward(ids []int) ([]step, []float64, []float64) {
	steps, h := c.Cell.forward(c.Embed.lookup(ids))
	probs := make([]float64, len(c.By))
	(&linalg.Dense{Rows: c.Cell.Hidden, Cols: len(c.By), Data: c.Why}).MulVec(probs, h)
	linalg.AddScaled(probs, 1, c.By)
	linalg.Softmax(probs, probs)
	return steps, h, probs
}

// Fit trains on token sequences X labelled by y. A classifier that was
// already fitted, or loaded from JSON, continues from its weights and keeps
// its vocabulary.
func (c *Classifier) Fit(ctx context.Context, X [][]string, y []string) error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if len(X) != len(y) {
		return errors.Wrapf(linalg.ErrShape, "rnn: %d sequences, %d labels", len(X), len(y))
	}
	classes, index, err := learning.Classes(y)
	if err != nil {
		return err
	}
	targets := learning.Encode(y, index)
	rng := rand.New(rand.NewSource(c.Params.Seed))
	var w, b, why, by *learning.Param
	if c.Cell != nil && c.Embed != nil {
		if err := warmStart(&c.Params, c.Labels, classes, c.Embed, c.Cell.Hidden, len(c.Why)); err != nil {
			return err
		}
		w, b = wrap("w", c.Cell.W), wrap("b", c.Cell.B)
		why, by = wrap("w_hy", c.Why), wrap("b_y", c.By)
	} else {
		c.Embed, err = newEmbedding(c.vocab, c.vectors, c.Params.EmbedDim, rng)
		if err != nil {
			return err
		}
		E, H, K := c.Embed.Dim, c.Params.HiddenDim, len(classes)
		w = learning.NewParam("w", (E+H)*4*H)
		b = learning.NewParam("b", 4*H)
		why = learning.NewParam("w_hy", H*K)
		by = learning.NewParam("b_y", K)
		learning.Uniform(w.W, learning.Xavier(E+H, 4*H), rng.Float64)
		learning.Uniform(why.W, learning.Xavier(H, K), rng.Float64)
		c.Labels = classes
		c.Cell = newLSTM(E, H, w.W, b.W)
		c.Why, c.By = why.W, by.W
	}
	E, H, K := c.Embed.Dim, c.Params.HiddenDim, len(classes)

	all := []*learning.Param{w, b, why, by}
	if c.Params.TrainEmbedding {
		all = append(all, &learning.Param{Name: "embedding", W: c.Embed.W, G: make([]float64, len(c.Embed.W))})
	}
	seqs := make([][]int, len(X))
	for i, x := range X {
		seqs[i] = c.Embed.encode(x, c.Params.MaxLength)
	}

	example := func(grads []*learning.Param, i int) float64 {
		steps, h, probs := c.forward(seqs[i])
		dy := make([]float64, K)
		learning.SoftmaxCrossEntropyGrad(dy, probs, targets[i])
		(&linalg.Dense{Rows: H, Cols: K, Data: grads[2].G}).AddOuter(1, h, dy)
		linalg.AddScaled(grads[3].G, 1, dy)

		dh := make([]float64, H)
		(&linalg.Dense{Rows: H, Cols: K, Data: c.Why}).MulVecT(dh, dy)
		var dx func(t int, d []float64)
		if len(grads) > 4 {
			ge := grads[4].G
			dx = func(t int, d []float64) {
				linalg.AddScaled(ge[seqs[i][t]*E:(seqs[i][t]+1)*E], 1, d)
			}
		}
		c.Cell.backward(steps, dh, grads[0].G, grads[1].G, dx)
		return learning.CrossEntropy(probs, targets[i])
	}
	evaluate := trainer.NewEvaluateFunc(len(X), 95, c.Params.Seed, func(idx []int) float64 {
		return accuracy(idx, y, func(idx []int) []string {
			probs := make([][]float64, len(idx))
			for k, i := range idx {
				_, _, probs[k] = c.forward(seqs[i])
			}
			return learning.Decode(probs, c.Labels)
		})
	})
	return fit(ctx, KindChained, c.Params, all, len(X), rng, example, evaluate)
}

// PredictProba returns the class probabilities of every sequence, ordered as Classes.
func (c *Classifier) PredictProba(X [][]string) ([][]float64, error) {
	if c.Cell == nil || c.Embed == nil {
		return nil, learning.ErrNotFitted
	}
	if c.Embed.index == nil {
		if err := c.Embed.build(); err != nil {
			return nil, err
		}
	}
	out := make([][]float64, len(X))
	parallel.ForChunks(len(X), parallel.Threads(c.Params.Threads), func(_, from, to int) {
		for i := from; i < to; i++ {
			_, _, out[i] = c.forward(c.Embed.encode(X[i], c.Params.MaxLength))
		}
	})
	return out, nil
}

// Predict returns the most probable label of every sequence.
func (c *Classifier) Predict(X [][]string) ([]string, error) {
	probs, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return learning.Decode(probs, c.Labels), nil
}
