package rnn

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/neurlang/nli/features"
	"github.com/neurlang/nli/learning"
	"github.com/neurlang/nli/linalg"
	"github.com/neurlang/nli/parallel"
	"github.com/neurlang/nli/trainer"
)

// KindSentence tags saved sentence-encoding models.
const KindSentence = "rnn-sentence"

// SentenceEncodingClassifier encodes premise and hypothesis with separate
// LSTMs over a shared embedding and classifies the concatenation of their
// final hidden states.
type SentenceEncodingClassifier struct {
	Params     Params     `json:"params"`
	Labels     []string   `json:"classes"`
	Embed      *Embedding `json:"embedding"`
	Premise    *LSTM      `json:"premise"`
	Hypothesis *LSTM      `json:"hypothesis"`
	Why        []float64  `json:"w_hy"`
	By         []float64  `json:"b_y"`

	vocab   []string
	vectors [][]float64
}

// NewSentenceEncodingClassifier creates an untrained classifier, see NewClassifier.
func NewSentenceEncodingClassifier(vocab []string, vectors [][]float64, p Params) *SentenceEncodingClassifier {
	return &SentenceEncodingClassifier{Params: p, vocab: vocab, vectors: vectors}
}

// Classes returns the sorted class labels seen during Fit.
func (c *SentenceEncodingClassifier) Classes() []string {
	return c.Labels
}

type encodedPair struct {
	premise, hypothesis []int
}

func (c *SentenceEncodingClassifier) encode(x features.Pair) encodedPair {
	return encodedPair{
		premise:    c.Embed.encode(x.Premise, c.Params.MaxLength),
		hypothesis: c.Embed.encode(x.Hypothesis, c.Params.MaxLength),
	}
}

func (c *SentenceEncodingClassifier) forward(x encodedPair) (ps, hs []step, h, probs []float64) {
	ps, hp := c.Premise.forward(c.Embed.lookup(x.premise))
	hs, hh := c.Hypothesis.forward(c.Embed.lookup(x.hypothesis))
	h = append(append(make([]float64, 0, len(hp)+len(hh)), hp...), hh...)
	probs = make([]float64, len(c.By))
	(&linalg.Dense{Rows: len(h), Cols: len(c.By), Data: c.Why}).MulVec(probs, h)
	linalg.AddScaled(probs, 1, c.By)
	linalg.Softmax(probs, probs)
	return
}

// Fit trains on sentence pairs X labelled by y. Like Classifier.Fit it
// continues from the weights of a fitted or loaded classifier.
func (c *SentenceEncodingClassifier) Fit(ctx context.Context, X []features.Pair, y []string) error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if len(X) != len(y) {
		return errors.Wrapf(linalg.ErrShape, "rnn: %d pairs, %d labels", len(X), len(y))
	}
	classes, index, err := learning.Classes(y)
	if err != nil {
		return err
	}
	targets := learning.Encode(y, index)
	rng := rand.New(rand.NewSource(c.Params.Seed))
	var wp, bp, wh, bh, why, by *learning.Param
	if c.Premise != nil && c.Hypothesis != nil && c.Embed != nil {
		if err := warmStart(&c.Params, c.Labels, classes, c.Embed, c.Premise.Hidden, len(c.Why)/2); err != nil {
			return err
		}
		wp, bp = wrap("premise_w", c.Premise.W), wrap("premise_b", c.Premise.B)
		wh, bh = wrap("hypothesis_w", c.Hypothesis.W), wrap("hypothesis_b", c.Hypothesis.B)
		why, by = wrap("w_hy", c.Why), wrap("b_y", c.By)
	} else {
		c.Embed, err = newEmbedding(c.vocab, c.vectors, c.Params.EmbedDim, rng)
		if err != nil {
			return err
		}
		E, H, K := c.Embed.Dim, c.Params.HiddenDim, len(classes)
		wp = learning.NewParam("premise_w", (E+H)*4*H)
		bp = learning.NewParam("premise_b", 4*H)
		wh = learning.NewParam("hypothesis_w", (E+H)*4*H)
		bh = learning.NewParam("hypothesis_b", 4*H)
		why = learning.NewParam("w_hy", 2*H*K)
		by = learning.NewParam("b_y", K)
		learning.Uniform(wp.W, learning.Xavier(E+H, 4*H), rng.Float64)
		learning.Uniform(wh.W, learning.Xavier(E+H, 4*H), rng.Float64)
		learning.Uniform(why.W, learning.Xavier(2*H, K), rng.Float64)
		c.Labels = classes
		c.Premise = newLSTM(E, H, wp.W, bp.W)
		c.Hypothesis = newLSTM(E, H, wh.W, bh.W)
		c.Why, c.By = why.W, by.W
	}
	E, H, K := c.Embed.Dim, c.Params.HiddenDim, len(classes)

	all := []*learning.Param{wp, bp, wh, bh, why, by}
	if c.Params.TrainEmbedding {
		all = append(all, &learning.Param{Name: "embedding", W: c.Embed.W, G: make([]float64, len(c.Embed.W))})
	}
	pairs := make([]encodedPair, len(X))
	for i, x := range X {
		pairs[i] = c.encode(x)
	}

	example := func(grads []*learning.Param, i int) float64 {
		x := pairs[i]
		ps, hs, h, probs := c.forward(x)
		dy := make([]float64, K)
		learning.SoftmaxCrossEntropyGrad(dy, probs, targets[i])
		(&linalg.Dense{Rows: 2 * H, Cols: K, Data: grads[4].G}).AddOuter(1, h, dy)
		linalg.AddScaled(grads[5].G, 1, dy)

		dh := make([]float64, 2*H)
		(&linalg.Dense{Rows: 2 * H, Cols: K, Data: c.Why}).MulVecT(dh, dy)
		var dxp, dxh func(t int, d []float64)
		if len(grads) > 6 {
			ge := grads[6].G
			into := func(ids []int) func(t int, d []float64) {
				return func(t int, d []float64) {
					linalg.AddScaled(ge[ids[t]*E:(ids[t]+1)*E], 1, d)
				}
			}
			dxp, dxh = into(x.premise), into(x.hypothesis)
		}
		c.Premise.backward(ps, dh[:H], grads[0].G, grads[1].G, dxp)
		c.Hypothesis.backward(hs, dh[H:], grads[2].G, grads[3].G, dxh)
		return learning.CrossEntropy(probs, targets[i])
	}
	evaluate := trainer.NewEvaluateFunc(len(X), 95, c.Params.Seed, func(idx []int) float64 {
		return accuracy(idx, y, func(idx []int) []string {
			probs := make([][]float64, len(idx))
			for k, i := range idx {
				_, _, _, probs[k] = c.forward(pairs[i])
			}
			return learning.Decode(probs, c.Labels)
		})
	})
	return fit(ctx, KindSentence, c.Params, all, len(X), rng, example, evaluate)
}

// PredictProba returns the class probabilities of every pair, ordered as Classes.
func (c *SentenceEncodingClassifier) PredictProba(X []features.Pair) ([][]float64, error) {
	if c.Premise == nil || c.Hypothesis == nil || c.Embed == nil {
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
			_, _, _, out[i] = c.forward(c.encode(X[i]))
		}
	})
	return out, nil
}

// Predict returns the most probable label of every pair.
func (c *SentenceEncodingClassifier) Predict(X []features.Pair) ([]string, error) {
	probs, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return learning.Decode(probs, c.Labels), nil
}
