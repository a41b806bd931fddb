// Package rnn implements LSTM classifiers over token sequences: a chained
// model reading the premise and hypothesis as one sequence, and a
// sentence-encoding model with one LSTM per sentence.
package rnn

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/neurlang/nli/embedding"
	"github.com/neurlang/nli/learning"
	"github.com/neurlang/nli/trainer"
)

// ErrVocab is returned for a vocabulary the classifiers cannot map tokens with.
var ErrVocab = errors.New("rnn: bad vocabulary")

// ErrWarmStart is returned when a loaded classifier cannot continue
// training on the given data.
var ErrWarmStart = errors.New("rnn: model does not match the training data")

// Params configures both classifiers.
type Params struct {
	EmbedDim       int  `json:"embed_dim"`  // ignored when an embedding is supplied
	HiddenDim      int  `json:"hidden_dim"`
	MaxLength      int  `json:"max_length"` // longer sequences are truncated, 0 keeps all
	TrainEmbedding bool `json:"train_embedding"`

	learning.HyperParameters
}

// DefaultParams returns 50 dimensional embeddings and hidden states.
func DefaultParams() Params {
	h := learning.Defaults()
	h.MaxIter = 100
	return Params{EmbedDim: 50, HiddenDim: 50, MaxLength: 52, TrainEmbedding: true, HyperParameters: h}
}

// Validate checks the settings.
func (p Params) Validate() error {
	if p.EmbedDim <= 0 || p.HiddenDim <= 0 {
		return errors.Errorf("rnn: embed_dim and hidden_dim must be positive, got %d and %d", p.EmbedDim, p.HiddenDim)
	}
	if p.MaxLength < 0 {
		return errors.Errorf("rnn: max_length must not be negative, got %d", p.MaxLength)
	}
	return p.HyperParameters.Validate()
}

// Embedding is a vocabulary with one vector per word, stored row-major.
type Embedding struct {
	Vocab []string  `json:"vocab"`
	Dim   int       `json:"dim"`
	W     []float64 `json:"w"`

	index map[string]int
}

// newEmbedding copies vectors when given, otherwise draws every
// coordinate uniformly from [-1, 1).
func newEmbedding(vocab []string, vectors [][]float64, dim int, rng *rand.Rand) (*Embedding, error) {
	if len(vocab) == 0 {
		return nil, errors.Wrap(ErrVocab, "empty")
	}
	if vectors != nil {
		if len(vectors) != len(vocab) {
			return nil, errors.Wrapf(ErrVocab, "%d words, %d vectors", len(vocab), len(vectors))
		}
		dim = len(vectors[0])
	}
	e := &Embedding{Vocab: append([]string(nil), vocab...), Dim: dim, W: make([]float64, len(vocab)*dim)}
	for i := range vocab {
		if vectors == nil {
			copy(e.row(i), embedding.RandVec(rng, dim, -1, 1))
			continue
		}
		if len(vectors[i]) != dim {
			return nil, errors.Wrapf(embedding.ErrDimension, "word %q", vocab[i])
		}
		copy(e.row(i), vectors[i])
	}
	if err := e.build(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Embedding) build() error {
	e.index = embedding.Index(e.Vocab)
	if _, ok := e.index[embedding.Unknown]; !ok {
		return errors.Wrapf(ErrVocab, "missing %s", embedding.Unknown)
	}
	return nil
}

func (e *Embedding) row(i int) []float64 {
	return e.W[i*e.Dim : (i+1)*e.Dim]
}

// encode maps tokens to indices, unknown words to $UNK, keeping at most maxLength.
func (e *Embedding) encode(tokens []string, maxLength int) []int {
	if maxLength > 0 && len(tokens) > maxLength {
		tokens = tokens[:maxLength]
	}
	unk := e.index[embedding.Unknown]
	out := make([]int, len(tokens))
	for t, w := range tokens {
		if i, ok := e.index[w]; ok {
			out[t] = i
		} else {
			out[t] = unk
		}
	}
	return out
}

func (e *Embedding) lookup(ids []int) [][]float64 {
	xs := make([][]float64, len(ids))
	for t, i := range ids {
		xs[t] = e.row(i)
	}
	return xs
}

// warmStart checks that a classifier with labels, embedding e and hidden
// size hidden can continue training on classes, and adopts its dimensions.
// why is the number of output weights per hidden unit set.
func warmStart(p *Params, labels, classes []string, e *Embedding, hidden, why int) error {
	if len(labels) != len(classes) {
		return errors.Wrapf(ErrWarmStart, "classes %v, data has %v", labels, classes)
	}
	for i := range labels {
		if labels[i] != classes[i] {
			return errors.Wrapf(ErrWarmStart, "classes %v, data has %v", labels, classes)
		}
	}
	if why != hidden*len(classes) {
		return errors.Wrapf(ErrWarmStart, "%d output weights for %d hidden units", why, hidden)
	}
	if e.index == nil {
		if err := e.build(); err != nil {
			return err
		}
	}
	p.EmbedDim, p.HiddenDim = e.Dim, hidden
	return nil
}

func wrap(name string, w []float64) *learning.Param {
	return &learning.Param{Name: name, W: w, G: make([]float64, len(w))}
}

// fit is the mini-batch loop shared by both classifiers. all are the
// parameters the example function writes gradients for, in the same order.
func fit(ctx context.Context, name string, p Params, all []*learning.Param, n int,
	rng *rand.Rand, example func(grads []*learning.Param, i int) float64, evaluate func() float64) error {

	opt := p.NewOptimizer(all)
	acc := learning.NewAccumulator(all, p.Threads)
	_, err := trainer.Loop(ctx, trainer.LoopOptions{
		Name:     name,
		MaxIter:  p.MaxIter,
		Tol:      p.Tol,
		Evaluate: evaluate,
		Epoch: func(ctx context.Context, _ int) (float64, error) {
			order := rng.Perm(n)
			var loss float64
			for _, batch := range p.Batches(n) {
				if err := ctx.Err(); err != nil {
					return 0, err
				}
				loss += acc.Run(order[batch[0]:batch[1]], example)
				learning.ClipGradients(all, p.MaxGradNorm)
				opt.Step(all)
			}
			return loss / float64(n), nil
		},
	})
	return err
}

// accuracy scores predictions of the sampled rows against y.
func accuracy(idx []int, y []string, predict func(idx []int) []string) float64 {
	pred := predict(idx)
	var ok int
	for k, i := range idx {
		if pred[k] == y[i] {
			ok++
		}
	}
	return float64(ok) / float64(len(idx))
}
