// Package recipes holds the model fitting functions of the NLI experiments,
// configured from config.Config, and the experiments built on them.
package recipes

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"

	"github.com/pkg/errors"

	"github.com/neurlang/nli/config"
	"github.com/neurlang/nli/crossval"
	"github.com/neurlang/nli/embedding"
	"github.com/neurlang/nli/experiment"
	"github.com/neurlang/nli/features"
	"github.com/neurlang/nli/learning"
	"github.com/neurlang/nli/learning/logistic"
	"github.com/neurlang/nli/linalg"
	"github.com/neurlang/nli/logger"
	"github.com/neurlang/nli/net/rnn"
	"github.com/neurlang/nli/net/shallow"
	"github.com/neurlang/nli/trainer"
	"github.com/neurlang/nli/vectorize"
)

// Fitter fits the models of the experiments with settings from Config.
type Fitter struct {
	Config *config.Config

	// ResumePath names a saved artifact the recurrent models continue
	// training from. A missing file starts from scratch.
	ResumePath string

	mu     sync.Mutex
	lookup embedding.Lookup
}

// New creates a Fitter. A nil cfg uses config.Default.
func New(cfg *config.Config) *Fitter {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Fitter{Config: cfg}
}

// SetGloVe installs preloaded GloVe vectors.
func (f *Fitter) SetGloVe(lookup embedding.Lookup) {
	f.mu.Lock()
	f.lookup = lookup
	f.mu.Unlock()
}

// GloVe returns the GloVe vectors, loading them from the data directory once.
func (f *Fitter) GloVe() (embedding.Lookup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookup != nil {
		return f.lookup, nil
	}
	path := embedding.GloVePath(f.Config.Data.GloVeHome, f.Config.Data.GloVeDim)
	lookup, err := embedding.LoadGloVe(path)
	if err != nil {
		return nil, err
	}
	logger.Logger.Infow("glove loaded", logger.FieldFile, path, logger.FieldCount, len(lookup))
	f.lookup = lookup
	return lookup, nil
}

func (f *Fitter) hyper() learning.HyperParameters {
	h := learning.Defaults()
	h.Seed = f.Config.Experiment.RandomState
	h.Threads = f.Config.Experiment.Threads
	return h
}

func (f *Fitter) logisticParams() logistic.Params {
	p := logistic.DefaultParams()
	p.HyperParameters.Seed = f.Config.Experiment.RandomState
	p.Threads = f.Config.Experiment.Threads
	p.MaxIter = f.Config.Logistic.MaxIter
	p.Tol = f.Config.Logistic.Tol
	p.Eta = f.Config.Logistic.Eta
	p.BatchSize = f.Config.Logistic.BatchSize
	return p
}

func values[T any](xs []T) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

// FitSoftmaxWithCrossValidation selects C and the penalty of a logistic
// regression by cross-validation and refits it on all of X.
func (f *Fitter) FitSoftmaxWithCrossValidation(ctx context.Context, X *linalg.SparseMatrix, y []string) (experiment.Predictor[*linalg.SparseMatrix], error) {
	search := &crossval.GridSearch[*linalg.SparseMatrix]{
		Grid: crossval.ParamGrid{
			{Name: "C", Values: values(f.Config.Logistic.CGrid)},
			{Name: "penalty", Values: values(f.Config.Logistic.Penalties)},
		},
		Folds:   f.Config.Experiment.CV,
		Seed:    f.Config.Experiment.RandomState,
		Threads: f.Config.Experiment.Threads,
		Fit: func(ctx context.Context, v crossval.Values, X *linalg.SparseMatrix, y []string) (crossval.Model[*linalg.SparseMatrix], error) {
			p := f.logisticParams()
			p.C, p.Penalty = v.Float("C"), v.String("penalty")
			c := logistic.New(p)
			if err := c.Fit(ctx, X, y); err != nil {
				return nil, err
			}
			return c, nil
		},
	}
	res, err := search.Run(ctx, X, y)
	if err != nil {
		return nil, err
	}
	return res.Model, nil
}

// DenseSoftmax classifies dense rows with a logistic regression fitted on
// their sparse form.
type DenseSoftmax struct {
	Model experiment.Predictor[*linalg.SparseMatrix]
}

// Predict classifies the rows of X.
func (d DenseSoftmax) Predict(X *linalg.Dense) ([]string, error) {
	return d.Model.Predict(X.Sparse())
}

// FitSoftmaxOnDense is FitSoftmaxWithCrossValidation for dense features.
func (f *Fitter) FitSoftmaxOnDense(ctx context.Context, X *linalg.Dense, y []string) (experiment.Predictor[*linalg.Dense], error) {
	m, err := f.FitSoftmaxWithCrossValidation(ctx, X.Sparse(), y)
	if err != nil {
		return nil, err
	}
	return DenseSoftmax{Model: m}, nil
}

// FitShallowNeuralClassifierWithCrossValidation selects the hidden layer
// size of a shallow network by cross-validation and refits it on all of X.
func (f *Fitter) FitShallowNeuralClassifierWithCrossValidation(ctx context.Context, X *linalg.Dense, y []string) (experiment.Predictor[*linalg.Dense], error) {
	search := &crossval.GridSearch[*linalg.Dense]{
		Grid:    crossval.ParamGrid{{Name: "hidden_dim", Values: values(f.Config.Shallow.HiddenDims)}},
		Folds:   f.Config.Experiment.CV,
		Seed:    f.Config.Experiment.RandomState,
		Threads: f.Config.Experiment.Threads,
		Fit: func(ctx context.Context, v crossval.Values, X *linalg.Dense, y []string) (crossval.Model[*linalg.Dense], error) {
			p := shallow.DefaultParams()
			p.HyperParameters = f.hyper()
			p.HiddenDim = v.Int("hidden_dim")
			p.MaxIter = f.Config.Shallow.MaxIter
			p.Eta = f.Config.Shallow.Eta
			p.BatchSize = f.Config.Shallow.BatchSize
			c := shallow.New(p)
			if err := c.Fit(ctx, X, y); err != nil {
				return nil, err
			}
			return c, nil
		},
	}
	res, err := search.Run(ctx, X, y)
	if err != nil {
		return nil, err
	}
	return res.Model, nil
}

func (f *Fitter) rnnParams(eta float64, batchSize int) rnn.Params {
	p := rnn.DefaultParams()
	p.HyperParameters = f.hyper()
	p.EmbedDim = f.Config.RNN.EmbedDim
	p.HiddenDim = f.Config.RNN.HiddenDim
	p.MaxIter = f.Config.RNN.MaxIter
	p.MaxLength = f.Config.RNN.MaxLength
	p.TrainEmbedding = f.Config.RNN.TrainEmbedding
	p.Eta = eta
	p.BatchSize = batchSize
	return p
}

// vocabulary builds the vocabulary of seqs and, when configured, GloVe
// initial vectors for it.
func (f *Fitter) vocabulary(seqs [][]string) ([]string, [][]float64, error) {
	vocab := embedding.Vocab(seqs, f.Config.RNN.NWords)
	if !f.Config.RNN.UseGloVe {
		return vocab, nil, nil
	}
	lookup, err := f.GloVe()
	if err != nil {
		return nil, nil, errors.Wrap(err, "glove embedding")
	}
	rng := rand.New(rand.NewSource(f.Config.Experiment.RandomState))
	return vocab, embedding.Pretrained(lookup, vocab, rng), nil
}

// resume loads the model of a saved recipe artifact at ResumePath into
// model. It reports false when there is nothing to resume from.
func (f *Fitter) resume(recipe string, model interface{}) (bool, error) {
	var a Artifact
	ok, err := trainer.Resume(&a, kindPrefix+recipe, f.ResumePath)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(a.Model, model); err != nil {
		return false, errors.Wrapf(err, "decode %s", f.ResumePath)
	}
	return true, nil
}

// SentenceRNNModel adapts a sentence-encoding classifier to raw pair slices.
type SentenceRNNModel struct {
	*rnn.SentenceEncodingClassifier
}

// Predict classifies the pairs of X.
func (s SentenceRNNModel) Predict(X vectorize.Slice[features.Pair]) ([]string, error) {
	return s.SentenceEncodingClassifier.Predict(X)
}

// FitSimpleSentenceEncodingRNN trains a sentence-encoding LSTM classifier
// over the most frequent words of X.
func (f *Fitter) FitSimpleSentenceEncodingRNN(ctx context.Context, X vectorize.Slice[features.Pair], y []string) (experiment.Predictor[vectorize.Slice[features.Pair]], error) {
	p := f.rnnParams(f.Config.RNN.Eta, f.Config.RNN.BatchSize)
	c := rnn.NewSentenceEncodingClassifier(nil, nil, p)
	resumed, err := f.resume(SentenceRNN, c)
	if err != nil {
		return nil, err
	}
	if resumed {
		c.Params = p
	} else {
		seqs := make([][]string, 0, 2*len(X))
		for _, x := range X {
			seqs = append(seqs, x.Premise, x.Hypothesis)
		}
		vocab, vectors, err := f.vocabulary(seqs)
		if err != nil {
			return nil, err
		}
		c = rnn.NewSentenceEncodingClassifier(vocab, vectors, p)
	}
	if err := c.Fit(ctx, X, y); err != nil {
		return nil, err
	}
	return SentenceRNNModel{c}, nil
}

// ChainedRNNModel adapts a chained classifier to raw sequence slices.
type ChainedRNNModel struct {
	*rnn.Classifier
}

// Predict classifies the sequences of X.
func (c ChainedRNNModel) Predict(X vectorize.Slice[[]string]) ([]string, error) {
	return c.Classifier.Predict(X)
}

// FitSimpleChainedRNN trains an LSTM over premise and hypothesis read as one
// sequence.
func (f *Fitter) FitSimpleChainedRNN(ctx context.Context, X vectorize.Slice[[]string], y []string) (experiment.Predictor[vectorize.Slice[[]string]], error) {
	p := f.rnnParams(f.Config.RNN.ChainedEta, f.Config.RNN.ChainedBatchSize)
	c := rnn.NewClassifier(nil, nil, p)
	resumed, err := f.resume(ChainedRNN, c)
	if err != nil {
		return nil, err
	}
	if resumed {
		c.Params = p
	} else {
		vocab, vectors, err := f.vocabulary(X)
		if err != nil {
			return nil, err
		}
		c = rnn.NewClassifier(vocab, vectors, p)
	}
	if err := c.Fit(ctx, X, y); err != nil {
		return nil, err
	}
	return ChainedRNNModel{c}, nil
}
