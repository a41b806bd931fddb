package rnn

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/nli/embedding"
	"github.com/neurlang/nli/features"
	"github.com/neurlang/nli/learning"
	"github.com/neurlang/nli/linalg"
	"github.com/neurlang/nli/persist"
)

func TestLSTMGradients(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const in, hid = 3, 2
	w := make([]float64, (in+hid)*4*hid)
	b := make([]float64, 4*hid)
	learning.Uniform(w, 0.5, rng.Float64)
	l := newLSTM(in, hid, w, b)
	xs := [][]float64{{0.1, -0.2, 0.3}, {0.5, 0.1, -0.4}, {-0.3, 0.2, 0.1}}
	r := []float64{0.7, -1.3}

	loss := func() float64 {
		_, h := l.forward(xs)
		return linalg.Dot(h, r)
	}
	steps, _ := l.forward(xs)
	gw := make([]float64, len(w))
	gb := make([]float64, len(b))
	dxs := make([][]float64, len(xs))
	l.backward(steps, r, gw, gb, func(t int, d []float64) {
		dxs[t] = append([]float64(nil), d...)
	})

	const eps = 1e-6
	numeric := func(v *float64) float64 {
		old := *v
		*v = old + eps
		up := loss()
		*v = old - eps
		down := loss()
		*v = old
		return (up - down) / (2 * eps)
	}
	for _, k := range []int{0, 5, 17, len(w) - 1} {
		assert.InDelta(t, numeric(&w[k]), gw[k], 1e-6, "w[%d]", k)
	}
	for k := range b {
		assert.InDelta(t, numeric(&b[k]), gb[k], 1e-6, "b[%d]", k)
	}
	for step := range xs {
		for j := range xs[step] {
			assert.InDelta(t, numeric(&xs[step][j]), dxs[step][j], 1e-6, "x[%d][%d]", step, j)
		}
	}
}

func TestLSTMEmptySequence(t *testing.T) {
	l := newLSTM(2, 3, make([]float64, 5*12), make([]float64, 12))
	steps, h := l.forward(nil)
	assert.Empty(t, steps)
	assert.Equal(t, []float64{0, 0, 0}, h)
}

func TestEncode(t *testing.T) {
	e, err := newEmbedding([]string{"$UNK", "a", "b"}, nil, 4, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, e.encode([]string{"a", "zzz", "b", "a"}, 3))
	assert.Equal(t, []int{1, 0, 2, 1}, e.encode([]string{"a", "zzz", "b", "a"}, 0))
	for _, v := range e.W {
		assert.True(t, v >= -1 && v < 1)
	}

	_, err = newEmbedding([]string{"a"}, nil, 4, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrVocab)
	_, err = newEmbedding([]string{"$UNK", "a"}, [][]float64{{1}}, 4, nil)
	assert.ErrorIs(t, err, ErrVocab)
	_, err = newEmbedding([]string{"$UNK", "a"}, [][]float64{{1, 2}, {1}}, 4, nil)
	assert.ErrorIs(t, err, embedding.ErrDimension)

	e, err = newEmbedding([]string{"$UNK", "a"}, [][]float64{{1, 2}, {3, 4}}, 50, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Dim)
	assert.Equal(t, []float64{3, 4}, e.row(1))
}

// toyPairs labels a pair by whether the hypothesis repeats the premise's first word.
func toyPairs() ([]features.Pair, []string) {
	words := []string{"cat", "dog", "bird", "fish"}
	var X []features.Pair
	var y []string
	for i := 0; i < 32; i++ {
		p := words[i%4]
		if i%2 == 0 {
			X = append(X, features.Pair{Premise: []string{p, "runs"}, Hypothesis: []string{"yes"}})
			y = append(y, "entailment")
		} else {
			X = append(X, features.Pair{Premise: []string{p, "runs"}, Hypothesis: []string{"no"}})
			y = append(y, "contradiction")
		}
	}
	return X, y
}

func testParams() Params {
	p := DefaultParams()
	p.EmbedDim, p.HiddenDim = 8, 8
	p.MaxIter = 60
	p.Eta = 0.05
	p.BatchSize = 8
	p.Tol = 0
	return p
}

func TestSentenceEncodingLearns(t *testing.T) {
	X, y := toyPairs()
	var seqs [][]string
	for _, x := range X {
		seqs = append(seqs, x.Premise, x.Hypothesis)
	}
	c := NewSentenceEncodingClassifier(embedding.Vocab(seqs, 100), nil, testParams())
	require.NoError(t, c.Fit(context.Background(), X, y))
	pred, err := c.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, y, pred)

	pred, err = c.Predict([]features.Pair{{Premise: []string{"unseen"}, Hypothesis: nil}})
	require.NoError(t, err)
	assert.Len(t, pred, 1)
}

func TestChainedLearns(t *testing.T) {
	X, y := toyPairs()
	var seqs [][]string
	for _, x := range X {
		seqs = append(seqs, append(append([]string(nil), x.Premise...), x.Hypothesis...))
	}
	vocab := embedding.Vocab(seqs, 100)
	for _, train := range []bool{true, false} {
		p := testParams()
		p.TrainEmbedding = train
		c := NewClassifier(vocab, nil, p)
		before := append([]float64(nil), mustEmbedding(t, vocab, p)...)
		require.NoError(t, c.Fit(context.Background(), seqs, y))
		pred, err := c.Predict(seqs)
		require.NoError(t, err)
		assert.Equal(t, y, pred)
		if !train {
			assert.Equal(t, before, c.Embed.W)
		}
	}
}

// mustEmbedding reproduces the embedding Fit draws first from the seeded source.
func mustEmbedding(t *testing.T, vocab []string, p Params) []float64 {
	e, err := newEmbedding(vocab, nil, p.EmbedDim, rand.New(rand.NewSource(p.Seed)))
	require.NoError(t, err)
	return e.W
}

func TestChainedPersist(t *testing.T) {
	X, y := toyPairs()
	var seqs [][]string
	for _, x := range X {
		seqs = append(seqs, append(append([]string(nil), x.Premise...), x.Hypothesis...))
	}
	p := testParams()
	p.MaxIter = 2
	c := NewClassifier(embedding.Vocab(seqs, 100), nil, p)
	require.NoError(t, c.Fit(context.Background(), seqs, y))
	want, err := c.PredictProba(seqs)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, persist.Write(&buf, KindChained, "run", c))
	var back Classifier
	_, err = persist.Read(&buf, KindChained, &back)
	require.NoError(t, err)
	got, err := back.PredictProba(seqs)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want[0], got[0], 1e-12)
}

func TestChainedWarmStart(t *testing.T) {
	X, y := toyPairs()
	var seqs [][]string
	for _, x := range X {
		seqs = append(seqs, append(append([]string(nil), x.Premise...), x.Hypothesis...))
	}
	p := testParams()
	p.MaxIter = 2
	c := NewClassifier(embedding.Vocab(seqs, 100), nil, p)
	require.NoError(t, c.Fit(context.Background(), seqs, y))

	var buf bytes.Buffer
	require.NoError(t, persist.Write(&buf, KindChained, "run", c))
	var back Classifier
	_, err := persist.Read(&buf, KindChained, &back)
	require.NoError(t, err)
	back.Params = testParams()
	back.Params.HiddenDim = 3
	weights, vocab := &back.Cell.W[0], back.Embed.Vocab
	require.NoError(t, back.Fit(context.Background(), seqs, y))
	assert.Same(t, weights, &back.Cell.W[0])
	assert.Equal(t, vocab, back.Embed.Vocab)
	assert.Equal(t, 8, back.Params.HiddenDim)
	pred, err := back.Predict(seqs)
	require.NoError(t, err)
	assert.Equal(t, y, pred)

	other := append([]string(nil), y...)
	other[0] = "neutral"
	assert.ErrorIs(t, back.Fit(context.Background(), seqs, other), ErrWarmStart)
}

func TestSentenceEncodingWarmStart(t *testing.T) {
	X, y := toyPairs()
	var seqs [][]string
	for _, x := range X {
		seqs = append(seqs, x.Premise, x.Hypothesis)
	}
	p := testParams()
	p.MaxIter = 1
	c := NewSentenceEncodingClassifier(embedding.Vocab(seqs, 100), nil, p)
	require.NoError(t, c.Fit(context.Background(), X, y))
	premise, why := &c.Premise.W[0], &c.Why[0]
	require.NoError(t, c.Fit(context.Background(), X, y))
	assert.Same(t, premise, &c.Premise.W[0])
	assert.Same(t, why, &c.Why[0])
}

func TestErrors(t *testing.T) {
	vocab := []string{"$UNK", "a"}
	_, err := NewClassifier(vocab, nil, testParams()).Predict([][]string{{"a"}})
	assert.ErrorIs(t, err, learning.ErrNotFitted)
	_, err = NewSentenceEncodingClassifier(vocab, nil, testParams()).Predict(nil)
	assert.ErrorIs(t, err, learning.ErrNotFitted)

	err = NewClassifier(vocab, nil, testParams()).Fit(context.Background(), [][]string{{"a"}}, []string{"x", "y"})
	assert.ErrorIs(t, err, linalg.ErrShape)

	p := testParams()
	p.HiddenDim = 0
	err = NewClassifier(vocab, nil, p).Fit(context.Background(), [][]string{{"a"}, {"b"}}, []string{"x", "y"})
	assert.Error(t, err)

	err = NewClassifier([]string{"a"}, nil, testParams()).Fit(context.Background(), [][]string{{"a"}, {"b"}}, []string{"x", "y"})
	assert.ErrorIs(t, err, ErrVocab)
}
