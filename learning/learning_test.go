package learning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Defaults().Validate())
	for _, mut := range []func(*HyperParameters){
		func(h *HyperParameters) { h.Eta = 0 },
		func(h *HyperParameters) { h.MaxIter = 0 },
		func(h *HyperParameters) { h.BatchSize = -1 },
		func(h *HyperParameters) { h.L2 = -1 },
		func(h *HyperParameters) { h.Optimizer = "rmsprop" },
	} {
		h := Defaults()
		mut(&h)
		assert.Error(t, h.Validate())
	}
}

func TestBatches(t *testing.T) {
	h := HyperParameters{BatchSize: 4}
	assert.Equal(t, [][2]int{{0, 4}, {4, 8}, {8, 10}}, h.Batches(10))
	h.BatchSize = 0
	assert.Equal(t, [][2]int{{0, 3}}, h.Batches(3))
	assert.Empty(t, h.Batches(0))
}

// minimize (w-3)² with each optimizer
func TestOptimizersConverge(t *testing.T) {
	for _, name := range []string{"sgd", "adagrad", "adam"} {
		p := NewParam("w", 1)
		h := HyperParameters{Eta: 0.1, Optimizer: name}
		opt := h.NewOptimizer([]*Param{p})
		for i := 0; i < 2000; i++ {
			ZeroGrad([]*Param{p})
			p.G[0] = 2 * (p.W[0] - 3)
			opt.Step([]*Param{p})
		}
		assert.InDelta(t, 3, p.W[0], 0.05, name)
	}
}

func TestClipGradients(t *testing.T) {
	p := &Param{W: make([]float64, 2), G: []float64{3, 4}}
	norm := ClipGradients([]*Param{p}, 1)
	assert.Equal(t, 5.0, norm)
	assert.InDeltaSlice(t, []float64{0.6, 0.8}, p.G, 1e-12)

	ClipGradients([]*Param{p}, 0)
	assert.InDeltaSlice(t, []float64{0.6, 0.8}, p.G, 1e-12)
}

func TestCrossEntropy(t *testing.T) {
	probs := []float64{0.25, 0.5, 0.25}
	assert.InDelta(t, math.Log(2), CrossEntropy(probs, 1), 1e-12)
	assert.InDelta(t, -math.Log(minProb), CrossEntropy([]float64{0, 1}, 0), 1e-9)

	g := make([]float64, 3)
	SoftmaxCrossEntropyGrad(g, probs, 1)
	assert.Equal(t, []float64{0.25, -0.5, 0.25}, g)
}

func TestXavierUniform(t *testing.T) {
	w := make([]float64, 100)
	var x float64
	Uniform(w, Xavier(3, 3), func() float64 { x += 0.0099; return x })
	for _, v := range w {
		assert.LessOrEqual(t, math.Abs(v), 1.0)
	}
}

func TestClasses(t *testing.T) {
	classes, index, err := Classes([]string{"neutral", "entailment", "neutral", "contradiction"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"contradiction", "entailment", "neutral"}, classes)
	assert.Equal(t, []int{2, 1, 2, 0}, Encode([]string{"neutral", "entailment", "neutral", "contradiction"}, index))
	assert.Equal(t, []string{"entailment", "contradiction"},
		Decode([][]float64{{0.1, 0.8, 0.1}, {0.5, 0.2, 0.3}}, classes))

	_, _, err = Classes([]string{"neutral", "neutral"})
	assert.ErrorIs(t, err, ErrClasses)
}

func TestAccumulatorMeanGradient(t *testing.T) {
	p := NewParam("w", 2)
	p.W[0], p.W[1] = 1, 2
	a := NewAccumulator([]*Param{p}, 3)
	loss := a.Run([]int{0, 1, 2, 3}, func(grads []*Param, i int) float64 {
		assert.Equal(t, p.W, grads[0].W)
		grads[0].G[0] += float64(i)
		grads[0].G[1] += 1
		return float64(i)
	})
	assert.Equal(t, 6.0, loss)
	assert.InDeltaSlice(t, []float64{1.5, 1}, p.G, 1e-12)

	loss = a.Run(nil, nil)
	assert.Equal(t, 0.0, loss)
	assert.Equal(t, []float64{0, 0}, p.G)
}
