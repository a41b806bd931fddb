package rnn

import (
	"math"

	"github.com/neurlang/nli/linalg"
)

// LSTM is a single long short-term memory layer. W maps the concatenation
// of the input and the previous hidden state to the four gate
// pre-activations, laid out as input, forget, output and candidate blocks.
type LSTM struct {
	Input  int       `json:"input"`
	Hidden int       `json:"hidden"`
	W      []float64 `json:"w"`
	B      []float64 `json:"b"`
}

func newLSTM(input, hidden int, w, b []float64) *LSTM {
	l := &LSTM{Input: input, Hidden: hidden, W: w, B: b}
	for j := hidden; j < 2*hidden; j++ {
		b[j] = 1
	}
	return l
}

func (l *LSTM) weights(data []float64) *linalg.Dense {
	return &linalg.Dense{Rows: l.Input + l.Hidden, Cols: 4 * l.Hidden, Data: data}
}

// step holds the activations of one time step for backpropagation.
type step struct {
	z          []float64 // [x, h_prev]
	i, f, o, g []float64
	cPrev, c   []float64
	h          []float64
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// forward runs the layer over xs from a zero state. The returned final
// hidden state is zero for an empty sequence.
func (l *LSTM) forward(xs [][]float64) ([]step, []float64) {
	H := l.Hidden
	h := make([]float64, H)
	c := make([]float64, H)
	steps := make([]step, len(xs))
	w := l.weights(l.W)
	for t, x := range xs {
		s := &steps[t]
		s.z = make([]float64, l.Input+H)
		copy(s.z, x)
		copy(s.z[l.Input:], h)

		a := make([]float64, 4*H)
		w.MulVec(a, s.z)
		linalg.AddScaled(a, 1, l.B)
		s.i, s.f, s.o, s.g = a[:H], a[H:2*H], a[2*H:3*H], a[3*H:]
		s.cPrev = c
		s.c = make([]float64, H)
		s.h = make([]float64, H)
		for j := 0; j < H; j++ {
			s.i[j] = sigmoid(s.i[j])
			s.f[j] = sigmoid(s.f[j])
			s.o[j] = sigmoid(s.o[j])
			s.g[j] = math.Tanh(s.g[j])
			s.c[j] = s.f[j]*s.cPrev[j] + s.i[j]*s.g[j]
			s.h[j] = s.o[j] * math.Tanh(s.c[j])
		}
		h, c = s.h, s.c
	}
	return steps, h
}

// backward propagates dh, the gradient of the final hidden state, through
// time. Weight gradients accumulate into gw and gb; dx receives the
// gradient of every input vector.
func (l *LSTM) backward(steps []step, dh []float64, gw, gb []float64, dx func(t int, d []float64)) {
	H := l.Hidden
	w := l.weights(l.W)
	g := l.weights(gw)
	dh = append([]float64(nil), dh...)
	dc := make([]float64, H)
	da := make([]float64, 4*H)
	dz := make([]float64, l.Input+H)
	for t := len(steps) - 1; t >= 0; t-- {
		s := &steps[t]
		for j := 0; j < H; j++ {
			tc := math.Tanh(s.c[j])
			do := dh[j] * tc
			dc[j] += dh[j] * s.o[j] * (1 - tc*tc)
			di := dc[j] * s.g[j]
			dg := dc[j] * s.i[j]
			df := dc[j] * s.cPrev[j]

			da[j] = di * s.i[j] * (1 - s.i[j])
			da[H+j] = df * s.f[j] * (1 - s.f[j])
			da[2*H+j] = do * s.o[j] * (1 - s.o[j])
			da[3*H+j] = dg * (1 - s.g[j]*s.g[j])

			dc[j] *= s.f[j]
		}
		g.AddOuter(1, s.z, da)
		linalg.AddScaled(gb, 1, da)
		w.MulVecT(dz, da)
		if dx != nil {
			dx(t, dz[:l.Input])
		}
		copy(dh, dz[l.Input:])
	}
}
