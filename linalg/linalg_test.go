package linalg

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	for n := 0; n < 20; n++ {
		a := make([]float64, n)
		b := make([]float64, n)
		var want float64
		for i := range a {
			a[i] = float64(i) + 0.5
			b[i] = float64(n - i)
			want += a[i] * b[i]
		}
		assert.InDelta(t, want, Dot(a, b), 1e-9)
	}
	assert.Panics(t, func() { Dot([]float64{1}, nil) })
}

func TestAddScaled(t *testing.T) {
	dst := []float64{1, 1}
	AddScaled(dst, -2, []float64{1, 3})
	assert.Equal(t, []float64{-1, -5}, dst)
	assert.Panics(t, func() { AddScaled(dst, 1, []float64{1}) })
}

func TestSoftmax(t *testing.T) {
	in := []float64{1000, 1000, 1000 + math.Log(2)}
	out := make([]float64, 3)
	Softmax(out, in)
	assert.InDelta(t, 0.25, out[0], 1e-12)
	assert.InDelta(t, 0.5, out[2], 1e-12)

	Softmax(in, in)
	assert.InDelta(t, 1.0, in[0]+in[1]+in[2], 1e-12)
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, -1, Argmax(nil))
	assert.Equal(t, 1, Argmax([]float64{0, 3, 3, -1}))
}

func TestDense(t *testing.T) {
	m, err := DenseFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 6.0, m.At(1, 2))

	dst := make([]float64, 3)
	m.MulVec(dst, []float64{1, -1})
	assert.Equal(t, []float64{-3, -3, -3}, dst)

	col := make([]float64, 2)
	m.MulVecT(col, []float64{1, 0, 1})
	assert.Equal(t, []float64{4, 10}, col)

	m.AddOuter(2, []float64{1, 0}, []float64{1, 1, 1})
	assert.Equal(t, []float64{3, 4, 5}, m.Row(0))
	assert.Equal(t, []float64{4, 5, 6}, m.Row(1))

	assert.Panics(t, func() { m.AddOuter(1, []float64{1}, []float64{1, 1, 1}) })
	assert.Panics(t, func() { m.MulVec(make([]float64, 2), []float64{1, 1}) })

	empty := &Dense{Rows: 2, Cols: 0}
	out := []float64{7, 7}
	empty.MulVecT(out, nil)
	assert.Equal(t, []float64{0, 0}, out)

	sub := m.Subset([]int{1, 1})
	assert.Equal(t, 2, sub.Len())
	assert.Equal(t, m.Row(1), sub.Row(0))
	sub.Set(0, 0, 99)
	assert.Equal(t, 4.0, m.At(1, 0))

	_, err = DenseFromRows([][]float64{{1}, {1, 2}})
	assert.True(t, errors.Is(err, ErrShape))
}

func TestSparse(t *testing.T) {
	s := NewSparse(map[int]float64{4: 2, 1: -1, 3: 0})
	assert.Equal(t, []int{1, 4}, s.Indices)
	assert.Equal(t, []float64{-1, 2}, s.Values)
	assert.Equal(t, 2*10.0-1, s.Dot([]float64{0, 1, 0, 0, 10}))
	assert.Equal(t, []float64{0, -1, 0, 0, 2}, s.Dense(5))

	m := &SparseMatrix{Rows: []Sparse{s, {}}, Cols: 5}
	assert.Equal(t, 2, m.NNZ())
	assert.Equal(t, 1, m.Subset([]int{1}).Len())
}

func TestDenseToSparse(t *testing.T) {
	m, err := DenseFromRows([][]float64{{0, 2, 0}, {0, 0, 0}})
	require.NoError(t, err)
	s := m.Sparse()
	assert.Equal(t, 3, s.Cols)
	assert.Equal(t, []int{1}, s.Rows[0].Indices)
	assert.Equal(t, []float64{2}, s.Rows[0].Values)
	assert.Empty(t, s.Rows[1].Indices)
	assert.Equal(t, 1, s.NNZ())
}
