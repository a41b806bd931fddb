// Package linalg provides the small dense and sparse float64 kernels the classifiers need.
package linalg

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// ErrShape reports mismatched dimensions in user supplied data.
var ErrShape = errors.New("linalg: shape mismatch")

// Dense is a row-major matrix.
type Dense struct {
	Rows, Cols int
	Data       []float64
}

// NewDense allocates a zero r×c matrix.
func NewDense(r, c int) *Dense {
	return &Dense{Rows: r, Cols: c, Data: make([]float64, r*c)}
}

// DenseFromRows copies equally long rows into a matrix.
func DenseFromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return NewDense(0, 0), nil
	}
	m := NewDense(len(rows), len(rows[0]))
	for i, r := range rows {
		if len(r) != m.Cols {
			return nil, errors.Wrapf(ErrShape, "row %d has %d columns, want %d", i, len(r), m.Cols)
		}
		copy(m.Row(i), r)
	}
	return m, nil
}

// At returns element (i, j).
func (m *Dense) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

// Set assigns element (i, j).
func (m *Dense) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = v
}

// Row returns row i as a slice sharing storage with m.
func (m *Dense) Row(i int) []float64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Len reports the number of rows.
func (m *Dense) Len() int {
	return m.Rows
}

// Subset copies the given rows into a new matrix.
func (m *Dense) Subset(idx []int) *Dense {
	out := NewDense(len(idx), m.Cols)
	for i, r := range idx {
		copy(out.Row(i), m.Row(r))
	}
	return out
}

func (m *Dense) general() blas64.General {
	return blas64.General{Rows: m.Rows, Cols: m.Cols, Stride: m.Cols, Data: m.Data}
}

func vec(v []float64) blas64.Vector {
	return blas64.Vector{N: len(v), Inc: 1, Data: v}
}

// MulVec computes dst = x·M for a row vector x of length Rows. dst has length Cols.
func (m *Dense) MulVec(dst, x []float64) {
	if len(x) != m.Rows || len(dst) != m.Cols {
		panic(fmt.Sprintf("linalg: MulVec %d·(%d×%d) -> %d", len(x), m.Rows, m.Cols, len(dst)))
	}
	if m.Rows == 0 || m.Cols == 0 {
		Zero(dst)
		return
	}
	blas64.Gemv(blas.Trans, 1, m.general(), vec(x), 0, vec(dst))
}

// MulVecT computes dst = M·y for a column vector y of length Cols. dst has length Rows.
func (m *Dense) MulVecT(dst, y []float64) {
	if len(y) != m.Cols || len(dst) != m.Rows {
		panic(fmt.Sprintf("linalg: MulVecT (%d×%d)·%d -> %d", m.Rows, m.Cols, len(y), len(dst)))
	}
	if m.Rows == 0 || m.Cols == 0 {
		Zero(dst)
		return
	}
	blas64.Gemv(blas.NoTrans, 1, m.general(), vec(y), 0, vec(dst))
}

// AddOuter accumulates M += alpha·x⊗y where len(x) == Rows and len(y) == Cols.
func (m *Dense) AddOuter(alpha float64, x, y []float64) {
	if len(x) != m.Rows || len(y) != m.Cols {
		panic(fmt.Sprintf("linalg: AddOuter %d⊗%d into %d×%d", len(x), len(y), m.Rows, m.Cols))
	}
	if m.Rows == 0 || m.Cols == 0 {
		return
	}
	blas64.Ger(alpha, vec(x), vec(y), m.general())
}

// Sparse converts m to sparse rows, dropping zeros.
func (m *Dense) Sparse() *SparseMatrix {
	out := &SparseMatrix{Rows: make([]Sparse, m.Rows), Cols: m.Cols}
	for i := range out.Rows {
		var s Sparse
		for j, v := range m.Row(i) {
			if v != 0 {
				s.Indices = append(s.Indices, j)
				s.Values = append(s.Values, v)
			}
		}
		out.Rows[i] = s
	}
	return out
}
