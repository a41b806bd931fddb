package linalg

import "sort"

// Sparse is a sparse row vector with strictly increasing indices.
type Sparse struct {
	Indices []int
	Values  []float64
}

// NewSparse builds a Sparse from an index→value map, dropping zeros.
func NewSparse(m map[int]float64) Sparse {
	var s Sparse
	for i, v := range m {
		if v != 0 {
			s.Indices = append(s.Indices, i)
		}
	}
	sort.Ints(s.Indices)
	s.Values = make([]float64, len(s.Indices))
	for k, i := range s.Indices {
		s.Values[k] = m[i]
	}
	return s
}

// Dot returns the inner product with a dense vector.
func (s Sparse) Dot(w []float64) (out float64) {
	for k, i := range s.Indices {
		out += s.Values[k] * w[i]
	}
	return
}

// AddTo computes dst += alpha·s.
func (s Sparse) AddTo(dst []float64, alpha float64) {
	for k, i := range s.Indices {
		dst[i] += alpha * s.Values[k]
	}
}

// Dense expands s into a vector of length n.
func (s Sparse) Dense(n int) []float64 {
	out := make([]float64, n)
	s.AddTo(out, 1)
	return out
}

// SparseMatrix is a list of sparse rows over Cols columns.
type SparseMatrix struct {
	Rows []Sparse
	Cols int
}

// Len reports the number of rows.
func (m *SparseMatrix) Len() int {
	return len(m.Rows)
}

// Subset selects rows. Row storage is shared, rows are never mutated.
func (m *SparseMatrix) Subset(idx []int) *SparseMatrix {
	out := &SparseMatrix{Rows: make([]Sparse, len(idx)), Cols: m.Cols}
	for i, r := range idx {
		out.Rows[i] = m.Rows[r]
	}
	return out
}

// NNZ counts stored entries.
func (m *SparseMatrix) NNZ() (n int) {
	for _, r := range m.Rows {
		n += len(r.Indices)
	}
	return
}
