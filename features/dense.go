package features

import (
	"github.com/neurlang/nli/embedding"
	"github.com/neurlang/nli/tree"
)

// DensePhi maps a tree pair to a fixed-width vector.
type DensePhi func(premise, hypothesis *tree.Tree) []float64

// Combine reduces a non-empty list of equally wide vectors to one vector.
type Combine func(vecs [][]float64) []float64

// Sum adds the vectors.
func Sum(vecs [][]float64) []float64 {
	out := make([]float64, len(vecs[0]))
	for _, v := range vecs {
		for i, x := range v {
			out[i] += x
		}
	}
	return out
}

// Mean averages the vectors.
func Mean(vecs [][]float64) []float64 {
	out := Sum(vecs)
	for i := range out {
		out[i] /= float64(len(vecs))
	}
	return out
}

// CombineByName resolves "sum" or "mean".
func CombineByName(name string) (Combine, bool) {
	switch name {
	case "sum":
		return Sum, true
	case "mean":
		return Mean, true
	}
	return nil, false
}

// GloveLeaves represents each sentence by combining the vectors of its known
// leaves and concatenates premise and hypothesis. A sentence without known
// words contributes a zero vector.
func GloveLeaves(lookup embedding.Lookup, combine Combine) DensePhi {
	dim := lookup.Dim()
	return func(premise, hypothesis *tree.Tree) []float64 {
		out := make([]float64, 0, 2*dim)
		out = append(out, treeVector(premise, lookup, combine, dim)...)
		out = append(out, treeVector(hypothesis, lookup, combine, dim)...)
		return out
	}
}

func treeVector(t *tree.Tree, lookup embedding.Lookup, combine Combine, dim int) []float64 {
	var vecs [][]float64
	for _, w := range t.Leaves() {
		if v, ok := lookup[w]; ok {
			vecs = append(vecs, v)
		}
	}
	if len(vecs) == 0 {
		return make([]float64, dim)
	}
	return combine(vecs)
}
