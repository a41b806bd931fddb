// Package features holds the feature functions ("phi") that map a premise and
// hypothesis tree pair to the representation a classifier is trained on.
package features

import (
	"strings"

	"github.com/neurlang/nli/tree"
)

// Counter is a sparse bag of named feature values.
type Counter map[string]float64

// SparsePhi maps a tree pair to named counts.
type SparsePhi func(premise, hypothesis *tree.Tree) Counter

// WordOverlap has one feature per word type that occurs in both the premise
// and the hypothesis.
func WordOverlap(premise, hypothesis *tree.Tree) Counter {
	in := make(map[string]struct{})
	for _, w := range premise.Leaves() {
		in[w] = struct{}{}
	}
	out := make(Counter)
	for _, w := range hypothesis.Leaves() {
		if _, ok := in[w]; ok {
			out[w] = 1
		}
	}
	return out
}

// WordCrossProduct counts every (premise word, hypothesis word) pair.
func WordCrossProduct(premise, hypothesis *tree.Tree) Counter {
	hyp := hypothesis.Leaves()
	out := make(Counter)
	for _, p := range premise.Leaves() {
		for _, h := range hyp {
			out[p+"|"+h]++
		}
	}
	return out
}

// HypothesisOnly is the bag of hypothesis words. It measures how much can be
// predicted without looking at the premise at all.
func HypothesisOnly(_, hypothesis *tree.Tree) Counter {
	out := make(Counter)
	for _, w := range hypothesis.Leaves() {
		out[w]++
	}
	return out
}

// Union merges the outputs of several sparse feature functions. Keys are
// prefixed with the function position so that families do not collide.
func Union(phis ...SparsePhi) SparsePhi {
	return func(premise, hypothesis *tree.Tree) Counter {
		out := make(Counter)
		for i, phi := range phis {
			prefix := string(rune('a'+i)) + ":"
			for k, v := range phi(premise, hypothesis) {
				out[prefix+k] += v
			}
		}
		return out
	}
}

// Sparse feature function names.
const (
	NameWordOverlap      = "overlap"
	NameWordCrossProduct = "cross-product"
	NameHypothesisOnly   = "hypothesis-only"
)

// SparseByName resolves a feature function name. Names joined with "+"
// resolve to the Union of their functions.
func SparseByName(name string) (SparsePhi, bool) {
	parts := strings.Split(name, "+")
	phis := make([]SparsePhi, len(parts))
	for i, part := range parts {
		switch strings.TrimSpace(part) {
		case NameWordOverlap:
			phis[i] = WordOverlap
		case NameWordCrossProduct:
			phis[i] = WordCrossProduct
		case NameHypothesisOnly:
			phis[i] = HypothesisOnly
		default:
			return nil, false
		}
	}
	if len(phis) == 1 {
		return phis[0], true
	}
	return Union(phis...), true
}
