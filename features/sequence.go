package features

import "github.com/neurlang/nli/tree"

// Pair keeps premise and hypothesis tokens apart for sentence-encoding models.
type Pair struct {
	Premise    []string
	Hypothesis []string
}

// SentenceEncoding returns the two leaf sequences separately.
func SentenceEncoding(premise, hypothesis *tree.Tree) Pair {
	return Pair{Premise: premise.Leaves(), Hypothesis: hypothesis.Leaves()}
}

// Chained returns the premise leaves followed by the hypothesis leaves, to be
// read by a single recurrent network.
func Chained(premise, hypothesis *tree.Tree) []string {
	return append(premise.Leaves(), hypothesis.Leaves()...)
}
