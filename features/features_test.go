package features

import (
	"testing"

	"github.com/neurlang/nli/embedding"
	"github.com/neurlang/nli/tree"
	"github.com/stretchr/testify/assert"
)

var (
	premise    = tree.MustParse("( ( A dog ) ( chases ( a dog ) ) )")
	hypothesis = tree.MustParse("( ( A cat ) ( chases dog ) )")
)

func TestWordOverlap(t *testing.T) {
	assert.Equal(t, Counter{"A": 1, "chases": 1, "dog": 1}, WordOverlap(premise, hypothesis))
	assert.Empty(t, WordOverlap(tree.MustParse("( a )"), tree.MustParse("( b )")))
}

func TestWordCrossProduct(t *testing.T) {
	got := WordCrossProduct(tree.MustParse("( a b a )"), tree.MustParse("( a c )"))
	assert.Equal(t, Counter{"a|a": 2, "a|c": 2, "b|a": 1, "b|c": 1}, got)
}

func TestHypothesisOnly(t *testing.T) {
	assert.Equal(t, Counter{"A": 1, "cat": 1, "chases": 1, "dog": 1}, HypothesisOnly(nil, hypothesis))
}

func TestUnion(t *testing.T) {
	phi := Union(WordOverlap, HypothesisOnly)
	got := phi(tree.MustParse("( x y )"), tree.MustParse("( y )"))
	assert.Equal(t, Counter{"a:y": 1, "b:y": 1}, got)
}

func TestSparseByName(t *testing.T) {
	p, h := tree.MustParse("( x y )"), tree.MustParse("( y )")

	phi, ok := SparseByName(NameWordCrossProduct)
	assert.True(t, ok)
	assert.Equal(t, Counter{"x|y": 1, "y|y": 1}, phi(p, h))

	phi, ok = SparseByName("overlap + hypothesis-only")
	assert.True(t, ok)
	assert.Equal(t, Counter{"a:y": 1, "b:y": 1}, phi(p, h))

	_, ok = SparseByName("overlap+bigrams")
	assert.False(t, ok)
}

func TestNumberWords(t *testing.T) {
	p := tree.MustParse("( ( 2 men ) sleep )")
	h := tree.MustParse("( ( two men ) sleep )")

	assert.Equal(t, Counter{"men": 1, "sleep": 1}, WordOverlap(p, h))
	assert.Equal(t, Counter{"two": 1, "men": 1, "sleep": 1}, WithNumberWords(WordOverlap)(p, h))
	assert.Equal(t, []string{"2", "men", "sleep"}, p.Leaves(), "input tree is not modified")

	leaves := NumberWords(tree.MustParse("( 21 dogs )")).Leaves()
	assert.NotContains(t, leaves, "21")
	assert.Equal(t, "dogs", leaves[len(leaves)-1])

	assert.Equal(t, []string{"B52", "x"}, NumberWords(tree.MustParse("( B52 x )")).Leaves())
}

func TestGloveLeaves(t *testing.T) {
	lookup := embedding.Lookup{
		"dog": {1, 0},
		"cat": {0, 1},
		"A":   {2, 2},
	}
	sum := GloveLeaves(lookup, Sum)(premise, hypothesis)
	// premise: A + dog + dog, hypothesis: A + cat + dog
	assert.Equal(t, []float64{4, 2, 3, 3}, sum)

	mean := GloveLeaves(lookup, Mean)(premise, hypothesis)
	assert.InDeltaSlice(t, []float64{4.0 / 3, 2.0 / 3, 1, 1}, mean, 1e-12)

	unknown := GloveLeaves(lookup, Sum)(tree.MustParse("( zz )"), hypothesis)
	assert.Equal(t, []float64{0, 0, 3, 3}, unknown)
}

func TestCombineByName(t *testing.T) {
	_, ok := CombineByName("sum")
	assert.True(t, ok)
	_, ok = CombineByName("mean")
	assert.True(t, ok)
	_, ok = CombineByName("max")
	assert.False(t, ok)
}

func TestSequences(t *testing.T) {
	p := SentenceEncoding(premise, hypothesis)
	assert.Equal(t, []string{"A", "dog", "chases", "a", "dog"}, p.Premise)
	assert.Equal(t, []string{"A", "cat", "chases", "dog"}, p.Hypothesis)
	assert.Equal(t, append(p.Premise, p.Hypothesis...), Chained(premise, hypothesis))
}
