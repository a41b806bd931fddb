package features

import (
	"strconv"
	"strings"

	"github.com/neurlang/NumToWordsGo/NumToWords"

	"github.com/neurlang/nli/tree"
)

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NumberWords returns a copy of t in which every all-digit leaf is spelled
// out in lower case English words, so "2" becomes "two". A number that
// spells as several words becomes a node with one leaf per word.
func NumberWords(t *tree.Tree) *tree.Tree {
	if t == nil {
		return nil
	}
	if t.IsLeaf() {
		return numberLeaf(t)
	}
	out := &tree.Tree{Label: t.Label, Word: t.Word, Children: make([]*tree.Tree, len(t.Children))}
	for i, c := range t.Children {
		out.Children[i] = NumberWords(c)
	}
	return out
}

func numberLeaf(t *tree.Tree) *tree.Tree {
	leaf := &tree.Tree{Label: t.Label, Word: t.Word}
	if !isAllDigits(t.Word) {
		return leaf
	}
	num, err := strconv.Atoi(t.Word)
	if err != nil {
		return leaf
	}
	sentence, err := NumToWords.Convert(num, "en")
	if err != nil {
		return leaf
	}
	fields := strings.Fields(strings.ToLower(sentence))
	switch len(fields) {
	case 0:
		return leaf
	case 1:
		leaf.Word = fields[0]
		return leaf
	}
	node := &tree.Tree{Label: t.Label}
	for _, w := range fields {
		node.Children = append(node.Children, &tree.Tree{Word: w})
	}
	return node
}

// WithNumberWords makes phi see both trees with numbers spelled out.
func WithNumberWords(phi SparsePhi) SparsePhi {
	return func(premise, hypothesis *tree.Tree) Counter {
		return phi(NumberWords(premise), NumberWords(hypothesis))
	}
}
