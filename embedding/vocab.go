package embedding

import (
	"math/rand"
	"sort"
)

// Unknown stands in for every word outside a vocabulary.
const Unknown = "$UNK"

// Vocab counts the tokens of all sequences and keeps the nWords most
// frequent ones, or all of them when nWords <= 0. Count ties are broken
// alphabetically. Unknown is always added. The result is sorted.
func Vocab(sequences [][]string, nWords int) []string {
	counts := make(map[string]int)
	for _, seq := range sequences {
		for _, w := range seq {
			counts[w]++
		}
	}
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	if nWords > 0 && nWords < len(words) {
		sort.Slice(words, func(i, j int) bool {
			if counts[words[i]] != counts[words[j]] {
				return counts[words[i]] > counts[words[j]]
			}
			return words[i] < words[j]
		})
		words = words[:nWords]
	}
	if !contains(words, Unknown) {
		words = append(words, Unknown)
	}
	sort.Strings(words)
	return words
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

// Index maps each vocabulary word to its row.
func Index(vocab []string) map[string]int {
	idx := make(map[string]int, len(vocab))
	for i, w := range vocab {
		idx[w] = i
	}
	return idx
}

// Pretrained builds an embedding matrix aligned with vocab. Words missing
// from lookup get a random vector in [-0.5, 0.5).
func Pretrained(lookup Lookup, vocab []string, rng *rand.Rand) [][]float64 {
	dim := lookup.Dim()
	out := make([][]float64, len(vocab))
	for i, w := range vocab {
		if v, ok := lookup[w]; ok {
			out[i] = append([]float64(nil), v...)
			continue
		}
		out[i] = RandVec(rng, dim, -0.5, 0.5)
	}
	return out
}
