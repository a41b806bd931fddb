package learning

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrNotFitted is returned when a classifier is used before Fit.
var ErrNotFitted = errors.New("learning: classifier not fitted")

// ErrClasses is returned when the training labels hold fewer than two classes.
var ErrClasses = errors.New("learning: need at least two classes")

// Classes returns the sorted distinct labels of y and the index of each.
func Classes(y []string) ([]string, map[string]int, error) {
	seen := make(map[string]int)
	var classes []string
	for _, label := range y {
		if _, ok := seen[label]; !ok {
			seen[label] = 0
			classes = append(classes, label)
		}
	}
	if len(classes) < 2 {
		return nil, nil, errors.Wrapf(ErrClasses, "got %d", len(classes))
	}
	sort.Strings(classes)
	for i, c := range classes {
		seen[c] = i
	}
	return classes, seen, nil
}

// Encode maps labels to class indices.
func Encode(y []string, index map[string]int) []int {
	out := make([]int, len(y))
	for i, label := range y {
		out[i] = index[label]
	}
	return out
}

// Decode maps the argmax of each probability row back to its label.
func Decode(probs [][]float64, classes []string) []string {
	out := make([]string, len(probs))
	for i, p := range probs {
		best := 0
		for k := range p {
			if p[k] > p[best] {
				best = k
			}
		}
		out[i] = classes[best]
	}
	return out
}
