package crossval

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// ErrFolds is returned for a fold count or split size the data cannot support.
var ErrFolds = errors.New("crossval: bad split")

// Fold holds the row indices of one train/test split.
type Fold struct {
	Train, Test []int
}

// StratifiedKFold deals the rows of each label round-robin over k folds, so
// every fold keeps roughly the label proportions of y. Rows of a label are
// shuffled with rng first unless rng is nil.
func StratifiedKFold(y []string, k int, rng *rand.Rand) ([]Fold, error) {
	if k < 2 || k > len(y) {
		return nil, errors.Wrapf(ErrFolds, "%d folds for %d rows", k, len(y))
	}
	byLabel := make(map[string][]int)
	for i, label := range y {
		byLabel[label] = append(byLabel[label], i)
	}
	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	member := make([]int, len(y))
	var dealt int
	for _, label := range labels {
		rows := byLabel[label]
		if rng != nil {
			rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		}
		for _, i := range rows {
			member[i] = dealt % k
			dealt++
		}
	}

	folds := make([]Fold, k)
	for i, f := range member {
		for j := range folds {
			if j == f {
				folds[j].Test = append(folds[j].Test, i)
			} else {
				folds[j].Train = append(folds[j].Train, i)
			}
		}
	}
	return folds, nil
}

// TrainTestSplit shuffles n rows and puts floor(trainSize·n) of them in train.
func TrainTestSplit(n int, trainSize float64, rng *rand.Rand) (train, test []int, err error) {
	if trainSize <= 0 || trainSize >= 1 {
		return nil, nil, errors.Wrapf(ErrFolds, "train size %v not in (0, 1)", trainSize)
	}
	nTrain := int(trainSize * float64(n))
	if nTrain == 0 || nTrain == n {
		return nil, nil, errors.Wrapf(ErrFolds, "train size %v leaves an empty side of %d rows", trainSize, n)
	}
	perm := rng.Perm(n)
	return perm[:nTrain], perm[nTrain:], nil
}
