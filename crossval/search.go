package crossval

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/neurlang/nli/logger"
	"github.com/neurlang/nli/metrics"
	"github.com/neurlang/nli/parallel"
)

// Dataset is a row collection that can be subset, like *linalg.SparseMatrix,
// *linalg.Dense or vectorize.Slice.
type Dataset[X any] interface {
	Len() int
	Subset(idx []int) X
}

// Model predicts one label per row of X.
type Model[X any] interface {
	Predict(X X) ([]string, error)
}

// FitFunc trains a model with the given hyperparameters.
type FitFunc[X any] func(ctx context.Context, v Values, X X, y []string) (Model[X], error)

// GridSearch scores every grid point by k-fold cross-validation and refits
// the best one on all data.
type GridSearch[X Dataset[X]] struct {
	Grid    ParamGrid
	Folds   int // 0 means 3
	Fit     FitFunc[X]
	Score   func(y, yPred []string) (float64, error) // nil means macro F1
	Seed    int64
	Threads int // concurrent fits, 0 detects
}

// Scores is the cross-validation outcome of one grid point.
type Scores struct {
	Values Values
	Folds  []float64
	Mean   float64
}

// Result is the outcome of a search.
type Result[X any] struct {
	Best      Values
	BestScore float64
	Scores    []Scores
	Model     Model[X]
}

// Run searches the grid over X labelled by y.
func (g *GridSearch[X]) Run(ctx context.Context, data X, y []string) (*Result[X], error) {
	if data.Len() != len(y) {
		return nil, errors.Errorf("crossval: %d rows, %d labels", data.Len(), len(y))
	}
	k := g.Folds
	if k == 0 {
		k = 3
	}
	score := g.Score
	if score == nil {
		score = metrics.MacroF1
	}
	folds, err := StratifiedKFold(y, k, rand.New(rand.NewSource(g.Seed)))
	if err != nil {
		return nil, err
	}
	points := g.Grid.Expand()
	scores := make([]Scores, len(points))
	for p, v := range points {
		scores[p] = Scores{Values: v, Folds: make([]float64, k)}
	}

	start := time.Now()
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallel.Threads(g.Threads))
	for p := range points {
		for f := range folds {
			p, f := p, f
			eg.Go(func() error {
				s, err := g.fold(egctx, points[p], folds[f], data, y, score)
				if err != nil {
					return errors.Wrapf(err, "crossval: %s fold %d", points[p].Format(), f+1)
				}
				scores[p].Folds[f] = s
				logger.Logger.Debugw("fold scored",
					logger.FieldParams, points[p].Format(),
					logger.FieldFold, f+1,
					logger.FieldScore, s)
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &Result[X]{Scores: scores, BestScore: -1}
	for p := range scores {
		var sum float64
		for _, s := range scores[p].Folds {
			sum += s
		}
		scores[p].Mean = sum / float64(k)
		if scores[p].Mean > res.BestScore {
			res.Best, res.BestScore = scores[p].Values, scores[p].Mean
		}
	}
	logger.Logger.Infof("Best params: %s", res.Best.Format())
	logger.Logger.Infof("Best score: %0.03f", res.BestScore)
	logger.Logger.Debugw("grid search done",
		logger.FieldCount, len(points)*k,
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	res.Model, err = g.Fit(ctx, res.Best, data, y)
	if err != nil {
		return nil, errors.Wrapf(err, "crossval: refit %s", res.Best.Format())
	}
	return res, nil
}

func (g *GridSearch[X]) fold(ctx context.Context, v Values, f Fold, data X, y []string,
	score func(y, yPred []string) (float64, error)) (float64, error) {

	model, err := g.Fit(ctx, v, data.Subset(f.Train), pick(y, f.Train))
	if err != nil {
		return 0, err
	}
	pred, err := model.Predict(data.Subset(f.Test))
	if err != nil {
		return 0, err
	}
	return score(pick(y, f.Test), pred)
}

func pick(y []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
