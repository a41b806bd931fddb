// Package experiment runs the featurize, vectorize, train and assess cycle
// shared by every NLI model.
package experiment

import (
	"context"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/neurlang/nli/crossval"
	"github.com/neurlang/nli/logger"
	"github.com/neurlang/nli/metrics"
	"github.com/neurlang/nli/vectorize"
)

// Predictor is a trained model.
type Predictor[X any] interface {
	Predict(X X) ([]string, error)
}

// TrainFunc fits a model on vectorized training features.
type TrainFunc[X any] func(ctx context.Context, X X, y []string) (Predictor[X], error)

// Options configures Experiment.
type Options[F, X any] struct {
	Name        string
	TrainReader ExampleReader
	Phi         Phi[F]
	Vectorizer  vectorize.Vectorizer[F, X]
	Train       TrainFunc[X]

	// AssessReader supplies the assessment data. When nil, TrainSize of the
	// training data is used for training and the rest for assessment.
	AssessReader ExampleReader
	TrainSize    float64 // 0 means 0.7
	RandomState  int64

	Score   func(y, yPred []string) (float64, error) // nil means macro F1
	Metric  string                                   // name of Score
	Verbose bool
	Out     io.Writer // report destination, nil means stdout
}

// Result is the outcome of one experiment.
type Result[F, X any] struct {
	RunID       string
	Model       Predictor[X]
	Vectorizer  vectorize.Vectorizer[F, X]
	Train       *Dataset[F]
	Assess      *Dataset[F]
	Predictions []string
	Report      *metrics.Report
	Metric      string
	Score       float64
	Duration    time.Duration
}

// Experiment featurizes the training data with Phi, fits the vectorizer on
// it alone, trains a model and scores it on the assessment data.
func Experiment[F, X any](ctx context.Context, o Options[F, X]) (*Result[F, X], error) {
	if o.TrainReader == nil || o.Phi == nil || o.Vectorizer == nil || o.Train == nil {
		return nil, errors.New("experiment: train reader, phi, vectorizer and train func are required")
	}
	start := time.Now()
	res := &Result[F, X]{RunID: uuid.NewString(), Vectorizer: o.Vectorizer, Metric: o.Metric}
	score := o.Score
	if score == nil {
		score, res.Metric = metrics.MacroF1, "macro_f1"
	}
	log := logger.Logger.With(logger.FieldRunID, res.RunID, logger.FieldExperiment, o.Name)

	train, err := BuildDataset(ctx, o.TrainReader, o.Phi)
	if err != nil {
		return nil, errors.Wrap(err, "experiment: train data")
	}
	if o.AssessReader == nil {
		size := o.TrainSize
		if size == 0 {
			size = 0.7
		}
		trainIdx, testIdx, err := crossval.TrainTestSplit(train.Len(), size, rand.New(rand.NewSource(o.RandomState)))
		if err != nil {
			return nil, err
		}
		res.Train, res.Assess = train.Subset(trainIdx), train.Subset(testIdx)
	} else {
		res.Train = train
		if res.Assess, err = BuildDataset(ctx, o.AssessReader, o.Phi); err != nil {
			return nil, errors.Wrap(err, "experiment: assess data")
		}
	}
	log.Infow("datasets built", "train", res.Train.Len(), "assess", res.Assess.Len())

	Xt, err := o.Vectorizer.FitTransform(res.Train.Features)
	if err != nil {
		return nil, errors.Wrap(err, "experiment: vectorize train")
	}
	if res.Model, err = o.Train(ctx, Xt, res.Train.Labels); err != nil {
		return nil, errors.Wrap(err, "experiment: train")
	}

	Xa, err := o.Vectorizer.Transform(res.Assess.Features)
	if err != nil {
		return nil, errors.Wrap(err, "experiment: vectorize assess")
	}
	if res.Predictions, err = res.Model.Predict(Xa); err != nil {
		return nil, errors.Wrap(err, "experiment: predict")
	}
	if res.Report, err = metrics.NewReport(res.Assess.Labels, res.Predictions); err != nil {
		return nil, err
	}
	if res.Score, err = score(res.Assess.Labels, res.Predictions); err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)

	if o.Verbose {
		out := o.Out
		if out == nil {
			out = os.Stdout
		}
		if err := res.Report.Render(out); err != nil {
			return nil, err
		}
	}
	log.Infow("experiment done",
		logger.FieldMetric, res.Metric,
		logger.FieldScore, res.Score,
		logger.FieldDurationMS, res.Duration.Milliseconds())
	return res, nil
}
