package recipes

import (
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/neurlang/nli/datasets/nli"
	"github.com/neurlang/nli/experiment"
	"github.com/neurlang/nli/features"
	"github.com/neurlang/nli/linalg"
	"github.com/neurlang/nli/metrics"
	"github.com/neurlang/nli/vectorize"
)

// Recipe names.
const (
	Overlap        = "overlap"
	CrossProduct   = "cross-product"
	HypothesisOnly = "hypothesis-only"
	Sparse         = "sparse"
	GloVe        = "glove"
	Shallow      = "shallow"
	SentenceRNN  = "sentence-rnn"
	ChainedRNN   = "chained-rnn"
)

// Assessment sources.
const (
	AssessSplit              = "split"
	AssessSNLIDev            = "snli-dev"
	AssessSNLITest           = "snli-test"
	AssessMultiNLIMatched    = "multinli-matched"
	AssessMultiNLIMismatched = "multinli-mismatched"
)

// ErrUnknown is returned for an unknown recipe, corpus or combiner name.
var ErrUnknown = errors.New("recipes: unknown name")

// Readers resolves a training corpus, "snli" or "multinli", and an
// assessment source. The assessment reader is nil for "split".
func (f *Fitter) Readers(train, assess string) (experiment.ExampleReader, experiment.ExampleReader, error) {
	cfg := f.Config
	trainOpts := []nli.Option{
		nli.WithSampPercentage(cfg.Experiment.TrainSampPercentage),
		nli.WithRandomState(cfg.Experiment.RandomState),
	}
	assessOpts := []nli.Option{
		nli.WithSampPercentage(cfg.Experiment.AssessSampPercentage),
		nli.WithRandomState(cfg.Experiment.RandomState),
	}

	var tr experiment.ExampleReader
	switch train {
	case "snli":
		tr = nli.SNLITrainReader(cfg.Data.SNLIHome, trainOpts...)
	case "multinli":
		tr = nli.MultiNLITrainReader(cfg.Data.MultiNLIHome, trainOpts...)
	default:
		return nil, nil, errors.Wrapf(ErrUnknown, "train corpus %q", train)
	}

	switch assess {
	case AssessSplit, "":
		return tr, nil, nil
	case AssessSNLIDev:
		return tr, nli.SNLIDevReader(cfg.Data.SNLIHome, assessOpts...), nil
	case AssessSNLITest:
		return tr, nli.SNLITestReader(cfg.Data.SNLIHome, assessOpts...), nil
	case AssessMultiNLIMatched:
		return tr, nli.MultiNLIMatchedDevReader(cfg.Data.MultiNLIHome, assessOpts...), nil
	case AssessMultiNLIMismatched:
		return tr, nli.MultiNLIMismatchedDevReader(cfg.Data.MultiNLIHome, assessOpts...), nil
	}
	return nil, nil, errors.Wrapf(ErrUnknown, "assessment %q", assess)
}

// Outcome summarizes one experiment and carries what is needed to save it.
type Outcome struct {
	Recipe   string
	RunID    string
	Metric   string
	Score    float64
	Report   *metrics.Report
	Artifact *Artifact
}

// Run describes one experiment invocation. Out receives the report and may be nil.
type Run struct {
	Train, Assess experiment.ExampleReader
	Out           io.Writer

	Hashing     int    // sparse recipes: hashed columns, 0 uses a dictionary
	NumberWords bool   // sparse recipes: spell out digit tokens
	Phi         string // sparse: feature function names joined by "+"
	Combine     string // glove and shallow: "sum" or "mean"
}

func options[F, X any](f *Fitter, name string, r Run, phi experiment.Phi[F], vec vectorize.Vectorizer[F, X], fit experiment.TrainFunc[X]) experiment.Options[F, X] {
	return experiment.Options[F, X]{
		Name:         name,
		TrainReader:  r.Train,
		AssessReader: r.Assess,
		Phi:          phi,
		Vectorizer:   vec,
		Train:        fit,
		TrainSize:    f.Config.Experiment.TrainSize,
		RandomState:  f.Config.Experiment.RandomState,
		Verbose:      r.Out != nil,
		Out:          r.Out,
	}
}

func outcome[F, X any](name string, res *experiment.Result[F, X], a *Artifact, model interface{}) (*Outcome, error) {
	raw, err := json.Marshal(model)
	if err != nil {
		return nil, errors.Wrap(err, "encode model")
	}
	a.Recipe, a.Model = name, raw
	return &Outcome{Recipe: name, RunID: res.RunID, Metric: res.Metric, Score: res.Score, Report: res.Report, Artifact: a}, nil
}

func sparsePhi(name string, numberWords bool) (experiment.Phi[features.Counter], error) {
	phi, ok := features.SparseByName(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknown, "feature function %q", name)
	}
	if numberWords {
		phi = features.WithNumberWords(phi)
	}
	return experiment.Phi[features.Counter](phi), nil
}

// runSparse fits a cross-validated logistic regression on the sparse
// features named by phiName, through the hashing vectorizer when r.Hashing
// is set.
func (f *Fitter) runSparse(ctx context.Context, recipe, phiName string, r Run) (*Outcome, error) {
	phi, err := sparsePhi(phiName, r.NumberWords)
	if err != nil {
		return nil, err
	}
	a := Artifact{Phi: phiName, NumberWords: r.NumberWords}
	var vec vectorize.Vectorizer[features.Counter, *linalg.SparseMatrix]
	dict := vectorize.NewDict()
	if r.Hashing > 0 {
		a.Hashing = vectorize.NewHashing(r.Hashing, uint32(f.Config.Experiment.RandomState))
		vec = a.Hashing
	} else {
		vec = dict
	}
	res, err := experiment.Experiment(ctx, options[features.Counter, *linalg.SparseMatrix](
		f, recipe, r, phi, vec, f.FitSoftmaxWithCrossValidation))
	if err != nil {
		return nil, err
	}
	if r.Hashing == 0 {
		a.Features = dict.FeatureNames()
	}
	return outcome(recipe, res, &a, res.Model)
}

// RunOverlap is word-overlap features with cross-validated logistic regression.
func (f *Fitter) RunOverlap(ctx context.Context, r Run) (*Outcome, error) {
	return f.runSparse(ctx, Overlap, features.NameWordOverlap, r)
}

// RunCrossProduct is word-cross-product features with cross-validated
// logistic regression.
func (f *Fitter) RunCrossProduct(ctx context.Context, r Run) (*Outcome, error) {
	return f.runSparse(ctx, CrossProduct, features.NameWordCrossProduct, r)
}

// RunHypothesisOnly is the hypothesis-only baseline, which never looks at
// the premise.
func (f *Fitter) RunHypothesisOnly(ctx context.Context, r Run) (*Outcome, error) {
	return f.runSparse(ctx, HypothesisOnly, features.NameHypothesisOnly, r)
}

// RunSparse is logistic regression over the union of the sparse feature
// functions named by r.Phi, for example "overlap+hypothesis-only".
func (f *Fitter) RunSparse(ctx context.Context, r Run) (*Outcome, error) {
	return f.runSparse(ctx, Sparse, r.Phi, r)
}

func (f *Fitter) glovePhi(combine string) (experiment.Phi[[]float64], error) {
	comb, ok := features.CombineByName(combine)
	if !ok {
		return nil, errors.Wrapf(ErrUnknown, "combiner %q", combine)
	}
	lookup, err := f.GloVe()
	if err != nil {
		return nil, err
	}
	return experiment.Phi[[]float64](features.GloveLeaves(lookup, comb)), nil
}

// RunGloVe is GloVe leaves features with cross-validated logistic regression.
func (f *Fitter) RunGloVe(ctx context.Context, r Run) (*Outcome, error) {
	phi, err := f.glovePhi(r.Combine)
	if err != nil {
		return nil, err
	}
	res, err := experiment.Experiment(ctx, options[[]float64, *linalg.Dense](
		f, GloVe, r, phi, &vectorize.Dense{}, f.FitSoftmaxOnDense))
	if err != nil {
		return nil, err
	}
	return outcome(GloVe, res, &Artifact{Combine: r.Combine, GloVeDim: f.Config.Data.GloVeDim}, res.Model.(DenseSoftmax).Model)
}

// RunShallow is GloVe leaves features with a cross-validated shallow network.
func (f *Fitter) RunShallow(ctx context.Context, r Run) (*Outcome, error) {
	phi, err := f.glovePhi(r.Combine)
	if err != nil {
		return nil, err
	}
	res, err := experiment.Experiment(ctx, options[[]float64, *linalg.Dense](
		f, Shallow, r, phi, &vectorize.Dense{}, f.FitShallowNeuralClassifierWithCrossValidation))
	if err != nil {
		return nil, err
	}
	return outcome(Shallow, res, &Artifact{Combine: r.Combine, GloVeDim: f.Config.Data.GloVeDim}, res.Model)
}

// RunSentenceRNN is the sentence-encoding LSTM on the raw leaves.
func (f *Fitter) RunSentenceRNN(ctx context.Context, r Run) (*Outcome, error) {
	res, err := experiment.Experiment(ctx, options[features.Pair, vectorize.Slice[features.Pair]](
		f, SentenceRNN, r, features.SentenceEncoding, vectorize.Identity[features.Pair]{}, f.FitSimpleSentenceEncodingRNN))
	if err != nil {
		return nil, err
	}
	return outcome(SentenceRNN, res, &Artifact{}, res.Model.(SentenceRNNModel).SentenceEncodingClassifier)
}

// RunChainedRNN is the chained LSTM on the concatenated leaves.
func (f *Fitter) RunChainedRNN(ctx context.Context, r Run) (*Outcome, error) {
	res, err := experiment.Experiment(ctx, options[[]string, vectorize.Slice[[]string]](
		f, ChainedRNN, r, features.Chained, vectorize.Identity[[]string]{}, f.FitSimpleChainedRNN))
	if err != nil {
		return nil, err
	}
	return outcome(ChainedRNN, res, &Artifact{}, res.Model.(ChainedRNNModel).Classifier)
}
