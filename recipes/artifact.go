package recipes

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/neurlang/nli/features"
	"github.com/neurlang/nli/learning/logistic"
	"github.com/neurlang/nli/linalg"
	"github.com/neurlang/nli/net/rnn"
	"github.com/neurlang/nli/net/shallow"
	"github.com/neurlang/nli/persist"
	"github.com/neurlang/nli/tree"
	"github.com/neurlang/nli/vectorize"
)

const kindPrefix = "nli/"

// Artifact is a saved experiment: the recipe, the fitted vectorizer state
// and the model weights.
type Artifact struct {
	Recipe      string             `json:"recipe"`
	Phi         string             `json:"phi,omitempty"`
	NumberWords bool               `json:"number_words,omitempty"`
	Features    []string           `json:"features,omitempty"`
	Hashing     *vectorize.Hashing `json:"hashing,omitempty"`
	Combine     string             `json:"combine,omitempty"`
	GloVeDim    int                `json:"glove_dim,omitempty"`
	Model       json.RawMessage    `json:"model"`
}

// Kind is the persist kind of the artifact.
func (a *Artifact) Kind() string {
	return kindPrefix + a.Recipe
}

// Save writes the artifact as lzw-compressed JSON.
func (a *Artifact) Save(path, runID string) error {
	return persist.WriteFile(path, a.Kind(), runID, a)
}

// LoadArtifact reads an artifact saved by Save.
func LoadArtifact(path string) (*Artifact, persist.Header, error) {
	h, err := persist.Peek(path)
	if err != nil {
		return nil, h, err
	}
	if !strings.HasPrefix(h.Kind, kindPrefix) {
		return nil, h, errors.Wrapf(persist.ErrKind, "%s holds %q", path, h.Kind)
	}
	var a Artifact
	if _, err := persist.ReadFile(path, h.Kind, &a); err != nil {
		return nil, h, err
	}
	return &a, h, nil
}

// Classifier returns a function labelling one premise and hypothesis pair
// with the saved model.
func (f *Fitter) Classifier(a *Artifact) (func(premise, hypothesis *tree.Tree) (string, error), error) {
	one := func(labels []string, err error) (string, error) {
		if err != nil {
			return "", err
		}
		return labels[0], nil
	}
	decode := func(v interface{}) error {
		return errors.Wrapf(json.Unmarshal(a.Model, v), "decode %s model", a.Recipe)
	}

	switch a.Recipe {
	case Overlap, CrossProduct, HypothesisOnly, Sparse:
		phi, err := sparsePhi(a.Phi, a.NumberWords)
		if err != nil {
			return nil, err
		}
		var vec vectorize.Vectorizer[features.Counter, *linalg.SparseMatrix]
		if a.Hashing != nil {
			vec = a.Hashing
		} else {
			dict := vectorize.NewDict()
			dict.Restore(a.Features)
			vec = dict
		}
		var c logistic.Classifier
		if err := decode(&c); err != nil {
			return nil, err
		}
		return func(p, h *tree.Tree) (string, error) {
			X, err := vec.Transform([]features.Counter{phi(p, h)})
			if err != nil {
				return "", err
			}
			return one(c.Predict(X))
		}, nil

	case GloVe, Shallow:
		if a.GloVeDim != f.Config.Data.GloVeDim {
			return nil, errors.Errorf("model was trained on %dd GloVe vectors, configured %dd", a.GloVeDim, f.Config.Data.GloVeDim)
		}
		phi, err := f.glovePhi(a.Combine)
		if err != nil {
			return nil, err
		}
		var predict func(X *linalg.Dense) ([]string, error)
		if a.Recipe == GloVe {
			var c logistic.Classifier
			if err := decode(&c); err != nil {
				return nil, err
			}
			predict = DenseSoftmax{Model: &c}.Predict
		} else {
			var c shallow.Classifier
			if err := decode(&c); err != nil {
				return nil, err
			}
			predict = c.Predict
		}
		return func(p, h *tree.Tree) (string, error) {
			X, err := linalg.DenseFromRows([][]float64{phi(p, h)})
			if err != nil {
				return "", err
			}
			return one(predict(X))
		}, nil

	case SentenceRNN:
		var c rnn.SentenceEncodingClassifier
		if err := decode(&c); err != nil {
			return nil, err
		}
		return func(p, h *tree.Tree) (string, error) {
			return one(c.Predict([]features.Pair{features.SentenceEncoding(p, h)}))
		}, nil

	case ChainedRNN:
		var c rnn.Classifier
		if err := decode(&c); err != nil {
			return nil, err
		}
		return func(p, h *tree.Tree) (string, error) {
			return one(c.Predict([][]string{features.Chained(p, h)}))
		}, nil
	}
	return nil, errors.Wrapf(ErrUnknown, "recipe %q", a.Recipe)
}
