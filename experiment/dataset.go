package experiment

import (
	"context"

	"github.com/pkg/errors"

	"github.com/neurlang/nli/datasets/nli"
	"github.com/neurlang/nli/tree"
)

// ExampleReader streams labelled sentence pairs. *nli.Reader implements it.
type ExampleReader interface {
	Read(ctx context.Context, yield func(*nli.Example) error) error
	String() string
}

// Phi maps a premise and hypothesis tree to a feature value.
type Phi[F any] func(premise, hypothesis *tree.Tree) F

// Dataset holds featurized examples with their gold labels.
type Dataset[F any] struct {
	Features []F
	Labels   []string
	Examples []*nli.Example
}

// BuildDataset featurizes every example the reader yields.
func BuildDataset[F any](ctx context.Context, r ExampleReader, phi Phi[F]) (*Dataset[F], error) {
	d := &Dataset[F]{}
	err := r.Read(ctx, func(ex *nli.Example) error {
		d.Features = append(d.Features, phi(ex.Premise, ex.Hypothesis))
		d.Labels = append(d.Labels, ex.GoldLabel)
		d.Examples = append(d.Examples, ex)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(d.Labels) == 0 {
		return nil, errors.Wrap(nli.ErrNoData, r.String())
	}
	return d, nil
}

// Len reports the number of examples.
func (d *Dataset[F]) Len() int {
	return len(d.Labels)
}

// Subset selects examples.
func (d *Dataset[F]) Subset(idx []int) *Dataset[F] {
	out := &Dataset[F]{
		Features: make([]F, len(idx)),
		Labels:   make([]string, len(idx)),
		Examples: make([]*nli.Example, len(idx)),
	}
	for i, j := range idx {
		out.Features[i] = d.Features[j]
		out.Labels[i] = d.Labels[j]
		out.Examples[i] = d.Examples[j]
	}
	return out
}
