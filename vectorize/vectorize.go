// Package vectorize turns per-example feature values into the matrices
// classifiers are trained on.
package vectorize

import "github.com/pkg/errors"

// ErrNotFitted is returned by Transform before FitTransform.
var ErrNotFitted = errors.New("vectorize: not fitted")

// Vectorizer learns a representation on training features and applies it
// unchanged to assessment features.
type Vectorizer[F, X any] interface {
	FitTransform(feats []F) (X, error)
	Transform(feats []F) (X, error)
}

// Slice is a row-indexable list of raw feature values.
type Slice[F any] []F

// Len reports the number of rows.
func (s Slice[F]) Len() int { return len(s) }

// Subset selects rows.
func (s Slice[F]) Subset(idx []int) Slice[F] {
	out := make(Slice[F], len(idx))
	for i, r := range idx {
		out[i] = s[r]
	}
	return out
}

// Identity passes raw feature values through. It is used by models that
// consume token sequences directly.
type Identity[F any] struct{}

// FitTransform returns feats as a Slice.
func (Identity[F]) FitTransform(feats []F) (Slice[F], error) { return Slice[F](feats), nil }

// Transform returns feats as a Slice.
func (Identity[F]) Transform(feats []F) (Slice[F], error) { return Slice[F](feats), nil }
