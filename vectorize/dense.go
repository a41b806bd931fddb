package vectorize

import "github.com/neurlang/nli/linalg"

// Dense stacks fixed-width feature vectors into a matrix and remembers the
// width so that assessment vectors of another width are rejected.
type Dense struct {
	width int
}

// FitTransform stacks feats.
func (d *Dense) FitTransform(feats [][]float64) (*linalg.Dense, error) {
	m, err := linalg.DenseFromRows(feats)
	if err != nil {
		return nil, err
	}
	d.width = m.Cols
	return m, nil
}

// Transform stacks feats, checking the fitted width.
func (d *Dense) Transform(feats [][]float64) (*linalg.Dense, error) {
	m, err := linalg.DenseFromRows(feats)
	if err != nil {
		return nil, err
	}
	if len(feats) > 0 && m.Cols != d.width {
		return nil, linalg.ErrShape
	}
	return m, nil
}
