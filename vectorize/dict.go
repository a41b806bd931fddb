package vectorize

import (
	"sort"

	"github.com/neurlang/nli/features"
	"github.com/neurlang/nli/linalg"
)

// Dict assigns one column per feature name seen during fitting, in sorted
// name order. Names unseen at fit time are ignored by Transform.
type Dict struct {
	names []string
	index map[string]int
}

// NewDict creates an unfitted Dict.
func NewDict() *Dict {
	return &Dict{}
}

// FitTransform learns the column layout from feats and encodes them.
func (d *Dict) FitTransform(feats []features.Counter) (*linalg.SparseMatrix, error) {
	seen := make(map[string]struct{})
	for _, f := range feats {
		for k := range f {
			seen[k] = struct{}{}
		}
	}
	d.names = make([]string, 0, len(seen))
	for k := range seen {
		d.names = append(d.names, k)
	}
	sort.Strings(d.names)
	d.index = make(map[string]int, len(d.names))
	for i, k := range d.names {
		d.index[k] = i
	}
	return d.Transform(feats)
}

// Transform encodes feats with the fitted layout.
func (d *Dict) Transform(feats []features.Counter) (*linalg.SparseMatrix, error) {
	if d.index == nil {
		return nil, ErrNotFitted
	}
	m := &linalg.SparseMatrix{Rows: make([]linalg.Sparse, len(feats)), Cols: len(d.names)}
	for i, f := range feats {
		row := make(map[int]float64, len(f))
		for k, v := range f {
			if j, ok := d.index[k]; ok {
				row[j] = v
			}
		}
		m.Rows[i] = linalg.NewSparse(row)
	}
	return m, nil
}

// FeatureNames returns the fitted column names.
func (d *Dict) FeatureNames() []string {
	return d.names
}

// Restore installs a previously fitted layout, as read from a saved model.
func (d *Dict) Restore(names []string) {
	d.names = append([]string(nil), names...)
	d.index = make(map[string]int, len(names))
	for i, k := range d.names {
		d.index[k] = i
	}
}
