package vectorize

import (
	"github.com/jbarham/primegen"

	"github.com/neurlang/nli/features"
	"github.com/neurlang/nli/hash"
	"github.com/neurlang/nli/linalg"
)

// Hashing folds feature names into a fixed number of columns without
// remembering them. The column count is the smallest prime not below the
// requested size, which keeps the modular reduction well spread.
type Hashing struct {
	Buckets uint32
	Salt    uint32
}

// NewHashing creates a hasher with at least size columns.
func NewHashing(size int, salt uint32) *Hashing {
	return &Hashing{Buckets: NextPrime(size), Salt: salt}
}

// NextPrime returns the smallest prime >= n, or 2 when n < 2.
func NextPrime(n int) uint32 {
	if n < 2 {
		n = 2
	}
	p := primegen.New()
	p.SkipTo(uint64(n))
	return uint32(p.Next())
}

// FitTransform is Transform: hashing has nothing to learn.
func (h *Hashing) FitTransform(feats []features.Counter) (*linalg.SparseMatrix, error) {
	return h.Transform(feats)
}

// Transform encodes feats. Colliding names add up, with alternating signs.
func (h *Hashing) Transform(feats []features.Counter) (*linalg.SparseMatrix, error) {
	m := &linalg.SparseMatrix{Rows: make([]linalg.Sparse, len(feats)), Cols: int(h.Buckets)}
	for i, f := range feats {
		row := make(map[int]float64, len(f))
		for k, v := range f {
			col, neg := hash.Feature(k, h.Salt, h.Buckets)
			if neg {
				v = -v
			}
			row[int(col)] += v
		}
		m.Rows[i] = linalg.NewSparse(row)
	}
	return m, nil
}
