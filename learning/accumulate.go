package learning

import "github.com/neurlang/nli/parallel"

// Accumulator computes mini-batch gradients in parallel. Each worker writes
// into its own shadow gradients, which share weights with the real
// parameters and are summed into them once the batch is done.
type Accumulator struct {
	params  []*Param
	shadows [][]*Param
}

// NewAccumulator prepares shadows for up to threads workers, 0 detects.
func NewAccumulator(params []*Param, threads int) *Accumulator {
	a := &Accumulator{params: params, shadows: make([][]*Param, parallel.Threads(threads))}
	for c := range a.shadows {
		a.shadows[c] = make([]*Param, len(params))
		for k, p := range params {
			a.shadows[c][k] = &Param{Name: p.Name, W: p.W, G: make([]float64, len(p.G))}
		}
	}
	return a
}

// Run calls example for every index in idx and sets the gradient of params to
// the mean of the per-example gradients. It returns the summed loss.
func (a *Accumulator) Run(idx []int, example func(grads []*Param, i int) float64) float64 {
	ZeroGrad(a.params)
	if len(idx) == 0 {
		return 0
	}
	losses := make([]float64, len(a.shadows))
	used := make([]bool, len(a.shadows))
	parallel.ForChunks(len(idx), len(a.shadows), func(c, from, to int) {
		used[c] = true
		ZeroGrad(a.shadows[c])
		for _, i := range idx[from:to] {
			losses[c] += example(a.shadows[c], i)
		}
	})
	scale := 1 / float64(len(idx))
	var loss float64
	for c, shadow := range a.shadows {
		if !used[c] {
			continue
		}
		loss += losses[c]
		for k, p := range a.params {
			g := shadow[k].G
			for j := range p.G {
				p.G[j] += scale * g[j]
			}
		}
	}
	return loss
}
