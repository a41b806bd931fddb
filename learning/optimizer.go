package learning

import "math"

// Param is a trainable weight vector with its gradient accumulator.
type Param struct {
	Name string
	W    []float64
	G    []float64
}

// NewParam allocates a zero parameter of size n.
func NewParam(name string, n int) *Param {
	return &Param{Name: name, W: make([]float64, n), G: make([]float64, n)}
}

// ZeroGrad clears the gradients of params.
func ZeroGrad(params []*Param) {
	for _, p := range params {
		for i := range p.G {
			p.G[i] = 0
		}
	}
}

// Optimizer updates parameters from their gradients.
type Optimizer interface {
	Step(params []*Param)
}

// SGD is plain stochastic gradient descent with weight decay.
type SGD struct {
	eta, l2 float64
}

// NewSGD creates an SGD optimizer.
func NewSGD(eta, l2 float64) *SGD {
	return &SGD{eta: eta, l2: l2}
}

// Step applies w -= eta·(g + l2·w).
func (o *SGD) Step(params []*Param) {
	for _, p := range params {
		for i := range p.W {
			p.W[i] -= o.eta * (p.G[i] + o.l2*p.W[i])
		}
	}
}

// AdaGrad scales each coordinate by the root of its accumulated squared gradients.
type AdaGrad struct {
	eta, l2 float64
	acc     [][]float64
}

// NewAdaGrad creates an AdaGrad optimizer for params.
func NewAdaGrad(params []*Param, eta, l2 float64) *AdaGrad {
	o := &AdaGrad{eta: eta, l2: l2, acc: make([][]float64, len(params))}
	for i, p := range params {
		o.acc[i] = make([]float64, len(p.W))
	}
	return o
}

// Step performs one AdaGrad update.
func (o *AdaGrad) Step(params []*Param) {
	for k, p := range params {
		acc := o.acc[k]
		for i := range p.W {
			g := p.G[i] + o.l2*p.W[i]
			if g == 0 {
				continue
			}
			acc[i] += g * g
			p.W[i] -= o.eta * g / (math.Sqrt(acc[i]) + 1e-8)
		}
	}
}

// Rate returns the effective step size of coordinate i of parameter k.
func (o *AdaGrad) Rate(k, i int) float64 {
	return o.eta / (math.Sqrt(o.acc[k][i]) + 1e-8)
}

// Adam keeps bias-corrected moving averages of the gradient and its square.
//
//	m = β1·m + (1-β1)·g
//	v = β2·v + (1-β2)·g²
//	w -= η·m̂ / (√v̂ + ε)
type Adam struct {
	eta, beta1, beta2, epsilon, l2 float64

	m, v [][]float64
	t    int
}

// NewAdam creates an Adam optimizer for params.
func NewAdam(params []*Param, eta, beta1, beta2, epsilon, l2 float64) *Adam {
	o := &Adam{eta: eta, beta1: beta1, beta2: beta2, epsilon: epsilon, l2: l2,
		m: make([][]float64, len(params)), v: make([][]float64, len(params))}
	for i, p := range params {
		o.m[i] = make([]float64, len(p.W))
		o.v[i] = make([]float64, len(p.W))
	}
	return o
}

// Step performs one Adam update.
func (o *Adam) Step(params []*Param) {
	o.t++
	bias1 := 1 - math.Pow(o.beta1, float64(o.t))
	bias2 := 1 - math.Pow(o.beta2, float64(o.t))
	for k, p := range params {
		m, v := o.m[k], o.v[k]
		for i := range p.W {
			g := p.G[i] + o.l2*p.W[i]
			m[i] = o.beta1*m[i] + (1-o.beta1)*g
			v[i] = o.beta2*v[i] + (1-o.beta2)*g*g
			p.W[i] -= o.eta * (m[i] / bias1) / (math.Sqrt(v[i]/bias2) + o.epsilon)
		}
	}
}

// ClipGradients rescales all gradients when their global norm exceeds maxNorm.
// It returns the norm before clipping.
func ClipGradients(params []*Param, maxNorm float64) float64 {
	var sq float64
	for _, p := range params {
		for _, g := range p.G {
			sq += g * g
		}
	}
	norm := math.Sqrt(sq)
	if maxNorm > 0 && norm > maxNorm {
		scale := maxNorm / norm
		for _, p := range params {
			for i := range p.G {
				p.G[i] *= scale
			}
		}
	}
	return norm
}
