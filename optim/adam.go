// SPDX-License-Identifier: MIT
// Package optim: the Adam optimizer.

package optim

import (
	"math"

	"github.com/katalvlaran/molgan/grad"
)

// AdamOptions parameterizes NewAdam.
type AdamOptions struct {
	// Rate is the learning rate.
	Rate float64
	// Beta1 and Beta2 are the exponential decay rates of the first and
	// second moment estimates, each in [0, 1).
	Beta1, Beta2 float64
	// Epsilon stabilizes the denominator.
	Epsilon float64
}

// DefaultAdamOptions returns the conventional Adam settings.
func DefaultAdamOptions() AdamOptions {
	return AdamOptions{Rate: 1e-3, Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-8}
}

// adamState holds the per-parameter moment buffers.
type adamState struct {
	m, v []float64
}

// Adam implements the Adam update with bias-corrected moment estimates.
// Moment buffers are keyed by parameter identity and allocated lazily on
// first sight.
type Adam struct {
	opts  AdamOptions
	state map[*grad.Value]*adamState
	t     int
}

// NewAdam builds an Adam optimizer from opts.
func NewAdam(opts AdamOptions) (*Adam, error) {
	const tag = "NewAdam"
	if opts.Rate <= 0 {
		return nil, optimErrorf(tag, ErrBadRate)
	}
	if opts.Beta1 < 0 || opts.Beta1 >= 1 || opts.Beta2 < 0 || opts.Beta2 >= 1 || opts.Epsilon <= 0 {
		return nil, optimErrorf(tag, ErrBadOptions)
	}

	return &Adam{opts: opts, state: make(map[*grad.Value]*adamState)}, nil
}

// Step applies one Adam update. The step counter is shared across the
// parameter list, matching one optimizer per network.
// Complexity: O(total parameter count).
func (a *Adam) Step(params, grads []*grad.Value) error {
	const tag = "Adam.Step"
	if err := validatePairs(tag, params, grads); err != nil {
		return err
	}

	a.t++
	c1 := 1 - math.Pow(a.opts.Beta1, float64(a.t))
	c2 := 1 - math.Pow(a.opts.Beta2, float64(a.t))

	for i, p := range params {
		pd := p.Data().Data()
		gd := grads[i].Data().Data()

		st, ok := a.state[p]
		if !ok {
			st = &adamState{m: make([]float64, len(pd)), v: make([]float64, len(pd))}
			a.state[p] = st
		}

		for j := range pd {
			g := gd[j]
			st.m[j] = a.opts.Beta1*st.m[j] + (1-a.opts.Beta1)*g
			st.v[j] = a.opts.Beta2*st.v[j] + (1-a.opts.Beta2)*g*g
			mh := st.m[j] / c1
			vh := st.v[j] / c2
			pd[j] -= a.opts.Rate * mh / (math.Sqrt(vh) + a.opts.Epsilon)
		}
	}

	return nil
}
