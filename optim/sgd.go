// SPDX-License-Identifier: MIT
// Package optim: the Optimizer interface and plain SGD.

package optim

import (
	"github.com/katalvlaran/molgan/grad"
	"github.com/katalvlaran/molgan/tensor"
)

// Optimizer applies one update step to params given grads of identical
// length and shapes, mutating the parameter tensors in place.
type Optimizer interface {
	Step(params, grads []*grad.Value) error
}

// SGD is stochastic gradient descent: p ← p − rate·g.
type SGD struct {
	rate float64
}

// NewSGD builds an SGD optimizer with the given learning rate.
func NewSGD(rate float64) (*SGD, error) {
	if rate <= 0 {
		return nil, optimErrorf("NewSGD", ErrBadRate)
	}

	return &SGD{rate: rate}, nil
}

// Step applies one descent update.
// Complexity: O(total parameter count).
func (s *SGD) Step(params, grads []*grad.Value) error {
	const tag = "SGD.Step"
	if err := validatePairs(tag, params, grads); err != nil {
		return err
	}

	for i, p := range params {
		pd := p.Data().Data()
		gd := grads[i].Data().Data()
		for j := range pd {
			pd[j] -= s.rate * gd[j]
		}
	}

	return nil
}

// validatePairs checks list lengths, nil entries and shape agreement.
func validatePairs(tag string, params, grads []*grad.Value) error {
	if len(params) != len(grads) {
		return optimErrorf(tag, ErrMismatch)
	}
	for i, p := range params {
		g := grads[i]
		if p == nil || g == nil {
			return optimErrorf(tag, ErrNilParam)
		}
		if err := tensor.ValidateSameShape(p.Data(), g.Data()); err != nil {
			return optimErrorf(tag, ErrMismatch)
		}
	}

	return nil
}
