// SPDX-License-Identifier: MIT
// Package layer: the Activation enum.

package layer

import "github.com/katalvlaran/molgan/grad"

// Activation selects the non-linearity a layer applies to its output.
//
//   - None — identity; critics end in a bare linear unit.
//   - ReLU — rectifier; the RelGraphConv default.
//   - Tanh — bounded; the generator's hidden-stack default.
type Activation int

const (
	None Activation = iota
	ReLU
	Tanh
)

// Apply runs the selected non-linearity over x.
func (a Activation) Apply(x *grad.Value) (*grad.Value, error) {
	switch a {
	case None:
		return x, nil
	case ReLU:
		return grad.ReLU(x)
	case Tanh:
		return grad.Tanh(x)
	default:
		return nil, layerErrorf("Activation.Apply", ErrBadActivation)
	}
}
