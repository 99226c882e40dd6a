// SPDX-License-Identifier: MIT
// Package layer: the fully-connected Dense layer.

package layer

import (
	"math/rand"

	"github.com/katalvlaran/molgan/grad"
)

// Dense is an affine map x@W + b followed by an activation.
//
// W has shape (in, out) and b shape (out); the bias is broadcast over
// the leading rows of the input. Inputs may be rank 2 (rows, in) or
// rank 3 (batch, rows, in) — the latter reuses W across the batch.
type Dense struct {
	w   *grad.Value
	b   *grad.Value
	act Activation
	out int
}

// NewDense builds a Dense layer with Glorot-uniform weights and a zero
// bias drawn from rng.
func NewDense(in, out int, act Activation, rng *rand.Rand) (*Dense, error) {
	const tag = "NewDense"
	if in <= 0 || out <= 0 {
		return nil, layerErrorf(tag, ErrBadDims)
	}

	w, err := NewWeights(GlorotUniform, rng, []int{in, out}, in, out)
	if err != nil {
		return nil, layerErrorf(tag, err)
	}
	b, err := NewWeights(Zeros, nil, []int{out}, 0, 0)
	if err != nil {
		return nil, layerErrorf(tag, err)
	}

	return &Dense{w: w, b: b, act: act, out: out}, nil
}

// Forward computes act(x@W + b).
// Complexity: O(rows·in·out) per example.
func (d *Dense) Forward(x *grad.Value) (*grad.Value, error) {
	const tag = "Dense.Forward"

	h, err := grad.MatMul(x, d.w)
	if err != nil {
		return nil, layerErrorf(tag, err)
	}
	bb, err := grad.Expand(d.b, h.Shape()...)
	if err != nil {
		return nil, layerErrorf(tag, err)
	}
	h, err = grad.Add(h, bb)
	if err != nil {
		return nil, layerErrorf(tag, err)
	}
	out, err := d.act.Apply(h)
	if err != nil {
		return nil, layerErrorf(tag, err)
	}

	return out, nil
}

// Params returns the layer's learnable Values, weights first.
func (d *Dense) Params() []*grad.Value {
	return []*grad.Value{d.w, d.b}
}
