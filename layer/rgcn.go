// SPDX-License-Identifier: MIT
// Package layer: the relational graph convolution.
//
// Purpose:
//   - Propagate node features along relation-typed edges with a separate
//     linear map per relation channel.
//
// Design:
//   - W is a single (R, in, out) parameter sliced per relation with
//     grad.Index, so one Value covers all channels and gradient
//     accumulation across relations is handled by the graph itself.
//   - Aggregation is a plain weighted sum adj[:,r] @ h. Adjacency values
//     may be continuous (generator outputs), so no degree normalization
//     is applied and no self-loop term is added.

package layer

import (
	"math/rand"

	"github.com/katalvlaran/molgan/grad"
)

// RelGraphConv maps node features (B, N, in) to (B, N, out) under a
// relation-typed adjacency (B, R, N, N).
type RelGraphConv struct {
	w    *grad.Value // (R, in, out)
	b    *grad.Value // (R, out), nil when bias is disabled
	act  Activation
	rels int
}

// NewRelGraphConv builds a convolution over rels relation channels with
// Glorot-uniform weights. withBias adds a zero-initialized per-relation
// bias.
func NewRelGraphConv(rels, in, out int, act Activation, withBias bool, rng *rand.Rand) (*RelGraphConv, error) {
	const tag = "NewRelGraphConv"
	if rels <= 0 || in <= 0 || out <= 0 {
		return nil, layerErrorf(tag, ErrBadDims)
	}

	w, err := NewWeights(GlorotUniform, rng, []int{rels, in, out}, in, out)
	if err != nil {
		return nil, layerErrorf(tag, err)
	}
	l := &RelGraphConv{w: w, act: act, rels: rels}

	if withBias {
		b, err := NewWeights(Zeros, nil, []int{rels, out}, 0, 0)
		if err != nil {
			return nil, layerErrorf(tag, err)
		}
		l.b = b
	}

	return l, nil
}

// Forward computes act(Σ_r (adj[:,r] @ h) @ W[r] + b[r]).
// adj must be (B, R, N, N) and h (B, N, in) with matching B and N.
// Complexity: O(B·R·N·(N·in + in·out)) time.
func (l *RelGraphConv) Forward(adj, h *grad.Value) (*grad.Value, error) {
	const tag = "RelGraphConv.Forward"

	var acc *grad.Value
	for r := 0; r < l.rels; r++ {
		ar, err := grad.Index(adj, 1, r) // (B, N, N)
		if err != nil {
			return nil, layerErrorf(tag, err)
		}
		agg, err := grad.MatMul(ar, h) // (B, N, in)
		if err != nil {
			return nil, layerErrorf(tag, err)
		}
		wr, err := grad.Index(l.w, 0, r) // (in, out)
		if err != nil {
			return nil, layerErrorf(tag, err)
		}
		tr, err := grad.MatMul(agg, wr) // (B, N, out)
		if err != nil {
			return nil, layerErrorf(tag, err)
		}
		if l.b != nil {
			br, err := grad.Index(l.b, 0, r) // (out)
			if err != nil {
				return nil, layerErrorf(tag, err)
			}
			bb, err := grad.Expand(br, tr.Shape()...)
			if err != nil {
				return nil, layerErrorf(tag, err)
			}
			tr, err = grad.Add(tr, bb)
			if err != nil {
				return nil, layerErrorf(tag, err)
			}
		}

		if acc == nil {
			acc = tr
			continue
		}
		acc, err = grad.Add(acc, tr)
		if err != nil {
			return nil, layerErrorf(tag, err)
		}
	}

	out, err := l.act.Apply(acc)
	if err != nil {
		return nil, layerErrorf(tag, err)
	}

	return out, nil
}

// Params returns the layer's learnable Values, weights first. The bias
// entry is omitted when bias is disabled.
func (l *RelGraphConv) Params() []*grad.Value {
	if l.b == nil {
		return []*grad.Value{l.w}
	}

	return []*grad.Value{l.w, l.b}
}
