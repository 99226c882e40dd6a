// SPDX-License-Identifier: MIT
// Package grad: reverse-mode gradient accumulation.

package grad

import (
	"github.com/katalvlaran/molgan/tensor"
)

// Gradients computes ∂y/∂x for every requested x in a single reverse
// sweep. When y is not scalar, the gradient of its element sum is
// computed (seed of ones), matching the usual tape semantics.
//
// The returned Values are themselves differentiable: their backward
// functions were assembled from grad operations during the sweep. An x
// that y does not depend on yields a zero tensor of x's shape.
//
// Stage 1 (Validate): y and every x must be non-nil; every x must be a
// tracked node (ErrNotInGraph otherwise — asking for a gradient with
// respect to a Constant is a caller bug, not a zero).
// Stage 2 (Prepare): depth-first topological order over the tracked
// subgraph reachable from y.
// Stage 3 (Execute): walk the order in reverse, invoking each node's
// backward function once and accumulating parent gradients with Add.
// Stage 4 (Finalize): collect per-x results, zero-filling unreachables.
//
// Complexity: O(nodes + edges) graph walks; each node's backward runs
// exactly once.
func Gradients(y *Value, xs ...*Value) ([]*Value, error) {
	if err := validateValues(opGradients, y); err != nil {
		return nil, err
	}
	for _, x := range xs {
		if x == nil || x.data == nil {
			return nil, gradErrorf(opGradients, ErrNilValue)
		}
		if !x.requires {
			return nil, gradErrorf(opGradients, ErrNotInGraph)
		}
	}

	// Topological order restricted to nodes gradients can flow through.
	var order []*Value
	visited := make(map[*Value]bool)
	var visit func(v *Value)
	visit = func(v *Value) {
		if v == nil || visited[v] || !v.requires {
			return
		}
		visited[v] = true
		for _, p := range v.parents {
			visit(p)
		}
		order = append(order, v)
	}
	visit(y)

	// Seed: ones with y's shape (sum-of-elements convention).
	seedT, err := tensor.Full(1, y.Shape()...)
	if err != nil {
		return nil, gradErrorf(opGradients, err)
	}
	accum := make(map[*Value]*Value, len(order))
	accum[y] = &Value{data: seedT}

	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		g := accum[v]
		if g == nil || v.backward == nil {
			continue
		}

		parentGrads, err := v.backward(g)
		if err != nil {
			return nil, gradErrorf(opGradients, err)
		}
		for j, p := range v.parents {
			if p == nil || !p.requires || j >= len(parentGrads) || parentGrads[j] == nil {
				continue
			}
			if cur, ok := accum[p]; ok {
				sum, err := Add(cur, parentGrads[j])
				if err != nil {
					return nil, gradErrorf(opGradients, err)
				}
				accum[p] = sum
			} else {
				accum[p] = parentGrads[j]
			}
		}
	}

	out := make([]*Value, len(xs))
	for i, x := range xs {
		if g, ok := accum[x]; ok {
			out[i] = g
			continue
		}
		zero, err := tensor.New(x.Shape()...)
		if err != nil {
			return nil, gradErrorf(opGradients, err)
		}
		out[i] = &Value{data: zero}
	}

	return out, nil
}
