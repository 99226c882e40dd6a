// SPDX-License-Identifier: MIT
// Package grad: the Value node type.

package grad

import (
	"github.com/katalvlaran/molgan/tensor"
)

// backwardFn receives the gradient flowing into a node and returns the
// gradients for each parent, in parent order. Entries may be nil for
// parents that do not require gradients. Implementations MUST build their
// results from grad operations (not raw tensor writes) so that the
// returned Values stay differentiable.
type backwardFn func(g *Value) ([]*Value, error)

// Value is one node of the differentiation graph: a tensor plus the
// recipe that produced it. Leaves are created with Variable (tracked) or
// Constant (untracked); everything else comes out of the package's
// operations.
type Value struct {
	data     *tensor.Dense
	parents  []*Value
	backward backwardFn
	requires bool // true when this node or any ancestor is a Variable
}

// Variable creates a tracked leaf. Gradients can be requested with
// respect to it. The tensor is held by reference: the optimizer mutates
// the same storage in place between steps.
func Variable(t *tensor.Dense) (*Value, error) {
	if err := tensor.ValidateNotNil(t); err != nil {
		return nil, gradErrorf(opVariable, err)
	}

	return &Value{data: t, requires: true}, nil
}

// Constant creates an untracked leaf; no gradient flows into it.
func Constant(t *tensor.Dense) (*Value, error) {
	if err := tensor.ValidateNotNil(t); err != nil {
		return nil, gradErrorf(opConstant, err)
	}

	return &Value{data: t}, nil
}

// Data returns the node's tensor. For Variables this is live storage (the
// optimizer's in-place update relies on it); treat op results as
// read-only.
func (v *Value) Data() *tensor.Dense { return v.data }

// Shape returns a copy of the tensor's shape.
func (v *Value) Shape() []int { return v.data.Shape() }

// Rank returns the tensor's rank.
func (v *Value) Rank() int { return v.data.Rank() }

// RequiresGrad reports whether gradients flow through this node.
func (v *Value) RequiresGrad() bool { return v.requires }

// Detach returns an untracked copy of the node's current contents,
// cutting it out of the differentiation graph.
func (v *Value) Detach() *Value {
	return &Value{data: v.data.Clone()}
}

// Item returns the first element, the scalar convention for loss values.
func (v *Value) Item() float64 { return v.data.Data()[0] }

// newNode assembles an op result. requires is derived from the parents;
// backward is dropped entirely when nothing upstream is tracked, which
// prunes dead subgraphs early.
func newNode(data *tensor.Dense, parents []*Value, backward backwardFn) *Value {
	requires := false
	for _, p := range parents {
		if p != nil && p.requires {
			requires = true
			break
		}
	}
	if !requires {
		return &Value{data: data}
	}

	return &Value{data: data, parents: parents, backward: backward, requires: true}
}

// validateValues rejects nil operands with a tagged sentinel.
func validateValues(tag string, vs ...*Value) error {
	for _, v := range vs {
		if v == nil || v.data == nil {
			return gradErrorf(tag, ErrNilValue)
		}
	}

	return nil
}
