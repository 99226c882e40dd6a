// SPDX-License-Identifier: MIT
// Package graph: Dims geometry and the Batch pair.

package graph

import (
	"math"

	"github.com/katalvlaran/molgan/tensor"
)

// DefaultEpsilon is the tolerance used by the structural validators when
// the caller passes a non-positive value.
const DefaultEpsilon = 1e-9

// Operation name constants for unified error wrapping.
const (
	opNewBatch           = "NewBatch"
	opValidateOneHot     = "ValidateOneHot"
	opValidateStochastic = "ValidateStochastic"
	opNext               = "Next"
	opNewSupplier        = "NewSliceSupplier"
)

// Dims fixes the graph geometry every batch must satisfy:
// Relations bond channels (including the trailing "no bond" sentinel),
// Nodes atom slots, Features atom categories (including the trailing
// "no atom" sentinel).
type Dims struct {
	Relations int
	Nodes     int
	Features  int
}

// Validate returns ErrDims when any dimension is non-positive.
func (d Dims) Validate() error {
	if d.Relations <= 0 || d.Nodes <= 0 || d.Features <= 0 {
		return ErrDims
	}

	return nil
}

// Batch is B parallel adjacency/feature pairs sharing one geometry.
// Constructed fresh each training step and discarded after it.
type Batch struct {
	// Adjacency has shape (B, Relations, Nodes, Nodes).
	Adjacency *tensor.Dense
	// Features has shape (B, Nodes, Features).
	Features *tensor.Dense
}

// NewBatch validates the tensor pair against dims and wraps it.
// Stage 1 (Validate): dims, nil tensors, ranks, per-axis sizes, and that
// both tensors agree on the batch size.
// Stage 2 (Finalize): return the wrapped pair (tensors held by
// reference; no copy).
// Complexity: O(1) — shape checks only.
func NewBatch(adjacency, features *tensor.Dense, dims Dims) (*Batch, error) {
	if err := dims.Validate(); err != nil {
		return nil, graphErrorf(opNewBatch, err)
	}
	if err := tensor.ValidateNotNil(adjacency, features); err != nil {
		return nil, graphErrorf(opNewBatch, ErrNilBatch)
	}

	as, fs := adjacency.Shape(), features.Shape()
	if len(as) != 4 || as[1] != dims.Relations || as[2] != dims.Nodes || as[3] != dims.Nodes {
		return nil, graphErrorf(opNewBatch, ErrShape)
	}
	if len(fs) != 3 || fs[1] != dims.Nodes || fs[2] != dims.Features {
		return nil, graphErrorf(opNewBatch, ErrShape)
	}
	if as[0] != fs[0] {
		return nil, graphErrorf(opNewBatch, ErrShape)
	}

	return &Batch{Adjacency: adjacency, Features: features}, nil
}

// Size returns B, the number of graphs in the batch.
func (b *Batch) Size() int {
	return b.Adjacency.Shape()[0]
}

// Dims reads the geometry back from the tensor shapes.
func (b *Batch) Dims() Dims {
	as := b.Adjacency.Shape()
	fs := b.Features.Shape()

	return Dims{Relations: as[1], Nodes: as[2], Features: fs[2]}
}

// ValidateOneHot checks the discrete-data invariants within eps
// (DefaultEpsilon when eps <= 0):
//   - every feature row is exactly one-hot;
//   - every adjacency cell (i,j), diagonal included, is exactly one-hot
//     along the relation axis;
//   - the adjacency is symmetric in the trailing two axes.
//
// Error priority: shape issues never reach here (NewBatch), so failures
// are ErrNotOneHot then ErrAsymmetry.
// Complexity: O(B·R·N²) time.
func (b *Batch) ValidateOneHot(eps float64) error {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	if err := b.checkRows(eps, true); err != nil {
		return graphErrorf(opValidateOneHot, err)
	}
	if err := b.checkCells(eps, true); err != nil {
		return graphErrorf(opValidateOneHot, err)
	}
	if err := b.checkSymmetry(eps); err != nil {
		return graphErrorf(opValidateOneHot, err)
	}

	return nil
}

// ValidateStochastic checks the continuous (generator-output) invariants
// within eps: rows and cells sum to 1, and the adjacency is symmetric.
// Individual entries may be any value in [0,1]; the hard one-hot
// requirement is dropped.
func (b *Batch) ValidateStochastic(eps float64) error {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	if err := b.checkRows(eps, false); err != nil {
		return graphErrorf(opValidateStochastic, err)
	}
	if err := b.checkCells(eps, false); err != nil {
		return graphErrorf(opValidateStochastic, err)
	}
	if err := b.checkSymmetry(eps); err != nil {
		return graphErrorf(opValidateStochastic, err)
	}

	return nil
}

// checkRows verifies feature rows: sum == 1, and when oneHot also that
// every entry is ≈0 or ≈1.
func (b *Batch) checkRows(eps float64, oneHot bool) error {
	d := b.Dims()
	data := b.Features.Data()
	bsz := b.Size()

	for bi := 0; bi < bsz; bi++ {
		for n := 0; n < d.Nodes; n++ {
			base := (bi*d.Nodes + n) * d.Features
			if err := checkCategorical(data[base:base+d.Features], eps, oneHot); err != nil {
				return err
			}
		}
	}

	return nil
}

// checkCells verifies adjacency cells along the relation axis, diagonal
// included.
func (b *Batch) checkCells(eps float64, oneHot bool) error {
	d := b.Dims()
	data := b.Adjacency.Data()
	bsz := b.Size()
	nn := d.Nodes * d.Nodes

	cell := make([]float64, d.Relations)
	for bi := 0; bi < bsz; bi++ {
		for i := 0; i < d.Nodes; i++ {
			for j := 0; j < d.Nodes; j++ {
				for r := 0; r < d.Relations; r++ {
					cell[r] = data[bi*d.Relations*nn+r*nn+i*d.Nodes+j]
				}
				if err := checkCategorical(cell, eps, oneHot); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// checkSymmetry verifies adj[b,r,i,j] == adj[b,r,j,i] within eps.
func (b *Batch) checkSymmetry(eps float64) error {
	d := b.Dims()
	data := b.Adjacency.Data()
	bsz := b.Size()
	nn := d.Nodes * d.Nodes

	for bi := 0; bi < bsz; bi++ {
		for r := 0; r < d.Relations; r++ {
			base := bi*d.Relations*nn + r*nn
			for i := 0; i < d.Nodes; i++ {
				for j := i + 1; j < d.Nodes; j++ {
					if math.Abs(data[base+i*d.Nodes+j]-data[base+j*d.Nodes+i]) > eps {
						return ErrAsymmetry
					}
				}
			}
		}
	}

	return nil
}

// checkCategorical verifies a probability vector: sums to 1 within eps;
// with oneHot also each entry ≈0 or ≈1.
func checkCategorical(v []float64, eps float64, oneHot bool) error {
	sum := 0.0
	for _, x := range v {
		sum += x
		if oneHot && math.Abs(x) > eps && math.Abs(x-1) > eps {
			return ErrNotOneHot
		}
	}
	if math.Abs(sum-1) > eps {
		if oneHot {
			return ErrNotOneHot
		}
		return ErrNotNormalized
	}

	return nil
}
