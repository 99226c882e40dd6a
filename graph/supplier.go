// SPDX-License-Identifier: MIT
// Package graph: batch suppliers.
// A Supplier hands the trainer one real batch per request; the trainer
// never samples data itself. SliceSupplier is the in-memory
// implementation over pre-encoded dataset tensors.

package graph

import (
	"math/rand"

	"github.com/katalvlaran/molgan/tensor"
)

// Supplier delivers equal-sized real batches, one call per training
// phase. Implementations must return a batch of exactly the requested
// size or an error; the trainer fails fast on size disagreements.
type Supplier interface {
	Next(batchSize int) (*Batch, error)
}

// SliceSupplier samples batches uniformly (with replacement) from an
// in-memory dataset of M pre-encoded examples. Sampling uses the
// generator handed to the constructor; there is no package-level random
// state.
type SliceSupplier struct {
	dims      Dims
	adjacency *tensor.Dense // (M, R, N, N)
	features  *tensor.Dense // (M, N, F)
	count     int
	rng       *rand.Rand
}

// NewSliceSupplier validates the dataset tensors against dims and wraps
// them. The tensors are held by reference and must not be mutated while
// the supplier is in use.
// Stage 1 (Validate): dims, nil checks, ranks and sizes (reusing the
// NewBatch contract — a dataset is shaped exactly like a big batch).
// Stage 2 (Finalize): capture the pair, the example count and the rng.
func NewSliceSupplier(adjacency, features *tensor.Dense, dims Dims, rng *rand.Rand) (*SliceSupplier, error) {
	if rng == nil {
		return nil, graphErrorf(opNewSupplier, ErrNilRand)
	}

	ds, err := NewBatch(adjacency, features, dims)
	if err != nil {
		return nil, graphErrorf(opNewSupplier, err)
	}
	if ds.Size() == 0 {
		return nil, graphErrorf(opNewSupplier, ErrEmptyDataset)
	}

	return &SliceSupplier{
		dims:      dims,
		adjacency: adjacency,
		features:  features,
		count:     ds.Size(),
		rng:       rng,
	}, nil
}

// Len returns the number of examples in the dataset.
func (s *SliceSupplier) Len() int { return s.count }

// Next draws batchSize examples uniformly with replacement and
// materializes them as a fresh Batch (copied storage, so training never
// aliases the dataset).
// Complexity: O(batchSize·R·N²) time and space.
func (s *SliceSupplier) Next(batchSize int) (*Batch, error) {
	if batchSize < 1 {
		return nil, graphErrorf(opNext, ErrBadBatchSize)
	}

	d := s.dims
	adjOut, err := tensor.New(batchSize, d.Relations, d.Nodes, d.Nodes)
	if err != nil {
		return nil, graphErrorf(opNext, err)
	}
	featOut, err := tensor.New(batchSize, d.Nodes, d.Features)
	if err != nil {
		return nil, graphErrorf(opNext, err)
	}

	adjStride := d.Relations * d.Nodes * d.Nodes
	featStride := d.Nodes * d.Features
	adjSrc, featSrc := s.adjacency.Data(), s.features.Data()
	adjDst, featDst := adjOut.Data(), featOut.Data()

	for b := 0; b < batchSize; b++ {
		idx := s.rng.Intn(s.count)
		copy(adjDst[b*adjStride:(b+1)*adjStride], adjSrc[idx*adjStride:(idx+1)*adjStride])
		copy(featDst[b*featStride:(b+1)*featStride], featSrc[idx*featStride:(idx+1)*featStride])
	}

	return NewBatch(adjOut, featOut, d)
}
