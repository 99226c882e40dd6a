// SPDX-License-Identifier: MIT
// Package graph: sentinel error set. All constructors and validators
// return these sentinels (possibly wrapped with an operation tag); tests
// match them with errors.Is.

package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrNilBatch indicates a nil *Batch or a batch with nil tensors.
	ErrNilBatch = errors.New("graph: nil batch")

	// ErrDims indicates a non-positive entry in Dims.
	ErrDims = errors.New("graph: dims must be positive")

	// ErrShape indicates adjacency/feature tensors whose ranks or sizes
	// disagree with the configured (R, N, F) geometry or with each other.
	ErrShape = errors.New("graph: tensor shape disagrees with dims")

	// ErrNotOneHot indicates a row or channel cell that is not exactly
	// one-hot within the configured epsilon.
	ErrNotOneHot = errors.New("graph: value is not one-hot")

	// ErrNotNormalized indicates a row or channel cell whose entries do
	// not sum to 1 within the configured epsilon.
	ErrNotNormalized = errors.New("graph: distribution does not sum to 1")

	// ErrAsymmetry indicates adjacency cells violating
	// adj[b,r,i,j] == adj[b,r,j,i] within the configured epsilon.
	ErrAsymmetry = errors.New("graph: adjacency is not symmetric")

	// ErrEmptyDataset indicates a supplier constructed over zero examples.
	ErrEmptyDataset = errors.New("graph: dataset has no examples")

	// ErrBadBatchSize indicates a requested batch size < 1.
	ErrBadBatchSize = errors.New("graph: batch size must be >= 1")

	// ErrNilRand indicates a nil random generator where one is required.
	ErrNilRand = errors.New("graph: nil random generator")
)

// graphErrorf wraps err with an operation tag, preserving sentinels for
// errors.Is. Call only with a non-nil err.
func graphErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
