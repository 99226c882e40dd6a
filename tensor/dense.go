// SPDX-License-Identifier: MIT
// Package tensor: Dense storage type.
// Dense is a concrete, row-major implementation storing elements in a flat
// slice for performance and cache friendliness, with an explicit shape.

package tensor

import (
	"fmt"
	"strings"
)

// Dense is a row-major rank-N tensor of float64 values.
// shape holds the dimension sizes; data holds prod(shape) elements in
// row-major order (last axis varies fastest).
type Dense struct {
	shape []int     // dimension sizes, len >= 1, all > 0
	data  []float64 // flat backing storage, length == prod(shape)
}

// New creates a zero-initialized tensor with the given shape.
// Stage 1 (Validate): every dimension must be > 0 and the shape non-empty.
// Stage 2 (Prepare): allocate the flat backing slice.
// Stage 3 (Finalize): return the new Dense or ErrBadShape.
// Complexity: O(prod(shape)) time and memory.
func New(shape ...int) (*Dense, error) {
	n, err := checkShape(shape)
	if err != nil {
		return nil, tensorErrorf(opNew, err)
	}

	return &Dense{shape: cloneInts(shape), data: make([]float64, n)}, nil
}

// FromSlice creates a tensor that copies data into fresh storage.
// The data length must equal the product of the dimensions
// (ErrDataLength otherwise).
func FromSlice(data []float64, shape ...int) (*Dense, error) {
	n, err := checkShape(shape)
	if err != nil {
		return nil, tensorErrorf(opFromSlice, err)
	}
	if len(data) != n {
		return nil, tensorErrorf(opFromSlice, ErrDataLength)
	}

	d := make([]float64, n)
	copy(d, data)

	return &Dense{shape: cloneInts(shape), data: d}, nil
}

// Full creates a tensor with every element set to v.
func Full(v float64, shape ...int) (*Dense, error) {
	out, err := New(shape...)
	if err != nil {
		return nil, tensorErrorf(opFull, err)
	}
	for i := range out.data {
		out.data[i] = v
	}

	return out, nil
}

// Shape returns a copy of the dimension sizes. Mutating the returned
// slice does not affect the tensor.
func (t *Dense) Shape() []int { return cloneInts(t.shape) }

// Rank returns the number of axes.
func (t *Dense) Rank() int { return len(t.shape) }

// Dim returns the size of axis i, or ErrBadAxis when i is out of range.
func (t *Dense) Dim(i int) (int, error) {
	if i < 0 || i >= len(t.shape) {
		return 0, tensorErrorf(opDim, ErrBadAxis)
	}

	return t.shape[i], nil
}

// Size returns the total number of elements.
func (t *Dense) Size() int { return len(t.data) }

// Data returns the flat backing slice (a live view, not a copy).
// Callers that mutate it own the consequences; the optimizer's in-place
// parameter update is the intended consumer.
func (t *Dense) Data() []float64 { return t.data }

// At retrieves the element at the given multi-index.
// Stage 1 (Validate): bounds check via flatIndex.
// Stage 2 (Execute): read from the flat slice.
// Complexity: O(rank).
func (t *Dense) At(idx ...int) (float64, error) {
	off, err := t.flatIndex(idx)
	if err != nil {
		return 0, tensorErrorf(opAt, err)
	}

	return t.data[off], nil
}

// Set assigns v at the given multi-index.
// Complexity: O(rank).
func (t *Dense) Set(v float64, idx ...int) error {
	off, err := t.flatIndex(idx)
	if err != nil {
		return tensorErrorf(opSet, err)
	}
	t.data[off] = v

	return nil
}

// Clone returns a deep copy (fresh shape and data slices).
// Complexity: O(size) time and memory.
func (t *Dense) Clone() *Dense {
	d := make([]float64, len(t.data))
	copy(d, t.data)

	return &Dense{shape: cloneInts(t.shape), data: d}
}

// String implements fmt.Stringer for debugging: "Dense[2 3](1, 2, ...)".
// Long tensors are elided after eight elements.
func (t *Dense) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dense%v(", t.shape)
	limit := len(t.data)
	if limit > stringElideAfter {
		limit = stringElideAfter
	}
	for i := 0; i < limit; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%g", t.data[i])
	}
	if limit < len(t.data) {
		b.WriteString(", ...")
	}
	b.WriteString(")")

	return b.String()
}

// stringElideAfter bounds String output for large tensors.
const stringElideAfter = 8

// flatIndex computes the row-major offset for idx or returns a sentinel.
// Stage 1 (Validate): rank must match and every index must be in bounds.
// Stage 2 (Execute): accumulate offset with a fixed axis order.
// Complexity: O(rank).
func (t *Dense) flatIndex(idx []int) (int, error) {
	if len(idx) != len(t.shape) {
		return 0, ErrRank
	}

	off := 0
	for a, i := range idx {
		if i < 0 || i >= t.shape[a] {
			return 0, ErrOutOfRange
		}
		off = off*t.shape[a] + i
	}

	return off, nil
}

// checkShape validates a shape and returns the element count.
func checkShape(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, ErrBadShape
	}

	n := 1
	for _, d := range shape {
		if d <= 0 {
			return 0, ErrBadShape
		}
		n *= d
	}

	return n, nil
}

// cloneInts copies an int slice (shapes are never shared between tensors).
func cloneInts(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)

	return out
}

// sameShape reports whether two shapes are identical.
func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
