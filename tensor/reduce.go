// SPDX-License-Identifier: MIT
// Package tensor: reductions, broadcasting and axis slicing.
//
// Purpose:
//   - Sum/Mean over arbitrary axis sets (with or without kept axes).
//   - Expand (broadcast) and SumTo, which are adjoint to each other: the
//     grad package uses one as the backward pass of the other.
//   - Index/Spread, the axis-slicing pair with the same adjoint property.
//   - Softmax along a chosen axis, numerically stabilized.
//
// Determinism:
//   - Every kernel walks the flat buffer in ascending index order; no
//     data-dependent iteration.

package tensor

import "math"

// strides returns row-major strides for shape (last axis stride 1).
func strides(shape []int) []int {
	st := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		st[i] = acc
		acc *= shape[i]
	}

	return st
}

// checkAxes validates that axes are unique and within [0, rank).
func checkAxes(rank int, axes []int) error {
	seen := make(map[int]bool, len(axes))
	for _, a := range axes {
		if a < 0 || a >= rank {
			return ErrBadAxis
		}
		if seen[a] {
			return ErrBadAxis
		}
		seen[a] = true
	}

	return nil
}

// Sum reduces over the given axes. With keep=true the reduced axes remain
// with size 1 (convenient for subsequent broadcasting); with keep=false
// they are removed. Reducing every axis with keep=false yields shape [1].
// Stage 1 (Validate): operand and axes.
// Stage 2 (Prepare): output shape and the input→output index map.
// Stage 3 (Execute): single pass accumulating into the output buffer.
// Complexity: O(size·rank) time, O(out size) space.
func Sum(a *Dense, axes []int, keep bool) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, tensorErrorf(opSum, err)
	}
	if err := checkAxes(a.Rank(), axes); err != nil {
		return nil, tensorErrorf(opSum, err)
	}

	reduced := make([]bool, a.Rank())
	for _, ax := range axes {
		reduced[ax] = true
	}

	// Build the output shape under both keep conventions.
	outShape := make([]int, 0, a.Rank())
	for i, d := range a.shape {
		switch {
		case !reduced[i]:
			outShape = append(outShape, d)
		case keep:
			outShape = append(outShape, 1)
		}
	}
	if len(outShape) == 0 {
		outShape = []int{1}
	}

	out := &Dense{shape: outShape, data: make([]float64, prod(outShape))}
	outStr := strides(outShape)

	// Walk the input once, carrying the multi-index incrementally.
	idx := make([]int, a.Rank())
	for flat := 0; flat < len(a.data); flat++ {
		off, pos := 0, 0
		for i := 0; i < a.Rank(); i++ {
			switch {
			case !reduced[i]:
				off += idx[i] * outStr[pos]
				pos++
			case keep:
				pos++ // kept axis contributes index 0
			}
		}
		out.data[off] += a.data[flat]
		increment(idx, a.shape)
	}

	return out, nil
}

// Mean reduces like Sum and divides by the number of reduced elements.
func Mean(a *Dense, axes []int, keep bool) (*Dense, error) {
	s, err := Sum(a, axes, keep)
	if err != nil {
		return nil, tensorErrorf(opMean, err)
	}

	count := 1
	for _, ax := range axes {
		count *= a.shape[ax]
	}

	return Scale(s, 1/float64(count))
}

// Expand broadcasts a up to target shape. The source shape, right-aligned
// against target, must agree on every axis or be 1 there. This is the
// adjoint of SumTo.
// Complexity: O(target size·rank) time.
func Expand(a *Dense, target ...int) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, tensorErrorf(opExpand, err)
	}
	n, err := checkShape(target)
	if err != nil {
		return nil, tensorErrorf(opExpand, err)
	}
	if len(a.shape) > len(target) {
		return nil, tensorErrorf(opExpand, ErrShapeMismatch)
	}

	// Right-align: srcShape padded on the left with 1s.
	pad := len(target) - len(a.shape)
	srcShape := make([]int, len(target))
	for i := range srcShape {
		if i < pad {
			srcShape[i] = 1
		} else {
			srcShape[i] = a.shape[i-pad]
		}
		if srcShape[i] != target[i] && srcShape[i] != 1 {
			return nil, tensorErrorf(opExpand, ErrShapeMismatch)
		}
	}
	srcStr := strides(srcShape)

	out := &Dense{shape: cloneInts(target), data: make([]float64, n)}
	idx := make([]int, len(target))
	for flat := 0; flat < n; flat++ {
		off := 0
		for i := range target {
			if srcShape[i] != 1 {
				off += idx[i] * srcStr[i]
			}
		}
		out.data[flat] = a.data[off]
		increment(idx, target)
	}

	return out, nil
}

// SumTo reduces a down to target shape by summing over every broadcast
// axis. target must be broadcast-compatible with a's shape (the exact
// reverse of Expand's contract).
// Complexity: O(size·rank) time.
func SumTo(a *Dense, target ...int) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, tensorErrorf(opSumTo, err)
	}
	tn, err := checkShape(target)
	if err != nil {
		return nil, tensorErrorf(opSumTo, err)
	}
	if len(target) > len(a.shape) {
		return nil, tensorErrorf(opSumTo, ErrShapeMismatch)
	}

	pad := len(a.shape) - len(target)
	dstShape := make([]int, len(a.shape))
	for i := range dstShape {
		if i < pad {
			dstShape[i] = 1
		} else {
			dstShape[i] = target[i-pad]
		}
		if dstShape[i] != a.shape[i] && dstShape[i] != 1 {
			return nil, tensorErrorf(opSumTo, ErrShapeMismatch)
		}
	}
	dstStr := strides(dstShape)

	out := &Dense{shape: cloneInts(target), data: make([]float64, tn)}
	idx := make([]int, len(a.shape))
	for flat := 0; flat < len(a.data); flat++ {
		off := 0
		for i := range a.shape {
			if dstShape[i] != 1 {
				off += idx[i] * dstStr[i]
			}
		}
		out.data[off] += a.data[flat]
		increment(idx, a.shape)
	}

	return out, nil
}

// Index selects slice i along axis, removing that axis from the shape.
// Its adjoint is Spread.
// Complexity: O(out size) time.
func Index(a *Dense, axis, i int) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, tensorErrorf(opIndex, err)
	}
	if axis < 0 || axis >= a.Rank() {
		return nil, tensorErrorf(opIndex, ErrBadAxis)
	}
	if i < 0 || i >= a.shape[axis] {
		return nil, tensorErrorf(opIndex, ErrOutOfRange)
	}
	if a.Rank() == 1 {
		return nil, tensorErrorf(opIndex, ErrRank)
	}

	outShape := make([]int, 0, a.Rank()-1)
	outShape = append(outShape, a.shape[:axis]...)
	outShape = append(outShape, a.shape[axis+1:]...)

	// outer × axis × inner decomposition of the source buffer.
	outer, inner := 1, 1
	for k := 0; k < axis; k++ {
		outer *= a.shape[k]
	}
	for k := axis + 1; k < a.Rank(); k++ {
		inner *= a.shape[k]
	}

	out := &Dense{shape: outShape, data: make([]float64, outer*inner)}
	for o := 0; o < outer; o++ {
		src := a.data[(o*a.shape[axis]+i)*inner : (o*a.shape[axis]+i+1)*inner]
		copy(out.data[o*inner:(o+1)*inner], src)
	}

	return out, nil
}

// Spread is the adjoint of Index: it inserts a new axis of size dim at
// position axis, placing a at index i and zeros elsewhere.
// Complexity: O(out size) time.
func Spread(a *Dense, axis, i, dim int) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, tensorErrorf(opSpread, err)
	}
	if axis < 0 || axis > a.Rank() {
		return nil, tensorErrorf(opSpread, ErrBadAxis)
	}
	if dim <= 0 {
		return nil, tensorErrorf(opSpread, ErrBadShape)
	}
	if i < 0 || i >= dim {
		return nil, tensorErrorf(opSpread, ErrOutOfRange)
	}

	outShape := make([]int, 0, a.Rank()+1)
	outShape = append(outShape, a.shape[:axis]...)
	outShape = append(outShape, dim)
	outShape = append(outShape, a.shape[axis:]...)

	outer, inner := 1, 1
	for k := 0; k < axis; k++ {
		outer *= a.shape[k]
	}
	for k := axis; k < a.Rank(); k++ {
		inner *= a.shape[k]
	}

	out := &Dense{shape: outShape, data: make([]float64, outer*dim*inner)}
	for o := 0; o < outer; o++ {
		dst := out.data[(o*dim+i)*inner : (o*dim+i+1)*inner]
		copy(dst, a.data[o*inner:(o+1)*inner])
	}

	return out, nil
}

// Softmax normalizes along the given axis so each slice sums to 1.
// The max is subtracted per slice before exponentiation for stability.
// Stage 1 (Validate): operand and axis.
// Stage 2 (Execute): per-slice max → exp → normalize, fixed order.
// Complexity: O(size) time, O(size) space.
func Softmax(a *Dense, axis int) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, tensorErrorf(opSoftmax, err)
	}
	if axis < 0 || axis >= a.Rank() {
		return nil, tensorErrorf(opSoftmax, ErrBadAxis)
	}

	outer, inner := 1, 1
	for k := 0; k < axis; k++ {
		outer *= a.shape[k]
	}
	for k := axis + 1; k < a.Rank(); k++ {
		inner *= a.shape[k]
	}
	dim := a.shape[axis]

	out := &Dense{shape: cloneInts(a.shape), data: make([]float64, len(a.data))}
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*dim*inner + in

			maxV := math.Inf(-1)
			for d := 0; d < dim; d++ {
				if v := a.data[base+d*inner]; v > maxV {
					maxV = v
				}
			}

			sum := 0.0
			for d := 0; d < dim; d++ {
				e := math.Exp(a.data[base+d*inner] - maxV)
				out.data[base+d*inner] = e
				sum += e
			}
			for d := 0; d < dim; d++ {
				out.data[base+d*inner] /= sum
			}
		}
	}

	return out, nil
}

// prod multiplies the entries of a shape.
func prod(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}

	return n
}

// increment advances a multi-index in row-major order (last axis fastest).
func increment(idx, shape []int) {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < shape[i] {
			return
		}
		idx[i] = 0
	}
}
