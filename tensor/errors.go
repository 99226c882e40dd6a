// SPDX-License-Identifier: MIT
// Package tensor: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the
// tensor package. Kernels MUST return these sentinels (wrapped with an
// operation tag via tensorErrorf) and tests MUST check them with
// errors.Is. Panics are reserved for programmer errors in private
// helpers.

package tensor

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTensor indicates that a nil *Dense (receiver or argument) was used.
	ErrNilTensor = errors.New("tensor: nil tensor")

	// ErrBadShape is returned when a requested shape is invalid
	// (empty shape, or any dimension <= 0).
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrShapeMismatch indicates incompatible shapes between operands,
	// e.g. Add with different shapes, or MatMul with inner-size disagreement.
	ErrShapeMismatch = errors.New("tensor: shape mismatch")

	// ErrRank signals that an operand's rank is unsupported for the kernel
	// (e.g. TransposeLast2 on a rank-1 tensor).
	ErrRank = errors.New("tensor: unsupported rank")

	// ErrBadAxis indicates an axis argument outside [0, rank).
	ErrBadAxis = errors.New("tensor: axis out of range")

	// ErrOutOfRange indicates that a multi-index is outside valid bounds.
	// Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrNaNInf signals a NaN or ±Inf value was observed where finite
	// values are required (CheckFinite and the validators that use it).
	ErrNaNInf = errors.New("tensor: NaN or Inf encountered")

	// ErrDataLength indicates that a backing slice length does not match
	// the product of the requested dimensions.
	ErrDataLength = errors.New("tensor: data length does not match shape")
)

// tensorErrorf wraps err with an operation tag, preserving the sentinel
// via %w so callers can still match with errors.Is. Call only with a
// non-nil err.
func tensorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
