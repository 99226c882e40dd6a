// SPDX-License-Identifier: MIT
// Package grad: sentinel error set. Operations surface tensor-package
// sentinels (shape, rank, axis) unchanged via %w wrapping, so callers can
// errors.Is against tensor.ErrShapeMismatch and friends; the sentinels
// below cover failures specific to differentiation itself.

package grad

import (
	"errors"
	"fmt"
)

var (
	// ErrNilValue indicates a nil *Value operand.
	ErrNilValue = errors.New("grad: nil value")

	// ErrNotInGraph is returned by Gradients when y does not depend on a
	// requested x *and* that x is not a differentiable leaf; asking for
	// such a gradient is a caller bug, not a zero.
	ErrNotInGraph = errors.New("grad: value does not require gradients")

	// ErrBadRate indicates a dropout rate outside [0, 1).
	ErrBadRate = errors.New("grad: dropout rate must be in [0, 1)")

	// ErrNilRand indicates that a nil random generator was supplied to an
	// operation that needs one.
	ErrNilRand = errors.New("grad: nil random generator")
)

// gradErrorf wraps err with an operation tag, preserving sentinels for
// errors.Is. Call only with a non-nil err.
func gradErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
