// SPDX-License-Identifier: MIT
// Package layer: sentinel error set.

package layer

import (
	"errors"
	"fmt"
)

var (
	// ErrBadDims indicates a non-positive layer width or relation count.
	ErrBadDims = errors.New("layer: dimensions must be positive")

	// ErrNilRand indicates a nil random generator passed to an
	// initializer.
	ErrNilRand = errors.New("layer: nil random generator")

	// ErrBadActivation indicates an Activation value outside the defined
	// enum.
	ErrBadActivation = errors.New("layer: unknown activation")

	// ErrBadInit indicates an Init value outside the defined enum.
	ErrBadInit = errors.New("layer: unknown initializer")
)

// layerErrorf wraps err with an operation tag, preserving sentinels for
// errors.Is. Call only with a non-nil err.
func layerErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
