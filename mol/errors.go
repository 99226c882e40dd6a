// SPDX-License-Identifier: MIT
// Package mol: sentinel error set.

package mol

import (
	"errors"
	"fmt"
)

var (
	// ErrEncode indicates a molecule that does not fit the configured
	// geometry: too many atoms, an out-of-range atom or bond type, a bond
	// endpoint outside the atom list, a self-bond, or a duplicate bond.
	ErrEncode = errors.New("mol: molecule does not fit geometry")

	// ErrDecode indicates a discretized graph that does not sanitize into
	// a molecule: asymmetric cells, a self-bond, a bond incident to an
	// empty slot, or no atoms at all.
	ErrDecode = errors.New("mol: graph does not decode to a molecule")

	// ErrShape indicates tensors whose shapes disagree with the codec's
	// geometry.
	ErrShape = errors.New("mol: tensor shape disagrees with geometry")
)

// molErrorf wraps err with an operation tag, preserving sentinels for
// errors.Is. Call only with a non-nil err.
func molErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
