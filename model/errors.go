// SPDX-License-Identifier: MIT
// Package model: sentinel error set.

package model

import (
	"errors"
	"fmt"
)

var (
	// ErrBadConfig indicates an invalid Generator or Discriminator
	// configuration.
	ErrBadConfig = errors.New("model: invalid configuration")

	// ErrNilRand indicates a nil random generator where a random draw is
	// required.
	ErrNilRand = errors.New("model: nil random generator")

	// ErrBadBatch indicates a non-positive requested batch size.
	ErrBadBatch = errors.New("model: batch size must be positive")
)

// modelErrorf wraps err with an operation tag, preserving sentinels for
// errors.Is. Call only with a non-nil err.
func modelErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
