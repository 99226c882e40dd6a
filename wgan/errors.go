// SPDX-License-Identifier: MIT
// Package wgan: sentinel error set.

package wgan

import (
	"errors"
	"fmt"
)

var (
	// ErrBatchSize indicates real and fake batches of different sizes.
	ErrBatchSize = errors.New("wgan: real/fake batch sizes differ")

	// ErrNonFinite indicates a NaN or Inf loss, penalty or gradient; the
	// affected phase applies no update.
	ErrNonFinite = errors.New("wgan: non-finite loss or gradient")

	// ErrNilModel indicates a nil generator, critic or optimizer.
	ErrNilModel = errors.New("wgan: nil model or optimizer")

	// ErrNilRand indicates a nil random generator.
	ErrNilRand = errors.New("wgan: nil random generator")

	// ErrBadOptions indicates an out-of-range Options field.
	ErrBadOptions = errors.New("wgan: invalid options")
)

// wganErrorf wraps err with an operation tag, preserving sentinels for
// errors.Is. Call only with a non-nil err.
func wganErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
