// SPDX-License-Identifier: MIT
// Package optim: sentinel error set.

package optim

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRate indicates a non-positive learning rate.
	ErrBadRate = errors.New("optim: learning rate must be positive")

	// ErrBadOptions indicates an out-of-range Adam moment or epsilon
	// setting.
	ErrBadOptions = errors.New("optim: invalid options")

	// ErrMismatch indicates parameter and gradient lists of different
	// lengths or shapes.
	ErrMismatch = errors.New("optim: parameter/gradient mismatch")

	// ErrNilParam indicates a nil entry in a parameter or gradient list.
	ErrNilParam = errors.New("optim: nil parameter or gradient")
)

// optimErrorf wraps err with an operation tag, preserving sentinels for
// errors.Is. Call only with a non-nil err.
func optimErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
