// SPDX-License-Identifier: MIT
// Package config: sentinel error set.

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid indicates a configuration that parsed but fails
	// validation.
	ErrInvalid = errors.New("config: invalid configuration")

	// ErrBadOptimizer indicates an unknown optimizer name.
	ErrBadOptimizer = errors.New("config: unknown optimizer")
)

// configErrorf wraps err with an operation tag, preserving sentinels for
// errors.Is. Call only with a non-nil err.
func configErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
