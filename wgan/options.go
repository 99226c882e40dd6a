// SPDX-License-Identifier: MIT
// Package wgan: trainer options.

package wgan

import "log/slog"

// Default option values.
const (
	DefaultCriticSteps    = 1
	DefaultGeneratorSteps = 1
	DefaultPenaltyWeight  = 10.0
	DefaultBatchSize      = 32
)

// Options is a plain value struct configuring a Trainer. The zero value
// is not usable; start from DefaultOptions and override fields.
type Options struct {
	// CriticSteps is the number of critic updates per Step. Zero skips
	// the critic phase entirely.
	CriticSteps int
	// GeneratorSteps is the number of generator updates per Step. Zero
	// skips the generator phase entirely.
	GeneratorSteps int
	// PenaltyWeight is the gradient-penalty coefficient λ.
	PenaltyWeight float64
	// BatchSize is the batch size Fit requests from its supplier; Step
	// itself takes the real batch's size as given.
	BatchSize int
	// Logger receives per-step structured records. Nil disables logging.
	Logger *slog.Logger
}

// DefaultOptions returns the conventional WGAN-GP settings: one critic
// and one generator update per step, λ = 10.
func DefaultOptions() Options {
	return Options{
		CriticSteps:    DefaultCriticSteps,
		GeneratorSteps: DefaultGeneratorSteps,
		PenaltyWeight:  DefaultPenaltyWeight,
		BatchSize:      DefaultBatchSize,
	}
}

// Validate reports whether the options are usable.
func (o Options) Validate() error {
	const tag = "Options.Validate"
	if o.CriticSteps < 0 || o.GeneratorSteps < 0 {
		return wganErrorf(tag, ErrBadOptions)
	}
	if o.PenaltyWeight < 0 {
		return wganErrorf(tag, ErrBadOptions)
	}
	if o.BatchSize < 1 {
		return wganErrorf(tag, ErrBadOptions)
	}

	return nil
}
