// SPDX-License-Identifier: MIT
// Package wgan: training metrics.

package wgan

import "github.com/google/uuid"

// StepMetrics carries the per-Step loss summary: running means over the
// phase repetitions within that step.
type StepMetrics struct {
	// Step is the 0-based index within the run (set by Fit; -1 for a
	// standalone Step call).
	Step int
	// CriticLoss is the mean critic objective over the critic phase,
	// penalty term included. NaN when CriticSteps is 0.
	CriticLoss float64
	// Penalty is the mean unweighted gradient penalty over the critic
	// phase. NaN when CriticSteps is 0.
	Penalty float64
	// GeneratorLoss is the mean generator objective over the generator
	// phase. NaN when GeneratorSteps is 0.
	GeneratorLoss float64
}

// History accumulates the metrics of one training run under a unique
// run identifier.
type History struct {
	// RunID identifies the run in logs and downstream tooling.
	RunID uuid.UUID
	// Steps holds one entry per completed Step, in order.
	Steps []StepMetrics
}

// NewHistory starts an empty history with a fresh random run ID.
func NewHistory() *History {
	return &History{RunID: uuid.New()}
}

// Append records m as the next completed step.
func (h *History) Append(m StepMetrics) {
	m.Step = len(h.Steps)
	h.Steps = append(h.Steps, m)
}

// Last returns the most recent entry, or a zero StepMetrics when empty.
func (h *History) Last() StepMetrics {
	if len(h.Steps) == 0 {
		return StepMetrics{}
	}

	return h.Steps[len(h.Steps)-1]
}
