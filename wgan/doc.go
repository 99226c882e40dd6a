// SPDX-License-Identifier: MIT

// Package wgan implements Wasserstein adversarial training with gradient
// penalty for graph generators.
//
// The Trainer alternates two phases per Step. The critic phase scores a
// fresh generated batch against the supplied real batch and minimizes
//
//	mean(critic(fake)) − mean(critic(real)) + λ·penalty
//
// updating only the critic's parameters; generated inputs are detached
// so generator parameters stay untouched. The generator phase minimizes
// −mean(critic(fake)) updating only the generator's parameters. Each
// phase count is configurable, including zero.
//
// The gradient penalty interpolates real and fake inputs with a per
// example α ~ U[0,1], differentiates the critic's score with respect to
// the interpolated adjacency and features, and penalizes the deviation
// of the per-node gradient norms from 1. Because the gradients returned
// by grad.Gradients remain differentiable, the penalty participates in
// the critic's own gradient like any other loss term.
//
// Losses and gradients are checked for NaN/Inf before any optimizer
// update; a non-finite value fails the step with ErrNonFinite and the
// failing phase applies nothing.
//
// The caller owns the training loop. Fit is a convenience wrapper that
// pulls batches from a graph.Supplier and honors context cancellation
// between steps; a step in flight is never interrupted.
package wgan
