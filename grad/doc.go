// SPDX-License-Identifier: MIT

// Package grad implements reverse-mode automatic differentiation over
// tensor.Dense values.
//
// Model:
//   - A Value wraps a tensor and, when produced by an operation, records
//     its parents plus a backward function. Building an expression eagerly
//     builds the differentiation graph; there is no global tape and no
//     package-level mutable state.
//   - Gradients(y, xs...) walks the graph once in reverse topological
//     order and returns ∂y/∂x for each requested x. When y is not scalar
//     the gradient of its element sum is taken (the usual vector seed of
//     ones).
//
// Higher-order differentiation:
//   - Every backward function is expressed in the same operation
//     vocabulary, so the Values returned by Gradients are themselves
//     differentiable. The Wasserstein gradient penalty depends on this:
//     it differentiates the critic with respect to its inputs and then
//     differentiates *that* result with respect to the critic weights.
//
// Scoping:
//   - The recording "region" is simply the lifetime of the Values built
//     inside it; dropping the last reference releases the whole graph.
//     Nothing is retained between training steps.
//
// Randomness (Dropout) takes an explicit *rand.Rand; no hidden global
// generator is consulted anywhere in the package.
package grad
