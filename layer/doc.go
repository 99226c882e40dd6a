// SPDX-License-Identifier: MIT

// Package layer provides the learnable building blocks the models are
// composed from: a fully-connected Dense layer and the relational graph
// convolution RelGraphConv.
//
// Composition is explicit function composition: a layer exposes a pure
// Forward transform plus the parameter Values it owns, and callers chain
// Forward calls and activations themselves — there is no layer-graph
// builder. Activations are a small enum so configurations stay plain
// data.
//
// Weight initialization takes an explicitly passed *rand.Rand; nothing
// in the package touches global random state.
//
// RelGraphConv semantics: per relation channel r, neighbor aggregation
// adj[:,r] @ h followed by a relation-specific linear map W[r], summed
// over r, optional per-relation bias, then the configured activation.
// There is no degree normalization and no self-loop term: the adjacency
// may be a continuous generator output where degrees are ill-defined,
// and a self-loop term would let a critic reward self-bonding.
package layer
