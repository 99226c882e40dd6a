// SPDX-License-Identifier: MIT

// Package model assembles the layer building blocks into the two
// adversarial networks: a Generator that maps latent noise to continuous
// relaxed molecular graphs, and a Discriminator (critic) that scores
// graph batches with a single unbounded real value.
//
// Both networks are configured through plain option structs with a
// DefaultConfig constructor; Validate rejects a config before any
// allocation happens. All randomness — weight initialization, latent
// sampling, dropout masks — flows through explicitly passed *rand.Rand
// generators, so runs are reproducible from a seed.
//
// The Generator's outputs stay continuous during training: adjacency
// cells are softmax-normalized over the relation axis after
// symmetrization, feature rows over the feature axis. Discretization
// belongs to mol.Codec and never enters a gradient computation.
package model
