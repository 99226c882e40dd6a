// SPDX-License-Identifier: MIT

// Package graph defines the batched molecular-graph data model shared by
// the generator, the critic and the trainer.
//
// A Batch pairs two tensors over a fixed geometry Dims{R, N, F}:
//   - Adjacency, shape (B, R, N, N): R bond-relation channels (the last
//     one is the "no bond" sentinel), symmetric in the trailing two axes,
//     one-hot along the channel axis for discrete data and a categorical
//     distribution per (i, j) cell for generator output.
//   - Features, shape (B, N, F): one row per node slot over F atom
//     categories (the last one is the "no atom" sentinel).
//
// Validation comes in two strengths:
//   - ValidateOneHot — discrete datasets: every row/cell is exactly
//     one-hot (within epsilon) and the adjacency is symmetric.
//   - ValidateStochastic — continuous (generator) output: rows/cells sum
//     to 1 and the adjacency is symmetric, without the hard {0,1}
//     requirement.
//
// The Supplier interface delivers equal-sized real batches each training
// step; SliceSupplier is the in-memory implementation with an explicitly
// threaded random generator.
package graph
