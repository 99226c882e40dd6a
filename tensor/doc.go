// SPDX-License-Identifier: MIT

// Package tensor provides dense, row-major, rank-N float64 tensors and the
// deterministic numeric kernels the rest of the library is built on.
//
// What lives here:
//   - Dense — flat-slice storage with an explicit shape, O(1) indexing.
//   - Element-wise kernels: Add, Sub, Mul, Div, Neg, Scale, AddScalar,
//     Square, Sqrt, Tanh, ReLU.
//   - Linear algebra: MatMul (rank-2, batched rank-3, and batched×shared
//     right-hand side), TransposeLast2.
//   - Shape movement: Reshape, Expand (broadcast), SumTo (its adjoint),
//     Index / Spread (axis slicing and its adjoint).
//   - Reductions: Sum, Mean (arbitrary axis sets, optional kept axes).
//   - Softmax along a chosen axis (numerically stabilized).
//
// Design rules, shared with the rest of the module:
//   - Fail-fast validation: every kernel checks shapes up front and returns
//     a package sentinel wrapped with the operation tag; no panics on user
//     input.
//   - Determinism: fixed loop orders, no global state, no hidden
//     randomness.
//   - Operands are never mutated; every kernel allocates its result.
//
// The package knows nothing about graphs, gradients or models; those
// layers compose these kernels.
package tensor
