// SPDX-License-Identifier: MIT

// Package optim provides the gradient-descent optimizers used by the
// trainer: plain SGD and Adam.
//
// An Optimizer applies one update to a parameter list given a matching
// gradient list, mutating the parameter tensors in place. State-carrying
// optimizers (Adam) key their moment buffers by parameter identity, so a
// single optimizer instance must stay paired with one parameter set for
// its lifetime.
package optim
