// Package molgan trains Wasserstein GANs with gradient penalty over
// relational molecular graphs — from tensor kernels and reverse-mode
// autodiff to adversarial training and molecule decoding.
//
// 🚀 What is molgan?
//
//	A pure-Go library that brings together:
//		• Tensor kernels: dense row-major tensors, batched matmul, reductions
//		• Autodiff: eager expression graph with differentiable gradients
//		  (second order, as the gradient penalty requires)
//		• Graph batches: relational adjacency + node features, validated
//		• Layers: Dense and relational graph convolution
//		• Models: graph generator & Wasserstein critic
//		• Training: WGAN-GP trainer with per-phase optimizers
//		• Molecules: one-hot codec between molecules and graph tensors
//
// ✨ Why choose molgan?
//
//   - Deterministic – every random draw flows through an explicit *rand.Rand
//   - Rock-solid guarantees – sentinel errors, validated options, no panics
//     on user input
//   - Pure Go numerics – no cgo, no accelerator dependency
//   - Testable – critics and generators are interfaces, easily substituted
//
// Under the hood, everything is organized per concern:
//
//	tensor/ — dense tensors, element-wise kernels, matmul, reductions
//	grad/   — Values, differentiable ops, reverse-mode Gradients
//	graph/  — Dims, Batch, validation, batch suppliers
//	mol/    — Molecule, one-hot Encoder, sanitizing Decoder
//	layer/  — Dense, RelGraphConv, initializers, activations
//	model/  — Generator and Discriminator networks
//	optim/  — SGD and Adam
//	wgan/   — gradient penalty, Trainer, run history
//	config/ — YAML experiment files
//	cmds/   — the molgan CLI (train, sample)
//
// Quick sketch of a training step:
//
//	fake ← generator(z)                        z ~ N(0, I)
//	L_c  ← mean c(fake) − mean c(real) + λ·gp
//	L_g  ← −mean c(fake)
//
// Dive into the package docs for the exact penalty definition and the
// trainer's phase semantics.
//
//	go get github.com/katalvlaran/molgan
package molgan
