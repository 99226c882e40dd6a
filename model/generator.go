// SPDX-License-Identifier: MIT
// Package model: the graph generator.
//
// Purpose:
//   - Map standard-normal latent vectors to continuous relaxed graph
//     batches suitable both for critic scoring and for decoding.
//
// Design:
//   - Tanh-activated dense stack with inverted dropout between layers,
//     then two linear heads: one reshaped to the adjacency tensor and
//     symmetrized before its relation-axis softmax, one reshaped to the
//     feature tensor with a feature-axis softmax.
//   - Forward keeps everything in the grad graph; Generate detaches for
//     inspection and decoding.

package model

import (
	"math/rand"

	"github.com/katalvlaran/molgan/grad"
	"github.com/katalvlaran/molgan/graph"
	"github.com/katalvlaran/molgan/layer"
	"github.com/katalvlaran/molgan/tensor"
)

// GeneratorConfig parameterizes NewGenerator.
type GeneratorConfig struct {
	// Dims is the target graph geometry.
	Dims graph.Dims
	// LatentSize is the width D of the noise input.
	LatentSize int
	// Hidden lists the widths of the tanh dense stack, input to output.
	Hidden []int
	// Dropout is the drop probability between hidden layers, in [0, 1).
	Dropout float64
}

// DefaultGeneratorConfig returns the configuration used by the CLI:
// latent width 32, hidden stack 64→128, no dropout.
func DefaultGeneratorConfig(dims graph.Dims) GeneratorConfig {
	return GeneratorConfig{
		Dims:       dims,
		LatentSize: 32,
		Hidden:     []int{64, 128},
	}
}

// Validate reports whether the configuration is usable.
func (c GeneratorConfig) Validate() error {
	const tag = "GeneratorConfig.Validate"
	if err := c.Dims.Validate(); err != nil {
		return modelErrorf(tag, err)
	}
	if c.LatentSize <= 0 || len(c.Hidden) == 0 {
		return modelErrorf(tag, ErrBadConfig)
	}
	for _, w := range c.Hidden {
		if w <= 0 {
			return modelErrorf(tag, ErrBadConfig)
		}
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return modelErrorf(tag, ErrBadConfig)
	}

	return nil
}

// Generator maps latent noise (B, LatentSize) to a relaxed graph batch:
// adjacency (B, R, N, N) stochastic over relations and symmetric, and
// features (B, N, F) stochastic over the feature axis.
type Generator struct {
	cfg      GeneratorConfig
	hidden   []*layer.Dense
	adjHead  *layer.Dense
	featHead *layer.Dense
}

// NewGenerator builds the network with Glorot-initialized weights drawn
// from rng.
func NewGenerator(cfg GeneratorConfig, rng *rand.Rand) (*Generator, error) {
	const tag = "NewGenerator"
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, modelErrorf(tag, ErrNilRand)
	}

	g := &Generator{cfg: cfg}
	in := cfg.LatentSize
	for _, out := range cfg.Hidden {
		d, err := layer.NewDense(in, out, layer.Tanh, rng)
		if err != nil {
			return nil, modelErrorf(tag, err)
		}
		g.hidden = append(g.hidden, d)
		in = out
	}

	dims := cfg.Dims
	adjHead, err := layer.NewDense(in, dims.Relations*dims.Nodes*dims.Nodes, layer.None, rng)
	if err != nil {
		return nil, modelErrorf(tag, err)
	}
	featHead, err := layer.NewDense(in, dims.Nodes*dims.Features, layer.None, rng)
	if err != nil {
		return nil, modelErrorf(tag, err)
	}
	g.adjHead = adjHead
	g.featHead = featHead

	return g, nil
}

// Dims returns the configured graph geometry.
func (g *Generator) Dims() graph.Dims { return g.cfg.Dims }

// LatentSize returns the noise width D.
func (g *Generator) LatentSize() int { return g.cfg.LatentSize }

// SampleLatent draws a (batch, LatentSize) standard-normal noise tensor
// from rng, wrapped as an untracked Value.
func (g *Generator) SampleLatent(batch int, rng *rand.Rand) (*grad.Value, error) {
	const tag = "Generator.SampleLatent"
	if batch <= 0 {
		return nil, modelErrorf(tag, ErrBadBatch)
	}
	if rng == nil {
		return nil, modelErrorf(tag, ErrNilRand)
	}

	t, err := tensor.New(batch, g.cfg.LatentSize)
	if err != nil {
		return nil, modelErrorf(tag, err)
	}
	data := t.Data()
	for i := range data {
		data[i] = rng.NormFloat64()
	}

	z, err := grad.Constant(t)
	if err != nil {
		return nil, modelErrorf(tag, err)
	}

	return z, nil
}

// Forward runs the network on latent z, returning the relaxed adjacency
// and feature Values inside the grad graph. training enables dropout
// (rng may be nil when dropout is off or training is false).
// Complexity: dominated by the dense stack, O(B·Σ in·out).
func (g *Generator) Forward(z *grad.Value, training bool, rng *rand.Rand) (adj, feat *grad.Value, err error) {
	const tag = "Generator.Forward"

	h := z
	for _, d := range g.hidden {
		if h, err = d.Forward(h); err != nil {
			return nil, nil, modelErrorf(tag, err)
		}
		if h, err = grad.Dropout(h, g.cfg.Dropout, training, rng); err != nil {
			return nil, nil, modelErrorf(tag, err)
		}
	}

	if adj, err = g.adjacencyHead(h); err != nil {
		return nil, nil, modelErrorf(tag, err)
	}
	if feat, err = g.featureHead(h); err != nil {
		return nil, nil, modelErrorf(tag, err)
	}

	return adj, feat, nil
}

// adjacencyHead maps the shared hidden state to the symmetric stochastic
// adjacency (B, R, N, N).
func (g *Generator) adjacencyHead(h *grad.Value) (*grad.Value, error) {
	dims := g.cfg.Dims
	batch := h.Shape()[0]

	a, err := g.adjHead.Forward(h)
	if err != nil {
		return nil, err
	}
	if a, err = grad.Reshape(a, batch, dims.Relations, dims.Nodes, dims.Nodes); err != nil {
		return nil, err
	}

	// Symmetrize the logits: (T + Tᵀ)/2 over the node axes, so symmetry
	// holds exactly and survives the relation-axis softmax.
	at, err := grad.TransposeLast2(a)
	if err != nil {
		return nil, err
	}
	if a, err = grad.Add(a, at); err != nil {
		return nil, err
	}
	if a, err = grad.Scale(a, 0.5); err != nil {
		return nil, err
	}

	return grad.Softmax(a, 1)
}

// featureHead maps the shared hidden state to the stochastic feature
// matrix (B, N, F).
func (g *Generator) featureHead(h *grad.Value) (*grad.Value, error) {
	dims := g.cfg.Dims
	batch := h.Shape()[0]

	f, err := g.featHead.Forward(h)
	if err != nil {
		return nil, err
	}
	if f, err = grad.Reshape(f, batch, dims.Nodes, dims.Features); err != nil {
		return nil, err
	}

	return grad.Softmax(f, 2)
}

// Generate samples batch latent vectors from rng, runs the network in
// inference mode and returns the result as a detached graph.Batch.
func (g *Generator) Generate(batch int, rng *rand.Rand) (*graph.Batch, error) {
	const tag = "Generator.Generate"

	z, err := g.SampleLatent(batch, rng)
	if err != nil {
		return nil, modelErrorf(tag, err)
	}
	adj, feat, err := g.Forward(z, false, nil)
	if err != nil {
		return nil, modelErrorf(tag, err)
	}

	b, err := graph.NewBatch(adj.Data().Clone(), feat.Data().Clone(), g.cfg.Dims)
	if err != nil {
		return nil, modelErrorf(tag, err)
	}

	return b, nil
}

// Params returns every learnable Value of the network, in construction
// order.
func (g *Generator) Params() []*grad.Value {
	var ps []*grad.Value
	for _, d := range g.hidden {
		ps = append(ps, d.Params()...)
	}
	ps = append(ps, g.adjHead.Params()...)
	ps = append(ps, g.featHead.Params()...)

	return ps
}
