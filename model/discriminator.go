// SPDX-License-Identifier: MIT
// Package model: the critic network.
//
// Purpose:
//   - Score graph batches with a single unbounded real value per
//     example, on one-hot data and on continuous interpolations alike.
//
// Design:
//   - RelGraphConv stack sharing the adjacency across layers while the
//     node features evolve, mean-pooled over nodes into a graph
//     embedding, then a ReLU dense stack with dropout and a final bare
//     linear unit. No output activation: Wasserstein scores are
//     unbounded.

package model

import (
	"math/rand"

	"github.com/katalvlaran/molgan/grad"
	"github.com/katalvlaran/molgan/graph"
	"github.com/katalvlaran/molgan/layer"
)

// DiscriminatorConfig parameterizes NewDiscriminator.
type DiscriminatorConfig struct {
	// Dims is the expected graph geometry.
	Dims graph.Dims
	// GraphHidden lists the RGCN output widths, input to output.
	GraphHidden []int
	// DenseHidden lists the post-pooling dense widths.
	DenseHidden []int
	// Dropout is the drop probability in the dense stack, in [0, 1).
	Dropout float64
}

// DefaultDiscriminatorConfig returns the configuration used by the CLI:
// two 32-wide convolutions and a 64-wide dense layer, no dropout.
func DefaultDiscriminatorConfig(dims graph.Dims) DiscriminatorConfig {
	return DiscriminatorConfig{
		Dims:        dims,
		GraphHidden: []int{32, 32},
		DenseHidden: []int{64},
	}
}

// Validate reports whether the configuration is usable.
func (c DiscriminatorConfig) Validate() error {
	const tag = "DiscriminatorConfig.Validate"
	if err := c.Dims.Validate(); err != nil {
		return modelErrorf(tag, err)
	}
	if len(c.GraphHidden) == 0 {
		return modelErrorf(tag, ErrBadConfig)
	}
	for _, w := range append(append([]int{}, c.GraphHidden...), c.DenseHidden...) {
		if w <= 0 {
			return modelErrorf(tag, ErrBadConfig)
		}
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return modelErrorf(tag, ErrBadConfig)
	}

	return nil
}

// Discriminator is the Wasserstein critic: adjacency (B, R, N, N) and
// features (B, N, F) in, score (B, 1) out.
type Discriminator struct {
	cfg   DiscriminatorConfig
	convs []*layer.RelGraphConv
	dense []*layer.Dense
	head  *layer.Dense
}

// NewDiscriminator builds the network with Glorot-initialized weights
// drawn from rng.
func NewDiscriminator(cfg DiscriminatorConfig, rng *rand.Rand) (*Discriminator, error) {
	const tag = "NewDiscriminator"
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, modelErrorf(tag, ErrNilRand)
	}

	d := &Discriminator{cfg: cfg}
	in := cfg.Dims.Features
	for _, out := range cfg.GraphHidden {
		conv, err := layer.NewRelGraphConv(cfg.Dims.Relations, in, out, layer.ReLU, true, rng)
		if err != nil {
			return nil, modelErrorf(tag, err)
		}
		d.convs = append(d.convs, conv)
		in = out
	}

	for _, out := range cfg.DenseHidden {
		dl, err := layer.NewDense(in, out, layer.ReLU, rng)
		if err != nil {
			return nil, modelErrorf(tag, err)
		}
		d.dense = append(d.dense, dl)
		in = out
	}

	head, err := layer.NewDense(in, 1, layer.None, rng)
	if err != nil {
		return nil, modelErrorf(tag, err)
	}
	d.head = head

	return d, nil
}

// Dims returns the configured graph geometry.
func (d *Discriminator) Dims() graph.Dims { return d.cfg.Dims }

// Score runs the critic on a (possibly continuous) graph, returning the
// (B, 1) score Value. training enables dropout in the dense stack (rng
// may be nil when dropout is off or training is false).
func (d *Discriminator) Score(adj, feat *grad.Value, training bool, rng *rand.Rand) (*grad.Value, error) {
	const tag = "Discriminator.Score"

	h := feat
	var err error
	for _, conv := range d.convs {
		if h, err = conv.Forward(adj, h); err != nil {
			return nil, modelErrorf(tag, err)
		}
	}

	// Mean pool over the node axis: (B, N, F') → (B, F').
	if h, err = grad.Mean(h, []int{1}, false); err != nil {
		return nil, modelErrorf(tag, err)
	}

	for _, dl := range d.dense {
		if h, err = dl.Forward(h); err != nil {
			return nil, modelErrorf(tag, err)
		}
		if h, err = grad.Dropout(h, d.cfg.Dropout, training, rng); err != nil {
			return nil, modelErrorf(tag, err)
		}
	}

	out, err := d.head.Forward(h)
	if err != nil {
		return nil, modelErrorf(tag, err)
	}

	return out, nil
}

// Params returns every learnable Value of the network, in construction
// order.
func (d *Discriminator) Params() []*grad.Value {
	var ps []*grad.Value
	for _, conv := range d.convs {
		ps = append(ps, conv.Params()...)
	}
	for _, dl := range d.dense {
		ps = append(ps, dl.Params()...)
	}
	ps = append(ps, d.head.Params()...)

	return ps
}
