// SPDX-License-Identifier: MIT
// Package wgan: the adversarial trainer.
//
// Purpose:
//   - Drive the alternating critic/generator optimization over real
//     graph batches.
//
// Design:
//   - Generator and Critic are interfaces so tests can substitute fixed
//     networks; model.Generator and model.Discriminator satisfy them.
//   - Each phase computes its full loss, verifies loss and gradients are
//     finite, and only then lets the optimizer touch parameters. The
//     critic phase detaches generated inputs, so the two parameter sets
//     never see each other's updates.
//
// Determinism: all randomness (latent draws, interpolation α, dropout)
// comes from the single rng handed to NewTrainer.

package wgan

import (
	"context"
	"math"
	"math/rand"

	"github.com/katalvlaran/molgan/grad"
	"github.com/katalvlaran/molgan/graph"
	"github.com/katalvlaran/molgan/optim"
	"github.com/katalvlaran/molgan/tensor"
)

// Generator is the trainer's view of a graph generator.
type Generator interface {
	// SampleLatent draws a (batch, D) latent noise Value from rng.
	SampleLatent(batch int, rng *rand.Rand) (*grad.Value, error)
	// Forward maps latent noise to relaxed adjacency (B, R, N, N) and
	// features (B, N, F) inside the grad graph.
	Forward(z *grad.Value, training bool, rng *rand.Rand) (adj, feat *grad.Value, err error)
	// Params returns the learnable parameter Values.
	Params() []*grad.Value
}

// Critic is the trainer's view of a Wasserstein critic.
type Critic interface {
	// Score maps adjacency and features to a (B, 1) score Value.
	Score(adj, feat *grad.Value, training bool, rng *rand.Rand) (*grad.Value, error)
	// Params returns the learnable parameter Values.
	Params() []*grad.Value
}

// Trainer runs WGAN-GP training steps over a generator/critic pair.
type Trainer struct {
	gen       Generator
	critic    Critic
	genOpt    optim.Optimizer
	criticOpt optim.Optimizer
	opts      Options
	rng       *rand.Rand
	history   *History
}

// NewTrainer wires the models, their optimizers and the options into a
// trainer. Every argument is required; rng seeds all randomness.
func NewTrainer(gen Generator, critic Critic, genOpt, criticOpt optim.Optimizer, opts Options, rng *rand.Rand) (*Trainer, error) {
	const tag = "NewTrainer"
	if gen == nil || critic == nil || genOpt == nil || criticOpt == nil {
		return nil, wganErrorf(tag, ErrNilModel)
	}
	if rng == nil {
		return nil, wganErrorf(tag, ErrNilRand)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Trainer{
		gen:       gen,
		critic:    critic,
		genOpt:    genOpt,
		criticOpt: criticOpt,
		opts:      opts,
		rng:       rng,
		history:   NewHistory(),
	}, nil
}

// History returns the accumulated run metrics.
func (t *Trainer) History() *History { return t.history }

// Step runs one full training step against the real batch: CriticSteps
// critic updates followed by GeneratorSteps generator updates, each on
// freshly sampled latent noise. A non-finite loss or gradient aborts
// the step with ErrNonFinite before any parameter of the failing phase
// is touched.
func (t *Trainer) Step(real *graph.Batch) (StepMetrics, error) {
	const tag = "Trainer.Step"
	m := StepMetrics{Step: -1, CriticLoss: math.NaN(), Penalty: math.NaN(), GeneratorLoss: math.NaN()}
	if real == nil {
		return m, wganErrorf(tag, graph.ErrNilBatch)
	}

	if t.opts.CriticSteps > 0 {
		var lossSum, penSum float64
		for i := 0; i < t.opts.CriticSteps; i++ {
			loss, pen, err := t.criticUpdate(real)
			if err != nil {
				return m, err
			}
			lossSum += loss
			penSum += pen
		}
		m.CriticLoss = lossSum / float64(t.opts.CriticSteps)
		m.Penalty = penSum / float64(t.opts.CriticSteps)
	}

	if t.opts.GeneratorSteps > 0 {
		var lossSum float64
		for i := 0; i < t.opts.GeneratorSteps; i++ {
			loss, err := t.generatorUpdate(real.Size())
			if err != nil {
				return m, err
			}
			lossSum += loss
		}
		m.GeneratorLoss = lossSum / float64(t.opts.GeneratorSteps)
	}

	if t.opts.Logger != nil {
		t.opts.Logger.Debug("wgan step",
			"run", t.history.RunID.String(),
			"critic_loss", m.CriticLoss,
			"penalty", m.Penalty,
			"generator_loss", m.GeneratorLoss,
		)
	}

	return m, nil
}

// criticUpdate runs one critic optimization step and returns the critic
// loss and the unweighted penalty.
func (t *Trainer) criticUpdate(real *graph.Batch) (loss, pen float64, err error) {
	const tag = "Trainer.criticUpdate"
	nan := math.NaN()

	fakeAdj, fakeFeat, err := t.generate(real.Size())
	if err != nil {
		return nan, nan, wganErrorf(tag, err)
	}
	// Detach: the critic phase must never propagate into the generator.
	fakeAdj = fakeAdj.Detach()
	fakeFeat = fakeFeat.Detach()

	realAdj, err := grad.Constant(real.Adjacency)
	if err != nil {
		return nan, nan, wganErrorf(tag, err)
	}
	realFeat, err := grad.Constant(real.Features)
	if err != nil {
		return nan, nan, wganErrorf(tag, err)
	}

	scoreF, err := t.critic.Score(fakeAdj, fakeFeat, true, t.rng)
	if err != nil {
		return nan, nan, wganErrorf(tag, err)
	}
	scoreR, err := t.critic.Score(realAdj, realFeat, true, t.rng)
	if err != nil {
		return nan, nan, wganErrorf(tag, err)
	}
	mf, err := grad.MeanAll(scoreF)
	if err != nil {
		return nan, nan, wganErrorf(tag, err)
	}
	mr, err := grad.MeanAll(scoreR)
	if err != nil {
		return nan, nan, wganErrorf(tag, err)
	}
	base, err := grad.Sub(mf, mr)
	if err != nil {
		return nan, nan, wganErrorf(tag, err)
	}

	penalty, err := GradientPenalty(t.critic,
		real.Adjacency, real.Features,
		fakeAdj.Data(), fakeFeat.Data(), t.rng)
	if err != nil {
		return nan, nan, wganErrorf(tag, err)
	}
	weighted, err := grad.Scale(penalty, t.opts.PenaltyWeight)
	if err != nil {
		return nan, nan, wganErrorf(tag, err)
	}
	total, err := grad.Add(base, weighted)
	if err != nil {
		return nan, nan, wganErrorf(tag, err)
	}

	if err := t.applyGradients(total, t.critic.Params(), t.criticOpt); err != nil {
		return nan, nan, wganErrorf(tag, err)
	}

	return total.Item(), penalty.Item(), nil
}

// generatorUpdate runs one generator optimization step and returns the
// generator loss.
func (t *Trainer) generatorUpdate(batch int) (float64, error) {
	const tag = "Trainer.generatorUpdate"
	nan := math.NaN()

	fakeAdj, fakeFeat, err := t.generate(batch)
	if err != nil {
		return nan, wganErrorf(tag, err)
	}
	score, err := t.critic.Score(fakeAdj, fakeFeat, true, t.rng)
	if err != nil {
		return nan, wganErrorf(tag, err)
	}
	ms, err := grad.MeanAll(score)
	if err != nil {
		return nan, wganErrorf(tag, err)
	}
	loss, err := grad.Neg(ms)
	if err != nil {
		return nan, wganErrorf(tag, err)
	}

	if err := t.applyGradients(loss, t.gen.Params(), t.genOpt); err != nil {
		return nan, wganErrorf(tag, err)
	}

	return loss.Item(), nil
}

// generate samples fresh latent noise and runs the generator forward in
// training mode.
func (t *Trainer) generate(batch int) (adj, feat *grad.Value, err error) {
	z, err := t.gen.SampleLatent(batch, t.rng)
	if err != nil {
		return nil, nil, err
	}

	return t.gen.Forward(z, true, t.rng)
}

// applyGradients verifies the loss and all gradients are finite, then
// hands them to the optimizer. Nothing is applied on failure.
func (t *Trainer) applyGradients(loss *grad.Value, params []*grad.Value, opt optim.Optimizer) error {
	if err := tensor.CheckFinite(loss.Data()); err != nil {
		return wganErrorf("applyGradients", ErrNonFinite)
	}

	gs, err := grad.Gradients(loss, params...)
	if err != nil {
		return err
	}
	for _, g := range gs {
		if err := tensor.CheckFinite(g.Data()); err != nil {
			return wganErrorf("applyGradients", ErrNonFinite)
		}
	}

	return opt.Step(params, gs)
}

// Fit pulls Options.BatchSize-sized batches from supplier and runs
// steps full training steps, recording each in the history. Context
// cancellation is honored between steps only; a step in flight always
// completes.
func (t *Trainer) Fit(ctx context.Context, supplier graph.Supplier, steps int) error {
	const tag = "Trainer.Fit"
	if supplier == nil {
		return wganErrorf(tag, ErrNilModel)
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return wganErrorf(tag, ctx.Err())
		default:
		}

		real, err := supplier.Next(t.opts.BatchSize)
		if err != nil {
			return wganErrorf(tag, err)
		}
		m, err := t.Step(real)
		if err != nil {
			return wganErrorf(tag, err)
		}
		t.history.Append(m)

		if t.opts.Logger != nil {
			t.opts.Logger.Info("wgan fit step",
				"run", t.history.RunID.String(),
				"step", i,
				"critic_loss", m.CriticLoss,
				"generator_loss", m.GeneratorLoss,
			)
		}
	}

	return nil
}
