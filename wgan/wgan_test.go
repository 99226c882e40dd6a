// SPDX-License-Identifier: MIT

package wgan_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/molgan/grad"
	"github.com/katalvlaran/molgan/graph"
	"github.com/katalvlaran/molgan/model"
	"github.com/katalvlaran/molgan/optim"
	"github.com/katalvlaran/molgan/tensor"
	"github.com/katalvlaran/molgan/wgan"
)

var dims = graph.Dims{Relations: 2, Nodes: 2, Features: 2}

func newRand(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

// linearCritic scores a graph as Σ wA·adj + Σ wF·feat: its input
// gradient is the constant weight tensor, which makes penalty values
// exactly predictable.
type linearCritic struct {
	wA *grad.Value // (R, N, N)
	wF *grad.Value // (N, F)
}

func newLinearCritic(t *testing.T, aVal, fVal float64) *linearCritic {
	t.Helper()
	aT, err := tensor.Full(aVal, dims.Relations, dims.Nodes, dims.Nodes)
	require.NoError(t, err)
	fT, err := tensor.Full(fVal, dims.Nodes, dims.Features)
	require.NoError(t, err)
	wA, err := grad.Variable(aT)
	require.NoError(t, err)
	wF, err := grad.Variable(fT)
	require.NoError(t, err)

	return &linearCritic{wA: wA, wF: wF}
}

func (c *linearCritic) Score(adj, feat *grad.Value, _ bool, _ *rand.Rand) (*grad.Value, error) {
	batch := adj.Shape()[0]

	we, err := grad.Expand(c.wA, adj.Shape()...)
	if err != nil {
		return nil, err
	}
	ma, err := grad.Mul(adj, we)
	if err != nil {
		return nil, err
	}
	sa, err := grad.Sum(ma, []int{1, 2, 3}, false)
	if err != nil {
		return nil, err
	}

	fe, err := grad.Expand(c.wF, feat.Shape()...)
	if err != nil {
		return nil, err
	}
	mf, err := grad.Mul(feat, fe)
	if err != nil {
		return nil, err
	}
	sf, err := grad.Sum(mf, []int{1, 2}, false)
	if err != nil {
		return nil, err
	}

	s, err := grad.Add(sa, sf)
	if err != nil {
		return nil, err
	}

	return grad.Reshape(s, batch, 1)
}

func (c *linearCritic) Params() []*grad.Value { return []*grad.Value{c.wA, c.wF} }

// randomBatch produces a valid stochastic batch from a throwaway
// generator.
func randomBatch(t *testing.T, size int, seed int64) *graph.Batch {
	t.Helper()
	g, err := model.NewGenerator(model.GeneratorConfig{
		Dims: dims, LatentSize: 4, Hidden: []int{8},
	}, newRand(seed))
	require.NoError(t, err)
	b, err := g.Generate(size, newRand(seed+1))
	require.NoError(t, err)

	return b
}

func smallGenerator(t *testing.T, seed int64) *model.Generator {
	t.Helper()
	g, err := model.NewGenerator(model.GeneratorConfig{
		Dims: dims, LatentSize: 4, Hidden: []int{8},
	}, newRand(seed))
	require.NoError(t, err)

	return g
}

func smallDiscriminator(t *testing.T, seed int64) *model.Discriminator {
	t.Helper()
	d, err := model.NewDiscriminator(model.DiscriminatorConfig{
		Dims: dims, GraphHidden: []int{4}, DenseHidden: []int{4},
	}, newRand(seed))
	require.NoError(t, err)

	return d
}

func sgd(t *testing.T, rate float64) *optim.SGD {
	t.Helper()
	s, err := optim.NewSGD(rate)
	require.NoError(t, err)

	return s
}

func cloneParams(ps []*grad.Value) [][]float64 {
	out := make([][]float64, len(ps))
	for i, p := range ps {
		out[i] = append([]float64(nil), p.Data().Data()...)
	}

	return out
}

func TestGradientPenalty_ZeroCritic(t *testing.T) {
	t.Parallel()

	// A zero critic has zero input gradients, so each norm term deviates
	// from 1 by exactly 1: the penalty is 2.
	c := newLinearCritic(t, 0, 0)
	real := randomBatch(t, 3, 1)
	fake := randomBatch(t, 3, 2)

	pen, err := wgan.GradientPenalty(c,
		real.Adjacency, real.Features,
		fake.Adjacency, fake.Features, newRand(3))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, pen.Item(), 1e-4)
}

func TestGradientPenalty_UnitNormCritic(t *testing.T) {
	t.Parallel()

	// Weights chosen so the per-node gradient norms are exactly 1: the
	// adjacency norm spans (relations × first node axis), the feature
	// norm the feature axis.
	aVal := 1 / math.Sqrt(float64(dims.Relations*dims.Nodes))
	fVal := 1 / math.Sqrt(float64(dims.Features))
	c := newLinearCritic(t, aVal, fVal)
	real := randomBatch(t, 4, 1)
	fake := randomBatch(t, 4, 2)

	pen, err := wgan.GradientPenalty(c,
		real.Adjacency, real.Features,
		fake.Adjacency, fake.Features, newRand(3))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, pen.Item(), 1e-9)
}

func TestGradientPenalty_SwapInvariantForLinearCritic(t *testing.T) {
	t.Parallel()

	// A linear critic has a constant input gradient, so the penalty does
	// not depend on the interpolation point at all: swapping real and
	// fake changes nothing even under different α draws.
	c := newLinearCritic(t, 0.3, -0.2)
	a := randomBatch(t, 3, 1)
	b := randomBatch(t, 3, 2)

	p1, err := wgan.GradientPenalty(c, a.Adjacency, a.Features, b.Adjacency, b.Features, newRand(5))
	require.NoError(t, err)
	p2, err := wgan.GradientPenalty(c, b.Adjacency, b.Features, a.Adjacency, a.Features, newRand(6))
	require.NoError(t, err)
	assert.InDelta(t, p1.Item(), p2.Item(), 1e-12)
}

// quadraticCritic scores a graph as 0.5·(Σ adj² + Σ feat²): its input
// gradient is the interpolated input itself, which exposes the
// interpolation point to the penalty.
type quadraticCritic struct{}

func (quadraticCritic) Score(adj, feat *grad.Value, _ bool, _ *rand.Rand) (*grad.Value, error) {
	batch := adj.Shape()[0]

	qa, err := grad.Square(adj)
	if err != nil {
		return nil, err
	}
	sa, err := grad.Sum(qa, []int{1, 2, 3}, false)
	if err != nil {
		return nil, err
	}
	qf, err := grad.Square(feat)
	if err != nil {
		return nil, err
	}
	sf, err := grad.Sum(qf, []int{1, 2}, false)
	if err != nil {
		return nil, err
	}
	s, err := grad.Add(sa, sf)
	if err != nil {
		return nil, err
	}
	s, err = grad.Scale(s, 0.5)
	if err != nil {
		return nil, err
	}

	return grad.Reshape(s, batch, 1)
}

func (quadraticCritic) Params() []*grad.Value { return nil }

func TestGradientPenalty_MatchesDirectComputation(t *testing.T) {
	t.Parallel()

	// Recompute the penalty by hand from the same α draw. The quadratic
	// critic's input gradient equals the interpolation α·real + (1−α)·fake,
	// so this pins the interpolation orientation, the per-node norm axes
	// and the final mean in one go.
	real := randomBatch(t, 1, 1)
	fake := randomBatch(t, 1, 2)

	pen, err := wgan.GradientPenalty(quadraticCritic{},
		real.Adjacency, real.Features,
		fake.Adjacency, fake.Features, newRand(9))
	require.NoError(t, err)

	alpha := newRand(9).Float64()
	interp := func(r, f float64) float64 { return alpha*r + (1-alpha)*f }

	want := 0.0
	for j := 0; j < dims.Nodes; j++ {
		sa := 0.0
		for r := 0; r < dims.Relations; r++ {
			for i := 0; i < dims.Nodes; i++ {
				rv, err := real.Adjacency.At(0, r, i, j)
				require.NoError(t, err)
				fv, err := fake.Adjacency.At(0, r, i, j)
				require.NoError(t, err)
				v := interp(rv, fv)
				sa += v * v
			}
		}
		sf := 0.0
		for f := 0; f < dims.Features; f++ {
			rv, err := real.Features.At(0, j, f)
			require.NoError(t, err)
			fv, err := fake.Features.At(0, j, f)
			require.NoError(t, err)
			v := interp(rv, fv)
			sf += v * v
		}
		want += math.Pow(math.Sqrt(sa)-1, 2) + math.Pow(math.Sqrt(sf)-1, 2)
	}
	want /= float64(dims.Nodes)

	assert.InDelta(t, want, pen.Item(), 1e-9)
}

// baseLoss computes mean(c(fake)) − mean(c(real)) the way the critic
// phase does.
func baseLoss(t *testing.T, c wgan.Critic, real, fake *graph.Batch) float64 {
	t.Helper()

	adjR, err := grad.Constant(real.Adjacency)
	require.NoError(t, err)
	featR, err := grad.Constant(real.Features)
	require.NoError(t, err)
	adjF, err := grad.Constant(fake.Adjacency)
	require.NoError(t, err)
	featF, err := grad.Constant(fake.Features)
	require.NoError(t, err)

	sf, err := c.Score(adjF, featF, false, nil)
	require.NoError(t, err)
	sr, err := c.Score(adjR, featR, false, nil)
	require.NoError(t, err)
	mf, err := grad.MeanAll(sf)
	require.NoError(t, err)
	mr, err := grad.MeanAll(sr)
	require.NoError(t, err)
	d, err := grad.Sub(mf, mr)
	require.NoError(t, err)

	return d.Item()
}

func TestCriticBaseLoss_SignFlipsUnderSwap(t *testing.T) {
	t.Parallel()

	c := newLinearCritic(t, 0.3, -0.2)
	a := randomBatch(t, 3, 1)
	b := randomBatch(t, 3, 2)

	l := baseLoss(t, c, a, b)
	swapped := baseLoss(t, c, b, a)
	assert.NotZero(t, l)
	assert.InDelta(t, -l, swapped, 1e-12)
}

func TestGradientPenalty_NonNegative(t *testing.T) {
	t.Parallel()

	c := smallDiscriminator(t, 7)
	real := randomBatch(t, 3, 1)
	fake := randomBatch(t, 3, 2)

	pen, err := wgan.GradientPenalty(c,
		real.Adjacency, real.Features,
		fake.Adjacency, fake.Features, newRand(3))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pen.Item(), 0.0)
}

func TestGradientPenalty_IsDifferentiable(t *testing.T) {
	t.Parallel()

	// The penalty must flow into the critic's own gradient: second-order
	// differentiation through the input-gradient computation.
	c := smallDiscriminator(t, 7)
	real := randomBatch(t, 2, 1)
	fake := randomBatch(t, 2, 2)

	pen, err := wgan.GradientPenalty(c,
		real.Adjacency, real.Features,
		fake.Adjacency, fake.Features, newRand(3))
	require.NoError(t, err)

	gs, err := grad.Gradients(pen, c.Params()...)
	require.NoError(t, err)
	require.Len(t, gs, len(c.Params()))
	nonZero := false
	for _, g := range gs {
		require.NoError(t, tensor.CheckFinite(g.Data()))
		for _, v := range g.Data().Data() {
			if v != 0 {
				nonZero = true
			}
		}
	}
	assert.True(t, nonZero, "penalty gradient must reach the critic weights")
}

func TestGradientPenalty_BatchMismatch(t *testing.T) {
	t.Parallel()

	c := newLinearCritic(t, 0, 0)
	real := randomBatch(t, 2, 1)
	fake := randomBatch(t, 3, 2)

	_, err := wgan.GradientPenalty(c,
		real.Adjacency, real.Features,
		fake.Adjacency, fake.Features, newRand(3))
	assert.ErrorIs(t, err, wgan.ErrBatchSize)
}

func TestTrainer_ZeroCriticStepLoss(t *testing.T) {
	t.Parallel()

	// Zero critic: base loss 0, penalty 2, so the critic loss is exactly
	// the penalty weight times 2.
	gen := smallGenerator(t, 1)
	critic := newLinearCritic(t, 0, 0)

	opts := wgan.DefaultOptions()
	opts.GeneratorSteps = 0
	tr, err := wgan.NewTrainer(gen, critic, sgd(t, 1e-3), sgd(t, 1e-3), opts, newRand(2))
	require.NoError(t, err)

	m, err := tr.Step(randomBatch(t, 3, 3))
	require.NoError(t, err)
	assert.InDelta(t, opts.PenaltyWeight*2, m.CriticLoss, 1e-3)
	assert.InDelta(t, 2.0, m.Penalty, 1e-4)
	assert.True(t, math.IsNaN(m.GeneratorLoss), "skipped phase reports NaN")
}

func TestTrainer_CriticPhaseLeavesGeneratorUntouched(t *testing.T) {
	t.Parallel()

	gen := smallGenerator(t, 1)
	critic := smallDiscriminator(t, 2)
	before := cloneParams(gen.Params())
	criticBefore := cloneParams(critic.Params())

	opts := wgan.DefaultOptions()
	opts.GeneratorSteps = 0
	tr, err := wgan.NewTrainer(gen, critic, sgd(t, 0.01), sgd(t, 0.01), opts, newRand(3))
	require.NoError(t, err)

	_, err = tr.Step(randomBatch(t, 3, 4))
	require.NoError(t, err)

	for i, p := range gen.Params() {
		assert.Equal(t, before[i], p.Data().Data(), "generator param %d must be bit-identical", i)
	}
	changed := false
	for i, p := range critic.Params() {
		if !assert.ObjectsAreEqual(criticBefore[i], p.Data().Data()) {
			changed = true
		}
	}
	assert.True(t, changed, "critic params must move")
}

func TestTrainer_GeneratorPhaseLeavesCriticUntouched(t *testing.T) {
	t.Parallel()

	gen := smallGenerator(t, 1)
	critic := smallDiscriminator(t, 2)
	before := cloneParams(critic.Params())
	genBefore := cloneParams(gen.Params())

	opts := wgan.DefaultOptions()
	opts.CriticSteps = 0
	tr, err := wgan.NewTrainer(gen, critic, sgd(t, 0.01), sgd(t, 0.01), opts, newRand(3))
	require.NoError(t, err)

	m, err := tr.Step(randomBatch(t, 3, 4))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(m.CriticLoss))

	for i, p := range critic.Params() {
		assert.Equal(t, before[i], p.Data().Data(), "critic param %d must be bit-identical", i)
	}
	changed := false
	for i, p := range gen.Params() {
		if !assert.ObjectsAreEqual(genBefore[i], p.Data().Data()) {
			changed = true
		}
	}
	assert.True(t, changed, "generator params must move")
}

func TestTrainer_NonFiniteCriticFailsStep(t *testing.T) {
	t.Parallel()

	gen := smallGenerator(t, 1)
	critic := newLinearCritic(t, 0.1, 0.1)
	critic.Params()[0].Data().Data()[0] = math.NaN()
	genBefore := cloneParams(gen.Params())

	tr, err := wgan.NewTrainer(gen, critic, sgd(t, 0.01), sgd(t, 0.01), wgan.DefaultOptions(), newRand(2))
	require.NoError(t, err)

	_, err = tr.Step(randomBatch(t, 2, 3))
	assert.ErrorIs(t, err, wgan.ErrNonFinite)

	// The failing step applied nothing to the generator either.
	for i, p := range gen.Params() {
		assert.Equal(t, genBefore[i], p.Data().Data())
	}
}

func TestTrainer_Fit(t *testing.T) {
	t.Parallel()

	gen := smallGenerator(t, 1)
	critic := smallDiscriminator(t, 2)

	// Dataset: five valid stochastic examples.
	data := randomBatch(t, 5, 3)
	sup, err := graph.NewSliceSupplier(data.Adjacency, data.Features, dims, newRand(4))
	require.NoError(t, err)

	opts := wgan.DefaultOptions()
	opts.BatchSize = 2
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	tr, err := wgan.NewTrainer(gen, critic, sgd(t, 1e-3), sgd(t, 1e-3), opts, newRand(5))
	require.NoError(t, err)

	require.NoError(t, tr.Fit(context.Background(), sup, 3))
	h := tr.History()
	require.Len(t, h.Steps, 3)
	for i, m := range h.Steps {
		assert.Equal(t, i, m.Step)
		assert.False(t, math.IsNaN(m.CriticLoss))
		assert.False(t, math.IsNaN(m.GeneratorLoss))
	}
}

func TestTrainer_FitHonorsCancellation(t *testing.T) {
	t.Parallel()

	gen := smallGenerator(t, 1)
	critic := smallDiscriminator(t, 2)
	data := randomBatch(t, 4, 3)
	sup, err := graph.NewSliceSupplier(data.Adjacency, data.Features, dims, newRand(4))
	require.NoError(t, err)

	opts := wgan.DefaultOptions()
	opts.BatchSize = 2
	tr, err := wgan.NewTrainer(gen, critic, sgd(t, 1e-3), sgd(t, 1e-3), opts, newRand(5))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = tr.Fit(ctx, sup, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, tr.History().Steps)
}

func TestNewTrainer_Validation(t *testing.T) {
	t.Parallel()

	gen := smallGenerator(t, 1)
	critic := smallDiscriminator(t, 2)

	_, err := wgan.NewTrainer(nil, critic, sgd(t, 1e-3), sgd(t, 1e-3), wgan.DefaultOptions(), newRand(1))
	assert.ErrorIs(t, err, wgan.ErrNilModel)
	_, err = wgan.NewTrainer(gen, critic, sgd(t, 1e-3), sgd(t, 1e-3), wgan.DefaultOptions(), nil)
	assert.ErrorIs(t, err, wgan.ErrNilRand)

	bad := wgan.DefaultOptions()
	bad.PenaltyWeight = -1
	_, err = wgan.NewTrainer(gen, critic, sgd(t, 1e-3), sgd(t, 1e-3), bad, newRand(1))
	assert.ErrorIs(t, err, wgan.ErrBadOptions)
}

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, wgan.DefaultOptions().Validate())

	o := wgan.DefaultOptions()
	o.CriticSteps = -1
	assert.ErrorIs(t, o.Validate(), wgan.ErrBadOptions)

	o = wgan.DefaultOptions()
	o.BatchSize = 0
	assert.ErrorIs(t, o.Validate(), wgan.ErrBadOptions)
}
