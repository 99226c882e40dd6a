// SPDX-License-Identifier: MIT

package layer_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/molgan/grad"
	"github.com/katalvlaran/molgan/layer"
	"github.com/katalvlaran/molgan/tensor"
)

func newRand() *rand.Rand { return rand.New(rand.NewSource(42)) }

// setParam overwrites a parameter's buffer with known values.
func setParam(t *testing.T, p *grad.Value, vals ...float64) {
	t.Helper()
	data := p.Data().Data()
	require.Len(t, vals, len(data))
	copy(data, vals)
}

func TestNewWeights_Schemes(t *testing.T) {
	t.Parallel()

	z, err := layer.NewWeights(layer.Zeros, nil, []int{2, 3}, 0, 0)
	require.NoError(t, err)
	for _, v := range z.Data().Data() {
		assert.Equal(t, 0.0, v)
	}

	g, err := layer.NewWeights(layer.GlorotUniform, newRand(), []int{4, 5}, 4, 5)
	require.NoError(t, err)
	limit := math.Sqrt(6.0 / 9.0)
	for _, v := range g.Data().Data() {
		assert.LessOrEqual(t, math.Abs(v), limit)
	}
	assert.True(t, g.RequiresGrad())

	// Same seed, same draw.
	g2, err := layer.NewWeights(layer.GlorotUniform, newRand(), []int{4, 5}, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, g.Data().Data(), g2.Data().Data())
}

func TestNewWeights_Rejections(t *testing.T) {
	t.Parallel()

	_, err := layer.NewWeights(layer.GlorotUniform, nil, []int{2, 2}, 2, 2)
	assert.ErrorIs(t, err, layer.ErrNilRand)

	_, err = layer.NewWeights(layer.GlorotUniform, newRand(), []int{2, 2}, 0, 2)
	assert.ErrorIs(t, err, layer.ErrBadDims)

	_, err = layer.NewWeights(layer.Init(99), newRand(), []int{2}, 1, 1)
	assert.ErrorIs(t, err, layer.ErrBadInit)
}

func TestActivation_Apply(t *testing.T) {
	t.Parallel()

	in, err := tensor.FromSlice([]float64{-2, 0, 3}, 3)
	require.NoError(t, err)
	x, err := grad.Constant(in)
	require.NoError(t, err)

	y, err := layer.None.Apply(x)
	require.NoError(t, err)
	assert.Same(t, x, y, "identity passes the node through")

	y, err = layer.ReLU.Apply(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 3}, y.Data().Data())

	y, err = layer.Tanh.Apply(x)
	require.NoError(t, err)
	assert.InDelta(t, math.Tanh(-2), y.Data().Data()[0], 1e-12)

	_, err = layer.Activation(99).Apply(x)
	assert.ErrorIs(t, err, layer.ErrBadActivation)
}

func TestDense_Forward(t *testing.T) {
	t.Parallel()

	d, err := layer.NewDense(2, 2, layer.None, newRand())
	require.NoError(t, err)
	ps := d.Params()
	require.Len(t, ps, 2)
	setParam(t, ps[0], 1, 2, 3, 4) // W = [[1,2],[3,4]]
	setParam(t, ps[1], 10, 20)     // b

	xt, err := tensor.FromSlice([]float64{1, 1}, 1, 2)
	require.NoError(t, err)
	x, err := grad.Constant(xt)
	require.NoError(t, err)

	y, err := d.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, y.Shape())
	assert.Equal(t, []float64{14, 26}, y.Data().Data())
}

func TestDense_ForwardBatched(t *testing.T) {
	t.Parallel()

	// Rank-3 input shares W across the batch.
	d, err := layer.NewDense(2, 1, layer.ReLU, newRand())
	require.NoError(t, err)
	setParam(t, d.Params()[0], 1, -1) // W = [[1],[-1]]
	setParam(t, d.Params()[1], 0)

	xt, err := tensor.FromSlice([]float64{3, 1, 1, 3}, 2, 1, 2)
	require.NoError(t, err)
	x, err := grad.Constant(xt)
	require.NoError(t, err)

	y, err := d.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 1}, y.Shape())
	// Example 0: 3-1=2; example 1: 1-3=-2 rectified to 0.
	assert.Equal(t, []float64{2, 0}, y.Data().Data())
}

func TestDense_Gradients(t *testing.T) {
	t.Parallel()

	d, err := layer.NewDense(2, 2, layer.None, newRand())
	require.NoError(t, err)
	setParam(t, d.Params()[0], 1, 2, 3, 4)
	setParam(t, d.Params()[1], 0, 0)

	xt, err := tensor.FromSlice([]float64{1, 1}, 1, 2)
	require.NoError(t, err)
	x, err := grad.Constant(xt)
	require.NoError(t, err)

	y, err := d.Forward(x)
	require.NoError(t, err)
	loss, err := grad.MeanAll(y)
	require.NoError(t, err)

	gs, err := grad.Gradients(loss, d.Params()...)
	require.NoError(t, err)
	require.Len(t, gs, 2)
	// d mean / dW[i][j] = x[i]/2 = 0.5 everywhere for x = [1,1].
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, gs[0].Data().Data())
	assert.Equal(t, []float64{0.5, 0.5}, gs[1].Data().Data())
}

func TestDense_BadDims(t *testing.T) {
	t.Parallel()

	_, err := layer.NewDense(0, 2, layer.None, newRand())
	assert.ErrorIs(t, err, layer.ErrBadDims)
	_, err = layer.NewDense(2, -1, layer.None, newRand())
	assert.ErrorIs(t, err, layer.ErrBadDims)
}

func TestRelGraphConv_Forward(t *testing.T) {
	t.Parallel()

	// B=1, R=2, N=2, in=out=1 — small enough to check by hand.
	l, err := layer.NewRelGraphConv(2, 1, 1, layer.None, true, newRand())
	require.NoError(t, err)
	ps := l.Params()
	require.Len(t, ps, 2)
	setParam(t, ps[0], 1, 10)  // W[0]=1, W[1]=10
	setParam(t, ps[1], 0.5, 0) // b[0]=0.5, b[1]=0

	// Relation 0 connects the two nodes both ways; relation 1 has a single
	// self-edge on node 1.
	adjT, err := tensor.FromSlice([]float64{
		0, 1, 1, 0, // r=0
		0, 0, 0, 1, // r=1
	}, 1, 2, 2, 2)
	require.NoError(t, err)
	adj, err := grad.Constant(adjT)
	require.NoError(t, err)

	hT, err := tensor.FromSlice([]float64{2, 3}, 1, 2, 1)
	require.NoError(t, err)
	h, err := grad.Constant(hT)
	require.NoError(t, err)

	y, err := l.Forward(adj, h)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 1}, y.Shape())
	// node 0: (adj0@h)=3, ·W0 + b0 = 3.5; r=1 contributes 0.
	// node 1: r=0 gives 2·1+0.5 = 2.5; r=1 gives 3·10+0 = 30.
	assert.Equal(t, []float64{3.5, 32.5}, y.Data().Data())
}

func TestRelGraphConv_Gradients(t *testing.T) {
	t.Parallel()

	l, err := layer.NewRelGraphConv(2, 1, 1, layer.None, true, newRand())
	require.NoError(t, err)
	setParam(t, l.Params()[0], 1, 10)
	setParam(t, l.Params()[1], 0.5, 0)

	adjT, err := tensor.FromSlice([]float64{
		0, 1, 1, 0,
		0, 0, 0, 1,
	}, 1, 2, 2, 2)
	require.NoError(t, err)
	adj, err := grad.Constant(adjT)
	require.NoError(t, err)
	hT, err := tensor.FromSlice([]float64{2, 3}, 1, 2, 1)
	require.NoError(t, err)
	h, err := grad.Constant(hT)
	require.NoError(t, err)

	y, err := l.Forward(adj, h)
	require.NoError(t, err)
	loss, err := grad.MeanAll(y)
	require.NoError(t, err)

	gs, err := grad.Gradients(loss, l.Params()...)
	require.NoError(t, err)
	// dL/dW[r] = mean over nodes of the relation's aggregation:
	// r=0 aggregates [3, 2] → 2.5; r=1 aggregates [0, 3] → 1.5.
	assert.Equal(t, []float64{2.5, 1.5}, gs[0].Data().Data())
	// Bias reaches every node once: 2 nodes / mean over 2 = 1 per channel.
	assert.Equal(t, []float64{1, 1}, gs[1].Data().Data())
}

func TestRelGraphConv_NoBias(t *testing.T) {
	t.Parallel()

	l, err := layer.NewRelGraphConv(2, 3, 4, layer.ReLU, false, newRand())
	require.NoError(t, err)
	assert.Len(t, l.Params(), 1)
}

func TestRelGraphConv_BadDims(t *testing.T) {
	t.Parallel()

	_, err := layer.NewRelGraphConv(0, 1, 1, layer.None, false, newRand())
	assert.ErrorIs(t, err, layer.ErrBadDims)
	_, err = layer.NewRelGraphConv(2, 1, 0, layer.None, false, newRand())
	assert.ErrorIs(t, err, layer.ErrBadDims)
}
