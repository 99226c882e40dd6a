// SPDX-License-Identifier: MIT
// Package wgan: the gradient penalty.
//
// Purpose:
//   - Softly enforce the critic's 1-Lipschitz constraint by penalizing
//     input-gradient norms away from 1 on real/fake interpolations.
//
// Notes:
//   - The interpolated inputs are fresh Variable leaves: the penalty
//     differentiates the critic with respect to its inputs, and that
//     result is then differentiated again with respect to the critic's
//     weights by the caller.
//   - Norms are taken per node: the adjacency gradient is reduced over
//     the relation axis and the first node axis, the feature gradient
//     over the feature axis, each yielding a (B, N) norm field.

package wgan

import (
	"math/rand"

	"github.com/katalvlaran/molgan/grad"
	"github.com/katalvlaran/molgan/tensor"
)

// normEpsilon keeps the radicand of the norm strictly positive so the
// square root stays differentiable at a zero gradient.
const normEpsilon = 1e-12

// GradientPenalty interpolates the real and fake inputs with a per
// example α ~ U[0,1] drawn from rng, scores the interpolation with c,
// and returns the scalar mean over (batch, node) of
// (‖∇adj‖−1)² + (‖∇feat‖−1)².
//
// Adjacency inputs must share the shape (B, R, N, N) and features
// (B, N, F); differing batch sizes fail with ErrBatchSize.
// Complexity: two critic passes (forward plus input-gradient sweep) on
// one batch.
func GradientPenalty(c Critic, realAdj, realFeat, fakeAdj, fakeFeat *tensor.Dense, rng *rand.Rand) (*grad.Value, error) {
	const tag = "GradientPenalty"
	if c == nil {
		return nil, wganErrorf(tag, ErrNilModel)
	}
	if rng == nil {
		return nil, wganErrorf(tag, ErrNilRand)
	}
	if err := tensor.ValidateNotNil(realAdj, realFeat, fakeAdj, fakeFeat); err != nil {
		return nil, wganErrorf(tag, err)
	}
	batch := realAdj.Shape()[0]
	if fakeAdj.Shape()[0] != batch || realFeat.Shape()[0] != batch || fakeFeat.Shape()[0] != batch {
		return nil, wganErrorf(tag, ErrBatchSize)
	}
	if err := tensor.ValidateSameShape(realAdj, fakeAdj); err != nil {
		return nil, wganErrorf(tag, err)
	}
	if err := tensor.ValidateSameShape(realFeat, fakeFeat); err != nil {
		return nil, wganErrorf(tag, err)
	}

	// One α per example, shared between adjacency and features.
	alphas := make([]float64, batch)
	for i := range alphas {
		alphas[i] = rng.Float64()
	}

	xA, err := interpolate(realAdj, fakeAdj, alphas)
	if err != nil {
		return nil, wganErrorf(tag, err)
	}
	xF, err := interpolate(realFeat, fakeFeat, alphas)
	if err != nil {
		return nil, wganErrorf(tag, err)
	}

	score, err := c.Score(xA, xF, false, nil)
	if err != nil {
		return nil, wganErrorf(tag, err)
	}

	// Per-example input gradients; the ones seed over (B, 1) scores keeps
	// examples unscaled.
	gs, err := grad.Gradients(score, xA, xF)
	if err != nil {
		return nil, wganErrorf(tag, err)
	}

	nA, err := gradNorm(gs[0], []int{1, 2})
	if err != nil {
		return nil, wganErrorf(tag, err)
	}
	nF, err := gradNorm(gs[1], []int{2})
	if err != nil {
		return nil, wganErrorf(tag, err)
	}

	dA, err := deviation(nA)
	if err != nil {
		return nil, wganErrorf(tag, err)
	}
	dF, err := deviation(nF)
	if err != nil {
		return nil, wganErrorf(tag, err)
	}
	sum, err := grad.Add(dA, dF)
	if err != nil {
		return nil, wganErrorf(tag, err)
	}

	pen, err := grad.MeanAll(sum)
	if err != nil {
		return nil, wganErrorf(tag, err)
	}

	return pen, nil
}

// interpolate returns α·real + (1−α)·fake as a tracked leaf, with α
// broadcast per example over the trailing axes.
func interpolate(real, fake *tensor.Dense, alphas []float64) (*grad.Value, error) {
	out := real.Clone()
	od := out.Data()
	fd := fake.Data()
	stride := len(od) / len(alphas)
	for b, a := range alphas {
		lo := b * stride
		for i := lo; i < lo+stride; i++ {
			od[i] = fd[i] + a*(od[i]-fd[i])
		}
	}

	return grad.Variable(out)
}

// gradNorm computes the Euclidean norm of g over axes, keeping the
// remaining (B, N) field.
func gradNorm(g *grad.Value, axes []int) (*grad.Value, error) {
	sq, err := grad.Square(g)
	if err != nil {
		return nil, err
	}
	s, err := grad.Sum(sq, axes, false)
	if err != nil {
		return nil, err
	}
	s, err = grad.AddScalar(s, normEpsilon)
	if err != nil {
		return nil, err
	}

	return grad.Sqrt(s)
}

// deviation computes (n − 1)² element-wise.
func deviation(n *grad.Value) (*grad.Value, error) {
	d, err := grad.AddScalar(n, -1)
	if err != nil {
		return nil, err
	}

	return grad.Square(d)
}
