// SPDX-License-Identifier: MIT
// Package layer: weight initialization.
// Initializers are an enum resolved by NewWeights, so layer
// configurations remain plain data and every random draw flows through
// the caller's generator.

package layer

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/molgan/grad"
	"github.com/katalvlaran/molgan/tensor"
)

// Init selects a weight-initialization scheme.
//
//   - Zeros          — all zeros; the default for biases.
//   - GlorotUniform  — U(-l, l) with l = √(6/(fanIn+fanOut)); the
//     default for weight matrices.
//   - SmallUniform   — U(-0.05, 0.05); occasionally useful in tests to
//     decouple magnitudes from fan sizes.
type Init int

const (
	Zeros Init = iota
	GlorotUniform
	SmallUniform
)

// smallUniformLimit bounds the SmallUniform draw.
const smallUniformLimit = 0.05

// NewWeights allocates a tracked parameter Value of the given shape,
// filled by the selected scheme. fanIn/fanOut feed GlorotUniform; the
// other schemes ignore them.
// Stage 1 (Validate): shape entries, enum value, rng presence for the
// random schemes.
// Stage 2 (Execute): fill the flat buffer in index order (deterministic
// for a fixed seed).
// Complexity: O(prod(shape)) time and space.
func NewWeights(init Init, rng *rand.Rand, shape []int, fanIn, fanOut int) (*grad.Value, error) {
	const tag = "NewWeights"

	t, err := tensor.New(shape...)
	if err != nil {
		return nil, layerErrorf(tag, err)
	}

	switch init {
	case Zeros:
		// zero value already in place

	case GlorotUniform:
		if rng == nil {
			return nil, layerErrorf(tag, ErrNilRand)
		}
		if fanIn <= 0 || fanOut <= 0 {
			return nil, layerErrorf(tag, ErrBadDims)
		}
		limit := math.Sqrt(6 / float64(fanIn+fanOut))
		data := t.Data()
		for i := range data {
			data[i] = (rng.Float64()*2 - 1) * limit
		}

	case SmallUniform:
		if rng == nil {
			return nil, layerErrorf(tag, ErrNilRand)
		}
		data := t.Data()
		for i := range data {
			data[i] = (rng.Float64()*2 - 1) * smallUniformLimit
		}

	default:
		return nil, layerErrorf(tag, ErrBadInit)
	}

	return grad.Variable(t)
}
