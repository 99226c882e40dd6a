// SPDX-License-Identifier: MIT
// Package grad: differentiable operations.
//
// Purpose:
//   - Wrap the tensor kernels into graph-building operations.
//   - Express every backward pass in this same vocabulary so results of
//     Gradients stay differentiable (see package doc).
//
// Conventions:
//   - Binary element-wise ops require identical operand shapes; broadcasts
//     are always explicit through Expand. This keeps every backward pass a
//     one-liner and leaves no implicit-shape surprises.
//   - Each op validates operands first, runs its kernel, then assembles
//     the node. Errors surface the tensor sentinels unchanged.

package grad

import (
	"math/rand"

	"github.com/katalvlaran/molgan/tensor"
)

// Operation name constants for unified error wrapping.
const (
	opVariable  = "Variable"
	opConstant  = "Constant"
	opAdd       = "Add"
	opSub       = "Sub"
	opNeg       = "Neg"
	opMul       = "Mul"
	opDiv       = "Div"
	opScale     = "Scale"
	opAddScalar = "AddScalar"
	opSquare    = "Square"
	opSqrt      = "Sqrt"
	opTanh      = "Tanh"
	opReLU      = "ReLU"
	opMatMul    = "MatMul"
	opTranspose = "TransposeLast2"
	opReshape   = "Reshape"
	opExpand    = "Expand"
	opSumTo     = "SumTo"
	opSum       = "Sum"
	opMean      = "Mean"
	opIndex     = "Index"
	opSpread    = "Spread"
	opSoftmax   = "Softmax"
	opDropout   = "Dropout"
	opGradients = "Gradients"
)

// Add computes a + b (identical shapes).
func Add(a, b *Value) (*Value, error) {
	if err := validateValues(opAdd, a, b); err != nil {
		return nil, err
	}
	out, err := tensor.Add(a.data, b.data)
	if err != nil {
		return nil, gradErrorf(opAdd, err)
	}

	return newNode(out, []*Value{a, b}, func(g *Value) ([]*Value, error) {
		return []*Value{g, g}, nil
	}), nil
}

// Sub computes a - b (identical shapes).
func Sub(a, b *Value) (*Value, error) {
	if err := validateValues(opSub, a, b); err != nil {
		return nil, err
	}
	out, err := tensor.Sub(a.data, b.data)
	if err != nil {
		return nil, gradErrorf(opSub, err)
	}

	return newNode(out, []*Value{a, b}, func(g *Value) ([]*Value, error) {
		ng, err := Neg(g)
		if err != nil {
			return nil, err
		}
		return []*Value{g, ng}, nil
	}), nil
}

// Neg computes -a.
func Neg(a *Value) (*Value, error) {
	if err := validateValues(opNeg, a); err != nil {
		return nil, err
	}
	out, err := tensor.Neg(a.data)
	if err != nil {
		return nil, gradErrorf(opNeg, err)
	}

	return newNode(out, []*Value{a}, func(g *Value) ([]*Value, error) {
		ng, err := Neg(g)
		if err != nil {
			return nil, err
		}
		return []*Value{ng}, nil
	}), nil
}

// Mul computes the element-wise product a * b (identical shapes).
func Mul(a, b *Value) (*Value, error) {
	if err := validateValues(opMul, a, b); err != nil {
		return nil, err
	}
	out, err := tensor.Mul(a.data, b.data)
	if err != nil {
		return nil, gradErrorf(opMul, err)
	}

	return newNode(out, []*Value{a, b}, func(g *Value) ([]*Value, error) {
		ga, err := Mul(g, b)
		if err != nil {
			return nil, err
		}
		gb, err := Mul(g, a)
		if err != nil {
			return nil, err
		}
		return []*Value{ga, gb}, nil
	}), nil
}

// Div computes the element-wise quotient a / b (identical shapes).
func Div(a, b *Value) (*Value, error) {
	if err := validateValues(opDiv, a, b); err != nil {
		return nil, err
	}
	out, err := tensor.Div(a.data, b.data)
	if err != nil {
		return nil, gradErrorf(opDiv, err)
	}

	return newNode(out, []*Value{a, b}, func(g *Value) ([]*Value, error) {
		ga, err := Div(g, b)
		if err != nil {
			return nil, err
		}
		// gb = -g*a / b²
		num, err := Mul(g, a)
		if err != nil {
			return nil, err
		}
		den, err := Mul(b, b)
		if err != nil {
			return nil, err
		}
		q, err := Div(num, den)
		if err != nil {
			return nil, err
		}
		gb, err := Neg(q)
		if err != nil {
			return nil, err
		}
		return []*Value{ga, gb}, nil
	}), nil
}

// Scale computes c * a for a scalar c.
func Scale(a *Value, c float64) (*Value, error) {
	if err := validateValues(opScale, a); err != nil {
		return nil, err
	}
	out, err := tensor.Scale(a.data, c)
	if err != nil {
		return nil, gradErrorf(opScale, err)
	}

	return newNode(out, []*Value{a}, func(g *Value) ([]*Value, error) {
		ga, err := Scale(g, c)
		if err != nil {
			return nil, err
		}
		return []*Value{ga}, nil
	}), nil
}

// AddScalar computes a + c for a scalar c.
func AddScalar(a *Value, c float64) (*Value, error) {
	if err := validateValues(opAddScalar, a); err != nil {
		return nil, err
	}
	out, err := tensor.AddScalar(a.data, c)
	if err != nil {
		return nil, gradErrorf(opAddScalar, err)
	}

	return newNode(out, []*Value{a}, func(g *Value) ([]*Value, error) {
		return []*Value{g}, nil
	}), nil
}

// Square computes a² element-wise.
func Square(a *Value) (*Value, error) {
	if err := validateValues(opSquare, a); err != nil {
		return nil, err
	}
	out, err := tensor.Square(a.data)
	if err != nil {
		return nil, gradErrorf(opSquare, err)
	}

	return newNode(out, []*Value{a}, func(g *Value) ([]*Value, error) {
		twoA, err := Scale(a, 2)
		if err != nil {
			return nil, err
		}
		ga, err := Mul(g, twoA)
		if err != nil {
			return nil, err
		}
		return []*Value{ga}, nil
	}), nil
}

// Sqrt computes √a element-wise. The backward pass divides by the output,
// so a zero input produces an infinite gradient; the penalty path keeps
// its radicand strictly positive.
func Sqrt(a *Value) (*Value, error) {
	if err := validateValues(opSqrt, a); err != nil {
		return nil, err
	}
	out, err := tensor.Sqrt(a.data)
	if err != nil {
		return nil, gradErrorf(opSqrt, err)
	}

	node := newNode(out, []*Value{a}, nil)
	if node.requires {
		node.backward = func(g *Value) ([]*Value, error) {
			half, err := Scale(g, 0.5)
			if err != nil {
				return nil, err
			}
			ga, err := Div(half, node)
			if err != nil {
				return nil, err
			}
			return []*Value{ga}, nil
		}
	}

	return node, nil
}

// Tanh computes tanh(a) element-wise.
func Tanh(a *Value) (*Value, error) {
	if err := validateValues(opTanh, a); err != nil {
		return nil, err
	}
	out, err := tensor.Tanh(a.data)
	if err != nil {
		return nil, gradErrorf(opTanh, err)
	}

	node := newNode(out, []*Value{a}, nil)
	if node.requires {
		node.backward = func(g *Value) ([]*Value, error) {
			// ga = g * (1 - tanh²)
			sq, err := Square(node)
			if err != nil {
				return nil, err
			}
			neg, err := Neg(sq)
			if err != nil {
				return nil, err
			}
			one, err := AddScalar(neg, 1)
			if err != nil {
				return nil, err
			}
			ga, err := Mul(g, one)
			if err != nil {
				return nil, err
			}
			return []*Value{ga}, nil
		}
	}

	return node, nil
}

// ReLU computes max(a, 0) element-wise. The backward mask is captured as
// a constant (the rectifier's almost-everywhere derivative).
func ReLU(a *Value) (*Value, error) {
	if err := validateValues(opReLU, a); err != nil {
		return nil, err
	}
	out, err := tensor.ReLU(a.data)
	if err != nil {
		return nil, gradErrorf(opReLU, err)
	}
	maskT, err := tensor.ReLUMask(a.data)
	if err != nil {
		return nil, gradErrorf(opReLU, err)
	}
	mask := &Value{data: maskT}

	return newNode(out, []*Value{a}, func(g *Value) ([]*Value, error) {
		ga, err := Mul(g, mask)
		if err != nil {
			return nil, err
		}
		return []*Value{ga}, nil
	}), nil
}

// MatMul multiplies over the trailing axes; see tensor.MatMul for the
// supported shape pairings.
func MatMul(a, b *Value) (*Value, error) {
	if err := validateValues(opMatMul, a, b); err != nil {
		return nil, err
	}
	out, err := tensor.MatMul(a.data, b.data)
	if err != nil {
		return nil, gradErrorf(opMatMul, err)
	}

	sharedRHS := a.Rank() == 3 && b.Rank() == 2

	return newNode(out, []*Value{a, b}, func(g *Value) ([]*Value, error) {
		bt, err := TransposeLast2(b)
		if err != nil {
			return nil, err
		}
		ga, err := MatMul(g, bt)
		if err != nil {
			return nil, err
		}

		at, err := TransposeLast2(a)
		if err != nil {
			return nil, err
		}
		gb, err := MatMul(at, g)
		if err != nil {
			return nil, err
		}
		if sharedRHS {
			// The rhs was shared across the batch: fold the batch axis.
			gb, err = Sum(gb, []int{0}, false)
			if err != nil {
				return nil, err
			}
		}
		return []*Value{ga, gb}, nil
	}), nil
}

// TransposeLast2 swaps the trailing two axes.
func TransposeLast2(a *Value) (*Value, error) {
	if err := validateValues(opTranspose, a); err != nil {
		return nil, err
	}
	out, err := tensor.TransposeLast2(a.data)
	if err != nil {
		return nil, gradErrorf(opTranspose, err)
	}

	return newNode(out, []*Value{a}, func(g *Value) ([]*Value, error) {
		ga, err := TransposeLast2(g)
		if err != nil {
			return nil, err
		}
		return []*Value{ga}, nil
	}), nil
}

// Reshape reinterprets a under a new shape of identical total size.
func Reshape(a *Value, shape ...int) (*Value, error) {
	if err := validateValues(opReshape, a); err != nil {
		return nil, err
	}
	out, err := tensor.Reshape(a.data, shape...)
	if err != nil {
		return nil, gradErrorf(opReshape, err)
	}
	src := a.Shape()

	return newNode(out, []*Value{a}, func(g *Value) ([]*Value, error) {
		ga, err := Reshape(g, src...)
		if err != nil {
			return nil, err
		}
		return []*Value{ga}, nil
	}), nil
}

// Expand broadcasts a up to target shape; adjoint of SumTo.
func Expand(a *Value, target ...int) (*Value, error) {
	if err := validateValues(opExpand, a); err != nil {
		return nil, err
	}
	out, err := tensor.Expand(a.data, target...)
	if err != nil {
		return nil, gradErrorf(opExpand, err)
	}
	src := a.Shape()

	return newNode(out, []*Value{a}, func(g *Value) ([]*Value, error) {
		ga, err := SumTo(g, src...)
		if err != nil {
			return nil, err
		}
		return []*Value{ga}, nil
	}), nil
}

// SumTo reduces a down to target shape over broadcast axes; adjoint of
// Expand.
func SumTo(a *Value, target ...int) (*Value, error) {
	if err := validateValues(opSumTo, a); err != nil {
		return nil, err
	}
	out, err := tensor.SumTo(a.data, target...)
	if err != nil {
		return nil, gradErrorf(opSumTo, err)
	}
	src := a.Shape()

	return newNode(out, []*Value{a}, func(g *Value) ([]*Value, error) {
		ga, err := Expand(g, src...)
		if err != nil {
			return nil, err
		}
		return []*Value{ga}, nil
	}), nil
}

// Sum reduces over the given axes (see tensor.Sum for the keep
// convention).
func Sum(a *Value, axes []int, keep bool) (*Value, error) {
	if err := validateValues(opSum, a); err != nil {
		return nil, err
	}
	out, err := tensor.Sum(a.data, axes, keep)
	if err != nil {
		return nil, gradErrorf(opSum, err)
	}

	src := a.Shape()
	// Shape with reduced axes kept at size 1, for re-expanding gradients.
	keptShape := a.Shape()
	for _, ax := range axes {
		keptShape[ax] = 1
	}

	return newNode(out, []*Value{a}, func(g *Value) ([]*Value, error) {
		gk := g
		if !keep {
			var err error
			gk, err = Reshape(g, keptShape...)
			if err != nil {
				return nil, err
			}
		}
		ga, err := Expand(gk, src...)
		if err != nil {
			return nil, err
		}
		return []*Value{ga}, nil
	}), nil
}

// Mean reduces like Sum and divides by the reduced element count.
// Composite: Scale(Sum(...)) — inherits both backward passes.
func Mean(a *Value, axes []int, keep bool) (*Value, error) {
	if err := validateValues(opMean, a); err != nil {
		return nil, err
	}

	count := 1
	shape := a.Shape()
	for _, ax := range axes {
		if ax < 0 || ax >= len(shape) {
			return nil, gradErrorf(opMean, tensor.ErrBadAxis)
		}
		count *= shape[ax]
	}

	s, err := Sum(a, axes, keep)
	if err != nil {
		return nil, gradErrorf(opMean, err)
	}

	return Scale(s, 1/float64(count))
}

// MeanAll reduces every axis to the scalar mean (shape [1]).
func MeanAll(a *Value) (*Value, error) {
	if err := validateValues(opMean, a); err != nil {
		return nil, err
	}
	axes := make([]int, a.Rank())
	for i := range axes {
		axes[i] = i
	}

	return Mean(a, axes, false)
}

// Index selects slice i along axis, dropping the axis; adjoint of Spread.
func Index(a *Value, axis, i int) (*Value, error) {
	if err := validateValues(opIndex, a); err != nil {
		return nil, err
	}
	out, err := tensor.Index(a.data, axis, i)
	if err != nil {
		return nil, gradErrorf(opIndex, err)
	}
	dim := a.Shape()[axis]

	return newNode(out, []*Value{a}, func(g *Value) ([]*Value, error) {
		ga, err := Spread(g, axis, i, dim)
		if err != nil {
			return nil, err
		}
		return []*Value{ga}, nil
	}), nil
}

// Spread inserts an axis of size dim at position axis, placing a at
// index i and zeros elsewhere; adjoint of Index.
func Spread(a *Value, axis, i, dim int) (*Value, error) {
	if err := validateValues(opSpread, a); err != nil {
		return nil, err
	}
	out, err := tensor.Spread(a.data, axis, i, dim)
	if err != nil {
		return nil, gradErrorf(opSpread, err)
	}

	return newNode(out, []*Value{a}, func(g *Value) ([]*Value, error) {
		ga, err := Index(g, axis, i)
		if err != nil {
			return nil, err
		}
		return []*Value{ga}, nil
	}), nil
}

// Softmax normalizes along axis so each slice sums to 1.
func Softmax(a *Value, axis int) (*Value, error) {
	if err := validateValues(opSoftmax, a); err != nil {
		return nil, err
	}
	out, err := tensor.Softmax(a.data, axis)
	if err != nil {
		return nil, gradErrorf(opSoftmax, err)
	}
	shape := a.Shape()

	node := newNode(out, []*Value{a}, nil)
	if node.requires {
		node.backward = func(g *Value) ([]*Value, error) {
			// ga = y * (g - Σ_axis(g*y)), the softmax Jacobian product.
			gy, err := Mul(g, node)
			if err != nil {
				return nil, err
			}
			s, err := Sum(gy, []int{axis}, true)
			if err != nil {
				return nil, err
			}
			sb, err := Expand(s, shape...)
			if err != nil {
				return nil, err
			}
			diff, err := Sub(g, sb)
			if err != nil {
				return nil, err
			}
			ga, err := Mul(node, diff)
			if err != nil {
				return nil, err
			}
			return []*Value{ga}, nil
		}
	}

	return node, nil
}

// Dropout zeroes each element with probability rate and rescales the
// survivors by 1/(1-rate) (inverted dropout). With training=false, or a
// zero rate, it is the identity. The mask is drawn from the supplied
// generator and captured as a constant.
func Dropout(a *Value, rate float64, training bool, rng *rand.Rand) (*Value, error) {
	if err := validateValues(opDropout, a); err != nil {
		return nil, err
	}
	if rate < 0 || rate >= 1 {
		return nil, gradErrorf(opDropout, ErrBadRate)
	}
	if !training || rate == 0 {
		return a, nil
	}
	if rng == nil {
		return nil, gradErrorf(opDropout, ErrNilRand)
	}

	keep := 1 - rate
	maskT, err := tensor.New(a.Shape()...)
	if err != nil {
		return nil, gradErrorf(opDropout, err)
	}
	md := maskT.Data()
	for i := range md {
		if rng.Float64() < keep {
			md[i] = 1 / keep
		}
	}
	mask := &Value{data: maskT}

	return Mul(a, mask)
}
