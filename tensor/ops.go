// SPDX-License-Identifier: MIT
// Package tensor: element-wise and linear-algebra kernels.
//
// Purpose:
//   - Provide the deterministic numeric kernels composed by the grad
//     package into differentiable operations.
//   - Keep every loop order fixed and every result freshly allocated, so
//     kernels are safe to call from any composition order.
//
// Notes:
//   - All kernels use the central validators and wrap sentinels with the
//     operation tag via tensorErrorf.
//   - MatMul supports the three shape pairings the models need:
//     (m,k)@(k,n), (B,m,k)@(B,k,n), and (B,m,k)@(k,n) with a shared
//     right-hand side. Anything else is ErrShapeMismatch/ErrRank.

package tensor

import "math"

// ewBinary computes out[i] = f(a[i], b[i]) with fail-fast validation.
// Single flat pass, deterministic. Time O(n), Space O(n).
func ewBinary(tag string, a, b *Dense, f func(x, y float64) float64) (*Dense, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, tensorErrorf(tag, err)
	}

	out := &Dense{shape: cloneInts(a.shape), data: make([]float64, len(a.data))}
	for i := range a.data {
		out.data[i] = f(a.data[i], b.data[i])
	}

	return out, nil
}

// ewUnary computes out[i] = f(a[i]). Time O(n), Space O(n).
func ewUnary(tag string, a *Dense, f func(x float64) float64) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, tensorErrorf(tag, err)
	}

	out := &Dense{shape: cloneInts(a.shape), data: make([]float64, len(a.data))}
	for i := range a.data {
		out.data[i] = f(a.data[i])
	}

	return out, nil
}

// Add computes the element-wise sum a + b.
func Add(a, b *Dense) (*Dense, error) {
	return ewBinary(opAdd, a, b, func(x, y float64) float64 { return x + y })
}

// Sub computes the element-wise difference a - b.
func Sub(a, b *Dense) (*Dense, error) {
	return ewBinary(opSub, a, b, func(x, y float64) float64 { return x - y })
}

// Mul computes the element-wise (Hadamard) product a * b.
func Mul(a, b *Dense) (*Dense, error) {
	return ewBinary(opMul, a, b, func(x, y float64) float64 { return x * y })
}

// Div computes the element-wise quotient a / b. Division by zero follows
// IEEE-754 (±Inf/NaN); callers that need finiteness run CheckFinite after.
func Div(a, b *Dense) (*Dense, error) {
	return ewBinary(opDiv, a, b, func(x, y float64) float64 { return x / y })
}

// Neg computes the element-wise negation -a.
func Neg(a *Dense) (*Dense, error) {
	return ewUnary(opNeg, a, func(x float64) float64 { return -x })
}

// Scale computes the element-wise product c * a for a scalar c.
func Scale(a *Dense, c float64) (*Dense, error) {
	return ewUnary(opScale, a, func(x float64) float64 { return c * x })
}

// AddScalar computes the element-wise sum a + c for a scalar c.
func AddScalar(a *Dense, c float64) (*Dense, error) {
	return ewUnary(opAddScalar, a, func(x float64) float64 { return x + c })
}

// Square computes the element-wise square a².
func Square(a *Dense) (*Dense, error) {
	return ewUnary(opSquare, a, func(x float64) float64 { return x * x })
}

// Sqrt computes the element-wise square root. Negative inputs yield NaN
// per IEEE-754; the gradient-penalty path guards its radicand to be ≥ 0.
func Sqrt(a *Dense) (*Dense, error) {
	return ewUnary(opSqrt, a, math.Sqrt)
}

// Tanh computes the element-wise hyperbolic tangent.
func Tanh(a *Dense) (*Dense, error) {
	return ewUnary(opTanh, a, math.Tanh)
}

// ReLU computes the element-wise rectifier max(x, 0).
func ReLU(a *Dense) (*Dense, error) {
	return ewUnary(opReLU, a, func(x float64) float64 { return math.Max(x, 0) })
}

// ReLUMask returns the {0,1} indicator of a > 0, the rectifier's
// almost-everywhere derivative. The mask is a constant with respect to
// differentiation.
func ReLUMask(a *Dense) (*Dense, error) {
	return ewUnary(opReLUMask, a, func(x float64) float64 {
		if x > 0 {
			return 1
		}
		return 0
	})
}

// MatMul multiplies over the last axis of a and the second-to-last of b.
// Supported pairings:
//   - rank-2 × rank-2: (m,k)@(k,n) → (m,n)
//   - rank-3 × rank-3: (B,m,k)@(B,k,n) → (B,m,n), equal batch
//   - rank-3 × rank-2: (B,m,k)@(k,n) → (B,m,n), shared right-hand side
//
// Stage 1 (Validate): ranks, inner sizes and batch sizes.
// Stage 2 (Execute): classic i→j→l loops per batch over flat buffers.
// Complexity: O(B·m·k·n) time, O(B·m·n) space.
func MatMul(a, b *Dense) (*Dense, error) {
	if err := ValidateNotNil(a, b); err != nil {
		return nil, tensorErrorf(opMatMul, err)
	}

	switch {
	case a.Rank() == 2 && b.Rank() == 2:
		m, k, k2, n := a.shape[0], a.shape[1], b.shape[0], b.shape[1]
		if k != k2 {
			return nil, tensorErrorf(opMatMul, ErrShapeMismatch)
		}
		out := &Dense{shape: []int{m, n}, data: make([]float64, m*n)}
		matmulFlat(out.data, a.data, b.data, m, k, n)
		return out, nil

	case a.Rank() == 3 && b.Rank() == 3:
		bt, m, k := a.shape[0], a.shape[1], a.shape[2]
		if b.shape[0] != bt || b.shape[1] != k {
			return nil, tensorErrorf(opMatMul, ErrShapeMismatch)
		}
		n := b.shape[2]
		out := &Dense{shape: []int{bt, m, n}, data: make([]float64, bt*m*n)}
		for i := 0; i < bt; i++ {
			matmulFlat(out.data[i*m*n:(i+1)*m*n], a.data[i*m*k:(i+1)*m*k], b.data[i*k*n:(i+1)*k*n], m, k, n)
		}
		return out, nil

	case a.Rank() == 3 && b.Rank() == 2:
		bt, m, k := a.shape[0], a.shape[1], a.shape[2]
		if b.shape[0] != k {
			return nil, tensorErrorf(opMatMul, ErrShapeMismatch)
		}
		n := b.shape[1]
		out := &Dense{shape: []int{bt, m, n}, data: make([]float64, bt*m*n)}
		for i := 0; i < bt; i++ {
			matmulFlat(out.data[i*m*n:(i+1)*m*n], a.data[i*m*k:(i+1)*m*k], b.data, m, k, n)
		}
		return out, nil

	default:
		return nil, tensorErrorf(opMatMul, ErrRank)
	}
}

// matmulFlat computes out = a @ b on flat row-major buffers.
// out must be zeroed, len(out)=m*n, len(a)=m*k, len(b)=k*n.
// Loop order i→l→j keeps the inner loop sequential in both out and b.
func matmulFlat(out, a, b []float64, m, k, n int) {
	for i := 0; i < m; i++ {
		for l := 0; l < k; l++ {
			av := a[i*k+l]
			if av == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out[i*n+j] += av * b[l*n+j]
			}
		}
	}
}

// TransposeLast2 swaps the trailing two axes; leading axes are preserved.
// Rank must be >= 2 (ErrRank otherwise).
// Complexity: O(size) time and space.
func TransposeLast2(a *Dense) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, tensorErrorf(opTranspose, err)
	}
	if a.Rank() < 2 {
		return nil, tensorErrorf(opTranspose, ErrRank)
	}

	r := a.Rank()
	m, n := a.shape[r-2], a.shape[r-1]
	batch := len(a.data) / (m * n)

	shape := cloneInts(a.shape)
	shape[r-2], shape[r-1] = n, m
	out := &Dense{shape: shape, data: make([]float64, len(a.data))}

	for bIdx := 0; bIdx < batch; bIdx++ {
		src := a.data[bIdx*m*n : (bIdx+1)*m*n]
		dst := out.data[bIdx*m*n : (bIdx+1)*m*n]
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				dst[j*m+i] = src[i*n+j]
			}
		}
	}

	return out, nil
}

// Reshape returns a tensor sharing no storage with a, carrying the same
// elements under a new shape of identical total size.
func Reshape(a *Dense, shape ...int) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, tensorErrorf(opReshape, err)
	}
	n, err := checkShape(shape)
	if err != nil {
		return nil, tensorErrorf(opReshape, err)
	}
	if n != len(a.data) {
		return nil, tensorErrorf(opReshape, ErrShapeMismatch)
	}

	d := make([]float64, len(a.data))
	copy(d, a.data)

	return &Dense{shape: cloneInts(shape), data: d}, nil
}
