// SPDX-License-Identifier: MIT
// Package tensor: centralized validators shared by all kernels.
// Kernels call these instead of re-implementing checks so every failure
// surfaces the same sentinel with the same priority:
// nil -> shape mismatch -> NaN/Inf.

package tensor

import "math"

// Operation name constants for unified error wrapping (no magic strings).
const (
	opNew           = "New"
	opFromSlice     = "FromSlice"
	opFull          = "Full"
	opDim           = "Dim"
	opAt            = "At"
	opSet           = "Set"
	opAdd           = "Add"
	opSub           = "Sub"
	opMul           = "Mul"
	opDiv           = "Div"
	opNeg           = "Neg"
	opScale         = "Scale"
	opAddScalar     = "AddScalar"
	opSquare        = "Square"
	opSqrt          = "Sqrt"
	opTanh          = "Tanh"
	opReLU          = "ReLU"
	opReLUMask      = "ReLUMask"
	opMatMul        = "MatMul"
	opTranspose     = "TransposeLast2"
	opReshape       = "Reshape"
	opExpand        = "Expand"
	opSumTo         = "SumTo"
	opSum           = "Sum"
	opMean          = "Mean"
	opIndex         = "Index"
	opSpread        = "Spread"
	opSoftmax       = "Softmax"
	opCheckFinite   = "CheckFinite"
	opAllClose      = "AllClose"
	opValidateOneHt = "ValidateOneHot"
)

// ValidateNotNil rejects nil tensors (and tensors with nil backing, which
// only a zero-value Dense literal can produce).
func ValidateNotNil(ts ...*Dense) error {
	for _, t := range ts {
		if t == nil || t.data == nil {
			return ErrNilTensor
		}
	}

	return nil
}

// ValidateSameShape rejects nil operands and shape disagreements.
func ValidateSameShape(a, b *Dense) error {
	if err := ValidateNotNil(a, b); err != nil {
		return err
	}
	if !sameShape(a.shape, b.shape) {
		return ErrShapeMismatch
	}

	return nil
}

// CheckFinite returns ErrNaNInf if any element is NaN or ±Inf.
// Complexity: O(size).
func CheckFinite(t *Dense) error {
	if err := ValidateNotNil(t); err != nil {
		return tensorErrorf(opCheckFinite, err)
	}
	for _, v := range t.data {
		if isNonFinite(v) {
			return tensorErrorf(opCheckFinite, ErrNaNInf)
		}
	}

	return nil
}

// AllClose reports whether a and b agree element-wise within eps.
// Shapes must match exactly (ErrShapeMismatch otherwise).
func AllClose(a, b *Dense, eps float64) (bool, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return false, tensorErrorf(opAllClose, err)
	}
	for i := range a.data {
		if math.Abs(a.data[i]-b.data[i]) > eps {
			return false, nil
		}
	}

	return true, nil
}

// isNonFinite reports NaN or ±Inf.
func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
