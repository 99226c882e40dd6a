// SPDX-License-Identifier: MIT

package tensor_test

import (
	"fmt"

	"github.com/katalvlaran/molgan/tensor"
)

// ExampleMatMul multiplies two 2×2 matrices.
func ExampleMatMul() {
	a, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	b, _ := tensor.FromSlice([]float64{5, 6, 7, 8}, 2, 2)

	c, _ := tensor.MatMul(a, b)
	fmt.Println(c.Data())
	// Output: [19 22 43 50]
}

// ExampleSum reduces a 2×3 tensor over its column axis.
func ExampleSum() {
	a, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3)

	s, _ := tensor.Sum(a, []int{1}, false)
	fmt.Println(s.Shape(), s.Data())
	// Output: [2] [6 15]
}
