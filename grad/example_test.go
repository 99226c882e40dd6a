// SPDX-License-Identifier: MIT

package grad_test

import (
	"fmt"

	"github.com/katalvlaran/molgan/grad"
	"github.com/katalvlaran/molgan/tensor"
)

// ExampleGradients differentiates y = x² at x = 3.
func ExampleGradients() {
	xt, _ := tensor.FromSlice([]float64{3}, 1)
	x, _ := grad.Variable(xt)

	y, _ := grad.Mul(x, x)
	gs, _ := grad.Gradients(y, x)
	fmt.Println(gs[0].Data().Data())
	// Output: [6]
}

// ExampleGradients_secondOrder differentiates the gradient itself:
// y = x³, dy/dx = 3x², d²y/dx² = 6x.
func ExampleGradients_secondOrder() {
	xt, _ := tensor.FromSlice([]float64{2}, 1)
	x, _ := grad.Variable(xt)

	sq, _ := grad.Mul(x, x)
	y, _ := grad.Mul(sq, x)

	first, _ := grad.Gradients(y, x)
	second, _ := grad.Gradients(first[0], x)
	fmt.Println(first[0].Data().Data(), second[0].Data().Data())
	// Output: [12] [12]
}
