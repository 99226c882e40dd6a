// SPDX-License-Identifier: MIT

package app

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/molgan/mol"
)

// ToyMolecules returns the bundled smoke-training set: small molecules
// over 3 atom types and 2 bond types, at most 5 atoms each. It fits the
// default geometry (relations 3, nodes 5, features 4).
func ToyMolecules() []mol.Molecule {
	return []mol.Molecule{
		// linear chain ending in a type-1 atom
		{Atoms: []int{0, 0, 1}, Bonds: []mol.Bond{{A: 0, B: 1, Type: 0}, {A: 1, B: 2, Type: 0}}},
		// double-bonded pair
		{Atoms: []int{0, 1}, Bonds: []mol.Bond{{A: 0, B: 1, Type: 1}}},
		// four-ring
		{Atoms: []int{0, 0, 0, 0}, Bonds: []mol.Bond{
			{A: 0, B: 1, Type: 0}, {A: 1, B: 2, Type: 0},
			{A: 2, B: 3, Type: 0}, {A: 3, B: 0, Type: 0},
		}},
		// star around a type-2 center
		{Atoms: []int{2, 0, 0, 0}, Bonds: []mol.Bond{
			{A: 0, B: 1, Type: 0}, {A: 0, B: 2, Type: 0}, {A: 0, B: 3, Type: 0},
		}},
		// full-length chain
		{Atoms: []int{0, 0, 0, 0, 1}, Bonds: []mol.Bond{
			{A: 0, B: 1, Type: 0}, {A: 1, B: 2, Type: 0},
			{A: 2, B: 3, Type: 0}, {A: 3, B: 4, Type: 0},
		}},
		// lone heteroatom
		{Atoms: []int{2}},
		// mixed bond orders
		{Atoms: []int{1, 0, 1}, Bonds: []mol.Bond{{A: 0, B: 1, Type: 1}, {A: 1, B: 2, Type: 0}}},
	}
}

// FormatMolecule renders a molecule as a one-line summary, e.g.
// "atoms=[0 1 1] bonds=[0-1:0 0-2:0]".
func FormatMolecule(m mol.Molecule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "atoms=%v bonds=[", m.Atoms)
	for i, bond := range m.Bonds {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d-%d:%d", bond.A, bond.B, bond.Type)
	}
	b.WriteByte(']')

	return b.String()
}
