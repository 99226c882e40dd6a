// SPDX-License-Identifier: MIT
// Package mol: the Molecule domain object.

package mol

// Bond connects two atom indices with a bond-type category.
// Type is a real bond category in [0, bondTypes); the "no bond" sentinel
// never appears in a Molecule — absence of a Bond is the sentinel.
type Bond struct {
	A, B int
	Type int
}

// Molecule is a small undirected typed graph: one atom-type category per
// atom, plus a bond list. Atom indices are positions in Atoms.
type Molecule struct {
	// Atoms holds one atom-type category per atom, each in
	// [0, atomTypes); the "no atom" sentinel never appears here.
	Atoms []int
	// Bonds holds each undirected bond once (A < B by convention after
	// normalization; both orders are accepted on input).
	Bonds []Bond
}

// NumAtoms returns the number of atoms.
func (m Molecule) NumAtoms() int { return len(m.Atoms) }

// NumBonds returns the number of bonds.
func (m Molecule) NumBonds() int { return len(m.Bonds) }
