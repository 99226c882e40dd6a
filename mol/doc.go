// SPDX-License-Identifier: MIT

// Package mol holds the molecule domain object and the collaborator
// contracts that bridge it to the tensor world: an Encoder that produces
// fixed-shape adjacency/feature tensors and a Decoder that argmax-
// discretizes generator output back into molecules.
//
// The Codec here is deliberately structural: it knows atom slots, bond
// channels and the two sentinel categories, nothing about chemistry.
// Parsing chemical line notations and valence rules stay outside this
// module; a caller with a cheminformatics toolkit implements the same
// two interfaces against it.
//
// Decoding can fail (asymmetric cells, self-bonds, bonds into empty
// slots, empty molecules). DecodeBatch maps every failure to a nil entry
// so inspection code can count valid samples without unrecoverable
// decode errors ever reaching training.
package mol
