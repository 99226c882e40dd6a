// SPDX-License-Identifier: MIT
// Package mol: the structural Codec (Encoder + Decoder) and the
// null-result batch decode helper.

package mol

import (
	"github.com/katalvlaran/molgan/graph"
	"github.com/katalvlaran/molgan/tensor"
)

// Operation name constants for unified error wrapping.
const (
	opEncode        = "Encode"
	opEncodeDataset = "EncodeDataset"
	opDecode        = "Decode"
)

// Encoder turns a molecule into a single-example adjacency tensor
// (R, N, N) and feature matrix (N, F) under a fixed geometry.
type Encoder interface {
	Encode(m Molecule) (adjacency, features *tensor.Dense, err error)
}

// Decoder converts one discretizable adjacency/feature pair back into a
// molecule, sanitizing structure on the way. Used only for inspecting
// generator output, never during training.
type Decoder interface {
	Decode(adjacency, features *tensor.Dense) (Molecule, error)
}

// Codec is the structural Encoder/Decoder over a graph.Dims geometry.
// The last relation channel is the "no bond" sentinel and the last
// feature category the "no atom" sentinel.
type Codec struct {
	dims graph.Dims
}

// NewCodec validates the geometry. Relations and Features must each be
// at least 2 (one real category plus its sentinel).
func NewCodec(dims graph.Dims) (*Codec, error) {
	if err := dims.Validate(); err != nil {
		return nil, molErrorf(opEncode, err)
	}
	if dims.Relations < 2 || dims.Features < 2 {
		return nil, molErrorf(opEncode, graph.ErrDims)
	}

	return &Codec{dims: dims}, nil
}

// Dims returns the codec geometry.
func (c *Codec) Dims() graph.Dims { return c.dims }

// Encode produces the one-hot pair for m.
// Stage 1 (Validate): atom count ≤ N, categories within range, bond
// endpoints valid and distinct, no duplicate pair.
// Stage 2 (Execute): fill features (sentinel beyond the real atoms) and
// adjacency (bond channels mirrored, sentinel channel everywhere else,
// diagonal included).
// Complexity: O(R·N²) time and space.
func (c *Codec) Encode(m Molecule) (*tensor.Dense, *tensor.Dense, error) {
	d := c.dims
	if len(m.Atoms) == 0 || len(m.Atoms) > d.Nodes {
		return nil, nil, molErrorf(opEncode, ErrEncode)
	}
	for _, a := range m.Atoms {
		if a < 0 || a >= d.Features-1 {
			return nil, nil, molErrorf(opEncode, ErrEncode)
		}
	}

	seen := make(map[[2]int]bool, len(m.Bonds))
	for _, b := range m.Bonds {
		if b.A < 0 || b.A >= len(m.Atoms) || b.B < 0 || b.B >= len(m.Atoms) || b.A == b.B {
			return nil, nil, molErrorf(opEncode, ErrEncode)
		}
		if b.Type < 0 || b.Type >= d.Relations-1 {
			return nil, nil, molErrorf(opEncode, ErrEncode)
		}
		key := [2]int{min(b.A, b.B), max(b.A, b.B)}
		if seen[key] {
			return nil, nil, molErrorf(opEncode, ErrEncode)
		}
		seen[key] = true
	}

	features, err := tensor.New(d.Nodes, d.Features)
	if err != nil {
		return nil, nil, molErrorf(opEncode, err)
	}
	fd := features.Data()
	for n := 0; n < d.Nodes; n++ {
		cat := d.Features - 1 // "no atom" sentinel
		if n < len(m.Atoms) {
			cat = m.Atoms[n]
		}
		fd[n*d.Features+cat] = 1
	}

	adjacency, err := tensor.New(d.Relations, d.Nodes, d.Nodes)
	if err != nil {
		return nil, nil, molErrorf(opEncode, err)
	}
	ad := adjacency.Data()
	nn := d.Nodes * d.Nodes
	sentinel := d.Relations - 1
	// Default every (i,j) cell, diagonal included, to the sentinel channel.
	for i := 0; i < nn; i++ {
		ad[sentinel*nn+i] = 1
	}
	for _, b := range m.Bonds {
		for _, ij := range [][2]int{{b.A, b.B}, {b.B, b.A}} {
			off := ij[0]*d.Nodes + ij[1]
			ad[sentinel*nn+off] = 0
			ad[b.Type*nn+off] = 1
		}
	}

	return adjacency, features, nil
}

// EncodeDataset stacks the encodings of ms into dataset tensors shaped
// (M, R, N, N) and (M, N, F), ready for graph.NewSliceSupplier.
func (c *Codec) EncodeDataset(ms []Molecule) (*tensor.Dense, *tensor.Dense, error) {
	d := c.dims
	if len(ms) == 0 {
		return nil, nil, molErrorf(opEncodeDataset, graph.ErrEmptyDataset)
	}

	adjOut, err := tensor.New(len(ms), d.Relations, d.Nodes, d.Nodes)
	if err != nil {
		return nil, nil, molErrorf(opEncodeDataset, err)
	}
	featOut, err := tensor.New(len(ms), d.Nodes, d.Features)
	if err != nil {
		return nil, nil, molErrorf(opEncodeDataset, err)
	}

	adjStride := d.Relations * d.Nodes * d.Nodes
	featStride := d.Nodes * d.Features
	for i, m := range ms {
		adj, feat, err := c.Encode(m)
		if err != nil {
			return nil, nil, molErrorf(opEncodeDataset, err)
		}
		copy(adjOut.Data()[i*adjStride:(i+1)*adjStride], adj.Data())
		copy(featOut.Data()[i*featStride:(i+1)*featStride], feat.Data())
	}

	return adjOut, featOut, nil
}

// Decode argmax-discretizes one (R, N, N)/(N, F) pair and sanitizes the
// result.
// Stage 1 (Validate): tensor shapes against the geometry.
// Stage 2 (Execute): per-cell and per-row argmax.
// Stage 3 (Sanitize): symmetric cells, no self-bonds, bonds only between
// real atoms, at least one atom; empty slots are compacted out and bond
// endpoints remapped.
// Complexity: O(R·N²) time.
func (c *Codec) Decode(adjacency, features *tensor.Dense) (Molecule, error) {
	d := c.dims
	if err := tensor.ValidateNotNil(adjacency, features); err != nil {
		return Molecule{}, molErrorf(opDecode, err)
	}
	as, fs := adjacency.Shape(), features.Shape()
	if len(as) != 3 || as[0] != d.Relations || as[1] != d.Nodes || as[2] != d.Nodes {
		return Molecule{}, molErrorf(opDecode, ErrShape)
	}
	if len(fs) != 2 || fs[0] != d.Nodes || fs[1] != d.Features {
		return Molecule{}, molErrorf(opDecode, ErrShape)
	}

	// Per-node argmax over feature categories; sentinel marks empty slots.
	fd := features.Data()
	atomCat := make([]int, d.Nodes)
	for n := 0; n < d.Nodes; n++ {
		atomCat[n] = argmax(fd[n*d.Features : (n+1)*d.Features])
	}

	// Compact mapping from node slot to molecule atom index.
	remap := make([]int, d.Nodes)
	var atoms []int
	for n := 0; n < d.Nodes; n++ {
		remap[n] = -1
		if atomCat[n] != d.Features-1 {
			remap[n] = len(atoms)
			atoms = append(atoms, atomCat[n])
		}
	}
	if len(atoms) == 0 {
		return Molecule{}, molErrorf(opDecode, ErrDecode)
	}

	ad := adjacency.Data()
	nn := d.Nodes * d.Nodes
	cell := make([]float64, d.Relations)
	var bonds []Bond
	for i := 0; i < d.Nodes; i++ {
		for j := 0; j <= i; j++ {
			for r := 0; r < d.Relations; r++ {
				cell[r] = ad[r*nn+i*d.Nodes+j]
			}
			ch := argmax(cell)
			for r := 0; r < d.Relations; r++ {
				cell[r] = ad[r*nn+j*d.Nodes+i]
			}
			if ch != argmax(cell) {
				return Molecule{}, molErrorf(opDecode, ErrDecode) // asymmetric cell
			}
			if ch == d.Relations-1 {
				continue // "no bond"
			}
			if i == j {
				return Molecule{}, molErrorf(opDecode, ErrDecode) // self-bond
			}
			if remap[i] < 0 || remap[j] < 0 {
				return Molecule{}, molErrorf(opDecode, ErrDecode) // bond into empty slot
			}
			bonds = append(bonds, Bond{A: remap[j], B: remap[i], Type: ch})
		}
	}

	return Molecule{Atoms: atoms, Bonds: bonds}, nil
}

// DecodeBatch decodes every example of a batch, mapping unrecoverable
// decode failures to nil entries ("null results") instead of errors.
func DecodeBatch(b *graph.Batch, dec Decoder) ([]*Molecule, error) {
	if b == nil || dec == nil {
		return nil, molErrorf(opDecode, ErrDecode)
	}

	out := make([]*Molecule, b.Size())
	for i := 0; i < b.Size(); i++ {
		adj, err := tensor.Index(b.Adjacency, 0, i)
		if err != nil {
			return nil, molErrorf(opDecode, err)
		}
		feat, err := tensor.Index(b.Features, 0, i)
		if err != nil {
			return nil, molErrorf(opDecode, err)
		}

		m, err := dec.Decode(adj, feat)
		if err != nil {
			continue // null result by contract
		}
		mc := m
		out[i] = &mc
	}

	return out, nil
}

// argmax returns the index of the largest element (first on ties).
func argmax(v []float64) int {
	best, bestV := 0, v[0]
	for i := 1; i < len(v); i++ {
		if v[i] > bestV {
			best, bestV = i, v[i]
		}
	}

	return best
}
