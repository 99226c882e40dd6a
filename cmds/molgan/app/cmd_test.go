// SPDX-License-Identifier: MIT

package app_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/molgan/cmds/molgan/app"
	"github.com/katalvlaran/molgan/graph"
	"github.com/katalvlaran/molgan/mol"
)

// tiny keeps the smoke run fast: small networks, two steps.
const tiny = `
dims:
  relations: 3
  nodes: 5
  features: 4
generator:
  latent_size: 8
  hidden: [16]
  dropout: 0.0
discriminator:
  graph_hidden: [8]
  dense_hidden: [8]
  dropout: 0.0
training:
  critic_steps: 1
  generator_steps: 1
  penalty_weight: 10
  batch_size: 4
  steps: 2
  seed: 11
  optimizer: adam
  learning_rate: 0.001
`

func writeTiny(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiny.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tiny), 0o644))

	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := app.New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())

	return out.String()
}

func TestToyMolecules_EncodeCleanly(t *testing.T) {
	t.Parallel()

	codec, err := mol.NewCodec(graph.Dims{Relations: 3, Nodes: 5, Features: 4})
	require.NoError(t, err)
	adj, feat, err := codec.EncodeDataset(app.ToyMolecules())
	require.NoError(t, err)
	assert.Equal(t, []int{7, 3, 5, 5}, adj.Shape())
	assert.Equal(t, []int{7, 5, 4}, feat.Shape())
}

func TestToyMolecules_FitDefaultGeometry(t *testing.T) {
	t.Parallel()

	for _, m := range app.ToyMolecules() {
		assert.LessOrEqual(t, m.NumAtoms(), 5)
		for _, a := range m.Atoms {
			assert.Less(t, a, 3)
		}
		for _, b := range m.Bonds {
			assert.Less(t, b.Type, 2)
		}
	}
}

func TestSampleCommand(t *testing.T) {
	t.Parallel()

	out := run(t, "sample", "--config", writeTiny(t), "--count", "3")
	assert.Contains(t, out, "sample 0:")
	assert.Contains(t, out, "valid ")
}

func TestTrainCommand(t *testing.T) {
	t.Parallel()

	out := run(t, "train", "--config", writeTiny(t), "--steps", "1", "--samples", "2")
	assert.Contains(t, out, "sample 0:")
}

func TestFormatMolecule(t *testing.T) {
	t.Parallel()

	m := mol.Molecule{Atoms: []int{0, 1}, Bonds: []mol.Bond{{A: 0, B: 1, Type: 1}}}
	assert.Equal(t, "atoms=[0 1] bonds=[0-1:1]", app.FormatMolecule(m))
}
