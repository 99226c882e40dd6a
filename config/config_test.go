// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/molgan/config"
	"github.com/katalvlaran/molgan/graph"
	"github.com/katalvlaran/molgan/model"
	"github.com/katalvlaran/molgan/optim"
)

const sample = `
dims:
  relations: 3
  nodes: 5
  features: 4
generator:
  latent_size: 16
  hidden: [32, 64]
  dropout: 0.1
discriminator:
  graph_hidden: [16, 16]
  dense_hidden: [32]
  dropout: 0.0
training:
  critic_steps: 2
  generator_steps: 1
  penalty_weight: 10
  batch_size: 4
  steps: 50
  seed: 7
  optimizer: sgd
  learning_rate: 0.001
`

func TestParse_Sample(t *testing.T) {
	t.Parallel()

	c, err := config.Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, graph.Dims{Relations: 3, Nodes: 5, Features: 4}, c.GraphDims())
	assert.Equal(t, []int{32, 64}, c.Generator.Hidden)
	assert.Equal(t, 2, c.Training.CriticSteps)
	assert.Equal(t, int64(7), c.Training.Seed)

	gc := c.GeneratorConfig()
	assert.Equal(t, 16, gc.LatentSize)
	assert.InDelta(t, 0.1, gc.Dropout, 1e-12)
	assert.NoError(t, gc.Validate())

	to := c.TrainerOptions()
	assert.Equal(t, 4, to.BatchSize)
	assert.NoError(t, to.Validate())
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	c := config.Default()
	require.NoError(t, c.Validate())

	opt, err := c.NewOptimizer()
	require.NoError(t, err)
	assert.IsType(t, &optim.Adam{}, opt)
}

func TestParse_Rejections(t *testing.T) {
	t.Parallel()

	_, err := config.Parse([]byte("dims: [not, a, map]"))
	assert.Error(t, err, "malformed YAML must fail")

	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{"zero nodes", func(c *config.Config) { c.Dims.Nodes = 0 }, graph.ErrDims},
		{"empty hidden", func(c *config.Config) { c.Generator.Hidden = nil }, model.ErrBadConfig},
		{"negative penalty", func(c *config.Config) { c.Training.PenaltyWeight = -1 }, nil},
		{"zero steps", func(c *config.Config) { c.Training.Steps = 0 }, config.ErrInvalid},
		{"zero rate", func(c *config.Config) { c.Training.LearningRate = 0 }, config.ErrInvalid},
		{"bogus optimizer", func(c *config.Config) { c.Training.Optimizer = "lbfgs" }, config.ErrBadOptimizer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := config.Default()
			tc.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "train.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sgd", c.Training.Optimizer)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewOptimizer_SGD(t *testing.T) {
	t.Parallel()

	c := config.Default()
	c.Training.Optimizer = config.OptimizerSGD
	opt, err := c.NewOptimizer()
	require.NoError(t, err)
	assert.IsType(t, &optim.SGD{}, opt)
}
