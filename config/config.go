// SPDX-License-Identifier: MIT
// Package config: the experiment configuration schema.

package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/molgan/graph"
	"github.com/katalvlaran/molgan/model"
	"github.com/katalvlaran/molgan/optim"
	"github.com/katalvlaran/molgan/wgan"
)

// Optimizer names accepted by TrainingConfig.Optimizer.
const (
	OptimizerSGD  = "sgd"
	OptimizerAdam = "adam"
)

// DimsConfig is the graph geometry section.
type DimsConfig struct {
	Relations int `yaml:"relations"`
	Nodes     int `yaml:"nodes"`
	Features  int `yaml:"features"`
}

// GeneratorSection configures the generator network.
type GeneratorSection struct {
	LatentSize int     `yaml:"latent_size"`
	Hidden     []int   `yaml:"hidden"`
	Dropout    float64 `yaml:"dropout"`
}

// DiscriminatorSection configures the critic network.
type DiscriminatorSection struct {
	GraphHidden []int   `yaml:"graph_hidden"`
	DenseHidden []int   `yaml:"dense_hidden"`
	Dropout     float64 `yaml:"dropout"`
}

// TrainingConfig configures the adversarial schedule.
type TrainingConfig struct {
	CriticSteps    int     `yaml:"critic_steps"`
	GeneratorSteps int     `yaml:"generator_steps"`
	PenaltyWeight  float64 `yaml:"penalty_weight"`
	BatchSize      int     `yaml:"batch_size"`
	Steps          int     `yaml:"steps"`
	Seed           int64   `yaml:"seed"`
	Optimizer      string  `yaml:"optimizer"`
	LearningRate   float64 `yaml:"learning_rate"`
}

// Config is the full experiment file.
type Config struct {
	Dims          DimsConfig           `yaml:"dims"`
	Generator     GeneratorSection     `yaml:"generator"`
	Discriminator DiscriminatorSection `yaml:"discriminator"`
	Training      TrainingConfig       `yaml:"training"`
}

// Default returns a runnable configuration for the bundled toy dataset.
func Default() Config {
	return Config{
		Dims: DimsConfig{Relations: 3, Nodes: 5, Features: 4},
		Generator: GeneratorSection{
			LatentSize: 32,
			Hidden:     []int{64, 128},
		},
		Discriminator: DiscriminatorSection{
			GraphHidden: []int{32, 32},
			DenseHidden: []int{64},
		},
		Training: TrainingConfig{
			CriticSteps:    wgan.DefaultCriticSteps,
			GeneratorSteps: wgan.DefaultGeneratorSteps,
			PenaltyWeight:  wgan.DefaultPenaltyWeight,
			BatchSize:      8,
			Steps:          100,
			Seed:           42,
			Optimizer:      OptimizerAdam,
			LearningRate:   1e-3,
		},
	}
}

// Parse unmarshals and validates a YAML document.
func Parse(data []byte) (Config, error) {
	const tag = "Parse"
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, configErrorf(tag, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Load reads and parses a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, configErrorf("Load", err)
	}

	return Parse(data)
}

// Validate checks every section by delegating to the option structs the
// sections translate to.
func (c Config) Validate() error {
	const tag = "Config.Validate"
	if err := c.GraphDims().Validate(); err != nil {
		return configErrorf(tag, err)
	}
	if err := c.GeneratorConfig().Validate(); err != nil {
		return configErrorf(tag, err)
	}
	if err := c.DiscriminatorConfig().Validate(); err != nil {
		return configErrorf(tag, err)
	}
	if err := c.TrainerOptions().Validate(); err != nil {
		return configErrorf(tag, err)
	}
	if c.Training.Steps <= 0 || c.Training.LearningRate <= 0 {
		return configErrorf(tag, ErrInvalid)
	}
	switch c.Training.Optimizer {
	case OptimizerSGD, OptimizerAdam:
	default:
		return configErrorf(tag, ErrBadOptimizer)
	}

	return nil
}

// GraphDims returns the geometry section as graph.Dims.
func (c Config) GraphDims() graph.Dims {
	return graph.Dims{
		Relations: c.Dims.Relations,
		Nodes:     c.Dims.Nodes,
		Features:  c.Dims.Features,
	}
}

// GeneratorConfig returns the generator section as a model config.
func (c Config) GeneratorConfig() model.GeneratorConfig {
	return model.GeneratorConfig{
		Dims:       c.GraphDims(),
		LatentSize: c.Generator.LatentSize,
		Hidden:     c.Generator.Hidden,
		Dropout:    c.Generator.Dropout,
	}
}

// DiscriminatorConfig returns the critic section as a model config.
func (c Config) DiscriminatorConfig() model.DiscriminatorConfig {
	return model.DiscriminatorConfig{
		Dims:        c.GraphDims(),
		GraphHidden: c.Discriminator.GraphHidden,
		DenseHidden: c.Discriminator.DenseHidden,
		Dropout:     c.Discriminator.Dropout,
	}
}

// TrainerOptions returns the training section as wgan options. The
// logger is left nil for the caller to fill in.
func (c Config) TrainerOptions() wgan.Options {
	return wgan.Options{
		CriticSteps:    c.Training.CriticSteps,
		GeneratorSteps: c.Training.GeneratorSteps,
		PenaltyWeight:  c.Training.PenaltyWeight,
		BatchSize:      c.Training.BatchSize,
	}
}

// NewOptimizer builds the configured optimizer at the configured rate.
func (c Config) NewOptimizer() (optim.Optimizer, error) {
	switch c.Training.Optimizer {
	case OptimizerSGD:
		return optim.NewSGD(c.Training.LearningRate)
	case OptimizerAdam:
		opts := optim.DefaultAdamOptions()
		opts.Rate = c.Training.LearningRate
		return optim.NewAdam(opts)
	default:
		return nil, configErrorf("NewOptimizer", ErrBadOptimizer)
	}
}
