// SPDX-License-Identifier: MIT

package app

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/molgan/graph"
	"github.com/katalvlaran/molgan/model"
	"github.com/katalvlaran/molgan/mol"
	"github.com/katalvlaran/molgan/wgan"
)

// Train runs adversarial training over the bundled toy molecules.
type Train struct {
	cmd *cobra.Command

	mainopts *Options
	steps    int
	samples  int
}

// NewTrain builds the train subcommand.
func NewTrain(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train <options>",
		Short: "train a molecular WGAN-GP on the bundled toy set",
	}

	c := &Train{cmd: cmd, mainopts: opts}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run() }
	flags := cmd.Flags()
	flags.IntVarP(&c.steps, "steps", "s", 0, "training steps (0 uses the config value)")
	flags.IntVarP(&c.samples, "samples", "m", 3, "molecules to sample and decode after training")

	return cmd
}

// Run loads the configuration, encodes the toy dataset, trains, and
// optionally decodes a few samples from the trained generator.
func (c *Train) Run() error {
	cfg, err := c.mainopts.Config()
	if err != nil {
		return err
	}
	if c.steps > 0 {
		cfg.Training.Steps = c.steps
	}
	log := c.mainopts.Logger()
	rng := rand.New(rand.NewSource(cfg.Training.Seed))
	dims := cfg.GraphDims()

	codec, err := mol.NewCodec(dims)
	if err != nil {
		return err
	}
	adjD, featD, err := codec.EncodeDataset(ToyMolecules())
	if err != nil {
		return err
	}
	sup, err := graph.NewSliceSupplier(adjD, featD, dims, rng)
	if err != nil {
		return err
	}

	gen, err := model.NewGenerator(cfg.GeneratorConfig(), rng)
	if err != nil {
		return err
	}
	critic, err := model.NewDiscriminator(cfg.DiscriminatorConfig(), rng)
	if err != nil {
		return err
	}
	genOpt, err := cfg.NewOptimizer()
	if err != nil {
		return err
	}
	criticOpt, err := cfg.NewOptimizer()
	if err != nil {
		return err
	}

	wopts := cfg.TrainerOptions()
	wopts.Logger = log
	tr, err := wgan.NewTrainer(gen, critic, genOpt, criticOpt, wopts, rng)
	if err != nil {
		return err
	}

	log.Info("training",
		"run", tr.History().RunID.String(),
		"dataset", sup.Len(),
		"steps", cfg.Training.Steps,
		"batch", wopts.BatchSize,
	)
	if err := tr.Fit(c.cmd.Context(), sup, cfg.Training.Steps); err != nil {
		return err
	}
	last := tr.History().Last()
	log.Info("training done",
		"critic_loss", last.CriticLoss,
		"generator_loss", last.GeneratorLoss,
		"penalty", last.Penalty,
	)

	if c.samples > 0 {
		return c.printSamples(gen, codec, rng)
	}

	return nil
}

// printSamples decodes generated graphs and writes one line per result;
// graphs that do not decode into a valid molecule are reported as such.
func (c *Train) printSamples(gen *model.Generator, codec *mol.Codec, rng *rand.Rand) error {
	batch, err := gen.Generate(c.samples, rng)
	if err != nil {
		return err
	}
	ms, err := mol.DecodeBatch(batch, codec)
	if err != nil {
		return err
	}

	out := c.cmd.OutOrStdout()
	for i, m := range ms {
		if m == nil {
			fmt.Fprintf(out, "sample %d: invalid graph\n", i)
			continue
		}
		fmt.Fprintf(out, "sample %d: %s\n", i, FormatMolecule(*m))
	}

	return nil
}
