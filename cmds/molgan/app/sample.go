// SPDX-License-Identifier: MIT

package app

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/molgan/model"
	"github.com/katalvlaran/molgan/mol"
)

// Sample draws molecules from a freshly initialized generator. Without
// persisted weights this is a smoke tool for the decode path rather
// than a source of chemistry.
type Sample struct {
	cmd *cobra.Command

	mainopts *Options
	count    int
	seed     int64
}

// NewSample builds the sample subcommand.
func NewSample(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample <options>",
		Short: "sample and decode molecules from an untrained generator",
	}

	c := &Sample{cmd: cmd, mainopts: opts}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run() }
	flags := cmd.Flags()
	flags.IntVarP(&c.count, "count", "n", 5, "number of molecules to sample")
	flags.Int64Var(&c.seed, "seed", 0, "sampling seed (0 uses the config seed)")

	return cmd
}

// Run builds the generator from the configuration and decodes count
// samples.
func (c *Sample) Run() error {
	cfg, err := c.mainopts.Config()
	if err != nil {
		return err
	}
	seed := cfg.Training.Seed
	if c.seed != 0 {
		seed = c.seed
	}
	rng := rand.New(rand.NewSource(seed))

	gen, err := model.NewGenerator(cfg.GeneratorConfig(), rng)
	if err != nil {
		return err
	}
	codec, err := mol.NewCodec(cfg.GraphDims())
	if err != nil {
		return err
	}

	batch, err := gen.Generate(c.count, rng)
	if err != nil {
		return err
	}
	ms, err := mol.DecodeBatch(batch, codec)
	if err != nil {
		return err
	}

	out := c.cmd.OutOrStdout()
	valid := 0
	for i, m := range ms {
		if m == nil {
			fmt.Fprintf(out, "sample %d: invalid graph\n", i)
			continue
		}
		valid++
		fmt.Fprintf(out, "sample %d: %s\n", i, FormatMolecule(*m))
	}
	fmt.Fprintf(out, "valid %d/%d\n", valid, len(ms))

	return nil
}
