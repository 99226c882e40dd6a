// SPDX-License-Identifier: MIT

// Package app implements the molgan command tree: adversarial smoke
// training over a bundled toy molecule set, and sampling/decoding from
// a generator.
package app

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/molgan/config"
)

// Options carries the settings shared by every subcommand.
type Options struct {
	configPath string
	verbose    bool
}

// Config loads the experiment file, falling back to the built-in
// defaults when no path was given.
func (o *Options) Config() (config.Config, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}

	return config.Load(o.configPath)
}

// Logger builds the structured logger for the selected verbosity.
func (o *Options) Logger() *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// New assembles the root command.
func New() *cobra.Command {
	opts := &Options{}

	maincmd := &cobra.Command{
		Use:   "molgan <cmd> <options>",
		Short: "train and sample molecular-graph GANs",
		Long: `
molgan trains a Wasserstein GAN with gradient penalty over relational
molecular graphs and decodes generated graphs back into molecules.
`,
		Run:              nil,
		TraverseChildren: true,
	}

	flags := maincmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "experiment YAML file (built-in defaults when empty)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	maincmd.AddCommand(NewTrain(opts))
	maincmd.AddCommand(NewSample(opts))

	return maincmd
}
