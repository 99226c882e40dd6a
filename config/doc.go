// SPDX-License-Identifier: MIT

// Package config loads experiment configuration from YAML into the
// typed option structs of the model, optim and wgan packages.
//
// A Config is plain declarative data: graph geometry, network widths,
// training schedule, optimizer choice and seed. Parse validates
// everything up front so a bad file fails before any allocation, and
// the accessor methods hand ready-to-use option values to the caller.
package config
