// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Command fhe-life runs Conway's Game of Life on an encrypted board.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/luxfi/log"
	"github.com/spf13/cobra"

	"github.com/luxfi/life/fhe"
	"github.com/luxfi/life/internal/config"
	"github.com/luxfi/life/internal/pattern"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fhe-life",
		Short: "Conway's Game of Life under fully homomorphic encryption",
		Long: `fhe-life evolves a Game of Life board whose cells are TFHE ciphertexts.

Every generation is computed with boolean gates on encrypted bits; only the
key holder running this command decrypts the board to draw it.`,
		Version:       fmt.Sprintf("%s (built %s)", version, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Encrypt a board and evolve it",
		Long: fmt.Sprintf(`Encrypt the initial board and evolve it generation by generation.

Every flag can also be given as an environment variable (FHE_LIFE_EVALUATORS,
FHE_LIFE_WAIT, ...) or in the file named by --config-file.

Built-in boards: %v
Parameter presets: %v`, pattern.Builtins(), fhe.PresetNames()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.BuildViper(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := config.NewConfig(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, cmd.OutOrStdout(), log.Root())
		},
	}
	config.AddFlags(cmd.Flags())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fhe-life %s (built %s)\n", version, buildDate)
		},
	}
}
