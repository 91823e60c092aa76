/**
 * Copyright (c) 2026, The Selene Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

// Command selene compiles the GraphQL documents of a project into client artifacts,
// recomputing only what changed between builds.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/botobag/selene/compiler"
)

// rootOptions holds global flags shared by all commands.
type rootOptions struct {
	Config  string
	Verbose bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "selene:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "selene",
		Short: "Incremental GraphQL client compiler",
		Long: `selene compiles the GraphQL documents of a project into client artifacts.
Builds are incremental: results are kept in a dependency-tracking database,
and a rebuild only redoes the work whose inputs actually changed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "selene.config.yaml", "path to the project config")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newBuildCommand(opts))
	cmd.AddCommand(newWatchCommand(opts))
	return cmd
}

// newCompiler loads the config and sets up a Compiler logging to stderr.
func newCompiler(opts *rootOptions) (*compiler.Compiler, error) {
	config, err := compiler.LoadConfig(opts.Config)
	if err != nil {
		return nil, err
	}
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return compiler.New(config, logger)
}

func newBuildCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Compile the project once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCompiler(opts)
			if err != nil {
				return err
			}
			defer c.Close()

			stats, err := c.Compile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"built %d operations from %d documents: %d recalculated, %d reused, %d artifacts written in %s\n",
				stats.Operations, stats.Documents, stats.Recalculated, stats.Reused,
				stats.Artifacts, stats.Elapsed)
			return nil
		},
	}
}

func newWatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Compile the project and recompile whenever a source changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCompiler(opts)
			if err != nil {
				return err
			}
			defer c.Close()

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := c.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
