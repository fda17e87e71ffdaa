// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBuildCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate an assembly and write it to a container",
		Long: `Validate the input against the schema, build its blocks and write
them to a container. The root CID is printed on success. Nothing is
written when validation or encoding fails.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, rootOpts, opts)
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func runBuild(cmd *cobra.Command, rootOpts *rootOptions, opts *runOptions) error {
	env, err := rootOpts.environment(cmd)
	if err != nil {
		return err
	}
	path := opts.apply(env)
	pipeline, err := env.pipeline()
	if err != nil {
		return err
	}
	input, err := env.readInput(opts.Input, pipeline)
	if err != nil {
		return err
	}

	built, err := pipeline.Save(path, input.Components)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", built.Root.CID())
	return nil
}
