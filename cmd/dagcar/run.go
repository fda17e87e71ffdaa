// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/dagcar/lib/assembly"
)

// runOptions are the flags shared by run and the bare root command.
type runOptions struct {
	Input       string
	Out         string
	Compression string
}

func (o *runOptions) addFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.Input, "input", "i", "", "assembly JSON file (default: input.path, then the built-in sample)")
	flagSet.StringVarP(&o.Out, "out", "o", "", "container path (default: container.path)")
	flagSet.StringVar(&o.Compression, "compression", "", "container framing: none, lz4 or zstd (default: container.compression)")
}

// apply overrides the container settings of env with the flags that
// were given. It returns the container path to write.
func (o *runOptions) apply(env *environment) string {
	if o.Compression != "" {
		env.config.Container.Compression = o.Compression
	}
	if o.Out != "" {
		return o.Out
	}
	return env.config.Container.Path
}

func newRunCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Validate, store, reload and compare an assembly",
		Long: `Run the whole round trip: validate the input against the schema, build
its blocks, write them to a container, open the container, rebuild the
assembly by following the root's links and compare it with the input.

Both assemblies are printed. The exit status is non-zero when any
stage fails or the loaded assembly differs from the input.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoundTrip(cmd, rootOpts, opts)
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func runRoundTrip(cmd *cobra.Command, rootOpts *rootOptions, opts *runOptions) error {
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

	stdout := cmd.OutOrStdout()
	if err := printAssembly(stdout, "Initial assembly", input.Components); err != nil {
		return err
	}

	loaded, err := pipeline.RoundTrip(path, input.Components)
	if err != nil && !errors.Is(err, assembly.ErrMismatch) {
		return err
	}
	if printErr := printAssembly(stdout, "Loaded assembly", loaded); printErr != nil {
		return printErr
	}
	if err != nil {
		fmt.Fprintln(stdout, "Loaded corrupted assembly")
		return err
	}
	fmt.Fprintln(stdout, "Correct assembly loaded")
	return nil
}

// printAssembly writes a title line followed by the assembly as
// indented JSON.
func printAssembly(w io.Writer, title string, components []assembly.Component) error {
	if components == nil {
		components = []assembly.Component{}
	}
	data, err := json.MarshalIndent(components, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n", title, data)
	return err
}
