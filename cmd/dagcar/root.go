// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bureau-foundation/dagcar/lib/assembly"
	"github.com/bureau-foundation/dagcar/lib/car"
	"github.com/bureau-foundation/dagcar/lib/carfile"
	"github.com/bureau-foundation/dagcar/lib/codec"
	"github.com/bureau-foundation/dagcar/lib/config"
	"github.com/bureau-foundation/dagcar/lib/dataset"
	"github.com/bureau-foundation/dagcar/lib/digest"
	"github.com/bureau-foundation/dagcar/lib/schema"
	"github.com/bureau-foundation/dagcar/lib/version"
)

// rootOptions holds the flags every command accepts.
type rootOptions struct {
	ConfigPath string
	LogLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	runOpts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "dagcar",
		Short: "Store an assembly as content-addressed blocks in a CAR container",
		Long: `dagcar encodes each component of an assembly as a block named by its
CID, links them from a root block, writes everything to a CARv1
container and loads the assembly back by following the links.

Without a subcommand dagcar performs "dagcar run".`,
		Version:       version.Info(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoundTrip(cmd, opts, runOpts)
		},
	}
	cmd.SetVersionTemplate("dagcar {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to dagcar.yaml (default: $"+config.EnvironmentVariable+", then built-in defaults)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override log.level (debug|info|warn|error)")
	runOpts.addFlags(cmd.Flags())

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newBuildCommand(opts))
	cmd.AddCommand(newLoadCommand(opts))
	cmd.AddCommand(newInspectCommand(opts))
	cmd.AddCommand(newVerifyCommand(opts))
	cmd.AddCommand(newSchemaCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// environment is the resolved configuration and logger a command runs
// with.
type environment struct {
	config *config.Config
	logger *slog.Logger
}

// environment resolves configuration, applies flag overrides and
// builds the logger. The configuration is validated before any command
// sees it.
func (o *rootOptions) environment(cmd *cobra.Command) (*environment, error) {
	cfg, err := config.Resolve(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newCommandLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &environment{
		config: cfg,
		logger: logger.With("command", cmd.Name()),
	}, nil
}

// schema returns the schema named by the configuration, or the
// built-in one.
func (e *environment) schema() (*schema.Schema, error) {
	if e.config.Schema.Path == "" {
		return schema.Default(), nil
	}
	return schema.ParseFile(e.config.Schema.Path)
}

// readerOptions bounds container parsing.
func (e *environment) readerOptions() []car.ReaderOption {
	return []car.ReaderOption{car.WithMaxSectionSize(e.config.Container.MaxSectionSize)}
}

// pipeline assembles a Pipeline from the configuration.
func (e *environment) pipeline() (*assembly.Pipeline, error) {
	componentCodec, err := codec.ByName(e.config.Codec.Component)
	if err != nil {
		return nil, err
	}
	rootCodec, err := codec.ByName(e.config.RootCodec())
	if err != nil {
		return nil, err
	}
	hashCode, err := digest.ParseCode(e.config.Hash)
	if err != nil {
		return nil, err
	}
	compression, err := carfile.ParseCompression(e.config.Container.Compression)
	if err != nil {
		return nil, err
	}
	gate, err := e.schema()
	if err != nil {
		return nil, err
	}

	return &assembly.Pipeline{
		Schema:   gate,
		TypeName: e.config.Schema.Type,
		Build: assembly.Options{
			ComponentCodec: componentCodec,
			RootCodec:      rootCodec,
			Hash:           hashCode,
			Workers:        e.config.Workers,
		},
		Load: assembly.LoadOptions{SkipVerify: e.config.Container.SkipVerify},
		File: carfile.Options{
			Compression: compression,
			Logger:      e.logger,
		},
		Reader: e.readerOptions(),
		Logger: e.logger,
	}, nil
}

// readInput loads the assembly from path, or from the configured input
// when path is empty, and checks its JSON form against the pipeline's
// schema. The JSON check sees fields a struct decode would silently
// zero.
func (e *environment) readInput(path string, pipeline *assembly.Pipeline) (*dataset.Dataset, error) {
	if path == "" {
		path = e.config.Input.Path
	}
	input, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	if err := pipeline.ValidateJSON(input.JSON); err != nil {
		return nil, fmt.Errorf("%s: %w", input.Name, err)
	}
	e.logger.Debug("input validated",
		"input", input.Name,
		"type", e.config.Schema.Type,
		"components", len(input.Components),
	)
	return input, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version, platform and encoding dependency versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "dagcar "+version.Full())
			return nil
		},
	}
}
