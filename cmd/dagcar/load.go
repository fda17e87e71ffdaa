// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newLoadCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <container>",
		Short: "Print the assembly stored in a container as JSON",
		Long: `Open a container, follow the links of its first root and print the
rebuilt assembly as JSON. Every block is checked against its CID unless
container.skip_verify is set.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := rootOpts.environment(cmd)
			if err != nil {
				return err
			}
			pipeline, err := env.pipeline()
			if err != nil {
				return err
			}
			components, err := pipeline.Open(args[0])
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(components, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
			return nil
		},
	}
}
