// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/dagcar/lib/schema"
)

type schemaOptions struct {
	Type string
}

func newSchemaCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &schemaOptions{}
	cmd := &cobra.Command{
		Use:   "schema [file]",
		Short: "List schema types or validate a JSON file against one",
		Long: `Without a file, print the name of every type the schema defines.

With a file, validate its content (JSON, comments allowed) against
--type, which defaults to schema.type from the configuration. Each
problem is printed on its own line and the exit status is 1.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := rootOpts.environment(cmd)
			if err != nil {
				return err
			}
			gate, err := env.schema()
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range gate.Types() {
					fmt.Fprintln(stdout, name)
				}
				return nil
			}

			typeName := opts.Type
			if typeName == "" {
				typeName = env.config.Schema.Type
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			err = gate.ValidateJSON(typeName, jsonc.ToJSON(data))
			var validationErr *schema.ValidationError
			if errors.As(err, &validationErr) {
				fmt.Fprintf(stdout, "%s: not a valid %s\n", args[0], typeName)
				for _, problem := range validationErr.Problems() {
					fmt.Fprintf(stdout, "  %s\n", problem)
				}
				return &exitError{code: 1}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s: valid %s\n", args[0], typeName)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "schema type to validate against")
	return cmd
}
