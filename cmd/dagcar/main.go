// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// dagcar turns an assembly of rectangle components into
// content-addressed blocks, stores them in a CARv1 container and loads
// them back.
//
// With no subcommand it runs the whole round trip on the configured
// input (the built-in sample by default): validate against the schema,
// build blocks, write the container, read it, rebuild the assembly and
// compare it with the input. The subcommands expose each stage:
//
//	dagcar build    validate and write a container
//	dagcar load     print the assembly stored in a container
//	dagcar inspect  list the sections of a container
//	dagcar verify   check every block digest and the root's links
//	dagcar schema   list schema types or validate a JSON file
//
// Configuration comes from the YAML file named by --config or
// DAGCAR_CONFIG; without either, built-in defaults apply.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	root := newRootCommand()
	root.SetArgs(args)
	return root.Execute()
}
