// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bureau-foundation/dagcar/lib/assembly"
	"github.com/bureau-foundation/dagcar/lib/car"
	"github.com/bureau-foundation/dagcar/lib/carfile"
)

func newVerifyCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <container>",
		Short: "Check block digests, root presence and link closure",
		Long: `Recompute the CID of every block in a container and compare it with
the CID the block is stored under, then check that each header root is
present and that every link in a root resolves to a block in the same
container.

Every problem is reported. The exit status is 1 when any check fails.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := rootOpts.environment(cmd)
			if err != nil {
				return err
			}
			lookup, err := carfile.ReadLookup(args[0], env.readerOptions()...)
			if err != nil {
				return err
			}
			problems := verify(cmd.OutOrStdout(), lookup)
			env.logger.Info("container verified",
				"path", args[0],
				"blocks", lookup.Len(),
				"problems", problems,
			)
			if problems > 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}
}

// verify writes one line per check and returns how many failed.
func verify(w io.Writer, lookup *car.BlockLookup) int {
	problems := 0
	fail := func(format string, args ...any) {
		problems++
		fmt.Fprintf(w, "FAIL  "+format+"\n", args...)
	}

	for _, identifier := range lookup.CIDs() {
		b, err := lookup.Get(identifier)
		if err == nil {
			err = b.Verify()
		}
		if err != nil {
			fail("%s: %v", identifier, err)
			continue
		}
		fmt.Fprintf(w, "ok    %s\n", identifier)
	}

	roots := lookup.Roots()
	if len(roots) == 0 {
		fail("container has no roots")
	}
	for _, root := range roots {
		if !lookup.Has(root) {
			fail("root %s: %v", root, car.ErrRootMissing)
			continue
		}
		reachable, err := assembly.Links(lookup, root)
		if err != nil {
			fail("root %s: %v", root, err)
			continue
		}
		fmt.Fprintf(w, "ok    root %s links %d components\n", root, len(reachable)-1)
	}

	if problems == 0 {
		fmt.Fprintf(w, "%d blocks verified\n", lookup.Len())
	} else {
		fmt.Fprintf(w, "%d problems\n", problems)
	}
	return problems
}
