// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bureau-foundation/dagcar/lib/block"
	"github.com/bureau-foundation/dagcar/lib/car"
	"github.com/bureau-foundation/dagcar/lib/carfile"
	"github.com/bureau-foundation/dagcar/lib/cid"
	"github.com/bureau-foundation/dagcar/lib/codec"
)

type inspectOptions struct {
	Diag bool
}

func newInspectCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect <container>",
		Short: "List the header and sections of a container",
		Long: `Print the container header followed by one line per section: its
offset in the unframed stream, the size of the block data, the codec
and hash named by the CID, and the CID itself. Digests are not checked;
use "dagcar verify" for that.

With --diag each block is followed by its content: CBOR diagnostic
notation for dag-cbor blocks, the text itself for dag-json blocks.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := rootOpts.environment(cmd)
			if err != nil {
				return err
			}
			file, err := carfile.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			reader, err := car.NewReader(file, env.readerOptions()...)
			if err != nil {
				return fmt.Errorf("reading container %s: %w", args[0], err)
			}
			return inspect(cmd.OutOrStdout(), reader, file.Compression(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Diag, "diag", false, "print the content of every block")
	return cmd
}

const sectionFormat = "%6v  %5v  %-8s  %-8s  %s\n"

func inspect(w io.Writer, reader *car.Reader, compression carfile.Compression, opts *inspectOptions) error {
	header := reader.Header()
	fmt.Fprintf(w, "version      %d\n", header.Version)
	fmt.Fprintf(w, "compression  %s\n", compression)
	for _, root := range header.Roots {
		fmt.Fprintf(w, "root         %s\n", root)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, sectionFormat, "offset", "size", "codec", "hash", "cid")
	sections := 0
	for {
		offset := reader.Offset()
		b, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		sections++
		identifier := b.CID()
		fmt.Fprintf(w, sectionFormat, offset, b.Size(), identifier.Codec(), identifier.HashCode(), identifier)
		if opts.Diag {
			if err := writeContent(w, b); err != nil {
				return fmt.Errorf("section at offset %d: %w", offset, err)
			}
		}
	}

	fmt.Fprintf(w, "\n%d sections, %d bytes\n", sections, reader.Offset())
	return nil
}

// writeContent prints a block's content indented under its section
// line.
func writeContent(w io.Writer, b block.Block) error {
	var text string
	switch b.CID().Codec() {
	case cid.DagCBOR:
		notation, err := codec.Diagnose(b.Data())
		if err != nil {
			return err
		}
		text = notation
	case cid.DagJSON:
		text = string(b.Data())
	default:
		text = fmt.Sprintf("(%d bytes of %s)", b.Size(), b.CID().Codec())
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(w, "        %s\n", line)
	}
	return nil
}
