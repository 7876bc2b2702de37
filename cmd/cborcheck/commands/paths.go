// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/bureau-foundation/cborcheck/cmd/cborcheck/cli"
	"github.com/bureau-foundation/cborcheck/lib/codec"
	"github.com/bureau-foundation/cborcheck/lib/tree"
)

// pathsParams holds the parameters for the "cborcheck paths" command.
type pathsParams struct {
	cli.JSONOutput
	inputParams
}

// pathEntry is one node of the message.
type pathEntry struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Value any    `json:"value,omitempty"`
}

func pathsCommand() *cli.Command {
	var params pathsParams

	return &cli.Command{
		Name:    "paths",
		Summary: "List the path and kind of every node in a CBOR message",
		Description: `Decode one CBOR data item and print every node, parents before
children, in the order the message holds them. Integer and text
leaves include their value.

The printed paths are the ones "cborcheck check --read" accepts. A
read profile for a message type lists the leaf paths its consumer is
meant to look at.`,
		Usage: "cborcheck paths [-x] [-i IDENTITY] [--json] [file]",
		Examples: []cli.Example{
			{
				Description: "List the paths of a hex-encoded message",
				Command:     "echo 'a2 01 63 48 69 21 02 06' | cborcheck paths -x",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			data, remainingArgs, _, err := openInput(args, os.Stdin, params.inputParams)
			if err != nil {
				return inputError(err)
			}
			if len(remainingArgs) > 0 {
				return cli.Validation("paths takes no positional arguments besides an optional file path, got %q", remainingArgs[0])
			}
			entries, err := listPaths(data)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(os.Stdout, entries); done {
				return err
			}
			return writePaths(os.Stdout, entries)
		},
	}
}

func listPaths(data []byte) ([]pathEntry, error) {
	root, err := codec.Decode(data)
	if err != nil {
		return nil, cli.Validation("decode message: %w", err)
	}

	var entries []pathEntry
	tree.Walk(root, func(path tree.Path, node tree.Node) {
		entry := pathEntry{Path: path.String(), Kind: node.Kind().String()}
		// The tree is discarded, so extracting values here is harmless.
		switch n := node.(type) {
		case *tree.Int:
			entry.Value = n.Value()
		case *tree.Text:
			entry.Value = n.Value()
		}
		entries = append(entries, entry)
	})
	return entries, nil
}

func writePaths(w io.Writer, entries []pathEntry) error {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	for _, entry := range entries {
		switch value := entry.Value.(type) {
		case string:
			fmt.Fprintf(tw, "%s\t%s\t%q\n", entry.Path, entry.Kind, value)
		case nil:
			fmt.Fprintf(tw, "%s\t%s\n", entry.Path, entry.Kind)
		default:
			fmt.Fprintf(tw, "%s\t%s\t%v\n", entry.Path, entry.Kind, value)
		}
	}
	return tw.Flush()
}
