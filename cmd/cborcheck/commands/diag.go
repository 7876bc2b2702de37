// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/cborcheck/cmd/cborcheck/cli"
	"github.com/bureau-foundation/cborcheck/lib/codec"
)

// diagParams holds the parameters for the "cborcheck diag" command.
type diagParams struct {
	inputParams
}

func diagCommand() *cli.Command {
	var params diagParams

	return &cli.Command{
		Name:    "diag",
		Summary: "Print CBOR as diagnostic notation",
		Description: `Read CBOR and write RFC 8949 Extended Diagnostic Notation (EDN) to
stdout, one line per data item.

Unlike "check" and "paths", diag accepts any well-formed CBOR,
including floats, byte strings and CBOR sequences. Use it to see what
a message holds when check rejects it as undecodable.

Examples of diagnostic notation:

  {1: "Hi!", 2: [6]}                      integer keys
  45(700)                                 tagged value
  h'a1636b6579'                           byte string in hex`,
		Usage: "cborcheck diag [-x] [-i IDENTITY] [file]",
		Examples: []cli.Example{
			{
				Description: "Show diagnostic notation for a CBOR file",
				Command:     "cborcheck diag message.cbor",
			},
			{
				Description: "Show diagnostic notation for hex input",
				Command:     "echo 'a2 01 63 48 69 21 02 06' | cborcheck diag -x",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			data, remainingArgs, _, err := openInput(args, os.Stdin, params.inputParams)
			if err != nil {
				return inputError(err)
			}
			if len(remainingArgs) > 0 {
				return cli.Validation("diag takes no positional arguments besides an optional file path, got %q", remainingArgs[0])
			}
			return diagCBOR(data, os.Stdout)
		},
	}
}

// diagCBOR writes diagnostic notation for each item in data to w.
func diagCBOR(data []byte, w io.Writer) error {
	if len(data) == 0 {
		return cli.Validation("empty input: expected CBOR data")
	}

	// Each item of a CBOR sequence (RFC 8742) gets its own line.
	remaining := data
	for len(remaining) > 0 {
		notation, rest, err := codec.DiagnoseFirst(remaining)
		if err != nil {
			offset := len(data) - len(remaining)
			return cli.Validation("diagnose CBOR at byte %d: %w", offset, err)
		}
		if _, err := fmt.Fprintln(w, notation); err != nil {
			return err
		}
		remaining = rest
	}

	return nil
}
