// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the cborcheck command tree.
package commands

import (
	"github.com/bureau-foundation/cborcheck/cmd/cborcheck/cli"
)

// Root builds and returns the complete cborcheck command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "cborcheck",
		Description: `cborcheck: verify that a CBOR message was read completely.

A message is decoded into a tree of maps, arrays, tags, integers and
text strings. Reading a value marks it consumed. After the reads, any
node that was never consumed is reported, because a field nobody read
is a field nobody validated.

All commands accept an optional trailing file path argument. When it is
omitted, input is read from stdin. With --hex, input is hex-encoded CBOR
and whitespace is ignored. Captures compressed with zstd or LZ4, or
encrypted with age (--identity), are opened before decoding.`,
		Subcommands: []*cli.Command{
			checkCommand(),
			pathsCommand(),
			diagCommand(),
		},
	}
}
