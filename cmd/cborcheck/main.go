// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// cborcheck decodes CBOR messages and reports any part of them that a
// given set of reads leaves unconsumed.
package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/cborcheck/cmd/cborcheck/commands"
)

func main() {
	if err := run(); err != nil {
		// "check" prints its own verdict and returns an ExitError for
		// an incomplete message. Don't print a redundant "error:" line.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
