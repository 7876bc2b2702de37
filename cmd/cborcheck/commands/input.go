// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode"

	"filippo.io/age"

	"github.com/bureau-foundation/cborcheck/cmd/cborcheck/cli"
	"github.com/bureau-foundation/cborcheck/lib/capture"
)

// inputParams are the input flags shared by every command.
type inputParams struct {
	HexInput bool   `json:"hex_input" flag:"hex,x"      desc:"treat input as hex-encoded CBOR"`
	Identity string `json:"identity"  flag:"identity,i" desc:"age identity file for encrypted captures"`
}

// inputError categorizes an openInput failure. A missing input or
// identity file is not_found; anything else is bad input.
func inputError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return cli.NotFound("%w", err)
	}
	return cli.Validation("%w", err)
}

// openInput reads input as readInput does, then removes any zstd, LZ4
// or age layers around the message. The layers found are returned
// outermost first.
func openInput(args []string, stdin io.Reader, params inputParams) ([]byte, []string, []capture.Format, error) {
	data, remainingArgs, err := readInput(args, stdin, params.HexInput)
	if err != nil {
		return nil, nil, nil, err
	}

	var identities []age.Identity
	if params.Identity != "" {
		identities, err = capture.ReadIdentities(params.Identity)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	payload, layers, err := capture.Open(data, identities)
	if err != nil {
		return nil, nil, layers, fmt.Errorf("opening capture: %w", err)
	}
	return payload, remainingArgs, layers, nil
}

// readInput resolves input data from either a file (the last element
// of args, if it names a regular file on disk) or stdin.
//
// When hexMode is true, the raw bytes are treated as hex-encoded CBOR:
// whitespace is stripped and the hex is decoded to binary.
//
// Returns the input bytes and the args with any consumed file path
// removed. The caller is responsible for rejecting leftover args.
func readInput(args []string, stdin io.Reader, hexMode bool) ([]byte, []string, error) {
	var data []byte
	remainingArgs := args

	if length := len(args); length > 0 {
		candidate := args[length-1]
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			data, err = os.ReadFile(candidate)
			if err != nil {
				return nil, nil, fmt.Errorf("read %s: %w", candidate, err)
			}
			remainingArgs = args[:length-1]
		}
	}

	if data == nil {
		var err error
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
	}

	if hexMode {
		decoded, err := decodeHexInput(data)
		if err != nil {
			return nil, nil, err
		}
		data = decoded
	}

	return data, remainingArgs, nil
}

// decodeHexInput strips whitespace from hex-encoded input and decodes
// it to binary bytes. Whitespace between hex digit pairs is allowed
// (e.g., "a1 01 63 48 69 21" or "a101634869 21").
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}
