// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/bureau-foundation/cborcheck/cmd/cborcheck/cli"
	"github.com/bureau-foundation/cborcheck/lib/codec"
	"github.com/bureau-foundation/cborcheck/lib/profile"
	"github.com/bureau-foundation/cborcheck/lib/tree"
)

// checkParams holds the parameters for the "cborcheck check" command.
type checkParams struct {
	cli.JSONOutput
	inputParams
	Read    []string `json:"read"    flag:"read,r"    desc:"path to read before the check, e.g. $.2.0 (repeatable)"`
	Profile string   `json:"profile" flag:"profile,p" desc:"read profile listing the paths to read (YAML or JSONC)"`
	Verbose bool     `json:"verbose" flag:"verbose,v" desc:"log each read to stderr"`
}

// checkResult is the outcome of a check. Every field except Complete
// is empty for a complete message.
type checkResult struct {
	Complete bool          `json:"complete"`
	Kind     string        `json:"kind,omitempty"`
	Value    any           `json:"value,omitempty"`
	Holder   *holderResult `json:"holder,omitempty"`
	Path     string        `json:"path,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// holderResult is the container an unread node sits in. Exactly one of
// Key, Index and Number is set, matching Kind.
type holderResult struct {
	Kind   string  `json:"kind"`
	Key    *int64  `json:"key,omitempty"`
	Index  *int    `json:"index,omitempty"`
	Number *uint64 `json:"number,omitempty"`
}

func checkCommand() *cli.Command {
	var params checkParams

	return &cli.Command{
		Name:    "check",
		Summary: "Read paths from a CBOR message and report anything left unread",
		Description: `Decode one CBOR data item, read each --read path (and each path of
the --profile, if given), then check that every node of the message
was consumed.

Reading a path marks every container along it as read. When the path
ends at an integer or text string, that value is read too. A path that
stops at a container leaves the container's children unread.

Paths are dot-separated steps from the root "$": an integer is a map
key or array index, and "@" enters a tag. "$.2.0.@" is the tagged
object held by element 0 of the array stored under map key 2.

Prints "complete" and exits 0 when nothing is left unread. Otherwise
prints the first unread node found, children before parents in
insertion order, and exits 1.

Captures compressed with zstd or LZ4, or encrypted with age, are
opened automatically. Encrypted captures need --identity.`,
		Usage: "cborcheck check [--read PATH]... [--profile FILE] [-x] [-i IDENTITY] [--json] [file]",
		Examples: []cli.Example{
			{
				Description: "Check that reading keys 1 and 2 consumes a message",
				Command:     "cborcheck check --read 1 --read 2 message.cbor",
			},
			{
				Description: "Check hex input against a read profile",
				Command:     "echo 'a2 01 63 48 69 21 02 06' | cborcheck check -x --profile status.yaml",
			},
			{
				Description: "Check an encrypted, compressed capture",
				Command:     "cborcheck check -i capture.key -r 1 -r 2 message.cbor.zst.age",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			logger := cli.NewCommandLogger(params.Verbose).With("command", "check")
			return runCheck(&params, args, os.Stdin, os.Stdout, logger)
		},
	}
}

func runCheck(params *checkParams, args []string, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	texts := params.Read
	input := params.inputParams
	if params.Profile != "" {
		loaded, err := profile.ReadFile(params.Profile)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return cli.NotFound("%w", err)
			}
			return cli.Validation("%w", err)
		}
		logger.Debug("loaded read profile", "profile", loaded.Name, "paths", len(loaded.Read))
		texts = append(loaded.Read, texts...)
		input.HexInput = input.HexInput || loaded.Hex
	}

	paths := make([]tree.Path, 0, len(texts))
	for _, text := range texts {
		path, err := tree.ParsePath(text)
		if err != nil {
			return cli.Validation("--read %q: %w", text, err)
		}
		paths = append(paths, path)
	}

	data, remainingArgs, layers, err := openInput(args, stdin, input)
	if err != nil {
		return inputError(err)
	}
	if len(layers) > 0 {
		logger.Debug("opened capture", "layers", layers)
	}
	if len(remainingArgs) > 0 {
		return cli.Validation("check takes no positional arguments besides an optional file path, got %q", remainingArgs[0])
	}

	result, err := checkMessage(data, paths, logger)
	if err != nil {
		return err
	}

	if done, err := params.EmitJSON(stdout, result); done {
		if err != nil {
			return err
		}
	} else if result.Complete {
		fmt.Fprintln(stdout, "complete")
	} else {
		fmt.Fprintln(stdout, result.Message)
		fmt.Fprintf(stdout, "  at %s\n", result.Path)
	}

	if !result.Complete {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// checkMessage consumes data by reading each path, and turns an
// incomplete read into a checkResult. Failures before the check are
// returned as categorized errors.
func checkMessage(data []byte, paths []tree.Path, logger *slog.Logger) (checkResult, error) {
	err := codec.Consume(data, logger, func(root tree.Node) error {
		for _, path := range paths {
			node, err := tree.Read(root, path)
			if err != nil {
				return err
			}
			logger.Debug("read path", "path", path.String(), "kind", node.Kind().String())
		}
		return nil
	})

	var unread *tree.UnreadError
	switch {
	case err == nil:
		return checkResult{Complete: true}, nil
	case errors.As(err, &unread):
		return resultFromUnread(unread), nil
	case errors.Is(err, tree.ErrKeyNotFound), errors.Is(err, tree.ErrIndexOutOfRange):
		return checkResult{}, cli.NotFound("%w", err).
			WithHint("Run 'cborcheck paths' on the same input to list the paths it contains.")
	default:
		return checkResult{}, cli.Validation("%w", err)
	}
}

func resultFromUnread(unread *tree.UnreadError) checkResult {
	result := checkResult{
		Kind:    unread.Kind.String(),
		Value:   unread.Value,
		Path:    unread.Path.String(),
		Message: unread.Error(),
	}
	switch holder := unread.Holder.(type) {
	case tree.MapKey:
		result.Holder = &holderResult{Kind: holder.Kind().String(), Key: &holder.Key}
	case tree.ArrayElement:
		result.Holder = &holderResult{Kind: holder.Kind().String(), Index: &holder.Index}
	case tree.TaggedObject:
		result.Holder = &holderResult{Kind: holder.Kind().String(), Number: &holder.Number}
	}
	return result
}
