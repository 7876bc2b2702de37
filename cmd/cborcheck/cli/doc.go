// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for cborcheck.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a parameter struct whose tagged
// fields become [pflag] flags, and a Run function. Commands are assembled
// into a tree in cmd/cborcheck/commands and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing, and
// structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Errors returned by commands are categorized with [ToolError] so callers
// can tell bad input from missing data from internal failures. A command
// that has already printed its result and only needs a non-zero exit
// returns an [ExitError].
package cli
