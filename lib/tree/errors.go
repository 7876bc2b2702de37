// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import "errors"

var (
	// ErrTypeMismatch reports a key, index, path step or primitive
	// value that is not of the required scalar kind.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrKeyNotFound reports a map lookup with no matching entry.
	ErrKeyNotFound = errors.New("key not found")

	// ErrIndexOutOfRange reports an array lookup outside the elements.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrKindMismatch reports a typed accessor used on a node of a
	// different kind, such as reading an integer out of a Text.
	ErrKindMismatch = errors.New("kind mismatch")

	// ErrIncompleteConsumption is matched by every *UnreadError.
	ErrIncompleteConsumption = errors.New("incomplete consumption")
)
