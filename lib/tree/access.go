// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import "fmt"

// AsInt extracts the value of an Int node, marking it read. Any other
// kind fails with [ErrKindMismatch] and is left unread.
func AsInt(node Node) (int64, error) {
	integer, ok := node.(*Int)
	if !ok {
		return 0, kindMismatch(KindInt, node)
	}
	return integer.Value(), nil
}

// AsText extracts the value of a Text node, marking it read.
func AsText(node Node) (string, error) {
	text, ok := node.(*Text)
	if !ok {
		return "", kindMismatch(KindText, node)
	}
	return text.Value(), nil
}

// AsMap asserts that node is a Map. It does not change read state: a
// map obtained through Get is already marked.
func AsMap(node Node) (*Map, error) {
	m, ok := node.(*Map)
	if !ok {
		return nil, kindMismatch(KindMap, node)
	}
	return m, nil
}

// AsArray asserts that node is an Array.
func AsArray(node Node) (*Array, error) {
	a, ok := node.(*Array)
	if !ok {
		return nil, kindMismatch(KindArray, node)
	}
	return a, nil
}

// AsTag asserts that node is a Tag.
func AsTag(node Node) (*Tag, error) {
	t, ok := node.(*Tag)
	if !ok {
		return nil, kindMismatch(KindTag, node)
	}
	return t, nil
}

func kindMismatch(want Kind, node Node) error {
	return fmt.Errorf("want %s, got %s: %w", want, node.Kind(), ErrKindMismatch)
}
