// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Step is one hop in a [Path]: either an integer (a map key, or an
// index when the container is an array) or the child of a tag.
type Step struct {
	// Tag selects the child of a tag. Key is ignored when set.
	Tag bool
	Key int64
}

// KeyStep returns a step selecting map key or array index key.
func KeyStep(key int64) Step { return Step{Key: key} }

// TagStep returns a step selecting the child of a tag.
func TagStep() Step { return Step{Tag: true} }

func (s Step) String() string {
	if s.Tag {
		return "@"
	}
	return strconv.FormatInt(s.Key, 10)
}

// Path is a node position relative to a root. The empty path is the
// root itself. The text form is "$" followed by ".step" per hop, for
// example "$.2.0" or "$.0.@.1".
type Path []Step

func (p Path) String() string {
	var builder strings.Builder
	builder.WriteByte('$')
	for _, step := range p {
		builder.WriteByte('.')
		builder.WriteString(step.String())
	}
	return builder.String()
}

// MarshalText renders the text form, so paths appear as strings in
// JSON output.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// child returns p extended by step without sharing p's backing array,
// so sibling paths built from the same prefix stay independent.
func (p Path) child(step Step) Path {
	return append(p[:len(p):len(p)], step)
}

// ParsePath parses the text form of a path. The leading "$." is
// optional: "2.0" and "$.2.0" are the same path, and "" and "$" are
// the root. A step that is neither "@" nor a decimal integer fails
// with [ErrTypeMismatch].
func ParsePath(text string) (Path, error) {
	trimmed := strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(trimmed, "$"); ok {
		if rest == "" {
			return Path{}, nil
		}
		trimmed, ok = strings.CutPrefix(rest, ".")
		if !ok {
			return nil, fmt.Errorf("path %q: expected '.' after '$': %w", text, ErrTypeMismatch)
		}
	}
	if trimmed == "" {
		return Path{}, nil
	}

	segments := strings.Split(trimmed, ".")
	path := make(Path, 0, len(segments))
	for _, segment := range segments {
		if segment == "@" {
			path = append(path, TagStep())
			continue
		}
		key, err := strconv.ParseInt(segment, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("path %q: step %q is not an integer key or '@': %w", text, segment, ErrTypeMismatch)
		}
		path = append(path, KeyStep(key))
	}
	return path, nil
}

// Read follows path from root using the ordinary accessors, so every
// container along the way is marked read. When the node at the end of
// the path is a primitive, its value is extracted and it is marked
// read too. The root itself is not marked; [CheckForUnread] does that.
//
// A key step on a tag, a tag step on a map or array, or any step below
// a primitive fails with [ErrKindMismatch].
func Read(root Node, path Path) (Node, error) {
	current := root
	for i, step := range path {
		next, err := descend(current, step)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path[:i+1], err)
		}
		current = next
	}

	switch n := current.(type) {
	case *Int:
		n.Value()
	case *Text:
		n.Value()
	}
	return current, nil
}

func descend(node Node, step Step) (Node, error) {
	switch n := node.(type) {
	case *Map:
		if step.Tag {
			return nil, fmt.Errorf("tag step on a Map: %w", ErrKindMismatch)
		}
		return n.Get(step.Key)
	case *Array:
		if step.Tag {
			return nil, fmt.Errorf("tag step on an Array: %w", ErrKindMismatch)
		}
		if step.Key < 0 || step.Key > math.MaxInt {
			return nil, fmt.Errorf("array index %d (length %d): %w", step.Key, n.Len(), ErrIndexOutOfRange)
		}
		return n.Get(int(step.Key))
	case *Tag:
		if !step.Tag {
			return nil, fmt.Errorf("key step %d on a Tag: %w", step.Key, ErrKindMismatch)
		}
		return n.Get(), nil
	case *Int, *Text:
		return nil, fmt.Errorf("%s has no children: %w", node.Kind(), ErrKindMismatch)
	default:
		panic(fmt.Sprintf("tree: unknown node type %T", node))
	}
}

// Walk calls fn for every node reachable from root, parents before
// children, in insertion and index order. It does not change any read
// state.
func Walk(root Node, fn func(path Path, node Node)) {
	walk(root, nil, fn)
}

func walk(node Node, path Path, fn func(Path, Node)) {
	fn(path, node)
	switch n := node.(type) {
	case *Map:
		for _, e := range n.entries {
			walk(e.value, path.child(KeyStep(e.key)), fn)
		}
	case *Array:
		for index, element := range n.elements {
			walk(element, path.child(KeyStep(int64(index))), fn)
		}
	case *Tag:
		walk(n.child, path.child(TagStep()), fn)
	case *Int, *Text:
	default:
		panic(fmt.Sprintf("tree: unknown node type %T", node))
	}
}
