// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"fmt"
	"strings"
)

// Holder describes the container an unread node was found in and its
// position there. Implemented by [MapKey], [ArrayElement] and
// [TaggedObject].
type Holder interface {
	// Kind is the kind of the holding container.
	Kind() Kind

	holder()
}

// MapKey is the position of a map value.
type MapKey struct {
	Key int64
}

// ArrayElement is the position of an array element.
type ArrayElement struct {
	Index int
}

// TaggedObject is the position of the child of a tag.
type TaggedObject struct {
	Number uint64
}

func (MapKey) Kind() Kind       { return KindMap }
func (ArrayElement) Kind() Kind { return KindArray }
func (TaggedObject) Kind() Kind { return KindTag }

func (MapKey) holder()       {}
func (ArrayElement) holder() {}
func (TaggedObject) holder() {}

// UnreadError is the diagnostic for the first node found unread by
// [CheckForUnread].
type UnreadError struct {
	// Kind of the unread node.
	Kind Kind

	// Value is the scalar (int64 or string) for primitives, nil for
	// containers.
	Value any

	// Holder is the immediate container and position. Nil only for a
	// root, which CheckForUnread never reports.
	Holder Holder

	// Path is the node's position from the root.
	Path Path
}

func (e *UnreadError) Error() string {
	var builder strings.Builder
	switch holder := e.Holder.(type) {
	case MapKey:
		fmt.Fprintf(&builder, "Map key %d with argument ", holder.Key)
	case ArrayElement:
		builder.WriteString("Array element of type ")
	case TaggedObject:
		fmt.Fprintf(&builder, "Tagged object %d of type ", holder.Number)
	}
	builder.WriteString(e.Kind.String())
	switch value := e.Value.(type) {
	case int64:
		fmt.Fprintf(&builder, " with value=%d", value)
	case string:
		// Quoted: the text came off the wire.
		fmt.Fprintf(&builder, " with value=%q", value)
	}
	builder.WriteString(" was never read")
	return builder.String()
}

// Is makes errors.Is(err, ErrIncompleteConsumption) hold.
func (e *UnreadError) Is(target error) bool {
	return target == ErrIncompleteConsumption
}

// CheckForUnread verifies that every node reachable from root has been
// consumed. root itself is marked read first. The walk is depth-first
// in insertion and index order, and each node checks its own flag
// after its children, so the result for a given tree is always the
// same *UnreadError. Only the first unread node is reported.
//
// A fully read tree passes any number of times.
func CheckForUnread(root Node) error {
	mustNode(root, "CheckForUnread")
	root.flag().read = true
	return audit(root, nil, nil)
}

func audit(node Node, holder Holder, path Path) error {
	switch n := node.(type) {
	case *Map:
		for _, e := range n.entries {
			if err := audit(e.value, MapKey{Key: e.key}, path.child(KeyStep(e.key))); err != nil {
				return err
			}
		}
	case *Array:
		for index, element := range n.elements {
			if err := audit(element, ArrayElement{Index: index}, path.child(KeyStep(int64(index)))); err != nil {
				return err
			}
		}
	case *Tag:
		if err := audit(n.child, TaggedObject{Number: n.number}, path.child(TagStep())); err != nil {
			return err
		}
	case *Int, *Text:
	default:
		panic(fmt.Sprintf("tree: unknown node type %T", node))
	}

	if node.flag().read {
		return nil
	}
	return &UnreadError{
		Kind:   node.Kind(),
		Value:  scalar(node),
		Holder: holder,
		Path:   path,
	}
}

// scalar returns a primitive's value without marking it read.
func scalar(node Node) any {
	switch n := node.(type) {
	case *Int:
		return n.value
	case *Text:
		return n.value
	default:
		return nil
	}
}
