// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"fmt"
	"math"
)

// Kind identifies the variant of a [Node].
type Kind int

const (
	KindMap Kind = iota
	KindArray
	KindTag
	KindInt
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "Map"
	case KindArray:
		return "Array"
	case KindTag:
		return "Tag"
	case KindInt:
		return "Int"
	case KindText:
		return "Text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText renders the kind name, so JSON output carries "Map"
// rather than an ordinal.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node is a value in a decoded message tree. The set of
// implementations is closed to this package: *Map, *Array, *Tag, *Int
// and *Text.
type Node interface {
	// Kind reports which variant this node is.
	Kind() Kind

	flag() *readFlag
}

// readFlag is the per-node consumption state. Embedded by every node.
type readFlag struct {
	read bool
}

func (f *readFlag) flag() *readFlag { return f }

// IsPrimitive reports whether node is an Int or Text. Primitives are
// only consumed by extracting their value; every other kind is
// consumed by being fetched from its parent.
func IsPrimitive(node Node) bool {
	switch node.(type) {
	case *Int, *Text:
		return true
	case *Map, *Array, *Tag:
		return false
	default:
		panic(fmt.Sprintf("tree: unknown node type %T", node))
	}
}

// IsRead reports whether node has been consumed.
func IsRead(node Node) bool {
	return node.flag().read
}

// markFetched records that node was fetched out of its parent. Only
// containers count fetching as consumption.
func markFetched(node Node) Node {
	if !IsPrimitive(node) {
		node.flag().read = true
	}
	return node
}

func mustNode(node Node, operation string) {
	if node == nil {
		panic("tree: nil node passed to " + operation)
	}
}

// entry is one key/value pair of a Map. Keys are plain integers and
// carry no read state of their own.
type entry struct {
	key   int64
	value Node
}

// Map is an ordered sequence of integer-keyed entries. Duplicate keys
// are kept; lookups return the first match.
type Map struct {
	readFlag
	entries []entry
}

// NewMap returns an empty, unread map.
func NewMap() *Map {
	return &Map{}
}

func (m *Map) Kind() Kind { return KindMap }

// Set appends an entry and returns m so insertions can be chained.
// No uniqueness check is performed.
func (m *Map) Set(key int64, value Node) *Map {
	mustNode(value, "Map.Set")
	m.entries = append(m.entries, entry{key: key, value: value})
	return m
}

// Get returns the value of the first entry with the given key. A
// container value is marked read; a primitive is returned unmarked.
func (m *Map) Get(key int64) (Node, error) {
	for _, e := range m.entries {
		if e.key == key {
			return markFetched(e.value), nil
		}
	}
	return nil, fmt.Errorf("map key %d: %w", key, ErrKeyNotFound)
}

// Len returns the number of entries, duplicates included.
func (m *Map) Len() int { return len(m.entries) }

// Keys returns the entry keys in insertion order.
func (m *Map) Keys() []int64 {
	keys := make([]int64, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

// Array is an ordered sequence of nodes indexed from 0.
type Array struct {
	readFlag
	elements []Node
}

// NewArray returns an empty, unread array.
func NewArray() *Array {
	return &Array{}
}

func (a *Array) Kind() Kind { return KindArray }

// Add appends node and returns a for chaining.
func (a *Array) Add(node Node) *Array {
	mustNode(node, "Array.Add")
	a.elements = append(a.elements, node)
	return a
}

// Get returns the element at index, applying the same read marking
// as [Map.Get].
func (a *Array) Get(index int) (Node, error) {
	if index < 0 || index >= len(a.elements) {
		return nil, fmt.Errorf("array index %d (length %d): %w", index, len(a.elements), ErrIndexOutOfRange)
	}
	return markFetched(a.elements[index]), nil
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.elements) }

// Tag wraps exactly one child under a CBOR tag number.
type Tag struct {
	readFlag
	number uint64
	child  Node
}

// NewTag returns an unread tag wrapping child.
func NewTag(number uint64, child Node) *Tag {
	mustNode(child, "NewTag")
	return &Tag{number: number, child: child}
}

func (t *Tag) Kind() Kind { return KindTag }

// Number returns the tag number. Reading it does not consume anything.
func (t *Tag) Number() uint64 { return t.number }

// Get returns the wrapped child, marking it read if it is a container.
func (t *Tag) Get() Node {
	return markFetched(t.child)
}

// Int is an integer primitive.
type Int struct {
	readFlag
	value int64
}

// NewInt returns an unread integer primitive.
func NewInt(value int64) *Int {
	return &Int{value: value}
}

func (i *Int) Kind() Kind { return KindInt }

// Value extracts the integer and marks the node read.
func (i *Int) Value() int64 {
	i.read = true
	return i.value
}

// Text is a text string primitive.
type Text struct {
	readFlag
	value string
}

// NewText returns an unread text primitive.
func NewText(value string) *Text {
	return &Text{value: value}
}

func (t *Text) Kind() Kind { return KindText }

// Value extracts the string and marks the node read.
func (t *Text) Value() string {
	t.read = true
	return t.value
}

// NewPrimitive builds an Int from any Go integer type or a Text from a
// string. Any other value, or an unsigned integer above MaxInt64,
// fails with [ErrTypeMismatch].
func NewPrimitive(value any) (Node, error) {
	switch v := value.(type) {
	case string:
		return NewText(v), nil
	case int:
		return NewInt(int64(v)), nil
	case int8:
		return NewInt(int64(v)), nil
	case int16:
		return NewInt(int64(v)), nil
	case int32:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case uint:
		return unsignedPrimitive(uint64(v))
	case uint8:
		return NewInt(int64(v)), nil
	case uint16:
		return NewInt(int64(v)), nil
	case uint32:
		return NewInt(int64(v)), nil
	case uint64:
		return unsignedPrimitive(v)
	default:
		return nil, fmt.Errorf("primitive must be an integer or a string, got %T: %w", value, ErrTypeMismatch)
	}
}

func unsignedPrimitive(value uint64) (Node, error) {
	if value > math.MaxInt64 {
		return nil, fmt.Errorf("integer %d overflows int64: %w", value, ErrTypeMismatch)
	}
	return NewInt(int64(value)), nil
}
