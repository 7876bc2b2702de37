// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tree holds decoded CBOR messages as an in-memory tree and
// tracks which parts of it the application actually consumed.
//
// A decoder that silently accepts fields nobody looks at lets an
// attacker smuggle data past application logic that only inspects the
// fields it expects. The remedy here is bookkeeping: every node carries
// a read flag, the accessors set it, and [CheckForUnread] walks the
// whole tree afterward and fails on the first node that was never
// consumed.
//
// The node set is closed: [*Map], [*Array], [*Tag], [*Int] and [*Text].
// The two consumption rules differ by kind:
//
//   - Containers (Map, Array, Tag) are consumed when they are fetched
//     out of their parent with Get. The caller now holds them and is
//     expected to continue into them.
//   - Primitives (Int, Text) are consumed only when their Value is
//     extracted. Fetching a primitive without reading it is not
//     consumption.
//
// The root passed to [CheckForUnread] counts as read, since nothing
// fetches it from a parent.
//
// Typical use:
//
//	root := tree.NewMap().
//	    Set(1, tree.NewText("status")).
//	    Set(2, tree.NewArray().Add(tree.NewInt(700)))
//
//	node, err := root.Get(1)
//	if err != nil {
//	    return err
//	}
//	action, err := tree.AsText(node)
//	...
//	if err := tree.CheckForUnread(root); err != nil {
//	    // reject the whole message
//	}
//
// Read flags only ever go from false to true. A tree is owned by a
// single goroutine for its whole build-read-check lifecycle; nothing
// in this package synchronizes flag updates.
//
// [Path] names a node's position from the root ($.2.0, $.0.@) and is
// shared by diagnostics and by [Read], which walks a path with the
// normal accessors.
package tree
