// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec connects CBOR wire data to the consumption-tracking
// trees of lib/tree.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Same logical data always produces identical bytes.
//
//	data, err := codec.Marshal(value)
//
// [Decode] turns exactly one CBOR data item into a tree. The supported
// profile is the one lib/tree models: integers that fit in int64, text
// strings, arrays, maps with integer keys, and tags. Map entry order
// and duplicate keys are preserved as they appear on the wire, so the
// completeness check sees the message exactly as it was sent. Byte
// strings, floats, simple values and non-integer map keys fail with
// [tree.ErrTypeMismatch]; indefinite-length items and trailing bytes
// are rejected as malformed.
//
// [Consume] is the whole strict-read lifecycle in one call: decode,
// let the application read what it expects, then reject the message if
// anything was left unread.
//
//	err := codec.Consume(data, logger, func(root tree.Node) error {
//	    request, err := tree.AsMap(root)
//	    ...
//	})
package codec
