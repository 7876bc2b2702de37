// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/cborcheck/lib/tree"
)

// CBOR major types (RFC 8949 §3.1).
const (
	majorUnsigned byte = iota
	majorNegative
	majorBytes
	majorText
	majorArray
	majorMap
	majorTag
	majorSimple
)

func majorName(major byte) string {
	switch major {
	case majorUnsigned:
		return "unsigned integer"
	case majorNegative:
		return "negative integer"
	case majorBytes:
		return "byte string"
	case majorText:
		return "text string"
	case majorArray:
		return "array"
	case majorMap:
		return "map"
	case majorTag:
		return "tag"
	default:
		return "float or simple value"
	}
}

// Decode parses data, which must hold exactly one well-formed CBOR data
// item, into an unread tree.
func Decode(data []byte) (tree.Node, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty input: expected one CBOR data item")
	}
	if err := decMode.Wellformed(data); err != nil {
		return nil, fmt.Errorf("malformed CBOR: %w", err)
	}
	return decodeItem(data)
}

// decodeItem converts one complete, already well-formed item.
func decodeItem(item []byte) (tree.Node, error) {
	switch major := item[0] >> 5; major {
	case majorUnsigned, majorNegative:
		value, err := decodeInt(item)
		if err != nil {
			return nil, err
		}
		return tree.NewInt(value), nil

	case majorText:
		var value string
		if err := decMode.Unmarshal(item, &value); err != nil {
			return nil, fmt.Errorf("decode text string: %w", err)
		}
		return tree.NewText(value), nil

	case majorArray:
		var elements []cbor.RawMessage
		if err := decMode.Unmarshal(item, &elements); err != nil {
			return nil, fmt.Errorf("decode array: %w", err)
		}
		array := tree.NewArray()
		for index, element := range elements {
			child, err := decodeItem(element)
			if err != nil {
				return nil, fmt.Errorf("array element %d: %w", index, err)
			}
			array.Add(child)
		}
		return array, nil

	case majorMap:
		return decodeMap(item)

	case majorTag:
		// Any tag number is kept as is, including 55799 and the
		// registered ones: tag semantics are not this layer's concern.
		// The content after the head is one complete item because the
		// whole message passed Wellformed.
		number, content, err := readArgument(item)
		if err != nil {
			return nil, err
		}
		child, err := decodeItem(content)
		if err != nil {
			return nil, fmt.Errorf("tagged object %d: %w", number, err)
		}
		return tree.NewTag(number, child), nil

	default:
		return nil, fmt.Errorf("%s is not supported: %w", majorName(major), tree.ErrTypeMismatch)
	}
}

func decodeInt(item []byte) (int64, error) {
	var value int64
	if err := decMode.Unmarshal(item, &value); err != nil {
		return 0, fmt.Errorf("integer outside int64 range (%v): %w", err, tree.ErrTypeMismatch)
	}
	return value, nil
}

// decodeMap walks map entries in wire order. Go maps would lose both
// the order and any duplicate keys, and the completeness check has to
// see every entry the sender put on the wire.
func decodeMap(item []byte) (tree.Node, error) {
	count, rest, err := readArgument(item)
	if err != nil {
		return nil, err
	}

	m := tree.NewMap()
	for index := range count {
		var rawKey, rawValue cbor.RawMessage
		rest, err = decMode.UnmarshalFirst(rest, &rawKey)
		if err != nil {
			return nil, fmt.Errorf("map entry %d key: %w", index, err)
		}
		if major := rawKey[0] >> 5; major != majorUnsigned && major != majorNegative {
			return nil, fmt.Errorf("map entry %d: key is a %s, want an integer: %w", index, majorName(major), tree.ErrTypeMismatch)
		}
		key, err := decodeInt(rawKey)
		if err != nil {
			return nil, fmt.Errorf("map entry %d key: %w", index, err)
		}

		rest, err = decMode.UnmarshalFirst(rest, &rawValue)
		if err != nil {
			return nil, fmt.Errorf("map key %d value: %w", key, err)
		}
		value, err := decodeItem(rawValue)
		if err != nil {
			return nil, fmt.Errorf("map key %d: %w", key, err)
		}
		m.Set(key, value)
	}
	return m, nil
}

// readArgument decodes the head of a definite-length item (RFC 8949
// §3) and returns its argument and the bytes that follow the head.
func readArgument(item []byte) (uint64, []byte, error) {
	info := item[0] & 0x1f
	body := item[1:]

	var width int
	switch {
	case info < 24:
		return uint64(info), body, nil
	case info == 24:
		width = 1
	case info == 25:
		width = 2
	case info == 26:
		width = 4
	case info == 27:
		width = 8
	default:
		return 0, nil, fmt.Errorf("unexpected additional information %d in %s head", info, majorName(item[0]>>5))
	}
	if len(body) < width {
		return 0, nil, fmt.Errorf("truncated %s head", majorName(item[0]>>5))
	}

	var argument uint64
	switch width {
	case 1:
		argument = uint64(body[0])
	case 2:
		argument = uint64(binary.BigEndian.Uint16(body))
	case 4:
		argument = uint64(binary.BigEndian.Uint32(body))
	case 8:
		argument = binary.BigEndian.Uint64(body)
	}
	return argument, body[width:], nil
}
