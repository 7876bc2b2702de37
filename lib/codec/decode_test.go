// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/hex"
	"errors"
	"reflect"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/cborcheck/lib/tree"
)

func mustHex(t *testing.T, text string) []byte {
	t.Helper()
	data, err := hex.DecodeString(text)
	if err != nil {
		t.Fatalf("decode hex %q: %v", text, err)
	}
	return data
}

func TestDecode_StructMessage(t *testing.T) {
	data, err := Marshal(statusRequest{Action: "status", Counts: []int64{700, -1}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	root, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m, err := tree.AsMap(root)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if !reflect.DeepEqual(m.Keys(), []int64{1, 2}) {
		t.Errorf("Keys() = %v, want [1 2]", m.Keys())
	}

	actionNode, err := m.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	if action, err := tree.AsText(actionNode); err != nil || action != "status" {
		t.Errorf("action = %q, %v", action, err)
	}

	countsNode, err := m.Get(2)
	if err != nil {
		t.Fatalf("Get(2): %v", err)
	}
	counts, err := tree.AsArray(countsNode)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	for index, want := range []int64{700, -1} {
		element, err := counts.Get(index)
		if err != nil {
			t.Fatalf("counts[%d]: %v", index, err)
		}
		if got, err := tree.AsInt(element); err != nil || got != want {
			t.Errorf("counts[%d] = %d, %v; want %d", index, got, err, want)
		}
	}

	if err := tree.CheckForUnread(root); err != nil {
		t.Errorf("CheckForUnread after reading everything: %v", err)
	}
}

func TestDecode_Tag(t *testing.T) {
	data, err := Marshal([]any{cbor.Tag{Number: 45, Content: int64(6)}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	root, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	element, err := root.(*tree.Array).Get(0)
	if err != nil {
		t.Fatalf("Get(0): %v", err)
	}
	tag, err := tree.AsTag(element)
	if err != nil {
		t.Fatalf("element: %v", err)
	}
	if tag.Number() != 45 {
		t.Errorf("Number() = %d, want 45", tag.Number())
	}
	tag.Get()

	err = tree.CheckForUnread(root)
	if err == nil || err.Error() != "Tagged object 45 of type Int with value=6 was never read" {
		t.Errorf("CheckForUnread = %v", err)
	}
}

func TestDecode_AnyTagNumber(t *testing.T) {
	tests := []struct {
		name       string
		hex        string
		wantNumber uint64
		wantChild  tree.Kind
	}{
		// 55799({1: 1})
		{name: "self-described CBOR", hex: "d9d9f7a10101", wantNumber: 55799, wantChild: tree.KindMap},
		// 0(0): registered as a date string, content not checked.
		{name: "registered tag with other content", hex: "c000", wantNumber: 0, wantChild: tree.KindInt},
		// 1(6)
		{name: "epoch time", hex: "c106", wantNumber: 1, wantChild: tree.KindInt},
		// 45(45("a"))
		{name: "nested tags", hex: "d82dd82d6161", wantNumber: 45, wantChild: tree.KindTag},
		// 4294967296(1): eight-byte tag head
		{name: "eight-byte number", hex: "db000000010000000001", wantNumber: 1 << 32, wantChild: tree.KindInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Decode(mustHex(t, tt.hex))
			if err != nil {
				t.Fatalf("Decode(%s): %v", tt.hex, err)
			}
			tag, err := tree.AsTag(root)
			if err != nil {
				t.Fatalf("root: %v", err)
			}
			if tag.Number() != tt.wantNumber {
				t.Errorf("Number() = %d, want %d", tag.Number(), tt.wantNumber)
			}
			if kind := tag.Get().Kind(); kind != tt.wantChild {
				t.Errorf("child kind = %v, want %v", kind, tt.wantChild)
			}
		})
	}
}

func TestDecode_TagWithUnsupportedContent(t *testing.T) {
	// 2(h'01'): the tag decodes, the byte string does not.
	_, err := Decode(mustHex(t, "c24101"))
	if !errors.Is(err, tree.ErrTypeMismatch) {
		t.Errorf("Decode error = %v, want ErrTypeMismatch", err)
	}
}

func TestDecode_PreservesWireOrderAndDuplicates(t *testing.T) {
	tests := []struct {
		name     string
		hex      string
		wantKeys []int64
	}{
		// {2: [], 1: "Hi!"}
		{name: "unsorted keys", hex: "a202800163486921", wantKeys: []int64{2, 1}},
		// {1: 1, 1: 2}
		{name: "duplicate keys", hex: "a201010102", wantKeys: []int64{1, 1}},
		// {-1: 0}
		{name: "negative key", hex: "a12000", wantKeys: []int64{-1}},
		// 24 entries forces a one-byte length argument.
		{name: "one-byte length", hex: "b818" + repeatEntries(24), wantKeys: sequenceKeys(24)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Decode(mustHex(t, tt.hex))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			m, err := tree.AsMap(root)
			if err != nil {
				t.Fatalf("root: %v", err)
			}
			if !reflect.DeepEqual(m.Keys(), tt.wantKeys) {
				t.Errorf("Keys() = %v, want %v", m.Keys(), tt.wantKeys)
			}
		})
	}
}

// repeatEntries returns hex for count map entries {i: 0} with keys
// 0..count-1 (all below 24, so each key is one byte).
func repeatEntries(count int) string {
	var text string
	for i := range count {
		text += hex.EncodeToString([]byte{byte(i), 0x00})
	}
	return text
}

func sequenceKeys(count int) []int64 {
	keys := make([]int64, count)
	for i := range keys {
		keys[i] = int64(i)
	}
	return keys
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name         string
		hex          string
		wantMismatch bool
	}{
		{name: "byte string", hex: "4100", wantMismatch: true},
		{name: "half float", hex: "f93c00", wantMismatch: true},
		{name: "true", hex: "f5", wantMismatch: true},
		{name: "null", hex: "f6", wantMismatch: true},
		{name: "text map key", hex: "a1616101", wantMismatch: true},
		{name: "byte string inside array", hex: "82014100", wantMismatch: true},
		{name: "uint64 above int64", hex: "1bffffffffffffffff", wantMismatch: true},
		{name: "negative below int64", hex: "3bffffffffffffffff", wantMismatch: true},
		{name: "indefinite-length array", hex: "9f01ff"},
		{name: "trailing bytes", hex: "0102"},
		{name: "truncated", hex: "82"},
		{name: "invalid utf-8 text", hex: "61ff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(mustHex(t, tt.hex))
			if err == nil {
				t.Fatalf("Decode(%s) succeeded, want error", tt.hex)
			}
			if got := errors.Is(err, tree.ErrTypeMismatch); got != tt.wantMismatch {
				t.Errorf("errors.Is(ErrTypeMismatch) = %v, want %v (err: %v)", got, tt.wantMismatch, err)
			}
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Error("Decode(nil) succeeded, want error")
	}
}

func TestDecode_NodesStartUnread(t *testing.T) {
	// [{1: "x"}]
	root, err := Decode(mustHex(t, "81a1016178"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	err = tree.CheckForUnread(root)
	var unread *tree.UnreadError
	if !errors.As(err, &unread) {
		t.Fatalf("CheckForUnread = %v, want *tree.UnreadError", err)
	}
	if unread.Path.String() != "$.0.1" || unread.Value != "x" {
		t.Errorf("reported %s = %#v, want $.0.1 = \"x\"", unread.Path, unread.Value)
	}
}
