// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCheckForUnread(t *testing.T) {
	tests := []struct {
		name  string
		build func() Node
		// access reads part of the tree before the check. Nil means
		// nothing is read.
		access func(t *testing.T, root Node)
		// wantMessage is the expected diagnostic. Empty means the
		// check must pass.
		wantMessage string
	}{
		{
			name:  "empty array",
			build: func() Node { return NewArray() },
		},
		{
			name:  "empty map",
			build: func() Node { return NewMap() },
		},
		{
			name:  "lone int root is never flagged",
			build: func() Node { return NewInt(6) },
		},
		{
			name:  "tag around empty map, child fetched",
			build: func() Node { return NewTag(45, NewMap()) },
			access: func(t *testing.T, root Node) {
				root.(*Tag).Get()
			},
		},
		{
			name:  "tag around map, int fetched but not extracted",
			build: func() Node { return NewTag(45, NewMap().Set(1, NewInt(6))) },
			access: func(t *testing.T, root Node) {
				m := root.(*Tag).Get().(*Map)
				mustGetKey(t, m, 1)
			},
			wantMessage: "Map key 1 with argument Int with value=6 was never read",
		},
		{
			name:  "tag around map, int extracted",
			build: func() Node { return NewTag(45, NewMap().Set(1, NewInt(6))) },
			access: func(t *testing.T, root Node) {
				m := root.(*Tag).Get().(*Map)
				mustGetKey(t, m, 1).(*Int).Value()
			},
		},
		{
			name:  "tag element fetched but its map never fetched",
			build: func() Node { return NewArray().Add(NewTag(45, NewMap())) },
			access: func(t *testing.T, root Node) {
				mustGetIndex(t, root.(*Array), 0)
			},
			wantMessage: "Tagged object 45 of type Map was never read",
		},
		{
			name:  "tag element and its map fetched",
			build: func() Node { return NewArray().Add(NewTag(45, NewMap())) },
			access: func(t *testing.T, root Node) {
				mustGetIndex(t, root.(*Array), 0).(*Tag).Get()
			},
		},
		{
			name:  "tagged int fetched but not extracted",
			build: func() Node { return NewArray().Add(NewTag(45, NewInt(6))) },
			access: func(t *testing.T, root Node) {
				mustGetIndex(t, root.(*Array), 0).(*Tag).Get()
			},
			wantMessage: "Tagged object 45 of type Int with value=6 was never read",
		},
		{
			name:  "tagged int extracted",
			build: func() Node { return NewArray().Add(NewTag(45, NewInt(6))) },
			access: func(t *testing.T, root Node) {
				mustGetIndex(t, root.(*Array), 0).(*Tag).Get().(*Int).Value()
			},
		},
		{
			name:  "text element fetched but not extracted",
			build: func() Node { return NewArray().Add(NewText("Hi!")) },
			access: func(t *testing.T, root Node) {
				mustGetIndex(t, root.(*Array), 0)
			},
			wantMessage: `Array element of type Text with value="Hi!" was never read`,
		},
		{
			name:  "int element extracted",
			build: func() Node { return NewArray().Add(NewInt(6)) },
			access: func(t *testing.T, root Node) {
				mustGetIndex(t, root.(*Array), 0).(*Int).Value()
			},
		},
		{
			name:        "map value never fetched",
			build:       func() Node { return NewMap().Set(1, NewArray()) },
			wantMessage: "Map key 1 with argument Array was never read",
		},
		{
			name:  "map value fetched",
			build: func() Node { return NewMap().Set(1, NewArray()) },
			access: func(t *testing.T, root Node) {
				mustGetKey(t, root.(*Map), 1)
			},
		},
		{
			name:  "nested array fetched",
			build: func() Node { return NewArray().Add(NewArray()) },
			access: func(t *testing.T, root Node) {
				mustGetIndex(t, root.(*Array), 0)
			},
		},
		{
			name:        "nested array never fetched",
			build:       func() Node { return NewArray().Add(NewArray()) },
			wantMessage: "Array element of type Array was never read",
		},
		{
			name:  "second element is the one reported",
			build: func() Node { return NewArray().Add(NewInt(1)).Add(NewInt(2)) },
			access: func(t *testing.T, root Node) {
				mustGetIndex(t, root.(*Array), 0).(*Int).Value()
			},
			wantMessage: "Array element of type Int with value=2 was never read",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tt.build()
			if tt.access != nil {
				tt.access(t, root)
			}

			err := CheckForUnread(root)
			if tt.wantMessage == "" {
				if err != nil {
					t.Fatalf("CheckForUnread: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("CheckForUnread succeeded, want %q", tt.wantMessage)
			}
			if !errors.Is(err, ErrIncompleteConsumption) {
				t.Errorf("error %v does not match ErrIncompleteConsumption", err)
			}
			if err.Error() != tt.wantMessage {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMessage)
			}
		})
	}
}

func TestCheckForUnread_StructuredDiagnostic(t *testing.T) {
	root := NewMap().
		Set(1, NewText("ok")).
		Set(2, NewArray().Add(NewTag(45, NewInt(6))))

	mustGetKey(t, root, 1).(*Text).Value()
	array := mustGetKey(t, root, 2).(*Array)
	mustGetIndex(t, array, 0).(*Tag).Get()

	err := CheckForUnread(root)
	var unread *UnreadError
	if !errors.As(err, &unread) {
		t.Fatalf("error %v is not an *UnreadError", err)
	}
	if unread.Kind != KindInt {
		t.Errorf("Kind = %v, want Int", unread.Kind)
	}
	if unread.Value != int64(6) {
		t.Errorf("Value = %#v, want int64(6)", unread.Value)
	}
	if unread.Holder != (TaggedObject{Number: 45}) {
		t.Errorf("Holder = %#v, want TaggedObject{45}", unread.Holder)
	}
	if got := unread.Path.String(); got != "$.2.0.@" {
		t.Errorf("Path = %s, want $.2.0.@", got)
	}
}

func TestCheckForUnread_ContainerValueIsNil(t *testing.T) {
	err := CheckForUnread(NewMap().Set(7, NewMap()))
	var unread *UnreadError
	if !errors.As(err, &unread) {
		t.Fatalf("error %v is not an *UnreadError", err)
	}
	if unread.Value != nil {
		t.Errorf("Value = %#v, want nil for a container", unread.Value)
	}
	if unread.Holder != (MapKey{Key: 7}) {
		t.Errorf("Holder = %#v, want MapKey{7}", unread.Holder)
	}
	if unread.Holder.Kind() != KindMap {
		t.Errorf("Holder.Kind() = %v, want Map", unread.Holder.Kind())
	}
}

func TestCheckForUnread_ArrayIndexInHolder(t *testing.T) {
	root := NewArray().Add(NewInt(1)).Add(NewInt(2))
	mustGetIndex(t, root, 0).(*Int).Value()

	err := CheckForUnread(root)
	var unread *UnreadError
	if !errors.As(err, &unread) {
		t.Fatalf("error %v is not an *UnreadError", err)
	}
	if unread.Holder != (ArrayElement{Index: 1}) || unread.Path.String() != "$.1" {
		t.Errorf("reported %#v at %s, want ArrayElement{1} at $.1", unread.Holder, unread.Path)
	}
	if err.Error() != "Array element of type Int with value=2 was never read" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCheckForUnread_ChildrenBeforeParent(t *testing.T) {
	// Neither the inner array nor its element was read. The walk
	// checks children first, so the element is reported.
	root := NewMap().Set(3, NewArray().Add(NewText("deep")))

	err := CheckForUnread(root)
	var unread *UnreadError
	if !errors.As(err, &unread) {
		t.Fatalf("error %v is not an *UnreadError", err)
	}
	if unread.Kind != KindText || unread.Value != "deep" {
		t.Errorf("reported %v %#v, want Text \"deep\"", unread.Kind, unread.Value)
	}
	if got := unread.Path.String(); got != "$.3.0" {
		t.Errorf("Path = %s, want $.3.0", got)
	}
}

func TestCheckForUnread_Deterministic(t *testing.T) {
	build := func() Node {
		return NewMap().
			Set(5, NewInt(1)).
			Set(1, NewInt(2)).
			Set(3, NewArray())
	}

	first := CheckForUnread(build())
	for range 10 {
		again := CheckForUnread(build())
		if first.Error() != again.Error() {
			t.Fatalf("diagnostic changed between runs: %q then %q", first, again)
		}
	}
	if !strings.HasPrefix(first.Error(), "Map key 5 ") {
		t.Errorf("first diagnostic = %q, want the first inserted entry (key 5)", first)
	}
}

func TestCheckForUnread_Idempotent(t *testing.T) {
	root := NewArray().Add(NewInt(1))
	mustGetIndex(t, root, 0).(*Int).Value()

	for attempt := range 2 {
		if err := CheckForUnread(root); err != nil {
			t.Fatalf("attempt %d: %v", attempt, err)
		}
	}
}

func TestCheckForUnread_ElaborateMessage(t *testing.T) {
	root := NewMap().Set(2, NewArray()).Set(1, NewText("Hi!"))
	mustGetKey(t, root, 2).(*Array).Add(NewInt(700))

	array := mustGetKey(t, root, 2).(*Array)
	if got := mustGetIndex(t, array, 0).(*Int).Value(); got != 700 {
		t.Errorf("array[0] = %d, want 700", got)
	}
	if got := mustGetKey(t, root, 1).(*Text).Value(); got != "Hi!" {
		t.Errorf("map[1] = %q, want %q", got, "Hi!")
	}

	if err := CheckForUnread(root); err != nil {
		t.Fatalf("CheckForUnread: %v", err)
	}
}

func TestCheckForUnread_NilRootPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("CheckForUnread(nil) did not panic")
		}
	}()
	CheckForUnread(nil)
}

func TestUnreadError_Rendering(t *testing.T) {
	tests := []struct {
		name string
		err  UnreadError
		want string
	}{
		{
			name: "no holder",
			err:  UnreadError{Kind: KindArray},
			want: "Array was never read",
		},
		{
			name: "negative map key",
			err:  UnreadError{Kind: KindText, Value: "x", Holder: MapKey{Key: -3}},
			want: `Map key -3 with argument Text with value="x" was never read`,
		},
		{
			name: "control characters stay quoted",
			err:  UnreadError{Kind: KindText, Value: "a\nb", Holder: ArrayElement{Index: 2}},
			want: `Array element of type Text with value="a\nb" was never read`,
		},
		{
			name: "large tag number",
			err:  UnreadError{Kind: KindMap, Holder: TaggedObject{Number: 1 << 63}},
			want: "Tagged object 9223372036854775808 of type Map was never read",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWalk(t *testing.T) {
	root := NewMap().
		Set(1, NewArray().Add(NewInt(1)).Add(NewTag(24, NewText("x")))).
		Set(2, NewText("y"))

	var paths []string
	var kinds []Kind
	Walk(root, func(path Path, node Node) {
		paths = append(paths, path.String())
		kinds = append(kinds, node.Kind())
	})

	wantPaths := []string{"$", "$.1", "$.1.0", "$.1.1", "$.1.1.@", "$.2"}
	wantKinds := []Kind{KindMap, KindArray, KindInt, KindTag, KindText, KindText}
	if !reflect.DeepEqual(paths, wantPaths) {
		t.Errorf("paths = %v, want %v", paths, wantPaths)
	}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Errorf("kinds = %v, want %v", kinds, wantKinds)
	}

	// Walking must not consume anything.
	err := CheckForUnread(root)
	var unread *UnreadError
	if !errors.As(err, &unread) || unread.Path.String() != "$.1.0" {
		t.Errorf("after Walk, CheckForUnread = %v, want the first element unread", err)
	}
}

func mustGetKey(t *testing.T, m *Map, key int64) Node {
	t.Helper()
	node, err := m.Get(key)
	if err != nil {
		t.Fatalf("Get(%d): %v", key, err)
	}
	return node
}

func mustGetIndex(t *testing.T, a *Array, index int) Node {
	t.Helper()
	node, err := a.Get(index)
	if err != nil {
		t.Fatalf("Get(%d): %v", index, err)
	}
	return node
}
