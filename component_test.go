package ecs

import "testing"

type Foo struct {
	Value int
}

func TestComponentRefRoundTrip(t *testing.T) {
	storage := NewComponentStorage[Foo](0)
	ref := storage.Create()
	storage.GetValue(ref.ctrlIndex).Value = 42

	if !ref.IsValid() {
		t.Fatal("fresh ref should be valid")
	}
	typed := NewTypedRef[Foo](ref, storage)
	if typed.Value().Value != 42 {
		t.Errorf("Value() = %d, want 42", typed.Value().Value)
	}

	ref.Release()
	if ref.IsValid() {
		t.Error("ref should be invalid after last release")
	}
}

func TestComponentStorageSwapRemoveStability(t *testing.T) {
	storage := NewComponentStorage[Foo](0)

	var refs []ComponentRef
	for i := 0; i < 1024; i++ {
		ref := storage.Create()
		storage.GetValue(ref.ctrlIndex).Value = i
		refs = append(refs, ref)
	}

	kept := refs[7].Retain()
	defer kept.Release()

	// Destroy the slot at logical index 3. This swap-removes the backing
	// data slot, but the control block for index 7 must still resolve to
	// the same logical value regardless of where its payload landed.
	refs[3].Release()

	storage2 := storage
	v := storage2.GetValue(kept.ctrlIndex)
	if v.Value != 7 {
		t.Errorf("kept ref resolves to value %d, want 7 (I6 violated)", v.Value)
	}
}

func TestComponentStorageDestroyFixesUpMovedOwner(t *testing.T) {
	storage := NewComponentStorage[Foo](0)

	a := storage.Create()
	storage.GetValue(a.ctrlIndex).Value = 1
	b := storage.Create()
	storage.GetValue(b.ctrlIndex).Value = 2
	c := storage.Create()
	storage.GetValue(c.ctrlIndex).Value = 3

	// Destroying the first slot forces the tail (c) to relocate into its
	// data slot. The control block that owns c's data must reflect the
	// new location, and b must be entirely untouched.
	a.Release()

	if storage.GetValue(b.ctrlIndex).Value != 2 {
		t.Errorf("b's value corrupted after sibling destroy")
	}
	if storage.GetValue(c.ctrlIndex).Value != 3 {
		t.Errorf("c's value corrupted after relocation, want 3")
	}
}

func TestTypedRefMismatchPanics(t *testing.T) {
	fooStorage := NewComponentStorage[Foo](0)
	barStorage := NewComponentStorage[int](1)

	ref := fooStorage.Create()
	defer func() {
		if recover() == nil {
			t.Error("NewTypedRef with mismatched type id did not panic")
		}
	}()
	NewTypedRef[int](ref, barStorage)
}
