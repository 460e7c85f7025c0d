package ecs

import "testing"

func TestMemoryPoolAllocateGet(t *testing.T) {
	p := NewMemoryPool[int]()

	idx0, v0 := p.Allocate()
	*v0 = 100
	idx1, v1 := p.Allocate()
	*v1 = 200

	if got := *p.Get(idx0); got != 100 {
		t.Errorf("Get(%d) = %d, want 100", idx0, got)
	}
	if got := *p.Get(idx1); got != 200 {
		t.Errorf("Get(%d) = %d, want 200", idx1, got)
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}

func TestMemoryPoolSwapRemove(t *testing.T) {
	p := NewMemoryPool[int]()
	var indices []int
	for i := 0; i < 5; i++ {
		idx, v := p.Allocate()
		*v = i
		indices = append(indices, idx)
	}

	// Remove the middle element; the tail (value 4) should move in.
	tail := p.Remove(indices[2])
	if tail != indices[4] {
		t.Fatalf("Remove returned tail index %d, want %d", tail, indices[4])
	}
	if got := *p.Get(indices[2]); got != 4 {
		t.Errorf("Get(%d) after swap-remove = %d, want 4", indices[2], got)
	}
	if p.Len() != 4 {
		t.Errorf("Len() = %d, want 4", p.Len())
	}
}

func TestMemoryPoolRemoveTailNoRelocation(t *testing.T) {
	p := NewMemoryPool[int]()
	idx0, v0 := p.Allocate()
	*v0 = 1
	idx1, _ := p.Allocate()

	tail := p.Remove(idx1)
	if tail != idx1 {
		t.Errorf("Remove(tail) returned %d, want %d (no relocation)", tail, idx1)
	}
	if got := *p.Get(idx0); got != 1 {
		t.Errorf("Get(%d) = %d, want 1", idx0, got)
	}
}

func TestMemoryPoolGetOutOfRangePanics(t *testing.T) {
	p := NewMemoryPool[int]()
	p.Allocate()

	defer func() {
		if recover() == nil {
			t.Errorf("Get(out of range) did not panic")
		}
	}()
	p.Get(5)
}

func TestMemoryPoolChunkBoundary(t *testing.T) {
	Config.SetChunkSize(4)
	defer Config.SetChunkSize(1024)

	p := NewMemoryPool[int]()
	var indices []int
	for i := 0; i < 10; i++ {
		idx, v := p.Allocate()
		*v = i
		indices = append(indices, idx)
	}
	for i, idx := range indices {
		if got := *p.Get(idx); got != i {
			t.Errorf("Get(%d) = %d, want %d", idx, got, i)
		}
	}
}
