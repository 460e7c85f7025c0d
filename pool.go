package ecs

import "github.com/TheBitDrifter/bark"

// MemoryPool is chunked, append-only storage for T with O(1) index access
// and swap-remove that keeps the live range dense. Indices are stable only
// until the next Remove; callers that need relocation-safe references must
// layer a ControlBlock-style indirection on top (see ComponentStorage).
type MemoryPool[T any] struct {
	chunks    [][]T
	chunkSize int
	len       int
}

// NewMemoryPool creates an empty pool using the configured chunk size.
func NewMemoryPool[T any]() *MemoryPool[T] {
	return &MemoryPool[T]{chunkSize: Config.ChunkSize()}
}

// Len returns the number of live elements.
func (p *MemoryPool[T]) Len() int {
	return p.len
}

// Allocate appends a zero-valued T and returns its index plus a pointer to
// the stored slot. Allocates a new chunk if the last one is full.
func (p *MemoryPool[T]) Allocate() (int, *T) {
	chunkIdx := p.len / p.chunkSize
	offset := p.len % p.chunkSize
	if chunkIdx >= len(p.chunks) {
		p.chunks = append(p.chunks, make([]T, p.chunkSize))
	}
	idx := p.len
	p.len++
	return idx, &p.chunks[chunkIdx][offset]
}

// Get returns a pointer to the element at idx. Panics (via bark.AddTrace)
// if idx is out of range — this is always a contract violation.
func (p *MemoryPool[T]) Get(idx int) *T {
	if idx < 0 || idx >= p.len {
		panic(bark.AddTrace(InvalidIndexError{Index: idx, Len: p.len}))
	}
	chunkIdx := idx / p.chunkSize
	offset := idx % p.chunkSize
	return &p.chunks[chunkIdx][offset]
}

// Remove swap-removes the element at idx: the tail element (if idx isn't
// already the tail) is moved into idx's slot, and the pool shrinks by one.
// Returns the former tail index, which is also the new Len; callers compare
// the result against idx to know whether a relocation happened (equal means
// idx was the tail and nothing moved).
func (p *MemoryPool[T]) Remove(idx int) int {
	if idx < 0 || idx >= p.len {
		panic(bark.AddTrace(InvalidIndexError{Index: idx, Len: p.len}))
	}
	tailIdx := p.len - 1
	if idx != tailIdx {
		*p.Get(idx) = *p.Get(tailIdx)
	}
	var zero T
	*p.Get(tailIdx) = zero
	p.len--
	return tailIdx
}

// Iter calls fn for every live element in index order. fn may not mutate
// the pool; doing so is undefined per the package's iteration contract.
func (p *MemoryPool[T]) Iter(fn func(index int, value *T)) {
	for i := 0; i < p.len; i++ {
		fn(i, p.Get(i))
	}
}

// Clear drops every element, releasing chunk memory.
func (p *MemoryPool[T]) Clear() {
	p.chunks = nil
	p.len = 0
}
