package ecs

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// ControlBlock is the pinned per-slot record backing every ComponentRef.
// Its own index never moves once allocated (I6); only DataIndex, which
// points into the storage's compacted data arena, changes as swap-remove
// relocates payloads.
type ControlBlock struct {
	TypeID    ComponentTypeID
	DataIndex int32
	EntityID  EntityID
	RefCount  int32
}

// AnyComponentStorage type-erases ComponentStorage[T] so a Registry can
// hold one vtable-shaped value per component type, indexed by
// ComponentTypeID, without needing a type parameter itself.
type AnyComponentStorage interface {
	TypeID() ComponentTypeID
	Create() ComponentRef
	Destroy(ctrlIndex int32)
	GetCtrl(ctrlIndex int32) *ControlBlock
	IterRefs(fn func(ComponentRef))
	Len() int
	DumpStorage() string
}

// ComponentStorage wraps a pinned control-block arena plus a compacted
// data arena for values of type T. See ComponentRef for the handle type
// external callers hold.
type ComponentStorage[T any] struct {
	typeID ComponentTypeID

	ctrls    []ControlBlock
	freeCtrl []int32

	data      []T
	dataOwner []int32 // dataOwner[i] = ctrl index owning data[i]
}

// NewComponentStorage creates an empty storage for component type T,
// registered under typeID.
func NewComponentStorage[T any](typeID ComponentTypeID) *ComponentStorage[T] {
	return &ComponentStorage[T]{typeID: typeID}
}

// TypeID returns the component type id this storage was registered under.
func (s *ComponentStorage[T]) TypeID() ComponentTypeID {
	return s.typeID
}

// Len returns the number of live component values.
func (s *ComponentStorage[T]) Len() int {
	return len(s.data)
}

// Create allocates a zero-valued T, installs its control block, and
// returns a ComponentRef with ref_count == 1. The component is not yet
// attached to any entity (EntityID is InvalidEntityID) until AddComponent
// is called on an Entity.
func (s *ComponentStorage[T]) Create() ComponentRef {
	dataIdx := int32(len(s.data))
	s.data = append(s.data, *new(T))
	s.dataOwner = append(s.dataOwner, -1)

	var ctrlIdx int32
	if n := len(s.freeCtrl); n > 0 {
		ctrlIdx = s.freeCtrl[n-1]
		s.freeCtrl = s.freeCtrl[:n-1]
	} else {
		ctrlIdx = int32(len(s.ctrls))
		s.ctrls = append(s.ctrls, ControlBlock{})
	}
	s.ctrls[ctrlIdx] = ControlBlock{
		TypeID:    s.typeID,
		DataIndex: dataIdx,
		EntityID:  InvalidEntityID,
		RefCount:  1,
	}
	s.dataOwner[dataIdx] = ctrlIdx

	return ComponentRef{storage: s, ctrlIndex: ctrlIdx}
}

// GetCtrl returns the control block for ctrlIndex. Panics on an index
// outside the ever-allocated range — dereferencing a never-allocated slot
// is always a programming error.
func (s *ComponentStorage[T]) GetCtrl(ctrlIndex int32) *ControlBlock {
	if ctrlIndex < 0 || int(ctrlIndex) >= len(s.ctrls) {
		panic(bark.AddTrace(InvalidIndexError{Index: int(ctrlIndex), Len: len(s.ctrls)}))
	}
	return &s.ctrls[ctrlIndex]
}

// GetValue resolves ctrlIndex through its control block to the live T
// value. Callers must have already checked the ref is valid.
func (s *ComponentStorage[T]) GetValue(ctrlIndex int32) *T {
	ctrl := s.GetCtrl(ctrlIndex)
	return &s.data[ctrl.DataIndex]
}

// Destroy runs T's "destructor" (zeroes the value), swap-removes the data
// slot, fixes up the control block of whatever payload was relocated into
// the freed data slot, and returns the control block itself to the free
// list. The control block's own index is never reused by a relocation —
// only explicitly, the next time Create pops it off freeCtrl — satisfying
// I6 for every ComponentRef that isn't the one being destroyed.
func (s *ComponentStorage[T]) Destroy(ctrlIndex int32) {
	ctrl := s.GetCtrl(ctrlIndex)
	dataIdx := int(ctrl.DataIndex)
	tailIdx := len(s.data) - 1

	var zero T
	if dataIdx != tailIdx {
		s.data[dataIdx] = s.data[tailIdx]
		s.dataOwner[dataIdx] = s.dataOwner[tailIdx]
		s.ctrls[s.dataOwner[dataIdx]].DataIndex = int32(dataIdx)
	}
	s.data[tailIdx] = zero
	s.data = s.data[:tailIdx]
	s.dataOwner = s.dataOwner[:tailIdx]

	*ctrl = ControlBlock{TypeID: InvalidComponentTypeID, DataIndex: -1, EntityID: InvalidEntityID, RefCount: 0}
	s.freeCtrl = append(s.freeCtrl, ctrlIndex)
}

// IterRefs visits every live component in this storage, handing each
// visitor a ComponentRef with its ref count incremented: the caller now
// shares ownership and must Release when done.
func (s *ComponentStorage[T]) IterRefs(fn func(ComponentRef)) {
	for i := range s.ctrls {
		if s.ctrls[i].RefCount <= 0 {
			continue
		}
		s.ctrls[i].RefCount++
		fn(ComponentRef{storage: s, ctrlIndex: int32(i)})
	}
}

// DumpStorage returns a human-readable summary of this storage's slots:
// one line per control block, live or free, in control-block index order.
func (s *ComponentStorage[T]) DumpStorage() string {
	out := fmt.Sprintf("ComponentStorage[type=%d] live=%d ctrl_slots=%d\n", s.typeID, len(s.data), len(s.ctrls))
	for i, ctrl := range s.ctrls {
		if ctrl.RefCount <= 0 {
			out += fmt.Sprintf("  [%d] free\n", i)
			continue
		}
		out += fmt.Sprintf("  [%d] entity=%d data_index=%d ref_count=%d\n", i, ctrl.EntityID, ctrl.DataIndex, ctrl.RefCount)
	}
	return out
}
