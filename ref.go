package ecs

import "github.com/TheBitDrifter/bark"

// ComponentRef is a counted, non-owning reference to a component slot via
// its pinned ControlBlock. Copies share the same control block and must
// each be explicitly Released; on the 1->0 transition the slot returns to
// its storage's free list.
type ComponentRef struct {
	storage   AnyComponentStorage
	ctrlIndex int32
}

// IsValid reports whether the referenced slot is still live.
func (r ComponentRef) IsValid() bool {
	return r.storage != nil && r.storage.GetCtrl(r.ctrlIndex).RefCount > 0
}

// TypeID returns the component type id of the referenced slot, or
// InvalidComponentTypeID if the ref is invalid.
func (r ComponentRef) TypeID() ComponentTypeID {
	if !r.IsValid() {
		return InvalidComponentTypeID
	}
	return r.storage.GetCtrl(r.ctrlIndex).TypeID
}

// EntityID returns the owning entity, or InvalidEntityID if unattached or
// the ref is invalid.
func (r ComponentRef) EntityID() EntityID {
	if !r.IsValid() {
		return InvalidEntityID
	}
	return r.storage.GetCtrl(r.ctrlIndex).EntityID
}

// Retain increments the slot's ref count and returns a copy sharing it.
// Dereferencing an invalid ref is a caller bug; Retain panics in that case.
func (r ComponentRef) Retain() ComponentRef {
	if !r.IsValid() {
		panic(bark.AddTrace(InvalidIndexError{Index: int(r.ctrlIndex), Len: 0}))
	}
	r.storage.GetCtrl(r.ctrlIndex).RefCount++
	return r
}

// Release decrements the slot's ref count; on 1->0 the storage destroys
// the slot. Releasing an already-invalid ref is a no-op.
func (r ComponentRef) Release() {
	if r.storage == nil {
		return
	}
	ctrl := r.storage.GetCtrl(r.ctrlIndex)
	if ctrl.RefCount <= 0 {
		return
	}
	ctrl.RefCount--
	if ctrl.RefCount == 0 {
		r.storage.Destroy(r.ctrlIndex)
	}
}

// GetSibling looks up another component of typeID on the same entity as
// r, via table. Returns an invalid ComponentRef if r is invalid, unattached,
// or the entity has no component of that type.
func (r ComponentRef) GetSibling(table *EntityTable, typeID ComponentTypeID) ComponentRef {
	if !r.IsValid() {
		return ComponentRef{}
	}
	eid := r.EntityID()
	if eid == InvalidEntityID {
		return ComponentRef{}
	}
	return table.GetComponent(eid, typeID)
}

// TypedRef adds a checked, type-safe view over a ComponentRef for
// component type T.
type TypedRef[T any] struct {
	ComponentRef
	storage *ComponentStorage[T]
}

// NewTypedRef downcasts ref to TypedRef[T], checking ref.TypeID() against
// the id storage was registered under. Panics on mismatch.
func NewTypedRef[T any](ref ComponentRef, storage *ComponentStorage[T]) TypedRef[T] {
	if ref.IsValid() && ref.TypeID() != storage.TypeID() {
		panic(bark.AddTrace(InvalidComponentTypeError{TypeID: ref.TypeID()}))
	}
	return TypedRef[T]{ComponentRef: ref, storage: storage}
}

// Value resolves the ref to its live T, or nil if the ref is invalid.
func (r TypedRef[T]) Value() *T {
	if !r.IsValid() {
		return nil
	}
	return r.storage.GetValue(r.ctrlIndex)
}
