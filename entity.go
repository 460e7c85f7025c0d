package ecs

import "github.com/TheBitDrifter/mask"

// EntityRecord is the per-entity state held in EntityTable's pool. Indices
// into ComponentLinkPool/ChildLinkPool are intrusive singly-linked lists;
// see ComponentLink/ChildLink.
type EntityRecord struct {
	ID             EntityID
	ParentID       EntityID
	HierarchyDepth uint16
	OrderInParent  uint16
	ChildrenCount  uint16
	ComponentMask  mask.Mask256

	ComponentsHead uint32 // head of this entity's ComponentLink list
	ChildrenHead   uint32 // head of this entity's ChildLink list

	RefCount        uint16
	StorageLocation int // index into EntityTable's entity pool

	Enabled             bool
	Activated           bool
	IteratingComponents bool
	Destroyed           bool
}

// ComponentLink is an intrusive entry in a per-entity singly-linked list
// of attached components. next == invalidIndex marks the list tail.
type ComponentLink struct {
	Next         uint32
	ComponentRef ComponentRef
}

// ChildLink is an intrusive entry in a per-entity singly-linked list of
// children. next == invalidIndex marks the list tail.
type ChildLink struct {
	Next    uint32
	ChildID EntityID
}

// EntityHandle is a reference-counted smart reference to an EntityRecord.
// The record is only reclaimed once its destroy flag is set (via Destroy)
// and the last handle has Released.
type EntityHandle struct {
	table *EntityTable
	id    EntityID
}

// ID returns the wrapped entity's identity.
func (h EntityHandle) ID() EntityID {
	return h.id
}

// Valid reports whether the handle still refers to a live record.
func (h EntityHandle) Valid() bool {
	return h.table != nil && h.table.isLive(h.id)
}

// Retain increments the record's ref count and returns a copy sharing it.
func (h EntityHandle) Retain() EntityHandle {
	h.table.retain(h.id)
	return h
}

// Release decrements the record's ref count; at 0 (and only once the
// record has been explicitly destroyed) the record slot is reclaimed.
func (h EntityHandle) Release() {
	if h.table == nil {
		return
	}
	h.table.release(h.id)
}

// SetEnabled toggles the enabled flag and cascades activation.
func (h EntityHandle) SetEnabled(enabled bool) {
	h.table.SetEnabled(h.id, enabled)
}

// AddComponent attaches ref to this entity. No-op if ref is invalid.
func (h EntityHandle) AddComponent(ref ComponentRef) {
	h.table.AddComponent(h.id, ref)
}

// RemoveComponent detaches the component of typeID. No-op if absent.
func (h EntityHandle) RemoveComponent(typeID ComponentTypeID) {
	h.table.RemoveComponent(h.id, typeID)
}

// GetComponent returns the attached component of typeID, or an invalid
// ComponentRef if absent.
func (h EntityHandle) GetComponent(typeID ComponentTypeID) ComponentRef {
	return h.table.GetComponent(h.id, typeID)
}

// HasComponent reports whether typeID is attached.
func (h EntityHandle) HasComponent(typeID ComponentTypeID) bool {
	return h.GetComponent(typeID).IsValid()
}

// AddChild appends child to this entity's child list.
func (h EntityHandle) AddChild(child EntityHandle) {
	h.table.AddChild(h.id, child.id)
}

// RemoveChild detaches child from this entity's child list.
func (h EntityHandle) RemoveChild(child EntityHandle) {
	h.table.RemoveChild(h.id, child.id)
}

// Parent returns the parent's id, or InvalidEntityID if root.
func (h EntityHandle) Parent() EntityID {
	return h.table.record(h.id).ParentID
}

// OrderInParent returns this entity's position among its parent's
// children.
func (h EntityHandle) OrderInParent() uint16 {
	return h.table.record(h.id).OrderInParent
}

// ChildAt returns the child at position index among this entity's
// children (in insertion order), or an invalid handle if index is out of
// range.
func (h EntityHandle) ChildAt(index uint16) EntityHandle {
	id := h.table.ChildAt(h.id, index)
	if id == InvalidEntityID {
		return EntityHandle{}
	}
	return EntityHandle{table: h.table, id: id}
}

// Destroy detaches every component, removes this entity from its parent's
// child list, and marks the record for reclamation once its last handle
// releases.
func (h EntityHandle) Destroy() {
	h.table.DestroyEntity(h.id)
}
