package ecs

import (
	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
)

// EntityTable owns the entity pool and the intrusive component/child link
// pools, and is the only place that mutates EntityRecord fields (besides
// the activation engine, which it delegates to).
type EntityTable struct {
	reg *Registry

	entities       *MemoryPool[EntityRecord]
	componentLinks *linkPool[ComponentLink]
	childLinks     *linkPool[ChildLink]

	location map[EntityID]int
	nextID   EntityID
}

func newEntityTable(reg *Registry) *EntityTable {
	return &EntityTable{
		reg:            reg,
		entities:       NewMemoryPool[EntityRecord](),
		componentLinks: newLinkPool[ComponentLink](),
		childLinks:     newLinkPool[ChildLink](),
		location:       make(map[EntityID]int),
	}
}

// CreateEntity allocates a new EntityRecord and returns a handle to it.
// The entity starts enabled but deactivated, with no parent, no children,
// no components.
func (t *EntityTable) CreateEntity() EntityHandle {
	t.nextID++
	id := t.nextID

	idx, rec := t.entities.Allocate()
	compHead, compSentinel := t.componentLinks.Alloc()
	*compSentinel = ComponentLink{Next: invalidIndex}
	childHead, childSentinel := t.childLinks.Alloc()
	*childSentinel = ChildLink{Next: invalidIndex, ChildID: InvalidEntityID}

	*rec = EntityRecord{
		ID:              id,
		ParentID:        InvalidEntityID,
		HierarchyDepth:  invalidHierarchyDepth,
		ComponentsHead:  compHead,
		ChildrenHead:    childHead,
		RefCount:        1,
		StorageLocation: idx,
		Enabled:         true,
	}
	t.location[id] = idx

	handle := EntityHandle{table: t, id: id}
	if t.reg != nil {
		t.reg.onEntityCreated.Broadcast(handle)
	}
	return handle
}

func (t *EntityTable) record(id EntityID) *EntityRecord {
	idx, ok := t.location[id]
	if !ok {
		return nil
	}
	return t.entities.Get(idx)
}

func (t *EntityTable) isLive(id EntityID) bool {
	_, ok := t.location[id]
	return ok
}

func (t *EntityTable) retain(id EntityID) {
	if rec := t.record(id); rec != nil {
		rec.RefCount++
	}
}

func (t *EntityTable) release(id EntityID) {
	rec := t.record(id)
	if rec == nil {
		return
	}
	rec.RefCount--
	if rec.RefCount == 0 && rec.Destroyed {
		t.reclaim(id)
	}
}

// reclaim swap-removes the record from the entity pool and fixes up the
// location map entry for whichever record was relocated into the freed
// slot — the same pinned-index/relocating-payload split ComponentStorage
// uses, applied to EntityRecord.StorageLocation instead of ControlBlock.
func (t *EntityTable) reclaim(id EntityID) {
	idx, ok := t.location[id]
	if !ok {
		return
	}
	tailIdx := t.entities.Len() - 1
	var movedID EntityID
	if idx != tailIdx {
		movedID = t.entities.Get(tailIdx).ID
	}
	t.entities.Remove(idx)
	delete(t.location, id)
	if idx != tailIdx {
		t.location[movedID] = idx
		t.entities.Get(idx).StorageLocation = idx
	}
}

// SetEnabled toggles the enabled flag and cascades activation to this
// entity's components and descendants.
func (t *EntityTable) SetEnabled(id EntityID, enabled bool) {
	rec := t.record(id)
	if rec == nil {
		return
	}
	rec.Enabled = enabled
	t.refreshActivation(id, false)
}

// ForceActivate activates (or reaffirms activation of) id regardless of
// its enabled/parent state, rebuilding its hierarchy depth as the root of
// a newly-activated tree.
func (t *EntityTable) ForceActivate(id EntityID) {
	t.refreshActivation(id, true)
}

// AddComponent attaches ref to entity id. No-op if ref is invalid or the
// entity already has a component of ref's type.
func (t *EntityTable) AddComponent(id EntityID, ref ComponentRef) {
	if !ref.IsValid() {
		return
	}
	rec := t.record(id)
	if rec == nil {
		return
	}
	typeID := ref.TypeID()
	bit := uint32(typeID)
	if rec.ComponentMask.ContainsAll(bitMask(bit)) {
		return
	}
	rec.ComponentMask.Mark(bit)
	ref.storage.GetCtrl(ref.ctrlIndex).EntityID = id
	ref.Retain()

	head := t.componentLinks.Get(rec.ComponentsHead)
	if !head.ComponentRef.IsValid() {
		head.ComponentRef = ref
	} else {
		cur := rec.ComponentsHead
		for t.componentLinks.Get(cur).Next != invalidIndex {
			cur = t.componentLinks.Get(cur).Next
		}
		idx, node := t.componentLinks.Alloc()
		*node = ComponentLink{Next: invalidIndex, ComponentRef: ref}
		t.componentLinks.Get(cur).Next = idx
	}

	if t.reg != nil {
		t.reg.refreshComponentActivation(ref, rec.Enabled, rec.Activated)
		t.reg.onComponentAttached.Broadcast(ComponentAttachedEvent{Entity: EntityHandle{table: t, id: id}, Ref: ref})
		t.reg.touchTupleCaches(id, typeID)
	}
}

// RemoveComponent detaches the component of typeID from entity id. No-op
// if absent.
func (t *EntityTable) RemoveComponent(id EntityID, typeID ComponentTypeID) {
	rec := t.record(id)
	if rec == nil {
		return
	}
	bit := uint32(typeID)
	if !rec.ComponentMask.ContainsAll(bitMask(bit)) {
		return
	}

	var prev uint32 = invalidIndex
	cur := rec.ComponentsHead
	for cur != invalidIndex {
		node := t.componentLinks.Get(cur)
		if node.ComponentRef.IsValid() && node.ComponentRef.TypeID() == typeID {
			ref := node.ComponentRef
			rec.ComponentMask.Unmark(bit)
			ref.storage.GetCtrl(ref.ctrlIndex).EntityID = InvalidEntityID

			if cur == rec.ComponentsHead {
				if next := node.Next; next != invalidIndex {
					*node = *t.componentLinks.Get(next)
					t.componentLinks.Free(next)
				} else {
					node.ComponentRef = ComponentRef{}
				}
			} else {
				t.componentLinks.Get(prev).Next = node.Next
				t.componentLinks.Free(cur)
			}

			if t.reg != nil {
				t.reg.onComponentDetached.Broadcast(ref)
				t.reg.touchTupleCaches(id, typeID)
			}
			ref.Release()
			return
		}
		prev = cur
		cur = node.Next
	}
}

// GetComponent returns the attached component of typeID, or an invalid
// ComponentRef if absent. Short-circuits on the mask before scanning.
func (t *EntityTable) GetComponent(id EntityID, typeID ComponentTypeID) ComponentRef {
	rec := t.record(id)
	if rec == nil || !rec.ComponentMask.ContainsAll(bitMask(uint32(typeID))) {
		return ComponentRef{}
	}
	cur := rec.ComponentsHead
	for cur != invalidIndex {
		node := t.componentLinks.Get(cur)
		if node.ComponentRef.IsValid() && node.ComponentRef.TypeID() == typeID {
			return node.ComponentRef
		}
		cur = node.Next
	}
	return ComponentRef{}
}

// IterateComponents visits every attached component in insertion order.
// Forward-only, read-only; mutating the entity's component list during
// iteration is undefined.
func (t *EntityTable) IterateComponents(id EntityID, fn func(ComponentRef)) {
	rec := t.record(id)
	if rec == nil {
		return
	}
	cur := rec.ComponentsHead
	for cur != invalidIndex {
		node := t.componentLinks.Get(cur)
		if node.ComponentRef.IsValid() {
			fn(node.ComponentRef)
		}
		cur = node.Next
	}
}

// AddChild appends child to parent's child list, sets the child's
// parent_id and order_in_parent, and cascades hierarchy depth +
// activation onto the child.
func (t *EntityTable) AddChild(parentID, childID EntityID) {
	parent := t.record(parentID)
	child := t.record(childID)
	if parent == nil || child == nil {
		return
	}
	if child.ParentID != InvalidEntityID {
		panic(bark.AddTrace(EntityCycleError{Parent: parentID, Child: childID}))
	}
	for p := parentID; p != InvalidEntityID; {
		if p == childID {
			panic(bark.AddTrace(EntityCycleError{Parent: parentID, Child: childID}))
		}
		pr := t.record(p)
		if pr == nil {
			break
		}
		p = pr.ParentID
	}

	child.ParentID = parentID
	child.OrderInParent = parent.ChildrenCount

	head := t.childLinks.Get(parent.ChildrenHead)
	if head.ChildID == InvalidEntityID {
		head.ChildID = childID
	} else {
		cur := parent.ChildrenHead
		for t.childLinks.Get(cur).Next != invalidIndex {
			cur = t.childLinks.Get(cur).Next
		}
		idx, node := t.childLinks.Alloc()
		*node = ChildLink{Next: invalidIndex, ChildID: childID}
		t.childLinks.Get(cur).Next = idx
	}
	parent.ChildrenCount++

	t.refreshHierarchyDepth(childID, parentID, false)
	t.refreshActivation(childID, false)
}

// RemoveChild detaches child from parent's child list.
func (t *EntityTable) RemoveChild(parentID, childID EntityID) {
	parent := t.record(parentID)
	child := t.record(childID)
	if parent == nil || child == nil {
		return
	}
	var prev uint32 = invalidIndex
	cur := parent.ChildrenHead
	for cur != invalidIndex {
		node := t.childLinks.Get(cur)
		if node.ChildID == childID {
			next := node.Next
			if cur == parent.ChildrenHead {
				if next != invalidIndex {
					*node = *t.childLinks.Get(next)
					t.childLinks.Free(next)
					next = cur
				} else {
					node.ChildID = InvalidEntityID
				}
			} else {
				t.childLinks.Get(prev).Next = next
				t.childLinks.Free(cur)
			}
			for n := next; n != invalidIndex; n = t.childLinks.Get(n).Next {
				if sibling := t.record(t.childLinks.Get(n).ChildID); sibling != nil {
					sibling.OrderInParent--
				}
			}
			parent.ChildrenCount--
			child.ParentID = InvalidEntityID
			t.refreshHierarchyDepth(childID, InvalidEntityID, true)
			t.refreshActivation(childID, false)
			return
		}
		prev = cur
		cur = node.Next
	}
}

// IterateChildren visits every child id in insertion order.
func (t *EntityTable) IterateChildren(id EntityID, fn func(EntityID)) {
	rec := t.record(id)
	if rec == nil {
		return
	}
	cur := rec.ChildrenHead
	for cur != invalidIndex {
		node := t.childLinks.Get(cur)
		if node.ChildID != InvalidEntityID {
			fn(node.ChildID)
		}
		cur = node.Next
	}
}

// ChildAt returns the child at position index in id's child list (in
// insertion order), or InvalidEntityID if index is out of range.
func (t *EntityTable) ChildAt(id EntityID, index uint16) EntityID {
	rec := t.record(id)
	if rec == nil || index >= rec.ChildrenCount {
		return InvalidEntityID
	}
	var i uint16
	cur := rec.ChildrenHead
	for cur != invalidIndex {
		node := t.childLinks.Get(cur)
		if node.ChildID != InvalidEntityID {
			if i == index {
				return node.ChildID
			}
			i++
		}
		cur = node.Next
	}
	return InvalidEntityID
}

// DestroyEntity detaches every component, removes the entity from its
// parent's child list, and clears its own child-list sentinel. The
// record itself is reclaimed once its last EntityHandle releases.
func (t *EntityTable) DestroyEntity(id EntityID) {
	rec := t.record(id)
	if rec == nil || rec.Destroyed {
		return
	}

	cur := rec.ComponentsHead
	for cur != invalidIndex {
		node := t.componentLinks.Get(cur)
		next := node.Next
		if node.ComponentRef.IsValid() {
			ref := node.ComponentRef
			typeID := ref.TypeID()
			rec.ComponentMask.Unmark(uint32(typeID))
			ref.storage.GetCtrl(ref.ctrlIndex).EntityID = InvalidEntityID
			if t.reg != nil {
				t.reg.onComponentDetached.Broadcast(ref)
				t.reg.touchTupleCaches(id, typeID)
			}
			ref.Release()
		}
		if cur != rec.ComponentsHead {
			t.componentLinks.Free(cur)
		}
		cur = next
	}
	*t.componentLinks.Get(rec.ComponentsHead) = ComponentLink{Next: invalidIndex}
	rec.ComponentMask = mask.Mask256{}

	if rec.ParentID != InvalidEntityID {
		t.RemoveChild(rec.ParentID, id)
	}

	childCur := rec.ChildrenHead
	for childCur != invalidIndex {
		node := t.childLinks.Get(childCur)
		next := node.Next
		if childCur != rec.ChildrenHead {
			t.childLinks.Free(childCur)
		}
		childCur = next
	}
	*t.childLinks.Get(rec.ChildrenHead) = ChildLink{Next: invalidIndex, ChildID: InvalidEntityID}

	rec.Destroyed = true
	rec.Activated = false
	rec.Enabled = false

	if t.reg != nil {
		t.reg.onEntityDestroyed.Broadcast(id)
	}
	if rec.RefCount == 0 {
		t.reclaim(id)
	}
}

// bitMask builds a single-bit mask.Mask256 for use with ContainsAll as a
// membership test against a component mask.
func bitMask(bit uint32) mask.Mask256 {
	var m mask.Mask256
	m.Mark(bit)
	return m
}
