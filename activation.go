package ecs

// refreshActivation and refreshHierarchyDepth carry every activation and
// hierarchy-depth cascade. The only direct writes elsewhere are AddChild
// and RemoveChild setting the child's ParentID before refreshing it, and
// DestroyEntity clearing Activated on the destroyed record.

// refreshActivation recomputes entity id's Activated flag from its Enabled
// flag and its parent's Activated flag, cascading to components and
// descendants only when the flag actually flips.
func (t *EntityTable) refreshActivation(id EntityID, forceActivate bool) {
	entity := t.record(id)
	if entity == nil {
		return
	}

	shouldActivate := forceActivate
	if !shouldActivate && entity.Enabled && entity.ParentID != InvalidEntityID {
		if parent := t.record(entity.ParentID); parent != nil {
			shouldActivate = parent.Activated
		}
	}

	if shouldActivate == entity.Activated {
		return
	}
	entity.Activated = shouldActivate

	if forceActivate {
		t.refreshHierarchyDepth(id, entity.ParentID, true)
	}

	t.IterateComponents(id, func(ref ComponentRef) {
		if t.reg != nil {
			t.reg.refreshComponentActivation(ref, entity.Enabled, entity.Activated)
		}
	})

	t.IterateChildren(id, func(childID EntityID) {
		t.refreshActivation(childID, false)
	})
}

// refreshHierarchyDepth recomputes id's hierarchy_depth from newParent and
// rewires parent_id, then propagates the depth recomputation (but not the
// parent rewire) down to every descendant.
func (t *EntityTable) refreshHierarchyDepth(id EntityID, newParent EntityID, buildNewTree bool) {
	entity := t.record(id)
	if entity == nil {
		return
	}

	var newDepth uint16
	if newParent != InvalidEntityID {
		if parent := t.record(newParent); parent != nil && parent.Activated {
			newDepth = parent.HierarchyDepth + 1
		} else if buildNewTree {
			newDepth = 0
		} else {
			newDepth = invalidHierarchyDepth
		}
	} else if buildNewTree {
		newDepth = 0
	} else {
		newDepth = invalidHierarchyDepth
	}

	entity.HierarchyDepth = newDepth
	entity.ParentID = newParent

	t.IterateChildren(id, func(childID EntityID) {
		t.refreshHierarchyDepth(childID, id, false)
	})
}
