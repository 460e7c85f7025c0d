package ecs

import "sort"

// Tuple is a snapshot of one entity's component refs for a registered
// tuple spec, in spec order.
type Tuple struct {
	EntityID EntityID
	Refs     []ComponentRef
}

// TupleCache is a registered tuple specification (a sorted set of
// component type-ids) plus the incrementally-maintained set of entities
// currently satisfying it.
type TupleCache struct {
	spec    []ComponentTypeID
	hash    uint64
	table   *EntityTable
	members map[EntityID]int // entity id -> index into order
	order   []EntityID
	tuples  map[EntityID]Tuple
}

func newTupleCache(table *EntityTable, spec []ComponentTypeID) *TupleCache {
	sorted := append([]ComponentTypeID(nil), spec...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return &TupleCache{
		spec:    sorted,
		hash:    tupleSpecHash(sorted),
		table:   table,
		members: make(map[EntityID]int),
		tuples:  make(map[EntityID]Tuple),
	}
}

// tupleSpecHash combines the sorted type ids with the same two-step
// hash_combine as the original engine's detail::hash_combine: the incoming
// hash absorbs the seed terms, then is XORed into the seed. The result is
// the same value the textbook boost::hash_combine computes; the cache only
// needs a hash that is deterministic within one run.
func tupleSpecHash(sorted []ComponentTypeID) uint64 {
	var seed uint64
	for _, id := range sorted {
		h := uint64(id)
		h += 0x9e3779b9 + (seed << 6) + (seed >> 2)
		seed ^= h
	}
	return seed
}

func specsEqual(a, b []ComponentTypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (c *TupleCache) matches(mask componentMaskView) bool {
	for _, id := range c.spec {
		if !mask.Has(id) {
			return false
		}
	}
	return true
}

// componentMaskView abstracts the EntityRecord.ComponentMask membership
// test so TupleCache doesn't need to import mask directly.
type componentMaskView interface {
	Has(ComponentTypeID) bool
}

// touch re-evaluates entity id's membership in this cache after one of
// its member type-ids was attached or detached.
func (c *TupleCache) touch(id EntityID) {
	rec := c.table.record(id)
	if rec == nil {
		c.remove(id)
		return
	}
	if c.matches(recordMask{rec}) {
		c.add(id)
	} else {
		c.remove(id)
	}
}

func (c *TupleCache) add(id EntityID) {
	if _, ok := c.members[id]; ok {
		// refresh the snapshot even if already a member, since the
		// component ref for a member type may have been replaced.
		c.tuples[id] = c.snapshot(id)
		return
	}
	c.members[id] = len(c.order)
	c.order = append(c.order, id)
	c.tuples[id] = c.snapshot(id)
}

func (c *TupleCache) remove(id EntityID) {
	idx, ok := c.members[id]
	if !ok {
		return
	}
	delete(c.members, id)
	delete(c.tuples, id)
	last := len(c.order) - 1
	if idx != last {
		movedID := c.order[last]
		c.order[idx] = movedID
		c.members[movedID] = idx
	}
	c.order = c.order[:last]
}

func (c *TupleCache) snapshot(id EntityID) Tuple {
	refs := make([]ComponentRef, len(c.spec))
	for i, typeID := range c.spec {
		refs[i] = c.table.GetComponent(id, typeID)
	}
	return Tuple{EntityID: id, Refs: refs}
}

// View returns a snapshot slice of every (EntityID, Tuple) pair currently
// satisfying this cache's spec. Safe to range over while other entities
// are added/removed from the cache; mutating the membership of an entity
// under iteration is the caller's responsibility to defer.
func (c *TupleCache) View() []Tuple {
	out := make([]Tuple, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.tuples[id])
	}
	return out
}

// Len returns the number of entities currently satisfying this cache.
func (c *TupleCache) Len() int {
	return len(c.order)
}

type recordMask struct {
	rec *EntityRecord
}

func (m recordMask) Has(id ComponentTypeID) bool {
	return m.rec.ComponentMask.ContainsAll(bitMask(uint32(id)))
}
