package ecs

// ComponentTypeID densely identifies a registered component type, assigned
// in registration order. Valid ids are in [0, Config.MaxComponentTypes()).
type ComponentTypeID uint8

// InvalidComponentTypeID marks "no type" / "not registered".
const InvalidComponentTypeID ComponentTypeID = 0xFF

// EntityID is a 32-bit monotonically assigned identity, never reused
// within a run.
type EntityID uint32

// InvalidEntityID marks the absence of an entity (no parent, no owner).
const InvalidEntityID EntityID = 0

// invalidIndex is the sentinel used by intrusive list "next"/head links.
// A free ControlBlock marks its DataIndex with -1 instead.
const invalidIndex uint32 = ^uint32(0)

const invalidHierarchyDepth uint16 = ^uint16(0)
