package ecs

import "fmt"

// ComponentTypeAlreadyRegisteredError is raised when a name or type is
// registered twice. Registering after Init raises RegistryStateError.
type ComponentTypeAlreadyRegisteredError struct {
	Name string
}

func (e ComponentTypeAlreadyRegisteredError) Error() string {
	return fmt.Sprintf("component type already registered: %s", e.Name)
}

// RegistryNotInitializedError is raised by operations that require Init
// to have run first.
type RegistryNotInitializedError struct{}

func (e RegistryNotInitializedError) Error() string {
	return "registry has not been initialized"
}

// RegistryStateError is raised by Init/Destroy called out of order.
type RegistryStateError struct {
	Op    string
	State registryState
}

func (e RegistryStateError) Error() string {
	return fmt.Sprintf("registry: invalid %s in state %v", e.Op, e.State)
}

// InvalidComponentTypeError is raised when a type-id outside the
// registered range is dereferenced.
type InvalidComponentTypeError struct {
	TypeID ComponentTypeID
}

func (e InvalidComponentTypeError) Error() string {
	return fmt.Sprintf("invalid component type id: %d", e.TypeID)
}

// InvalidIndexError is raised by MemoryPool operations given an
// out-of-range index; this is always a contract violation.
type InvalidIndexError struct {
	Index, Len int
}

func (e InvalidIndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

// EntityCycleError is raised when add_child would create a parent/child
// cycle, or when the child already has a parent.
type EntityCycleError struct {
	Parent, Child EntityID
}

func (e EntityCycleError) Error() string {
	return fmt.Sprintf("cannot add child %d to parent %d: it already has a parent or would create a cycle", e.Child, e.Parent)
}

// TupleSpecNotRegisteredError describes a tuple spec with no registered
// TupleCache. No operation in this package raises it: a TupleCache, and so
// its View, is only obtained through RegisterTuple.
type TupleSpecNotRegisteredError struct {
	Types []ComponentTypeID
}

func (e TupleSpecNotRegisteredError) Error() string {
	return fmt.Sprintf("tuple spec not registered: %v", e.Types)
}

// SystemStateError is raised when a system is added while another system
// of the same concrete type is registered. Removing a system that is not
// registered is a no-op, not an error.
type SystemStateError struct {
	System string
	State  systemState
}

func (e SystemStateError) Error() string {
	return fmt.Sprintf("system %s: invalid transition from state %v", e.System, e.State)
}
