package ecs

// factory implements the factory pattern for ecs core types, mirroring
// the constructor surface callers reach for most often.
type factory struct{}

// Factory is the global factory instance for creating ecs core values.
var Factory factory

// NewRegistry creates a new, uninitialized Registry.
func (f factory) NewRegistry() *Registry {
	return NewRegistry()
}

// FactoryNewComponentStorage creates a new ComponentStorage for T,
// registered under typeID. Most callers should instead use
// RegisterComponentType, which wires the storage into a Registry.
func FactoryNewComponentStorage[T any](typeID ComponentTypeID) *ComponentStorage[T] {
	return NewComponentStorage[T](typeID)
}

// FactoryNewSystemRegistry creates a standalone SystemRegistry, for
// callers that want to drive systems without a full Registry (tests,
// benchmarks).
func FactoryNewSystemRegistry() *SystemRegistry {
	return newSystemRegistry()
}
