package ecs

import (
	"fmt"
	"reflect"

	"github.com/TheBitDrifter/bark"
)

// registryState tracks Registry's own lifecycle: component types may only
// be registered before Init, and most operations require Init to have run.
type registryState int

const (
	registryUninitialized registryState = iota
	registryInitialized
	registryDestroyed
)

func (s registryState) String() string {
	switch s {
	case registryUninitialized:
		return "uninitialized"
	case registryInitialized:
		return "initialized"
	case registryDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// typeInfo records what Registry knows about one registered component type.
type typeInfo struct {
	id      ComponentTypeID
	name    string
	goType  reflect.Type
	storage AnyComponentStorage
}

// Registry is the process-wide (but explicitly owned, never global) home
// for component type registration, storage lookup, and the broadcast
// channels every entity/component lifecycle event fires through. It owns
// the single EntityTable instance for its lifetime.
type Registry struct {
	state registryState

	Entities *EntityTable

	byID       []typeInfo
	nameCache  Cache[ComponentTypeID]
	idByGoType map[reflect.Type]ComponentTypeID

	tupleCaches       map[uint64][]*TupleCache // hash bucket, collisions resolved by set equality
	tupleCachesByType map[ComponentTypeID][]*TupleCache

	onEntityCreated      MulticastDelegate[EntityHandle]
	onEntityDestroyed    MulticastDelegate[EntityID]
	onComponentCreated   MulticastDelegate[ComponentRef]
	onComponentDestroyed MulticastDelegate[ComponentRef]
	onComponentAttached  MulticastDelegate[ComponentAttachedEvent]
	onComponentDetached  MulticastDelegate[ComponentRef]

	onComponentActivationByType map[ComponentTypeID]*MulticastDelegate[ComponentActivationEvent]

	Systems *SystemRegistry
}

// ComponentAttachedEvent is the payload broadcast on on_component_attached.
type ComponentAttachedEvent struct {
	Entity EntityHandle
	Ref    ComponentRef
}

// ComponentActivationEvent is the payload broadcast through the per-type
// activation delegate whenever a component's owning entity's
// enabled/activated state is recomputed.
type ComponentActivationEvent struct {
	Ref       ComponentRef
	Enabled   bool
	Activated bool
}

// NewRegistry creates an uninitialized Registry. Component types must be
// registered before calling Init.
func NewRegistry() *Registry {
	reg := &Registry{
		nameCache:                   FactoryNewCache[ComponentTypeID](Config.MaxComponentTypes()),
		idByGoType:                  make(map[reflect.Type]ComponentTypeID),
		tupleCaches:                 make(map[uint64][]*TupleCache),
		tupleCachesByType:           make(map[ComponentTypeID][]*TupleCache),
		onComponentActivationByType: make(map[ComponentTypeID]*MulticastDelegate[ComponentActivationEvent]),
	}
	reg.Entities = newEntityTable(reg)
	reg.Systems = newSystemRegistry()
	reg.Systems.reg = reg
	return reg
}

// RegisterComponentType assigns the next dense type-id to T, installs its
// ComponentStorage, and records name<->id<->reflect.Type. Append-only and
// must be called before Init.
func RegisterComponentType[T any](reg *Registry, name string) ComponentTypeID {
	if reg.state != registryUninitialized {
		panic(bark.AddTrace(RegistryStateError{Op: "RegisterComponentType", State: reg.state}))
	}
	if _, exists := reg.nameCache.GetIndex(name); exists {
		panic(bark.AddTrace(ComponentTypeAlreadyRegisteredError{Name: name}))
	}
	if len(reg.byID) >= Config.MaxComponentTypes() {
		panic(bark.AddTrace(fmt.Errorf("component type capacity exhausted (%d)", Config.MaxComponentTypes())))
	}

	id := ComponentTypeID(len(reg.byID))
	goType := reflect.TypeOf((*T)(nil)).Elem()
	if _, exists := reg.idByGoType[goType]; exists {
		panic(bark.AddTrace(ComponentTypeAlreadyRegisteredError{Name: goType.String()}))
	}
	storage := NewComponentStorage[T](id)

	reg.byID = append(reg.byID, typeInfo{id: id, name: name, goType: goType, storage: storage})
	if _, err := reg.nameCache.Register(name, id); err != nil {
		panic(bark.AddTrace(err))
	}
	reg.idByGoType[goType] = id
	return id
}

// Init transitions the registry from Uninitialized to Initialized. No more
// component types may be registered afterward.
func (reg *Registry) Init() {
	if reg.state != registryUninitialized {
		panic(bark.AddTrace(RegistryStateError{Op: "Init", State: reg.state}))
	}
	reg.state = registryInitialized
}

// Destroy tears the registry down: runs destroy on every system still
// registered and marks the registry unusable for further mutation.
func (reg *Registry) Destroy() {
	if reg.state != registryInitialized {
		panic(bark.AddTrace(RegistryStateError{Op: "Destroy", State: reg.state}))
	}
	reg.Systems.destroyAll()
	reg.state = registryDestroyed
}

// Tick drains staged system changes, re-sorts if dirty, and runs update on
// every active system in priority order.
func (reg *Registry) Tick() {
	if reg.state != registryInitialized {
		panic(bark.AddTrace(RegistryStateError{Op: "Tick", State: reg.state}))
	}
	reg.Systems.update()
}

func (reg *Registry) requireInitialized() {
	if reg.state != registryInitialized {
		panic(bark.AddTrace(RegistryNotInitializedError{}))
	}
}

// IDByType returns the type-id registered for T.
func IDByType[T any](reg *Registry) ComponentTypeID {
	goType := reflect.TypeOf((*T)(nil)).Elem()
	id, ok := reg.idByGoType[goType]
	if !ok {
		panic(bark.AddTrace(InvalidComponentTypeError{TypeID: InvalidComponentTypeID}))
	}
	return id
}

// IDByName returns the type-id registered under name.
func (reg *Registry) IDByName(name string) (ComponentTypeID, bool) {
	idx, ok := reg.nameCache.GetIndex(name)
	if !ok {
		return InvalidComponentTypeID, false
	}
	return *reg.nameCache.GetItem(idx), true
}

// NameByID returns the registered name for id.
func (reg *Registry) NameByID(id ComponentTypeID) string {
	return reg.typeInfo(id).name
}

func (reg *Registry) typeInfo(id ComponentTypeID) typeInfo {
	if int(id) < 0 || int(id) >= len(reg.byID) {
		panic(bark.AddTrace(InvalidComponentTypeError{TypeID: id}))
	}
	return reg.byID[id]
}

// CreateComponentByID creates a new component of type id and broadcasts
// on_component_created.
func (reg *Registry) CreateComponentByID(id ComponentTypeID) ComponentRef {
	reg.requireInitialized()
	ref := reg.typeInfo(id).storage.Create()
	reg.onComponentCreated.Broadcast(ref)
	return ref
}

// CreateComponentByName looks up name and creates a component of that
// type.
func (reg *Registry) CreateComponentByName(name string) (ComponentRef, error) {
	id, ok := reg.IDByName(name)
	if !ok {
		return ComponentRef{}, fmt.Errorf("unregistered component name: %s", name)
	}
	return reg.CreateComponentByID(id), nil
}

// CreateComponent creates a new component of type T.
func CreateComponent[T any](reg *Registry) TypedRef[T] {
	id := IDByType[T](reg)
	ref := reg.CreateComponentByID(id)
	storage := reg.typeInfo(id).storage.(*ComponentStorage[T])
	return NewTypedRef[T](ref, storage)
}

// StorageFor returns the typed component storage for T, for callers that
// need direct iteration (e.g. IterRefs) rather than going through a
// TupleCache view.
func StorageFor[T any](reg *Registry) *ComponentStorage[T] {
	id := IDByType[T](reg)
	return reg.typeInfo(id).storage.(*ComponentStorage[T])
}

// RegisterTuple installs (idempotent by hash+set-equality) a TupleCache
// for the given component type-ids and returns it. Initial population is
// lazy; membership fills in as matching entities' components are touched.
func (reg *Registry) RegisterTuple(typeIDs ...ComponentTypeID) *TupleCache {
	sorted := append([]ComponentTypeID(nil), typeIDs...)
	sortTypeIDs(sorted)
	hash := tupleSpecHash(sorted)

	for _, existing := range reg.tupleCaches[hash] {
		if specsEqual(existing.spec, sorted) {
			return existing
		}
	}

	cache := newTupleCache(reg.Entities, sorted)
	reg.tupleCaches[hash] = append(reg.tupleCaches[hash], cache)
	for _, id := range sorted {
		reg.tupleCachesByType[id] = append(reg.tupleCachesByType[id], cache)
	}
	return cache
}

func sortTypeIDs(ids []ComponentTypeID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

// touchTupleCaches re-evaluates every TupleCache that references typeID
// for entity id's current membership.
func (reg *Registry) touchTupleCaches(id EntityID, typeID ComponentTypeID) {
	for _, cache := range reg.tupleCachesByType[typeID] {
		cache.touch(id)
	}
}

// DumpStorage returns a human-readable dump of the component storage for
// id, for debugging.
func (reg *Registry) DumpStorage(id ComponentTypeID) string {
	return reg.typeInfo(id).storage.DumpStorage()
}

// DumpSystemRegistry returns the names of currently active systems in
// execution order, for debugging.
func (reg *Registry) DumpSystemRegistry() []string {
	return reg.Systems.DumpExecutionOrder()
}

// ComponentActivationDelegate returns the per-type activation broadcast
// channel for typeID, creating it on first use. Bind to it to be notified
// every time a component of this type's owning entity's activation state
// is recomputed.
func (reg *Registry) ComponentActivationDelegate(typeID ComponentTypeID) *MulticastDelegate[ComponentActivationEvent] {
	d, ok := reg.onComponentActivationByType[typeID]
	if !ok {
		d = &MulticastDelegate[ComponentActivationEvent]{}
		reg.onComponentActivationByType[typeID] = d
	}
	return d
}

// refreshComponentActivation broadcasts ref's owning entity's current
// enabled/activated state through ref's type-id's activation delegate, if
// anything is bound to it.
func (reg *Registry) refreshComponentActivation(ref ComponentRef, enabled, activated bool) {
	d, ok := reg.onComponentActivationByType[ref.TypeID()]
	if !ok {
		return
	}
	d.Broadcast(ComponentActivationEvent{Ref: ref, Enabled: enabled, Activated: activated})
}
