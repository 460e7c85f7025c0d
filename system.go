package ecs

import (
	"reflect"
	"sort"

	"github.com/TheBitDrifter/bark"
)

// System is a behavior with an init/update/destroy lifecycle, a priority
// used for ordering (higher runs first), and optional dependency metadata.
// ThreadSafe is advisory metadata only — SystemRegistry always runs
// systems sequentially on the caller's goroutine.
type System interface {
	Init(reg *Registry)
	Update(reg *Registry)
	Destroy(reg *Registry)
	Priority() int32
	ThreadSafe() bool
	Dependencies() []reflect.Type
}

// systemState tracks one system's position in Staged -> Initialized ->
// Active* -> Destroying -> Gone.
type systemState int

const (
	systemStaged systemState = iota
	systemInitialized
	systemActive
	systemDestroying
	systemGone
)

func (s systemState) String() string {
	switch s {
	case systemStaged:
		return "staged"
	case systemInitialized:
		return "initialized"
	case systemActive:
		return "active"
	case systemDestroying:
		return "destroying"
	case systemGone:
		return "gone"
	default:
		return "unknown"
	}
}

type systemEntry struct {
	system System
	state  systemState
}

// SystemRegistry holds a priority-ordered list of active systems plus the
// pending_add/pending_remove staging queues that let systems add or remove
// other systems safely from inside Update.
type SystemRegistry struct {
	reg *Registry

	active []*systemEntry
	byType map[reflect.Type]*systemEntry

	pendingAdd    []System
	pendingRemove []System

	updating bool
	dirty    bool
}

func newSystemRegistry() *SystemRegistry {
	return &SystemRegistry{
		byType: make(map[reflect.Type]*systemEntry),
	}
}

func systemType(s System) reflect.Type {
	return reflect.TypeOf(s)
}

// AddSystem stages system for insertion. If called outside Update, it is
// inserted immediately by stable upper-bound on priority (descending); if
// called during Update, it stays staged until the current tick's Update
// call returns.
func (r *SystemRegistry) AddSystem(s System) {
	if r.updating {
		r.pendingAdd = append(r.pendingAdd, s)
		return
	}
	r.insert(s)
}

func (r *SystemRegistry) insert(s System) {
	t := systemType(s)
	if _, exists := r.byType[t]; exists {
		panic(bark.AddTrace(SystemStateError{System: t.String(), State: systemActive}))
	}
	entry := &systemEntry{system: s, state: systemStaged}
	r.byType[t] = entry

	// Stable upper-bound: first position whose priority is strictly less
	// than s's, so systems of equal priority keep insertion order while
	// new ones of that priority land after existing peers.
	priority := s.Priority()
	idx := sort.Search(len(r.active), func(i int) bool {
		return r.active[i].system.Priority() < priority
	})
	r.active = append(r.active, nil)
	copy(r.active[idx+1:], r.active[idx:])
	r.active[idx] = entry

	entry.system.Init(r.reg)
	entry.state = systemInitialized
}

// RemoveSystem stages system for removal. If called during Update, it
// stays staged (the system still runs this tick if it hasn't already)
// until Update's exit processes pending_remove; otherwise it is removed
// and Destroy dispatched immediately.
func (r *SystemRegistry) RemoveSystem(s System) {
	if r.updating {
		r.pendingRemove = append(r.pendingRemove, s)
		return
	}
	r.removeNow(s)
}

func (r *SystemRegistry) removeNow(s System) {
	t := systemType(s)
	entry, ok := r.byType[t]
	if !ok {
		return
	}
	for i, e := range r.active {
		if e == entry {
			r.active = append(r.active[:i], r.active[i+1:]...)
			break
		}
	}
	delete(r.byType, t)
	entry.state = systemDestroying
	entry.system.Destroy(r.reg)
	entry.state = systemGone
}

// GetByType returns the single registered instance of the system whose
// reflect.Type equals t, or nil.
func (r *SystemRegistry) GetByType(t reflect.Type) System {
	if entry, ok := r.byType[t]; ok {
		return entry.system
	}
	return nil
}

// NotifyPriorityChanged marks the active list dirty; it is stably re-sorted
// before the next Update.
func (r *SystemRegistry) NotifyPriorityChanged() {
	r.dirty = true
}

// update drains pending_add, dispatches Init on newly-added systems,
// re-sorts if dirty, runs Update on every active system in order, then
// processes pending_remove (dispatching Destroy and erasing).
func (r *SystemRegistry) update() {
	adds := r.pendingAdd
	r.pendingAdd = nil
	for _, s := range adds {
		r.insert(s)
	}

	if r.dirty {
		sort.SliceStable(r.active, func(i, j int) bool {
			return r.active[i].system.Priority() > r.active[j].system.Priority()
		})
		r.dirty = false
	}

	r.updating = true
	snapshot := r.active
	for _, entry := range snapshot {
		if entry.state != systemInitialized && entry.state != systemActive {
			continue
		}
		entry.state = systemActive
		entry.system.Update(r.reg)
	}
	r.updating = false

	removes := r.pendingRemove
	r.pendingRemove = nil
	for _, s := range removes {
		r.removeNow(s)
	}
}

func (r *SystemRegistry) destroyAll() {
	for _, entry := range append([]*systemEntry(nil), r.active...) {
		r.removeNow(entry.system)
	}
}

// DumpExecutionOrder returns the names of currently active systems in
// execution order, for debugging.
func (r *SystemRegistry) DumpExecutionOrder() []string {
	names := make([]string, len(r.active))
	for i, e := range r.active {
		names[i] = systemType(e.system).String()
	}
	return names
}
