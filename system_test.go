package ecs

import (
	"reflect"
	"testing"
)

// baseTestSystem factors the bookkeeping every test system needs; each
// scenario below embeds it in its own named type, since SystemRegistry's
// get_by_type keys on a system's concrete Go type (one instance per type).
type baseTestSystem struct {
	priority int32
	log      *[]string
	onUpdate func()
}

func (s *baseTestSystem) Init(reg *Registry)              {}
func (s *baseTestSystem) Destroy(reg *Registry)            {}
func (s *baseTestSystem) Priority() int32                  { return s.priority }
func (s *baseTestSystem) ThreadSafe() bool                 { return false }
func (s *baseTestSystem) Dependencies() []reflect.Type     { return nil }

func (s *baseTestSystem) record(name string) {
	*s.log = append(*s.log, name)
	if s.onUpdate != nil {
		s.onUpdate()
	}
}

type systemX struct{ baseTestSystem }

func (s *systemX) Update(reg *Registry) { s.record("X") }

type systemY struct{ baseTestSystem }

func (s *systemY) Update(reg *Registry) { s.record("Y") }

type systemZ struct{ baseTestSystem }

func (s *systemZ) Update(reg *Registry) { s.record("Z") }

// TestSystemOrderingByPriority confirms higher-priority systems run first,
// and that a live priority change takes effect on the following tick.
func TestSystemOrderingByPriority(t *testing.T) {
	sr := FactoryNewSystemRegistry()
	var log []string

	x := &systemX{baseTestSystem{priority: 10, log: &log}}
	y := &systemY{baseTestSystem{priority: 20, log: &log}}
	sr.AddSystem(x)
	sr.AddSystem(y)

	sr.update()
	if got := append([]string(nil), log...); len(got) != 2 || got[0] != "Y" || got[1] != "X" {
		t.Fatalf("first tick order = %v, want [Y X]", got)
	}

	log = nil
	x.priority = 30
	sr.NotifyPriorityChanged()
	sr.update()
	if got := append([]string(nil), log...); len(got) != 2 || got[0] != "X" || got[1] != "Y" {
		t.Fatalf("second tick order = %v, want [X Y]", got)
	}
}

// TestSystemDeferredRemoval: a system removed from inside another
// system's Update still runs out this tick (if it hadn't already), and
// is gone from every subsequent tick.
func TestSystemDeferredRemoval(t *testing.T) {
	sr := FactoryNewSystemRegistry()
	var log []string

	x := &systemX{baseTestSystem{priority: 10, log: &log}}
	y := &systemY{baseTestSystem{priority: 20, log: &log, onUpdate: func() {
		sr.RemoveSystem(x)
	}}}

	sr.AddSystem(x)
	sr.AddSystem(y)

	sr.update()
	if got := append([]string(nil), log...); len(got) != 2 || got[0] != "Y" || got[1] != "X" {
		t.Fatalf("tick with deferred removal = %v, want [Y X] (X still runs this tick)", got)
	}

	log = nil
	sr.update()
	if got := append([]string(nil), log...); len(got) != 1 || got[0] != "Y" {
		t.Fatalf("next tick = %v, want [Y] (X removed)", got)
	}
}

func TestSystemAddDuringUpdateStagedUntilNextTick(t *testing.T) {
	sr := FactoryNewSystemRegistry()
	var log []string

	z := &systemZ{baseTestSystem{priority: 5, log: &log}}
	y := &systemY{baseTestSystem{priority: 10, log: &log, onUpdate: func() {
		sr.AddSystem(z)
	}}}

	sr.AddSystem(y)
	sr.update()
	if got := append([]string(nil), log...); len(got) != 1 || got[0] != "Y" {
		t.Fatalf("tick with staged add = %v, want [Y] (Z not yet active)", got)
	}

	log = nil
	sr.update()
	if got := append([]string(nil), log...); len(got) != 2 || got[0] != "Y" || got[1] != "Z" {
		t.Fatalf("next tick = %v, want [Y Z]", got)
	}
}
