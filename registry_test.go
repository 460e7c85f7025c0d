package ecs

import (
	"strings"
	"testing"
)

func TestRegisterComponentTypeAssignsDenseIDs(t *testing.T) {
	reg := NewRegistry()
	fooID := RegisterComponentType[Foo](reg, "Foo")
	barID := RegisterComponentType[int](reg, "Bar")

	if fooID != 0 {
		t.Errorf("first registered type id = %d, want 0", fooID)
	}
	if barID != 1 {
		t.Errorf("second registered type id = %d, want 1", barID)
	}

	if got, ok := reg.IDByName("Bar"); !ok || got != barID {
		t.Errorf("IDByName(Bar) = (%d, %v), want (%d, true)", got, ok, barID)
	}
	if got := reg.NameByID(fooID); got != "Foo" {
		t.Errorf("NameByID(fooID) = %q, want Foo", got)
	}
}

func TestRegisterComponentTypeDuplicateNamePanics(t *testing.T) {
	reg := NewRegistry()
	RegisterComponentType[Foo](reg, "Foo")

	defer func() {
		if recover() == nil {
			t.Error("duplicate name registration did not panic")
		}
	}()
	RegisterComponentType[int](reg, "Foo")
}

func TestRegisterComponentTypeAfterInitPanics(t *testing.T) {
	reg := newTestRegistry()

	defer func() {
		if recover() == nil {
			t.Error("registering a type after Init did not panic")
		}
	}()
	RegisterComponentType[int](reg, "Bar")
}

func TestCreateComponentGeneric(t *testing.T) {
	reg := newTestRegistry()
	typed := CreateComponent[Foo](reg)
	typed.Value().Value = 9

	if typed.Value().Value != 9 {
		t.Errorf("Value().Value = %d, want 9", typed.Value().Value)
	}
}

func TestCreateComponentByNameRoundTrip(t *testing.T) {
	reg := newTestRegistry()

	ref, err := reg.CreateComponentByName("Foo")
	if err != nil {
		t.Fatalf("CreateComponentByName(Foo) error: %v", err)
	}
	if !ref.IsValid() {
		t.Fatal("CreateComponentByName(Foo) returned an invalid ref")
	}
	fooID, _ := reg.IDByName("Foo")
	if ref.TypeID() != fooID {
		t.Errorf("ref.TypeID() = %d, want %d", ref.TypeID(), fooID)
	}

	if _, err := reg.CreateComponentByName("Nonexistent"); err == nil {
		t.Error("CreateComponentByName(Nonexistent) did not return an error")
	}
}

func TestRegistryBroadcastsEntityLifecycle(t *testing.T) {
	reg := newTestRegistry()

	var created, destroyed int
	reg.onEntityCreated.Bind(func(EntityHandle) { created++ })
	reg.onEntityDestroyed.Bind(func(EntityID) { destroyed++ })

	e := reg.Entities.CreateEntity()
	e.Destroy()

	if created != 1 {
		t.Errorf("on_entity_created fired %d times, want 1", created)
	}
	if destroyed != 1 {
		t.Errorf("on_entity_destroyed fired %d times, want 1", destroyed)
	}
}

func TestDumpStorageReportsLiveAndFreeSlots(t *testing.T) {
	reg := newTestRegistry()
	fooID := IDByType[Foo](reg)
	ref := reg.CreateComponentByID(fooID)
	reg.CreateComponentByID(fooID)
	ref.Release()

	dump := reg.DumpStorage(fooID)
	if dump == "" {
		t.Fatal("DumpStorage returned empty string")
	}
	if !strings.Contains(dump, "[0] free") {
		t.Errorf("DumpStorage does not report the released slot as free:\n%s", dump)
	}
	if !strings.Contains(dump, "[1] entity=") {
		t.Errorf("DumpStorage does not report the live slot:\n%s", dump)
	}
	t.Logf("storage dump:\n%s", dump)
}

func TestDumpSystemRegistryReportsExecutionOrder(t *testing.T) {
	reg := newTestRegistry()
	reg.Systems.AddSystem(&systemX{baseTestSystem{priority: 1}})
	reg.Systems.AddSystem(&systemY{baseTestSystem{priority: 2}})

	order := reg.DumpSystemRegistry()
	if len(order) != 2 {
		t.Fatalf("DumpSystemRegistry() = %v, want 2 entries", order)
	}
	if order[0] != "*ecs.systemY" || order[1] != "*ecs.systemX" {
		t.Errorf("DumpSystemRegistry() = %v, want [*ecs.systemY *ecs.systemX]", order)
	}
}

func TestRegistryDestroyRequiresInit(t *testing.T) {
	reg := NewRegistry()
	defer func() {
		if recover() == nil {
			t.Error("Destroy before Init did not panic")
		}
	}()
	reg.Destroy()
}
