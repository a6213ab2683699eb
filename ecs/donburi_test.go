package ecs

import (
	"testing"

	"github.com/phanxgames/tactile"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []tactile.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e tactile.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(tactile.InteractionEvent{
		Type:     tactile.EventTouchBegin,
		EntityID: 42,
		TouchID:  7,
		ElementX: 0.25,
		ElementY: -0.1,
	})
	store.EmitEvent(tactile.InteractionEvent{
		Type: tactile.EventDeleting,
		Fade: 0.5,
	})

	// Events are queued until processed.
	InteractionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != tactile.EventTouchBegin || e0.EntityID != 42 || e0.TouchID != 7 {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.ElementX != 0.25 || e0.ElementY != -0.1 {
		t.Errorf("event 0 position: (%v,%v)", e0.ElementX, e0.ElementY)
	}
	if received[1].Type != tactile.EventDeleting || received[1].Fade != 0.5 {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiStore_ContextBridge(t *testing.T) {
	world := donburi.NewWorld()
	ctx := tactile.NewContext(tactile.DefaultConfig())
	ctx.SetEntityStore(NewDonburiStore(world))

	n := tactile.NewNode("button", "", tactile.Rectangle{})
	n.EntityID = 9
	ctx.Add(n)

	var types []tactile.EventType
	InteractionEventType.Subscribe(world, func(w donburi.World, e tactile.InteractionEvent) {
		if e.EntityID == 9 {
			types = append(types, e.Type)
		}
	})

	ctx.Submit(tactile.TouchSample{ID: 1, Force: 1})
	ctx.Tick(1.0 / 60)
	events.ProcessAllEvents(world)

	want := []tactile.EventType{
		tactile.EventHitBegin,
		tactile.EventInteractionBegin,
		tactile.EventTouchBegin,
		tactile.EventFadedIn,
		tactile.EventInteracting,
	}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, types[i], want[i])
		}
	}
}

func TestDonburiStore_ImplementsEntityStore(t *testing.T) {
	world := donburi.NewWorld()
	var store tactile.EntityStore = NewDonburiStore(world)
	_ = store // compile-time interface check
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	InteractionEventType.Subscribe(world, func(w donburi.World, e tactile.InteractionEvent) {
		count1++
	})
	InteractionEventType.Subscribe(world, func(w donburi.World, e tactile.InteractionEvent) {
		count2++
	})

	store.EmitEvent(tactile.InteractionEvent{Type: tactile.EventHitEnd})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
