package ecs

import (
	"github.com/phanxgames/tactile"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for tactile interaction
// events. Subscribe to this in your ECS systems to receive touch, hit and
// lifecycle events.
var InteractionEventType = events.NewEventType[tactile.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) tactile.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event tactile.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

