package tactile

import "sync"

// EntityStore is the interface for optional ECS integration. When set on a
// Context, node events are forwarded to it at the end of every tick.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent is the flattened form of an Event handed to an
// EntityStore.
type InteractionEvent struct {
	Type     EventType
	EntityID uint32
	NodeID   string
	TouchID  int
	// Element, World and Surface come from the record's current
	// intersection and are zero for events without a touch.
	ElementX, ElementY       float64
	WorldX, WorldY, WorldZ   float64
	SurfaceX, SurfaceY       float64
	Fade                     float64
	Frame                    uint64
}

// --- Handler registry ---

type eventHandler struct {
	id uint32
	fn func(Event)
}

// handlerRegistry holds context-level handlers. Handlers are registered
// between ticks; during a tick they may be invoked from several worker
// goroutines at once.
type handlerRegistry struct {
	byType [eventTypeCount][]eventHandler
	nextID uint32
}

// CallbackHandle allows removing a registered context-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil || h.event >= eventTypeCount {
		return
	}
	s := h.reg.byType[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			h.reg.byType[h.event] = s[:len(s)-1]
			return
		}
	}
}

// On registers a context-level callback for events of type t from every
// node. Must not be called during a tick.
func (c *Context) On(t EventType, fn func(Event)) CallbackHandle {
	c.handlers.nextID++
	id := c.handlers.nextID
	c.handlers.byType[t] = append(c.handlers.byType[t], eventHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &c.handlers, event: t}
}

// OnElementsDeleted registers a callback receiving the nodes removed by a
// sweep. The nodes are already detached and disposed.
func (c *Context) OnElementsDeleted(fn func(nodes []*Node)) CallbackHandle {
	return c.On(EventElementsDeleted, func(e Event) { fn(e.Nodes) })
}

// OnElementsUpdated registers a callback fired after the flat node list was
// rebuilt.
func (c *Context) OnElementsUpdated(fn func()) CallbackHandle {
	return c.On(EventElementsUpdated, func(Event) { fn() })
}

// dispatch runs the context handlers for ev and queues it for the store.
func (c *Context) dispatch(ev Event) {
	for _, h := range c.handlers.byType[ev.Type] {
		h.fn(ev)
	}
	if c.store != nil {
		c.pending.add(c.toInteractionEvent(ev))
	}
}

func (c *Context) toInteractionEvent(ev Event) InteractionEvent {
	out := InteractionEvent{Type: ev.Type, Frame: c.frame}
	if ev.Node != nil {
		out.EntityID = ev.Node.EntityID
		out.NodeID = ev.Node.ID
		out.Fade = ev.Node.fade
	}
	if ev.Touch != nil {
		out.TouchID = ev.Touch.ID
	}
	if ev.Record != nil && ev.Record.Current.Valid {
		cur := ev.Record.Current
		out.ElementX, out.ElementY = cur.Element[0], cur.Element[1]
		out.WorldX, out.WorldY, out.WorldZ = cur.World[0], cur.World[1], cur.World[2]
		out.SurfaceX, out.SurfaceY = cur.Surface.X, cur.Surface.Y
	}
	return out
}

// eventQueue buffers store events raised concurrently during a tick.
type eventQueue struct {
	mu     sync.Mutex
	events []InteractionEvent
}

func (q *eventQueue) add(e InteractionEvent) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// flush hands the buffered events to store in the order they were raised
// and clears the queue.
func (q *eventQueue) flush(store EntityStore) {
	q.mu.Lock()
	events := q.events
	q.events = nil
	q.mu.Unlock()
	for _, e := range events {
		store.EmitEvent(e)
	}
}
