package tactile

import (
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec3(t *testing.T, name string, got, want mgl64.Vec3) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}

// newNodeAt creates a node positioned at (x, y, z) on both transforms.
func newNodeAt(id string, shape Shape, x, y, z float64) *Node {
	n := NewNode(id, "", shape)
	n.SetPosition(TransformBoth, mgl64.Vec3{x, y, z})
	return n
}

// touchAt returns a detached touch at p.
func touchAt(id int, p Vec2) *Touch {
	return &Touch{ID: id, Position: p, Pressed: true}
}

// eventLog records events from context handlers. Safe for concurrent use.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) record(e Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

// watch registers the log for every event type on ctx.
func (l *eventLog) watch(ctx *Context) {
	for t := EventType(0); t < eventTypeCount; t++ {
		ctx.On(t, l.record)
	}
}

func (l *eventLog) count(t EventType, nodeID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Type != t {
			continue
		}
		if nodeID != "" && (e.Node == nil || e.Node.ID != nodeID) {
			continue
		}
		n++
	}
	return n
}

func (l *eventLog) reset() {
	l.mu.Lock()
	l.events = nil
	l.mu.Unlock()
}

// press submits a full-force sample for id at (x, y) and ticks.
func press(ctx *Context, id int, x, y, dt float64) {
	ctx.Submit(TouchSample{ID: id, Position: Vec2{x, y}, Force: 1})
	ctx.Tick(dt)
}
