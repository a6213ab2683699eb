package tactile

import "github.com/go-gl/mathgl/mgl64"

// Vec2 is a 2D vector used for touch positions, velocities and surface
// coordinates.
type Vec2 struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Vec converts v to an mgl64 vector.
func (v Vec2) Vec() mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

// TransformKind selects which of a node's two transforms an operation targets.
type TransformKind uint8

const (
	TransformInteraction TransformKind = 1 << iota // used by hit tests of continuing sessions
	TransformDisplay                               // used by hit tests of the current frame
	TransformBoth        = TransformInteraction | TransformDisplay
)

// ExecutionMode controls how node mainloops are scheduled within a tick.
type ExecutionMode uint8

const (
	// ModeHierarchical runs each root's subtree parent-before-children.
	// Independent roots may run concurrently.
	ModeHierarchical ExecutionMode = iota
	// ModeFlat runs every node with no ordering guarantee.
	ModeFlat
)

// String returns the config name of the mode.
func (m ExecutionMode) String() string {
	switch m {
	case ModeFlat:
		return "flat"
	default:
		return "hierarchical"
	}
}

// EventType identifies a kind of notification.
type EventType uint8

const (
	EventInteractionBegin EventType = iota // first touch of a session committed
	EventInteractionEnd                    // last concurrent touch of a session ended
	EventTouchBegin                        // a touch committed to a Touching session
	EventTouchEnd                          // a Touching session ended
	EventHitBegin                          // a touch entered Hitting
	EventHitEnd                            // a touch left Hitting
	EventInteracting                       // fires every frame while touched
	EventDeletionStarted                   // fade-out deletion armed
	EventDeleting                          // node is about to be removed
	EventFadedIn                           // fade-in completed
	EventChildrenUpdated                   // children changed during an update
	EventElementsUpdated                   // context: structure rebuilt
	EventElementsDeleted                   // context: nodes removed
	eventTypeCount
)

var eventNames = [...]string{
	EventInteractionBegin: "interaction-begin",
	EventInteractionEnd:   "interaction-end",
	EventTouchBegin:       "touch-begin",
	EventTouchEnd:         "touch-end",
	EventHitBegin:         "hit-begin",
	EventHitEnd:           "hit-end",
	EventInteracting:      "interacting",
	EventDeletionStarted:  "deletion-started",
	EventDeleting:         "deleting",
	EventFadedIn:          "faded-in",
	EventChildrenUpdated:  "children-updated",
	EventElementsUpdated:  "elements-updated",
	EventElementsDeleted:  "elements-deleted",
}

// String returns the kebab-case name of the event.
func (e EventType) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// ShapeKind distinguishes the hit-test variants.
type ShapeKind uint8

const (
	ShapePlane ShapeKind = iota
	ShapeRectangle
	ShapeCircle
	ShapeSegment
	ShapePolygon
)

var shapeNames = [...]string{
	ShapePlane:     "plane",
	ShapeRectangle: "rectangle",
	ShapeCircle:    "circle",
	ShapeSegment:   "segment",
	ShapePolygon:   "polygon",
}

// String returns the config name of the shape kind.
func (k ShapeKind) String() string {
	if int(k) < len(shapeNames) {
		return shapeNames[k]
	}
	return "unknown"
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
