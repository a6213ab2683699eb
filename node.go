package tactile

import (
	"cmp"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/tanema/gween"
)

// Behavior is per-node logic run once per frame after the interaction state
// has been updated. Behaviors run in insertion order.
type Behavior interface {
	Update(n *Node, dt float64)
}

// BehaviorFunc adapts a plain function to Behavior.
type BehaviorFunc func(n *Node, dt float64)

// Update implements Behavior.
func (f BehaviorFunc) Update(n *Node, dt float64) { f(n, dt) }

// TouchRecord tracks one touch against one node.
type TouchRecord struct {
	Touch *Touch
	// Current is the intersection of the current ray with the display
	// transform.
	Current Intersection
	// Previous is the intersection of the previous-frame ray with the
	// interaction transform.
	Previous Intersection
	// BeganFrame is the context frame in which the record was created.
	BeganFrame uint64
	// BeganAge is the node's age when the record was created.
	BeganAge float64
}

// Delta returns the element-space movement between the previous and current
// intersections, or zero when either missed the plane.
func (r *TouchRecord) Delta() Vec2 {
	if !r.Current.Valid || !r.Previous.Valid {
		return Vec2{}
	}
	return Vec2{
		r.Current.Element[0] - r.Previous.Element[0],
		r.Current.Element[1] - r.Previous.Element[1],
	}
}

// Event carries notification data. Record is a copy taken when the event
// fired. Nodes is only set for EventElementsDeleted.
type Event struct {
	Type   EventType
	Node   *Node
	Touch  *Touch
	Record *TouchRecord
	Nodes  []*Node
}

type hoverEntry struct {
	touch *Touch
	isec  Intersection
}

// Node is a shaped, transformed, hit-testable element. A single flat struct
// is used for every shape kind; the shape only decides acceptance.
type Node struct {
	// Identity
	ID   string
	Name string

	// Shape decides whether an intersection hits. A nil shape never hits.
	Shape Shape

	// Active=false excludes the node from hit testing.
	Active bool
	// Transparent nodes do not stop occlusion.
	Transparent bool

	// FadeInTime and FadeOutTime are in seconds. Zero snaps.
	FadeInTime  float64
	FadeOutTime float64

	// UserData is an opaque payload.
	UserData any
	// EntityID links the node to an ECS entity for the store bridge.
	EntityID uint32

	// Hierarchy
	ctx        *Context
	parent     *Node
	children   []*Node // sorted by ID
	childIndex map[string]*Node

	transforms [2]cachedTransform

	// Per-touch sets keyed by touch ID.
	hovering *xsync.MapOf[int, hoverEntry]
	hitting  *xsync.MapOf[int, *TouchRecord]
	touching *xsync.MapOf[int, *TouchRecord]

	hit     bool
	touched bool

	// Lifecycle
	fade            float64
	age             float64
	deletionTimer   float64 // < 0 while not armed
	dying           bool
	deleteRequested atomic.Bool
	firedFadedIn    bool
	firedDelStarted bool
	firedDeleting   bool
	fadeIn          *gween.Tween
	fadeInFor       float64
	fadeOut         *gween.Tween
	fadeOutFor      float64

	behaviors      []Behavior
	behaviorIDs    []uint32 // parallel to behaviors
	nextBehaviorID uint32
	source         *ElementPrototype

	// Per-node callbacks (nil by default)
	OnInteractionBegin func(Event)
	OnInteractionEnd   func(Event)
	OnTouchBegin       func(Event)
	OnTouchEnd         func(Event)
	OnHitBegin         func(Event)
	OnHitEnd           func(Event)
	OnInteracting      func(Event)
	OnDeletionStarted  func(Event)
	OnDeleting         func(Event)
	OnFadedIn          func(Event)
	OnChildrenUpdated  func(Event)

	disposed bool
}

// NewNode creates an active node with identity transforms. The age timer
// starts with the first tick it takes part in.
func NewNode(id, name string, shape Shape) *Node {
	n := &Node{
		ID:            id,
		Name:          name,
		Shape:         shape,
		Active:        true,
		childIndex:    make(map[string]*Node),
		hovering:      xsync.NewMapOf[int, hoverEntry](),
		hitting:       xsync.NewMapOf[int, *TouchRecord](),
		touching:      xsync.NewMapOf[int, *TouchRecord](),
		deletionTimer: -1,
	}
	for i := range n.transforms {
		n.transforms[i].local = IdentityTransform()
		n.transforms[i].dirty = true
	}
	return n
}

// --- Tree manipulation ---

// AddChild attaches child under n. If child already has a parent it is
// detached first. Panics if child is nil, shares n's ID with a sibling, or
// is an ancestor of n.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("tactile: cannot add nil child")
	}
	if debugEnabled(n) {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("tactile: adding child would create a cycle")
	}
	if existing, ok := n.childIndex[child.ID]; ok && existing != child {
		panic("tactile: duplicate child id " + child.ID)
	}
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	}
	child.parent = n
	n.childIndex[child.ID] = child
	i, _ := slices.BinarySearchFunc(n.children, child.ID, func(c *Node, id string) int {
		return strings.Compare(c.ID, id)
	})
	n.children = slices.Insert(n.children, i, child)
	child.attach(n.ctx)
	markSubtreeDirty(child)
	if n.ctx != nil {
		n.ctx.structureChanged()
	}
	if debugEnabled(n) {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from n. Panics if child.Parent() != n.
func (n *Node) RemoveChild(child *Node) {
	if child.parent != n {
		panic("tactile: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.parent = nil
	child.attach(nil)
	markSubtreeDirty(child)
	if n.ctx != nil {
		n.ctx.structureChanged()
	}
}

// RemoveFromParent detaches n from its parent. No-op for roots.
func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.parent.RemoveChild(n)
}

// Parent returns the parent node, or nil for roots.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the children sorted by ID. The returned slice MUST NOT
// be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// Child returns the direct child with the given ID.
func (n *Node) Child(id string) *Node {
	return n.childIndex[id]
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Context returns the context the node belongs to, or nil.
func (n *Node) Context() *Context {
	return n.ctx
}

// Path returns the slash-joined IDs from the root down to n.
func (n *Node) Path() string {
	var parts []string
	for p := n; p != nil; p = p.parent {
		parts = append(parts, p.ID)
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}

// walk calls fn for n and its descendants, parents first.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

func (n *Node) attach(ctx *Context) {
	n.walk(func(d *Node) { d.ctx = ctx })
}

// --- Behaviors ---

// BehaviorHandle allows removing a behavior added with AddBehavior.
type BehaviorHandle struct {
	node *Node
	id   uint32
}

// Remove detaches the behavior. Removing twice is a no-op.
func (h BehaviorHandle) Remove() {
	if h.node == nil {
		return
	}
	n := h.node
	if i := slices.Index(n.behaviorIDs, h.id); i >= 0 {
		n.behaviors = slices.Delete(n.behaviors, i, i+1)
		n.behaviorIDs = slices.Delete(n.behaviorIDs, i, i+1)
	}
}

// AddBehavior appends b to the behavior list.
func (n *Node) AddBehavior(b Behavior) BehaviorHandle {
	n.nextBehaviorID++
	n.behaviors = append(n.behaviors, b)
	n.behaviorIDs = append(n.behaviorIDs, n.nextBehaviorID)
	return BehaviorHandle{node: n, id: n.nextBehaviorID}
}

// SetBehaviors replaces the behavior list. Handles of earlier behaviors
// become no-ops.
func (n *Node) SetBehaviors(bs ...Behavior) {
	bs = slices.Clone(bs)
	n.behaviors = n.behaviors[:0]
	n.behaviorIDs = n.behaviorIDs[:0]
	for _, b := range bs {
		n.AddBehavior(b)
	}
}

// Behaviors returns the behavior list. The returned slice MUST NOT be mutated.
func (n *Node) Behaviors() []Behavior {
	return n.behaviors
}

// --- State accessors ---

// Fade returns the fade value in [0, 1].
func (n *Node) Fade() float64 { return n.fade }

// Age returns the seconds the node has been ticked.
func (n *Node) Age() float64 { return n.age }

// Dying reports whether deletion has started on n or an ancestor.
func (n *Node) Dying() bool { return n.dying }

// DeleteRequested reports whether n asked its context to remove it.
func (n *Node) DeleteRequested() bool { return n.deleteRequested.Load() }

// Hit reports whether any touch was hitting n after the last tick.
func (n *Node) Hit() bool { return n.hit }

// Touched reports whether any touching session was open after the last tick.
func (n *Node) Touched() bool { return n.touched }

// IsHovering reports whether touch id hovers n this frame.
func (n *Node) IsHovering(id int) bool {
	_, ok := n.hovering.Load(id)
	return ok
}

// IsHitting reports whether touch id is in n's Hitting set.
func (n *Node) IsHitting(id int) bool {
	_, ok := n.hitting.Load(id)
	return ok
}

// IsTouching reports whether touch id has an open session on n.
func (n *Node) IsTouching(id int) bool {
	_, ok := n.touching.Load(id)
	return ok
}

// Hovering returns the IDs of touches hovering n, ascending.
func (n *Node) Hovering() []int {
	var ids []int
	n.hovering.Range(func(id int, _ hoverEntry) bool {
		ids = append(ids, id)
		return true
	})
	slices.Sort(ids)
	return ids
}

// Hitting returns a snapshot of the Hitting records, ordered by touch ID.
func (n *Node) Hitting() []*TouchRecord {
	return sortedRecords(n.hitting)
}

// Touching returns a snapshot of the Touching records, ordered by touch ID.
func (n *Node) Touching() []*TouchRecord {
	return sortedRecords(n.touching)
}

// TouchingRecord returns the open session for touch id, if any.
func (n *Node) TouchingRecord(id int) (*TouchRecord, bool) {
	return n.touching.Load(id)
}

func sortedRecords(m *xsync.MapOf[int, *TouchRecord]) []*TouchRecord {
	var recs []*TouchRecord
	m.Range(func(_ int, r *TouchRecord) bool {
		recs = append(recs, r)
		return true
	})
	slices.SortFunc(recs, func(a, b *TouchRecord) int { return cmp.Compare(a.Touch.ID, b.Touch.ID) })
	return recs
}

// --- Hit testing ---

// HitTest projects touch onto n's local plane and classifies it against
// n's shape. With usePrevious the previous-frame ray and the interaction
// transform are used; otherwise the current ray and the display transform.
// The intersection is returned even when rejected.
func (n *Node) HitTest(t *Touch, usePrevious bool) (Intersection, bool) {
	cam := n.camera()
	pos, slot := t.Position, slotDisplay
	if usePrevious {
		pos, slot = t.PreviousPosition(), slotInteraction
	}
	origin, dir := cam.Ray(pos)
	world, inv := n.resolve(slot)
	isec, ok := intersectPlane(origin, dir, world, inv)
	if !ok {
		return isec, false
	}
	isec.Depth = cam.Depth(isec.World)
	if n.Shape == nil {
		return isec, false
	}
	display, _ := n.resolve(slotDisplay)
	return isec, n.Shape.classify(&isec, display)
}

func (n *Node) camera() *Camera {
	if n.ctx != nil {
		return n.ctx.camera
	}
	return defaultCamera
}

var defaultCamera = NewCamera()

func (n *Node) config() *Config {
	if n.ctx != nil {
		return &n.ctx.cfg
	}
	return &defaultConfig
}

func (n *Node) frame() uint64 {
	if n.ctx != nil {
		return n.ctx.frame
	}
	return 0
}

// --- Disposal ---

// dispose clears the node and its subtree after removal from a context.
func (n *Node) dispose() {
	n.walk(func(d *Node) {
		d.disposed = true
		d.hovering.Clear()
		d.hitting.Clear()
		d.touching.Clear()
		d.behaviors = nil
		d.behaviorIDs = nil
		d.ctx = nil
	})
}

// IsDisposed reports whether the node was removed by its context.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n's collections without clearing
// child.parent.
func (n *Node) removeChildByPtr(child *Node) {
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
	delete(n.childIndex, child.ID)
}
