package tactile

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Context is the top-level object that owns the touches, the element forest
// and the camera, and drives everything once per Tick.
//
// Exactly one Tick may be in flight at a time. Structural changes (Add,
// Remove, Update) and reads of node state are only safe between ticks.
type Context struct {
	cfg    Config
	camera *Camera

	// Touches
	touches   map[int]*Touch
	touchList []*Touch // sorted by ID

	// Element forest
	roots     []*Node // sorted by ID
	rootIndex map[string]*Node
	nodes     []*Node // flat, parents before children
	dirty     bool    // flat list needs a rebuild
	updated   bool    // elements-updated pending
	deleted   []*Node // elements-deleted pending
	frame     uint64
	dt        float64

	// Input
	inputMu           sync.Mutex
	submitted         []TouchSample
	injectQueue       [][]TouchSample
	pointer           PointerDevice
	pointerWasPressed bool
	runner            *ScriptRunner

	// Notifications
	handlers handlerRegistry
	store    EntityStore
	pending  eventQueue
}

// NewContext creates an empty context with an identity camera. cfg is used
// as given; call Config.Validate first for untrusted values.
func NewContext(cfg Config) *Context {
	return &Context{
		cfg:       cfg,
		camera:    NewCamera(),
		touches:   make(map[int]*Touch),
		rootIndex: make(map[string]*Node),
	}
}

// Config returns the active configuration.
func (c *Context) Config() Config {
	return c.cfg
}

// SetConfig replaces the configuration. Must not be called during a tick.
func (c *Context) SetConfig(cfg Config) {
	c.cfg = cfg
}

// SetCamera sets the authoritative camera matrices. Derived composites are
// recomputed at the start of every tick.
func (c *Context) SetCamera(view, projection, aspect mgl64.Mat4) {
	c.camera.View = view
	c.camera.Projection = projection
	c.camera.AspectCorrection = aspect
	c.camera.update()
}

// Camera returns the context camera.
func (c *Context) Camera() *Camera {
	return c.camera
}

// SetPointer attaches a pointer device. Pass nil to detach.
func (c *Context) SetPointer(p PointerDevice) {
	c.pointer = p
	c.pointerWasPressed = false
}

// SetEntityStore sets the optional ECS bridge.
func (c *Context) SetEntityStore(store EntityStore) {
	c.store = store
}

// Frame returns the number of ticks run so far.
func (c *Context) Frame() uint64 {
	return c.frame
}

// DeltaTime returns the delta-time of the last tick.
func (c *Context) DeltaTime() float64 {
	return c.dt
}

// --- Forest ---

// Add attaches node as a root. Panics on nil or on a duplicate root ID.
func (c *Context) Add(node *Node) {
	if node == nil {
		panic("tactile: cannot add nil node")
	}
	if node.parent != nil {
		panic("tactile: node " + node.ID + " already has a parent")
	}
	if existing, ok := c.rootIndex[node.ID]; ok {
		if existing == node {
			return
		}
		panic("tactile: duplicate root id " + node.ID)
	}
	c.rootIndex[node.ID] = node
	i, _ := slices.BinarySearchFunc(c.roots, node.ID, func(r *Node, id string) int {
		return strings.Compare(r.ID, id)
	})
	c.roots = slices.Insert(c.roots, i, node)
	node.attach(c)
	markSubtreeDirty(node)
	c.structureChanged()
}

// Remove detaches node (root or not) and its subtree immediately, without
// fading. No notifications fire.
func (c *Context) Remove(node *Node) {
	if node.ctx != c {
		return
	}
	if node.parent != nil {
		node.parent.RemoveChild(node)
		return
	}
	if i := slices.Index(c.roots, node); i >= 0 {
		c.roots = slices.Delete(c.roots, i, i+1)
	}
	delete(c.rootIndex, node.ID)
	node.attach(nil)
	c.structureChanged()
}

// Roots returns the root nodes sorted by ID. The returned slice MUST NOT be
// mutated by the caller.
func (c *Context) Roots() []*Node {
	return c.roots
}

// Root returns the root with the given ID.
func (c *Context) Root(id string) *Node {
	return c.rootIndex[id]
}

// Nodes returns every node, parents before children, rebuilding the flat
// list if the structure changed. The returned slice MUST NOT be mutated.
func (c *Context) Nodes() []*Node {
	if c.dirty {
		c.rebuild()
	}
	return c.nodes
}

// Find returns the first node in flat order with the given ID.
func (c *Context) Find(id string) *Node {
	for _, n := range c.Nodes() {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Touches returns the live touches sorted by ID.
func (c *Context) Touches() []*Touch {
	return c.touchList
}

// Touch returns the live touch with the given ID.
func (c *Context) Touch(id int) (*Touch, bool) {
	t, ok := c.touches[id]
	return t, ok
}

func (c *Context) structureChanged() {
	c.dirty = true
	c.updated = true
}

func (c *Context) rebuild() {
	c.nodes = c.nodes[:0]
	for _, r := range c.roots {
		r.walk(func(n *Node) { c.nodes = append(c.nodes, n) })
	}
	c.dirty = false
}

// --- Tick ---

// Tick runs one frame:
//
//  1. recompute camera composites
//  2. age touches and drop expired ones
//  3. sweep nodes that requested deletion, including ones added since
//     the last tick
//  4. fire elements-deleted/updated and rebuild the flat list
//  5. ingest samples (or synthesize the pointer touch)
//  6. clear every Hovering set
//  7. resolve Hovering per touch with occlusion
//  8. process touches and run every node's mainloop
//  9. advance the pointer delta
func (c *Context) Tick(dt float64) {
	c.dt = dt
	c.frame++

	var stats debugStats
	var t0 time.Time
	if c.cfg.Debug {
		t0 = time.Now()
	}

	c.camera.update()
	c.ageTouches()
	if c.dirty {
		c.rebuild()
	}
	c.sweep()

	if len(c.deleted) > 0 {
		deleted := c.deleted
		c.deleted = nil
		c.dispatch(Event{Type: EventElementsDeleted, Nodes: deleted})
	}
	if c.dirty {
		c.rebuild()
	}
	if c.updated {
		c.updated = false
		c.dispatch(Event{Type: EventElementsUpdated})
	}

	if c.cfg.Debug {
		stats.sweepTime = time.Since(t0)
		t0 = time.Now()
	}

	if c.runner != nil {
		c.runner.step(c)
	}
	c.ingest()

	if c.cfg.Debug {
		stats.ingestTime = time.Since(t0)
		t0 = time.Now()
	}

	for _, n := range c.nodes {
		n.hovering.Clear()
	}
	c.resolveHovering()

	if c.cfg.Debug {
		stats.hoverTime = time.Since(t0)
		t0 = time.Now()
	}

	c.processNodes(dt)

	if c.pointer != nil {
		c.pointer.AdvanceDelta()
	}
	if c.store != nil {
		c.pending.flush(c.store)
	}

	if c.cfg.Debug {
		stats.processTime = time.Since(t0)
		stats.touchCount = len(c.touchList)
		stats.nodeCount = len(c.nodes)
		for _, t := range c.touchList {
			stats.hoverCount += len(t.Elements)
		}
		c.debugLog(stats)
	}
}

// sweep removes nodes whose deletion is due, together with their subtrees.
func (c *Context) sweep() {
	var removed []*Node
	for _, n := range c.nodes {
		if n.disposed || n.ctx != c || !n.deletionDue() {
			continue
		}
		n.requestDelete()
		if n.parent != nil {
			n.parent.removeChildByPtr(n)
			n.parent = nil
		} else {
			if i := slices.Index(c.roots, n); i >= 0 {
				c.roots = slices.Delete(c.roots, i, i+1)
			}
			delete(c.rootIndex, n.ID)
		}
		n.walk(func(d *Node) { removed = append(removed, d) })
		n.dispose()
	}
	if len(removed) == 0 {
		return
	}
	Logger().WithFields(logrus.Fields{
		"frame":   c.frame,
		"removed": len(removed),
	}).Info("swept deleted elements")
	c.deleted = append(c.deleted, removed...)
	c.structureChanged()
}

type hoverCandidate struct {
	node *Node
	isec Intersection
}

// resolveHovering hit-tests every touch against every active node. Touches
// are independent and write into disjoint keys of the per-node sets, so
// they may run concurrently.
func (c *Context) resolveHovering() {
	if !c.cfg.Parallel || len(c.touchList) < 2 {
		for _, t := range c.touchList {
			c.hoverTouch(t)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(c.cfg.workers())
	for _, t := range c.touchList {
		g.Go(func() error {
			c.hoverTouch(t)
			return nil
		})
	}
	_ = g.Wait()
}

// hoverTouch sorts the accepted intersections front to back and inserts
// the touch into each node's Hovering set up to and including the first
// non-transparent node. Equal depths keep flat-list order.
func (c *Context) hoverTouch(t *Touch) {
	var hits []hoverCandidate
	for _, n := range c.nodes {
		if !n.Active {
			continue
		}
		if isec, ok := n.HitTest(t, false); ok {
			hits = append(hits, hoverCandidate{node: n, isec: isec})
		}
	}
	slices.SortStableFunc(hits, func(a, b hoverCandidate) int {
		switch {
		case a.isec.Depth < b.isec.Depth:
			return -1
		case a.isec.Depth > b.isec.Depth:
			return 1
		}
		return 0
	})
	for _, h := range hits {
		h.node.hovering.Store(t.ID, hoverEntry{touch: t, isec: h.isec})
		t.Elements = append(t.Elements, h.node)
		if !h.node.Transparent {
			break
		}
	}
}

// processNodes runs ProcessTouch for every touch followed by the mainloop
// for every node, in the configured mode.
func (c *Context) processNodes(dt float64) {
	run := func(n *Node) {
		for _, t := range c.touchList {
			n.ProcessTouch(t)
		}
		n.update(dt)
	}

	if !c.cfg.Parallel {
		for _, n := range c.nodes {
			run(n)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(c.cfg.workers())
	switch c.cfg.Mode {
	case ModeFlat:
		for _, n := range c.nodes {
			g.Go(func() error {
				run(n)
				return nil
			})
		}
	default:
		// A parent finishes before any of its children starts; independent
		// roots run concurrently.
		for _, r := range c.roots {
			g.Go(func() error {
				r.walk(run)
				return nil
			})
		}
	}
	_ = g.Wait()
}
