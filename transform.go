package tactile

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a node's local position, rotation and scale.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// IdentityTransform returns a transform at the origin with unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// Matrix computes the local matrix. Composition order:
//
//	Scale -> Rotate -> Translate
func (t Transform) Matrix() mgl64.Mat4 {
	rot := t.Rotation
	if rot.W == 0 && rot.V == (mgl64.Vec3{}) {
		rot = mgl64.QuatIdent()
	}
	return mgl64.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// RotationZ returns a rotation of angle radians around the local Z axis.
func RotationZ(angle float64) mgl64.Quat {
	return mgl64.QuatRotate(angle, mgl64.Vec3{0, 0, 1})
}

// cachedTransform holds one of a node's transforms plus its lazily computed
// world matrix and inverse. mu guards every field.
type cachedTransform struct {
	mu       sync.Mutex
	local    Transform
	dirty    bool
	world    mgl64.Mat4
	invWorld mgl64.Mat4
}

const (
	slotInteraction = 0
	slotDisplay     = 1
)

func kindSlots(kind TransformKind) []int {
	switch kind {
	case TransformInteraction:
		return []int{slotInteraction}
	case TransformDisplay:
		return []int{slotDisplay}
	default:
		return []int{slotInteraction, slotDisplay}
	}
}

func slotFor(kind TransformKind) int {
	if kind == TransformInteraction {
		return slotInteraction
	}
	return slotDisplay
}

// resolve returns the world matrix and its inverse for slot, recomputing
// them by walking towards the root when dirty. The child lock is held while
// the parent is resolved; invalidation never holds a parent lock while
// taking a child's, so the lock order cannot cycle.
func (n *Node) resolve(slot int) (world, inv mgl64.Mat4) {
	c := &n.transforms[slot]
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirty {
		local := c.local.Matrix()
		if n.parent != nil {
			pw, _ := n.parent.resolve(slot)
			c.world = pw.Mul4(local)
		} else {
			c.world = local
		}
		c.invWorld = c.world.Inv()
		c.dirty = false
	}
	return c.world, c.invWorld
}

// invalidate marks slot dirty on node and all its descendants.
func invalidate(node *Node, slot int) {
	c := &node.transforms[slot]
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()
	for _, child := range node.children {
		invalidate(child, slot)
	}
}

// markSubtreeDirty invalidates both transforms on node and its descendants.
func markSubtreeDirty(node *Node) {
	invalidate(node, slotInteraction)
	invalidate(node, slotDisplay)
}

func (n *Node) mutate(kind TransformKind, fn func(t *Transform)) {
	for _, slot := range kindSlots(kind) {
		c := &n.transforms[slot]
		c.mu.Lock()
		fn(&c.local)
		c.mu.Unlock()
		invalidate(n, slot)
	}
}

// --- Transform property setters ---

// SetPosition sets the local position of the selected transforms and
// invalidates the subtree.
func (n *Node) SetPosition(kind TransformKind, p mgl64.Vec3) {
	n.mutate(kind, func(t *Transform) { t.Position = p })
}

// SetRotation sets the local rotation of the selected transforms and
// invalidates the subtree.
func (n *Node) SetRotation(kind TransformKind, q mgl64.Quat) {
	n.mutate(kind, func(t *Transform) { t.Rotation = q })
}

// SetScale sets the local scale of the selected transforms and invalidates
// the subtree.
func (n *Node) SetScale(kind TransformKind, s mgl64.Vec3) {
	n.mutate(kind, func(t *Transform) { t.Scale = s })
}

// SetTransform replaces the selected transforms wholesale.
func (n *Node) SetTransform(kind TransformKind, t Transform) {
	n.mutate(kind, func(dst *Transform) { *dst = t })
}

// Transform returns a copy of the selected local transform. TransformBoth
// reads the display transform.
func (n *Node) Transform(kind TransformKind) Transform {
	c := &n.transforms[slotFor(kind)]
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local
}

// WorldMatrix returns the world matrix of the selected transform.
func (n *Node) WorldMatrix(kind TransformKind) mgl64.Mat4 {
	w, _ := n.resolve(slotFor(kind))
	return w
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this node's element space.
func (n *Node) WorldToLocal(kind TransformKind, p mgl64.Vec3) mgl64.Vec3 {
	_, inv := n.resolve(slotFor(kind))
	return mgl64.TransformCoordinate(p, inv)
}

// LocalToWorld converts an element-space point to world space.
func (n *Node) LocalToWorld(kind TransformKind, p mgl64.Vec3) mgl64.Vec3 {
	w, _ := n.resolve(slotFor(kind))
	return mgl64.TransformCoordinate(p, w)
}
