package tactile

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Intersection is the result of projecting a touch ray onto a node's local
// XY plane.
type Intersection struct {
	// Valid is false when the ray missed the plane (parallel or behind the
	// ray origin). The remaining fields are zero in that case.
	Valid bool
	// Element is the hit point in element space (Z is always 0).
	Element mgl64.Vec3
	// World is the hit point in world space.
	World mgl64.Vec3
	// Surface is the shape-specific surface coordinate.
	Surface Vec2
	// Frame is an oriented tangent frame at the hit point composed with the
	// display world matrix. Only circles and segments fill it.
	Frame mgl64.Mat4
	// Depth is the camera-space Z/W of World; smaller is nearer.
	Depth float64
}

// Shape is the closed set of hit-test variants: Plane, Rectangle, Circle,
// Segment and Polygon. The unexported method seals the set.
type Shape interface {
	Kind() ShapeKind
	// classify decides acceptance for an intersection whose Element and
	// Surface fields are already filled, and may refine Surface and Frame.
	classify(isec *Intersection, display mgl64.Mat4) bool
}

// Plane is the infinite local XY plane. Every intersection is accepted.
type Plane struct{}

// Kind implements Shape.
func (Plane) Kind() ShapeKind { return ShapePlane }

func (Plane) classify(*Intersection, mgl64.Mat4) bool { return true }

// Rectangle is the unit square centered on the origin. Edges are inside.
type Rectangle struct{}

// Kind implements Shape.
func (Rectangle) Kind() ShapeKind { return ShapeRectangle }

func (Rectangle) classify(isec *Intersection, _ mgl64.Mat4) bool {
	return math.Abs(isec.Element[0]) <= 0.5 && math.Abs(isec.Element[1]) <= 0.5
}

// Circle is the disc of diameter 1 centered on the origin.
type Circle struct{}

// Kind implements Shape.
func (Circle) Kind() ShapeKind { return ShapeCircle }

func (Circle) classify(isec *Intersection, display mgl64.Mat4) bool {
	angle, radius := polar(isec.Element[0], isec.Element[1], math.Pi)
	isec.Surface = Vec2{angle / math.Pi, radius*4 - 1}
	isec.Frame = tangentFrame(isec.Element, display)
	return radius < 0.5
}

// Segment is a ring sector. HoleRadius is the inner radius relative to the
// unit outer radius (values above 1 swap inner and outer), Cycles is the
// angular span in turns (negative runs clockwise) and Phase rotates the
// start of the span, in turns.
type Segment struct {
	HoleRadius float64
	Cycles     float64
	Phase      float64
}

// Kind implements Shape.
func (Segment) Kind() ShapeKind { return ShapeSegment }

func (s Segment) classify(isec *Intersection, display mgl64.Mat4) bool {
	isec.Frame = tangentFrame(isec.Element, display)

	// Surface space: the outer edge of the unit disc sits at radius 1.
	angle, radius := polar(isec.Element[0]*2, isec.Element[1]*2, (-s.Phase+0.5)*2*math.Pi)

	// Turns from the phase direction, in (0, 1].
	turns := angle/(2*math.Pi) + 0.5
	var u float64
	switch {
	case s.Cycles > 0:
		u = turns/s.Cycles*2 - 1
	case s.Cycles < 0:
		u = (1-turns)/-s.Cycles*2 - 1
	default:
		u = math.Inf(1)
	}

	outer := math.Max(s.HoleRadius, 1)
	inner := math.Min(s.HoleRadius, 1)
	v := math.Inf(1)
	if outer > inner {
		v = (radius-inner)/(outer-inner)*2 - 1
		if s.HoleRadius > 1 {
			v = -v
		}
	}

	isec.Surface = Vec2{u, v}
	return u > -1 && u < 1 && v > -1 && v < 1
}

// Polygon is an arbitrary simple polygon in element space. Fewer than three
// vertices never hit.
type Polygon struct {
	Vertices []Vec2
}

// Kind implements Shape.
func (Polygon) Kind() ShapeKind { return ShapePolygon }

func (p Polygon) classify(isec *Intersection, _ mgl64.Mat4) bool {
	return p.Contains(isec.Element[0], isec.Element[1])
}

// Contains reports whether (x, y) lies inside the polygon using edge-crossing
// parity.
func (p Polygon) Contains(x, y float64) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	prev := p.Vertices[n-1]
	for _, cur := range p.Vertices {
		// Order the edge endpoints by X.
		lo, hi := prev, cur
		if cur.X <= prev.X {
			lo, hi = cur, prev
		}
		if (cur.X < x) == (x <= prev.X) &&
			(y-lo.Y)*(hi.X-lo.X) < (hi.Y-lo.Y)*(x-lo.X) {
			inside = !inside
		}
		prev = cur
	}
	return inside
}

// polar rotates (x, y) by rot radians and returns its angle in (-π, π] and
// its radius.
func polar(x, y, rot float64) (angle, radius float64) {
	sin, cos := math.Sincos(rot)
	rx := cos*x - sin*y
	ry := sin*x + cos*y
	return math.Atan2(ry, rx), math.Hypot(rx, ry)
}

// tangentFrame builds a frame at p with up along local Z and forward
// pointing from p back towards the origin, composed with display.
func tangentFrame(p mgl64.Vec3, display mgl64.Mat4) mgl64.Mat4 {
	up := mgl64.Vec3{0, 0, 1}
	forward := mgl64.Vec3{0, 1, 0}
	if hv := (mgl64.Vec3{p[0], p[1], 0}); hv.Len() > 1e-12 {
		forward = hv.Normalize().Mul(-1)
	}
	right := up.Cross(forward)
	basis := mgl64.Mat4FromCols(right.Vec4(0), up.Vec4(0), forward.Vec4(0), p.Vec4(1))
	return display.Mul4(basis)
}

// intersectPlane projects the ray (origin, dir) into the space described by
// inv and solves for Z = 0.
func intersectPlane(origin, dir mgl64.Vec3, world, inv mgl64.Mat4) (Intersection, bool) {
	o := mgl64.TransformCoordinate(origin, inv)
	d := inv.Mul4x1(dir.Vec4(0)).Vec3()
	if math.Abs(d[2]) < 1e-12 {
		return Intersection{}, false
	}
	t := -o[2] / d[2]
	if t < 0 {
		return Intersection{}, false
	}
	p := o.Add(d.Mul(t))
	p[2] = 0
	return Intersection{
		Valid:   true,
		Element: p,
		World:   mgl64.TransformCoordinate(p, world),
		Surface: Vec2{p[0] * 2, p[1] * 2},
	}, true
}
