package tactile

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestShapeAcceptance(t *testing.T) {
	triangle := Polygon{Vertices: []Vec2{{-0.5, -0.5}, {0.5, -0.5}, {0, 0.5}}}
	arc := Segment{HoleRadius: 0.5, Cycles: 0.5}

	tests := []struct {
		name  string
		shape Shape
		p     Vec2
		want  bool
	}{
		{"plane far away", Plane{}, Vec2{50, -80}, true},
		{"rect center", Rectangle{}, Vec2{0, 0}, true},
		{"rect corner is inside", Rectangle{}, Vec2{0.5, 0.5}, true},
		{"rect outside x", Rectangle{}, Vec2{0.51, 0}, false},
		{"rect outside y", Rectangle{}, Vec2{0, -0.51}, false},
		{"circle inside", Circle{}, Vec2{0.49, 0}, true},
		{"circle rim is outside", Circle{}, Vec2{0.5, 0}, false},
		{"circle rect corner", Circle{}, Vec2{0.4, 0.4}, false},
		{"triangle center", triangle, Vec2{0, 0}, true},
		{"triangle beside apex", triangle, Vec2{0.4, 0.4}, false},
		{"arc inside span", arc, Vec2{0, 0.375}, true},
		{"arc outside span", arc, Vec2{0, -0.375}, false},
		{"arc in hole", arc, Vec2{0, 0.15}, false},
		{"arc beyond outer radius", arc, Vec2{0, 0.55}, false},
		{"zero-cycle arc", Segment{HoleRadius: 0.5}, Vec2{0, 0.375}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNode("n", "", tt.shape)
			isec, ok := n.HitTest(touchAt(1, tt.p), false)
			if !isec.Valid {
				t.Fatal("ray missed the plane")
			}
			if ok != tt.want {
				t.Errorf("hit = %v, want %v (surface %v)", ok, tt.want, isec.Surface)
			}
		})
	}
}

func TestShapeKinds(t *testing.T) {
	shapes := []Shape{Plane{}, Rectangle{}, Circle{}, Segment{}, Polygon{}}
	want := []string{"plane", "rectangle", "circle", "segment", "polygon"}
	for i, s := range shapes {
		if got := s.Kind().String(); got != want[i] {
			t.Errorf("Kind() = %q, want %q", got, want[i])
		}
	}
}

func TestCircleSurface(t *testing.T) {
	n := NewNode("c", "", Circle{})
	isec, ok := n.HitTest(touchAt(1, Vec2{0, 0.25}), false)
	if !ok {
		t.Fatal("expected hit")
	}
	// Angle is measured after a half-turn, normalized to [-1, 1].
	assertNear(t, "surface.X", isec.Surface.X, -0.5)
	assertNear(t, "surface.Y", isec.Surface.Y, 0)

	// The frame origin sits on the hit point with up along local Z.
	origin := mgl64.TransformCoordinate(mgl64.Vec3{}, isec.Frame)
	assertVec3(t, "frame origin", origin, mgl64.Vec3{0, 0.25, 0})
	up := isec.Frame.Col(1).Vec3()
	assertVec3(t, "frame up", up, mgl64.Vec3{0, 0, 1})
	forward := isec.Frame.Col(2).Vec3()
	assertVec3(t, "frame forward", forward, mgl64.Vec3{0, -1, 0})
}

func TestSegmentSurface(t *testing.T) {
	n := NewNode("s", "", Segment{HoleRadius: 0.5, Cycles: 0.5})
	isec, ok := n.HitTest(touchAt(1, Vec2{0, 0.375}), false)
	if !ok {
		t.Fatal("expected hit")
	}
	assertNear(t, "surface.X", isec.Surface.X, 0)
	assertNear(t, "surface.Y", isec.Surface.Y, 0)
}

func TestSegmentNegativeCyclesMirrors(t *testing.T) {
	ccw := NewNode("ccw", "", Segment{HoleRadius: 0.5, Cycles: 0.25})
	cw := NewNode("cw", "", Segment{HoleRadius: 0.5, Cycles: -0.25})

	// A quarter turn on either side of the phase direction.
	a, okA := ccw.HitTest(touchAt(1, Vec2{0.25, 0.25}), false)
	b, okB := cw.HitTest(touchAt(1, Vec2{0.25, 0.25}), false)
	if okA == okB {
		t.Fatalf("expected exactly one hit: ccw=%v (%v) cw=%v (%v)", okA, a.Surface, okB, b.Surface)
	}
}

func TestSegmentHoleAboveOneRunsInward(t *testing.T) {
	n := NewNode("ring", "", Segment{HoleRadius: 2, Cycles: 1})
	near, okNear := n.HitTest(touchAt(1, Vec2{0, 0.6}), false)
	far, okFar := n.HitTest(touchAt(1, Vec2{0, 0.9}), false)
	if !okNear || !okFar {
		t.Fatalf("expected both hits: %v %v", okNear, okFar)
	}
	assertNear(t, "near radial", near.Surface.Y, 0.6)
	assertNear(t, "far radial", far.Surface.Y, -0.6)

	if _, ok := n.HitTest(touchAt(1, Vec2{0, 0.4}), false); ok {
		t.Error("point inside the unit radius should miss")
	}
}

func TestPolygonContains(t *testing.T) {
	square := Polygon{Vertices: []Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}}
	if !square.Contains(0.5, 0.5) {
		t.Error("center should be inside")
	}
	if square.Contains(1.5, 0.5) {
		t.Error("point right of square should be outside")
	}
	line := Polygon{Vertices: []Vec2{{0, 0}, {1, 1}}}
	if line.Contains(0.5, 0.5) {
		t.Error("degenerate polygon should never contain")
	}
}

func TestHitTest_NilShape(t *testing.T) {
	n := NewNode("n", "", nil)
	isec, ok := n.HitTest(touchAt(1, Vec2{}), false)
	if ok {
		t.Error("nil shape should not hit")
	}
	if !isec.Valid {
		t.Error("intersection should still be computed")
	}
}

func TestHitTest_ParallelPlaneMisses(t *testing.T) {
	n := NewNode("edge-on", "", Plane{})
	n.SetRotation(TransformBoth, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}))
	isec, ok := n.HitTest(touchAt(1, Vec2{}), false)
	if ok || isec.Valid {
		t.Errorf("edge-on plane should miss, got %+v", isec)
	}
}

func TestHitTest_UsesTransformedElementSpace(t *testing.T) {
	n := NewNode("n", "", Rectangle{})
	n.SetPosition(TransformBoth, mgl64.Vec3{2, 0, 0})
	n.SetScale(TransformBoth, mgl64.Vec3{2, 2, 1})

	isec, ok := n.HitTest(touchAt(1, Vec2{2.9, 0}), false)
	if !ok {
		t.Fatal("expected hit inside scaled rectangle")
	}
	assertNear(t, "element.X", isec.Element[0], 0.45)
	assertVec3(t, "world", isec.World, mgl64.Vec3{2.9, 0, 0})

	if _, ok := n.HitTest(touchAt(1, Vec2{0.9, 0}), false); ok {
		t.Error("point left of the rectangle should miss")
	}
}

func TestHitTest_PreviousUsesInteractionTransform(t *testing.T) {
	n := NewNode("n", "", Rectangle{})
	n.SetPosition(TransformDisplay, mgl64.Vec3{5, 0, 0})

	tc := &Touch{ID: 1, Position: Vec2{0.2, 0}, Velocity: Vec2{0.1, 0}}
	prev, ok := n.HitTest(tc, true)
	if !ok {
		t.Fatal("previous ray should hit the unmoved interaction transform")
	}
	assertNear(t, "previous element.X", prev.Element[0], 0.1)

	if _, ok := n.HitTest(tc, false); ok {
		t.Error("current ray should miss the moved display transform")
	}
}

func TestCircleRadiusAtAnyAngle(t *testing.T) {
	n := NewNode("c", "", Circle{})
	for i := range 12 {
		a := float64(i) * math.Pi / 6
		inside := Vec2{0.49 * math.Cos(a), 0.49 * math.Sin(a)}
		if _, ok := n.HitTest(touchAt(1, inside), false); !ok {
			t.Errorf("angle %d: r=0.49 should hit", i)
		}
		outside := Vec2{0.51 * math.Cos(a), 0.51 * math.Sin(a)}
		if _, ok := n.HitTest(touchAt(1, outside), false); ok {
			t.Errorf("angle %d: r=0.51 should miss", i)
		}
	}
}

func TestSquarePolygonMatchesRectangle(t *testing.T) {
	square := Polygon{Vertices: []Vec2{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}}
	points := []Vec2{
		{0.45, 0.45}, {-0.45, 0.45}, {0.45, -0.45}, {-0.45, -0.45},
		{0, 0}, {0.2, -0.3},
		{0.6, 0}, {0, -0.6}, {0.7, 0.7}, {-2, 3},
	}
	poly := NewNode("p", "", square)
	rect := NewNode("r", "", Rectangle{})
	for _, p := range points {
		_, gotPoly := poly.HitTest(touchAt(1, p), false)
		_, gotRect := rect.HitTest(touchAt(1, p), false)
		if gotPoly != gotRect {
			t.Errorf("%v: polygon = %v, rectangle = %v", p, gotPoly, gotRect)
		}
	}
	if square.Contains(1.5, 0) {
		t.Error("point outside the bounding box should miss")
	}
}
