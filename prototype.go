package tactile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Prototype describes a node. The context instantiates prototypes it has no
// node for and applies them to the nodes it already has.
type Prototype interface {
	// PrototypeID is the ID of the node the prototype describes.
	PrototypeID() string
	// Instantiate creates a node under parent (nil for roots). The
	// returned node is attached by the caller.
	Instantiate(ctx *Context, parent *Node) *Node
	// Apply copies the prototype onto n and reports whether anything
	// changed.
	Apply(n *Node) bool
	// ChildPrototypes lists the prototypes of n's children.
	ChildPrototypes() []Prototype
}

// ErrUnknownShape is returned for shape kinds outside the closed set.
var ErrUnknownShape = errors.New("unknown shape kind")

// ShapeSpec is the serializable form of a Shape.
type ShapeSpec struct {
	Kind       string       `yaml:"kind"`
	HoleRadius float64      `yaml:"holeRadius,omitempty"`
	Cycles     float64      `yaml:"cycles,omitempty"`
	Phase      float64      `yaml:"phase,omitempty"`
	Vertices   [][2]float64 `yaml:"vertices,omitempty"`
}

// Build converts the spec into a Shape. An empty kind yields a nil shape,
// which never hits.
func (s ShapeSpec) Build() (Shape, error) {
	switch s.Kind {
	case "":
		return nil, nil
	case "plane":
		return Plane{}, nil
	case "rectangle", "rect":
		return Rectangle{}, nil
	case "circle":
		return Circle{}, nil
	case "segment", "arc":
		return Segment{HoleRadius: s.HoleRadius, Cycles: s.Cycles, Phase: s.Phase}, nil
	case "polygon":
		verts := make([]Vec2, len(s.Vertices))
		for i, v := range s.Vertices {
			verts[i] = Vec2{v[0], v[1]}
		}
		return Polygon{Vertices: verts}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShape, s.Kind)
}

func (s ShapeSpec) equal(o ShapeSpec) bool {
	return s.Kind == o.Kind && s.HoleRadius == o.HoleRadius &&
		s.Cycles == o.Cycles && s.Phase == o.Phase &&
		slices.Equal(s.Vertices, o.Vertices)
}

// ElementPrototype is the data prototype of a node.
type ElementPrototype struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name,omitempty"`
	Active      *bool     `yaml:"active,omitempty"`
	Transparent bool      `yaml:"transparent,omitempty"`
	FadeInTime  float64   `yaml:"fadeIn,omitempty"`
	FadeOutTime float64   `yaml:"fadeOut,omitempty"`
	EntityID    uint32    `yaml:"entity,omitempty"`
	Shape       ShapeSpec `yaml:"shape"`
	// Position is the local translation.
	Position [3]float64 `yaml:"position,omitempty"`
	// Rotation holds XYZ Euler angles in degrees.
	Rotation [3]float64 `yaml:"rotation,omitempty"`
	// Scale is the local scale. All zeros means unit scale.
	Scale    [3]float64          `yaml:"scale,omitempty"`
	Children []*ElementPrototype `yaml:"children,omitempty"`

	// Behaviors are attached in order. Not serializable.
	Behaviors []Behavior `yaml:"-"`
}

// PrototypeID implements Prototype.
func (p *ElementPrototype) PrototypeID() string {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return p.ID
}

// Instantiate implements Prototype.
func (p *ElementPrototype) Instantiate(_ *Context, _ *Node) *Node {
	n := NewNode(p.PrototypeID(), p.Name, nil)
	p.Apply(n)
	for _, cp := range p.ChildPrototypes() {
		n.AddChild(cp.Instantiate(nil, n))
	}
	return n
}

// Apply implements Prototype. Fields are compared with the prototype last
// applied to n, so nodes may diverge locally (transforms moved by
// behaviors) without being reset by an unchanged prototype.
func (p *ElementPrototype) Apply(n *Node) bool {
	last := n.source
	if last != nil && p.sameFields(last) {
		return false
	}

	n.Name = p.Name
	n.Active = p.Active == nil || *p.Active
	n.Transparent = p.Transparent
	n.FadeInTime = p.FadeInTime
	n.FadeOutTime = p.FadeOutTime
	n.EntityID = p.EntityID
	if last == nil || !p.Shape.equal(last.Shape) {
		shape, err := p.Shape.Build()
		if err != nil {
			Logger().WithFields(logrus.Fields{"node": n.ID, "error": err}).Warn("shape ignored")
		}
		n.Shape = shape
	}
	if last == nil || p.transform() != last.transform() {
		n.SetTransform(TransformBoth, p.transform())
	}
	if last == nil || !sameBehaviors(p.Behaviors, last.Behaviors) {
		n.SetBehaviors(p.Behaviors...)
	}

	snapshot := *p
	snapshot.Children = nil
	n.source = &snapshot
	return true
}

// ChildPrototypes implements Prototype.
func (p *ElementPrototype) ChildPrototypes() []Prototype {
	out := make([]Prototype, len(p.Children))
	for i, c := range p.Children {
		out[i] = c
	}
	return out
}

func (p *ElementPrototype) sameFields(o *ElementPrototype) bool {
	activeP := p.Active == nil || *p.Active
	activeO := o.Active == nil || *o.Active
	return p.ID == o.ID && p.Name == o.Name && activeP == activeO &&
		p.Transparent == o.Transparent &&
		p.FadeInTime == o.FadeInTime && p.FadeOutTime == o.FadeOutTime &&
		p.EntityID == o.EntityID && p.Shape.equal(o.Shape) &&
		p.transform() == o.transform() &&
		sameBehaviors(p.Behaviors, o.Behaviors)
}

func (p *ElementPrototype) transform() Transform {
	t := IdentityTransform()
	t.Position = mgl64.Vec3(p.Position)
	if p.Rotation != [3]float64{} {
		t.Rotation = mgl64.AnglesToQuat(
			mgl64.DegToRad(p.Rotation[0]),
			mgl64.DegToRad(p.Rotation[1]),
			mgl64.DegToRad(p.Rotation[2]),
			mgl64.XYZ,
		)
	}
	if p.Scale != [3]float64{} {
		t.Scale = mgl64.Vec3(p.Scale)
	}
	return t
}

// sameBehaviors compares behavior lists by backing array identity.
// Behavior values may be functions, which cannot be compared.
func sameBehaviors(a, b []Behavior) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// --- Reconciliation ---

// UpdateFrom applies p to n and reconciles n's children against p's child
// prototypes: matching IDs are updated in place, unknown IDs instantiated
// and children missing from p start deletion. children-updated fires only
// when the child set changed, so an unchanged prototype is a no-op.
func (n *Node) UpdateFrom(p Prototype) {
	p.Apply(n)
	if n.reconcileChildren(p.ChildPrototypes()) {
		n.emit(EventChildrenUpdated, nil, nil)
	}
}

func (n *Node) reconcileChildren(protos []Prototype) bool {
	changed := false
	seen := make(map[string]bool, len(protos))
	for _, cp := range protos {
		id := cp.PrototypeID()
		seen[id] = true
		if child, ok := n.childIndex[id]; ok && !child.dying {
			child.UpdateFrom(cp)
			continue
		}
		if child, ok := n.childIndex[id]; ok {
			n.RemoveChild(child)
		}
		n.AddChild(cp.Instantiate(n.ctx, n))
		changed = true
	}
	for _, child := range slices.Clone(n.children) {
		if !seen[child.ID] && !child.dying {
			child.StartDeletion()
			changed = true
		}
	}
	return changed
}

// Update reconciles the root set against protos the same way
// Node.UpdateFrom reconciles children. Must not be called during a tick.
func (c *Context) Update(protos ...Prototype) {
	added, removed := 0, 0
	seen := make(map[string]bool, len(protos))
	for _, p := range protos {
		id := p.PrototypeID()
		seen[id] = true
		if root, ok := c.rootIndex[id]; ok && !root.dying {
			root.UpdateFrom(p)
			continue
		}
		if root, ok := c.rootIndex[id]; ok {
			c.Remove(root)
		}
		c.Add(p.Instantiate(c, nil))
		added++
	}
	for _, r := range slices.Clone(c.roots) {
		if !seen[r.ID] && !r.dying {
			r.StartDeletion()
			removed++
		}
	}
	if added > 0 || removed > 0 {
		Logger().WithFields(logrus.Fields{
			"added":    added,
			"deleting": removed,
		}).Info("reconciled elements")
	}
}

// --- Scene files ---

// Scene is a list of root prototypes, usually loaded from YAML.
type Scene struct {
	Elements []*ElementPrototype `yaml:"elements"`
}

// Prototypes returns the elements as a Prototype list for Context.Update.
func (s *Scene) Prototypes() []Prototype {
	out := make([]Prototype, len(s.Elements))
	for i, e := range s.Elements {
		out[i] = e
	}
	return out
}

// ParseScene decodes a YAML scene, assigns generated IDs to elements that
// have none and validates every shape.
func ParseScene(data []byte) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	var check func(ps []*ElementPrototype) error
	check = func(ps []*ElementPrototype) error {
		for _, p := range ps {
			p.PrototypeID()
			if _, err := p.Shape.Build(); err != nil {
				return fmt.Errorf("parse scene: element %q: %w", p.ID, err)
			}
			if err := check(p.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(s.Elements); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScene reads and parses a YAML scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	return ParseScene(data)
}
