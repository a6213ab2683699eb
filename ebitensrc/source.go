// Package ebitensrc feeds Ebitengine mouse and touch input into a
// tactile.Context and provides a minimal ebiten.Game wrapper that ticks the
// context once per update.
package ebitensrc

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/tactile"
)

// maxTouches bounds the number of concurrent Ebitengine touches tracked.
const maxTouches = 10

// Source polls Ebitengine input. Touches become samples with IDs 1 through
// maxTouches; the mouse drives a tactile.Mouse attached as the context
// pointer, so it only produces a touch in frames without raw touches.
type Source struct {
	// Width and Height are the layout size in pixels used to convert
	// positions to normalized device coordinates.
	Width, Height int
	// Force is reported for every held touch. Ebitengine exposes no
	// pressure, so it defaults to 1.
	Force float64

	mouse    tactile.Mouse
	touchIDs []ebiten.TouchID
	slots    [maxTouches]slot
}

type slot struct {
	used bool
	tid  ebiten.TouchID
	last tactile.Vec2
}

// NewSource creates a source for a layout of w by h pixels.
func NewSource(w, h int) *Source {
	return &Source{Width: w, Height: h, Force: 1}
}

// Attach sets the source's mouse as the context pointer.
func (s *Source) Attach(ctx *tactile.Context) {
	ctx.SetPointer(&s.mouse)
}

// Mouse returns the pointer device driven by the Ebitengine cursor.
func (s *Source) Mouse() *tactile.Mouse {
	return &s.mouse
}

// ToNDC converts a pixel position to normalized device coordinates with Y
// pointing up.
func (s *Source) ToNDC(px, py float64) tactile.Vec2 {
	if s.Width <= 0 || s.Height <= 0 {
		return tactile.Vec2{}
	}
	return tactile.Vec2{
		X: px/float64(s.Width)*2 - 1,
		Y: 1 - py/float64(s.Height)*2,
	}
}

// Poll reads the current Ebitengine input and submits it to ctx. Call it
// from ebiten.Game.Update before ctx.Tick.
func (s *Source) Poll(ctx *tactile.Context) {
	mx, my := ebiten.CursorPosition()
	s.pollMouse(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	ctx.Submit(s.pollTouches(s.touchIDs, func(tid ebiten.TouchID) (float64, float64) {
		x, y := ebiten.TouchPosition(tid)
		return float64(x), float64(y)
	})...)
}

func (s *Source) pollMouse(px, py float64, left bool) {
	s.mouse.Move(s.ToNDC(px, py))
	if left {
		s.mouse.Press()
	} else {
		s.mouse.Release()
	}
}

// pollTouches maps the active touch IDs to samples. A slot whose touch
// disappeared yields one zero-force sample at its last position.
func (s *Source) pollTouches(ids []ebiten.TouchID, position func(ebiten.TouchID) (float64, float64)) []tactile.TouchSample {
	var samples []tactile.TouchSample
	var active [maxTouches]bool
	for _, tid := range ids {
		i := s.slotFor(tid)
		if i < 0 {
			continue
		}
		active[i] = true
		px, py := position(tid)
		p := s.ToNDC(px, py)
		s.slots[i].last = p
		samples = append(samples, tactile.TouchSample{ID: i + 1, Position: p, Force: s.Force})
	}
	for i := range s.slots {
		if s.slots[i].used && !active[i] {
			samples = append(samples, tactile.TouchSample{ID: i + 1, Position: s.slots[i].last})
			s.slots[i] = slot{}
		}
	}
	return samples
}

// slotFor returns the slot of tid, allocating one if needed. Returns -1 when
// every slot is taken.
func (s *Source) slotFor(tid ebiten.TouchID) int {
	for i := range s.slots {
		if s.slots[i].used && s.slots[i].tid == tid {
			return i
		}
	}
	for i := range s.slots {
		if !s.slots[i].used {
			s.slots[i] = slot{used: true, tid: tid}
			return i
		}
	}
	return -1
}
