// Package tcellsrc drives a tactile pointer from terminal mouse events.
package tcellsrc

import (
	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/tactile"
)

// Pointer converts tcell mouse events on a cols by rows cell grid into a
// tactile.Mouse. Cell centers map to normalized device coordinates with Y
// pointing up.
type Pointer struct {
	Cols, Rows int

	mouse tactile.Mouse
}

// NewPointer creates a pointer for a cols by rows terminal.
func NewPointer(cols, rows int) *Pointer {
	return &Pointer{Cols: cols, Rows: rows}
}

// Attach sets the pointer's mouse as the context pointer.
func (p *Pointer) Attach(ctx *tactile.Context) {
	ctx.SetPointer(&p.mouse)
}

// Mouse returns the underlying pointer device.
func (p *Pointer) Mouse() *tactile.Mouse {
	return &p.mouse
}

// Resize updates the grid size, typically from a *tcell.EventResize.
func (p *Pointer) Resize(cols, rows int) {
	p.Cols, p.Rows = cols, rows
}

// ToNDC converts a cell position to normalized device coordinates.
func (p *Pointer) ToNDC(x, y int) tactile.Vec2 {
	if p.Cols <= 0 || p.Rows <= 0 {
		return tactile.Vec2{}
	}
	return tactile.Vec2{
		X: (float64(x)+0.5)/float64(p.Cols)*2 - 1,
		Y: 1 - (float64(y)+0.5)/float64(p.Rows)*2,
	}
}

// HandleEvent feeds ev into the pointer. It reports whether ev was a mouse
// or resize event it consumed.
func (p *Pointer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		x, y := ev.Position()
		p.mouse.Move(p.ToNDC(x, y))
		if ev.Buttons()&tcell.Button1 != 0 {
			p.mouse.Press()
		} else {
			p.mouse.Release()
		}
		return true
	case *tcell.EventResize:
		p.Resize(ev.Size())
		return true
	}
	return false
}
