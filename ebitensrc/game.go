package ebitensrc

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/tactile"
)

// Game implements ebiten.Game around a tactile.Context. Each Update polls
// the source and ticks the context with 1/TPS seconds.
type Game struct {
	Context *tactile.Context
	Source  *Source

	// OnUpdate runs after the tick. A non-nil error stops the game.
	OnUpdate func() error
	// OnDraw renders the frame.
	OnDraw func(screen *ebiten.Image)
}

// NewGame creates a game for ctx with a layout of w by h pixels and
// attaches the mouse as the context pointer.
func NewGame(ctx *tactile.Context, w, h int) *Game {
	src := NewSource(w, h)
	src.Attach(ctx)
	return &Game{Context: ctx, Source: src}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.Source.Poll(g.Context)
	g.Context.Tick(1 / float64(ebiten.TPS()))
	if g.OnUpdate != nil {
		return g.OnUpdate()
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.OnDraw != nil {
		g.OnDraw(screen)
	}
}

// Layout implements ebiten.Game. The layout size is fixed to the source's.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.Source.Width, g.Source.Height
}

// Run opens a window titled title and runs g until it stops.
func Run(title string, g *Game) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(g.Source.Width, g.Source.Height)
	return ebiten.RunGame(g)
}
