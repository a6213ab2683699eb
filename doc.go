// Package tactile is a multitouch interaction engine for 3D-positioned,
// hit-testable UI elements.
//
// Tactile tracks raw touch samples (or a mouse-like pointer), projects each
// touch through a camera onto the local plane of every element, resolves
// depth occlusion, and drives each element's Hovering, Hitting and Touching
// sets together with fade-in, fade-out and deletion lifecycles.
//
// # Quick start
//
// Create a [Context], add [Node] values and call [Context.Tick] once per
// frame with the elapsed seconds:
//
//	ctx := tactile.NewContext(tactile.DefaultConfig())
//
//	button := tactile.NewNode("play", "Play", tactile.Rectangle{})
//	button.SetScale(tactile.TransformBoth, mgl64.Vec3{0.4, 0.2, 1})
//	button.OnTouchBegin = func(e tactile.Event) { fmt.Println("pressed") }
//	ctx.Add(button)
//
//	for range frames {
//		ctx.Submit(tactile.TouchSample{ID: 1, Position: pos, Force: 1})
//		ctx.Tick(1.0 / 60)
//	}
//
// For Ebitengine games use the ebitensrc package, which polls mouse and
// touch input and ticks the context from ebiten.Game.Update. Terminal
// programs can drive the pointer from tcell mouse events with tcellsrc.
//
// # Elements
//
// Every element is a [Node] with a [Shape] deciding which points of its
// local XY plane hit: [Plane], [Rectangle], [Circle], [Segment] and
// [Polygon]. Nodes carry two transforms selected by [TransformKind]: the
// display transform is used for this frame's hit test, the interaction
// transform for the previous-frame ray of ongoing sessions, so smoothing
// and momentum can move one without disturbing the other.
//
// Nodes form trees under the context. Children are keyed by ID; world
// matrices are cached and invalidated down the subtree on any change.
//
// # Touch sessions
//
// A touch under a node is Hovering. Hovering touches that pass occlusion
// are Hitting. A Hitting touch pressed within [Config.NewTouchFrames]
// frames opens a Touching session, which persists until the touch is
// released or expires, even if it leaves the node.
//
// # Prototypes
//
// Trees can be described by [ElementPrototype] values or YAML scenes
// ([ParseScene]) and reconciled with [Context.Update] and [Node.UpdateFrom]:
// matching IDs update in place, new IDs are instantiated and missing ones
// fade out and are removed.
//
// # Notifications
//
// Per-node callbacks (OnTouchBegin, OnHitEnd, ...) fire first, followed by
// context handlers registered with [Context.On]. An [EntityStore] receives
// the same events flattened into [InteractionEvent] values; the ecs
// subpackage publishes them into a [Donburi] world.
//
// [Donburi]: https://github.com/yohamta/donburi
package tactile
