package tactile

import "sync/atomic"

// TouchSample is one raw input sample submitted for a frame. Position is in
// normalized device coordinates ([-1, 1] on both axes before aspect
// correction).
type TouchSample struct {
	ID       int
	Position Vec2
	Force    float64
}

// Touch is one tracked contact or pointer.
type Touch struct {
	// ID is stable for the lifetime of the contact.
	ID int
	// Position is the current position in normalized device coordinates.
	Position Vec2
	// Velocity is the per-frame position delta.
	Velocity Vec2
	// Force is the last submitted force in [0, 1].
	Force float64
	// Pressed is the hysteresis-filtered press state.
	Pressed bool
	// FramesPressed counts frames since the touch was pressed.
	FramesPressed int
	// FramesExpired counts frames since the touch last received a sample.
	FramesExpired int

	// Elements holds the nodes under this touch this frame, nearest first.
	Elements []*Node

	everPressed bool
	removed     atomic.Bool
}

// Removed reports whether the context has dropped this touch.
func (t *Touch) Removed() bool {
	return t.removed.Load()
}

// PreviousPosition reconstructs the position of the previous frame.
func (t *Touch) PreviousPosition() Vec2 {
	return t.Position.Sub(t.Velocity)
}

// IsNew reports whether the touch was pressed within the last frames frames.
func (t *Touch) IsNew(frames int) bool {
	return t.Pressed && t.FramesPressed < frames
}

// Expired reports whether the touch went without samples for more than
// frames frames, or was dropped.
func (t *Touch) Expired(frames int) bool {
	return t.FramesExpired > frames || t.Removed()
}

// age advances the per-frame counters and clears the hit list.
func (t *Touch) age() {
	t.FramesExpired++
	if t.Pressed {
		t.FramesPressed++
	}
	t.Elements = t.Elements[:0]
}

// apply ingests a sample. The press state uses hysteresis: pressing needs a
// force above minForce, releasing needs a force at or below
// minForce*releaseRatio.
func (t *Touch) apply(s TouchSample, minForce, releaseRatio float64, fresh bool) {
	if fresh {
		t.Velocity = Vec2{}
	} else {
		t.Velocity = s.Position.Sub(t.Position)
	}
	t.Position = s.Position
	t.Force = s.Force
	t.FramesExpired = 0

	switch {
	case !t.Pressed && s.Force > minForce:
		t.Pressed = true
		t.everPressed = true
		t.FramesPressed = 0
	case t.Pressed && s.Force <= minForce*releaseRatio:
		t.Pressed = false
	}
}
