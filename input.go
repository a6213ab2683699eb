package tactile

import (
	"cmp"
	"slices"
	"sync"
)

// PointerDevice is an optional mouse-like source. When no raw samples arrive
// in a frame the context synthesizes one touch from it.
type PointerDevice interface {
	// Pointer returns the device position in normalized device coordinates,
	// whether its primary button is held, and whether a position is known.
	Pointer() (pos Vec2, pressed, ok bool)
	// Delta returns the movement accumulated since the last AdvanceDelta.
	Delta() Vec2
	// AdvanceDelta resets the accumulated movement. Called once per tick.
	AdvanceDelta()
}

// Mouse is a PointerDevice fed by move, press and release notifications.
// It is safe to notify from an input goroutine while the context ticks.
type Mouse struct {
	mu      sync.Mutex
	pos     Vec2
	known   bool
	pressed bool
	delta   Vec2
}

// Move records a new pointer position and accumulates the delta.
func (m *Mouse) Move(p Vec2) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.known {
		m.delta = m.delta.Add(p.Sub(m.pos))
	}
	m.pos = p
	m.known = true
}

// Press records the primary button going down.
func (m *Mouse) Press() {
	m.mu.Lock()
	m.pressed = true
	m.mu.Unlock()
}

// Release records the primary button going up.
func (m *Mouse) Release() {
	m.mu.Lock()
	m.pressed = false
	m.mu.Unlock()
}

// Pointer implements PointerDevice.
func (m *Mouse) Pointer() (Vec2, bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos, m.pressed, m.known
}

// Delta implements PointerDevice.
func (m *Mouse) Delta() Vec2 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delta
}

// AdvanceDelta implements PointerDevice.
func (m *Mouse) AdvanceDelta() {
	m.mu.Lock()
	m.delta = Vec2{}
	m.mu.Unlock()
}

// --- Sample submission ---

// Submit queues raw samples for the next tick. Samples submitted with the
// same ID in one frame overwrite each other; the last one wins.
func (c *Context) Submit(samples ...TouchSample) {
	c.inputMu.Lock()
	c.submitted = append(c.submitted, samples...)
	c.inputMu.Unlock()
}

// takeSamples drains the submitted samples plus at most one injected frame.
func (c *Context) takeSamples() []TouchSample {
	c.inputMu.Lock()
	samples := c.submitted
	c.submitted = nil
	c.inputMu.Unlock()

	if len(c.injectQueue) > 0 {
		samples = append(samples, c.injectQueue[0]...)
		c.injectQueue = slices.Delete(c.injectQueue, 0, 1)
	}
	return samples
}

// ingest updates or creates touches from this frame's samples. With no raw
// samples the pointer device, if any, provides one synthetic touch.
func (c *Context) ingest() {
	samples := c.takeSamples()

	if len(samples) == 0 && c.pointer != nil {
		if pos, pressed, ok := c.pointer.Pointer(); ok {
			switch {
			case pressed || c.cfg.PointerAlwaysPresent:
				force := 0.0
				if pressed {
					force = 1
				}
				samples = append(samples, TouchSample{ID: c.cfg.PointerTouchID, Position: pos, Force: force})
			case c.pointerWasPressed:
				// One release sample so open sessions end this frame.
				samples = append(samples, TouchSample{ID: c.cfg.PointerTouchID, Position: pos})
			}
			c.pointerWasPressed = pressed
		}
	}

	for _, s := range samples {
		t, ok := c.touches[s.ID]
		if !ok {
			t = &Touch{ID: s.ID}
			c.touches[s.ID] = t
		}
		t.apply(s, c.cfg.MinForce, c.cfg.ReleaseForceRatio, !ok)
	}
	c.rebuildTouchList()
}

// ageTouches advances every touch and drops the ones past the released
// threshold, and hover-only touches that stopped reporting.
func (c *Context) ageTouches() {
	for id, t := range c.touches {
		t.age()
		if t.FramesExpired > c.cfg.ReleasedFrames || (!t.everPressed && t.FramesExpired > 1) {
			t.removed.Store(true)
			delete(c.touches, id)
		}
	}
	c.rebuildTouchList()
}

func (c *Context) rebuildTouchList() {
	c.touchList = c.touchList[:0]
	for _, t := range c.touches {
		c.touchList = append(c.touchList, t)
	}
	slices.SortFunc(c.touchList, func(a, b *Touch) int { return cmp.Compare(a.ID, b.ID) })
}
