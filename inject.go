package tactile

// Injected samples are queued one frame per entry and consumed by the next
// ticks' ingest step, after any samples passed to Submit.

// InjectTouch queues a pressed sample for touch id at (x, y) in device
// coordinates with full force.
func (c *Context) InjectTouch(id int, x, y float64) {
	c.InjectSample(TouchSample{ID: id, Position: Vec2{x, y}, Force: 1})
}

// InjectRelease queues a zero-force sample, releasing touch id at (x, y).
func (c *Context) InjectRelease(id int, x, y float64) {
	c.InjectSample(TouchSample{ID: id, Position: Vec2{x, y}})
}

// InjectSample queues a single sample as its own frame.
func (c *Context) InjectSample(s TouchSample) {
	c.injectQueue = append(c.injectQueue, []TouchSample{s})
}

// InjectFrame queues several samples delivered together in one frame.
func (c *Context) InjectFrame(samples ...TouchSample) {
	c.injectQueue = append(c.injectQueue, samples)
}

// InjectTap queues a press followed by a release at the same position.
// Consumes two frames.
func (c *Context) InjectTap(id int, x, y float64) {
	c.InjectTouch(id, x, y)
	c.InjectRelease(id, x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate frames and a release at
// (toX, toY). The sequence consumes frames frames; minimum 2.
func (c *Context) InjectDrag(id int, fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	c.InjectTouch(id, fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		c.InjectTouch(id, fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	c.InjectRelease(id, toX, toY)
}

// PendingInjections returns the number of queued injected frames.
func (c *Context) PendingInjections() int {
	return len(c.injectQueue)
}
