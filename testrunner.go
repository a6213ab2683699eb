package tactile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// scriptStep is a single action in a touch script.
type scriptStep struct {
	Action string  `json:"action"`
	ID     int     `json:"id,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Force  float64 `json:"force,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// touchScript is the top-level JSON structure of a script.
type touchScript struct {
	Steps []scriptStep `json:"steps"`
}

// ErrEmptyScript is returned for scripts without steps.
var ErrEmptyScript = errors.New("no steps")

// ScriptRunner sequences injected touches across frames. Attach it to a
// Context with SetScriptRunner.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// ParseTouchScript parses a JSON touch script:
//
//	{"steps": [
//	  {"action": "touch", "id": 1, "x": 0, "y": 0},
//	  {"action": "wait", "frames": 5},
//	  {"action": "release", "id": 1, "x": 0, "y": 0},
//	  {"action": "tap", "id": 2, "x": 0.2, "y": 0.1},
//	  {"action": "drag", "id": 3, "fromX": -0.5, "fromY": 0, "toX": 0.5, "toY": 0, "frames": 10}
//	]}
//
// "touch" accepts an optional force; it defaults to 1.
func ParseTouchScript(data []byte) (*ScriptRunner, error) {
	var script touchScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse touch script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse touch script: %w", ErrEmptyScript)
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "touch", "release", "tap", "drag", "wait":
		default:
			return nil, fmt.Errorf("parse touch script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// LoadTouchScript reads and parses a JSON touch script file.
func LoadTouchScript(path string) (*ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load touch script: %w", err)
	}
	return ParseTouchScript(data)
}

// SetScriptRunner attaches a ScriptRunner. Its step method runs at the start
// of the ingest stage of every tick.
func (c *Context) SetScriptRunner(runner *ScriptRunner) {
	c.runner = runner
}

// Done reports whether every step has been executed and drained.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(c *Context) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(c.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "touch":
		force := st.Force
		if force == 0 {
			force = 1
		}
		c.InjectSample(TouchSample{ID: st.ID, Position: Vec2{st.X, st.Y}, Force: force})
	case "release":
		c.InjectRelease(st.ID, st.X, st.Y)
	case "tap":
		c.InjectTap(st.ID, st.X, st.Y)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		c.InjectDrag(st.ID, st.FromX, st.FromY, st.ToX, st.ToY, frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
}
