package tactile

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ProcessTouch advances the Hovering -> Hitting -> Touching promotion for
// one touch. It must run before the node's per-frame update.
//
// A touch that left Hovering is demoted from Hitting, but an open Touching
// session is kept: sessions only end on the touch's own release or expiry.
func (n *Node) ProcessTouch(t *Touch) {
	n.endStale(t)
	entry, hovering := n.hovering.Load(t.ID)
	if !hovering {
		if rec, ok := n.hitting.LoadAndDelete(t.ID); ok {
			n.emit(EventHitEnd, t, rec)
		}
		return
	}

	rec, ok := n.hitting.Load(t.ID)
	if !ok {
		rec = &TouchRecord{Touch: t, Current: entry.isec, BeganFrame: n.frame(), BeganAge: n.age}
		n.hitting.Store(t.ID, rec)
		n.emit(EventHitBegin, t, rec)
	}

	if !t.IsNew(n.config().NewTouchFrames) {
		return
	}
	if _, open := n.touching.Load(t.ID); open {
		return
	}
	first := n.touching.Size() == 0
	session := &TouchRecord{Touch: t, Current: entry.isec, BeganFrame: n.frame(), BeganAge: n.age}
	n.touching.Store(t.ID, session)
	if first {
		n.emit(EventInteractionBegin, t, session)
	}
	n.emit(EventTouchBegin, t, session)
}

// endStale closes records left by an earlier touch that expired and whose
// ID was reused by t in the same frame.
func (n *Node) endStale(t *Touch) {
	if rec, ok := n.hitting.Load(t.ID); ok && rec.Touch != t {
		n.hitting.Delete(t.ID)
		n.emit(EventHitEnd, rec.Touch, rec)
	}
	if rec, ok := n.touching.Load(t.ID); ok && rec.Touch != t {
		n.touching.Delete(t.ID)
		n.emit(EventTouchEnd, rec.Touch, rec)
		if n.touching.Size() == 0 {
			n.emit(EventInteractionEnd, rec.Touch, rec)
		}
	}
}

// update runs the per-frame node steps after every touch was processed.
func (n *Node) update(dt float64) {
	cfg := n.config()
	n.age += dt
	if n.deletionTimer >= 0 {
		n.deletionTimer += dt
	}

	// Sessions end on release or expiry of the touch itself.
	for _, rec := range sortedRecords(n.touching) {
		t := rec.Touch
		if !t.Expired(cfg.ReleasedFrames) && t.Pressed {
			continue
		}
		n.touching.Delete(t.ID)
		n.emit(EventTouchEnd, t, rec)
		if n.touching.Size() == 0 {
			n.emit(EventInteractionEnd, t, rec)
		}
	}

	for _, rec := range sortedRecords(n.hitting) {
		if rec.Touch.Expired(cfg.ReleasedFrames) {
			n.hitting.Delete(rec.Touch.ID)
			n.emit(EventHitEnd, rec.Touch, rec)
		}
	}

	n.hit = n.hitting.Size() > 0
	n.touched = n.touching.Size() > 0

	n.refreshRecords()
	n.updateFade(dt)

	for _, b := range n.behaviors {
		b.Update(n, dt)
	}

	if n.touched {
		n.emit(EventInteracting, nil, nil)
	}
}

// refreshRecords re-runs the hit test for every Hitting touch and every open
// session. Sessions are refreshed against the current ray whether or not
// the touch still hovers the node.
func (n *Node) refreshRecords() {
	fresh := make(map[int][2]Intersection)
	refresh := func(rec *TouchRecord) {
		pair, ok := fresh[rec.Touch.ID]
		if !ok {
			pair[0], _ = n.HitTest(rec.Touch, false)
			pair[1], _ = n.HitTest(rec.Touch, true)
			fresh[rec.Touch.ID] = pair
		}
		rec.Current, rec.Previous = pair[0], pair[1]
	}
	n.hitting.Range(func(_ int, rec *TouchRecord) bool {
		refresh(rec)
		return true
	})
	n.touching.Range(func(_ int, rec *TouchRecord) bool {
		refresh(rec)
		return true
	})
}

// updateFade samples the fade-in ramp at the node's age and multiplies in
// the fade-out ramp while the deletion timer runs.
func (n *Node) updateFade(dt float64) {
	if n.FadeInTime <= 0 {
		n.fade = 1
	} else {
		if n.fadeIn == nil || n.fadeInFor != n.FadeInTime {
			n.fadeIn = linearRamp(0, 1, n.FadeInTime)
			n.fadeInFor = n.FadeInTime
		}
		v, _ := n.fadeIn.Set(float32(n.age))
		n.fade = clamp01(float64(v))
	}
	if n.fade >= 1 && !n.firedFadedIn {
		n.firedFadedIn = true
		n.emit(EventFadedIn, nil, nil)
	}

	if n.deletionTimer < 0 || n.FadeOutTime <= 0 {
		return
	}
	if n.fadeOut == nil || n.fadeOutFor != n.FadeOutTime {
		n.fadeOut = linearRamp(1, 0, n.FadeOutTime)
		n.fadeOutFor = n.FadeOutTime
	}
	v, done := n.fadeOut.Set(float32(n.deletionTimer))
	n.fade *= clamp01(float64(v))
	if done && n.age > dt {
		n.fade = 0
		n.requestDelete()
	}
}

func linearRamp(from, to, seconds float64) *gween.Tween {
	return gween.New(float32(from), float32(to), float32(seconds), ease.Linear)
}

// StartDeletion marks n and its subtree as dying. With a fade-out duration
// the deletion timer is armed and the node fades out before asking its
// context for removal; without one the request is raised immediately.
func (n *Node) StartDeletion() {
	n.dying = true
	for _, c := range n.children {
		c.StartDeletion()
	}
	if n.FadeOutTime <= 0 {
		n.requestDelete()
		return
	}
	if n.deletionTimer < 0 {
		n.deletionTimer = 0
	}
	if !n.firedDelStarted {
		n.firedDelStarted = true
		n.emit(EventDeletionStarted, nil, nil)
	}
}

// deletionDue reports whether the context sweep should remove n.
func (n *Node) deletionDue() bool {
	if n.deleteRequested.Load() {
		return true
	}
	return n.dying && n.deletionTimer >= 0 && n.deletionTimer >= n.FadeOutTime
}

func (n *Node) requestDelete() {
	if !n.firedDeleting {
		n.firedDeleting = true
		n.emit(EventDeleting, nil, nil)
	}
	n.deleteRequested.Store(true)
}

// --- Event dispatch ---

func (n *Node) callback(t EventType) func(Event) {
	switch t {
	case EventInteractionBegin:
		return n.OnInteractionBegin
	case EventInteractionEnd:
		return n.OnInteractionEnd
	case EventTouchBegin:
		return n.OnTouchBegin
	case EventTouchEnd:
		return n.OnTouchEnd
	case EventHitBegin:
		return n.OnHitBegin
	case EventHitEnd:
		return n.OnHitEnd
	case EventInteracting:
		return n.OnInteracting
	case EventDeletionStarted:
		return n.OnDeletionStarted
	case EventDeleting:
		return n.OnDeleting
	case EventFadedIn:
		return n.OnFadedIn
	case EventChildrenUpdated:
		return n.OnChildrenUpdated
	}
	return nil
}

// emit fires the per-node callback first, then the context handlers.
func (n *Node) emit(t EventType, touch *Touch, rec *TouchRecord) {
	ev := Event{Type: t, Node: n, Touch: touch}
	if rec != nil {
		cp := *rec
		ev.Record = &cp
	}
	if fn := n.callback(t); fn != nil {
		fn(ev)
	}
	if n.ctx != nil {
		n.ctx.dispatch(ev)
	}
}
