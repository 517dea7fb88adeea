package viewport

import "time"

// animation is an ephemeral transition session: the transform captured at
// the moment the transition was requested, the target, and the timestamp
// of the first frame. A session ends when progress reaches 1 or when a
// newer transform request supersedes it.
type animation struct {
	from     Transform
	to       Transform
	start    time.Time
	duration time.Duration
	cancel   func() // pending frame request, if any
}

// easeOutCubic maps linear progress to the 1-(1-t)^3 curve: fast at
// first, decelerating into the target.
func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// animateTo starts an animated transition toward target. The transition
// begins at the live transform, which may itself be mid-animation, so
// rapid consecutive calls compose smoothly instead of jumping back to a
// stale snapshot. The change notification fires once, on completion;
// intermediate frames only re-apply the transform to the surface.
func (c *Controller) animateTo(target Transform) {
	c.mu.Lock()
	c.stopAnimationLocked()
	a := &animation{from: c.tf, to: target, duration: c.cfg.animDur}
	c.anim = a
	c.mu.Unlock()
	c.requestFrame(a)
}

// stopAnimationLocked abandons the in-flight animation, if any. Callers
// hold c.mu.
func (c *Controller) stopAnimationLocked() {
	if c.anim == nil {
		return
	}
	if c.anim.cancel != nil {
		c.anim.cancel()
	}
	c.anim = nil
}

func (c *Controller) requestFrame(a *animation) {
	cancel := c.cfg.scheduler.Request(func(now time.Time) {
		c.advance(a, now)
	})
	c.mu.Lock()
	if c.anim == a {
		a.cancel = cancel
	} else {
		// Superseded between scheduling and registration.
		c.mu.Unlock()
		cancel()
		return
	}
	c.mu.Unlock()
}

// advance runs one animation frame at the scheduler-supplied time. It
// either reschedules itself or, at full progress, terminates the session
// and emits the single completion notification.
func (c *Controller) advance(a *animation, now time.Time) {
	c.mu.Lock()
	if c.anim != a {
		c.mu.Unlock()
		return
	}
	a.cancel = nil
	if a.start.IsZero() {
		a.start = now
	}
	t := float64(now.Sub(a.start)) / float64(a.duration)
	if t >= 1 {
		t = 1
	}
	c.tf = lerp(a.from, a.to, easeOutCubic(t))
	tf := c.tf
	done := t >= 1
	if done {
		c.anim = nil
	}
	c.mu.Unlock()

	c.host.SetTransform(tf)
	if done {
		c.changes.Emit(tf)
		return
	}
	c.requestFrame(a)
}
