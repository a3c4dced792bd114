// Package playback implements the cursor that scrubs a completed trace
// without re-running the script.
//
// A [Controller] holds no timers. While it is playing, the host calls
// StepForward at its own cadence, typically [DefaultInterval].
package playback

import (
	"time"

	"github.com/jonwraymond/gridrun/trace"
)

// DefaultInterval is the suggested delay between StepForward calls while
// playing.
const DefaultInterval = 500 * time.Millisecond

// Status is the playback state.
type Status int

const (
	// Idle means no trace is loaded.
	Idle Status = iota
	// Paused means a trace is loaded and the cursor is stopped.
	Paused
	// Playing means a trace is loaded and the host should advance it.
	Playing
)

func (s Status) String() string {
	switch s {
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return "idle"
	}
}

// Controller is the playback state machine. It is not safe for concurrent
// use; drive it from a single event loop.
type Controller struct {
	trace   trace.Trace
	status  Status
	current int
	running bool
}

// New returns an idle Controller.
func New() *Controller {
	return &Controller{}
}

// LoadTrace replaces the trace, rewinds to frame 0 and starts playing.
// Loading an empty trace returns the controller to Idle. It also clears
// the running flag since the run that produced the trace has finished.
func (c *Controller) LoadTrace(t trace.Trace) {
	c.running = false
	c.current = 0
	if len(t) == 0 {
		c.trace = nil
		c.status = Idle
		return
	}
	c.trace = t.Clone()
	c.status = Playing
}

// StepForward advances one frame. At the last frame it pauses instead.
func (c *Controller) StepForward() {
	if c.status == Idle {
		return
	}
	if c.current < len(c.trace)-1 {
		c.current++
		return
	}
	c.status = Paused
}

// StepBackward moves back one frame. It is a no-op at frame 0.
func (c *Controller) StepBackward() {
	if c.current > 0 {
		c.current--
	}
}

// SeekTo jumps to frame n, clamped into range.
func (c *Controller) SeekTo(n int) {
	if c.status == Idle {
		return
	}
	c.current = c.clamp(n)
}

// Play resumes playback without moving the cursor.
func (c *Controller) Play() {
	if c.status != Idle {
		c.status = Playing
	}
}

// Pause stops playback without moving the cursor.
func (c *Controller) Pause() {
	if c.status != Idle {
		c.status = Paused
	}
}

// Toggle switches between Playing and Paused.
func (c *Controller) Toggle() {
	switch c.status {
	case Playing:
		c.status = Paused
	case Paused:
		c.status = Playing
	}
}

// Reset rewinds to frame 0 and pauses.
func (c *Controller) Reset() {
	c.current = 0
	c.Pause()
}

// Status returns the playback state.
func (c *Controller) Status() Status { return c.status }

// Playing reports whether the host should keep calling StepForward.
func (c *Controller) Playing() bool { return c.status == Playing }

// CurrentStep returns the cursor position.
func (c *Controller) CurrentStep() int { return c.current }

// Len returns the number of frames in the loaded trace.
func (c *Controller) Len() int { return len(c.trace) }

// AtEnd reports whether the cursor is on the last frame.
func (c *Controller) AtEnd() bool {
	return c.status != Idle && c.current == len(c.trace)-1
}

// Frame returns the frame under the cursor. ok is false when Idle.
func (c *Controller) Frame() (trace.Frame, bool) {
	if c.status == Idle {
		return trace.Frame{}, false
	}
	return c.trace[c.current].Clone(), true
}

// Failed reports whether the loaded trace ends in a terminal error frame.
func (c *Controller) Failed() bool {
	return c.trace.Failed()
}

// Trace returns a copy of the loaded trace.
func (c *Controller) Trace() trace.Trace {
	return c.trace.Clone()
}

// BeginRun marks a run as executing so that a UI can disable its controls.
func (c *Controller) BeginRun() { c.running = true }

// EndRun clears the running flag without loading a trace, for runs that
// failed before producing one.
func (c *Controller) EndRun() { c.running = false }

// Running reports whether a run is currently executing.
func (c *Controller) Running() bool { return c.running }

func (c *Controller) clamp(n int) int {
	if n < 0 {
		return 0
	}
	if last := len(c.trace) - 1; n > last {
		return last
	}
	return n
}
