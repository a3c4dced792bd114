// Package trace records a run as an ordered sequence of immutable frames.
//
// Frame 0 is the initial state before any script instruction executes.
// Every accepted move appends one frame; log output is attached to the most
// recent frame instead of creating a new one. A run that fails appends one
// terminal frame carrying the error message.
//
// Frames hold deep copies of the object set, so a frame recorded earlier is
// never affected by later transitions. This is what makes replay and rewind
// independent of the original execution.
package trace

import (
	"github.com/jonwraymond/gridrun/level"
)

// Frame is one recorded snapshot of the simulation.
type Frame struct {
	Step            int                `json:"step"`
	PlayerPosition  level.Position     `json:"playerPosition"`
	PlayerDirection level.Direction    `json:"playerDirection"`
	Objects         []level.GameObject `json:"objects"`
	Log             *string            `json:"log"`

	// LineNumber is reserved and always null.
	LineNumber *int `json:"lineNumber"`

	Error *string `json:"error"`
}

// LogText returns the frame's log, or "" when there is none.
func (f Frame) LogText() string {
	if f.Log == nil {
		return ""
	}
	return *f.Log
}

// ErrorText returns the frame's error, or "" when there is none.
func (f Frame) ErrorText() string {
	if f.Error == nil {
		return ""
	}
	return *f.Error
}

// Clone returns a deep copy of f.
func (f Frame) Clone() Frame {
	out := f
	out.Objects = level.CloneObjects(f.Objects)
	if out.Objects == nil {
		out.Objects = []level.GameObject{}
	}
	out.Log = cloneString(f.Log)
	out.Error = cloneString(f.Error)
	out.LineNumber = nil
	return out
}

// Trace is the ordered frame sequence of one run.
type Trace []Frame

// Len returns the number of frames.
func (t Trace) Len() int {
	return len(t)
}

// At returns frame i and whether it exists.
func (t Trace) At(i int) (Frame, bool) {
	if i < 0 || i >= len(t) {
		return Frame{}, false
	}
	return t[i], true
}

// Last returns the final frame and whether the trace is non-empty.
func (t Trace) Last() (Frame, bool) {
	return t.At(len(t) - 1)
}

// Failed reports whether the run ended with a terminal error frame. Blocked
// moves also set Error but always carry a log line; the terminal frame
// never does.
func (t Trace) Failed() bool {
	last, ok := t.Last()
	return ok && last.Error != nil && last.Log == nil
}

// Clone returns a deep copy of t.
func (t Trace) Clone() Trace {
	if t == nil {
		return nil
	}
	out := make(Trace, len(t))
	for i, f := range t {
		out[i] = f.Clone()
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
