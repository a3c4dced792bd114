package trace

import (
	"github.com/jonwraymond/gridrun/level"
	"github.com/jonwraymond/gridrun/sim"
)

// Recorder builds the trace of one run. It is not safe for concurrent use.
type Recorder struct {
	frames Trace
}

// NewRecorder creates a Recorder seeded with frame 0 taken from st.
func NewRecorder(st *sim.State) *Recorder {
	r := &Recorder{}
	r.frames = append(r.frames, snapshot(st, 0, nil, nil))
	return r
}

// Record appends the frame produced by a move. Blocked moves carry the
// hit-wall message as both log and error.
func (r *Recorder) Record(st *sim.State, tr sim.Transition) Frame {
	var msg *string
	if tr.Blocked {
		msg = stringPtr(sim.HitWallMessage)
	}
	f := snapshot(st, st.StepCount, msg, cloneString(msg))
	r.frames = append(r.frames, f)
	return f.Clone()
}

// AppendLog attaches text to the most recent frame, joining with a newline
// when that frame already has a log.
func (r *Recorder) AppendLog(text string) {
	last := &r.frames[len(r.frames)-1]
	if last.Log == nil {
		last.Log = stringPtr(text)
		return
	}
	joined := *last.Log + "\n" + text
	last.Log = &joined
}

// Fail appends the terminal frame for a run that stopped with message.
func (r *Recorder) Fail(st *sim.State, message string) Frame {
	f := snapshot(st, st.StepCount+1, nil, stringPtr(message))
	r.frames = append(r.frames, f)
	return f.Clone()
}

// Len returns the number of frames recorded so far.
func (r *Recorder) Len() int {
	return len(r.frames)
}

// Trace returns a deep copy of the recorded frames.
func (r *Recorder) Trace() Trace {
	return r.frames.Clone()
}

func snapshot(st *sim.State, step int, log, errMsg *string) Frame {
	objs := level.CloneObjects(st.Objects)
	if objs == nil {
		objs = []level.GameObject{}
	}
	return Frame{
		Step:            step,
		PlayerPosition:  st.Position,
		PlayerDirection: st.Direction,
		Objects:         objs,
		Log:             log,
		Error:           errMsg,
	}
}

func stringPtr(s string) *string {
	return &s
}
