// Package bridge is the callback surface a learner script uses to affect the
// simulation.
//
// A [Bridge] exposes exactly two primitives, Move and Log, plus a stdout
// writer that routes captured output through Log. Scripting engines build
// their sugar (move_up, speak, hero.move, print, ...) on top of these so
// that every route ends in the same state transition and log rule.
//
// One Bridge is bound to one run. It is not safe for concurrent use.
package bridge

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonwraymond/gridrun/level"
	"github.com/jonwraymond/gridrun/sim"
	"github.com/jonwraymond/gridrun/trace"
)

// ErrInvalidArgument indicates a call the script made with bad arguments.
var ErrInvalidArgument = errors.New("invalid bridge argument")

// Bridge is the script-visible environment of one run.
//
// Contract:
// - Concurrency: bound to a single run; callers serialize access.
// - Errors: Move returns ErrInvalidArgument for bad arguments and
// *sim.StepLimitError once the step limit is used up. Blocked moves are not
// errors.
// - Ownership: the Bridge owns the run's state; engines must not retain it
// after the run returns.
type Bridge interface {
	// Move requests one state transition.
	Move(direction string, steps int) error

	// Log appends text to the current frame's log.
	Log(text string)

	// Stdout returns a writer whose non-blank writes are forwarded to Log.
	Stdout() io.Writer
}

// Run is the Bridge implementation backed by a simulation machine and a
// trace recorder.
type Run struct {
	machine  *sim.Machine
	recorder *trace.Recorder
	stdout   stdoutWriter
}

// New binds a fresh Bridge to machine and recorder.
func New(machine *sim.Machine, recorder *trace.Recorder) *Run {
	r := &Run{
		machine:  machine,
		recorder: recorder,
	}
	r.stdout = stdoutWriter{run: r}
	return r
}

// Move validates the arguments, applies the move and records its frame.
func (r *Run) Move(direction string, steps int) error {
	d, err := level.ParseDirection(direction)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidArgument, steps)
	}

	tr, err := r.machine.Move(d, steps)
	if err != nil {
		return err
	}
	r.recorder.Record(r.machine.State(), tr)
	return nil
}

// Log appends text to the most recent frame.
func (r *Run) Log(text string) {
	r.recorder.AppendLog(text)
}

// Stdout returns the captured output writer.
func (r *Run) Stdout() io.Writer {
	return &r.stdout
}

type stdoutWriter struct {
	run *Run
}

// Write forwards p to Log unless it is whitespace only. One trailing line
// break is dropped so that line-oriented printers do not double newlines.
func (w *stdoutWriter) Write(p []byte) (int, error) {
	text := string(p)
	if strings.TrimSpace(text) == "" {
		return len(p), nil
	}
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	w.run.Log(text)
	return len(p), nil
}
