package trace

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jonwraymond/gridrun/level"
	"github.com/jonwraymond/gridrun/sim"
)

func newMachine(t *testing.T) *sim.Machine {
	t.Helper()
	cfg := level.Config{
		GridSize:       level.GridSize{Rows: 5, Cols: 5},
		StartDirection: level.Down,
		Obstacles:      []level.Position{{X: 1, Y: 1}},
		Collectibles:   []level.Position{{X: 1, Y: 0}},
	}
	return sim.New(cfg, cfg.Objects(), 0)
}

func TestNewRecorder_SeedsFrameZero(t *testing.T) {
	m := newMachine(t)
	r := NewRecorder(m.State())

	tr := r.Trace()
	if tr.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tr.Len())
	}
	f := tr[0]
	if f.Step != 0 || f.Log != nil || f.Error != nil || f.LineNumber != nil {
		t.Errorf("frame 0 = %+v, want step 0 with null log/error/lineNumber", f)
	}
	if f.PlayerDirection != level.Down || len(f.Objects) != 2 {
		t.Errorf("frame 0 state = %+v", f)
	}
}

func TestRecorder_RecordBlocked(t *testing.T) {
	m := newMachine(t)
	r := NewRecorder(m.State())

	m.Move(level.Right, 1)
	r.Record(m.State(), sim.Transition{})
	tr, _ := m.Move(level.Down, 1)
	f := r.Record(m.State(), tr)

	if f.Step != 2 {
		t.Errorf("Step = %d, want 2", f.Step)
	}
	if f.LogText() != sim.HitWallMessage || f.ErrorText() != sim.HitWallMessage {
		t.Errorf("blocked frame log=%q error=%q", f.LogText(), f.ErrorText())
	}
}

func TestRecorder_AppendLog(t *testing.T) {
	m := newMachine(t)
	r := NewRecorder(m.State())

	r.AppendLog("hi")
	tr := r.Trace()
	if tr[0].LogText() != "hi" {
		t.Errorf("frame 0 log = %q, want %q", tr[0].LogText(), "hi")
	}

	m.Move(level.Right, 1)
	r.Record(m.State(), sim.Transition{})
	r.AppendLog("a")
	r.AppendLog("b")
	tr = r.Trace()
	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}
	if tr[1].LogText() != "a\nb" {
		t.Errorf("frame 1 log = %q, want %q", tr[1].LogText(), "a\nb")
	}
}

func TestRecorder_FramesAreImmutable(t *testing.T) {
	m := newMachine(t)
	r := NewRecorder(m.State())

	m.Move(level.Right, 1)
	r.Record(m.State(), sim.Transition{Collected: []string{"collectible-0"}})

	before := r.Trace()
	if before[0].Objects[1].State != level.StateOpen {
		t.Fatalf("frame 0 collectible = %q, want open", before[0].Objects[1].State)
	}
	if before[1].Objects[1].State != level.StateCollected {
		t.Fatalf("frame 1 collectible = %q, want collected", before[1].Objects[1].State)
	}

	// Mutating live state must not leak into recorded frames.
	m.State().Objects[1].State = level.StateLocked
	m.State().Position = level.Position{X: 4, Y: 4}
	after := r.Trace()
	if after[1].Objects[1].State != level.StateCollected || after[1].PlayerPosition != (level.Position{X: 1, Y: 0}) {
		t.Errorf("frame 1 changed after state mutation: %+v", after[1])
	}

	// Mutating a returned trace must not leak back either.
	after[0].Objects[0].State = level.StateLocked
	if r.Trace()[0].Objects[0].State != "" {
		t.Error("recorder frame mutated through returned trace")
	}
}

func TestRecorder_Fail(t *testing.T) {
	m := newMachine(t)
	r := NewRecorder(m.State())
	m.Move(level.Right, 1)
	r.Record(m.State(), sim.Transition{})

	f := r.Fail(m.State(), "ReferenceError: x is not defined")
	if f.Step != 2 {
		t.Errorf("terminal Step = %d, want stepCount+1 = 2", f.Step)
	}
	if f.Log != nil || f.ErrorText() != "ReferenceError: x is not defined" {
		t.Errorf("terminal frame log=%v error=%q", f.Log, f.ErrorText())
	}
	if !r.Trace().Failed() {
		t.Error("Failed() = false after Fail")
	}
}

func TestTrace_FailedIgnoresBlockedMoves(t *testing.T) {
	m := newMachine(t)
	r := NewRecorder(m.State())
	tr, _ := m.Move(level.Up, 1)
	r.Record(m.State(), tr)
	if r.Trace().Failed() {
		t.Error("Failed() = true for a trace ending in a blocked move")
	}
}

func TestTrace_At(t *testing.T) {
	tr := Trace{{Step: 0}, {Step: 1}}
	if f, ok := tr.At(1); !ok || f.Step != 1 {
		t.Errorf("At(1) = %+v, %v", f, ok)
	}
	if _, ok := tr.At(2); ok {
		t.Error("At(2) ok = true, want false")
	}
	if _, ok := Trace(nil).Last(); ok {
		t.Error("Last() on empty trace ok = true")
	}
}

func TestFrame_JSONShape(t *testing.T) {
	m := newMachine(t)
	r := NewRecorder(m.State())
	data, err := json.Marshal(r.Trace()[0])
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	for _, want := range []string{`"step":0`, `"playerPosition":{"x":0,"y":0}`, `"playerDirection":"down"`,
		`"log":null`, `"lineNumber":null`, `"error":null`, `"kind":"wall"`} {
		if !strings.Contains(s, want) {
			t.Errorf("frame JSON %s missing %s", s, want)
		}
	}
}
