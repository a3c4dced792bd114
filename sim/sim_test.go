package sim

import (
	"errors"
	"testing"

	"github.com/jonwraymond/gridrun/level"
)

func testLevel() level.Config {
	return level.Config{
		GridSize:       level.GridSize{Rows: 5, Cols: 5},
		StartPosition:  level.Position{X: 0, Y: 0},
		StartDirection: level.Down,
	}
}

func TestMove_Unblocked(t *testing.T) {
	m := New(testLevel(), nil, 0)

	tr, err := m.Move(level.Right, 2)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if tr.Blocked {
		t.Error("Move() blocked, want free move")
	}
	st := m.State()
	if st.Position != (level.Position{X: 2, Y: 0}) {
		t.Errorf("Position = %v, want (2, 0)", st.Position)
	}
	if st.Direction != level.Right {
		t.Errorf("Direction = %q, want right", st.Direction)
	}
	if st.StepCount != 1 {
		t.Errorf("StepCount = %d, want 1", st.StepCount)
	}
}

func TestMove_BlockedByWallUpdatesFacing(t *testing.T) {
	cfg := testLevel()
	cfg.StartDirection = level.Up
	cfg.Obstacles = []level.Position{{X: 0, Y: 1}}
	m := New(cfg, cfg.Objects(), 0)

	tr, err := m.Move(level.Down, 1)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !tr.Blocked {
		t.Error("Move() into wall not blocked")
	}
	st := m.State()
	if st.Position != (level.Position{}) {
		t.Errorf("Position = %v, want unchanged (0, 0)", st.Position)
	}
	if st.Direction != level.Down {
		t.Errorf("Direction = %q, want down even though blocked", st.Direction)
	}
	if st.StepCount != 1 {
		t.Errorf("StepCount = %d, want 1 for blocked move", st.StepCount)
	}
}

func TestMove_BlockedByEdge(t *testing.T) {
	m := New(testLevel(), nil, 0)
	for _, d := range []level.Direction{level.Up, level.Left} {
		tr, err := m.Move(d, 1)
		if err != nil {
			t.Fatalf("Move(%s) error = %v", d, err)
		}
		if !tr.Blocked {
			t.Errorf("Move(%s) off grid not blocked", d)
		}
	}
	tr, _ := m.Move(level.Down, 5)
	if !tr.Blocked {
		t.Error("Move(down, 5) past last row not blocked")
	}
}

func TestMove_ZeroSteps(t *testing.T) {
	m := New(testLevel(), nil, 0)
	tr, err := m.Move(level.Left, 0)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if tr.Blocked {
		t.Error("zero-step move should not be blocked")
	}
	st := m.State()
	if st.StepCount != 1 || st.Position != (level.Position{}) || st.Direction != level.Left {
		t.Errorf("state after zero-step move = %+v", *st)
	}
}

func TestMove_CollectsAllStackedCollectibles(t *testing.T) {
	cfg := testLevel()
	cfg.Collectibles = []level.Position{{X: 0, Y: 2}, {X: 0, Y: 2}, {X: 4, Y: 4}}
	m := New(cfg, cfg.Objects(), 0)

	tr, err := m.Move(level.Down, 2)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if len(tr.Collected) != 2 {
		t.Fatalf("Collected = %v, want both stacked collectibles", tr.Collected)
	}
	objs := m.State().Objects
	if objs[0].State != level.StateCollected || objs[1].State != level.StateCollected {
		t.Errorf("stacked collectibles not collected: %+v", objs)
	}
	if objs[2].State != level.StateOpen {
		t.Errorf("distant collectible changed: %+v", objs[2])
	}
}

func TestMove_CollectibleIdempotent(t *testing.T) {
	cfg := testLevel()
	cfg.Collectibles = []level.Position{{X: 1, Y: 0}}
	m := New(cfg, cfg.Objects(), 0)

	if tr, _ := m.Move(level.Right, 1); len(tr.Collected) != 1 {
		t.Fatalf("first visit Collected = %v, want 1", tr.Collected)
	}
	m.Move(level.Left, 1)
	tr, _ := m.Move(level.Right, 1)
	if len(tr.Collected) != 0 {
		t.Errorf("second visit Collected = %v, want none", tr.Collected)
	}
	if got := m.State().Objects[0].State; got != level.StateCollected {
		t.Errorf("State = %q, want collected", got)
	}
}

func TestMove_WallCheckedBeforeCollect(t *testing.T) {
	cfg := testLevel()
	cfg.Obstacles = []level.Position{{X: 0, Y: 1}}
	cfg.Collectibles = []level.Position{{X: 0, Y: 2}}
	m := New(cfg, cfg.Objects(), 0)

	for i := 0; i < 2; i++ {
		tr, err := m.Move(level.Down, 1)
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if !tr.Blocked {
			t.Errorf("move %d not blocked by wall", i+1)
		}
	}
	for _, obj := range m.State().Objects {
		if obj.Kind == level.KindCollectible && obj.State != level.StateOpen {
			t.Errorf("collectible behind wall changed to %q", obj.State)
		}
	}
}

func TestMove_StepLimitBoundary(t *testing.T) {
	cfg := testLevel()
	cfg.StepLimit = 3
	m := New(cfg, nil, 0)

	for i := 0; i < 3; i++ {
		if _, err := m.Move(level.Right, 0); err != nil {
			t.Fatalf("move %d error = %v", i+1, err)
		}
	}
	_, err := m.Move(level.Right, 0)
	if !errors.Is(err, ErrStepLimitExceeded) {
		t.Fatalf("move 4 error = %v, want ErrStepLimitExceeded", err)
	}
	var limitErr *StepLimitError
	if !errors.As(err, &limitErr) || limitErr.Limit != 3 {
		t.Errorf("error = %#v, want *StepLimitError{Limit: 3}", err)
	}
	if m.State().StepCount != 3 {
		t.Errorf("StepCount = %d, want 3 after rejected move", m.State().StepCount)
	}
}

func TestNew_LimitOverride(t *testing.T) {
	m := New(testLevel(), nil, 0)
	if m.Limit() != level.DefaultStepLimit {
		t.Errorf("Limit() = %d, want default %d", m.Limit(), level.DefaultStepLimit)
	}
	m = New(testLevel(), nil, 12)
	if m.Limit() != 12 {
		t.Errorf("Limit() = %d, want 12", m.Limit())
	}
}

func TestNew_CopiesObjects(t *testing.T) {
	cfg := testLevel()
	cfg.Collectibles = []level.Position{{X: 1, Y: 0}}
	objs := cfg.Objects()
	m := New(cfg, objs, 0)
	m.Move(level.Right, 1)
	if objs[0].State != level.StateOpen {
		t.Errorf("caller's objects mutated: %+v", objs[0])
	}
}
