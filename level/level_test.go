package level

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPositionStep(t *testing.T) {
	start := Position{X: 2, Y: 2}
	tests := []struct {
		dir   Direction
		steps int
		want  Position
	}{
		{Up, 1, Position{X: 2, Y: 1}},
		{Down, 2, Position{X: 2, Y: 4}},
		{Left, 1, Position{X: 1, Y: 2}},
		{Right, 3, Position{X: 5, Y: 2}},
		{Down, 0, Position{X: 2, Y: 2}},
	}
	for _, tt := range tests {
		if got := start.Step(tt.dir, tt.steps); got != tt.want {
			t.Errorf("Step(%s, %d) = %v, want %v", tt.dir, tt.steps, got, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" Down ")
	if err != nil {
		t.Fatalf("ParseDirection() error = %v", err)
	}
	if d != Down {
		t.Errorf("ParseDirection() = %q, want %q", d, Down)
	}

	_, err = ParseDirection("north")
	if !errors.Is(err, ErrUnknownDirection) {
		t.Errorf("ParseDirection(north) error = %v, want ErrUnknownDirection", err)
	}
}

func TestGridSizeContains(t *testing.T) {
	g := GridSize{Rows: 3, Cols: 2}
	inside := []Position{{0, 0}, {1, 2}}
	outside := []Position{{-1, 0}, {2, 0}, {0, 3}, {0, -1}}
	for _, p := range inside {
		if !g.Contains(p) {
			t.Errorf("Contains(%v) = false, want true", p)
		}
	}
	for _, p := range outside {
		if g.Contains(p) {
			t.Errorf("Contains(%v) = true, want false", p)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		GridSize:       GridSize{Rows: 5, Cols: 5},
		StartDirection: Down,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty grid", Config{StartDirection: Down}},
		{"start outside", Config{GridSize: GridSize{Rows: 2, Cols: 2}, StartPosition: Position{X: 2}, StartDirection: Up}},
		{"missing direction", Config{GridSize: GridSize{Rows: 2, Cols: 2}}},
		{"bad direction", Config{GridSize: GridSize{Rows: 2, Cols: 2}, StartDirection: "north"}},
		{"negative limit", Config{GridSize: GridSize{Rows: 2, Cols: 2}, StartDirection: Up, StepLimit: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigEffectiveStepLimit(t *testing.T) {
	var c Config
	if got := c.EffectiveStepLimit(); got != DefaultStepLimit {
		t.Errorf("EffectiveStepLimit() = %d, want %d", got, DefaultStepLimit)
	}
	c.StepLimit = 7
	if got := c.EffectiveStepLimit(); got != 7 {
		t.Errorf("EffectiveStepLimit() = %d, want 7", got)
	}
}

func TestConfigObjects(t *testing.T) {
	c := Config{
		Obstacles:    []Position{{0, 1}},
		Collectibles: []Position{{0, 2}, {3, 3}},
	}
	objs := c.Objects()
	if len(objs) != 3 {
		t.Fatalf("Objects() returned %d objects, want 3", len(objs))
	}
	if objs[0].ID != "wall-0" || objs[0].Kind != KindWall || objs[0].State != "" {
		t.Errorf("Objects()[0] = %+v, want stateless wall-0", objs[0])
	}
	if objs[2].ID != "collectible-1" || objs[2].State != StateOpen || objs[2].Position != (Position{3, 3}) {
		t.Errorf("Objects()[2] = %+v, want open collectible-1 at (3, 3)", objs[2])
	}
}

func TestCloneObjects(t *testing.T) {
	orig := []GameObject{{ID: "c", Kind: KindCollectible, State: StateOpen}}
	clone := CloneObjects(orig)
	clone[0].State = StateCollected
	if orig[0].State != StateOpen {
		t.Errorf("original mutated through clone: %q", orig[0].State)
	}
	if CloneObjects(nil) != nil {
		t.Error("CloneObjects(nil) should stay nil")
	}
}

func TestParse(t *testing.T) {
	yamlDoc := []byte(`
gridSize: {rows: 5, cols: 5}
startPosition: {x: 0, y: 0}
startDirection: down
collectibles:
  - {x: 0, y: 2}
obstacles:
  - {x: 0, y: 1}
initialCode: move_down(1)
`)
	cfg, err := Parse(yamlDoc)
	if err != nil {
		t.Fatalf("Parse(yaml) error = %v", err)
	}
	if cfg.GridSize.Rows != 5 || len(cfg.Collectibles) != 1 || cfg.Obstacles[0] != (Position{0, 1}) {
		t.Errorf("Parse(yaml) = %+v", cfg)
	}
	if cfg.InitialCode != "move_down(1)" {
		t.Errorf("InitialCode = %q", cfg.InitialCode)
	}

	jsonDoc := []byte("{\n\t\"gridSize\": {\"rows\": 3, \"cols\": 4},\n\t\"startDirection\": \"right\",\n\t\"stepLimit\": 10\n}")
	cfg, err = Parse(jsonDoc)
	if err != nil {
		t.Fatalf("Parse(json) error = %v", err)
	}
	if cfg.GridSize.Cols != 4 || cfg.StartDirection != Right || cfg.StepLimit != 10 {
		t.Errorf("Parse(json) = %+v", cfg)
	}

	if _, err := Parse([]byte("gridSize: {rows: 0, cols: 0}")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Parse(invalid) error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.yaml")
	if err := os.WriteFile(path, []byte("gridSize: {rows: 2, cols: 2}\nstartDirection: up\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StartDirection != Up {
		t.Errorf("StartDirection = %q, want up", cfg.StartDirection)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) expected error")
	}
}
