package code

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonwraymond/gridrun/bridge"
	"github.com/jonwraymond/gridrun/level"
	"github.com/jonwraymond/gridrun/trace"
)

// mockEngine implements Engine for testing. When script is set it drives
// the bridge the way an interpreter would.
type mockEngine struct {
	mu sync.Mutex

	// Configurable behavior
	script     func(ctx context.Context, b bridge.Bridge) error
	executeErr error

	// Call tracking
	executeCalls []ExecuteParams
}

func (m *mockEngine) Execute(ctx context.Context, params ExecuteParams, b bridge.Bridge) error {
	m.mu.Lock()
	m.executeCalls = append(m.executeCalls, params)
	script := m.script
	err := m.executeErr
	m.mu.Unlock()

	if script != nil {
		if serr := script(ctx, b); serr != nil {
			return serr
		}
	}
	return err
}

func (m *mockEngine) lastCall() ExecuteParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.executeCalls[len(m.executeCalls)-1]
}

// mockLogger records log lines for testing.
type mockLogger struct {
	mu      sync.Mutex
	entries []string
}

func (m *mockLogger) record(lvl string, msg any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, fmt.Sprintf("%s %v", lvl, msg))
}

func (m *mockLogger) Info(msg any, _ ...any)  { m.record("INFO", msg) }
func (m *mockLogger) Warn(msg any, _ ...any)  { m.record("WARN", msg) }
func (m *mockLogger) Error(msg any, _ ...any) { m.record("ERROR", msg) }

func (m *mockLogger) lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.entries...)
}

// testLevel is a 5x5 grid with the player at the origin facing down.
func testLevel() level.Config {
	return level.Config{
		ID:             "test",
		GridSize:       level.GridSize{Rows: 5, Cols: 5},
		StartPosition:  level.Position{X: 0, Y: 0},
		StartDirection: level.Down,
		Collectibles:   []level.Position{{X: 0, Y: 2}},
	}
}

func newTestExecutor(engine Engine) *DefaultExecutor {
	exec, err := NewDefaultExecutor(Config{Engine: engine})
	if err != nil {
		panic(err)
	}
	return exec
}

func lastFrame(tr trace.Trace) trace.Frame {
	f, _ := tr.Last()
	return f
}
