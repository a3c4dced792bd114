package host

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/gridrun/bridge"
	"github.com/jonwraymond/gridrun/code"
	"github.com/jonwraymond/gridrun/level"
)

// fakeRuntime implements Runtime for testing.
type fakeRuntime struct {
	mu sync.Mutex

	// Configurable behavior
	gate     chan struct{}
	warmErrs []error
	script   func(b bridge.Bridge) error
	execErr  error

	// Call tracking
	warmCalls int
	runs      int
}

func (f *fakeRuntime) Warm(ctx context.Context) error {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warmCalls++
	if len(f.warmErrs) > 0 {
		err := f.warmErrs[0]
		f.warmErrs = f.warmErrs[1:]
		return err
	}
	return nil
}

func (f *fakeRuntime) Execute(_ context.Context, _ code.ExecuteParams, b bridge.Bridge) error {
	f.mu.Lock()
	f.runs++
	script, err := f.script, f.execErr
	f.mu.Unlock()
	if script != nil {
		if serr := script(b); serr != nil {
			return serr
		}
	}
	return err
}

func testLevel() level.Config {
	return level.Config{
		ID:             "host",
		GridSize:       level.GridSize{Rows: 5, Cols: 5},
		StartDirection: level.Down,
		Collectibles:   []level.Position{{X: 0, Y: 2}},
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// startWorker serves a Worker on one end of a Pipe and returns the other.
func startWorker(t *testing.T, rt Runtime) Connection {
	t.Helper()
	hostSide, workerSide := Pipe()
	w, err := NewWorker(workerSide, WorkerConfig{Runtime: rt, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewWorker: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = hostSide.Close()
		<-done
	})
	return hostSide
}

func receive(t *testing.T, conn Connection) Message {
	t.Helper()
	msg, err := conn.Receive(testContext(t))
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	return msg
}

func runCode(id, src string) Message {
	return Message{
		Type:    MsgRunCode,
		ID:      id,
		Code:    src,
		Context: &RunContext{Level: testLevel()},
	}
}
