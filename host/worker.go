package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonwraymond/gridrun/code"
)

// Runtime is an engine whose interpreter can be booted ahead of the first
// run.
type Runtime interface {
	code.Engine
	Warm(ctx context.Context) error
}

// WorkerConfig configures a Worker.
type WorkerConfig struct {
	// Runtime executes the scripts.
	// Required.
	Runtime Runtime

	// Timeout bounds each run. Zero means no timeout.
	Timeout time.Duration

	// MaxStepLimit caps the step limit of each run. Zero means no cap.
	MaxStepLimit int

	// Logger is an optional logger.
	Logger code.Logger
}

// Validate checks that all required fields are set.
func (c *WorkerConfig) Validate() error {
	if c.Runtime == nil {
		return fmt.Errorf("%w: missing required fields: Runtime", code.ErrConfiguration)
	}
	return nil
}

type bootState int

const (
	booting bootState = iota
	bootReady
	bootFailed
)

// Worker is the execution-context side of the boundary.
type Worker struct {
	conn    Connection
	runtime Runtime
	exec    *code.DefaultExecutor
	logger  code.Logger

	mu      sync.Mutex
	state   bootState
	bootErr error
}

// NewWorker creates a Worker that serves conn.
func NewWorker(conn Connection, cfg WorkerConfig) (*Worker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	exec, err := code.NewDefaultExecutor(code.Config{
		Engine:         cfg.Runtime,
		DefaultTimeout: cfg.Timeout,
		MaxStepLimit:   cfg.MaxStepLimit,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}
	return &Worker{
		conn:    conn,
		runtime: cfg.Runtime,
		exec:    exec,
		logger:  logger,
	}, nil
}

// Serve boots the runtime in the background and answers messages until the
// connection closes or ctx ends. RUN_CODE messages are processed one at a
// time in arrival order.
func (w *Worker) Serve(ctx context.Context) error {
	go w.boot(ctx)

	for {
		msg, err := w.conn.Receive(ctx)
		if err != nil {
			if isFinal(err) {
				return err
			}
			w.logger.Warn("malformed message", "err", err)
			w.reply(ctx, Message{Type: MsgError, Error: err.Error()})
			continue
		}
		w.handle(ctx, msg)
	}
}

func (w *Worker) boot(ctx context.Context) {
	err := w.runtime.Warm(ctx)

	// The boot reply is sent while holding mu so that no run can be
	// answered before it.
	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.logger.Error("runtime boot failed", "err", err)
		w.reply(ctx, Message{Type: MsgError, Error: err.Error()})
		w.state, w.bootErr = bootFailed, err
		return
	}
	w.reply(ctx, Message{Type: MsgReady})
	w.state = bootReady
	w.logger.Info("runtime ready")
}

// ready reports whether runs may start. A failed boot is retried inline
// since the engine does not cache failures.
func (w *Worker) ready(ctx context.Context) error {
	w.mu.Lock()
	state, bootErr := w.state, w.bootErr
	w.mu.Unlock()

	switch state {
	case bootReady:
		return nil
	case booting:
		return ErrNotReady
	}
	if err := w.runtime.Warm(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, errors.Join(bootErr, err))
	}
	w.mu.Lock()
	w.state, w.bootErr = bootReady, nil
	w.mu.Unlock()
	w.reply(ctx, Message{Type: MsgReady})
	return nil
}

func (w *Worker) handle(ctx context.Context, msg Message) {
	switch msg.Type {
	case MsgRunCode:
		w.reply(ctx, w.runCode(ctx, msg))
	default:
		w.logger.Warn("unexpected message", "type", msg.Type, "id", msg.ID)
		w.reply(ctx, Message{
			Type:  MsgError,
			ID:    msg.ID,
			Error: fmt.Sprintf("unexpected message type %q", msg.Type),
		})
	}
}

func (w *Worker) runCode(ctx context.Context, msg Message) Message {
	if err := w.ready(ctx); err != nil {
		return Message{Type: MsgError, ID: msg.ID, Error: err.Error()}
	}
	if msg.Context == nil {
		return Message{Type: MsgError, ID: msg.ID, Error: "RUN_CODE without context"}
	}

	result, err := w.exec.RunCode(ctx, code.ExecuteParams{
		Code:           msg.Code,
		Level:          msg.Context.Level,
		InitialObjects: msg.Context.InitialObjects,
	})
	if err != nil && !code.IsScriptFailure(err) {
		return Message{Type: MsgError, ID: msg.ID, Error: err.Error()}
	}
	return Message{Type: MsgSuccess, ID: msg.ID, Trace: result.Trace}
}

func (w *Worker) reply(ctx context.Context, msg Message) {
	if err := w.conn.Send(ctx, msg); err != nil {
		w.logger.Warn("reply failed", "type", msg.Type, "id", msg.ID, "err", err)
	}
}

type nopLogger struct{}

func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Warn(any, ...any)  {}
func (nopLogger) Error(any, ...any) {}
