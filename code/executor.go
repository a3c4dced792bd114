package code

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/gridrun/bridge"
	"github.com/jonwraymond/gridrun/level"
	"github.com/jonwraymond/gridrun/sim"
	"github.com/jonwraymond/gridrun/trace"
)

// Executor is the main entry point for running learner scripts.
// It orchestrates configuration, limits, and trace collection.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines; deadline exceeded is wrapped with ErrLimitExceeded.
// - Errors: configuration failures return ErrConfiguration; script failures
// return *CodeError together with a complete Result; other errors return an
// empty Result.
// - Ownership: params are read-only; returned Result is caller-owned.
type Executor interface {
	// RunCode runs a script against a level and returns its trace.
	RunCode(ctx context.Context, params ExecuteParams) (Result, error)
}

// DefaultExecutor is the standard implementation of Executor.
type DefaultExecutor struct {
	cfg Config
}

// NewDefaultExecutor creates a new DefaultExecutor with the given configuration.
// Returns ErrConfiguration if any required field is missing.
func NewDefaultExecutor(cfg Config) (*DefaultExecutor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &DefaultExecutor{cfg: cfg}, nil
}

// RunCode runs params.Code with a fresh simulation and returns the trace.
func (e *DefaultExecutor) RunCode(ctx context.Context, params ExecuteParams) (Result, error) {
	if params.Language == "" {
		params.Language = e.cfg.DefaultLanguage
	}
	params.Language = strings.ToLower(params.Language)
	if params.Timeout == 0 {
		params.Timeout = e.cfg.DefaultTimeout
	}
	if err := params.Level.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if params.StepLimit < 0 {
		return Result{}, fmt.Errorf("%w: step limit must not be negative", ErrConfiguration)
	}
	params.StepLimit = e.stepLimit(params)

	// Fresh state per run
	machine := sim.New(params.Level, LevelObjects(params), params.StepLimit)
	rec := trace.NewRecorder(machine.State())
	b := bridge.New(machine, rec)

	runID := uuid.NewString()

	var cancel context.CancelFunc
	if params.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := e.cfg.Engine.Execute(ctx, params, b)
	duration := time.Since(start).Milliseconds()

	result := Result{
		RunID:      runID,
		Steps:      machine.State().StepCount,
		DurationMs: duration,
	}

	if err != nil {
		codeErr, ok := scriptError(err, params.Timeout)
		if !ok {
			e.cfg.Logger.Error("run failed", "run", runID, "err", err)
			return Result{RunID: runID, DurationMs: duration}, err
		}
		rec.Fail(machine.State(), codeErr.Message)
		result.Trace = rec.Trace()
		result.Error = codeErr.Error()
		e.cfg.Logger.Warn("script failed",
			"run", runID, "level", params.Level.ID, "steps", result.Steps,
			"frames", result.Trace.Len(), "duration_ms", duration, "err", codeErr.Error())
		return result, codeErr
	}

	result.Trace = rec.Trace()
	e.cfg.Logger.Info("script finished",
		"run", runID, "level", params.Level.ID, "steps", result.Steps,
		"frames", result.Trace.Len(), "duration_ms", duration)
	return result, nil
}

// stepLimit resolves the limit from params, then the level, then the
// default, capped by the configuration.
func (e *DefaultExecutor) stepLimit(params ExecuteParams) int {
	limit := params.StepLimit
	if limit == 0 {
		limit = params.Level.EffectiveStepLimit()
	}
	if e.cfg.MaxStepLimit > 0 && limit > e.cfg.MaxStepLimit {
		limit = e.cfg.MaxStepLimit
	}
	return limit
}

var _ Executor = (*DefaultExecutor)(nil)

// LevelObjects returns the initial objects a run of params would start with.
func LevelObjects(params ExecuteParams) []level.GameObject {
	if params.InitialObjects != nil {
		return level.CloneObjects(params.InitialObjects)
	}
	return params.Level.Objects()
}
