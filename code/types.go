package code

import (
	"time"

	"github.com/jonwraymond/gridrun/level"
	"github.com/jonwraymond/gridrun/trace"
)

// ExecuteParams specifies the parameters for running a learner script.
type ExecuteParams struct {
	// Language specifies the scripting language of the program.
	// If empty, the executor's default language is used.
	Language string `json:"language,omitempty"`

	// Code is the learner's script.
	Code string `json:"code"`

	// Level is the level the script is played against.
	Level level.Config `json:"level"`

	// InitialObjects overrides the object set derived from Level.
	// If nil, Level.Objects() is used.
	InitialObjects []level.GameObject `json:"initialObjects,omitempty"`

	// StepLimit overrides the level's step limit.
	// If zero, the level's limit applies (capped by the executor's configuration).
	StepLimit int `json:"stepLimit,omitempty"`

	// Timeout specifies the maximum duration for the whole run.
	// If zero, the executor's default timeout is used.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// Result contains the outcome of one run.
type Result struct {
	// RunID uniquely identifies the run in logs.
	RunID string `json:"runId"`

	// Trace is the complete frame sequence of the run.
	Trace trace.Trace `json:"trace"`

	// Steps is the number of accepted moves.
	Steps int `json:"steps"`

	// Error is the terminal error message when the script failed.
	Error string `json:"error,omitempty"`

	// DurationMs is the total execution time in milliseconds.
	DurationMs int64 `json:"durationMs"`
}

// Failed reports whether the run ended with a terminal error frame.
func (r Result) Failed() bool {
	return r.Error != ""
}
