// Package code runs learner scripts against the grid-world simulation and
// returns the recorded trace.
//
// code sits between the host and a scripting engine. For every run it
// creates a fresh simulation machine, trace recorder and bridge, hands the
// bridge to the engine, and turns whatever the script did into a
// [trace.Trace] that can be replayed without executing the script again.
//
// # Architecture
//
// The package defines three main interfaces:
//
//   - [bridge.Bridge]: The callback surface exposed to the script, providing
//     Move, Log and a captured Stdout.
//
//   - [Engine]: The pluggable interpreter that executes a script with the
//     bridge bound into its namespace.
//
//   - [Executor]: The main entry point that applies defaults, enforces
//     limits, folds script failures into the trace and collects results.
//
// # Execution Limits
//
// The executor enforces two types of limits:
//
//   - StepLimit: Checked inside every move. Exceeding it raises a script
//     exception the learner's code may catch; if uncaught, the run ends.
//   - Timeout: A coarse deadline around the whole run, for scripts that loop
//     without ever calling move. Returns [ErrLimitExceeded].
//
// # Failures
//
// Script failures (syntax errors, uncaught exceptions, step limit, timeout)
// are reported as [*CodeError]. The executor appends a terminal frame with the
// error message and returns the complete trace together with the error.
// Any other error means the run could not take place and no trace is
// returned.
package code
