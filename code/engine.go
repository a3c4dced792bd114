package code

import (
	"context"

	"github.com/jonwraymond/gridrun/bridge"
)

// Engine is the pluggable interpreter that runs learner scripts with access
// to a bridge. Implementations are responsible for parsing and executing
// the code in the requested language.
//
// The Engine should:
//   - Bind the bridge's primitives and sugar into the script's namespace
//   - Route the script's standard output to bridge.Stdout
//   - Return nil when the script runs to completion
//   - Wrap script failures in CodeError with line/column info when available
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use; they may serialize runs.
// - Context: must honor cancellation/deadlines and stop the script when canceled.
// - Errors: script failures return *CodeError; any other error means the run did not happen.
// - Ownership: params are read-only; the bridge must not be retained after Execute returns.
type Engine interface {
	// Execute runs params.Code with b bound as its environment.
	Execute(ctx context.Context, params ExecuteParams, b bridge.Bridge) error
}
