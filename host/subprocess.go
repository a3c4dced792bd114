package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/jonwraymond/gridrun/code"
)

// Subprocess is an execution context running in a child process that
// speaks the stream protocol on its stdio.
type Subprocess struct {
	*Client

	cmd *exec.Cmd
}

// StartSubprocess launches name with args and connects a Client to it.
// The child's stderr is forwarded to the parent's stderr.
func StartSubprocess(ctx context.Context, logger code.Logger, name string, args ...string) (*Subprocess, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("host: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("host: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("host: start %s: %w", name, err)
	}

	conn := NewStreamConnection(stdout, stdin, stdin)
	return &Subprocess{
		Client: NewClient(conn, logger),
		cmd:    cmd,
	}, nil
}

// Close closes the child's stdin and waits for it to exit.
func (s *Subprocess) Close() error {
	closeErr := s.Client.Close()
	return errors.Join(closeErr, s.cmd.Wait())
}
