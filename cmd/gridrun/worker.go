package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/gridrun/host"
	"github.com/jonwraymond/gridrun/jsengine"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Serve the host protocol on stdin/stdout",
	Long: `Run as an isolated script worker.

The worker reads newline-delimited JSON messages (RUN_CODE) from stdin and
writes READY, SUCCESS and ERROR messages to stdout. Logs go to stderr.
It exits when stdin is closed.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

func runWorker(cmd *cobra.Command, _ []string) error {
	conn := host.NewStreamConnection(os.Stdin, os.Stdout, os.Stdin)
	w, err := host.NewWorker(conn, host.WorkerConfig{
		Runtime:      jsengine.New(jsengine.WithLogger(logger)),
		Timeout:      settings.Run.Timeout,
		MaxStepLimit: settings.Run.StepLimit,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	err = w.Serve(cmd.Context())
	if errors.Is(err, host.ErrConnectionClosed) {
		return nil
	}
	return err
}
