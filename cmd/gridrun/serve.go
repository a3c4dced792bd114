package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/gridrun/host"
	"github.com/jonwraymond/gridrun/jsengine"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the host protocol over WebSocket",
	Long: `Start an HTTP server that upgrades connections on the configured path
to WebSocket. Every socket gets its own worker and interpreter.

Examples:
  gridrun serve
  gridrun serve --listen 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default from settings)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := flagListen
	if addr == "" {
		addr = settings.Server.Listen
	}

	handler := host.NewHandler(func() host.Runtime {
		return jsengine.New(jsengine.WithLogger(logger))
	}, host.WorkerConfig{
		Timeout:      settings.Run.Timeout,
		MaxStepLimit: settings.Run.StepLimit,
		Logger:       logger,
	})

	mux := http.NewServeMux()
	mux.Handle(settings.Server.Path, handler)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "path", settings.Server.Path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
