// gridrun runs learner scripts against grid-world levels and replays the
// recorded traces.
//
// Usage:
//
//	gridrun run <level.yaml>       - Run a script and print the trace
//	gridrun play <level.yaml>      - Run a script and replay it in the terminal
//	gridrun worker                 - Serve the host protocol on stdin/stdout
//	gridrun serve                  - Serve the host protocol over WebSocket
//	gridrun mcp                    - Serve the MCP tools on stdin/stdout
//	gridrun bridge list            - List the functions scripts can call
//
// Global flags:
//
//	--config <path>      - Settings file (default: ~/.gridrun/config.yaml)
//	--log-level <level>  - debug, info, warn or error
//	--timeout <d>        - Run timeout (e.g. 5s)
//	--step-limit <n>     - Cap on accepted moves per run
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/gridrun/code"
	"github.com/jonwraymond/gridrun/config"
	"github.com/jonwraymond/gridrun/jsengine"
)

var (
	// Global flags
	flagConfig    string
	flagLogLevel  string
	flagTimeout   time.Duration
	flagStepLimit int

	settings config.Settings
	logger   *log.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gridrun",
	Short: "Run grid-world scripts and replay their traces",
	Long: `gridrun executes a learner's JavaScript program against a grid level,
records every move as a frame, and replays the frames without running the
program again.

Examples:
  gridrun run levels/first-steps.yaml --code solution.js
  gridrun play levels/first-steps.yaml -e 'move_down(2); speak("done")'
  gridrun serve --listen :8765
  gridrun bridge describe move`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to settings YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Run timeout (0 = use settings)")
	rootCmd.PersistentFlags().IntVar(&flagStepLimit, "step-limit", 0, "Maximum accepted moves per run (0 = use settings)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(bridgeCmd)
}

// setup loads settings, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	s, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		s.Log.Level = flagLogLevel
	}
	if flagTimeout > 0 {
		s.Run.Timeout = flagTimeout
	}
	if flagStepLimit > 0 {
		s.Run.StepLimit = flagStepLimit
	}
	settings = s

	lvl, err := log.ParseLevel(s.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", s.Log.Level, err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: s.Log.Timestamps,
		TimeFormat:      time.Kitchen,
		Prefix:          "gridrun",
		Level:           lvl,
	})
	return nil
}

// newExecutor builds an in-process executor from the loaded settings.
func newExecutor() (*code.DefaultExecutor, error) {
	return code.NewDefaultExecutor(code.Config{
		Engine:          jsengine.New(jsengine.WithLogger(logger)),
		DefaultTimeout:  settings.Run.Timeout,
		DefaultLanguage: settings.Run.Language,
		MaxStepLimit:    settings.Run.StepLimit,
		Logger:          logger,
	})
}
