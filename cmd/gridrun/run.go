package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/gridrun/code"
	"github.com/jonwraymond/gridrun/host"
	"github.com/jonwraymond/gridrun/level"
	"github.com/jonwraymond/gridrun/trace"
	"github.com/jonwraymond/gridrun/tui"
)

var (
	flagCodeFile string
	flagEval     string
	flagFormat   string
	flagIsolated bool
)

// errScriptFailed makes the process exit non-zero after the trace is printed.
var errScriptFailed = errors.New("script failed")

var runCmd = &cobra.Command{
	Use:   "run <level.yaml>",
	Short: "Run a script and print the recorded trace",
	Long: `Run a script against a level and print the result.

The script is read from --code, from -e, or from the level's initialCode.

Output formats:
  summary  - One line per frame (default)
  json     - The full trace as JSON
  grid     - The final board and log

With --isolated the script runs in a child gridrun worker process that
speaks the host protocol over its stdin/stdout.

Examples:
  gridrun run levels/first-steps.yaml --code solution.js
  gridrun run levels/first-steps.yaml -e 'move_down(2)' --format grid
  gridrun run levels/first-steps.yaml --isolated --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	addScriptFlags(runCmd)
	runCmd.Flags().StringVar(&flagFormat, "format", "summary", "Output format: summary, json, grid")
	runCmd.Flags().BoolVar(&flagIsolated, "isolated", false, "Run in a child worker process")
}

func addScriptFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagCodeFile, "code", "", "Path to the script")
	cmd.Flags().StringVarP(&flagEval, "eval", "e", "", "Script source")
}

func runRun(cmd *cobra.Command, args []string) error {
	lvl, src, err := loadScript(args[0])
	if err != nil {
		return err
	}

	var tr trace.Trace
	if flagIsolated {
		tr, err = runIsolated(cmd.Context(), lvl, src)
	} else {
		tr, err = runInProcess(cmd.Context(), lvl, src)
	}
	if err != nil {
		return err
	}

	if err := printTrace(cmd.OutOrStdout(), lvl, tr, flagFormat); err != nil {
		return err
	}
	if tr.Failed() {
		return errScriptFailed
	}
	return nil
}

// loadScript reads the level and picks the script source.
func loadScript(levelPath string) (level.Config, string, error) {
	lvl, err := level.Load(levelPath)
	if err != nil {
		return level.Config{}, "", err
	}
	switch {
	case flagEval != "":
		return lvl, flagEval, nil
	case flagCodeFile != "":
		data, err := os.ReadFile(flagCodeFile)
		if err != nil {
			return lvl, "", fmt.Errorf("failed to read script %s: %w", flagCodeFile, err)
		}
		return lvl, string(data), nil
	case lvl.InitialCode != "":
		return lvl, lvl.InitialCode, nil
	}
	return lvl, "", errors.New("no script: use --code, -e, or set initialCode in the level")
}

// runInProcess executes src with the local engine. Script failures are
// already folded into the returned trace.
func runInProcess(ctx context.Context, lvl level.Config, src string) (trace.Trace, error) {
	exec, err := newExecutor()
	if err != nil {
		return nil, err
	}
	result, err := exec.RunCode(ctx, code.ExecuteParams{Code: src, Level: lvl})
	if err != nil && !code.IsScriptFailure(err) {
		return nil, err
	}
	return result.Trace, nil
}

// runIsolated executes src in a child worker process.
func runIsolated(ctx context.Context, lvl level.Config, src string) (trace.Trace, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate gridrun binary: %w", err)
	}
	args := []string{"worker", "--log-level", settings.Log.Level}
	if flagConfig != "" {
		args = append(args, "--config", flagConfig)
	}
	if flagTimeout > 0 {
		args = append(args, "--timeout", flagTimeout.String())
	}
	if flagStepLimit > 0 {
		args = append(args, "--step-limit", fmt.Sprint(flagStepLimit))
	}

	proc, err := host.StartSubprocess(ctx, logger, self, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := proc.Close(); err != nil {
			logger.Warn("worker exit", "err", err)
		}
	}()

	if err := proc.Client.WaitReady(ctx); err != nil {
		return nil, err
	}
	return proc.Client.Run(ctx, src, lvl, nil)
}

func printTrace(w io.Writer, lvl level.Config, tr trace.Trace, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tr)
	case "grid":
		last, ok := tr.Last()
		if !ok {
			return nil
		}
		fmt.Fprintln(w, tui.RenderGrid(lvl.GridSize, last))
		for i, f := range tr {
			for _, line := range tui.LogLines(f, tr.Failed() && i == len(tr)-1) {
				fmt.Fprintln(w, line)
			}
		}
		return nil
	case "summary", "":
		for _, f := range tr {
			line := fmt.Sprintf("%3d  %s  %-5s", f.Step, f.PlayerPosition, f.PlayerDirection)
			if f.Log != nil {
				line += "  " + strings.ReplaceAll(*f.Log, "\n", " | ")
			}
			if f.Error != nil && f.Log == nil {
				line += "  error: " + *f.Error
			}
			fmt.Fprintln(w, strings.TrimRight(line, " "))
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}
