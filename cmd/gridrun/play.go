package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/gridrun/trace"
	"github.com/jonwraymond/gridrun/tui"
)

var flagInterval time.Duration

var playCmd = &cobra.Command{
	Use:   "play <level.yaml>",
	Short: "Run a script and replay its trace in the terminal",
	Long: `Run a script against a level and step through the recorded frames.

Controls:
  Space/P     - Play or pause
  Right/L     - Next frame
  Left/H      - Previous frame
  Home/G, End - First or last frame
  0           - Reset to frame 0
  R           - Run the script again
  ?           - Toggle help
  Q/Ctrl+C    - Quit

Examples:
  gridrun play levels/first-steps.yaml --code solution.js
  gridrun play levels/first-steps.yaml -e 'move_down(2)' --interval 200ms`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	addScriptFlags(playCmd)
	playCmd.Flags().DurationVar(&flagInterval, "interval", 0, "Delay between frames (0 = use settings)")
	playCmd.Flags().BoolVar(&flagIsolated, "isolated", false, "Run in a child worker process")
}

func runPlay(cmd *cobra.Command, args []string) error {
	interval := flagInterval
	if interval <= 0 {
		interval = settings.Playback.Interval
	}

	lvl, src, err := loadScript(args[0])
	if err != nil {
		return err
	}

	run := func(ctx context.Context) (trace.Trace, error) {
		if flagIsolated {
			return runIsolated(ctx, lvl, src)
		}
		return runInProcess(ctx, lvl, src)
	}

	model := tui.New(tui.Options{Level: lvl, Run: run, Interval: interval})
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}
