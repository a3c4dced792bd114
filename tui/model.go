package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jonwraymond/gridrun/level"
	"github.com/jonwraymond/gridrun/playback"
	"github.com/jonwraymond/gridrun/trace"
)

// RunFunc executes the script and returns its trace. A trace ending in an
// error frame is a normal result; err is for runs that produced no trace.
type RunFunc func(ctx context.Context) (trace.Trace, error)

// runFinishedMsg delivers the outcome of a RunFunc.
type runFinishedMsg struct {
	trace trace.Trace
	err   error
}

// Options configure a Model.
type Options struct {
	// Level is the level being played. Required for rendering.
	Level level.Config

	// Run, if set, is called on start and on the rerun key.
	Run RunFunc

	// Trace is shown immediately when Run is nil.
	Trace trace.Trace

	// Interval is the delay between frames while playing.
	Interval time.Duration
}

// Model is the Bubble Tea model of the viewer.
type Model struct {
	ctrl     *playback.Controller
	level    level.Config
	run      RunFunc
	interval time.Duration

	keys KeyMap
	help help.Model

	runErr   error
	width    int
	quitting bool
}

// New creates a viewer.
func New(opts Options) Model {
	interval := opts.Interval
	if interval <= 0 {
		interval = playback.DefaultInterval
	}
	h := help.New()
	h.ShowAll = false

	m := Model{
		ctrl:     playback.New(),
		level:    opts.Level,
		run:      opts.Run,
		interval: interval,
		keys:     DefaultKeyMap(),
		help:     h,
	}
	if opts.Run == nil {
		m.ctrl.LoadTrace(opts.Trace)
	}
	return m
}

// Controller exposes the playback state, mainly for tests and embedding.
func (m Model) Controller() *playback.Controller {
	return m.ctrl
}

// Init starts the run, if any, and the playback tick.
func (m Model) Init() tea.Cmd {
	if m.run != nil {
		return tea.Batch(m.startRun(), tickCmd(m.interval))
	}
	return tickCmd(m.interval)
}

func (m Model) startRun() tea.Cmd {
	m.ctrl.BeginRun()
	run := m.run
	return func() tea.Msg {
		tr, err := run(context.Background())
		return runFinishedMsg{trace: tr, err: err}
	}
}

// Update handles input, ticks and finished runs.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if m.ctrl.Playing() && !m.ctrl.Running() {
			m.ctrl.StepForward()
		}
		return m, tickCmd(m.interval)

	case runFinishedMsg:
		if msg.err != nil {
			m.ctrl.EndRun()
			m.runErr = msg.err
			return m, nil
		}
		m.runErr = nil
		m.ctrl.LoadTrace(msg.trace)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	// Controls are disabled while a run executes.
	if m.ctrl.Running() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.ctrl.Toggle()
	case key.Matches(msg, m.keys.Forward):
		m.ctrl.Pause()
		m.ctrl.StepForward()
	case key.Matches(msg, m.keys.Back):
		m.ctrl.Pause()
		m.ctrl.StepBackward()
	case key.Matches(msg, m.keys.First):
		m.ctrl.SeekTo(0)
	case key.Matches(msg, m.keys.Last):
		m.ctrl.SeekTo(m.ctrl.Len() - 1)
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
	case key.Matches(msg, m.keys.Rerun):
		if m.run != nil {
			return m, m.startRun()
		}
	}
	return m, nil
}
