// Package tui is a terminal viewer that plays back a recorded trace.
//
// The viewer owns a playback.Controller and drives it from a Bubble Tea
// tick while playing. Runs happen outside the UI loop; the viewer only
// disables its controls until the trace arrives.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg advances playback by one frame.
type TickMsg time.Time

// tickCmd returns a command that sends one TickMsg after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
