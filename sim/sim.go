// Package sim implements the grid-world state machine that a learner script
// drives through its move calls.
//
// A [Machine] is the single authority for what a move does: it enforces
// the step limit, updates the player's facing, resolves collisions against
// walls and the grid edge, and collects items at the destination cell. It
// is owned by exactly one run and is not safe for concurrent use.
package sim

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/gridrun/level"
)

// HitWallMessage is recorded on the frame of every blocked move.
const HitWallMessage = "Hit a wall!"

// ErrStepLimitExceeded is matched by every StepLimitError.
var ErrStepLimitExceeded = errors.New("step limit exceeded")

// StepLimitError is returned by Move once the run has used all of its moves.
type StepLimitError struct {
	Limit int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("step limit exceeded: more than %d moves (possible infinite loop)", e.Limit)
}

// Is reports whether target is ErrStepLimitExceeded.
func (e *StepLimitError) Is(target error) bool {
	return target == ErrStepLimitExceeded
}

// State is the mutable simulation state of one run.
type State struct {
	Position  level.Position
	Direction level.Direction
	Objects   []level.GameObject
	StepCount int
}

// Transition describes the outcome of one accepted move.
type Transition struct {
	// Blocked is true when the destination was off the grid or a wall.
	Blocked bool

	// Collected lists the IDs of collectibles picked up by this move.
	Collected []string
}

// Machine applies moves to a State.
type Machine struct {
	grid  level.GridSize
	limit int
	state State
}

// New creates a Machine positioned at the level start. The objects are deep
// copied; a limit of zero or less uses the level's effective step limit.
func New(cfg level.Config, objects []level.GameObject, limit int) *Machine {
	if limit <= 0 {
		limit = cfg.EffectiveStepLimit()
	}
	return &Machine{
		grid:  cfg.GridSize,
		limit: limit,
		state: State{
			Position:  cfg.StartPosition,
			Direction: cfg.StartDirection,
			Objects:   level.CloneObjects(objects),
		},
	}
}

// State returns the live state. Callers that keep it must clone Objects.
func (m *Machine) State() *State {
	return &m.state
}

// Limit returns the configured step limit.
func (m *Machine) Limit() int {
	return m.limit
}

// Move attempts to move the player steps cells in direction d.
//
// The step counter and facing are updated for every accepted call, including
// blocked moves and moves of zero steps. Once the counter has reached the
// limit Move returns a *StepLimitError and leaves the state untouched.
func (m *Machine) Move(d level.Direction, steps int) (Transition, error) {
	if m.state.StepCount >= m.limit {
		return Transition{}, &StepLimitError{Limit: m.limit}
	}
	m.state.StepCount++

	candidate := m.state.Position.Step(d, steps)
	m.state.Direction = d

	if !m.grid.Contains(candidate) || m.wallAt(candidate) {
		return Transition{Blocked: true}, nil
	}

	m.state.Position = candidate
	var tr Transition
	for i := range m.state.Objects {
		obj := &m.state.Objects[i]
		if obj.Kind == level.KindCollectible && obj.State == level.StateOpen && obj.Position == candidate {
			obj.State = level.StateCollected
			tr.Collected = append(tr.Collected, obj.ID)
		}
	}
	return tr, nil
}

func (m *Machine) wallAt(p level.Position) bool {
	for _, obj := range m.state.Objects {
		if obj.Kind == level.KindWall && obj.Position == p {
			return true
		}
	}
	return false
}
