package level

import (
	"fmt"
	"strings"
)

// Position is a grid coordinate. X is the column and Y is the row.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Step returns the position reached by moving steps cells in direction d.
// Up and down change the row (Y); left and right change the column (X).
func (p Position) Step(d Direction, steps int) Position {
	dx, dy := d.delta()
	return Position{X: p.X + dx*steps, Y: p.Y + dy*steps}
}

// String formats the position as "(x, y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Direction is the facing of the player.
type Direction string

// Directions understood by the simulation.
const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every valid direction in a stable order.
var Directions = []Direction{Up, Down, Left, Right}

// ParseDirection converts s into a Direction. Matching is case-insensitive.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
	return d, nil
}

// Valid reports whether d is one of the four known directions.
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

func (d Direction) delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// ObjectKind classifies a GameObject.
type ObjectKind string

const (
	KindWall        ObjectKind = "wall"
	KindCollectible ObjectKind = "collectible"
)

// ObjectState is the mutable part of a GameObject. The zero value means the
// object carries no state.
type ObjectState string

const (
	StateOpen      ObjectState = "open"
	StateCollected ObjectState = "collected"
	StateLocked    ObjectState = "locked"
)

// GameObject is an entity placed on the grid. Only State changes during a run.
type GameObject struct {
	ID       string      `json:"id" yaml:"id"`
	Kind     ObjectKind  `json:"kind" yaml:"kind"`
	Position Position    `json:"position" yaml:"position"`
	State    ObjectState `json:"state,omitempty" yaml:"state,omitempty"`
}

// CloneObjects returns an independent copy of objs. A nil input stays nil.
func CloneObjects(objs []GameObject) []GameObject {
	if objs == nil {
		return nil
	}
	out := make([]GameObject, len(objs))
	copy(out, objs)
	return out
}
