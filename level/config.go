package level

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultStepLimit is the number of accepted moves allowed when a level does
// not set its own limit.
const DefaultStepLimit = 1000

var (
	// ErrInvalidConfig indicates a level that cannot be simulated.
	ErrInvalidConfig = errors.New("invalid level config")

	// ErrUnknownDirection indicates a direction outside up/down/left/right.
	ErrUnknownDirection = errors.New("unknown direction")
)

// GridSize is the size of the board in rows and columns.
type GridSize struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// Contains reports whether p lies inside [0, Cols) x [0, Rows).
func (g GridSize) Contains(p Position) bool {
	return p.X >= 0 && p.X < g.Cols && p.Y >= 0 && p.Y < g.Rows
}

// Config is a playable level as supplied by the course content. It is
// read-only to the simulation.
type Config struct {
	// ID optionally names the level.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Title is a human readable level name.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	GridSize       GridSize   `json:"gridSize" yaml:"gridSize"`
	StartPosition  Position   `json:"startPosition" yaml:"startPosition"`
	StartDirection Direction  `json:"startDirection" yaml:"startDirection"`
	Collectibles   []Position `json:"collectibles,omitempty" yaml:"collectibles,omitempty"`
	Obstacles      []Position `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`

	// InitialCode is the starter script shown to the learner.
	InitialCode string `json:"initialCode,omitempty" yaml:"initialCode,omitempty"`

	// StepLimit caps accepted moves. Zero means DefaultStepLimit.
	StepLimit int `json:"stepLimit,omitempty" yaml:"stepLimit,omitempty"`
}

// Validate checks that the level can be simulated.
// Returns ErrInvalidConfig describing every problem found.
func (c *Config) Validate() error {
	var problems []string

	if c.GridSize.Rows <= 0 || c.GridSize.Cols <= 0 {
		problems = append(problems, fmt.Sprintf("gridSize must be positive, got %dx%d",
			c.GridSize.Rows, c.GridSize.Cols))
	} else if !c.GridSize.Contains(c.StartPosition) {
		problems = append(problems, fmt.Sprintf("startPosition %s outside grid", c.StartPosition))
	}
	if c.StartDirection == "" {
		problems = append(problems, "startDirection is required")
	} else if !c.StartDirection.Valid() {
		problems = append(problems, fmt.Sprintf("startDirection %q is not a direction", c.StartDirection))
	}
	if c.StepLimit < 0 {
		problems = append(problems, fmt.Sprintf("stepLimit must not be negative, got %d", c.StepLimit))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// EffectiveStepLimit returns StepLimit, or DefaultStepLimit when unset.
func (c *Config) EffectiveStepLimit() int {
	if c.StepLimit > 0 {
		return c.StepLimit
	}
	return DefaultStepLimit
}

// Objects builds the initial object set: obstacles as walls, then
// collectibles in the open state, both in config order.
func (c *Config) Objects() []GameObject {
	objs := make([]GameObject, 0, len(c.Obstacles)+len(c.Collectibles))
	for i, p := range c.Obstacles {
		objs = append(objs, GameObject{
			ID:       fmt.Sprintf("wall-%d", i),
			Kind:     KindWall,
			Position: p,
		})
	}
	for i, p := range c.Collectibles {
		objs = append(objs, GameObject{
			ID:       fmt.Sprintf("collectible-%d", i),
			Kind:     KindCollectible,
			Position: p,
			State:    StateOpen,
		})
	}
	return objs
}
