package code

import (
	"fmt"
	"strings"
	"time"
)

// DefaultLanguage is the scripting language used when none is requested.
const DefaultLanguage = "javascript"

// Config holds the configuration for a code executor.
type Config struct {
	// Engine is the pluggable script engine.
	// Required.
	Engine Engine

	// DefaultTimeout is the default run timeout when not specified in
	// ExecuteParams. If zero, no default timeout is applied.
	DefaultTimeout time.Duration

	// DefaultLanguage is the default language when not specified in
	// ExecuteParams. Defaults to "javascript" if empty.
	DefaultLanguage string

	// MaxStepLimit caps the step limit of any run. Zero means no cap beyond
	// the level's own limit.
	MaxStepLimit int

	// Logger is an optional logger for observability.
	Logger Logger
}

// Validate checks that all required fields are set.
// Returns ErrConfiguration if any required field is missing.
func (c *Config) Validate() error {
	var missing []string

	if c.Engine == nil {
		missing = append(missing, "Engine")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s",
			ErrConfiguration, strings.Join(missing, ", "))
	}
	if c.MaxStepLimit < 0 {
		return fmt.Errorf("%w: MaxStepLimit must not be negative", ErrConfiguration)
	}
	return nil
}

// applyDefaults sets default values for optional fields.
func (c *Config) applyDefaults() {
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = DefaultLanguage
	}
	if c.Logger == nil {
		c.Logger = nopLogger{}
	}
}
