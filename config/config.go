// Package config loads gridrun settings from YAML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalidSettings is wrapped by every validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the complete gridrun configuration.
type Settings struct {
	Run      RunSettings      `yaml:"run"`
	Playback PlaybackSettings `yaml:"playback"`
	Server   ServerSettings   `yaml:"server"`
	Log      LogSettings      `yaml:"log"`
}

// RunSettings bound each script execution.
type RunSettings struct {
	Language  string        `yaml:"language"`
	Timeout   time.Duration `yaml:"timeout"`
	StepLimit int           `yaml:"step_limit"`
}

// PlaybackSettings control the trace viewer.
type PlaybackSettings struct {
	Interval time.Duration `yaml:"interval"`
}

// ServerSettings configure the WebSocket host boundary.
type ServerSettings struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`
}

// LogSettings configure the CLI logger.
type LogSettings struct {
	Level      string `yaml:"level"`
	Timestamps bool   `yaml:"timestamps"`
}

// Default returns the built-in settings.
func Default() Settings {
	var s Settings
	if err := yaml.Unmarshal(defaultYAML, &s); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return s
}

// Load reads settings. Values in the file override the defaults.
// Search order: customPath -> ~/.gridrun/config.yaml -> embedded default.
func Load(customPath string) (Settings, error) {
	s := Default()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return s, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return s, s.Validate()
	}

	if path := userConfigPath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			loaded := s
			if err := yaml.Unmarshal(data, &loaded); err == nil && loaded.Validate() == nil {
				return loaded, nil
			}
		}
	}
	return s, nil
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	var problems []string
	if s.Run.Language == "" {
		problems = append(problems, "run.language is required")
	}
	if s.Run.Timeout < 0 {
		problems = append(problems, "run.timeout must not be negative")
	}
	if s.Run.StepLimit < 0 {
		problems = append(problems, "run.step_limit must not be negative")
	}
	if s.Playback.Interval <= 0 {
		problems = append(problems, "playback.interval must be positive")
	}
	if s.Server.Listen == "" {
		problems = append(problems, "server.listen is required")
	}
	if !strings.HasPrefix(s.Server.Path, "/") {
		problems = append(problems, "server.path must start with /")
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", s.Log.Level))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(problems, "; "))
	}
	return nil
}

// userConfigPath returns the path to the user config file, or empty if
// home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gridrun", "config.yaml")
}
