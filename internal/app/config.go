package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shhac/roboaccordion/internal/accordion"
	apperrors "github.com/shhac/roboaccordion/internal/errors"
)

// Config holds application-wide configuration.
type Config struct {
	// Debug enables debug logging and additional diagnostics
	Debug bool `yaml:"debug"`

	// LogToConsole writes text logs to stderr instead of the log file
	LogToConsole bool `yaml:"log_console"`

	// Policy is a built-in toggle policy name (see accordion.ParsePolicy)
	// or "script:" followed by the path of a Lua policy script
	Policy string `yaml:"policy"`

	// Duration is the length of one expand/collapse transition
	Duration Duration `yaml:"duration"`

	// SegmentsPath points to a YAML segments file; empty uses the built-in demo
	SegmentsPath string `yaml:"segments"`

	// Theme is "dark", "light" or "system"
	Theme string `yaml:"theme"`

	// RestoreSession applies the policy and layout saved by the last run
	RestoreSession bool `yaml:"restore_session"`

	// MetricsAddr enables the /metrics and /state debug endpoint, e.g. "127.0.0.1:9273"
	MetricsAddr string `yaml:"metrics_addr"`
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Policy:   accordion.PolicyHistory,
		Duration: Duration(accordion.DefaultDuration),
		Theme:    "system",

		RestoreSession: true,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigFromEnv creates a configuration from the defaults and environment.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overrides fields from ROBOACCORDION_* environment variables.
// Unparseable values are ignored.
func (c *Config) ApplyEnv() {
	if debugStr := os.Getenv("ROBOACCORDION_DEBUG"); debugStr != "" {
		if debug, err := strconv.ParseBool(debugStr); err == nil {
			c.Debug = debug
		}
	}

	if policy := os.Getenv("ROBOACCORDION_POLICY"); policy != "" {
		c.Policy = policy
	}

	if durStr := os.Getenv("ROBOACCORDION_DURATION"); durStr != "" {
		if d, err := time.ParseDuration(durStr); err == nil {
			c.Duration = Duration(d)
		}
	}

	if path := os.Getenv("ROBOACCORDION_SEGMENTS"); path != "" {
		c.SegmentsPath = path
	}

	if theme := os.Getenv("ROBOACCORDION_THEME"); theme != "" {
		c.Theme = theme
	}

	if addr := os.Getenv("ROBOACCORDION_METRICS_ADDR"); addr != "" {
		c.MetricsAddr = addr
	}

	if restoreStr := os.Getenv("ROBOACCORDION_RESTORE_SESSION"); restoreStr != "" {
		if restore, err := strconv.ParseBool(restoreStr); err == nil {
			c.RestoreSession = restore
		}
	}
}

// Validate checks the policy name, duration and theme. Script policies are
// only checked for a path here; the script is compiled at startup.
func (c *Config) Validate() error {
	if err := validatePolicyName(c.Policy); err != nil {
		return err
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidDuration, c.Duration.Duration())
	}
	switch c.Theme {
	case "", "system", "dark", "light":
	default:
		return apperrors.ValidationError{Field: "theme", Message: fmt.Sprintf("unknown theme %q", c.Theme)}
	}
	return nil
}
