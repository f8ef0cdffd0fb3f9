package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shhac/roboaccordion/internal/accordion"
	apperrors "github.com/shhac/roboaccordion/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Debug)
	assert.Equal(t, accordion.PolicyHistory, cfg.Policy)
	assert.Equal(t, accordion.DefaultDuration, cfg.Duration.Duration())
	assert.Equal(t, "system", cfg.Theme)
	assert.Empty(t, cfg.SegmentsPath)
	assert.True(t, cfg.RestoreSession)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ROBOACCORDION_DEBUG", "true")
	t.Setenv("ROBOACCORDION_POLICY", "filler")
	t.Setenv("ROBOACCORDION_DURATION", "150ms")
	t.Setenv("ROBOACCORDION_SEGMENTS", "/tmp/segments.yaml")
	t.Setenv("ROBOACCORDION_THEME", "dark")
	t.Setenv("ROBOACCORDION_RESTORE_SESSION", "false")

	cfg := ConfigFromEnv()

	assert.False(t, cfg.RestoreSession)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "filler", cfg.Policy)
	assert.Equal(t, 150*time.Millisecond, cfg.Duration.Duration())
	assert.Equal(t, "/tmp/segments.yaml", cfg.SegmentsPath)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestConfigFromEnv_IgnoresGarbage(t *testing.T) {
	t.Setenv("ROBOACCORDION_DEBUG", "maybe")
	t.Setenv("ROBOACCORDION_DURATION", "soon")

	cfg := ConfigFromEnv()

	assert.False(t, cfg.Debug)
	assert.Equal(t, accordion.DefaultDuration, cfg.Duration.Duration())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
debug: true
policy: next-previous
duration: 1s
segments: ./segments.yaml
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "next-previous", cfg.Policy)
	assert.Equal(t, time.Second, cfg.Duration.Duration())
	assert.Equal(t, "./segments.yaml", cfg.SegmentsPath)
	assert.Equal(t, "system", cfg.Theme, "unset fields keep defaults")
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("duration: forever\n"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"unknown policy", func(c *Config) { c.Policy = "shuffle" }, apperrors.ErrUnknownPolicy},
		{"negative duration", func(c *Config) { c.Duration = Duration(-time.Second) }, apperrors.ErrInvalidDuration},
		{"zero duration", func(c *Config) { c.Duration = 0 }, nil},
		{"light theme", func(c *Config) { c.Theme = "light" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	cfg := DefaultConfig()
	cfg.Theme = "neon"
	var vErr apperrors.ValidationError
	assert.ErrorAs(t, cfg.Validate(), &vErr)
}
