package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100*time.Millisecond, cfg.Engine.StreamInterval.Std())
	assert.Equal(t, 1500*time.Millisecond, cfg.Engine.StaggerDelay.Std())
	assert.Equal(t, 800*time.Millisecond, cfg.Engine.InitialDelay.Std())
	assert.Equal(t, 500, cfg.Engine.TranscriptCap)
	assert.Equal(t, 256, cfg.Engine.KnowledgeCap)
	assert.Equal(t, 30*time.Second, cfg.Learner.Interval.Std())
	assert.Equal(t, 2*time.Second, cfg.Learner.ResearchDelay.Std())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Archive.Path)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Engine, cfg.Engine)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
llm:
  provider: anthropic
  api_key: test-key
engine:
  stream_interval: 10ms
  transcript_cap: 50
learner:
  interval: 1m
logging:
  level: debug
  development: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, 10*time.Millisecond, cfg.Engine.StreamInterval.Std())
	assert.Equal(t, 50, cfg.Engine.TranscriptCap)
	assert.Equal(t, time.Minute, cfg.Learner.Interval.Std())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	// Untouched fields keep their defaults.
	assert.Equal(t, 1500*time.Millisecond, cfg.Engine.StaggerDelay.Std())
	assert.Equal(t, 256, cfg.Engine.KnowledgeCap)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  stream_interval: fast\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero transcript cap", func(c *Config) { c.Engine.TranscriptCap = 0 }},
		{"negative knowledge cap", func(c *Config) { c.Engine.KnowledgeCap = -1 }},
		{"zero learn interval", func(c *Config) { c.Learner.Interval = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}
