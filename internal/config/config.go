// Package config loads engine configuration from YAML with environment
// variable overrides. Every field has a default, so a missing config file is
// not an error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "100ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a standard time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// LLMConfig configures the optional remote completion provider.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

// EngineConfig configures conversation pacing and retention.
type EngineConfig struct {
	StreamInterval Duration `yaml:"stream_interval"`
	StaggerDelay   Duration `yaml:"stagger_delay"`
	InitialDelay   Duration `yaml:"initial_delay"`
	TranscriptCap  int      `yaml:"transcript_cap"`
	KnowledgeCap   int      `yaml:"knowledge_cap"`
}

// LearnerConfig configures the autonomous research loop.
type LearnerConfig struct {
	Interval      Duration `yaml:"interval"`
	ResearchDelay Duration `yaml:"research_delay"`
}

// ArchiveConfig configures knowledge persistence. An empty path disables it.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Config is the root configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Engine  EngineConfig  `yaml:"engine"`
	Learner LearnerConfig `yaml:"learner"`
	Archive ArchiveConfig `yaml:"archive"`
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			StreamInterval: Duration(100 * time.Millisecond),
			StaggerDelay:   Duration(1500 * time.Millisecond),
			InitialDelay:   Duration(800 * time.Millisecond),
			TranscriptCap:  500,
			KnowledgeCap:   256,
		},
		Learner: LearnerConfig{
			Interval:      Duration(30 * time.Second),
			ResearchDelay: Duration(2 * time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path, applies it over the defaults, then
// applies environment overrides. An empty path or missing file yields the
// defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing file is fine; defaults apply.
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setDuration := func(dst *Duration, key string) {
		if v := os.Getenv(key); v != "" {
			if parsed, err := time.ParseDuration(v); err == nil {
				*dst = Duration(parsed)
			}
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				*dst = parsed
			}
		}
	}

	setString(&c.LLM.Provider, "ZETA_LLM_PROVIDER")
	setString(&c.LLM.APIKey, "ZETA_LLM_API_KEY")
	setString(&c.LLM.Model, "ZETA_LLM_MODEL")
	setString(&c.LLM.BaseURL, "ZETA_LLM_BASE_URL")
	setDuration(&c.Engine.StreamInterval, "ZETA_STREAM_INTERVAL")
	setDuration(&c.Learner.Interval, "ZETA_LEARN_INTERVAL")
	setDuration(&c.Learner.ResearchDelay, "ZETA_RESEARCH_DELAY")
	setInt(&c.Engine.TranscriptCap, "ZETA_TRANSCRIPT_CAP")
	setInt(&c.Engine.KnowledgeCap, "ZETA_KNOWLEDGE_CAP")
	setString(&c.Archive.Path, "ZETA_ARCHIVE_PATH")
	setString(&c.Logging.Level, "ZETA_LOG_LEVEL")
}

func (c *Config) validate() error {
	if c.Engine.TranscriptCap <= 0 {
		return fmt.Errorf("engine.transcript_cap must be positive, got %d", c.Engine.TranscriptCap)
	}
	if c.Engine.KnowledgeCap <= 0 {
		return fmt.Errorf("engine.knowledge_cap must be positive, got %d", c.Engine.KnowledgeCap)
	}
	if c.Learner.Interval <= 0 {
		return fmt.Errorf("learner.interval must be positive, got %s", c.Learner.Interval.Std())
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug/info/warn/error, got %q", c.Logging.Level)
	}
	return nil
}
