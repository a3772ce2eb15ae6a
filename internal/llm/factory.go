package llm

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Settings configures client construction. Empty fields use provider defaults.
type Settings struct {
	Provider string // "openai", "anthropic", "gemini", or "" for env detection
	APIKey   string
	Model    string
	BaseURL  string
}

// New constructs a client for an explicitly named provider.
func New(s Settings, logger *zap.Logger) (Client, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", s.Provider)
	}
	switch strings.ToLower(s.Provider) {
	case "openai":
		return NewOpenAIClient(s.APIKey, s.Model, s.BaseURL, logger), nil
	case "anthropic":
		return NewAnthropicClient(s.APIKey, s.Model, s.BaseURL, logger), nil
	case "gemini":
		return NewGeminiClient(s.APIKey, s.Model, s.BaseURL, logger), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", s.Provider)
	}
}

// Detect resolves the client from settings, falling back to environment keys
// in precedence order: OpenAI, then Anthropic, then Gemini. A nil client with
// a nil error means no provider is configured and the caller should run in
// local-only mode.
func Detect(s Settings, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if s.Provider != "" && s.APIKey != "" {
		return New(s, logger)
	}

	// Configured model and base URL are provider-specific, so env-detected
	// clients always start from provider defaults.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		logger.Info("remote completion enabled", zap.String("provider", "openai"))
		return NewOpenAIClient(key, "", "", logger), nil
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		logger.Info("remote completion enabled", zap.String("provider", "anthropic"))
		return NewAnthropicClient(key, "", "", logger), nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		logger.Info("remote completion enabled", zap.String("provider", "gemini"))
		return NewGeminiClient(key, "", "", logger), nil
	}

	logger.Info("no remote provider configured, running local-only")
	return nil, nil
}
