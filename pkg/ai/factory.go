package ai

import (
	"fmt"
)

// DynamicConfig holds AI provider configuration. The hosted provider is
// injected by the caller (avoids coupling this package to one vendor);
// Ollama settings are read through getters so the runtime settings API can
// change them without a restart.
type DynamicConfig struct {
	Provider ProviderType // "gemini", "ollama" or "auto"

	// Hosted provider, nil when no API key is configured
	Gemini OracleService

	// Ollama config getters for runtime updates
	GetOllamaBaseURL func() string
	GetOllamaModel   func() string
}

// NewOracleServiceWithDynamicConfig creates an OracleService based on the
// config. Switch providers by changing cfg.Provider.
func NewOracleServiceWithDynamicConfig(cfg DynamicConfig) (OracleService, error) {
	ollama := NewOllamaServiceWithGetters(cfg.GetOllamaBaseURL, cfg.GetOllamaModel)

	switch cfg.Provider {
	case ProviderGemini:
		if cfg.Gemini == nil {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return cfg.Gemini, nil

	case ProviderOllama:
		return ollama, nil

	default:
		// Auto: hosted first with local fallback when both are available
		if cfg.Gemini != nil {
			return NewFallbackService(cfg.Gemini, ollama), nil
		}
		return ollama, nil
	}
}
