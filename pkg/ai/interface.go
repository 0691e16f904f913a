package ai

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Turn is one message of prior conversation passed to the model.
type Turn struct {
	Role    string `json:"role"` // "user" or "oracle"
	Content string `json:"content"`
}

// Response is the full/brief pair every generation produces. The brief
// variant feeds list views and push notifications.
type Response struct {
	Full  string `json:"full"`
	Brief string `json:"brief"`
}

// OracleService is the single pass-through wrapper around a hosted
// completion API. One request/response round trip per invocation; no
// retry, batching, or caching. Callers own timeouts and error handling.
// Implement this interface to add new providers (Gemini, Ollama, ...).
type OracleService interface {
	GenerateReading(ctx context.Context, systemPrompt string, history []Turn, prompt string) (*Response, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)

// variantInstruction is appended to every prompt so one round trip yields
// both variants.
const variantInstruction = `

Respond with exactly two sections:
FULL:
<the complete reading>
BRIEF:
<the same reading condensed to at most two sentences>`

// VariantInstruction returns the section instruction for providers living
// outside this package.
func VariantInstruction() string {
	return variantInstruction
}

// ParseVariants splits a raw completion into its full and brief sections.
// A response missing the markers is treated as full-only, with the brief
// falling back to the first sentence-ish chunk.
func ParseVariants(raw string) *Response {
	full := raw
	brief := ""

	if idx := strings.Index(raw, "BRIEF:"); idx >= 0 {
		full = raw[:idx]
		brief = strings.TrimSpace(raw[idx+len("BRIEF:"):])
	}
	full = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(full), "FULL:"))

	if brief == "" {
		brief = full
		if len(brief) > 200 {
			// Cut on a rune boundary so multi-byte text stays valid UTF-8
			cut := 200
			for cut > 0 && !utf8.RuneStart(brief[cut]) {
				cut--
			}
			brief = strings.TrimSpace(brief[:cut]) + "…"
		}
	}

	return &Response{Full: full, Brief: brief}
}
