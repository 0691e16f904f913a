package ai

import (
	"context"
	"log"
	"net"
	"strings"
)

// FallbackService routes generation to the hosted provider first and falls
// back to the local Ollama instance on connection or quota errors, so a
// provider outage degrades quality instead of failing readings outright.
type FallbackService struct {
	gemini OracleService
	ollama *OllamaService
}

// NewFallbackService creates a new fallback service with both providers.
func NewFallbackService(gemini OracleService, ollama *OllamaService) *FallbackService {
	return &FallbackService{
		gemini: gemini,
		ollama: ollama,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(net.Error); ok {
		return true
	}

	errStr := err.Error()
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"EOF",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(indicator)) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"RESOURCE_EXHAUSTED",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(indicator)) {
			return true
		}
	}

	return false
}

// GenerateReading implements OracleService with provider fallback.
func (f *FallbackService) GenerateReading(ctx context.Context, systemPrompt string, history []Turn, prompt string) (*Response, error) {
	resp, err := f.gemini.GenerateReading(ctx, systemPrompt, history, prompt)
	if err == nil {
		return resp, nil
	}

	if f.ollama != nil && (isConnectionError(err) || isQuotaError(err)) {
		log.Printf("[AI] Gemini failed (%v), falling back to Ollama", err)
		return f.ollama.GenerateReading(ctx, systemPrompt, history, prompt)
	}

	return nil, err
}
