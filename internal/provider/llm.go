// Package provider wraps the external generative capability behind a
// provider-agnostic LLM interface, with a concrete OpenAI implementation
// and deterministic mocks for testing. On top of the raw interface it
// exposes typed story operations (summaries, characters, gauges, endings,
// nodes) that validate every payload structurally before returning it.
package provider

import (
	"context"
	"errors"
)

var (
	ErrLLMFailed     = errors.New("LLM request failed")
	ErrInvalidConfig = errors.New("invalid LLM configuration")

	// ErrGeneration marks a provider call that errored or returned
	// unparsable output. The orchestrator recovers it as a terminal
	// error node.
	ErrGeneration = errors.New("content generation failed")

	// ErrInvalidPayload marks a parsed payload that violates the
	// node/choice/ending contract.
	ErrInvalidPayload = errors.New("generated payload violates content contract")
)

// LLM defines the interface for interacting with language models.
// Implementations must be stateless and thread-safe.
type LLM interface {
	// Generate produces text from a system and user prompt pair.
	// The system prompt may be empty.
	Generate(ctx context.Context, system, user string) (string, error)
}

// LLMConfig holds common configuration options for LLM providers.
type LLMConfig struct {
	// Model specifies the model identifier (e.g., "gpt-4o", "gpt-4o-mini")
	Model string

	// Temperature controls randomness (0.0 = deterministic, 2.0 = very random)
	Temperature float32

	// MaxTokens limits the response length (0 = use provider default)
	MaxTokens int

	// APIKey is the authentication key for the provider
	APIKey string
}

// DefaultLLMConfig returns sensible defaults for story generation.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   4000,
	}
}
