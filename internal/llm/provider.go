// Package llm provides interfaces and implementations for completion providers.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/hireon/hireon/internal/config"
)

// ErrUnavailable is returned when no completion provider is configured.
// Callers degrade the feature instead of failing the process.
var ErrUnavailable = errors.New("no completion provider configured")

// Provider defines the interface for completion providers.
type Provider interface {
	// Chat sends messages and returns a streaming response.
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (*StreamReader, error)

	// ChatSync sends messages and waits for the complete response.
	ChatSync(ctx context.Context, messages []Message, opts ChatOptions) (*Response, error)

	// Name returns the provider name (e.g. "anthropic", "openai").
	Name() string
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`    // "system", "user", "assistant"
	Content string `json:"content"` // Message content
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// ChatOptions configures a chat request.
type ChatOptions struct {
	Model       string  // Model to use (empty = provider default)
	MaxTokens   int     // Maximum tokens in response
	Temperature float64 // Sampling temperature (0-1)
}

// Response represents a complete chat response.
type Response struct {
	Content      string // Response content
	Model        string // Model used
	FinishReason string // Why generation stopped
}

// ProviderType represents supported completion providers.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
)

// NewProvider creates a provider based on configuration, auto-detecting when
// no provider is named. Completion calls are rate limited per config.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	providerName := cfg.DefaultProvider
	if providerName == "" {
		providerName = detectProvider(cfg)
	}
	if providerName == "" {
		return nil, ErrUnavailable
	}

	var (
		provider Provider
		err      error
	)
	switch ProviderType(providerName) {
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		provider, err = NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.DefaultModel)
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		provider, err = NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.DefaultModel)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: anthropic, openai)", providerName)
	}
	if err != nil {
		return nil, err
	}

	return WithRateLimit(provider, cfg.RequestsPerMinute), nil
}

// detectProvider determines which provider to use based on available API keys.
// Priority: Anthropic > OpenAI.
func detectProvider(cfg config.LLMConfig) string {
	if cfg.AnthropicAPIKey != "" {
		return string(ProviderAnthropic)
	}
	if cfg.OpenAIAPIKey != "" {
		return string(ProviderOpenAI)
	}
	return ""
}

// IsConfigured returns true if any completion provider is configured.
func IsConfigured(cfg config.LLMConfig) bool {
	return cfg.AnthropicAPIKey != "" || cfg.OpenAIAPIKey != ""
}
