package services

import (
	"context"
	"log"
	"strings"
	"time"

	"uprise/meritmatch/internal/config"
)

// ProviderTag selects a text-generation vendor and its request shape.
type ProviderTag string

const (
	ProviderOpenAI    ProviderTag = "openai"
	ProviderGrok      ProviderTag = "grok"
	ProviderAnthropic ProviderTag = "anthropic"
	ProviderGemini    ProviderTag = "gemini"
)

const (
	generationTemperature = 0.1
	maxOutputTokens       = 1000
)

type vendorProfile struct {
	Model   string
	BaseURL string
	Timeout time.Duration
}

// vendorProfiles is the only place a model is chosen; callers never pick one.
var vendorProfiles = map[ProviderTag]vendorProfile{
	ProviderOpenAI:    {Model: "gpt-4o-mini", Timeout: 30 * time.Second},
	ProviderGrok:      {Model: "grok-3-mini", BaseURL: "https://api.x.ai/v1", Timeout: 30 * time.Second},
	ProviderAnthropic: {Model: "claude-3-5-haiku-latest", Timeout: 60 * time.Second},
	ProviderGemini:    {Model: "gemini-2.5-flash", Timeout: 30 * time.Second},
}

// ModelFor returns the model identifier used for a provider.
func ModelFor(provider ProviderTag) string {
	return vendorProfiles[provider].Model
}

// ParseProviderTag normalizes a user supplied provider name.
func ParseProviderTag(name string) (ProviderTag, bool) {
	tag := ProviderTag(strings.ToLower(strings.TrimSpace(name)))
	_, ok := vendorProfiles[tag]
	return tag, ok
}

// ProviderConfig is injected into the adapter at construction time.
type ProviderConfig struct {
	DefaultProvider ProviderTag
	Credentials     map[ProviderTag]string
	BaseURLs        map[ProviderTag]string
	// Timeout overrides the per-vendor request timeout when positive.
	Timeout time.Duration
}

func NewProviderConfig(ai config.AIConfig) ProviderConfig {
	defaultProvider, ok := ParseProviderTag(ai.DefaultProvider)
	if !ok {
		log.Printf("⚠️  Unknown AI_PROVIDER %q, defaulting to %s", ai.DefaultProvider, ProviderOpenAI)
		defaultProvider = ProviderOpenAI
	}

	return ProviderConfig{
		DefaultProvider: defaultProvider,
		Credentials: map[ProviderTag]string{
			ProviderOpenAI:    ai.OpenAIAPIKey,
			ProviderGrok:      ai.GrokAPIKey,
			ProviderAnthropic: ai.AnthropicAPIKey,
			ProviderGemini:    ai.GeminiAPIKey,
		},
		BaseURLs: map[ProviderTag]string{
			ProviderOpenAI:    ai.OpenAIBaseURL,
			ProviderGrok:      ai.GrokBaseURL,
			ProviderAnthropic: ai.AnthropicBaseURL,
			ProviderGemini:    ai.GeminiBaseURL,
		},
	}
}

// Resolve maps an empty tag to the default provider.
func (c ProviderConfig) Resolve(provider ProviderTag) ProviderTag {
	if provider == "" {
		return c.DefaultProvider
	}
	return provider
}

type ProviderAdapter interface {
	// Generate performs one vendor call and returns the raw assistant text.
	Generate(ctx context.Context, provider ProviderTag, systemMessage, prompt string) (string, error)
	DefaultProvider() ProviderTag
}

// vendorCall is everything a vendor handler needs for one request.
type vendorCall struct {
	Provider      ProviderTag
	APIKey        string
	BaseURL       string
	Model         string
	SystemMessage string
	Prompt        string
}

type vendorHandler func(ctx context.Context, call vendorCall) (string, error)

type providerAdapter struct {
	cfg      ProviderConfig
	handlers map[ProviderTag]vendorHandler
}

var _ ProviderAdapter = (*providerAdapter)(nil)

func NewProviderAdapter(cfg ProviderConfig) ProviderAdapter {
	return &providerAdapter{
		cfg: cfg,
		handlers: map[ProviderTag]vendorHandler{
			ProviderOpenAI:    callOpenAICompatible,
			ProviderGrok:      callOpenAICompatible,
			ProviderAnthropic: callAnthropic,
			ProviderGemini:    callGemini,
		},
	}
}

// DefaultProvider implements ProviderAdapter.
func (a *providerAdapter) DefaultProvider() ProviderTag {
	return a.cfg.DefaultProvider
}

// Generate implements ProviderAdapter.
func (a *providerAdapter) Generate(ctx context.Context, provider ProviderTag, systemMessage, prompt string) (string, error) {
	provider = a.cfg.Resolve(provider)

	profile, ok := vendorProfiles[provider]
	handler, hasHandler := a.handlers[provider]
	if !ok || !hasHandler {
		return "", &ConfigurationError{Provider: provider, Reason: "unknown provider"}
	}

	apiKey := a.cfg.Credentials[provider]
	if apiKey == "" {
		return "", &ConfigurationError{Provider: provider, Reason: "API key is not set"}
	}

	baseURL := profile.BaseURL
	if override := a.cfg.BaseURLs[provider]; override != "" {
		baseURL = override
	}

	timeout := profile.Timeout
	if a.cfg.Timeout > 0 {
		timeout = a.cfg.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return handler(ctx, vendorCall{
		Provider:      provider,
		APIKey:        apiKey,
		BaseURL:       baseURL,
		Model:         profile.Model,
		SystemMessage: systemMessage,
		Prompt:        prompt,
	})
}
