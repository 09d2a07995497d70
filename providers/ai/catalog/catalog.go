// Package catalog builds the concrete [ai.Provider] for a configuration. The
// set of backends is closed: one case per [ai.ProviderID].
package catalog

import (
	"fmt"
	"net/http"

	"github.com/leofalp/chatstream/providers/ai"
	"github.com/leofalp/chatstream/providers/ai/anthropic"
	"github.com/leofalp/chatstream/providers/ai/openai"
	"github.com/leofalp/chatstream/providers/secrets"
)

// Option configures the providers built by New.
type Option func(*options)

type options struct {
	httpClient *http.Client
	maxTokens  int
}

// WithHTTPClient shares one HTTP client across built providers.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) { o.httpClient = httpClient }
}

// WithMaxTokens sets the reply cap for backends that require one.
func WithMaxTokens(maxTokens int) Option {
	return func(o *options) { o.maxTokens = maxTokens }
}

// New returns the provider for config.ID.
func New(config ai.ProviderConfig, opts ...Option) (ai.Provider, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch config.ID {
	case ai.ProviderOpenAI:
		return openai.New(config, openai.WithHTTPClient(o.httpClient)), nil
	case ai.ProviderAnthropic:
		return anthropic.New(config,
			anthropic.WithHTTPClient(o.httpClient),
			anthropic.WithMaxTokens(o.maxTokens),
		), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", config.ID)
	}
}

// CredentialName returns the secret name holding the API key for id.
func CredentialName(id ai.ProviderID) string {
	switch id {
	case ai.ProviderAnthropic:
		return secrets.AnthropicKey
	default:
		return secrets.OpenAIKey
	}
}

// DefaultConfig returns the stock configuration for id with its key taken
// from resolver. A missing key yields an empty credential.
func DefaultConfig(id ai.ProviderID, resolver secrets.Resolver) ai.ProviderConfig {
	return ai.DefaultConfig(id, resolver.Resolve(CredentialName(id)))
}

// Resolve is DefaultConfig followed by New, with an optional model override.
func Resolve(id ai.ProviderID, model string, resolver secrets.Resolver, opts ...Option) (ai.Provider, error) {
	return New(DefaultConfig(id, resolver).WithModel(model), opts...)
}
