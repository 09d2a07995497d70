package anthropic

import (
	"net/http"
	"os"
	"strings"

	"github.com/leofalp/chatstream/internal/utils"
	"github.com/leofalp/chatstream/providers/ai"
)

const (
	defaultBaseURL   = "https://api.anthropic.com/v1"
	messagesEndpoint = "/messages"
	providerLabel    = string(ai.ProviderAnthropic)

	// anthropicVersion is the required anthropic-version header value.
	anthropicVersion = "2023-06-01"

	// defaultMaxTokens is the reply length cap sent with every request.
	defaultMaxTokens = 1024
)

// Provider implements ai.Provider for the Anthropic Messages API.
type Provider struct {
	config    ai.ProviderConfig
	baseURL   string
	maxTokens int
	client    *http.Client
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(provider *Provider) {
		if httpClient != nil {
			provider.client = httpClient
		}
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(provider *Provider) {
		if baseURL != "" {
			provider.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithMaxTokens overrides the max_tokens field. Non-positive values are ignored.
func WithMaxTokens(maxTokens int) Option {
	return func(provider *Provider) {
		if maxTokens > 0 {
			provider.maxTokens = maxTokens
		}
	}
}

// New creates an Anthropic provider for config. The base URL falls back to
// ANTHROPIC_API_BASE_URL, then to the public endpoint.
func New(config ai.ProviderConfig, opts ...Option) *Provider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("ANTHROPIC_API_BASE_URL")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if config.ID == "" {
		config.ID = ai.ProviderAnthropic
	}

	provider := &Provider{
		config:    config,
		baseURL:   strings.TrimRight(baseURL, "/"),
		maxTokens: defaultMaxTokens,
		client:    &http.Client{},
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider
}

func (provider *Provider) ID() ai.ProviderID { return provider.config.ID }

func (provider *Provider) Name() string { return provider.config.Name }

func (provider *Provider) Config() ai.ProviderConfig { return provider.config }

// Endpoint returns the full URL requests are sent to.
func (provider *Provider) Endpoint() string {
	return provider.baseURL + messagesEndpoint
}

// buildHeaders returns the Anthropic-specific headers. The key is sent even
// when empty so the remote reports the authentication failure.
func (provider *Provider) buildHeaders() []utils.HeaderOption {
	return []utils.HeaderOption{
		{Key: "x-api-key", Value: provider.config.APIKey},
		{Key: "anthropic-version", Value: anthropicVersion},
	}
}
