package openai

import (
	"net/http"
	"os"
	"strings"

	"github.com/leofalp/chatstream/providers/ai"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"
	providerLabel           = string(ai.ProviderOpenAI)
)

// Provider implements ai.Provider for the OpenAI chat completions API.
// It holds only immutable configuration, so one instance may serve any
// number of sequential or concurrent calls.
type Provider struct {
	config  ai.ProviderConfig
	baseURL string
	client  *http.Client
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

// WithBaseURL overrides the API base URL, taking precedence over the config
// and the environment.
func WithBaseURL(baseURL string) Option {
	return func(provider *Provider) {
		if baseURL != "" {
			provider.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// New creates an OpenAI provider for config.
func New(config ai.ProviderConfig, opts ...Option) *Provider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_API_BASE_URL")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if config.ID == "" {
		config.ID = ai.ProviderOpenAI
	}

	provider := &Provider{
		config:  config,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
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
	return provider.baseURL + chatCompletionsEndpoint
}
