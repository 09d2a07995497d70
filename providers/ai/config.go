package ai

import "fmt"

// ProviderID names one of the supported backends. The set is closed: adding a
// backend means adding a constant here and an adapter package.
type ProviderID string

const (
	ProviderOpenAI    ProviderID = "openai"
	ProviderAnthropic ProviderID = "anthropic"
)

// ProviderIDs lists every supported backend.
func ProviderIDs() []ProviderID {
	return []ProviderID{ProviderOpenAI, ProviderAnthropic}
}

// ParseProviderID validates s as a ProviderID.
func ParseProviderID(s string) (ProviderID, error) {
	for _, id := range ProviderIDs() {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// ProviderConfig is the immutable identity of a provider instance. Switching
// providers replaces the whole value; fields are never edited in place.
//
// An empty APIKey is a valid configuration: the request is still sent and the
// remote service answers with an authentication error.
type ProviderConfig struct {
	ID      ProviderID
	Name    string // Display name
	APIKey  string
	Model   string
	BaseURL string // Optional; empty means the provider's public endpoint
}

// DefaultConfig returns the stock name and model for id, with the given key.
func DefaultConfig(id ProviderID, apiKey string) ProviderConfig {
	switch id {
	case ProviderAnthropic:
		return ProviderConfig{ID: id, Name: "Anthropic Claude 3.5 Sonnet", APIKey: apiKey, Model: "claude-3-5-sonnet-20240620"}
	default:
		return ProviderConfig{ID: ProviderOpenAI, Name: "OpenAI GPT-4o", APIKey: apiKey, Model: "gpt-4o"}
	}
}

// WithModel returns a copy of c using model; an empty model keeps the current one.
func (c ProviderConfig) WithModel(model string) ProviderConfig {
	if model != "" {
		c.Model = model
	}
	return c
}
