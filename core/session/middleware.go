package session

import (
	"context"

	"github.com/leofalp/chatstream/providers/ai"
)

// Call describes one provider invocation flowing through the middleware
// chain.
type Call struct {
	Config  ai.ProviderConfig
	History []ai.Message
}

// StreamFunc starts a provider stream. It is the unit threaded through the
// middleware chain.
type StreamFunc func(ctx context.Context, call Call) (*ai.ChatStream, error)

// StreamMiddleware wraps a StreamFunc. It may observe or transform the
// returned stream by wrapping its iterator. Middlewares are applied
// outermost-first: the first in the slice sees the call first.
type StreamMiddleware func(next StreamFunc) StreamFunc

// buildStreamChain wraps a direct call to provider with middlewares.
func buildStreamChain(provider ai.Provider, middlewares []StreamMiddleware) StreamFunc {
	var chain StreamFunc = func(ctx context.Context, call Call) (*ai.ChatStream, error) {
		return provider.StreamChat(ctx, call.History)
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			chain = middlewares[i](chain)
		}
	}

	return chain
}
