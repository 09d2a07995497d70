package session

import (
	"github.com/leofalp/chatstream/providers/memory"
	"github.com/leofalp/chatstream/providers/observability"
)

// Option configures a Service.
type Option func(*Service)

// WithSystemPrompt sends a system message ahead of the conversation on every
// call. It is not part of the displayed conversation.
func WithSystemPrompt(prompt string) Option {
	return func(s *Service) {
		s.systemPrompt = prompt
	}
}

// WithMemory replaces the default in-memory conversation store.
func WithMemory(store memory.Provider) Option {
	return func(s *Service) {
		if store != nil {
			s.memory = store
		}
	}
}

// WithMiddleware appends stream middlewares. The first one given is the
// outermost.
func WithMiddleware(middlewares ...StreamMiddleware) Option {
	return func(s *Service) {
		s.middlewares = append(s.middlewares, middlewares...)
	}
}

// WithObserver enables tracing, logging and metrics for every generation.
func WithObserver(observer observability.Provider) Option {
	return func(s *Service) {
		s.observer = observer
	}
}
