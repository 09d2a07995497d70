package ai

import "context"

// Provider is the capability every backend implements.
type Provider interface {
	// ID returns the backend identifier, e.g. "openai".
	ID() ProviderID

	// Name returns the display name.
	Name() string

	// Config returns the immutable configuration the provider was built with.
	Config() ProviderConfig

	// StreamChat sends history to the model and returns the reply as a stream
	// of text fragments. history must not end with the empty assistant
	// placeholder the caller is filling.
	//
	// Failures that happen before any byte of the reply (status codes,
	// transport errors, request encoding) are returned directly; failures
	// after that (in-band error events, read errors, cancellation) are
	// yielded by the stream. Fragments already delivered stay valid.
	// Implementations keep no per-call state, so StreamChat may be called
	// again once a previous stream is finished.
	StreamChat(ctx context.Context, history []Message) (*ChatStream, error)
}
