// Package ai defines the provider-agnostic types shared by every backend:
// the conversation [Message], the immutable [ProviderConfig], the [Provider]
// capability contract, the pull-based [ChatStream] of text fragments and the
// classified error taxonomy ([ErrInvalidCredential], [ErrRateLimited],
// [ProviderError], [ErrInvalidResponse], [ErrCancelled]).
//
// Each adapter under providers/ai/... maps these types onto its own wire
// format, so the session layer never sees provider-specific details.
package ai
