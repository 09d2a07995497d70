// Package anthropic implements [ai.Provider] for the Anthropic Messages API.
//
// System messages are lifted out of the history into the top-level system
// field; every other message is sent with its image part (if any) ahead of
// its text. The credential travels in the x-api-key header, never as a Bearer
// token. [Provider.StreamChat] dispatches each SSE payload on its "type" field
// and yields text deltas until message_stop.
package anthropic
