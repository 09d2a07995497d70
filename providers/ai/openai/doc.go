// Package openai implements [ai.Provider] for OpenAI-compatible chat
// completions endpoints.
//
// The main entry point is [New], which takes an [ai.ProviderConfig] and falls
// back to OPENAI_API_BASE_URL (then the public endpoint) when no base URL is
// configured. [Provider.StreamChat] POSTs the history with stream=true and
// returns an [ai.ChatStream] yielding each content delta as it arrives.
package openai
