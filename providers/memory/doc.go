// Package memory defines the Provider interface for conversation storage.
// A conversation is an ordered list of [ai.Message] values where insertion
// order is chronological and display order. The only in-place mutation is
// appending text to the last message, which is how a streaming assistant
// reply grows.
// The bundled implementation lives in the sibling package
// [github.com/leofalp/chatstream/providers/memory/inmemory].
package memory
