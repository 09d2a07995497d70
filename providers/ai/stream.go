package ai

import (
	"iter"
	"strings"
)

// StreamEventType identifies the kind of StreamEvent.
type StreamEventType string

const (
	// StreamEventContent carries a text fragment.
	StreamEventContent StreamEventType = "content"
	// StreamEventDone signals that the provider reported a normal end of turn.
	StreamEventDone StreamEventType = "done"
)

// StreamEvent is a single normalized unit yielded while streaming. Failures
// travel through the iterator's error value, not through an event.
type StreamEvent struct {
	Type    StreamEventType `json:"type"`
	Content string          `json:"content,omitempty"`
}

// ChatStream wraps a pull-based iterator of events. The consumer drives it one
// event at a time, which is the backpressure: nothing more is read from the
// network until the previous event has been handled.
//
// Callers must consume the stream, either by ranging over Iter() (breaking out
// early is fine) or by calling Collect. The provider holds the HTTP response
// body open until the iterator returns.
type ChatStream struct {
	iterator iter.Seq2[StreamEvent, error]
}

// NewChatStream creates a ChatStream from a raw iterator. The iterator yields
// events with a nil error, and at most one non-nil error as its last value.
func NewChatStream(iterator iter.Seq2[StreamEvent, error]) *ChatStream {
	return &ChatStream{iterator: iterator}
}

// Iter returns the underlying iterator for use with range-over-func loops.
//
//	for event, err := range stream.Iter() {
//	    if err != nil { handle error }
//	    fmt.Print(event.Content)
//	}
func (stream *ChatStream) Iter() iter.Seq2[StreamEvent, error] {
	return stream.iterator
}

// Fragments returns only the text fragments, in order, followed by the
// terminal error if any.
func (stream *ChatStream) Fragments() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for event, err := range stream.iterator {
			if err != nil {
				yield("", err)
				return
			}
			if event.Type != StreamEventContent {
				continue
			}
			if !yield(event.Content, nil) {
				return
			}
		}
	}
}

// Collect consumes the whole stream and returns the concatenated text. On a
// mid-stream failure the text received so far is returned with the error.
func (stream *ChatStream) Collect() (string, error) {
	var builder strings.Builder
	for fragment, err := range stream.Fragments() {
		if err != nil {
			return builder.String(), err
		}
		builder.WriteString(fragment)
	}
	return builder.String(), nil
}
