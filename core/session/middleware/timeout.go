package middleware

import (
	"context"
	"time"

	"github.com/leofalp/chatstream/core/session"
	"github.com/leofalp/chatstream/providers/ai"
)

// NewTimeoutMiddleware bounds a whole generation, from request to last
// fragment, by timeout. When it fires the provider stream ends with
// ai.ErrCancelled wrapping context.DeadlineExceeded.
func NewTimeoutMiddleware(timeout time.Duration) session.StreamMiddleware {
	return func(next session.StreamFunc) session.StreamFunc {
		return func(ctx context.Context, call session.Call) (*ai.ChatStream, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)

			stream, err := next(ctx, call)
			if err != nil {
				cancel()
				return nil, err
			}

			return wrapStreamWithCancel(stream, cancel), nil
		}
	}
}

// wrapStreamWithCancel releases the timeout context once the stream ends or
// the consumer stops.
func wrapStreamWithCancel(stream *ai.ChatStream, cancel context.CancelFunc) *ai.ChatStream {
	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		defer cancel()

		for event, err := range stream.Iter() {
			if !yield(event, err) {
				return
			}
			if err != nil {
				return
			}
		}
	}

	return ai.NewChatStream(iteratorFunc)
}
