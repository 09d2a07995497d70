package memory

import (
	"context"
	"errors"

	"github.com/leofalp/chatstream/providers/ai"
)

// ErrNotLast is returned by AppendToLast when the target message is not the
// last one in the store (for example because the history was cleared).
var ErrNotLast = errors.New("message is not the last in the conversation")

// Provider stores one conversation.
type Provider interface {
	// AppendMessage stores a copy of message at the end of the conversation.
	AppendMessage(ctx context.Context, message ai.Message)

	// AppendToLast appends fragment to the content of the last message,
	// provided its ID equals id. Otherwise it returns ErrNotLast and changes
	// nothing.
	AppendToLast(ctx context.Context, id string, fragment string) error

	// AllMessages returns a copy of the conversation in order.
	AllMessages(ctx context.Context) ([]ai.Message, error)

	// Count returns the number of stored messages.
	Count(ctx context.Context) (int, error)

	// ClearMessages empties the conversation.
	ClearMessages(ctx context.Context)
}
