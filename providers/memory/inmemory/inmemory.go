package inmemory

import (
	"context"
	"strings"
	"sync"

	"github.com/leofalp/chatstream/providers/ai"
	"github.com/leofalp/chatstream/providers/memory"
	"github.com/leofalp/chatstream/providers/observability"
)

// ArrayMemory is a concurrency-safe in-memory conversation. It uses an
// RWMutex because snapshots (reads) far outnumber appends.
type ArrayMemory struct {
	mu       sync.RWMutex
	messages []ai.Message
}

// New returns a new, empty ArrayMemory.
func New() *ArrayMemory {
	return &ArrayMemory{
		messages: []ai.Message{},
	}
}

var _ memory.Provider = (*ArrayMemory)(nil)

// AppendMessage stores message at the end of the conversation. When a span is
// present in ctx, an event with the role and content length is recorded.
func (m *ArrayMemory) AppendMessage(ctx context.Context, message ai.Message) {
	span := observability.SpanFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventMemoryAppend,
			observability.String(observability.AttrMemoryMessageRole, string(message.Role)),
			observability.Int(observability.AttrMemoryMessageLength, len(message.Content)),
		)
	}

	m.mu.Lock()
	m.messages = append(m.messages, message)
	totalMessages := len(m.messages)
	m.mu.Unlock()

	if span != nil {
		span.SetAttributes(
			observability.Int(observability.AttrMemoryTotalMessages, totalMessages),
		)
	}
}

// AppendToLast grows the last message's content. Content is only ever
// extended, never rewritten.
func (m *ArrayMemory) AppendToLast(_ context.Context, id string, fragment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	last := len(m.messages) - 1
	if last < 0 || m.messages[last].ID != id {
		return memory.ErrNotLast
	}
	if fragment == "" {
		return nil
	}

	var builder strings.Builder
	builder.Grow(len(m.messages[last].Content) + len(fragment))
	builder.WriteString(m.messages[last].Content)
	builder.WriteString(fragment)
	m.messages[last].Content = builder.String()
	return nil
}

// Count returns the number of messages stored. The returned error is always nil.
func (m *ArrayMemory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	n := len(m.messages)
	m.mu.RUnlock()
	return n, nil
}

// AllMessages returns a copy of all messages to avoid external mutation of
// internal state. Image bytes are shared, not copied; they are never mutated.
func (m *ArrayMemory) AllMessages(_ context.Context) ([]ai.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ai.Message, len(m.messages))
	copy(out, m.messages)
	return out, nil
}

// ClearMessages removes all messages while retaining the slice capacity.
func (m *ArrayMemory) ClearMessages(ctx context.Context) {
	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryClear)
	}

	m.mu.Lock()
	clear(m.messages)
	m.messages = m.messages[:0]
	m.mu.Unlock()
}
