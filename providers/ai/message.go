package ai

import "github.com/google/uuid"

// MessageRole identifies who authored a conversation turn.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one conversation turn.
//
// Role never changes after creation. Content of system and user messages is
// fixed at creation; an assistant message's Content only grows while the
// stream producing it is running. Image holds raw bitmap bytes (any format
// the image package can decode) and is never serialized.
type Message struct {
	ID      string      `json:"id"`
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
	Image   []byte      `json:"-"`
}

// NewMessage creates a message with a fresh opaque ID.
func NewMessage(role MessageRole, content string, image []byte) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		Image:   image,
	}
}

// HasImage reports whether an image is attached.
func (m Message) HasImage() bool {
	return len(m.Image) > 0
}
