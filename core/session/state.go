package session

import (
	"errors"

	"github.com/leofalp/chatstream/providers/ai"
)

var (
	// ErrBusy is returned by Send while a generation is running.
	ErrBusy = errors.New("session: a reply is already being generated")

	// ErrClosed is returned by Send after Close.
	ErrClosed = errors.New("session: closed")
)

// Request is the input of one turn.
type Request struct {
	Text  string
	Image []byte // Raw bitmap bytes; nil when no image is attached
}

// State is an immutable snapshot of the session.
type State struct {
	Conversation []ai.Message
	IsGenerating bool
	LastError    string // Empty when the last generation succeeded
}

// Last returns the last message of the conversation and whether there is one.
func (s State) Last() (ai.Message, bool) {
	if len(s.Conversation) == 0 {
		return ai.Message{}, false
	}
	return s.Conversation[len(s.Conversation)-1], true
}
