package openai

import "encoding/json"

/*
	CHAT COMPLETIONS STREAMING API - REQUEST AND CHUNK TYPES

	Only the fields this client sends or reads are modelled. Chunks carry many
	more fields (id, created, usage, tool calls); they are ignored.
*/

// chatRequest is the body POSTed to /chat/completions.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatMessage is one history entry. Content is always the array-of-parts
// form, even for text-only messages.
type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

const (
	partText     = "text"
	partImageURL = "image_url"
)

// contentPart is either a text part or an image_url part.
type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

// MarshalJSON writes only the fields of the part's type. A text part always
// carries "text", even when empty.
func (part contentPart) MarshalJSON() ([]byte, error) {
	if part.Type == partImageURL {
		return json.Marshal(struct {
			Type     string    `json:"type"`
			ImageURL *imageURL `json:"image_url"`
		}{Type: part.Type, ImageURL: part.ImageURL})
	}
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{Type: part.Type, Text: part.Text})
}

type imageURL struct {
	URL string `json:"url"`
}

// streamChunk is a single SSE payload from a streaming completion.
type streamChunk struct {
	Choices []streamChoice `json:"choices"`
}

type streamChoice struct {
	Delta streamDelta `json:"delta"`
}

// streamDelta carries the incremental content. Content is nullable: role-only
// and finish chunks leave it absent.
type streamDelta struct {
	Content *string `json:"content,omitempty"`
}

// unmarshalStreamChunk parses a raw SSE data payload.
func unmarshalStreamChunk(data string) (*streamChunk, error) {
	var chunk streamChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return nil, err
	}
	return &chunk, nil
}

// fragment returns the text of the first choice's delta, if any.
func (chunk *streamChunk) fragment() (string, bool) {
	if len(chunk.Choices) == 0 {
		return "", false
	}
	content := chunk.Choices[0].Delta.Content
	if content == nil || *content == "" {
		return "", false
	}
	return *content, true
}
