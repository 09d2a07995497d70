package anthropic

import (
	"encoding/json"
	"fmt"
)

/*
	MESSAGES API - REQUEST TYPES
*/

// messagesRequest is the body POSTed to /messages.
type messagesRequest struct {
	Model     string             `json:"model"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
	Stream    bool               `json:"stream"`
}

// anthropicMessage is a user or assistant turn. System turns never appear
// here.
type anthropicMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

const (
	blockText  = "text"
	blockImage = "image"
)

// contentBlock is either a text block or a base64 image block.
type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text"`
	Source *imageSource `json:"source,omitempty"`
}

// MarshalJSON writes only the fields of the block's type.
func (block contentBlock) MarshalJSON() ([]byte, error) {
	if block.Type == blockImage {
		return json.Marshal(struct {
			Type   string       `json:"type"`
			Source *imageSource `json:"source"`
		}{Type: block.Type, Source: block.Source})
	}
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{Type: block.Type, Text: block.Text})
}

type imageSource struct {
	Type      string `json:"type"` // always "base64"
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

/*
	SSE STREAMING - WIRE TYPES

	Anthropic streaming pairs "event:" lines with "data:" lines. Only the data
	payloads reach the decoder, so the "type" field inside the JSON is the
	discriminator.

	Event lifecycle:
	  message_start → content_block_start → content_block_delta* →
	  content_block_stop → message_delta → message_stop
*/

const (
	eventContentBlockDelta = "content_block_delta"
	eventMessageStop       = "message_stop"
	eventError             = "error"

	deltaText = "text_delta"
)

// streamEvent is the envelope for all streaming payloads. Only the fields
// this client acts on are modelled.
type streamEvent struct {
	Type  string         `json:"type"`
	Delta *streamDelta   `json:"delta,omitempty"` // content_block_delta
	Error *streamFailure `json:"error,omitempty"` // error
}

type streamDelta struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`
}

type streamFailure struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// unmarshalStreamEvent parses a payload. A payload without a type field is
// treated as undecodable.
func unmarshalStreamEvent(payload string) (*streamEvent, error) {
	var event streamEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, err
	}
	if event.Type == "" {
		return nil, fmt.Errorf("missing type field in stream event")
	}
	return &event, nil
}
