package anthropic

import (
	"fmt"
	"strings"

	"github.com/leofalp/chatstream/providers/ai"
)

// requestFromHistory maps the conversation onto a Messages API request.
// System contents are joined with "\n" into the top-level system field.
// The API rejects empty text blocks, so a message without text sends only its
// image, and a message with neither (a reply that failed before its first
// fragment) is left out.
func requestFromHistory(model string, maxTokens int, history []ai.Message) (messagesRequest, error) {
	var systemParts []string
	messages := make([]anthropicMessage, 0, len(history))

	for i, message := range history {
		if message.Role == ai.RoleSystem {
			systemParts = append(systemParts, message.Content)
			continue
		}

		blocks, err := contentBlocks(message)
		if err != nil {
			return messagesRequest{}, fmt.Errorf("message %d: %w", i, err)
		}
		if len(blocks) == 0 {
			continue
		}
		messages = append(messages, anthropicMessage{
			Role:    string(message.Role),
			Content: blocks,
		})
	}

	return messagesRequest{
		Model:     model,
		System:    strings.Join(systemParts, "\n"),
		Messages:  messages,
		MaxTokens: maxTokens,
		Stream:    true,
	}, nil
}

// contentBlocks puts the image block (if any) before the text block.
func contentBlocks(message ai.Message) ([]contentBlock, error) {
	blocks := make([]contentBlock, 0, 2)

	if message.HasImage() {
		encoded, err := ai.EncodeImageJPEG(message.Image)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, contentBlock{
			Type: blockImage,
			Source: &imageSource{
				Type:      "base64",
				MediaType: ai.JPEGMediaType,
				Data:      encoded,
			},
		})
	}

	if message.Content == "" {
		return blocks, nil
	}
	return append(blocks, contentBlock{Type: blockText, Text: message.Content}), nil
}

func countImages(history []ai.Message) int {
	count := 0
	for _, message := range history {
		if message.HasImage() {
			count++
		}
	}
	return count
}
