package openai

import (
	"fmt"

	"github.com/leofalp/chatstream/providers/ai"
)

// requestFromHistory maps the conversation onto a streaming chat request.
// System messages stay in the messages array. The text part always comes
// first; an attached image is appended after it as a JPEG data URL.
// Assistant turns with no content are left out: they are replies that failed
// before their first fragment.
func requestFromHistory(model string, history []ai.Message) (chatRequest, error) {
	messages := make([]chatMessage, 0, len(history))

	for i, message := range history {
		if isEmptyReply(message) {
			continue
		}

		parts := []contentPart{{Type: partText, Text: message.Content}}

		if message.HasImage() {
			encoded, err := ai.EncodeImageJPEG(message.Image)
			if err != nil {
				return chatRequest{}, fmt.Errorf("message %d: %w", i, err)
			}
			parts = append(parts, contentPart{
				Type:     partImageURL,
				ImageURL: &imageURL{URL: ai.ImageDataURL(encoded)},
			})
		}

		messages = append(messages, chatMessage{
			Role:    string(message.Role),
			Content: parts,
		})
	}

	return chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   true,
	}, nil
}

func isEmptyReply(message ai.Message) bool {
	return message.Role == ai.RoleAssistant && message.Content == "" && !message.HasImage()
}

// countImages returns how many messages in history carry an image.
func countImages(history []ai.Message) int {
	count := 0
	for _, message := range history {
		if message.HasImage() {
			count++
		}
	}
	return count
}
