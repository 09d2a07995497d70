package anthropic

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/leofalp/chatstream/providers/ai"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buffer.Bytes()
}

func TestRequestFromHistory_SystemExtraction(t *testing.T) {
	history := []ai.Message{
		ai.NewMessage(ai.RoleSystem, "be brief", nil),
		ai.NewMessage(ai.RoleUser, "Hi", nil),
		ai.NewMessage(ai.RoleSystem, "be kind", nil),
		ai.NewMessage(ai.RoleAssistant, "Hello", nil),
	}

	request, err := requestFromHistory("claude", 1024, history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if request.System != "be brief\nbe kind" {
		t.Errorf("unexpected system %q", request.System)
	}
	if len(request.Messages) != 2 {
		t.Fatalf("expected 2 non-system messages, got %d", len(request.Messages))
	}
	if request.Messages[0].Role != "user" || request.Messages[1].Role != "assistant" {
		t.Errorf("unexpected roles: %+v", request.Messages)
	}
}

func TestRequestFromHistory_NoSystemOmitsField(t *testing.T) {
	request, err := requestFromHistory("claude", 1024, []ai.Message{ai.NewMessage(ai.RoleUser, "Hi", nil)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.System != "" {
		t.Errorf("expected empty system, got %q", request.System)
	}
}

func TestRequestFromHistory_ImageBeforeText(t *testing.T) {
	history := []ai.Message{ai.NewMessage(ai.RoleUser, "describe", tinyPNG(t))}

	request, err := requestFromHistory("claude", 1024, history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	blocks := request.Messages[0].Content
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Type != "image" || blocks[0].Source == nil {
		t.Fatalf("expected image block first, got %+v", blocks[0])
	}
	if blocks[0].Source.Type != "base64" || blocks[0].Source.MediaType != "image/jpeg" || blocks[0].Source.Data == "" {
		t.Errorf("unexpected image source %+v", blocks[0].Source)
	}
	if blocks[1].Type != "text" || blocks[1].Text != "describe" {
		t.Errorf("expected text block second, got %+v", blocks[1])
	}
}

func TestRequestFromHistory_SkipsEmptyAssistantReply(t *testing.T) {
	history := []ai.Message{
		ai.NewMessage(ai.RoleUser, "Hi", nil),
		ai.NewMessage(ai.RoleAssistant, "", nil),
		ai.NewMessage(ai.RoleUser, "Hi again", nil),
	}

	request, err := requestFromHistory("claude", 1024, history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(request.Messages) != 2 {
		t.Fatalf("expected the empty reply to be left out, got %d messages", len(request.Messages))
	}
	for i, message := range request.Messages {
		if message.Role != "user" || len(message.Content) != 1 || message.Content[0].Text == "" {
			t.Errorf("message %d: unexpected %+v", i, message)
		}
	}
}

func TestRequestFromHistory_ImageWithoutText(t *testing.T) {
	history := []ai.Message{ai.NewMessage(ai.RoleUser, "", tinyPNG(t))}

	request, err := requestFromHistory("claude", 1024, history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Messages []struct {
			Content []map[string]any `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	blocks := decoded.Messages[0].Content
	if len(blocks) != 1 {
		t.Fatalf("expected only the image block, got %v", blocks)
	}
	if blocks[0]["type"] != "image" {
		t.Errorf("expected image block, got %v", blocks[0])
	}
	if _, ok := blocks[0]["text"]; ok {
		t.Errorf("image block must not carry a text field, got %v", blocks[0])
	}
}

func TestContentBlock_TextAlwaysSerialized(t *testing.T) {
	body, err := json.Marshal(contentBlock{Type: blockText})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(body) != `{"type":"text","text":""}` {
		t.Errorf("unexpected block JSON %s", body)
	}
}

func TestRequestFromHistory_BadImage(t *testing.T) {
	_, err := requestFromHistory("claude", 1024, []ai.Message{ai.NewMessage(ai.RoleUser, "x", []byte{0xff})})
	if !errors.Is(err, ai.ErrImageEncoding) {
		t.Errorf("expected ErrImageEncoding, got %v", err)
	}
}

func TestUnmarshalStreamEvent(t *testing.T) {
	event, err := unmarshalStreamEvent(`{"type":"content_block_delta","delta":{"type":"text_delta","text":"Hi"}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Delta == nil || event.Delta.Text != "Hi" {
		t.Errorf("unexpected event %+v", event)
	}

	if _, err := unmarshalStreamEvent(`{"delta":{}}`); err == nil {
		t.Error("expected an error for a payload without type")
	}
	if _, err := unmarshalStreamEvent(`garbage`); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestNew_Options(t *testing.T) {
	provider := New(ai.DefaultConfig(ai.ProviderAnthropic, "k"), WithMaxTokens(2048), WithMaxTokens(0))
	if provider.maxTokens != 2048 {
		t.Errorf("expected 2048, got %d", provider.maxTokens)
	}
	if provider.ID() != ai.ProviderAnthropic || provider.Name() != "Anthropic Claude 3.5 Sonnet" {
		t.Errorf("unexpected identity %s / %s", provider.ID(), provider.Name())
	}
}
