package openai

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"strings"
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

func TestRequestFromHistory_TextOnly(t *testing.T) {
	history := []ai.Message{
		ai.NewMessage(ai.RoleSystem, "be brief", nil),
		ai.NewMessage(ai.RoleUser, "Hi", nil),
		ai.NewMessage(ai.RoleAssistant, "Hello", nil),
	}

	request, err := requestFromHistory("gpt-4o", history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !request.Stream || request.Model != "gpt-4o" {
		t.Errorf("unexpected request header fields: %+v", request)
	}
	if len(request.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(request.Messages))
	}
	if request.Messages[0].Role != "system" {
		t.Errorf("system message must stay in the array, got role %q", request.Messages[0].Role)
	}
	for i, message := range request.Messages {
		if len(message.Content) != 1 || message.Content[0].Type != "text" {
			t.Errorf("message %d: expected a single text part, got %+v", i, message.Content)
		}
	}
}

func TestRequestFromHistory_ImageAfterText(t *testing.T) {
	history := []ai.Message{ai.NewMessage(ai.RoleUser, "what is this?", tinyPNG(t))}

	request, err := requestFromHistory("gpt-4o", history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := request.Messages[0].Content
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if parts[0].Type != "text" || parts[0].Text != "what is this?" {
		t.Errorf("expected text part first, got %+v", parts[0])
	}
	if parts[1].Type != "image_url" || parts[1].ImageURL == nil {
		t.Fatalf("expected image_url part second, got %+v", parts[1])
	}
	if !strings.HasPrefix(parts[1].ImageURL.URL, "data:image/jpeg;base64,") {
		t.Errorf("unexpected data URL prefix: %.40s", parts[1].ImageURL.URL)
	}
}

func TestRequestFromHistory_SkipsEmptyAssistantReply(t *testing.T) {
	history := []ai.Message{
		ai.NewMessage(ai.RoleUser, "Hi", nil),
		ai.NewMessage(ai.RoleAssistant, "", nil),
		ai.NewMessage(ai.RoleUser, "Hi again", nil),
	}

	request, err := requestFromHistory("gpt-4o", history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(request.Messages) != 2 {
		t.Fatalf("expected the empty reply to be left out, got %d messages", len(request.Messages))
	}
	for i, message := range request.Messages {
		if message.Role != "user" {
			t.Errorf("message %d: expected role user, got %q", i, message.Role)
		}
	}
}

func TestRequestFromHistory_EmptyTextKeepsTextField(t *testing.T) {
	history := []ai.Message{ai.NewMessage(ai.RoleUser, "", tinyPNG(t))}

	request, err := requestFromHistory("gpt-4o", history)
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

	parts := decoded.Messages[0].Content
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	text, ok := parts[0]["text"]
	if !ok || text != "" {
		t.Errorf("expected text part with an empty text field, got %v", parts[0])
	}
	if _, ok := parts[1]["text"]; ok {
		t.Errorf("image part must not carry a text field, got %v", parts[1])
	}
	if _, ok := parts[1]["image_url"]; !ok {
		t.Errorf("expected image_url field, got %v", parts[1])
	}
}

func TestRequestFromHistory_BadImage(t *testing.T) {
	history := []ai.Message{ai.NewMessage(ai.RoleUser, "x", []byte("garbage"))}

	_, err := requestFromHistory("gpt-4o", history)
	if !errors.Is(err, ai.ErrImageEncoding) {
		t.Errorf("expected ErrImageEncoding, got %v", err)
	}
}

func TestStreamChunk_Fragment(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		ok      bool
	}{
		{name: "content", payload: `{"choices":[{"delta":{"content":"Hi"}}]}`, want: "Hi", ok: true},
		{name: "role only", payload: `{"choices":[{"delta":{"role":"assistant"}}]}`},
		{name: "empty content", payload: `{"choices":[{"delta":{"content":""}}]}`},
		{name: "null content", payload: `{"choices":[{"delta":{"content":null}}]}`},
		{name: "no choices", payload: `{"choices":[]}`},
		{name: "other shape", payload: `{"foo":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk, err := unmarshalStreamChunk(tt.payload)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, ok := chunk.fragment()
			if got != tt.want || ok != tt.ok {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestNew_BaseURLPrecedence(t *testing.T) {
	t.Setenv("OPENAI_API_BASE_URL", "http://env.example/v1")

	fromEnv := New(ai.DefaultConfig(ai.ProviderOpenAI, ""))
	if fromEnv.Endpoint() != "http://env.example/v1/chat/completions" {
		t.Errorf("unexpected endpoint %q", fromEnv.Endpoint())
	}

	config := ai.DefaultConfig(ai.ProviderOpenAI, "")
	config.BaseURL = "http://config.example/v1/"
	fromConfig := New(config)
	if fromConfig.Endpoint() != "http://config.example/v1/chat/completions" {
		t.Errorf("unexpected endpoint %q", fromConfig.Endpoint())
	}

	fromOption := New(config, WithBaseURL("http://option.example"))
	if fromOption.Endpoint() != "http://option.example/chat/completions" {
		t.Errorf("unexpected endpoint %q", fromOption.Endpoint())
	}
}
