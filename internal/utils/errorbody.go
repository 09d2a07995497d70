package utils

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// errorEnvelope covers the error body shapes returned by the supported APIs:
//
//	OpenAI:    {"error": {"message": "...", "type": "...", "code": "..."}}
//	Anthropic: {"type": "error", "error": {"type": "...", "message": "..."}}
type errorEnvelope struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// DecodeErrorBody extracts the human-readable message from a provider error
// body. Bodies are read through a size cap, so a large one may arrive cut off
// mid-document; when plain decoding fails the body is passed through
// jsonrepair and decoded again. An empty string is returned when no message
// can be recovered.
func DecodeErrorBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var envelope errorEnvelope
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(trimmed)
		if repairErr != nil {
			return ""
		}
		envelope = errorEnvelope{}
		if err := json.Unmarshal([]byte(repaired), &envelope); err != nil {
			return ""
		}
	}

	if envelope.Error != nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return envelope.Message
}
