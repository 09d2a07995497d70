package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/leofalp/chatstream/internal/utils"
)

var (
	// ErrInvalidCredential is returned when the remote answers 401.
	ErrInvalidCredential = errors.New("invalid API key")

	// ErrRateLimited is returned when the remote answers 429.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidResponse is returned when the transport did not produce a
	// well-formed HTTP response at all.
	ErrInvalidResponse = errors.New("invalid response from provider")

	// ErrCancelled is returned when the caller aborted the stream. It is
	// distinct from a normal, possibly empty, completion.
	ErrCancelled = errors.New("request cancelled")

	// ErrImageEncoding is returned when an attached image cannot be decoded
	// and re-encoded as JPEG.
	ErrImageEncoding = errors.New("image processing failed")
)

// ProviderError reports a non-200 status other than 401/429, or an in-band
// error event. StatusCode is zero for in-band errors.
type ProviderError struct {
	StatusCode int
	Detail     string
	Upstream   string // Message decoded from the error body, if any
}

func (e *ProviderError) Error() string {
	if e.Upstream != "" {
		return fmt.Sprintf("provider error: %s (%s)", e.Detail, e.Upstream)
	}
	return "provider error: " + e.Detail
}

// NewProviderError builds an in-band ProviderError carrying message.
func NewProviderError(message string) *ProviderError {
	return &ProviderError{Detail: message}
}

// ClassifyStatus maps a non-200 status and its drained body to the error
// taxonomy: 401 → ErrInvalidCredential, 429 → ErrRateLimited, anything else →
// *ProviderError carrying the status code.
func ClassifyStatus(statusCode int, body []byte) error {
	upstream := utils.DecodeErrorBody(body)

	switch statusCode {
	case http.StatusUnauthorized:
		if upstream != "" {
			return fmt.Errorf("%w: %s", ErrInvalidCredential, upstream)
		}
		return ErrInvalidCredential
	case http.StatusTooManyRequests:
		if upstream != "" {
			return fmt.Errorf("%w: %s", ErrRateLimited, upstream)
		}
		return ErrRateLimited
	default:
		return &ProviderError{
			StatusCode: statusCode,
			Detail:     fmt.Sprintf("Status code: %d", statusCode),
			Upstream:   upstream,
		}
	}
}

// ClassifyTransport maps an error raised while sending the request or
// reading the body. Context cancellation and deadlines become ErrCancelled
// (the context error stays in the chain); anything else ErrInvalidResponse.
func ClassifyTransport(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCancelled) || errors.Is(err, ErrInvalidResponse) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
}

// ClassifyPostError turns the error of utils.DoPostStream into the taxonomy.
func ClassifyPostError(err error) error {
	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		return ClassifyStatus(statusErr.StatusCode, statusErr.Body)
	}
	return ClassifyTransport(err)
}

// Describe renders err as the short human-readable text shown next to a
// failed reply.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var providerErr *ProviderError
	switch {
	case errors.As(err, &providerErr):
		return providerErr.Error()
	case errors.Is(err, ErrCancelled):
		return ErrCancelled.Error()
	case errors.Is(err, ErrInvalidResponse):
		return ErrInvalidResponse.Error()
	default:
		return err.Error()
	}
}
