package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/leofalp/chatstream/internal/utils"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantIs     error
		wantStatus int
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key"}}`, wantIs: ErrInvalidCredential},
		{name: "unauthorized empty body", status: http.StatusUnauthorized, wantIs: ErrInvalidCredential},
		{name: "rate limited", status: http.StatusTooManyRequests, wantIs: ErrRateLimited},
		{name: "server error", status: http.StatusInternalServerError, wantStatus: 500},
		{name: "forbidden", status: http.StatusForbidden, wantStatus: 403},
		{name: "no content is not success", status: http.StatusNoContent, wantStatus: 204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyStatus(tt.status, []byte(tt.body))
			if tt.wantIs != nil {
				if !errors.Is(err, tt.wantIs) {
					t.Fatalf("expected %v, got %v", tt.wantIs, err)
				}
				return
			}
			var providerErr *ProviderError
			if !errors.As(err, &providerErr) {
				t.Fatalf("expected *ProviderError, got %T", err)
			}
			if providerErr.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, providerErr.StatusCode)
			}
			want := fmt.Sprintf("Status code: %d", tt.wantStatus)
			if providerErr.Detail != want {
				t.Errorf("expected detail %q, got %q", want, providerErr.Detail)
			}
		})
	}
}

func TestClassifyStatus_KeepsUpstreamMessage(t *testing.T) {
	err := ClassifyStatus(http.StatusBadRequest, []byte(`{"error":{"message":"model not found"}}`))

	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected *ProviderError, got %T", err)
	}
	if providerErr.Upstream != "model not found" {
		t.Errorf("expected upstream message, got %q", providerErr.Upstream)
	}
}

func TestClassifyTransport(t *testing.T) {
	if err := ClassifyTransport(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	cancelled := ClassifyTransport(fmt.Errorf("read: %w", context.Canceled))
	if !errors.Is(cancelled, ErrCancelled) || !errors.Is(cancelled, context.Canceled) {
		t.Errorf("expected ErrCancelled wrapping context.Canceled, got %v", cancelled)
	}

	deadline := ClassifyTransport(context.DeadlineExceeded)
	if !errors.Is(deadline, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", deadline)
	}

	broken := ClassifyTransport(io.ErrUnexpectedEOF)
	if !errors.Is(broken, ErrInvalidResponse) || !errors.Is(broken, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrInvalidResponse wrapping the cause, got %v", broken)
	}

	if again := ClassifyTransport(broken); again != broken {
		t.Errorf("expected an already classified error to pass through")
	}
}

func TestClassifyPostError(t *testing.T) {
	err := ClassifyPostError(&utils.StatusError{StatusCode: http.StatusTooManyRequests})
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}

	err = ClassifyPostError(errors.New("dial tcp: connection refused"))
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "credential", err: ErrInvalidCredential, want: "invalid API key"},
		{name: "rate limit", err: ErrRateLimited, want: "rate limit exceeded"},
		{name: "provider", err: &ProviderError{StatusCode: 500, Detail: "Status code: 500"}, want: "provider error: Status code: 500"},
		{name: "in-band", err: NewProviderError("Overloaded"), want: "provider error: Overloaded"},
		{name: "cancelled", err: ClassifyTransport(context.Canceled), want: "request cancelled"},
		{name: "invalid response", err: ClassifyTransport(io.EOF), want: "invalid response from provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
