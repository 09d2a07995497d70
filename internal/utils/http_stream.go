package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/leofalp/chatstream/providers/observability"
)

// maxResponseBodySize caps how much of a non-200 body is drained for
// diagnostics (10 MB).
const maxResponseBodySize int64 = 10 * 1024 * 1024

// HeaderOption is an extra request header applied after the defaults.
type HeaderOption struct {
	Key   string
	Value string
}

// StatusError is returned by [DoPostStream] when the server answers with
// anything other than 200 OK. The body has already been drained (up to the
// size cap) and closed.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, TruncateString(string(e.Body), DefaultMaxStringLength))
}

// DoPostStream performs an HTTP POST with a JSON body and returns the response
// with its body left open for line-by-line reading. The caller must close the
// body once done.
//
// When apiKey is non-empty it is sent as a Bearer token; providers with their
// own auth scheme pass "" and supply headers instead. Only 200 counts as
// success: any other status drains and closes the body and returns a
// *StatusError. Transport failures are returned wrapped, with a nil response.
func DoPostStream(ctx context.Context, client *http.Client, url string, apiKey string, body any, headers ...HeaderOption) (*http.Response, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error marshaling body: %w", err)
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPRequestPrepared,
			observability.String(observability.AttrHTTPMethod, http.MethodPost),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	requestStart := time.Now()
	response, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		if span != nil {
			span.AddEvent(observability.EventHTTPRequestError,
				observability.Error(err),
				observability.Duration(observability.AttrHTTPDuration, requestDuration),
			)
		}
		return nil, fmt.Errorf("error sending stream request: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		defer CloseWithLog(response.Body)
		errorBody, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
		if readErr != nil {
			slog.Warn("failed to read error body", "error", readErr.Error(), "url", url)
		}

		if observer != nil {
			observer.Warn(ctx, "provider returned error status",
				observability.Int(observability.AttrHTTPStatusCode, response.StatusCode),
				observability.String(observability.AttrHTTPURL, url),
				observability.String(observability.AttrHTTPResponseBody, TruncateString(string(errorBody), DefaultMaxStringLength)),
			)
		}
		return nil, &StatusError{StatusCode: response.StatusCode, Body: errorBody}
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPStreamStarted,
			observability.Int(observability.AttrHTTPStatusCode, response.StatusCode),
			observability.Duration(observability.AttrHTTPDuration, requestDuration),
		)
	}

	return response, nil
}

// CloseWithLog closes closer and logs, rather than returns, a failure.
func CloseWithLog(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
