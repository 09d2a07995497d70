package anthropic

import (
	"context"
	"io"

	"github.com/leofalp/chatstream/internal/utils"
	"github.com/leofalp/chatstream/providers/ai"
	"github.com/leofalp/chatstream/providers/observability"
)

// StreamChat implements ai.Provider for the Messages API with stream=true.
func (provider *Provider) StreamChat(ctx context.Context, history []ai.Message) (*ai.ChatStream, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)
	model := provider.config.Model

	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart)
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, providerLabel),
			observability.String(observability.AttrLLMEndpoint, provider.baseURL),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrLLMMaxTokens, provider.maxTokens),
			observability.Bool(observability.AttrLLMStreaming, true),
		)
	}

	if observer != nil {
		observer.Trace(ctx, "Anthropic provider preparing streaming request",
			observability.String(observability.AttrLLMProvider, providerLabel),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(history)),
			observability.Int(observability.AttrRequestImagesCount, countImages(history)),
		)
	}

	request, err := requestFromHistory(model, provider.maxTokens, history)
	if err != nil {
		return nil, err
	}

	// Anthropic authenticates via x-api-key, so no Bearer key is passed.
	httpResponse, err := utils.DoPostStream(ctx, provider.client, provider.Endpoint(), "", request, provider.buildHeaders()...)
	if err != nil {
		if observer != nil {
			observer.Debug(ctx, "Streaming HTTP request failed", observability.Error(err))
		}
		return nil, ai.ClassifyPostError(err)
	}

	lineScanner := utils.NewLineScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

		fragments := 0
		defer func() {
			if span != nil {
				span.AddEvent(observability.EventLLMStreamEnd,
					observability.Int(observability.AttrStreamFragments, fragments),
					observability.Int(observability.AttrStreamSkippedLines, lineScanner.Skipped()),
				)
			}
		}()

		for {
			if ctxErr := ctx.Err(); ctxErr != nil {
				yield(ai.StreamEvent{}, ai.ClassifyTransport(ctxErr))
				return
			}

			payload, scanErr := lineScanner.Next()
			if scanErr == io.EOF {
				yield(ai.StreamEvent{Type: ai.StreamEventDone}, nil)
				return
			}
			if scanErr != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					scanErr = ctxErr
				}
				yield(ai.StreamEvent{}, ai.ClassifyTransport(scanErr))
				return
			}

			event, parseErr := unmarshalStreamEvent(payload)
			if parseErr != nil {
				dropLine(ctx, observer, payload, parseErr)
				continue
			}

			switch event.Type {
			case eventContentBlockDelta:
				if event.Delta == nil || event.Delta.Type != deltaText || event.Delta.Text == "" {
					continue
				}
				fragments++
				if !yield(ai.StreamEvent{Type: ai.StreamEventContent, Content: event.Delta.Text}, nil) {
					return
				}

			case eventMessageStop:
				yield(ai.StreamEvent{Type: ai.StreamEventDone}, nil)
				return

			case eventError:
				message := "unknown stream error"
				if event.Error != nil && event.Error.Message != "" {
					message = event.Error.Message
				}
				if observer != nil {
					observer.Warn(ctx, "Anthropic stream reported an error",
						observability.String(observability.AttrLLMProvider, providerLabel),
						observability.String(observability.AttrError, message),
					)
				}
				yield(ai.StreamEvent{}, ai.NewProviderError(message))
				return

			default:
				// message_start, ping, content_block_start/stop, message_delta
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// dropLine records a payload line that could not be decoded.
func dropLine(ctx context.Context, observer observability.Provider, payload string, cause error) {
	observability.CountFromContext(ctx, observability.MetricLinesDropped, 1,
		observability.String(observability.AttrLLMProvider, providerLabel),
		observability.String(observability.AttrStreamDropReason, "malformed"),
	)
	if observer != nil {
		observer.Debug(ctx, "Dropping undecodable stream payload",
			observability.String(observability.AttrLLMProvider, providerLabel),
			observability.String(observability.AttrStreamPayload, utils.TruncateString(payload, utils.DefaultMaxStringLength)),
			observability.Error(cause),
		)
	}
}
