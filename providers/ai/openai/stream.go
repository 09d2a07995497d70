package openai

import (
	"context"
	"io"

	"github.com/leofalp/chatstream/internal/utils"
	"github.com/leofalp/chatstream/providers/ai"
	"github.com/leofalp/chatstream/providers/observability"
)

const doneSentinel = "[DONE]"

// StreamChat implements ai.Provider. It sends history with stream=true and
// returns a ChatStream that yields each content delta as its SSE line
// arrives. An empty API key sends no Authorization header; the remote
// answers 401.
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
			observability.Bool(observability.AttrLLMStreaming, true),
		)
	}

	if observer != nil {
		observer.Trace(ctx, "OpenAI provider preparing streaming request",
			observability.String(observability.AttrLLMProvider, providerLabel),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(history)),
			observability.Int(observability.AttrRequestImagesCount, countImages(history)),
		)
	}

	request, err := requestFromHistory(model, history)
	if err != nil {
		return nil, err
	}

	httpResponse, err := utils.DoPostStream(ctx, provider.client, provider.Endpoint(), provider.config.APIKey, request)
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

			if payload == doneSentinel {
				continue
			}

			chunk, parseErr := unmarshalStreamChunk(payload)
			if parseErr != nil {
				dropLine(ctx, observer, payload, parseErr)
				continue
			}

			text, ok := chunk.fragment()
			if !ok {
				continue
			}

			fragments++
			if !yield(ai.StreamEvent{Type: ai.StreamEventContent, Content: text}, nil) {
				return
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// dropLine records a payload line that could not be decoded. The stream
// carries on with the next line.
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
