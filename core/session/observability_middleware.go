package session

import (
	"context"
	"errors"
	"time"

	"github.com/leofalp/chatstream/providers/ai"
	"github.com/leofalp/chatstream/providers/observability"
)

// Generation outcomes used as metric and span labels.
const (
	outcomeOK        = "ok"
	outcomeError     = "error"
	outcomeCancelled = "cancelled"
	outcomeAbandoned = "abandoned"
)

// NewObservabilityMiddleware records a span, logs and metrics for every
// generation. The span and observer are put into the context before calling
// next so providers can enrich them. Completion metrics are recorded when the
// stream finishes, not when it starts.
//
// It is prepended automatically by [New] when [WithObserver] is given, so it
// observes the final outcome after every other middleware.
func NewObservabilityMiddleware(observer observability.Provider) StreamMiddleware {
	return func(next StreamFunc) StreamFunc {
		return func(ctx context.Context, call Call) (*ai.ChatStream, error) {
			providerAttr := observability.String(observability.AttrLLMProvider, string(call.Config.ID))
			modelAttr := observability.String(observability.AttrLLMModel, call.Config.Model)

			ctx, span := observer.StartSpan(ctx, observability.SpanGeneration, providerAttr, modelAttr)
			ctx = observability.ContextWithSpan(ctx, span)
			ctx = observability.ContextWithObserver(ctx, observer)

			observer.Debug(ctx, "generation started",
				providerAttr, modelAttr,
				observability.Int(observability.AttrRequestMessagesCount, len(call.History)),
			)

			start := time.Now()
			stream, err := next(ctx, call)
			if err != nil {
				finishGeneration(ctx, observer, span, start, 0, err, false, providerAttr)
				return nil, err
			}

			iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
				fragments := 0
				for event, streamErr := range stream.Iter() {
					if streamErr != nil {
						finishGeneration(ctx, observer, span, start, fragments, streamErr, false, providerAttr)
						yield(event, streamErr)
						return
					}

					if event.Type == ai.StreamEventContent {
						if fragments == 0 {
							span.AddEvent(observability.EventSessionFirstFragment,
								observability.Duration(observability.AttrFirstFragmentLatency, time.Since(start)),
							)
						}
						fragments++
						observer.Counter(observability.MetricFragments).Add(ctx, 1, providerAttr)
					}

					if !yield(event, nil) {
						finishGeneration(ctx, observer, span, start, fragments, nil, true, providerAttr)
						return
					}
				}
				finishGeneration(ctx, observer, span, start, fragments, nil, false, providerAttr)
			}

			return ai.NewChatStream(iteratorFunc), nil
		}
	}
}

func finishGeneration(
	ctx context.Context,
	observer observability.Provider,
	span observability.Span,
	start time.Time,
	fragments int,
	err error,
	abandoned bool,
	providerAttr observability.Attribute,
) {
	elapsed := time.Since(start)
	outcome := outcomeOK

	switch {
	case abandoned:
		outcome = outcomeAbandoned
	case errors.Is(err, ai.ErrCancelled):
		outcome = outcomeCancelled
	case err != nil:
		outcome = outcomeError
	}

	outcomeAttr := observability.String(observability.AttrStreamOutcome, outcome)
	span.SetAttributes(outcomeAttr, observability.Int(observability.AttrStreamFragments, fragments))

	if err != nil && outcome == outcomeError {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "generation failed")
		observer.Error(ctx, "generation failed",
			providerAttr,
			observability.Error(err),
			observability.Duration(observability.AttrDuration, elapsed),
		)
	} else {
		span.SetStatus(observability.StatusOK, "")
		observer.Info(ctx, "generation finished",
			providerAttr,
			outcomeAttr,
			observability.Int(observability.AttrStreamFragments, fragments),
			observability.Duration(observability.AttrDuration, elapsed),
		)
	}
	span.End()

	observer.Counter(observability.MetricGenerations).Add(ctx, 1, providerAttr, outcomeAttr)
	observer.Histogram(observability.MetricGenerationSeconds).Record(ctx, elapsed.Seconds(), providerAttr)
}
