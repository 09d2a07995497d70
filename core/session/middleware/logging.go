package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/leofalp/chatstream/core/session"
	"github.com/leofalp/chatstream/internal/utils"
	"github.com/leofalp/chatstream/providers/ai"
)

// LogLevel controls how much detail the logging middleware records.
type LogLevel int

const (
	// LogLevelMinimal logs provider, model and duration only.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds message and fragment counts.
	LogLevelStandard

	// LogLevelVerbose adds truncated prompt and reply text.
	LogLevelVerbose
)

// NewLoggingMiddleware logs the start and the end (completed, failed or
// abandoned) of every generation to logger.
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) session.StreamMiddleware {
	return func(next session.StreamFunc) session.StreamFunc {
		return func(ctx context.Context, call session.Call) (*ai.ChatStream, error) {
			logger.InfoContext(ctx, "llm stream", buildCallAttrs(call, level)...)

			start := time.Now()
			stream, err := next(ctx, call)
			if err != nil {
				logger.ErrorContext(ctx, "llm stream failed",
					slog.String("provider", string(call.Config.ID)),
					slog.Duration("duration", time.Since(start)),
					slog.String("error", err.Error()),
				)
				return nil, err
			}

			return wrapStreamWithLogging(ctx, stream, logger, call.Config, level, start), nil
		}
	}
}

func wrapStreamWithLogging(
	ctx context.Context,
	stream *ai.ChatStream,
	logger *slog.Logger,
	config ai.ProviderConfig,
	level LogLevel,
	start time.Time,
) *ai.ChatStream {
	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		fragments := 0
		var reply strings.Builder

		for event, err := range stream.Iter() {
			if err != nil {
				logger.ErrorContext(ctx, "llm stream failed",
					slog.String("provider", string(config.ID)),
					slog.Duration("duration", time.Since(start)),
					slog.Int("fragments", fragments),
					slog.String("error", err.Error()),
				)
				yield(event, err)
				return
			}

			if event.Type == ai.StreamEventContent {
				fragments++
				if level >= LogLevelVerbose && reply.Len() < utils.DefaultMaxStringLength {
					reply.WriteString(event.Content)
				}
			}

			if !yield(event, nil) {
				logger.InfoContext(ctx, "llm stream abandoned",
					slog.String("provider", string(config.ID)),
					slog.Duration("duration", time.Since(start)),
				)
				return
			}
		}

		attrs := []any{
			slog.String("provider", string(config.ID)),
			slog.String("model", config.Model),
			slog.Duration("duration", time.Since(start)),
		}
		if level >= LogLevelStandard {
			attrs = append(attrs, slog.Int("fragments", fragments))
		}
		if level >= LogLevelVerbose {
			attrs = append(attrs, slog.String("reply", utils.TruncateString(reply.String(), utils.DefaultMaxStringLength)))
		}

		logger.InfoContext(ctx, "llm stream completed", attrs...)
	}

	return ai.NewChatStream(iteratorFunc)
}

func buildCallAttrs(call session.Call, level LogLevel) []any {
	attrs := []any{
		slog.String("provider", string(call.Config.ID)),
		slog.String("model", call.Config.Model),
	}

	if level >= LogLevelStandard {
		attrs = append(attrs, slog.Int("message_count", len(call.History)))
	}

	if level >= LogLevelVerbose && len(call.History) > 0 {
		last := call.History[len(call.History)-1]
		attrs = append(attrs,
			slog.String("last_message_role", string(last.Role)),
			slog.String("last_message_content", utils.TruncateString(last.Content, utils.DefaultMaxStringLength)),
			slog.Bool("last_message_image", last.HasImage()),
		)
	}

	return attrs
}
