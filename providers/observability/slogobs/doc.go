// Package slogobs provides an observability.Provider backed by log/slog.
// Spans become debug log events, counters and histograms are kept in memory
// (or delegated to another observability.Metrics such as promobs), and the
// Logger methods map onto slog levels, with Trace sitting below Debug.
//
// The main entry point is [New]; tune it with [WithFormat], [WithLevel],
// [WithOutput], [WithLogger] and [WithMetrics], or through the
// CHATSTREAM_LOG_FORMAT and CHATSTREAM_LOG_LEVEL environment variables.
package slogobs
