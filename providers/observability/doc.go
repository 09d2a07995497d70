// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics and structured logging throughout chatstream.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into a single injectable
// dependency. Callers propagate an active [Provider] and [Span] through a
// [context.Context] with [ContextWithObserver] and [ContextWithSpan]; the
// provider adapters retrieve them with [ObserverFromContext] and
// [SpanFromContext] and stay silent when none is attached.
//
// semconv.go holds the attribute keys, event names and metric names.
package observability
