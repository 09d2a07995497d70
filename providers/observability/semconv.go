package observability

// Semantic conventions for observability attributes, events and metrics.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the provider id ("openai", "anthropic")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMStreaming marks a streaming call
	AttrLLMStreaming = "llm.streaming"

	// AttrLLMMaxTokens is the maximum tokens allowed
	AttrLLMMaxTokens = "llm.max_tokens" // #nosec G101 -- Not a credential
)

// --- Request / Stream Attributes ---

const (
	AttrRequestMessagesCount = "request.messages_count"
	AttrRequestImagesCount   = "request.images_count"
	AttrStreamFragments      = "stream.fragments"
	AttrStreamDropReason     = "stream.drop_reason"
	AttrStreamOutcome        = "stream.outcome"
	AttrStreamSkippedLines   = "stream.skipped_lines"
	AttrStreamPayload        = "stream.payload"
)

// --- HTTP Attributes ---

const (
	AttrHTTPMethod          = "http.method"
	AttrHTTPStatusCode      = "http.status_code"
	AttrHTTPURL             = "http.url"
	AttrHTTPRequestBodySize = "http.request.body.size"
	AttrHTTPResponseBody    = "http.response.body"
	AttrHTTPDuration        = "http.request.duration"
)

// --- Memory Attributes ---

const (
	AttrMemoryMessageRole   = "memory.message.role"
	AttrMemoryMessageLength = "memory.message.length"
	AttrMemoryTotalMessages = "memory.total_messages"
)

// --- Session Attributes ---

const (
	AttrSessionOutcome       = "session.outcome"
	AttrDuration             = "duration"
	AttrFirstFragmentLatency = "session.first_fragment.latency"
)

// --- Status / Error ---

const (
	AttrError             = "error"
	AttrStatus            = "status"
	AttrStatusDescription = "status.description"
)

// --- Span & Event names ---

const (
	SpanGeneration = "chatstream.generation"

	EventLLMRequestStart      = "llm.request.start"
	EventLLMStreamEnd         = "llm.stream.end"
	EventHTTPRequestPrepared  = "http.stream_request.prepared"
	EventHTTPRequestError     = "http.stream_request.error"
	EventHTTPStreamStarted    = "http.stream_response.started"
	EventSessionFirstFragment = "session.first_fragment"
	EventMemoryAppend         = "memory.append"
	EventMemoryClear          = "memory.clear"
)

// --- Metric names ---

const (
	// MetricLinesDropped counts payload lines a provider could not use
	// (undecodable JSON or an unexpected shape).
	MetricLinesDropped = "chatstream.stream.lines_dropped"

	// MetricFragments counts text fragments yielded by providers.
	MetricFragments = "chatstream.stream.fragments"

	// MetricGenerations counts finished generations, labelled by outcome.
	MetricGenerations = "chatstream.session.generations"

	// MetricGenerationSeconds records generation wall time.
	MetricGenerationSeconds = "chatstream.session.generation_seconds"
)
