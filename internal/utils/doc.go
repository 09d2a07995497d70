// Package utils provides the low-level plumbing shared by the provider
// adapters: the streaming HTTP POST helper, the "data: " line scanner used to
// read Server-Sent Events bodies, diagnostic decoding of error bodies, and a
// small string truncation helper for log output.
//
// Key entry points: [DoPostStream] together with [LineScanner] for streaming,
// [StatusError] for non-200 responses and [DecodeErrorBody] for turning a
// (possibly truncated) JSON error body into a readable message.
package utils
