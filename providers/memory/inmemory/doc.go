// Package inmemory provides a concurrency-safe, slice-backed implementation
// of [memory.Provider] for a single process. The main entry point is [New].
package inmemory
