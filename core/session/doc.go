// Package session coordinates one chat conversation against a swappable
// [ai.Provider].
//
// A [Service] owns the conversation and the generation state. [Service.Send]
// appends the user turn and an empty assistant placeholder, streams the reply
// into the placeholder fragment by fragment, and publishes a [State] snapshot
// after every change. Observers read snapshots through [Service.Snapshot] or
// [Service.Subscribe]; they never hold a reference to the live conversation.
//
// At most one generation runs at a time. A second Send while generating is
// rejected with [ErrBusy]. [Service.ClearHistory], [Service.Cancel] and
// [Service.Close] abort the running stream; once aborted, a stream can no
// longer touch the conversation.
//
// Provider failures never escape the service: they end the generation and are
// reported as [State.LastError].
package session
