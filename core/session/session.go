package session

import (
	"context"
	"slices"
	"sync"

	"github.com/leofalp/chatstream/providers/ai"
	"github.com/leofalp/chatstream/providers/memory"
	"github.com/leofalp/chatstream/providers/memory/inmemory"
	"github.com/leofalp/chatstream/providers/observability"
)

// Service is the chat session coordinator. All mutations of the
// conversation and generation state happen under mu; the provider stream
// itself never touches session state.
type Service struct {
	mu sync.Mutex

	provider     ai.Provider
	memory       memory.Provider
	systemPrompt string
	middlewares  []StreamMiddleware
	observer     observability.Provider

	generating bool
	lastError  string
	closed     bool

	// generation identifies the running stream. Aborting bumps it, so a
	// stream still winding down can no longer apply fragments or report.
	generation uint64
	cancel     context.CancelFunc

	subscribers map[uint64]chan State
	nextSubID   uint64
}

// New creates an idle session with an empty conversation.
func New(provider ai.Provider, opts ...Option) *Service {
	s := &Service{
		provider:    provider,
		memory:      inmemory.New(),
		subscribers: make(map[uint64]chan State),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.observer != nil {
		s.middlewares = append([]StreamMiddleware{NewObservabilityMiddleware(s.observer)}, s.middlewares...)
	}
	return s
}

// Provider returns the active provider.
func (s *Service) Provider() ai.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}

// SetProvider replaces the active provider. A stream already running keeps
// the provider it started with; the next Send uses the new one.
func (s *Service) SetProvider(provider ai.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = provider
}

// Send runs one turn: it appends the user message and an empty assistant
// placeholder, then streams the reply into the placeholder. It blocks until
// the stream ends or is aborted.
//
// Provider failures are not returned; they end the generation with
// State.LastError set and the partial reply kept. Send only returns ErrBusy
// (a generation is running, nothing changes) or ErrClosed.
func (s *Service) Send(ctx context.Context, request Request) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.generating {
		s.mu.Unlock()
		return ErrBusy
	}

	s.memory.AppendMessage(ctx, ai.NewMessage(ai.RoleUser, request.Text, request.Image))
	history, err := s.memory.AllMessages(ctx)
	if err != nil {
		s.lastError = err.Error()
		s.publishLocked(ctx)
		s.mu.Unlock()
		return nil
	}

	placeholder := ai.NewMessage(ai.RoleAssistant, "", nil)
	s.memory.AppendMessage(ctx, placeholder)

	generationCtx, cancel := context.WithCancel(ctx)
	s.generation++
	token := s.generation
	s.cancel = cancel
	s.generating = true
	s.lastError = ""

	provider := s.provider
	chain := buildStreamChain(provider, s.middlewares)
	call := Call{Config: provider.Config(), History: s.withSystemPrompt(history)}

	s.publishLocked(ctx)
	s.mu.Unlock()

	defer cancel()

	streamErr := s.stream(generationCtx, chain, call, token, placeholder.ID)
	s.finish(ctx, token, streamErr)
	return nil
}

// stream pulls fragments one at a time and applies each before reading the
// next. It stops early, without error, when the generation was aborted.
func (s *Service) stream(ctx context.Context, chain StreamFunc, call Call, token uint64, placeholderID string) error {
	chatStream, err := chain(ctx, call)
	if err != nil {
		return err
	}

	for event, streamErr := range chatStream.Iter() {
		if streamErr != nil {
			return streamErr
		}
		if event.Type != ai.StreamEventContent {
			continue
		}
		if !s.applyFragment(ctx, token, placeholderID, event.Content) {
			return nil
		}
	}
	return nil
}

// applyFragment appends fragment to the placeholder and publishes. It
// reports false when the generation is no longer current.
func (s *Service) applyFragment(ctx context.Context, token uint64, placeholderID, fragment string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation || !s.generating {
		return false
	}
	if err := s.memory.AppendToLast(ctx, placeholderID, fragment); err != nil {
		return false
	}
	s.publishLocked(ctx)
	return true
}

// finish returns the session to idle unless the generation was already
// aborted, in which case the abort owns the final state.
func (s *Service) finish(ctx context.Context, token uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation || !s.generating {
		return
	}

	s.generating = false
	s.cancel = nil
	if err != nil {
		s.lastError = ai.Describe(err)
	}
	s.publishLocked(ctx)
}

// ClearHistory aborts any running stream, empties the conversation, clears
// the error and leaves the session idle.
func (s *Service) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	s.abortLocked()
	s.memory.ClearMessages(ctx)
	s.lastError = ""
	s.publishLocked(ctx)
}

// Cancel aborts the running stream, keeping the partial reply. It is a no-op
// when idle.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.generating {
		return
	}
	s.abortLocked()
	s.lastError = ai.Describe(ai.ErrCancelled)
	s.publishLocked(context.Background())
}

// Close aborts the running stream and closes every subscription. Later
// Sends return ErrClosed. Close is idempotent.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.abortLocked()
	for id, subscriber := range s.subscribers {
		close(subscriber)
		delete(s.subscribers, id)
	}
}

func (s *Service) abortLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.generating = false
}

// Snapshot returns the current state.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(context.Background())
}

// Subscribe returns a channel receiving the latest state after every change,
// starting with the current one. A slow reader sees coalesced snapshots but
// never an older one after a newer one. The returned func unsubscribes and
// closes the channel; the channel is also closed by Close.
func (s *Service) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subscriber := make(chan State, 1)
	if s.closed {
		close(subscriber)
		return subscriber, func() {}
	}

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = subscriber
	subscriber <- s.snapshotLocked(context.Background())

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(subscriber)
			}
		})
	}
	return subscriber, unsubscribe
}

func (s *Service) snapshotLocked(ctx context.Context) State {
	conversation, err := s.memory.AllMessages(ctx)
	if err != nil {
		conversation = []ai.Message{}
	}
	return State{
		Conversation: conversation,
		IsGenerating: s.generating,
		LastError:    s.lastError,
	}
}

// publishLocked replaces whatever snapshot a subscriber has not read yet.
// Each subscriber gets its own copy of the conversation. Only publishers
// send, and they hold mu, so the final send cannot block.
func (s *Service) publishLocked(ctx context.Context) {
	if len(s.subscribers) == 0 {
		return
	}
	state := s.snapshotLocked(ctx)
	for _, subscriber := range s.subscribers {
		own := state
		own.Conversation = slices.Clone(state.Conversation)
		select {
		case <-subscriber:
		default:
		}
		select {
		case subscriber <- own:
		default:
		}
	}
}

func (s *Service) withSystemPrompt(history []ai.Message) []ai.Message {
	if s.systemPrompt == "" {
		return history
	}
	withSystem := make([]ai.Message, 0, len(history)+1)
	withSystem = append(withSystem, ai.NewMessage(ai.RoleSystem, s.systemPrompt, nil))
	return append(withSystem, history...)
}
