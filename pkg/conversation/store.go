package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pagesage/pagesage/pkg/types"
)

// Store persists conversations through a KV backend. Every read-modify-write
// runs inside a per-key critical section, giving the serialization guarantee
// the full-record-overwrite save semantics require: without it, overlapping
// appends for the same key could lose turns.
type Store struct {
	kv KV

	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// NewStore creates a store over the given KV backend.
func NewStore(kv KV) *Store {
	return &Store{
		kv:       kv,
		keyLocks: make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing mutations for key, creating it on
// first use. Locks are never removed; stale context keys simply age out of
// relevance.
func (s *Store) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.keyLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.keyLocks[key] = lock
	}
	return lock
}

// Load returns the conversation stored under key, or nil if nothing has been
// saved for that key.
func (s *Store) Load(ctx context.Context, key string) (*Conversation, error) {
	if key == "" {
		return nil, fmt.Errorf("conversation: context key must not be empty")
	}

	values, err := s.kv.Get(ctx, []string{key})
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to load %q: %w", key, err)
	}
	raw, ok := values[key]
	if !ok {
		return nil, nil
	}

	var conv Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return nil, fmt.Errorf("conversation: failed to decode %q: %w", key, err)
	}
	return &conv, nil
}

// Save stores the conversation under key, fully overwriting any previous
// record (last-writer-wins).
func (s *Store) Save(ctx context.Context, key string, conv *Conversation) error {
	if key == "" {
		return fmt.Errorf("conversation: context key must not be empty")
	}
	if conv == nil {
		return fmt.Errorf("conversation: conversation must not be nil")
	}

	raw, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("conversation: failed to encode %q: %w", key, err)
	}
	if err := s.kv.Set(ctx, map[string]json.RawMessage{key: raw}); err != nil {
		return fmt.Errorf("conversation: failed to save %q: %w", key, err)
	}
	return nil
}

// Mutate runs fn on the conversation stored under key inside the key's
// critical section and saves the result. The conversation is created lazily
// on first access, flagged as a first visit. The mutated conversation is
// returned.
func (s *Store) Mutate(ctx context.Context, key string, fn func(*Conversation)) (*Conversation, error) {
	if key == "" {
		return nil, fmt.Errorf("conversation: context key must not be empty")
	}

	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	conv, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		conv = NewConversation()
	}
	fn(conv)
	if err := s.Save(ctx, key, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// AppendTurn appends a turn to the conversation's turn sequence, preserving
// chronological order. Turns carrying images must be search turns.
func (s *Store) AppendTurn(ctx context.Context, key string, turn types.Turn) (*Conversation, error) {
	if len(turn.Images) > 0 && turn.Kind != types.TurnKindSearch {
		return nil, fmt.Errorf("conversation: only search turns may carry images, got %q", turn.Kind)
	}
	return s.Mutate(ctx, key, func(conv *Conversation) {
		conv.Turns = append(conv.Turns, turn)
	})
}

// AppendSearchResult appends a turn to the conversation's search results.
func (s *Store) AppendSearchResult(ctx context.Context, key string, turn types.Turn) (*Conversation, error) {
	if len(turn.Images) > 0 && turn.Kind != types.TurnKindSearch {
		return nil, fmt.Errorf("conversation: only search turns may carry images, got %q", turn.Kind)
	}
	return s.Mutate(ctx, key, func(conv *Conversation) {
		conv.SearchResults = append(conv.SearchResults, turn)
	})
}

// SetSummary records the page summary and marks the conversation summarized.
func (s *Store) SetSummary(ctx context.Context, key, summary string) (*Conversation, error) {
	return s.Mutate(ctx, key, func(conv *Conversation) {
		conv.Summary = summary
		conv.Summarized = true
	})
}

// SetDarkMode persists the dark mode flag.
func (s *Store) SetDarkMode(ctx context.Context, key string, darkMode bool) (*Conversation, error) {
	return s.Mutate(ctx, key, func(conv *Conversation) {
		conv.DarkMode = darkMode
	})
}

// MarkVisited clears the first-visit flag.
func (s *Store) MarkVisited(ctx context.Context, key string) (*Conversation, error) {
	return s.Mutate(ctx, key, func(conv *Conversation) {
		conv.FirstVisit = false
	})
}
