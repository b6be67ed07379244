// Package types holds the shared domain types of the query orchestration
// engine: content snapshots, scopes, conversation turns, and encoded images.
package types

import (
	"time"

	"github.com/google/uuid"
)

// TurnKind identifies which flow produced a conversation turn.
type TurnKind string

const (
	TurnKindSearch    TurnKind = "search"    // TurnKindSearch is an ad-hoc question, optionally multi-modal.
	TurnKindDefine    TurnKind = "define"    // TurnKindDefine is a definition request for selected text.
	TurnKindElaborate TurnKind = "elaborate" // TurnKindElaborate is an elaboration request for selected text.
)

// Turn is one stored exchange in a conversation. Turns are immutable after
// creation and are only ever appended to a conversation, never mutated in
// place. Only search turns may carry images.
type Turn struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Kind      TurnKind       `json:"kind"`
	Images    []EncodedImage `json:"images,omitempty"`
}

// NewTurn creates a turn of the given kind with a fresh unique ID.
func NewTurn(kind TurnKind, content string) Turn {
	return Turn{
		ID:        uuid.New().String(),
		Content:   content,
		CreatedAt: time.Now().UTC(),
		Kind:      kind,
	}
}

// NewSearchTurn creates a search turn, the only kind that may carry images.
func NewSearchTurn(content string, images []EncodedImage) Turn {
	t := NewTurn(TurnKindSearch, content)
	t.Images = images
	return t
}
