// Package conversation persists per-browsing-context conversation state: the
// page summary, accumulated turns, and UI flags. Records are keyed by a
// stable context key supplied by the caller (tab/session identity is an
// external concern), loaded on context activation, and saved after every
// mutation.
package conversation

import "github.com/pagesage/pagesage/pkg/types"

// Conversation is the persisted record for one browsing context. Saves are
// full-record overwrites with last-writer-wins semantics; the Store
// serializes mutations per key so overlapping read-modify-writes cannot lose
// turns.
type Conversation struct {
	Summary       string       `json:"summary"`
	Turns         []types.Turn `json:"turns"`
	SearchResults []types.Turn `json:"search_results"`
	DarkMode      bool         `json:"dark_mode"`
	Summarized    bool         `json:"summarized"`
	FirstVisit    bool         `json:"first_visit"`
}

// NewConversation creates the record for a context's first visit.
func NewConversation() *Conversation {
	return &Conversation{FirstVisit: true}
}
