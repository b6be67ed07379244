// Package engine orchestrates contextual queries: it captures page content,
// builds prompts, dispatches them to the selected provider, and records the
// resulting turns in the conversation store. Every public operation returns a
// displayable string; provider and capture failures are logged and mapped to
// fixed apology messages rather than surfaced as errors.
package engine

import (
	"context"
	"regexp"
	"strings"

	"github.com/pagesage/pagesage/pkg/conversation"
	"github.com/pagesage/pagesage/pkg/llm"
	"github.com/pagesage/pagesage/pkg/logging"
	"github.com/pagesage/pagesage/pkg/prompt"
	"github.com/pagesage/pagesage/pkg/snapshot"
	"github.com/pagesage/pagesage/pkg/types"
)

// Fallback messages shown to the user when an operation cannot complete. The
// exact wording is fixed; callers display these verbatim.
const (
	FallbackRequest = "Sorry, I encountered an error processing your request. Please try again."
	FallbackAnalyze = "Sorry, I encountered an error analyzing this page. Please try again."
	FallbackAsk     = "Sorry, I encountered an error processing your question. Please try again."
)

// Engine coordinates the provider registry, snapshot capture, prompt
// construction, and conversation persistence for one assistant instance.
type Engine struct {
	registry  *llm.Registry
	snapshots snapshot.Provider
	store     *conversation.Store
	log       *logging.Logger
	counter   prompt.TokenCounter
	budget    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the session logger. Without it the engine stays silent.
func WithLogger(log *logging.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithTokenBudget bounds prompts by dropping the oldest prior turns until the
// rendered context fits within maxTokens.
func WithTokenBudget(counter prompt.TokenCounter, maxTokens int) Option {
	return func(e *Engine) {
		e.counter = counter
		e.budget = maxTokens
	}
}

// NewEngine creates an engine. A nil store disables persistence; answers are
// still produced but no turns are recorded.
func NewEngine(registry *llm.Registry, snapshots snapshot.Provider, store *conversation.Store, opts ...Option) *Engine {
	e := &Engine{
		registry:  registry,
		snapshots: snapshots,
		store:     store,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SelectProvider switches the active provider for all subsequent operations.
func (e *Engine) SelectProvider(id string) error {
	if err := e.registry.Select(id); err != nil {
		return err
	}
	e.log.Infof("selected provider %s", id)
	return nil
}

// CurrentProvider returns the identifier of the active provider.
func (e *Engine) CurrentProvider() string { return e.registry.Current() }

// Providers returns the identifiers of all registered providers.
func (e *Engine) Providers() []string { return e.registry.IDs() }

// Conversation returns the stored conversation for a context key, or nil when
// none exists yet.
func (e *Engine) Conversation(ctx context.Context, contextKey string) (*conversation.Conversation, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.Load(ctx, contextKey)
}

// AskRequest carries one user question through the engine.
type AskRequest struct {
	// ContextKey identifies the conversation the answer is recorded under.
	// Empty disables recording for this request.
	ContextKey string
	Question   string
	Scope      types.Scope
	// History holds prior turns serialized into the prompt's previous-context
	// block, oldest first.
	History []types.Turn
	// Images makes the request multi-modal. Scope and page content are
	// ignored for multi-modal requests.
	Images []types.EncodedImage
}

// Ask answers a user question within the requested scope. Requests without
// images capture a fresh content snapshot; a capture failure produces the
// question fallback, a provider failure the request fallback.
func (e *Engine) Ask(ctx context.Context, req AskRequest) string {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		e.log.Warnf("ask: empty question")
		return FallbackAsk
	}

	scope := req.Scope
	if scope == "" {
		scope = types.ScopePage
	}

	builder := prompt.NewBuilder().
		WithQuestion(question).
		WithScope(scope).
		WithHistory(req.History).
		WithImages(req.Images)
	if e.counter != nil && e.budget > 0 {
		builder = builder.WithTokenBudget(e.counter, e.budget)
	}

	// Multi-modal prompts are independent of page context. Every other
	// branch captures, including the all scope, whose cue handling needs the
	// page url and title. A failed capture never reaches a provider.
	if len(req.Images) == 0 {
		snap, err := e.snapshots.Capture(ctx)
		if err != nil {
			e.log.Errorf("ask: snapshot capture failed: %v", err)
			return FallbackAsk
		}
		builder = builder.WithSnapshot(snap)
	}

	p, err := builder.Build()
	if err != nil {
		e.log.Errorf("ask: prompt construction failed: %v", err)
		return FallbackAsk
	}

	answer, err := e.registry.Dispatch(ctx, p, req.Images)
	if err != nil {
		e.log.Errorf("ask: dispatch to %s failed: %v", e.registry.Current(), err)
		return FallbackRequest
	}

	e.record(ctx, req.ContextKey, func(s *conversation.Store) error {
		_, err := s.AppendSearchResult(ctx, req.ContextKey, types.NewSearchTurn(answer, req.Images))
		return err
	})
	return answer
}

// AnalyzePage captures the active page and produces a summary, recording it
// under the context key. Video pages get a summary emphasizing timestamps and
// highlights.
func (e *Engine) AnalyzePage(ctx context.Context, contextKey string) string {
	snap, err := e.snapshots.Capture(ctx)
	if err != nil {
		e.log.Errorf("analyze: snapshot capture failed: %v", err)
		return FallbackAnalyze
	}

	isVideo := IsVideoPage(snap.URL)
	p := prompt.Summary(snap, isVideo, VideoID(snap.URL))

	summary, err := e.registry.Dispatch(ctx, p, nil)
	if err != nil {
		e.log.Errorf("analyze: dispatch to %s failed: %v", e.registry.Current(), err)
		return FallbackRequest
	}

	e.record(ctx, contextKey, func(s *conversation.Store) error {
		if _, err := s.SetSummary(ctx, contextKey, summary); err != nil {
			return err
		}
		_, err := s.MarkVisited(ctx, contextKey)
		return err
	})
	return summary
}

// DefineSelection produces a structured definition of selected text.
func (e *Engine) DefineSelection(ctx context.Context, contextKey, text string) string {
	return e.selection(ctx, contextKey, text, types.TurnKindDefine, prompt.Define)
}

// ElaborateSelection produces a detailed explanation of selected text.
func (e *Engine) ElaborateSelection(ctx context.Context, contextKey, text string) string {
	return e.selection(ctx, contextKey, text, types.TurnKindElaborate, prompt.Elaborate)
}

func (e *Engine) selection(ctx context.Context, contextKey, text string, kind types.TurnKind, build func(string) string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		e.log.Warnf("%s: empty selection", kind)
		return FallbackRequest
	}

	answer, err := e.registry.Dispatch(ctx, build(text), nil)
	if err != nil {
		e.log.Errorf("%s: dispatch to %s failed: %v", kind, e.registry.Current(), err)
		return FallbackRequest
	}

	e.record(ctx, contextKey, func(s *conversation.Store) error {
		_, err := s.AppendTurn(ctx, contextKey, types.NewTurn(kind, answer))
		return err
	})
	return answer
}

// record runs a persistence operation, logging and swallowing any failure.
// Answers are never withheld because storage is unavailable.
func (e *Engine) record(ctx context.Context, contextKey string, fn func(*conversation.Store) error) {
	if e.store == nil || contextKey == "" {
		return
	}
	if err := fn(e.store); err != nil {
		e.log.Warnf("persistence unavailable for %s: %v", contextKey, err)
	}
}

var scopedQueryPattern = regexp.MustCompile(`^\[(ALL|DOMAIN|PAGE)\]\s*(.*)$`)

// ParseScopedQuery splits an optional scope prefix like "[ALL]", "[DOMAIN]",
// or "[PAGE]" off a raw query. Without a prefix the query defaults to page
// scope.
func ParseScopedQuery(raw string) (types.Scope, string) {
	m := scopedQueryPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return types.ScopePage, strings.TrimSpace(raw)
	}
	return types.Scope(strings.ToLower(m[1])), m[2]
}
