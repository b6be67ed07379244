// Package prompt constructs backend-agnostic prompts from a question, an
// information scope, an optional content snapshot, prior conversation turns,
// and optional images. Construction is pure: identical inputs produce an
// identical string, with no randomness and no embedded timestamps.
package prompt

import (
	"fmt"
	"strings"

	"github.com/pagesage/pagesage/pkg/types"
)

// TokenCounter counts tokens for prior-context budgeting.
type TokenCounter interface {
	CountTokens(text string) int
}

// Builder assembles a single prompt string for one query.
type Builder struct {
	question string
	scope    types.Scope
	snapshot *types.ContentSnapshot
	history  []types.Turn
	images   []types.EncodedImage
	counter  TokenCounter
	budget   int
}

// NewBuilder creates a prompt builder with page scope as the default.
func NewBuilder() *Builder {
	return &Builder{scope: types.ScopePage}
}

// WithQuestion sets the question to embed in the prompt.
func (b *Builder) WithQuestion(question string) *Builder {
	b.question = question
	return b
}

// WithScope sets the information scope for the prompt.
func (b *Builder) WithScope(scope types.Scope) *Builder {
	b.scope = scope
	return b
}

// WithSnapshot sets the content snapshot to draw page context from.
func (b *Builder) WithSnapshot(snapshot *types.ContentSnapshot) *Builder {
	b.snapshot = snapshot
	return b
}

// WithHistory sets the prior turns serialized into the previous-context
// block, in chronological order.
func (b *Builder) WithHistory(history []types.Turn) *Builder {
	b.history = history
	return b
}

// WithImages sets the images for a multi-modal prompt. When non-empty, the
// scope and snapshot are ignored: multi-modal prompts are independent of page
// context.
func (b *Builder) WithImages(images []types.EncodedImage) *Builder {
	b.images = images
	return b
}

// WithTokenBudget bounds the constructed prompt by dropping the oldest prior
// turns until the prompt fits within maxTokens. The question, snapshot
// context, and template text are never trimmed.
func (b *Builder) WithTokenBudget(counter TokenCounter, maxTokens int) *Builder {
	b.counter = counter
	b.budget = maxTokens
	return b
}

// Build constructs the prompt.
func (b *Builder) Build() (string, error) {
	if b.question == "" {
		return "", fmt.Errorf("prompt: question must not be empty")
	}

	history := b.history
	if b.counter != nil && b.budget > 0 {
		history = b.trimHistory(history)
	}
	question := b.question
	if len(history) > 0 {
		question = renderHistory(history) + question
	}

	if len(b.images) > 0 {
		return buildImagePrompt(question, len(b.images)), nil
	}

	switch b.scope {
	case types.ScopeAll:
		return b.buildKnowledgePrompt(question), nil
	case types.ScopeDomain:
		if b.snapshot == nil {
			return "", fmt.Errorf("prompt: domain scope requires a content snapshot")
		}
		return fmt.Sprintf(domainPromptFormat,
			b.snapshot.Domain(),
			b.snapshot.URL,
			b.snapshot.Title,
			b.snapshot.MetaDescription,
			b.snapshot.MetaKeywords,
			question,
			b.snapshot.Domain(),
		), nil
	case types.ScopePage:
		if b.snapshot == nil {
			return "", fmt.Errorf("prompt: page scope requires a content snapshot")
		}
		return fmt.Sprintf(pagePromptFormat,
			b.snapshot.URL,
			b.snapshot.Title,
			strings.Join(b.snapshot.Headings, "\n"),
			b.snapshot.BodyText,
			question,
		), nil
	default:
		return "", fmt.Errorf("prompt: unknown scope %q", b.scope)
	}
}

// buildKnowledgePrompt embeds page url/title as situational context only when
// the raw question carries a referential cue; otherwise page context is
// omitted entirely.
func (b *Builder) buildKnowledgePrompt(question string) string {
	situational := ""
	if b.snapshot != nil && HasReferentialCue(b.question) {
		situational = fmt.Sprintf(situationalContextFormat, b.snapshot.URL, b.snapshot.Title)
	}
	return fmt.Sprintf(knowledgePromptFormat, question, situational)
}

func buildImagePrompt(question string, count int) string {
	noun := "this image"
	plural := "image"
	if count > 1 {
		noun = fmt.Sprintf("these %d images", count)
		plural = "images"
	}
	return fmt.Sprintf(imagePromptFormat, noun, question, plural)
}

// trimHistory drops the oldest turns until the fully rendered prompt fits
// the token budget. The final question is always kept.
func (b *Builder) trimHistory(history []types.Turn) []types.Turn {
	for len(history) > 0 {
		rendered := renderHistory(history) + b.question
		if b.counter.CountTokens(rendered) <= b.budget {
			break
		}
		history = history[1:]
	}
	return history
}

// renderHistory serializes prior turns under the previous-context heading,
// joined in chronological order, followed by the new-question prefix.
func renderHistory(history []types.Turn) string {
	var sb strings.Builder
	sb.WriteString(previousContextHeading)
	sb.WriteString("\n")
	for _, turn := range history {
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(newQuestionPrefix)
	return sb.String()
}

// Define builds a definition prompt for selected text.
func Define(text string) string {
	return fmt.Sprintf(definePromptFormat, text)
}

// Elaborate builds an elaboration prompt for selected text.
func Elaborate(text string) string {
	return fmt.Sprintf(elaboratePromptFormat, text)
}

// Summary builds a page-summary prompt. When videoID is non-empty the page is
// treated as a recognized long-form video page and the summary emphasizes
// timestamps and highlights.
func Summary(snapshot *types.ContentSnapshot, isVideo bool, videoID string) string {
	if isVideo {
		idLine := ""
		if videoID != "" {
			idLine = fmt.Sprintf("\n3. Video ID: %s", videoID)
		}
		return fmt.Sprintf(videoSummaryPromptFormat, snapshot.Title, snapshot.URL, idLine, snapshot.BodyText)
	}
	return fmt.Sprintf(summaryPromptFormat, snapshot.URL, snapshot.Title, snapshot.BodyText)
}
