package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pagesage/pagesage/pkg/types"
)

// Registry holds the set of registered providers and the single active
// selection. Selection uses overwrite semantics with no history kept; a
// Select takes effect for all subsequent Dispatch calls, while calls already
// in flight finish against the provider they started with.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
}

// NewRegistry creates an empty registry with no active provider.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider under the given identifier, replacing any previous
// registration for that identifier. The first registered provider becomes the
// active selection.
func (r *Registry) Register(id string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers[id] = p
	if r.active == "" {
		r.active = id
	}
}

// Select makes the provider registered under id the active selection for all
// subsequent dispatches. It fails if no provider is registered under id.
func (r *Registry) Select(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[id]; !ok {
		return fmt.Errorf("llm: unknown provider %q", id)
	}
	r.active = id
	return nil
}

// Current returns the identifier of the active provider, or an empty string
// if nothing is registered.
func (r *Registry) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// IDs returns the identifiers of all registered providers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dispatch forwards the prompt to the active provider's completion call.
//
// When images are supplied and the active provider is vision-capable, the
// images are attached to the call. When the provider is text-only the images
// are silently dropped and the completion is attempted with the prompt alone;
// the tolerant fallback keeps a text-only selection usable for multi-modal
// queries rather than turning them into errors.
func (r *Registry) Dispatch(ctx context.Context, prompt string, images []types.EncodedImage) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	r.mu.RLock()
	p, ok := r.providers[r.active]
	r.mu.RUnlock()
	if !ok {
		return "", ErrNoProvider
	}

	if len(images) > 0 {
		if vp, ok := p.(VisionProvider); ok {
			return vp.CompleteWithImages(ctx, prompt, images)
		}
	}
	return p.Complete(ctx, prompt)
}
