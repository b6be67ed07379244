package types

import "net/url"

// Scope controls how much page or domain context is injected into a
// constructed prompt.
type Scope string

const (
	ScopeAll    Scope = "all"    // ScopeAll answers from general knowledge, page context only on referential cues.
	ScopeDomain Scope = "domain" // ScopeDomain focuses answers on the owning domain of the current page.
	ScopePage   Scope = "page"   // ScopePage answers strictly from the captured page content.
)

// IsValid reports whether s is one of the known scopes.
func (s Scope) IsValid() bool {
	switch s {
	case ScopeAll, ScopeDomain, ScopePage:
		return true
	}
	return false
}

// ContentSnapshot is a structured extraction of a page's textual content at a
// point in time. Snapshots are immutable once captured; callers that need
// fresher data capture a new one.
type ContentSnapshot struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	Headings        []string `json:"headings"`
	BodyText        string   `json:"body_text"`
	MetaDescription string   `json:"meta_description"`
	MetaKeywords    string   `json:"meta_keywords"`
}

// Domain returns the hostname component of the snapshot URL, or an empty
// string if the URL cannot be parsed.
func (s ContentSnapshot) Domain() string {
	u, err := url.Parse(s.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
