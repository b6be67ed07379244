package llm

import (
	"errors"
	"fmt"
)

// ErrUnavailable indicates a transport or network failure while reaching a
// backend. Adapters wrap it with backend-specific detail.
var ErrUnavailable = errors.New("llm: provider unavailable")

// ErrNoProvider indicates the registry has no active provider to dispatch to.
var ErrNoProvider = errors.New("llm: no provider selected")

// ErrEmptyPrompt indicates a completion was attempted with an empty prompt.
var ErrEmptyPrompt = errors.New("llm: prompt must not be empty")

// RejectedError indicates the backend explicitly refused the content, for
// example a safety block. The backend's stated reason is preserved.
type RejectedError struct {
	Provider string
	Reason   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("llm: %s rejected the request: %s", e.Provider, e.Reason)
}

// MalformedError indicates the backend responded, but the response could not
// be parsed into the expected shape.
type MalformedError struct {
	Provider string
	Detail   string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("llm: malformed response from %s: %s", e.Provider, e.Detail)
}

// Unavailable wraps err as a provider-unavailable failure for the named
// backend. It returns an error matching ErrUnavailable under errors.Is.
func Unavailable(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, provider, err)
}
