// Package snapshot captures structured content snapshots of web pages for
// prompt construction. A snapshot is an immutable extraction of the page's
// textual content at a point in time; callers that need fresher data capture
// a new one.
package snapshot

import (
	"context"
	"errors"

	"github.com/pagesage/pagesage/pkg/types"
)

// ErrUnavailable indicates there is no active browsing context to capture, or
// the capture failed or timed out.
var ErrUnavailable = errors.New("snapshot: capture unavailable")

// DefaultMaxBodyText bounds the extracted body text length in bytes.
const DefaultMaxBodyText = 3000

// Provider captures a content snapshot of the active browsing context. It
// must return within a bounded time; implementations honor ctx cancellation
// and deadlines.
type Provider interface {
	Capture(ctx context.Context) (*types.ContentSnapshot, error)
}
