package snapshot

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/pagesage/pagesage/pkg/types"
)

// DefaultCaptureTimeout bounds how long a capture may take before it is
// treated as failed.
const DefaultCaptureTimeout = 15 * time.Second

// PlaywrightProvider captures snapshots from a live browser page driven by
// Playwright. It manages one browser with one active page; Navigate selects
// the browsing context that subsequent Capture calls snapshot.
type PlaywrightProvider struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	browser     playwright.Browser
	page        playwright.Page
	timeout     time.Duration
	maxBodyText int
	initialized bool
}

// PlaywrightOption configures a PlaywrightProvider.
type PlaywrightOption func(*PlaywrightProvider)

// WithCaptureTimeout sets the per-capture time bound.
func WithCaptureTimeout(d time.Duration) PlaywrightOption {
	return func(p *PlaywrightProvider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithMaxBodyText sets the body text bound in bytes.
func WithMaxBodyText(n int) PlaywrightOption {
	return func(p *PlaywrightProvider) {
		if n > 0 {
			p.maxBodyText = n
		}
	}
}

// NewPlaywrightProvider creates an uninitialized provider. Initialize must be
// called before Navigate or Capture.
func NewPlaywrightProvider(opts ...PlaywrightOption) *PlaywrightProvider {
	p := &PlaywrightProvider{
		timeout:     DefaultCaptureTimeout,
		maxBodyText: DefaultMaxBodyText,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Initialize installs and starts Playwright and launches a headless browser.
// Driver output is discarded so it cannot interleave with caller output.
func (p *PlaywrightProvider) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("snapshot: failed to install playwright: %w", err)
	}
	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("snapshot: failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("snapshot: failed to launch browser: %w", err)
	}

	p.pw = pw
	p.browser = browser
	p.initialized = true
	return nil
}

// Navigate opens url in the provider's page, creating the page on first use.
func (p *PlaywrightProvider) Navigate(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return fmt.Errorf("snapshot: provider not initialized")
	}
	if p.page == nil {
		page, err := p.browser.NewPage()
		if err != nil {
			return fmt.Errorf("snapshot: failed to open page: %w", err)
		}
		p.page = page
	}
	if _, err := p.page.Goto(url); err != nil {
		return fmt.Errorf("snapshot: navigation failed: %w", err)
	}
	return nil
}

// Capture extracts a snapshot of the current page. It fails with
// ErrUnavailable when no page is open, when extraction fails, or when the
// bounded time elapses.
func (p *PlaywrightProvider) Capture(ctx context.Context) (*types.ContentSnapshot, error) {
	p.mu.Lock()
	page := p.page
	timeout := p.timeout
	maxBodyText := p.maxBodyText
	p.mu.Unlock()

	if page == nil {
		return nil, fmt.Errorf("%w: no page open", ErrUnavailable)
	}

	type result struct {
		snap *types.ContentSnapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		rawHTML, err := page.Content()
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
			return
		}
		snap, err := ParseHTML(rawHTML, page.URL(), maxBodyText)
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
			return
		}
		done <- result{snap: snap}
	}()

	select {
	case r := <-done:
		return r.snap, r.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w: capture timed out after %s", ErrUnavailable, timeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	}
}

// Close shuts down the page, browser, and Playwright driver.
func (p *PlaywrightProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}
	if p.page != nil {
		_ = p.page.Close()
		p.page = nil
	}
	if p.browser != nil {
		_ = p.browser.Close()
		p.browser = nil
	}
	err := p.pw.Stop()
	p.pw = nil
	p.initialized = false
	if err != nil {
		return fmt.Errorf("snapshot: failed to stop playwright: %w", err)
	}
	return nil
}
