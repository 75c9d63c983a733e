// File: internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/simflow/internal/config"
	"github.com/xkilldash9x/simflow/internal/humanoid"
)

// Session is one isolated browser tab with its own cookies and storage. It
// serves exactly one activation attempt and is closed unconditionally at the
// end of that attempt's scope.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	net    config.NetworkConfig
	human  *humanoid.Humanoid

	onceDone func()
	closed   bool
	mu       sync.Mutex
}

// ID returns the unique identifier for this session.
func (s *Session) ID() string { return s.id }

// Navigate loads a URL and waits for the page body to be ready, then lets any
// post-load scripts settle.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating", zap.String("url", url))

	runCtx, cancel := s.opContext(ctx, s.net.NavigationTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.net.PostLoadWait),
		s.human.NudgeScroll(),
	)
	if err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	return nil
}

// Fill waits for the field to appear and types the value into it.
func (s *Session) Fill(ctx context.Context, selector, value string) error {
	s.logger.Debug("Filling field", zap.String("selector", selector))

	runCtx, cancel := s.opContext(ctx, s.net.ElementTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		s.human.DriftPointer(),
		s.human.Pause(),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
	if err != nil {
		return &ElementNotFoundError{Selector: selector, Err: err}
	}
	return nil
}

// Click waits for the control to appear and presses it.
func (s *Session) Click(ctx context.Context, selector string) error {
	s.logger.Debug("Clicking", zap.String("selector", selector))

	runCtx, cancel := s.opContext(ctx, s.net.ElementTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		s.human.DriftPointer(),
		s.human.Pause(),
		chromedp.Click(selector, chromedp.ByQuery),
	)
	if err != nil {
		return &ElementNotFoundError{Selector: selector, Err: err}
	}
	return nil
}

// CheckForText polls the rendered page text for a fragment, bounded by window.
// The window elapsing without a match is (false, nil): marker absence is a
// legitimate branch of the activation flow, not a failure. Only session or
// driver breakage comes back as an error.
func (s *Session) CheckForText(ctx context.Context, text string, window time.Duration) (bool, error) {
	runCtx, cancel := s.opContext(ctx, window+time.Second)
	defer cancel()

	expr := fmt.Sprintf(
		`document.body && document.body.innerText.includes(%s)`,
		strconv.Quote(text),
	)

	var matched bool
	err := chromedp.Run(runCtx,
		chromedp.Poll(expr, &matched,
			chromedp.WithPollingInterval(250*time.Millisecond),
			chromedp.WithPollingTimeout(window),
		),
	)
	if err != nil {
		if errors.Is(err, chromedp.ErrPollingTimeout) {
			return false, nil
		}
		return false, &ElementNotFoundError{Selector: text, Err: err}
	}
	return matched, nil
}

// opContext derives a bounded context from the session tab. The caller's
// context is watched too so an external cancellation cuts the operation short.
func (s *Session) opContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// Close terminates the browser tab and releases its resources. Safe to call
// more than once; only the first call does the work.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	defer s.onceDone()

	if s.cancel != nil {
		s.cancel()
	}

	// Wait for the tab to confirm termination, bounded by the caller's
	// deadline and a hard cap.
	waitCtx, cancelWait := context.WithTimeout(ctx, 10*time.Second)
	defer cancelWait()

	select {
	case <-s.ctx.Done():
		s.logger.Debug("Browser session closed gracefully.")
	case <-waitCtx.Done():
		s.logger.Warn("Deadline exceeded waiting for browser session to close.", zap.Error(waitCtx.Err()))
	}
	return nil
}
