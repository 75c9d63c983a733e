// File: internal/activation/stubs_test.go
// Shared test doubles for the activation package.

package activation

import (
	"context"
	"sync"
	"time"

	"github.com/xkilldash9x/simflow/internal/config"
)

// stubSession is a scriptable Session double. Markers listed in present are
// reported as visible; every interaction is recorded for assertions.
type stubSession struct {
	id      string
	present map[string]bool

	navErr   error
	fillErr  error
	clickErr error
	checkErr error

	mu     sync.Mutex
	navs   []string
	fills  map[string]string
	clicks []string
	checks []string
	closed bool
}

func newStubSession(id string, present ...string) *stubSession {
	p := make(map[string]bool, len(present))
	for _, text := range present {
		p[text] = true
	}
	return &stubSession{id: id, present: p, fills: make(map[string]string)}
}

func (s *stubSession) ID() string { return s.id }

func (s *stubSession) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navs = append(s.navs, url)
	return s.navErr
}

func (s *stubSession) Fill(ctx context.Context, selector, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fillErr != nil {
		return s.fillErr
	}
	s.fills[selector] = value
	return nil
}

func (s *stubSession) Click(ctx context.Context, selector string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clickErr != nil {
		return s.clickErr
	}
	s.clicks = append(s.clicks, selector)
	return nil
}

func (s *stubSession) CheckForText(ctx context.Context, text string, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks = append(s.checks, text)
	if s.checkErr != nil {
		return false, s.checkErr
	}
	return s.present[text], nil
}

func (s *stubSession) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *stubSession) clickedSelectors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.clicks...)
}

// stubFactory hands out pre-scripted sessions in order and remembers every
// session it opened so tests can assert they were all closed.
type stubFactory struct {
	mu      sync.Mutex
	queue   []*stubSession
	opened  []*stubSession
	openErr error
}

func (f *stubFactory) OpenSession(ctx context.Context) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	if len(f.queue) == 0 {
		sess := newStubSession("overflow")
		f.opened = append(f.opened, sess)
		return sess, nil
	}
	sess := f.queue[0]
	f.queue = f.queue[1:]
	f.opened = append(f.opened, sess)
	return sess, nil
}

func (f *stubFactory) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.opened)
}

// testActivationConfig returns an ActivationConfig with distinct marker texts
// and selectors the stubs can key on.
func testActivationConfig() config.ActivationConfig {
	return config.ActivationConfig{
		URL: "https://activate.example.com/prepaid",
		Selectors: config.SelectorConfig{
			ICCIDInput:     "#iccid",
			NextButton:     "#next-step",
			ActivateButton: "#activate-now",
		},
		Markers: config.MarkerConfig{
			AlreadyActivated: "has already been activated",
			SystemIssue:      "experiencing a system issue",
			Processing:       "is being processed",
			Success:          "successfully activated",
		},
		MaxRetries:  2,
		Concurrency: 2,
	}
}

func testNetworkConfig() config.NetworkConfig {
	return config.NetworkConfig{
		NavigationTimeout: time.Second,
		ElementTimeout:    time.Second,
		MarkerTimeout:     10 * time.Millisecond,
		PostLoadWait:      0,
	}
}
