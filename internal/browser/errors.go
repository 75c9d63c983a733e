// File: internal/browser/errors.go
package browser

import "fmt"

// NavigationError reports a navigation that timed out or hit a network
// failure before the page became ready.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ElementNotFoundError reports a selector that never resolved within its wait
// bound, for both form controls and explicit element waits.
type ElementNotFoundError struct {
	Selector string
	Err      error
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element %q not found: %v", e.Selector, e.Err)
}

func (e *ElementNotFoundError) Unwrap() error { return e.Err }

// SessionOpenError reports a failure to create an isolated browser context at
// all. Callers treat it as fatal for the identifier being processed.
type SessionOpenError struct {
	Err error
}

func (e *SessionOpenError) Error() string {
	return fmt.Sprintf("failed to open browser session: %v", e.Err)
}

func (e *SessionOpenError) Unwrap() error { return e.Err }
