// File: internal/activation/attempt.go
// Description: The per-identifier activation state machine. One Attempter.Run
// call drives exactly one pass of the two-step form flow against one isolated
// session and either classifies an Outcome or returns a driver failure.

package activation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/simflow/internal/config"
)

// Session is the slice of the page driver the state machine consumes. A
// Session is one isolated browsing context, used for exactly one attempt and
// closed unconditionally by the caller.
type Session interface {
	// ID returns the unique identifier for this session.
	ID() string

	// Navigate loads a URL and waits for the page to be ready.
	Navigate(ctx context.Context, url string) error

	// Fill types a value into the field matching the selector.
	Fill(ctx context.Context, selector, value string) error

	// Click presses the control matching the selector.
	Click(ctx context.Context, selector string) error

	// CheckForText polls the rendered page for a text fragment, bounded by
	// window. It reports (false, nil) when the window elapses without a
	// match; a non-nil error only signals a session/driver failure.
	CheckForText(ctx context.Context, text string, window time.Duration) (bool, error)

	// Close safely terminates the session and releases its resources.
	Close(ctx context.Context) error
}

// Factory opens fresh isolated sessions. An error from OpenSession is fatal
// for the identifier's whole retry sequence.
type Factory interface {
	OpenSession(ctx context.Context) (Session, error)
}

// Attempter runs single activation attempts against the configured page.
type Attempter struct {
	cfg    config.ActivationConfig
	logger *zap.Logger

	stepOne MarkerSet
	stepTwo MarkerSet
}

// NewAttempter builds the state machine from the activation config. The
// marker windows come from the network config's short marker bound.
func NewAttempter(cfg config.ActivationConfig, net config.NetworkConfig, logger *zap.Logger) *Attempter {
	return &Attempter{
		cfg:     cfg,
		logger:  logger.Named("attempt"),
		stepOne: StepOneMarkers(cfg.Markers, net.MarkerTimeout),
		stepTwo: StepTwoMarkers(cfg.Markers, net.MarkerTimeout),
	}
}

// Run executes one pass of the flow for one identifier. A classified result
// comes back as (*Outcome, nil); any driver failure comes back as (nil, err)
// and is the retry wrapper's problem. Run never closes the session.
func (a *Attempter) Run(ctx context.Context, sess Session, iccid string) (*Outcome, error) {
	log := a.logger.With(zap.String("iccid", iccid), zap.String("session_id", shortID(sess.ID())))

	if err := sess.Navigate(ctx, a.cfg.URL); err != nil {
		return nil, fmt.Errorf("navigating to activation page: %w", err)
	}
	if err := sess.Fill(ctx, a.cfg.Selectors.ICCIDInput, iccid); err != nil {
		return nil, fmt.Errorf("filling ICCID field: %w", err)
	}
	if err := sess.Click(ctx, a.cfg.Selectors.NextButton); err != nil {
		return nil, fmt.Errorf("clicking next step: %w", err)
	}

	// Step 1 outcome: already-activated, system-issue, or processing ends the
	// attempt here. No marker means the card is ready to activate.
	if m, found, err := a.checkMarkers(ctx, sess, a.stepOne); err != nil {
		return nil, err
	} else if found {
		log.Debug("Step 1 marker matched", zap.String("status", string(m.Status)))
		return &Outcome{ICCID: iccid, Status: m.Status, Detail: m.Text}, nil
	}

	if err := sess.Click(ctx, a.cfg.Selectors.ActivateButton); err != nil {
		return nil, fmt.Errorf("clicking activate now: %w", err)
	}

	if m, found, err := a.checkMarkers(ctx, sess, a.stepTwo); err != nil {
		return nil, err
	} else if found {
		log.Debug("Step 2 marker matched", zap.String("status", string(m.Status)))
		return &Outcome{ICCID: iccid, Status: m.Status, Detail: m.Text}, nil
	}

	log.Debug("No expected response after activation submit")
	return &Outcome{ICCID: iccid, Status: StatusActivationFailed, Detail: "no expected response"}, nil
}

// checkMarkers walks the set in priority order, granting each marker its own
// wait window. The first marker observed within its window wins.
func (a *Attempter) checkMarkers(ctx context.Context, sess Session, set MarkerSet) (Marker, bool, error) {
	for _, m := range set {
		found, err := sess.CheckForText(ctx, m.Text, m.Window)
		if err != nil {
			return Marker{}, false, fmt.Errorf("waiting for marker %q: %w", m.Text, err)
		}
		if found {
			return m, true, nil
		}
	}
	return Marker{}, false, nil
}

// shortID trims a UUID down to the prefix used in log fields.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
