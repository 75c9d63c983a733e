// File: internal/activation/retry.go
package activation

import (
	"context"

	"go.uber.org/zap"
)

// Runner wraps the attempt state machine with a bounded retry policy. Every
// attempt gets a brand-new session so corrupted page or cookie state never
// leaks into the next try.
type Runner struct {
	factory    Factory
	attempter  *Attempter
	maxRetries int
	logger     *zap.Logger
}

// NewRunner builds a retry runner. maxRetries is the total attempt budget per
// identifier, not the number of re-runs.
func NewRunner(factory Factory, attempter *Attempter, maxRetries int, logger *zap.Logger) *Runner {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Runner{
		factory:    factory,
		attempter:  attempter,
		maxRetries: maxRetries,
		logger:     logger.Named("runner"),
	}
}

// Process drives one identifier to its terminal Outcome. Classified outcomes
// are final and never retried, including processing and activation_failed.
// Raised driver failures consume the retry budget; when it runs out the last
// failure message becomes an error-status Outcome. A failure to even open a
// session short-circuits the remaining retries for this identifier.
func (r *Runner) Process(ctx context.Context, iccid string) Outcome {
	log := r.logger.With(zap.String("iccid", iccid))

	var lastErr error
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		log.Info("Starting activation attempt",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", r.maxRetries),
		)

		outcome, err := r.runOnce(ctx, iccid)
		if err == nil {
			log.Info("Attempt classified an outcome",
				zap.Int("attempt", attempt),
				zap.String("status", string(outcome.Status)),
			)
			return *outcome
		}

		if _, fatal := err.(*sessionOpenFailure); fatal {
			log.Error("Session could not be opened, aborting remaining retries", zap.Error(err))
			return Outcome{ICCID: iccid, Status: StatusError, Detail: err.Error()}
		}

		lastErr = err
		log.Warn("Attempt failed", zap.Int("attempt", attempt), zap.Error(err))
	}

	log.Error("Retries exhausted", zap.Error(lastErr))
	return Outcome{ICCID: iccid, Status: StatusError, Detail: lastErr.Error()}
}

// runOnce scopes one session to one attempt: opened here, closed here, on
// every exit path.
func (r *Runner) runOnce(ctx context.Context, iccid string) (*Outcome, error) {
	sess, err := r.factory.OpenSession(ctx)
	if err != nil {
		return nil, &sessionOpenFailure{err: err}
	}
	defer func() {
		if cerr := sess.Close(context.WithoutCancel(ctx)); cerr != nil {
			r.logger.Warn("Failed to close session cleanly",
				zap.String("iccid", iccid),
				zap.Error(cerr),
			)
		}
	}()

	return r.attempter.Run(ctx, sess, iccid)
}

// sessionOpenFailure marks an OpenSession error so Process can distinguish it
// from transient attempt failures.
type sessionOpenFailure struct {
	err error
}

func (e *sessionOpenFailure) Error() string { return "opening session: " + e.err.Error() }
func (e *sessionOpenFailure) Unwrap() error { return e.err }
