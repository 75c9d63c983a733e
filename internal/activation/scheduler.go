// File: internal/activation/scheduler.go
// Description: Drives the full identifier queue through the retry runner with
// a hard cap on concurrently in-flight attempts. Admission is FIFO; results
// land in completion order.

package activation

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Processor is the slice of the retry runner the scheduler consumes.
type Processor interface {
	Process(ctx context.Context, iccid string) Outcome
}

// Scheduler fans identifiers out to at most K concurrent Processor calls and
// fans the outcomes back into one collection.
type Scheduler struct {
	processor   Processor
	concurrency int
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewScheduler builds a scheduler. ratePerMinute throttles admissions when
// positive; zero means unlimited.
func NewScheduler(processor Processor, concurrency int, ratePerMinute float64, logger *zap.Logger) *Scheduler {
	if concurrency < 1 {
		concurrency = 1
	}
	limit := rate.Inf
	if ratePerMinute > 0 {
		limit = rate.Limit(ratePerMinute / 60.0)
	}
	return &Scheduler{
		processor:   processor,
		concurrency: concurrency,
		limiter:     rate.NewLimiter(limit, 1),
		logger:      logger.Named("scheduler"),
	}
}

// Run processes every identifier exactly once and returns one Outcome per
// identifier, ordered by completion time. At no instant do more than K
// Processor calls run simultaneously. Cancelling ctx stops admitting new
// identifiers; the ones never admitted still come back as error Outcomes so
// the collection always covers the whole input.
func (s *Scheduler) Run(ctx context.Context, iccids []string) []Outcome {
	s.logger.Info("Starting activation run",
		zap.Int("identifiers", len(iccids)),
		zap.Int("concurrency", s.concurrency),
	)

	sem := semaphore.NewWeighted(int64(s.concurrency))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = make([]Outcome, 0, len(iccids))
	)

	append1 := func(o Outcome) {
		mu.Lock()
		outcomes = append(outcomes, o)
		mu.Unlock()
	}

	for _, iccid := range iccids {
		if err := s.limiter.Wait(ctx); err != nil {
			append1(Outcome{ICCID: iccid, Status: StatusError, Detail: "run cancelled before scheduling: " + err.Error()})
			continue
		}
		// Blocks until a slot frees up; this is the K-wide admission gate.
		if err := sem.Acquire(ctx, 1); err != nil {
			append1(Outcome{ICCID: iccid, Status: StatusError, Detail: "run cancelled before scheduling: " + err.Error()})
			continue
		}

		wg.Add(1)
		go func(iccid string) {
			defer wg.Done()
			defer sem.Release(1)

			s.logger.Debug("Identifier admitted", zap.String("iccid", iccid))
			append1(s.processor.Process(ctx, iccid))
		}(iccid)
	}

	wg.Wait()

	s.logger.Info("Activation run complete", zap.Int("outcomes", len(outcomes)))
	return outcomes
}
