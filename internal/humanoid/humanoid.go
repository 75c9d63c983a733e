// File: internal/humanoid/humanoid.go
// Description: Human-like interaction pacing for a browser session: bounded
// random pauses, idle pointer drift, and small scroll nudges. Everything here
// affects timing and appearance only, never the outcome of the flow.

package humanoid

import (
	"context"
	"math/rand"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/simflow/internal/config"
)

// Assumed viewport bounds for pointer drift. Close enough for realism; the
// coordinates only need to stay on-page.
const (
	driftMaxX = 1280
	driftMaxY = 720
)

// Humanoid generates human-like side effects inside a single browser session.
// Each session owns its own instance, so the RNG needs no locking.
type Humanoid struct {
	cfg config.HumanoidConfig
	rng *rand.Rand

	// Pointer position carried between drifts so movement looks continuous.
	curX, curY float64
}

// New creates a Humanoid for one session.
func New(cfg config.HumanoidConfig) *Humanoid {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Humanoid{
		cfg:  cfg,
		rng:  rng,
		curX: float64(rng.Intn(driftMaxX)),
		curY: float64(rng.Intn(driftMaxY)),
	}
}

// Pause waits a random duration inside the configured bounds (200-500ms by
// default). A no-op when the humanoid layer is disabled.
func (h *Humanoid) Pause() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if !h.cfg.Enabled {
			return nil
		}
		spread := h.cfg.MaxDelayMs - h.cfg.MinDelayMs
		delay := h.cfg.MinDelayMs
		if spread > 0 {
			delay += h.rng.Intn(spread + 1)
		}
		select {
		case <-time.After(time.Duration(delay) * time.Millisecond):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// DriftPointer moves the mouse through a few intermediate points toward a new
// random position, the way an idle hand wanders between actions.
func (h *Humanoid) DriftPointer() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if !h.cfg.Enabled {
			return nil
		}
		targetX := float64(h.rng.Intn(driftMaxX))
		targetY := float64(h.rng.Intn(driftMaxY))

		const steps = 4
		for i := 1; i <= steps; i++ {
			frac := float64(i) / steps
			// Linear path with a little jitter per step.
			x := h.curX + (targetX-h.curX)*frac + h.rng.Float64()*6 - 3
			y := h.curY + (targetY-h.curY)*frac + h.rng.Float64()*6 - 3

			if err := input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx); err != nil {
				return err
			}
			select {
			case <-time.After(time.Duration(10+h.rng.Intn(25)) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		h.curX, h.curY = targetX, targetY
		return nil
	})
}

// NudgeScroll wheels the page a small random distance, occasionally back up.
func (h *Humanoid) NudgeScroll() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if !h.cfg.Enabled {
			return nil
		}
		delta := float64(40 + h.rng.Intn(120))
		if h.rng.Intn(4) == 0 {
			delta = -delta
		}
		return input.DispatchMouseEvent(input.MouseWheel, h.curX, h.curY).
			WithDeltaX(0).
			WithDeltaY(delta).
			Do(ctx)
	})
}
