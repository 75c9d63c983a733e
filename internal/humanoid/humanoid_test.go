// File: internal/humanoid/humanoid_test.go
package humanoid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/simflow/internal/config"
)

func TestPause(t *testing.T) {
	t.Run("disabled humanoid pauses for nothing", func(t *testing.T) {
		h := New(config.HumanoidConfig{Enabled: false, MinDelayMs: 200, MaxDelayMs: 500})

		start := time.Now()
		require.NoError(t, h.Pause().Do(context.Background()))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("pause stays inside the configured bounds", func(t *testing.T) {
		h := New(config.HumanoidConfig{Enabled: true, MinDelayMs: 20, MaxDelayMs: 40})

		start := time.Now()
		require.NoError(t, h.Pause().Do(context.Background()))
		elapsed := time.Since(start)

		assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
		// Generous upper bound; scheduling jitter must not flake the test.
		assert.Less(t, elapsed, 500*time.Millisecond)
	})

	t.Run("pause honors context cancellation", func(t *testing.T) {
		h := New(config.HumanoidConfig{Enabled: true, MinDelayMs: 5000, MaxDelayMs: 5000})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := h.Pause().Do(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestDisabledActionsNeedNoBrowser(t *testing.T) {
	// With the layer disabled, no CDP traffic may be generated: the actions
	// must succeed against a context with no chromedp session attached.
	h := New(config.HumanoidConfig{Enabled: false})
	ctx := context.Background()

	assert.NoError(t, h.DriftPointer().Do(ctx))
	assert.NoError(t, h.NudgeScroll().Do(ctx))
}
