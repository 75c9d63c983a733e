// File: internal/activation/retry_test.go
package activation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRunner(t *testing.T, factory Factory, maxRetries int) *Runner {
	t.Helper()
	attempter := NewAttempter(testActivationConfig(), testNetworkConfig(), zap.NewNop())
	return NewRunner(factory, attempter, maxRetries, zap.NewNop())
}

func TestRunnerProcess(t *testing.T) {
	ctx := context.Background()
	cfg := testActivationConfig()

	t.Run("first attempt classification is returned immediately", func(t *testing.T) {
		factory := &stubFactory{queue: []*stubSession{
			newStubSession("a1", cfg.Markers.Success),
		}}

		outcome := newTestRunner(t, factory, 3).Process(ctx, "8901000000000000010")

		assert.Equal(t, StatusSuccess, outcome.Status)
		assert.Equal(t, 1, factory.openCount(), "a classified outcome must not be retried")
	})

	t.Run("activation_failed is terminal and never retried", func(t *testing.T) {
		factory := &stubFactory{queue: []*stubSession{
			newStubSession("a2"), // no markers at all
		}}

		outcome := newTestRunner(t, factory, 3).Process(ctx, "8901000000000000011")

		assert.Equal(t, StatusActivationFailed, outcome.Status)
		assert.Equal(t, 1, factory.openCount())
	})

	t.Run("transient failures are retried with a fresh session each time", func(t *testing.T) {
		failing := newStubSession("a3")
		failing.clickErr = errors.New("element detached")
		succeeding := newStubSession("a4", cfg.Markers.Success)
		factory := &stubFactory{queue: []*stubSession{failing, succeeding}}

		outcome := newTestRunner(t, factory, 2).Process(ctx, "8901000000000000012")

		assert.Equal(t, StatusSuccess, outcome.Status)
		assert.Equal(t, 2, factory.openCount())
		assert.True(t, failing.closed, "failed attempt's session must still be closed")
		assert.True(t, succeeding.closed)
	})

	t.Run("exhausted retries yield an error outcome with the last message", func(t *testing.T) {
		first := newStubSession("a5")
		first.clickErr = errors.New("first failure")
		second := newStubSession("a6")
		second.clickErr = errors.New("last failure")
		factory := &stubFactory{queue: []*stubSession{first, second}}

		outcome := newTestRunner(t, factory, 2).Process(ctx, "8901000000000000013")

		assert.Equal(t, StatusError, outcome.Status)
		assert.Contains(t, outcome.Detail, "last failure")
		assert.Equal(t, 2, factory.openCount())
		assert.True(t, first.closed)
		assert.True(t, second.closed)
	})

	t.Run("session open failure short circuits the retry budget", func(t *testing.T) {
		factory := &stubFactory{openErr: errors.New("browser launch failed")}

		outcome := newTestRunner(t, factory, 3).Process(ctx, "8901000000000000014")

		require.Equal(t, StatusError, outcome.Status)
		assert.Contains(t, outcome.Detail, "browser launch failed")
		assert.Equal(t, 0, factory.openCount())
	})
}
