// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Run("defaults form a valid configuration", func(t *testing.T) {
		require.NoError(t, cfg.Validate())
	})

	t.Run("core knobs match the documented defaults", func(t *testing.T) {
		assert.Equal(t, 2, cfg.Activation.MaxRetries)
		assert.Equal(t, 3, cfg.Activation.Concurrency)
		assert.Equal(t, 30*time.Second, cfg.Network.NavigationTimeout)
		assert.Equal(t, 5*time.Second, cfg.Network.MarkerTimeout)
		assert.True(t, cfg.Browser.Headless)
		assert.True(t, cfg.Browser.Humanoid.Enabled)
		assert.Equal(t, 200, cfg.Browser.Humanoid.MinDelayMs)
		assert.Equal(t, 500, cfg.Browser.Humanoid.MaxDelayMs)
	})

	t.Run("marker texts are populated", func(t *testing.T) {
		assert.NotEmpty(t, cfg.Activation.Markers.AlreadyActivated)
		assert.NotEmpty(t, cfg.Activation.Markers.SystemIssue)
		assert.NotEmpty(t, cfg.Activation.Markers.Processing)
		assert.NotEmpty(t, cfg.Activation.Markers.Success)
	})
}

func TestNewFromViper(t *testing.T) {
	newViper := func() *viper.Viper {
		v := viper.New()
		SetDefaults(v)
		return v
	}

	t.Run("overrides are honored", func(t *testing.T) {
		v := newViper()
		v.Set("activation.url", "https://activate.example.com")
		v.Set("activation.concurrency", 5)

		cfg, err := NewFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "https://activate.example.com", cfg.Activation.URL)
		assert.Equal(t, 5, cfg.Activation.Concurrency)
	})

	t.Run("non-positive concurrency is rejected", func(t *testing.T) {
		v := newViper()
		v.Set("activation.concurrency", 0)

		_, err := NewFromViper(v)
		require.Error(t, err)
		assert.ErrorContains(t, err, "activation.concurrency")
	})

	t.Run("non-positive retries are rejected", func(t *testing.T) {
		v := newViper()
		v.Set("activation.max_retries", -1)

		_, err := NewFromViper(v)
		require.Error(t, err)
	})

	t.Run("inverted humanoid delay range is rejected", func(t *testing.T) {
		v := newViper()
		v.Set("browser.humanoid.min_delay_ms", 800)
		v.Set("browser.humanoid.max_delay_ms", 100)

		_, err := NewFromViper(v)
		require.Error(t, err)
		assert.ErrorContains(t, err, "humanoid")
	})

	t.Run("multi-character delimiter is rejected", func(t *testing.T) {
		v := newViper()
		v.Set("input.delimiter", ",,")

		_, err := NewFromViper(v)
		require.Error(t, err)
	})
}
