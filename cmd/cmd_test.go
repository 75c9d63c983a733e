// File: cmd/cmd_test.go
package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	t.Run("subcommands are registered", func(t *testing.T) {
		names := make(map[string]bool)
		for _, c := range rootCmd.Commands() {
			names[c.Name()] = true
		}
		assert.True(t, names["run"], "run command must be registered")
		assert.True(t, names["serve"], "serve command must be registered")
		assert.True(t, names["version"], "version command must be registered")
	})

	t.Run("config flag is persistent", func(t *testing.T) {
		flag := rootCmd.PersistentFlags().Lookup("config")
		require.NotNil(t, flag)
		assert.Equal(t, "c", flag.Shorthand)
	})
}

func TestRunCommandFlags(t *testing.T) {
	runCmd := newRunCmd()

	for _, name := range []string{"input", "output", "invalid-output", "concurrency", "retries", "url"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), "flag %q must exist", name)
	}
}

func TestServeCommandFlags(t *testing.T) {
	serveCmd := newServeCmd()
	assert.NotNil(t, serveCmd.Flags().Lookup("addr"))
}
