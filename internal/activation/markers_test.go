// File: internal/activation/markers_test.go
package activation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/simflow/internal/config"
)

func TestMarkerSets(t *testing.T) {
	m := config.MarkerConfig{
		AlreadyActivated: "already active",
		SystemIssue:      "system issue",
		Processing:       "processing",
		Success:          "activation complete",
	}
	window := 5 * time.Second

	t.Run("step one order encodes priority", func(t *testing.T) {
		set := StepOneMarkers(m, window)
		require.Len(t, set, 3)

		assert.Equal(t, StatusAlreadyActivated, set[0].Status)
		assert.Equal(t, StatusInvalidICCID, set[1].Status)
		assert.Equal(t, StatusProcessing, set[2].Status)
		for _, marker := range set {
			assert.Equal(t, window, marker.Window)
			assert.NotEmpty(t, marker.Text)
		}
	})

	t.Run("step two checks success before processing", func(t *testing.T) {
		set := StepTwoMarkers(m, window)
		require.Len(t, set, 2)

		assert.Equal(t, StatusSuccess, set[0].Status)
		assert.Equal(t, "activation complete", set[0].Text)
		assert.Equal(t, StatusProcessing, set[1].Status)
	})
}
