// File: internal/activation/markers.go
package activation

import (
	"time"

	"github.com/xkilldash9x/simflow/internal/config"
)

// Marker binds a text fragment shown by the remote page to the Status it
// signals, with the wait window granted to that one check.
type Marker struct {
	Text   string
	Status Status
	Window time.Duration
}

// MarkerSet is an ordered list of markers. The order is priority: markers are
// checked one at a time, each within its own window, and the first one that
// appears wins even if a later entry would have appeared sooner. This
// sequential policy is user-visible behavior and is deliberately not a single
// race over all markers.
type MarkerSet []Marker

// StepOneMarkers builds the marker set checked after the "Next Step" click.
func StepOneMarkers(m config.MarkerConfig, window time.Duration) MarkerSet {
	return MarkerSet{
		{Text: m.AlreadyActivated, Status: StatusAlreadyActivated, Window: window},
		{Text: m.SystemIssue, Status: StatusInvalidICCID, Window: window},
		{Text: m.Processing, Status: StatusProcessing, Window: window},
	}
}

// StepTwoMarkers builds the marker set checked after the "Activate Now" click.
func StepTwoMarkers(m config.MarkerConfig, window time.Duration) MarkerSet {
	return MarkerSet{
		{Text: m.Success, Status: StatusSuccess, Window: window},
		{Text: m.Processing, Status: StatusProcessing, Window: window},
	}
}
