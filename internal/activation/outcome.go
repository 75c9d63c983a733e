// File: internal/activation/outcome.go
package activation

// Status classifies the terminal result of processing one ICCID.
type Status string

const (
	// StatusSuccess means the remote site confirmed the activation.
	StatusSuccess Status = "success"
	// StatusAlreadyActivated means the card was activated before this run.
	StatusAlreadyActivated Status = "already_activated"
	// StatusProcessing means the remote system accepted the request and is
	// still working on it. Treated as a legitimate terminal state, not a
	// failure, and never retried.
	StatusProcessing Status = "processing"
	// StatusInvalidICCID means the site reported a system issue for this
	// identifier, which in practice signals a bad ICCID.
	StatusInvalidICCID Status = "invalid_iccid"
	// StatusActivationFailed means the flow completed but none of the
	// expected confirmation markers appeared.
	StatusActivationFailed Status = "activation_failed"
	// StatusError means every attempt raised a driver failure and the retry
	// budget is exhausted.
	StatusError Status = "error"
)

// Outcome is the single terminal result for one identifier. Immutable once
// produced; every scheduled identifier yields exactly one.
type Outcome struct {
	ICCID  string `json:"iccid"`
	Status Status `json:"status"`
	Detail string `json:"error_detail,omitempty"`
}

// Summary is a derived, read-only tally over a full Outcome collection.
// Failed counts both activation_failed and error statuses; the six counters
// partition Total.
type Summary struct {
	Total            int `json:"total"`
	Success          int `json:"success"`
	AlreadyActivated int `json:"already_activated"`
	Processing       int `json:"processing"`
	Invalid          int `json:"invalid"`
	Failed           int `json:"failed"`
}
