// File: internal/activation/aggregator.go
package activation

// Summarize reduces a full Outcome collection to its Run Summary. Purely a
// reduction; the outcomes themselves are never touched.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch o.Status {
		case StatusSuccess:
			s.Success++
		case StatusAlreadyActivated:
			s.AlreadyActivated++
		case StatusProcessing:
			s.Processing++
		case StatusInvalidICCID:
			s.Invalid++
		case StatusActivationFailed, StatusError:
			s.Failed++
		}
	}
	return s
}

// InvalidICCIDs partitions out the identifiers the remote site rejected, in
// outcome order, for separate reporting.
func InvalidICCIDs(outcomes []Outcome) []string {
	var invalid []string
	for _, o := range outcomes {
		if o.Status == StatusInvalidICCID {
			invalid = append(invalid, o.ICCID)
		}
	}
	return invalid
}
