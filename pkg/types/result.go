// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutcomeStatus is the terminal state of one paper within a run.
type OutcomeStatus string

const (
	// OutcomeDelivered means a message for the paper reached its destination.
	OutcomeDelivered OutcomeStatus = "delivered"

	// OutcomeSuppressed means the routing policy dropped the paper on purpose.
	OutcomeSuppressed OutcomeStatus = "suppressed"

	// OutcomeFailed means annotation or delivery failed for the paper.
	OutcomeFailed OutcomeStatus = "failed"
)

// PaperOutcome records what happened to one paper during a run.
type PaperOutcome struct {
	PaperID string        `json:"paper_id" yaml:"paper_id"`
	Title   string        `json:"title" yaml:"title"`
	Authors []string      `json:"authors,omitempty" yaml:"authors,omitempty"`
	Status  OutcomeStatus `json:"status" yaml:"status"`

	// Destination is set when Status is OutcomeDelivered.
	Destination Destination `json:"destination,omitempty" yaml:"destination,omitempty"`

	// Error is the failure reason when Status is OutcomeFailed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunResult aggregates per-paper outcomes for one pipeline run. A run with
// failed papers is still a successful run; partial delivery is the expected
// steady state.
type RunResult struct {
	Category string         `json:"category" yaml:"category"`
	Date     string         `json:"date" yaml:"date"`
	Outcomes []PaperOutcome `json:"outcomes" yaml:"outcomes"`
}

// Delivered returns the number of papers that reached a destination.
func (r RunResult) Delivered() int { return r.count(OutcomeDelivered) }

// Suppressed returns the number of papers dropped by the routing policy.
func (r RunResult) Suppressed() int { return r.count(OutcomeSuppressed) }

// Failed returns the number of papers that failed annotation or delivery.
func (r RunResult) Failed() int { return r.count(OutcomeFailed) }

func (r RunResult) count(s OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}
