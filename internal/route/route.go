// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package route maps an annotation to a delivery destination or suppression.
// The policy is a pure decision table with no I/O and no hidden state.
package route

import "github.com/pdiddy/paper-herald/pkg/types"

// Taxonomy literals the decision table matches on. Anything else, including
// "Others:<label>" variants and empty fields, is no match.
const (
	TypeTheory     = "Theory"
	TypeExperiment = "Experiment"

	PlatformSuperconducting = "Superconducting circuits"
)

// Decision is the outcome of routing one annotation: either a destination or
// suppression, never both.
type Decision struct {
	Suppress    bool
	Destination types.Destination
}

// Route evaluates the decision table in order; the first matching rule wins:
//
//  1. Superconducting-circuit work goes to journal_hub, regardless of type.
//  2. Any other experiment is suppressed.
//  3. Everything else (theory, algorithms, unclassified) goes to theory.
//
// Rule 1 must stay ahead of rule 2: a superconducting experiment matches
// both, and the audience wants it surfaced, not dropped.
func Route(a types.Annotation) Decision {
	switch {
	case a.Platform == PlatformSuperconducting:
		return Decision{Destination: types.DestinationJournalHub}
	case a.Type == TypeExperiment:
		return Decision{Suppress: true}
	default:
		return Decision{Destination: types.DestinationTheory}
	}
}
