// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-herald pipeline.
// All entities live for a single run: papers are fetched, annotated, routed,
// and discarded. Nothing here is persisted.
package types

import "time"

// Paper holds the metadata of one newly published paper as returned by the
// feed. Immutable once fetched.
type Paper struct {
	// ID is the provider-assigned identifier (e.g. arXiv ID "2401.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title as returned by the feed.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the paper authors in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the publication timestamp reported by the feed.
	Published time.Time `json:"published" yaml:"published"`

	// URL is the paper's abstract page (e.g. "https://arxiv.org/abs/2401.07041v1").
	URL string `json:"url" yaml:"url"`
}

// Annotation is the classification and summary derived from one paper by the
// completion model. An empty field means the model answered null for that
// question. Annotations are built only by the extractor; raw model output
// never crosses this boundary.
type Annotation struct {
	// Type is "Theory", "Experiment", or empty.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Platform is the hardware platform for experimental work:
	// "Superconducting circuits", "Spin qubits", "Ion trap", "Photonics",
	// an "Others:<label>" variant, or empty.
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty"`

	// Topic is the algorithmic category: "Error-correction",
	// "Fault-tolerated quantum algorithms", "Near-term quantum algorithms",
	// an "Others:<label>" variant, or empty.
	Topic string `json:"topic,omitempty" yaml:"topic,omitempty"`

	// Summary is a one-sentence summary of the work, or empty.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Destination is a named notification channel.
type Destination string

const (
	// DestinationJournalHub receives superconducting-hardware experiments.
	DestinationJournalHub Destination = "journal_hub"

	// DestinationTheory receives theory and algorithm papers.
	DestinationTheory Destination = "theory"

	// DestinationBotTest is the test channel. The routing table never selects
	// it; it is reachable only through delivery redirection.
	DestinationBotTest Destination = "bottest"
)
