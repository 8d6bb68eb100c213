// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-herald/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FeedConfig holds settings for the feed selection stage.
type FeedConfig struct {
	HTTPConfig `yaml:",inline"`

	// Category is the feed category to query (default "quant-ph").
	Category string `json:"category" yaml:"category"`

	// MaxResults caps the number of recent items fetched before the same-day
	// filter is applied (default 100). A day with more submissions than the
	// cap loses the overflow; raise the cap for busy categories.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Timezone names the location whose calendar day decides which papers
	// count as published on the target date (default "UTC"). Leaving this
	// ambiguous silently drops or duplicates boundary papers across runs,
	// so it is fixed explicitly here.
	Timezone string `json:"timezone" yaml:"timezone"`
}

// AnnotateConfig holds settings for the annotation stage.
type AnnotateConfig struct {
	// Model is the completion model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens bounds the completion length (default 1000).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// NotifyConfig holds settings for the delivery stage.
type NotifyConfig struct {
	HTTPConfig `yaml:",inline"`

	// Webhooks maps each destination to its incoming-webhook URL. The
	// mapping is configuration, never pipeline logic.
	Webhooks map[Destination]string `json:"webhooks" yaml:"webhooks"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	Feed     FeedConfig     `json:"feed" yaml:"feed"`
	Annotate AnnotateConfig `json:"annotate" yaml:"annotate"`
	Notify   NotifyConfig   `json:"notify" yaml:"notify"`
}
