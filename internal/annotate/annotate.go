// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotate classifies and summarizes a paper with a completion model
// against a fixed quantum-computing taxonomy. The model's free-form output is
// validated here; only a typed Annotation crosses the package boundary.
package annotate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-herald/pkg/types"
)

// requiredKeys is the exact key set the prompt instructs the model to return.
// Each key must be present; null values are allowed.
var requiredKeys = []string{"Type", "Platform", "Topic", "Summary"}

// Completer abstracts the completion API so tests can supply a mock. One
// prompt in, raw model text out; no conversation state.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ClassificationError marks model output that could not be turned into an
// Annotation: not JSON, a missing required key, or a non-string value. The
// raw model text is retained for diagnostics. The pipeline records the
// failure and moves on; there is no automatic re-ask.
type ClassificationError struct {
	Reason    string
	RawOutput string
}

func (e *ClassificationError) Error() string {
	return "classification: " + e.Reason
}

// Extractor derives Annotations from paper metadata via a Completer.
type Extractor struct {
	Completer Completer
}

// Annotate builds the taxonomy prompt from the paper's title and abstract,
// invokes the completion model, and parses the response. Enumerated values
// are not enforced here beyond the key schema: the model may emit
// "Others:<label>" variants, and the routing policy treats unrecognized
// strings as no match.
func (x *Extractor) Annotate(ctx context.Context, title, abstract string) (types.Annotation, error) {
	prompt, err := renderPrompt(title, abstract)
	if err != nil {
		return types.Annotation{}, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := x.Completer.Complete(ctx, prompt)
	if err != nil {
		return types.Annotation{}, fmt.Errorf("completing annotation prompt: %w", err)
	}

	return parseAnnotation(raw)
}

// parseAnnotation parses model output strictly as a JSON object with exactly
// the required keys. A single surrounding Markdown code fence is tolerated;
// anything else malformed is a ClassificationError.
func parseAnnotation(raw string) (types.Annotation, error) {
	text := stripCodeFence(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return types.Annotation{}, &ClassificationError{
			Reason:    fmt.Sprintf("response is not a JSON object: %v", err),
			RawOutput: raw,
		}
	}

	values := make(map[string]string, len(requiredKeys))
	for _, key := range requiredKeys {
		rawValue, ok := fields[key]
		if !ok {
			return types.Annotation{}, &ClassificationError{
				Reason:    fmt.Sprintf("response is missing key %q", key),
				RawOutput: raw,
			}
		}

		var value *string
		if err := json.Unmarshal(rawValue, &value); err != nil {
			return types.Annotation{}, &ClassificationError{
				Reason:    fmt.Sprintf("key %q is not a string or null", key),
				RawOutput: raw,
			}
		}
		if value != nil {
			values[key] = strings.TrimSpace(*value)
		}
	}

	return types.Annotation{
		Type:     values["Type"],
		Platform: values["Platform"],
		Topic:    values["Topic"],
		Summary:  values["Summary"],
	}, nil
}

// stripCodeFence removes one surrounding Markdown code fence (``` or
// ```json) if present.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	end := len(lines) - 1
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			end = i
			break
		}
	}
	return strings.Join(lines[1:end], "\n")
}
