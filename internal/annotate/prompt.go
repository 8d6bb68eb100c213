// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/template"

	"github.com/pdiddy/paper-herald/internal/httputil"
	"github.com/pdiddy/paper-herald/pkg/types"
)

// annotationPromptTmpl is the fixed-taxonomy prompt sent to the completion
// model for each paper. The question set is the contract: the response must
// be a JSON object with exactly the keys Type, Platform, Topic, and Summary,
// with null for inapplicable fields.
var annotationPromptTmpl = template.Must(template.New("annotation").Parse(`Read the following title and abstract of an academic paper and answer these questions. If a question is not applicable, return null.

- Type: Is this work mainly focused on theoretical proposals (including quantum algorithms) or actual quantum hardware experiments? Return 'Theory' or 'Experiment'.
- Platform: If it is an experiment result, what type of hardware is the experiment implemented with? Return 'Superconducting circuits', 'Spin qubits', 'Ion trap', 'Photonics', or 'Others:<The type of the hardware>'.
- Topic: If it is about a quantum algorithm, does it fall into the following categories? Return category 'Error-correction', 'Fault-tolerated quantum algorithms', 'Near-term quantum algorithms', or 'Others:<A category within two words>'.
- Summary: Write a one-sentence summary about this work.

Title: {{.Title}}
Abstract: {{.Abstract}}

Respond with a JSON object containing exactly the keys "Type", "Platform", "Topic", and "Summary". Do not include any text outside the JSON object.`))

// renderPrompt executes the annotation prompt template for one paper.
func renderPrompt(title, abstract string) (string, error) {
	var buf bytes.Buffer
	err := annotationPromptTmpl.Execute(&buf, struct{ Title, Abstract string }{Title: title, Abstract: abstract})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeCompleter calls the Claude Messages API with deterministic sampling.
// Temperature is pinned to zero so repeated calls on the same paper converge
// to the same classification.
type ClaudeCompleter struct {
	Config types.AnnotateConfig
	Client *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends one single-turn prompt and returns the model's text.
func (c *ClaudeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	maxTokens := c.Config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	reqBody := claudeRequest{
		Model:       c.Config.Model,
		MaxTokens:   maxTokens,
		Temperature: 0,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.Config.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Claude API response")
}
