// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/paper-herald/internal/httputil"
	"github.com/pdiddy/paper-herald/pkg/types"
)

// DeliveryError marks a webhook rejection for one paper. The pipeline
// records it and keeps processing the batch.
type DeliveryError struct {
	Destination types.Destination
	StatusCode  int
	Body        string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivering to %s: webhook returned HTTP %d: %s", e.Destination, e.StatusCode, e.Body)
}

// Notifier posts messages to Slack incoming webhooks. The destination →
// webhook mapping is injected configuration; no channel is special-cased
// here.
type Notifier struct {
	Client   *http.Client
	Webhooks map[types.Destination]string
}

// Deliver posts the message to the destination's webhook. An unconfigured
// destination is an error: silently dropping a routed paper would look like
// suppression.
func (n *Notifier) Deliver(ctx context.Context, dest types.Destination, msg Message) error {
	webhook, ok := n.Webhooks[dest]
	if !ok || webhook == "" {
		return fmt.Errorf("no webhook configured for destination %q", dest)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("posting to %s webhook: %w", dest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &DeliveryError{
			Destination: dest,
			StatusCode:  resp.StatusCode,
			Body:        string(respBody),
		}
	}
	return nil
}
