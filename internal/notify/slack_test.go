// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-herald/pkg/types"
)

func TestDeliverPostsBlocksToWebhook(t *testing.T) {
	var got Message
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	n := &Notifier{Webhooks: map[types.Destination]string{
		types.DestinationJournalHub: ts.URL,
	}}
	msg := BuildMessage(types.Paper{Title: "T", URL: "u"}, types.Annotation{Type: "Theory"})

	err := n.Deliver(context.Background(), types.DestinationJournalHub, msg)
	require.NoError(t, err)
	assert.Len(t, got.Blocks, 4)
}

func TestDeliverUnknownDestination(t *testing.T) {
	n := &Notifier{Webhooks: map[types.Destination]string{}}

	err := n.Deliver(context.Background(), types.DestinationTheory, Message{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no webhook configured")
}

func TestDeliverRejectionIsDeliveryError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer ts.Close()

	n := &Notifier{Webhooks: map[types.Destination]string{
		types.DestinationTheory: ts.URL,
	}}

	err := n.Deliver(context.Background(), types.DestinationTheory, Message{})

	var derr *DeliveryError
	require.True(t, errors.As(err, &derr), "error = %v, want *DeliveryError", err)
	assert.Equal(t, types.DestinationTheory, derr.Destination)
	assert.Equal(t, http.StatusBadRequest, derr.StatusCode)
	assert.Contains(t, derr.Body, "invalid_payload")
}
