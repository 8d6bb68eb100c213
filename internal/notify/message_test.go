// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-herald/pkg/types"
)

func TestBuildMessageLayout(t *testing.T) {
	paper := types.Paper{
		ID:    "2401.00001v1",
		Title: "Surface code memory below threshold",
		URL:   "http://arxiv.org/abs/2401.00001v1",
	}
	ann := types.Annotation{
		Type:     "Experiment",
		Platform: "Superconducting circuits",
		Topic:    "Error-correction",
		Summary:  "A surface code memory beats its physical qubits.",
	}

	msg := BuildMessage(paper, ann)
	require.Len(t, msg.Blocks, 4)

	header := msg.Blocks[0]
	assert.Equal(t, "header", header.Type)
	require.NotNil(t, header.Text)
	assert.Equal(t, "plain_text", header.Text.Type)
	assert.Equal(t, paper.Title, header.Text.Text)

	typePlatform := msg.Blocks[1]
	assert.Equal(t, "section", typePlatform.Type)
	require.Len(t, typePlatform.Fields, 2)
	assert.Equal(t, "*Type:*\nExperiment", typePlatform.Fields[0].Text)
	assert.Equal(t, "*Platform:*\nSuperconducting circuits", typePlatform.Fields[1].Text)

	topicURL := msg.Blocks[2]
	require.Len(t, topicURL.Fields, 2)
	assert.Equal(t, "*Topic:*\nError-correction", topicURL.Fields[0].Text)
	assert.Equal(t, "*URL:*\nhttp://arxiv.org/abs/2401.00001v1", topicURL.Fields[1].Text)

	summary := msg.Blocks[3]
	require.NotNil(t, summary.Text)
	assert.Equal(t, "mrkdwn", summary.Text.Type)
	assert.Equal(t, ann.Summary, summary.Text.Text)
}

func TestBuildMessageAllNullAnnotation(t *testing.T) {
	paper := types.Paper{Title: "Untitled", URL: "http://arxiv.org/abs/x"}

	msg := BuildMessage(paper, types.Annotation{})
	require.Len(t, msg.Blocks, 4)

	assert.Equal(t, "*Type:*\nnull", msg.Blocks[1].Fields[0].Text)
	assert.Equal(t, "*Platform:*\nnull", msg.Blocks[1].Fields[1].Text)
	assert.Equal(t, "*Topic:*\nnull", msg.Blocks[2].Fields[0].Text)
	require.NotNil(t, msg.Blocks[3].Text)
	assert.Equal(t, "null", msg.Blocks[3].Text.Text)
}
