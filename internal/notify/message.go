// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify renders annotated papers as Slack Block Kit messages and
// delivers them to incoming webhooks.
package notify

import "github.com/pdiddy/paper-herald/pkg/types"

// Message is a Slack Block Kit payload for one annotated paper.
type Message struct {
	Blocks []Block `json:"blocks"`
}

// Block is a single Block Kit block: a header or a section.
type Block struct {
	Type   string `json:"type"`
	Text   *Text  `json:"text,omitempty"`
	Fields []Text `json:"fields,omitempty"`
}

// Text is a Block Kit text object.
type Text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// BuildMessage renders one paper and its annotation into the four-block
// layout: header (title), Type/Platform fields, Topic/URL fields, and the
// one-sentence summary. Absent annotation fields render as the literal
// "null"; an incomplete annotation never fails to format.
func BuildMessage(paper types.Paper, ann types.Annotation) Message {
	return Message{
		Blocks: []Block{
			{
				Type: "header",
				Text: &Text{Type: "plain_text", Text: paper.Title, Emoji: true},
			},
			{
				Type: "section",
				Fields: []Text{
					{Type: "mrkdwn", Text: "*Type:*\n" + orNull(ann.Type)},
					{Type: "mrkdwn", Text: "*Platform:*\n" + orNull(ann.Platform)},
				},
			},
			{
				Type: "section",
				Fields: []Text{
					{Type: "mrkdwn", Text: "*Topic:*\n" + orNull(ann.Topic)},
					{Type: "mrkdwn", Text: "*URL:*\n" + orNull(paper.URL)},
				},
			},
			{
				Type: "section",
				Text: &Text{Type: "mrkdwn", Text: orNull(ann.Summary)},
			},
		},
	}
}

// orNull substitutes the literal "null" for absent values, mirroring the
// model's answer for inapplicable questions.
func orNull(s string) string {
	if s == "" {
		return "null"
	}
	return s
}
