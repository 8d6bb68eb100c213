// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paper-herald/internal/annotate"
	"github.com/pdiddy/paper-herald/internal/feed"
	"github.com/pdiddy/paper-herald/internal/notify"
	"github.com/pdiddy/paper-herald/pkg/types"
)

// --- mocks ---

type mockSelector struct {
	papers []types.Paper
	err    error
}

func (m *mockSelector) Select(_ context.Context, _ string, _ time.Time) ([]types.Paper, error) {
	return m.papers, m.err
}

// mockAnnotator maps paper title to a canned annotation or error.
type mockAnnotator struct {
	anns map[string]types.Annotation
	errs map[string]error
}

func (m *mockAnnotator) Annotate(_ context.Context, title, _ string) (types.Annotation, error) {
	if err, ok := m.errs[title]; ok {
		return types.Annotation{}, err
	}
	return m.anns[title], nil
}

type delivery struct {
	dest types.Destination
	msg  notify.Message
}

type mockDeliverer struct {
	deliveries []delivery
	errs       map[types.Destination]error
}

func (m *mockDeliverer) Deliver(_ context.Context, dest types.Destination, msg notify.Message) error {
	if err, ok := m.errs[dest]; ok {
		return err
	}
	m.deliveries = append(m.deliveries, delivery{dest: dest, msg: msg})
	return nil
}

func paper(id, title string) types.Paper {
	return types.Paper{
		ID:       id,
		Title:    title,
		Abstract: "abstract of " + title,
		URL:      "http://arxiv.org/abs/" + id,
	}
}

func targetDay() time.Time {
	return time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
}

// --- Run ---

func TestRunEndToEndRouting(t *testing.T) {
	// The canonical scenario: three same-day papers whose annotations route
	// to journal_hub, suppression, and theory respectively.
	selector := &mockSelector{papers: []types.Paper{
		paper("2401.00001v1", "Superconducting memory"),
		paper("2401.00002v1", "Ion trap gate"),
		paper("2401.00003v1", "Algorithm proposal"),
	}}
	annotator := &mockAnnotator{anns: map[string]types.Annotation{
		"Superconducting memory": {Type: "Experiment", Platform: "Superconducting circuits"},
		"Ion trap gate":          {Type: "Experiment", Platform: "Ion trap"},
		"Algorithm proposal":     {Type: "Theory"},
	}}
	deliverer := &mockDeliverer{}

	p := &Pipeline{Selector: selector, Annotator: annotator, Deliverer: deliverer}
	var buf bytes.Buffer
	result, err := p.Run(context.Background(), "quant-ph", targetDay(), &buf)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Outcomes) != 3 {
		t.Fatalf("len(Outcomes) = %d, want 3", len(result.Outcomes))
	}

	wantStatuses := []types.OutcomeStatus{types.OutcomeDelivered, types.OutcomeSuppressed, types.OutcomeDelivered}
	wantDests := []types.Destination{types.DestinationJournalHub, "", types.DestinationTheory}
	for i, o := range result.Outcomes {
		if o.Status != wantStatuses[i] {
			t.Errorf("Outcomes[%d].Status = %q, want %q", i, o.Status, wantStatuses[i])
		}
		if o.Destination != wantDests[i] {
			t.Errorf("Outcomes[%d].Destination = %q, want %q", i, o.Destination, wantDests[i])
		}
	}

	if len(deliverer.deliveries) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(deliverer.deliveries))
	}
	if result.Delivered() != 2 || result.Suppressed() != 1 || result.Failed() != 0 {
		t.Errorf("counts = %d/%d/%d, want 2/1/0", result.Delivered(), result.Suppressed(), result.Failed())
	}
}

func TestRunIsolatesPerPaperFailure(t *testing.T) {
	// Paper 2's annotation fails; papers 1 and 3 must still complete and the
	// run as a whole must succeed.
	selector := &mockSelector{papers: []types.Paper{
		paper("2401.00001v1", "First"),
		paper("2401.00002v1", "Second"),
		paper("2401.00003v1", "Third"),
	}}
	annotator := &mockAnnotator{
		anns: map[string]types.Annotation{
			"First": {Type: "Experiment", Platform: "Superconducting circuits"},
			"Third": {Type: "Theory"},
		},
		errs: map[string]error{
			"Second": &annotate.ClassificationError{Reason: "response is not a JSON object", RawOutput: "oops"},
		},
	}
	deliverer := &mockDeliverer{}

	p := &Pipeline{Selector: selector, Annotator: annotator, Deliverer: deliverer}
	var buf bytes.Buffer
	result, err := p.Run(context.Background(), "quant-ph", targetDay(), &buf)
	if err != nil {
		t.Fatalf("Run() error = %v, per-paper failures must not fail the run", err)
	}

	if result.Failed() != 1 {
		t.Fatalf("Failed() = %d, want 1", result.Failed())
	}
	failed := result.Outcomes[1]
	if failed.PaperID != "2401.00002v1" || failed.Status != types.OutcomeFailed {
		t.Errorf("Outcomes[1] = %+v, want failed entry for paper 2", failed)
	}
	if !strings.Contains(failed.Error, "classification") {
		t.Errorf("Outcomes[1].Error = %q, want classification reason", failed.Error)
	}
	if result.Outcomes[0].Status != types.OutcomeDelivered || result.Outcomes[2].Status != types.OutcomeDelivered {
		t.Errorf("papers 1 and 3 should be delivered: %+v", result.Outcomes)
	}
}

func TestRunRecordsDeliveryFailure(t *testing.T) {
	selector := &mockSelector{papers: []types.Paper{paper("2401.00001v1", "Theory paper")}}
	annotator := &mockAnnotator{anns: map[string]types.Annotation{
		"Theory paper": {Type: "Theory"},
	}}
	deliverer := &mockDeliverer{errs: map[types.Destination]error{
		types.DestinationTheory: &notify.DeliveryError{Destination: types.DestinationTheory, StatusCode: 400, Body: "invalid_payload"},
	}}

	p := &Pipeline{Selector: selector, Annotator: annotator, Deliverer: deliverer}
	var buf bytes.Buffer
	result, err := p.Run(context.Background(), "quant-ph", targetDay(), &buf)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Failed() != 1 {
		t.Fatalf("Failed() = %d, want 1", result.Failed())
	}
	if !strings.Contains(result.Outcomes[0].Error, "invalid_payload") {
		t.Errorf("Error = %q, want delivery reason", result.Outcomes[0].Error)
	}
}

func TestRunFeedFailureIsFatal(t *testing.T) {
	selector := &mockSelector{err: &feed.FeedError{Err: fmt.Errorf("arXiv API returned HTTP 503")}}

	p := &Pipeline{Selector: selector, Annotator: &mockAnnotator{}, Deliverer: &mockDeliverer{}}
	var buf bytes.Buffer
	_, err := p.Run(context.Background(), "quant-ph", targetDay(), &buf)

	var ferr *feed.FeedError
	if !errors.As(err, &ferr) {
		t.Fatalf("Run() error = %v, want *feed.FeedError", err)
	}
}

func TestRunEmptySelectionSucceedsTrivially(t *testing.T) {
	p := &Pipeline{Selector: &mockSelector{}, Annotator: &mockAnnotator{}, Deliverer: &mockDeliverer{}}
	var buf bytes.Buffer
	result, err := p.Run(context.Background(), "quant-ph", targetDay(), &buf)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Outcomes) != 0 {
		t.Errorf("Outcomes = %+v, want empty", result.Outcomes)
	}
}

func TestRunRedirectsToBotTest(t *testing.T) {
	selector := &mockSelector{papers: []types.Paper{
		paper("2401.00001v1", "Superconducting memory"),
		paper("2401.00002v1", "Algorithm proposal"),
	}}
	annotator := &mockAnnotator{anns: map[string]types.Annotation{
		"Superconducting memory": {Type: "Experiment", Platform: "Superconducting circuits"},
		"Algorithm proposal":     {Type: "Theory"},
	}}
	deliverer := &mockDeliverer{}

	p := &Pipeline{
		Selector:   selector,
		Annotator:  annotator,
		Deliverer:  deliverer,
		RedirectTo: types.DestinationBotTest,
	}
	var buf bytes.Buffer
	result, err := p.Run(context.Background(), "quant-ph", targetDay(), &buf)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, d := range deliverer.deliveries {
		if d.dest != types.DestinationBotTest {
			t.Errorf("delivery went to %q, want bottest", d.dest)
		}
	}
	if result.Delivered() != 2 {
		t.Errorf("Delivered() = %d, want 2", result.Delivered())
	}
}

// --- Preview ---

func TestPreviewDeliversNothing(t *testing.T) {
	selector := &mockSelector{papers: []types.Paper{
		paper("2401.00001v1", "Superconducting memory"),
		paper("2401.00002v1", "Ion trap gate"),
	}}
	annotator := &mockAnnotator{anns: map[string]types.Annotation{
		"Superconducting memory": {Type: "Experiment", Platform: "Superconducting circuits"},
		"Ion trap gate":          {Type: "Experiment", Platform: "Ion trap"},
	}}
	deliverer := &mockDeliverer{}

	p := &Pipeline{Selector: selector, Annotator: annotator, Deliverer: deliverer}
	var buf bytes.Buffer
	rows, err := p.Preview(context.Background(), "quant-ph", targetDay(), &buf)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}

	if len(deliverer.deliveries) != 0 {
		t.Errorf("preview delivered %d messages, want 0", len(deliverer.deliveries))
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].Decision.Destination != types.DestinationJournalHub {
		t.Errorf("rows[0].Decision = %+v", rows[0].Decision)
	}
	if !rows[1].Decision.Suppress {
		t.Errorf("rows[1].Decision = %+v, want suppress", rows[1].Decision)
	}
	if !strings.Contains(buf.String(), "journal_hub") || !strings.Contains(buf.String(), "suppress") {
		t.Errorf("table output missing decisions:\n%s", buf.String())
	}
}
