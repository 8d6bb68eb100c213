// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes feed selection, annotation, routing, and
// delivery into one run. Papers are processed sequentially and
// independently; a failure on one paper never aborts the batch.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/paper-herald/internal/notify"
	"github.com/pdiddy/paper-herald/internal/route"
	"github.com/pdiddy/paper-herald/pkg/types"
)

// Selector returns the papers published in category on the target day.
type Selector interface {
	Select(ctx context.Context, category string, targetDate time.Time) ([]types.Paper, error)
}

// Annotator classifies and summarizes one paper.
type Annotator interface {
	Annotate(ctx context.Context, title, abstract string) (types.Annotation, error)
}

// Deliverer posts one message to a destination.
type Deliverer interface {
	Deliver(ctx context.Context, dest types.Destination, msg notify.Message) error
}

// Pipeline wires the run's collaborators together.
type Pipeline struct {
	Selector  Selector
	Annotator Annotator
	Deliverer Deliverer

	// RedirectTo, when set, sends every delivery to this destination
	// instead of the routed one. Used with the bottest channel to exercise
	// the full pipeline without posting to real channels.
	RedirectTo types.Destination
}

// Run fetches the target day's papers and processes each one: annotate,
// route, then deliver or suppress. Per-paper failures are recorded in the
// result and do not stop the batch; only a feed failure is returned as an
// error. Progress lines go to w.
func (p *Pipeline) Run(ctx context.Context, category string, targetDate time.Time, w io.Writer) (types.RunResult, error) {
	papers, err := p.Selector.Select(ctx, category, targetDate)
	if err != nil {
		return types.RunResult{}, err
	}

	result := types.RunResult{
		Category: category,
		Date:     targetDate.Format("2006-01-02"),
	}

	if len(papers) == 0 {
		fmt.Fprintf(w, "no papers published in %s on %s\n", category, result.Date)
		return result, nil
	}

	for _, paper := range papers {
		outcome := types.PaperOutcome{
			PaperID: paper.ID,
			Title:   paper.Title,
			Authors: paper.Authors,
		}

		ann, err := p.Annotator.Annotate(ctx, paper.Title, paper.Abstract)
		if err != nil {
			outcome.Status = types.OutcomeFailed
			outcome.Error = err.Error()
			fmt.Fprintf(w, "failed     %s: %v\n", paper.ID, err)
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		decision := route.Route(ann)
		if decision.Suppress {
			outcome.Status = types.OutcomeSuppressed
			fmt.Fprintf(w, "suppressed %s (%s / %s)\n", paper.ID, orDash(ann.Type), orDash(ann.Platform))
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		dest := decision.Destination
		if p.RedirectTo != "" {
			dest = p.RedirectTo
		}

		msg := notify.BuildMessage(paper, ann)
		if err := p.Deliverer.Deliver(ctx, dest, msg); err != nil {
			outcome.Status = types.OutcomeFailed
			outcome.Error = err.Error()
			fmt.Fprintf(w, "failed     %s: %v\n", paper.ID, err)
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		outcome.Status = types.OutcomeDelivered
		outcome.Destination = dest
		fmt.Fprintf(w, "delivered  %s to %s\n", paper.ID, dest)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	fmt.Fprintf(w, "%d papers: %d delivered, %d suppressed, %d failed\n",
		len(result.Outcomes), result.Delivered(), result.Suppressed(), result.Failed())
	return result, nil
}

// PreviewRow is one line of a dry run: the paper, its annotation, and where
// it would have gone.
type PreviewRow struct {
	Paper      types.Paper
	Annotation types.Annotation
	Decision   route.Decision
	Err        error
}

// Preview annotates and routes the target day's papers without delivering
// anything, and writes a table of the would-be decisions to w.
func (p *Pipeline) Preview(ctx context.Context, category string, targetDate time.Time, w io.Writer) ([]PreviewRow, error) {
	papers, err := p.Selector.Select(ctx, category, targetDate)
	if err != nil {
		return nil, err
	}

	var rows []PreviewRow
	for _, paper := range papers {
		row := PreviewRow{Paper: paper}
		row.Annotation, row.Err = p.Annotator.Annotate(ctx, paper.Title, paper.Abstract)
		if row.Err == nil {
			row.Decision = route.Route(row.Annotation)
		}
		rows = append(rows, row)
	}

	FormatPreviewTable(rows, w)
	return rows, nil
}

// FormatPreviewTable writes preview rows as a human-readable table to w.
func FormatPreviewTable(rows []PreviewRow, w io.Writer) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return
	}

	fmt.Fprintf(w, "%-14s  %-50s  %-10s  %-26s  %s\n", "ID", "Title", "Type", "Platform", "Decision")
	fmt.Fprintln(w, strings.Repeat("-", 116))

	for _, row := range rows {
		var decision string
		switch {
		case row.Err != nil:
			decision = "error: " + row.Err.Error()
		case row.Decision.Suppress:
			decision = "suppress"
		default:
			decision = string(row.Decision.Destination)
		}

		title := row.Paper.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%-14s  %-50s  %-10s  %-26s  %s\n",
			row.Paper.ID, title, orDash(row.Annotation.Type), orDash(row.Annotation.Platform), decision)
	}
	fmt.Fprintf(w, "\n%d papers\n", len(rows))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
