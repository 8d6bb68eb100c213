// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed queries the arXiv API for recently submitted papers and
// selects the ones published on a target calendar day.
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/paper-herald/internal/httputil"
	"github.com/pdiddy/paper-herald/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// FeedError marks a run-fatal feed failure: provider unreachable, a non-200
// status, or a malformed Atom response. With no candidate papers there is
// nothing to process, so the caller aborts the run.
type FeedError struct {
	Err error
}

func (e *FeedError) Error() string { return "feed: " + e.Err.Error() }

func (e *FeedError) Unwrap() error { return e.Err }

// Selector fetches recent papers for a category and filters them to one
// calendar day.
type Selector struct {
	Client *http.Client
	Config types.FeedConfig
}

// Select returns the papers in category published on targetDate's calendar
// day, as decided by the configured timezone. It fetches the newest
// MaxResults submissions and filters by day, so a day with more submissions
// than the cap silently loses the overflow; raise the cap for busy
// categories. An empty selection is not an error.
func (s *Selector) Select(ctx context.Context, category string, targetDate time.Time) ([]types.Paper, error) {
	maxResults := s.Config.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}

	loc, err := s.location()
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		arxivAPIBase, url.QueryEscape("cat:"+category), maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FeedError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", s.Config.UserAgent)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, &FeedError{Err: fmt.Errorf("arXiv API request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FeedError{Err: fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)}
	}

	var atom arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&atom); err != nil {
		return nil, &FeedError{Err: fmt.Errorf("parsing arXiv response: %w", err)}
	}

	var papers []types.Paper
	for _, entry := range atom.Entries {
		id := extractArxivID(entry.ID)
		if id == "" {
			continue
		}

		published, err := time.Parse(time.RFC3339, entry.Published)
		if err != nil {
			continue
		}
		if !sameDay(published, targetDate, loc) {
			continue
		}

		p := types.Paper{
			ID:        id,
			Title:     strings.TrimSpace(entry.Title),
			Abstract:  strings.TrimSpace(entry.Summary),
			Published: published,
			URL:       entry.ID,
		}
		for _, a := range entry.Authors {
			p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// location resolves the configured timezone, defaulting to UTC. The zone is
// fixed in configuration because the day comparison decides which boundary
// papers belong to the run.
func (s *Selector) location() (*time.Location, error) {
	if s.Config.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid feed timezone %q: %w", s.Config.Timezone, err)
	}
	return loc, nil
}

// sameDay reports whether t and day fall on the same calendar day in loc.
func sameDay(t, day time.Time, loc *time.Location) bool {
	y1, m1, d1 := t.In(loc).Date()
	y2, m2, d2 := day.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2401.07041v1" → "2401.07041v1").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return idURL[idx+len(prefix):]
}
