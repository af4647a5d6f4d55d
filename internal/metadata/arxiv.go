// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/outreach-engine/internal/httputil"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivSource resolves arXiv IDs against the arXiv API. It is the default
// primary source: identifier lookups are exact, so it runs before
// keyword-based sources.
type ArxivSource struct {
	Client *http.Client
}

// Name returns the source identifier.
func (s *ArxivSource) Name() string { return "arxiv" }

// Resolve fetches metadata for an arXiv reference via id_list lookup.
// Non-arXiv references are not resolvable by this source.
func (s *ArxivSource) Resolve(ctx context.Context, ref types.PaperReference, cfg types.MetadataConfig) (types.PaperMetadata, error) {
	if ref.Kind != types.RefArxiv {
		return types.PaperMetadata{}, fmt.Errorf("arxiv source cannot resolve %s references", ref.Kind)
	}

	params := url.Values{
		"id_list":     {ref.Value},
		"max_results": {"1"},
	}

	entries, err := s.query(ctx, params, cfg)
	if err != nil {
		return types.PaperMetadata{}, err
	}
	if len(entries) == 0 {
		return types.PaperMetadata{}, fmt.Errorf("arXiv ID %s not found", ref.Value)
	}

	entry := entries[0]
	// Unknown IDs come back as an error entry with no title.
	if strings.TrimSpace(entry.Title) == "" || strings.Contains(entry.ID, "/api/errors") {
		return types.PaperMetadata{}, fmt.Errorf("arXiv ID %s not found", ref.Value)
	}

	return entryMetadata(entry), nil
}

// RecentPaper is a feed entry from the arXiv listing of recent submissions.
type RecentPaper struct {
	ArxivID  string
	Title    string
	Abstract string
	// AbsURL links to the arXiv abstract page.
	AbsURL string
}

// Recent returns the most recently submitted papers matching topic, newest
// first. Used by the opportunity feed, not by the resolver.
func (s *ArxivSource) Recent(ctx context.Context, topic string, max int, cfg types.MetadataConfig) ([]RecentPaper, error) {
	if max <= 0 {
		max = 5
	}

	terms := strings.Fields(topic)
	if len(terms) == 0 {
		return nil, fmt.Errorf("empty feed topic")
	}

	params := url.Values{
		"search_query": {"all:" + strings.Join(terms, "+")},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", max)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}

	entries, err := s.query(ctx, params, cfg)
	if err != nil {
		return nil, err
	}

	var papers []RecentPaper
	for _, entry := range entries {
		id := extractArxivID(entry.ID)
		if id == "" {
			continue
		}
		papers = append(papers, RecentPaper{
			ArxivID:  id,
			Title:    CleanText(entry.Title),
			Abstract: CleanText(entry.Summary),
			AbsURL:   "https://arxiv.org/abs/" + id,
		})
	}
	return papers, nil
}

func (s *ArxivSource) query(ctx context.Context, params url.Values, cfg types.MetadataConfig) ([]arxivEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return feed.Entries, nil
}

func entryMetadata(entry arxivEntry) types.PaperMetadata {
	meta := types.PaperMetadata{
		Title:    strings.TrimSpace(entry.Title),
		Abstract: strings.TrimSpace(entry.Summary),
		Source:   types.SourceIdentifierLookup,
	}
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			meta.Authors = append(meta.Authors, name)
		}
	}
	return meta
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID      string        `xml:"id"`
	Title   string        `xml:"title"`
	Summary string        `xml:"summary"`
	Authors []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return stripVersion(idURL[idx+len(prefix):])
}
