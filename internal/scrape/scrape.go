// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape gathers best-effort lab context for an investigator: a
// web search for their lab page, a bounded fetch of the most plausible
// candidate, and markup-stripped text extraction. Every failure mode
// degrades to an empty LabContext; context is enrichment, never a
// pipeline failure.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

const (
	defaultMaxCandidates   = 5
	defaultMaxContextChars = 1500
)

// Candidate is one search result considered as a lab-page source.
type Candidate struct {
	Title string
	URL   string
}

// SearchService returns candidate URLs for a query, best first.
type SearchService interface {
	Search(ctx context.Context, query string, max int) ([]Candidate, error)
}

// PageFetcher retrieves a page and returns its extracted text. It must
// enforce a response-size cap.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Gatherer discovers and extracts lab context.
type Gatherer struct {
	search  SearchService
	fetcher PageFetcher
	cfg     types.ScrapeConfig
	log     *zap.Logger
}

// NewGatherer wires the DuckDuckGo search service and the HTML page
// fetcher onto a shared rate-limited client.
func NewGatherer(cfg types.ScrapeConfig, client *http.Client, log *zap.Logger) *Gatherer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gatherer{
		search:  &DuckDuckGoSearch{Client: client, UserAgent: cfg.UserAgent},
		fetcher: &HTMLFetcher{Client: client, UserAgent: cfg.UserAgent, MaxBytes: cfg.MaxPageBytes},
		cfg:     cfg,
		log:     log,
	}
}

// NewGathererWith builds a gatherer on explicit collaborators. Tests use
// this to substitute deterministic doubles.
func NewGathererWith(search SearchService, fetcher PageFetcher, cfg types.ScrapeConfig, log *zap.Logger) *Gatherer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gatherer{search: search, fetcher: fetcher, cfg: cfg, log: log}
}

// Gather searches for the investigator's lab page and returns extracted,
// length-bounded text. An unknown investigator short-circuits to an empty
// context. Search failures, fetch failures, and unparsable pages all
// degrade to an empty context.
func (g *Gatherer) Gather(ctx context.Context, inv types.Investigator) types.LabContext {
	if inv.Confidence == types.ConfidenceUnknown || inv.Name == "" {
		return types.LabContext{}
	}

	maxCandidates := g.cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}

	query := fmt.Sprintf("%s lab research", inv.Name)
	candidates, err := g.search.Search(ctx, query, maxCandidates)
	if err != nil {
		g.log.Debug("lab search failed", zap.String("query", query), zap.Error(err))
		return types.LabContext{}
	}
	if len(candidates) == 0 {
		g.log.Debug("lab search returned no candidates", zap.String("query", query))
		return types.LabContext{}
	}

	rankCandidates(candidates, g.cfg.PreferredDomains)

	for _, c := range candidates {
		text, err := g.fetcher.Fetch(ctx, c.URL)
		if err != nil {
			g.log.Debug("lab page fetch failed", zap.String("url", c.URL), zap.Error(err))
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		return types.LabContext{
			SourceURL:     c.URL,
			ExtractedText: Truncate(text, g.maxContextChars()),
		}
	}

	return types.LabContext{}
}

func (g *Gatherer) maxContextChars() int {
	if g.cfg.MaxContextChars > 0 {
		return g.cfg.MaxContextChars
	}
	return defaultMaxContextChars
}

// genericHosts are domains unlikely to host a lab page.
var genericHosts = []string{
	"linkedin.com", "x.com", "twitter.com", "facebook.com",
	"youtube.com", "reddit.com", "amazon.com",
}

// rankCandidates stably sorts candidates so institutional domains come
// first and generic social/commerce domains last, preserving search order
// within each tier.
func rankCandidates(candidates []Candidate, preferred []string) {
	if len(preferred) == 0 {
		preferred = []string{".edu", ".ac.uk", ".edu.au"}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return domainScore(candidates[i].URL, preferred) > domainScore(candidates[j].URL, preferred)
	})
}

func domainScore(rawURL string, preferred []string) int {
	u, err := url.Parse(rawURL)
	if err != nil {
		return -2
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	for _, suffix := range preferred {
		if strings.HasSuffix(host, suffix) {
			return 2
		}
	}
	for _, generic := range genericHosts {
		if host == generic || strings.HasSuffix(host, "."+generic) {
			return -1
		}
	}
	return 0
}

// Truncate caps s at max bytes, cutting at the last space inside the
// budget so the context does not end mid-word.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndexByte(cut, ' '); idx > max/2 {
		cut = cut[:idx]
	}
	return cut
}
