// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata resolves paper references into normalized bibliographic
// metadata with ordered source fallback. Resolution never fails the
// pipeline: when every source comes up empty the resolver degrades to
// free-text metadata built from the reference itself.
package metadata

import (
	"context"
	"html"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

const (
	defaultMaxAbstractChars = 2000
	maxTitleChars           = 300
	maxQueryTerms           = 12
)

// Source resolves one reference against a single metadata service. A
// source returns an error when it cannot produce usable metadata; the
// resolver treats that as a signal to fall through, never as a pipeline
// failure.
type Source interface {
	Name() string
	Resolve(ctx context.Context, ref types.PaperReference, cfg types.MetadataConfig) (types.PaperMetadata, error)
}

// Resolver tries sources in configured order and degrades to free text.
type Resolver struct {
	sources []Source
	cfg     types.MetadataConfig
	log     *zap.Logger
}

// NewResolver builds a resolver whose source order follows
// cfg.SourceOrder (default arxiv then openalex). Unknown source names are
// ignored. All sources share client, so per-host rate limits apply across
// them.
func NewResolver(cfg types.MetadataConfig, client *http.Client, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}

	order := cfg.SourceOrder
	if len(order) == 0 {
		order = []string{"arxiv", "openalex"}
	}

	var sources []Source
	for _, name := range order {
		switch name {
		case "arxiv":
			sources = append(sources, &ArxivSource{Client: client})
		case "openalex":
			sources = append(sources, &OpenAlexSource{Client: client, Email: cfg.OpenAlexEmail})
		}
	}

	return &Resolver{sources: sources, cfg: cfg, log: log}
}

// Resolve classifies the reference and queries each source in order,
// returning the first usable result (non-empty title) normalized. When no
// source resolves the reference it returns free-text metadata with the
// reference text as the title. It never returns an error.
func (r *Resolver) Resolve(ctx context.Context, ref types.PaperReference) types.PaperMetadata {
	for _, src := range r.sources {
		meta, err := src.Resolve(ctx, ref, r.cfg)
		if err != nil {
			r.log.Debug("metadata source failed",
				zap.String("source", src.Name()),
				zap.String("kind", string(ref.Kind)),
				zap.Error(err))
			continue
		}
		if strings.TrimSpace(meta.Title) == "" {
			continue
		}
		return r.normalize(meta)
	}

	r.log.Debug("metadata resolution degraded to free text",
		zap.String("kind", string(ref.Kind)))
	return r.normalize(types.PaperMetadata{
		Title:  ref.Value,
		Source: types.SourceFreeText,
	})
}

// normalize strips markup, collapses whitespace, and caps field lengths.
func (r *Resolver) normalize(meta types.PaperMetadata) types.PaperMetadata {
	maxAbstract := r.cfg.MaxAbstractChars
	if maxAbstract <= 0 {
		maxAbstract = defaultMaxAbstractChars
	}

	meta.Title = truncate(CleanText(meta.Title), maxTitleChars)
	meta.Abstract = truncate(CleanText(meta.Abstract), maxAbstract)
	for i, a := range meta.Authors {
		meta.Authors[i] = CleanText(a)
	}
	return meta
}

// tagPattern matches HTML/XML tags embedded in titles and abstracts.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// CleanText strips markup, unescapes HTML entities, and collapses runs of
// whitespace into single spaces.
func CleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// DeriveQuery builds best-effort search terms from a reference for
// keyword-based sources: the leading words of the cleaned text, with
// identifier punctuation left intact.
func DeriveQuery(ref types.PaperReference) string {
	words := strings.Fields(CleanText(ref.Value))
	if len(words) > maxQueryTerms {
		words = words[:maxQueryTerms]
	}
	return strings.Join(words, " ")
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
