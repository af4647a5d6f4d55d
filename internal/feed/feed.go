// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed builds the research-opportunity feed: recent arXiv
// submissions for a configured topic, each summarized into a short
// opportunity description. Summarization failures degrade to a
// truncated abstract so a feed run never fails on a single paper.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/outreach-engine/internal/generate"
	"github.com/pdiddy/outreach-engine/internal/metadata"
	"github.com/pdiddy/outreach-engine/internal/scrape"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

const (
	defaultTopic          = "artificial intelligence"
	defaultDomain         = "AI & Machine Learning"
	defaultMaxPapers      = 5
	degradedAbstractChars = 400
)

// descriptionPromptTmpl asks the model for a compact feed entry rather
// than the full outreach schema.
var descriptionPromptTmpl = template.Must(template.New("description").Parse(`Summarize the following paper abstract as a two-sentence research opportunity description for students looking for labs to join. Respond with the two sentences only, no preamble and no formatting.

Title: {{.Title}}
Abstract: {{.Abstract}}
`))

// PaperLister returns recent papers for a topic.
type PaperLister interface {
	Recent(ctx context.Context, topic string, max int) ([]metadata.RecentPaper, error)
}

// ArxivLister adapts the arXiv metadata source to the PaperLister
// interface, binding its HTTP configuration.
type ArxivLister struct {
	Source *metadata.ArxivSource
	Config types.MetadataConfig
}

func (l ArxivLister) Recent(ctx context.Context, topic string, max int) ([]metadata.RecentPaper, error) {
	return l.Source.Recent(ctx, topic, max, l.Config)
}

// Storer is the slice of the draft store the feed needs.
type Storer interface {
	SaveOpportunity(opp types.Opportunity) (int64, error)
	HasRecentOpportunity(title string) (bool, error)
}

// Summary holds counts from one feed run.
type Summary struct {
	Generated int
	Degraded  int
	Skipped   int
	Failed    int
}

// Total returns the number of papers processed.
func (s Summary) Total() int {
	return s.Generated + s.Degraded + s.Skipped + s.Failed
}

// Builder generates and persists the opportunity feed.
type Builder struct {
	papers PaperLister
	svc    generate.Service
	store  Storer
	cfg    types.FeedConfig
	log    *zap.Logger
}

// NewBuilder assembles a feed builder from its collaborators.
func NewBuilder(papers PaperLister, svc generate.Service, store Storer, cfg types.FeedConfig, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{papers: papers, svc: svc, store: store, cfg: cfg, log: log}
}

// Run fetches recent papers for the configured topic and stores one
// opportunity per new paper, writing per-paper progress to w.
func (b *Builder) Run(ctx context.Context, w io.Writer) (Summary, error) {
	topic := b.cfg.Topic
	if topic == "" {
		topic = defaultTopic
	}
	domain := b.cfg.Domain
	if domain == "" {
		domain = defaultDomain
	}
	maxPapers := b.cfg.MaxPapers
	if maxPapers <= 0 {
		maxPapers = defaultMaxPapers
	}

	papers, err := b.papers.Recent(ctx, topic, maxPapers)
	if err != nil {
		return Summary{}, fmt.Errorf("listing recent papers: %w", err)
	}

	var summary Summary
	for _, paper := range papers {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		exists, err := b.store.HasRecentOpportunity(paper.Title)
		if err != nil {
			return summary, fmt.Errorf("checking %q: %w", paper.Title, err)
		}
		if exists {
			fmt.Fprintf(w, "Skipping %s (already stored)\n", paper.Title)
			summary.Skipped++
			continue
		}

		description, degraded := b.describe(ctx, paper)
		if description == "" {
			fmt.Fprintf(w, "Failed %s (no abstract to fall back on)\n", paper.Title)
			summary.Failed++
			continue
		}

		opp := types.Opportunity{
			Title:       paper.Title,
			Domain:      domain,
			Description: description,
			PaperURL:    paper.AbsURL,
		}
		if _, err := b.store.SaveOpportunity(opp); err != nil {
			return summary, fmt.Errorf("storing %q: %w", paper.Title, err)
		}

		if degraded {
			fmt.Fprintf(w, "Stored %s (truncated abstract)\n", paper.Title)
			summary.Degraded++
		} else {
			fmt.Fprintf(w, "Stored %s\n", paper.Title)
			summary.Generated++
		}
	}

	return summary, nil
}

// describe asks the model for a two-sentence description, degrading to a
// truncated abstract on any generation failure. The degraded bool is
// true for the fallback path.
func (b *Builder) describe(ctx context.Context, paper metadata.RecentPaper) (string, bool) {
	var buf bytes.Buffer
	err := descriptionPromptTmpl.Execute(&buf, struct{ Title, Abstract string }{paper.Title, paper.Abstract})
	if err == nil {
		var raw string
		raw, err = generate.CallWithRetry(ctx, b.svc, types.GenerationRequest{Prompt: buf.String()}, 0, b.log)
		if err == nil && raw != "" {
			return metadata.CleanText(raw), false
		}
	}
	if err != nil {
		b.log.Debug("feed description degraded", zap.String("title", paper.Title), zap.Error(err))
	}
	return scrape.Truncate(metadata.CleanText(paper.Abstract), degradedAbstractChars), true
}
