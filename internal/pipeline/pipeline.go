// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates one outreach-draft invocation: resolve
// metadata, identify the investigator, gather lab context, compose the
// prompt, call the generative model, and validate its response. The
// first three stages degrade to empty values rather than failing; only
// generation, validation, and the overall time budget can fail the
// invocation. Each invocation is independent and carries no shared
// mutable state.
package pipeline

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/outreach-engine/internal/compose"
	"github.com/pdiddy/outreach-engine/internal/generate"
	"github.com/pdiddy/outreach-engine/internal/httputil"
	"github.com/pdiddy/outreach-engine/internal/investigator"
	"github.com/pdiddy/outreach-engine/internal/metadata"
	"github.com/pdiddy/outreach-engine/internal/respond"
	"github.com/pdiddy/outreach-engine/internal/scrape"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

const (
	defaultTimeout    = 90 * time.Second
	defaultMaxRetries = 2
)

// MetadataResolver resolves a paper reference to metadata, degrading to
// free-text metadata rather than failing.
type MetadataResolver interface {
	Resolve(ctx context.Context, ref types.PaperReference) types.PaperMetadata
}

// ContextGatherer collects best-effort lab context for an investigator.
type ContextGatherer interface {
	Gather(ctx context.Context, inv types.Investigator) types.LabContext
}

// Input is one invocation's caller-supplied state. Reference and Profile
// are required; a pre-supplied Metadata or Context skips that stage.
type Input struct {
	Reference string
	Profile   types.RequesterProfile
	Metadata  *types.PaperMetadata
	Context   *types.LabContext
}

// Pipeline runs the outreach-draft stages in order.
type Pipeline struct {
	resolver MetadataResolver
	gatherer ContextGatherer
	svc      generate.Service
	cfg      types.PipelineConfig
	log      *zap.Logger
}

// New wires the production resolver and gatherer onto a shared
// rate-limited HTTP client.
func New(cfg types.PipelineConfig, svc generate.Service, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	client := &http.Client{
		Timeout:   cfg.Metadata.Timeout,
		Transport: httputil.NewPerHostLimiter(http.DefaultTransport, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	}
	return &Pipeline{
		resolver: metadata.NewResolver(cfg.Metadata, client, log),
		gatherer: scrape.NewGatherer(cfg.Scrape, client, log),
		svc:      svc,
		cfg:      cfg,
		log:      log,
	}
}

// NewWith builds a pipeline on explicit collaborators. Tests use this to
// substitute deterministic doubles.
func NewWith(resolver MetadataResolver, gatherer ContextGatherer, svc generate.Service, cfg types.PipelineConfig, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{resolver: resolver, gatherer: gatherer, svc: svc, cfg: cfg, log: log}
}

// Run executes one invocation under the configured wall-clock budget and
// returns exactly one outcome.
func (p *Pipeline) Run(ctx context.Context, in Input) types.Outcome {
	timeout := p.cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	meta := p.resolveMetadata(ctx, in)
	p.log.Debug("metadata resolved",
		zap.String("title", meta.Title),
		zap.Int("authors", len(meta.Authors)),
		zap.String("source", string(meta.Source)))

	inv := investigator.Identify(meta)
	p.log.Debug("investigator identified",
		zap.String("name", inv.Name),
		zap.String("confidence", string(inv.Confidence)))

	labCtx := p.gatherContext(ctx, in, inv)
	p.log.Debug("lab context gathered",
		zap.String("url", labCtx.SourceURL),
		zap.Int("chars", len(labCtx.ExtractedText)))

	req, err := compose.Compose(meta, inv, labCtx, in.Profile, p.cfg.Compose)
	if err != nil {
		return failure(types.FailMalformedOutput, types.StageCompose, "composing prompt: "+err.Error())
	}
	req.MaxOutputTokens = p.cfg.Generation.MaxOutputTokens

	maxRetries := p.cfg.Generation.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	raw, err := generate.CallWithRetry(ctx, p.svc, req, maxRetries, p.log)
	if err != nil {
		if timedOut(ctx, err) {
			return failure(types.FailTimeout, types.StageGeneration, err.Error())
		}
		return failure(types.FailServiceUnavailable, types.StageGeneration, err.Error())
	}

	result, err := respond.Parse(raw)
	if err != nil {
		p.log.Debug("model output rejected", zap.Error(err))
		return failure(types.FailMalformedOutput, types.StageValidation, raw)
	}

	return types.Outcome{Result: &result}
}

func (p *Pipeline) resolveMetadata(ctx context.Context, in Input) types.PaperMetadata {
	if in.Metadata != nil {
		return *in.Metadata
	}
	return p.resolver.Resolve(ctx, metadata.Classify(in.Reference))
}

func (p *Pipeline) gatherContext(ctx context.Context, in Input, inv types.Investigator) types.LabContext {
	if in.Context != nil {
		return *in.Context
	}
	return p.gatherer.Gather(ctx, inv)
}

func timedOut(ctx context.Context, err error) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)
}

func failure(kind types.FailureKind, stage types.Stage, detail string) types.Outcome {
	return types.Outcome{Failure: &types.Failure{Kind: kind, Stage: stage, Detail: detail}}
}
