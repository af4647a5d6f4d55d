// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose assembles the generation prompt from paper metadata,
// lab context, and the requester profile. Assembly is deterministic and
// does no I/O; an overall character budget is enforced by truncating the
// abstract first, then the lab context, never the profile fields.
package compose

import (
	"fmt"
	"strings"

	"github.com/pdiddy/outreach-engine/internal/scrape"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

const defaultMaxPromptChars = 8000

// Compose builds the generation request for one outreach draft. The
// returned prompt never exceeds the configured character budget.
func Compose(meta types.PaperMetadata, inv types.Investigator, lab types.LabContext, profile types.RequesterProfile, cfg types.ComposeConfig) (types.GenerationRequest, error) {
	maxChars := cfg.MaxPromptChars
	if maxChars <= 0 {
		maxChars = defaultMaxPromptChars
	}

	data := promptData{
		Title:         meta.Title,
		Abstract:      meta.Abstract,
		LabText:       lab.ExtractedText,
		LabURL:        lab.SourceURL,
		RequesterName: profile.Name,
		Qualification: profile.Qualification,
		Institution:   profile.Institution,
		Skills:        strings.Join(profile.Skills, ", "),
	}
	if inv.Confidence != types.ConfidenceUnknown {
		data.Investigator = inv.Name
	}

	prompt, err := renderPrompt(data)
	if err != nil {
		return types.GenerationRequest{}, fmt.Errorf("rendering prompt: %w", err)
	}

	// Budget enforcement: shrink the abstract, re-render, then the lab
	// context. Profile fields are the smallest and most essential parts
	// of the prompt and are never cut.
	if len(prompt) > maxChars {
		data.Abstract = shrink(data.Abstract, len(prompt)-maxChars)
		if prompt, err = renderPrompt(data); err != nil {
			return types.GenerationRequest{}, fmt.Errorf("rendering prompt: %w", err)
		}
	}
	if len(prompt) > maxChars {
		data.LabText = shrink(data.LabText, len(prompt)-maxChars)
		if prompt, err = renderPrompt(data); err != nil {
			return types.GenerationRequest{}, fmt.Errorf("rendering prompt: %w", err)
		}
	}

	return types.GenerationRequest{Prompt: prompt}, nil
}

// shrink removes at least excess bytes from s, cutting on a word
// boundary where possible.
func shrink(s string, excess int) string {
	if excess >= len(s) {
		return ""
	}
	return scrape.Truncate(s, len(s)-excess)
}
