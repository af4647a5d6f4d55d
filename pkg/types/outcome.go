// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// GenerationRequest is the composed payload sent to the generative model.
type GenerationRequest struct {
	// Prompt is the fully assembled prompt text, including the output
	// schema instruction.
	Prompt string `json:"prompt" yaml:"prompt"`

	// MaxOutputTokens caps the model's response length.
	MaxOutputTokens int32 `json:"max_output_tokens" yaml:"max_output_tokens"`
}

// Analysis holds the model's numeric fit estimates. Both fields are
// optional: a nil value means the model did not provide a usable number.
type Analysis struct {
	// CitationScore is the model's citation-impact estimate.
	CitationScore *float64 `json:"citation_score" yaml:"citation_score"`

	// VacancyEstimate is the model's estimate of open positions.
	VacancyEstimate *float64 `json:"vacancy_estimate" yaml:"vacancy_estimate"`
}

// GenerationResult is the validated draft returned to callers. All four
// top-level fields are present on every successful outcome; nested analysis
// values may be nil.
type GenerationResult struct {
	// Summary is a short topic summary of the paper.
	Summary string `json:"summary" yaml:"summary"`

	// Skills lists required technical skills, deduplicated
	// case-insensitively with first-seen casing kept.
	Skills []string `json:"skills" yaml:"skills"`

	// Analysis holds optional numeric fit estimates.
	Analysis Analysis `json:"analysis" yaml:"analysis"`

	// DraftMessage is the outreach email body.
	DraftMessage string `json:"draft_message" yaml:"draft_message"`
}

// FailureKind classifies a fatal pipeline failure. Degradations
// (unresolved metadata, unknown investigator, unavailable context) are
// absorbed by the pipeline and never surface as failures.
type FailureKind string

const (
	// FailServiceUnavailable means the generation client exhausted retries.
	FailServiceUnavailable FailureKind = "service_unavailable"

	// FailMalformedOutput means the validator rejected the model response
	// after best-effort extraction.
	FailMalformedOutput FailureKind = "malformed_output"

	// FailTimeout means the per-invocation budget was exceeded.
	FailTimeout FailureKind = "timeout"
)

// Stage names a pipeline stage for diagnostics.
type Stage string

const (
	StageMetadata     Stage = "metadata"
	StageInvestigator Stage = "investigator"
	StageContext      Stage = "context"
	StageCompose      Stage = "compose"
	StageGeneration   Stage = "generation"
	StageValidation   Stage = "validation"
)

// Failure describes a fatal pipeline failure with enough detail to triage
// without re-running. Detail carries the raw model response for
// FailMalformedOutput; it never carries credentials.
type Failure struct {
	Kind   FailureKind `json:"kind" yaml:"kind"`
	Stage  Stage       `json:"stage" yaml:"stage"`
	Detail string      `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// String renders the failure for operator-facing output.
func (f Failure) String() string {
	if f.Detail == "" {
		return fmt.Sprintf("%s at %s stage", f.Kind, f.Stage)
	}
	return fmt.Sprintf("%s at %s stage: %s", f.Kind, f.Stage, f.Detail)
}

// Outcome is the tagged result of one pipeline invocation: exactly one of
// Result or Failure is set.
type Outcome struct {
	Result  *GenerationResult `json:"result,omitempty" yaml:"result,omitempty"`
	Failure *Failure          `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// Success reports whether the invocation produced a validated result.
func (o Outcome) Success() bool {
	return o.Result != nil
}
