// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the outreach-engine
// pipeline: paper references and metadata, investigator and lab context,
// generation request/result, the pipeline outcome taxonomy, stored records,
// and stage configuration.
package types

// ReferenceKind classifies the input a caller hands to the pipeline.
type ReferenceKind string

const (
	RefArxiv    ReferenceKind = "arxiv"
	RefDOI      ReferenceKind = "doi"
	RefURL      ReferenceKind = "url"
	RefFreeText ReferenceKind = "free-text"
)

// PaperReference is the immutable pipeline input: exactly one interpretation
// of the caller's text. Value holds the normalized identifier (arXiv ID
// without the "arXiv:" prefix, bare DOI, URL) or, for RefFreeText, the raw
// text itself.
type PaperReference struct {
	// Kind classifies the reference.
	Kind ReferenceKind `json:"kind" yaml:"kind"`

	// Value is the normalized identifier, URL, or free text.
	Value string `json:"value" yaml:"value"`

	// Raw preserves the caller's original input verbatim.
	Raw string `json:"raw" yaml:"raw"`
}

// MetadataSource records how PaperMetadata was produced.
type MetadataSource string

const (
	// SourceIdentifierLookup means a metadata service resolved the reference.
	SourceIdentifierLookup MetadataSource = "identifier-lookup"

	// SourceFreeText means resolution degraded and the metadata was derived
	// from the reference text itself.
	SourceFreeText MetadataSource = "free-text"
)

// PaperMetadata is the resolver's output. Abstract and Authors may be empty
// when resolution degraded; downstream stages must tolerate that, not fail.
type PaperMetadata struct {
	// Title is the paper title, or the raw reference text when unresolved.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract, possibly empty.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Source records whether the metadata came from an identifier lookup
	// or the free-text degradation path.
	Source MetadataSource `json:"source" yaml:"source"`
}

// Confidence grades how certain the investigator heuristic is.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceLow     Confidence = "low"
	ConfidenceUnknown Confidence = "unknown"
)

// Investigator is the inferred principal investigator for a paper.
// ConfidenceUnknown is a valid terminal value: downstream stages skip
// context gathering rather than error.
type Investigator struct {
	// Name is the investigator's display name, empty when unknown.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Confidence grades the heuristic that produced Name.
	Confidence Confidence `json:"confidence" yaml:"confidence"`
}

// LabContext is best-effort signal about the investigator's current work.
// An empty context is not an error condition.
type LabContext struct {
	// SourceURL is the page the text was extracted from, empty when no
	// usable page was found.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// ExtractedText is length-bounded representative text from the page.
	ExtractedText string `json:"extracted_text,omitempty" yaml:"extracted_text,omitempty"`
}

// IsEmpty reports whether the context carries no usable signal.
func (c LabContext) IsEmpty() bool {
	return c.ExtractedText == ""
}

// RequesterProfile describes the person the outreach email is written for.
// The pipeline embeds it in the prompt and does not interpret it further.
type RequesterProfile struct {
	// Name is the requester's full name.
	Name string `json:"name" yaml:"name"`

	// Qualification is the requester's degree or program (e.g. "MSc CS").
	Qualification string `json:"qualification,omitempty" yaml:"qualification,omitempty"`

	// Institution is the requester's current institution.
	Institution string `json:"institution,omitempty" yaml:"institution,omitempty"`

	// Skills lists the requester's technical skills.
	Skills []string `json:"skills,omitempty" yaml:"skills,omitempty"`
}
