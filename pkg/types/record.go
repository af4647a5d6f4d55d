// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Draft is a persisted successful pipeline result together with the input
// that produced it.
type Draft struct {
	// ID is the database row ID.
	ID int64 `json:"id" yaml:"id"`

	// Reference is the caller's original paper reference text.
	Reference string `json:"reference" yaml:"reference"`

	// PaperTitle is the resolved (or degraded) paper title.
	PaperTitle string `json:"paper_title" yaml:"paper_title"`

	// Investigator is the inferred contact name, empty when unknown.
	Investigator string `json:"investigator,omitempty" yaml:"investigator,omitempty"`

	// Result is the validated generation result.
	Result GenerationResult `json:"result" yaml:"result"`

	// CreatedAt is when the draft was stored.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Opportunity is a stored feed entry: a recent paper summarized into a
// short research-opportunity description.
type Opportunity struct {
	// ID is the database row ID.
	ID int64 `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Domain is the topic label the feed was generated for.
	Domain string `json:"domain" yaml:"domain"`

	// Description is the generated two-sentence opportunity description,
	// or a truncated abstract when generation degraded.
	Description string `json:"description" yaml:"description"`

	// PaperURL links to the paper (arXiv abstract page).
	PaperURL string `json:"paper_url,omitempty" yaml:"paper_url,omitempty"`

	// CreatedAt is when the opportunity was stored.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
