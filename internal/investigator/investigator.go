// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package investigator infers the likely principal investigator from a
// paper's author list. It is a pure function of resolved metadata and
// never queries external services.
package investigator

import (
	"strings"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// Identify returns the most likely lab-leadership contact among the
// authors. With two or more authors the last-listed author wins (the
// position conventionally held by the senior investigator); ties in
// convention are resolved in favor of the last author over the first, so
// the result is deterministic. Confidence is high for identifier-resolved
// metadata and low when the authors came from the free-text path. Zero or
// one author yields ConfidenceUnknown, which downstream stages treat as
// "skip context gathering", never as an error.
func Identify(meta types.PaperMetadata) types.Investigator {
	authors := nonEmptyAuthors(meta.Authors)
	if len(authors) < 2 {
		return types.Investigator{Confidence: types.ConfidenceUnknown}
	}

	confidence := types.ConfidenceHigh
	if meta.Source == types.SourceFreeText {
		confidence = types.ConfidenceLow
	}

	return types.Investigator{
		Name:       authors[len(authors)-1],
		Confidence: confidence,
	}
}

func nonEmptyAuthors(authors []string) []string {
	var out []string
	for _, a := range authors {
		if name := strings.TrimSpace(a); name != "" {
			out = append(out, name)
		}
	}
	return out
}
