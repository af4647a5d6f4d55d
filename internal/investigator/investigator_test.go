// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package investigator

import (
	"testing"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

func TestIdentify(t *testing.T) {
	tests := []struct {
		name           string
		meta           types.PaperMetadata
		wantName       string
		wantConfidence types.Confidence
	}{
		{
			name: "last author wins with two authors",
			meta: types.PaperMetadata{
				Authors: []string{"Jane Student", "John Advisor"},
				Source:  types.SourceIdentifierLookup,
			},
			wantName:       "John Advisor",
			wantConfidence: types.ConfidenceHigh,
		},
		{
			name: "last author wins with many authors",
			meta: types.PaperMetadata{
				Authors: []string{"A", "B", "C", "D", "Senior PI"},
				Source:  types.SourceIdentifierLookup,
			},
			wantName:       "Senior PI",
			wantConfidence: types.ConfidenceHigh,
		},
		{
			name: "free-text metadata lowers confidence",
			meta: types.PaperMetadata{
				Authors: []string{"Jane Student", "John Advisor"},
				Source:  types.SourceFreeText,
			},
			wantName:       "John Advisor",
			wantConfidence: types.ConfidenceLow,
		},
		{
			name: "single author is unknown",
			meta: types.PaperMetadata{
				Authors: []string{"Solo Author"},
				Source:  types.SourceIdentifierLookup,
			},
			wantName:       "",
			wantConfidence: types.ConfidenceUnknown,
		},
		{
			name:           "empty author list is unknown",
			meta:           types.PaperMetadata{Source: types.SourceIdentifierLookup},
			wantName:       "",
			wantConfidence: types.ConfidenceUnknown,
		},
		{
			name: "blank author entries are ignored",
			meta: types.PaperMetadata{
				Authors: []string{"Real Author", "   "},
				Source:  types.SourceIdentifierLookup,
			},
			wantName:       "",
			wantConfidence: types.ConfidenceUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identify(tt.meta)
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %q, want %q", got.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestIdentifyIsDeterministic(t *testing.T) {
	meta := types.PaperMetadata{
		Authors: []string{"First Author", "Middle Author", "Last Author"},
		Source:  types.SourceIdentifierLookup,
	}
	first := Identify(meta)
	for i := 0; i < 10; i++ {
		if got := Identify(meta); got != first {
			t.Fatalf("Identify not deterministic: %v vs %v", got, first)
		}
	}
}
