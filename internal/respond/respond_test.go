// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package respond

import (
	"reflect"
	"strings"
	"testing"
)

const validResponse = `{
	"summary": "The paper introduces a sparse attention variant.",
	"skills": ["PyTorch", "pytorch", "NLP"],
	"analysis": {"citation_score": 450, "vacancy_estimate": 2},
	"draft_message": "Dear Professor Advisor, ..."
}`

func TestParseStrictJSON(t *testing.T) {
	result, err := Parse(validResponse)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if result.Summary != "The paper introduces a sparse attention variant." {
		t.Errorf("Summary = %q", result.Summary)
	}
	if want := []string{"PyTorch", "NLP"}; !reflect.DeepEqual(result.Skills, want) {
		t.Errorf("Skills = %v, want %v (case-insensitive dedup, first casing kept)", result.Skills, want)
	}
	if result.Analysis.CitationScore == nil || *result.Analysis.CitationScore != 450 {
		t.Errorf("CitationScore = %v, want 450", result.Analysis.CitationScore)
	}
	if result.Analysis.VacancyEstimate == nil || *result.Analysis.VacancyEstimate != 2 {
		t.Errorf("VacancyEstimate = %v, want 2", result.Analysis.VacancyEstimate)
	}
	if !strings.HasPrefix(result.DraftMessage, "Dear Professor") {
		t.Errorf("DraftMessage = %q", result.DraftMessage)
	}
}

func TestParseProseWrapped(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "markdown fences",
			raw:  "Here is the result:\n```json\n" + validResponse + "\n```\nLet me know if you need anything else.",
		},
		{
			name: "leading prose",
			raw:  "Sure! I analyzed the paper and produced:\n\n" + validResponse,
		},
		{
			name: "trailing prose",
			raw:  validResponse + "\n\nI hope this outreach message is helpful.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if result.Summary == "" || result.DraftMessage == "" {
				t.Errorf("result = %+v, want recovered fields", result)
			}
		})
	}
}

func TestParseSkipsEarlierNonMatchingObject(t *testing.T) {
	raw := `The schema {"note": "irrelevant"} is followed by the payload: ` + validResponse
	result, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Summary == "" {
		t.Error("should skip JSON objects without expected fields")
	}
}

func TestParseMissingFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "missing analysis",
			raw:  `{"summary": "s", "skills": [], "draft_message": "d"}`,
			want: "analysis",
		},
		{
			name: "missing summary and skills",
			raw:  `{"analysis": {}, "draft_message": "d"}`,
			want: "summary, skills",
		},
		{
			name: "not JSON at all",
			raw:  "I could not process this paper.",
			want: "no JSON object",
		},
		{
			name: "empty input",
			raw:  "",
			want: "no JSON object",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestParseNullNestedValues(t *testing.T) {
	raw := `{"summary": "s", "skills": null, "analysis": null, "draft_message": "d"}`
	result, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v (null nested values are structurally valid)", err)
	}
	if len(result.Skills) != 0 {
		t.Errorf("Skills = %v, want empty", result.Skills)
	}
	if result.Analysis.CitationScore != nil || result.Analysis.VacancyEstimate != nil {
		t.Errorf("Analysis = %+v, want nil numbers", result.Analysis)
	}
}

func TestParseSkillsAsDelimitedString(t *testing.T) {
	raw := `{"summary": "s", "skills": "PyTorch, CUDA; NLP", "analysis": {}, "draft_message": "d"}`
	result, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := []string{"PyTorch", "CUDA", "NLP"}; !reflect.DeepEqual(result.Skills, want) {
		t.Errorf("Skills = %v, want %v", result.Skills, want)
	}
}

func TestParseSkillsDropsNonStrings(t *testing.T) {
	raw := `{"summary": "s", "skills": ["Go", 7, null, " ", "go "], "analysis": {}, "draft_message": "d"}`
	result, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := []string{"Go"}; !reflect.DeepEqual(result.Skills, want) {
		t.Errorf("Skills = %v, want %v", result.Skills, want)
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{"integer", `450`, ptr(450)},
		{"float", `0.75`, ptr(0.75)},
		{"negative", `-3`, ptr(-3)},
		{"numeric string", `"120"`, ptr(120)},
		{"number with suffix", `"450 (High Impact)"`, ptr(450)},
		{"padded string", `"  12.5 "`, ptr(12.5)},
		{"null", `null`, nil},
		{"non-numeric string", `"unknown"`, nil},
		{"object", `{"v": 1}`, nil},
		{"absent", ``, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw []byte
			if tt.raw != "" {
				raw = []byte(tt.raw)
			}
			got := coerceNumber(raw)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("coerceNumber(%s) = %v, want nil", tt.raw, *got)
			case tt.want != nil && got == nil:
				t.Errorf("coerceNumber(%s) = nil, want %v", tt.raw, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("coerceNumber(%s) = %v, want %v", tt.raw, *got, *tt.want)
			}
		})
	}
}

func TestParseAnalysisStringValues(t *testing.T) {
	raw := `{"summary": "s", "skills": [], "analysis": {"citation_score": "310 citations", "vacancy_estimate": "none known"}, "draft_message": "d"}`
	result, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Analysis.CitationScore == nil || *result.Analysis.CitationScore != 310 {
		t.Errorf("CitationScore = %v, want 310", result.Analysis.CitationScore)
	}
	if result.Analysis.VacancyEstimate != nil {
		t.Errorf("VacancyEstimate = %v, want nil", result.Analysis.VacancyEstimate)
	}
}

func ptr(f float64) *float64 { return &f }
