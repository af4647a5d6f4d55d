// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package respond parses and validates the generative model's raw text
// into a typed result. A strict JSON parse is attempted first; if the
// model wrapped the payload in prose or code fences, the first decodable
// JSON object in the text is extracted before giving up. Structural
// validation only: all four top-level fields must be present, but a
// semantically thin result (empty skills, null analysis numbers) passes.
package respond

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// envelope captures field presence: a key absent from the JSON leaves
// its RawMessage nil, while an explicit null does not.
type envelope struct {
	Summary      json.RawMessage `json:"summary"`
	Skills       json.RawMessage `json:"skills"`
	Analysis     json.RawMessage `json:"analysis"`
	DraftMessage json.RawMessage `json:"draft_message"`
}

// Parse converts the model's raw text into a GenerationResult. An error
// means the output is malformed beyond repair; the caller maps it to a
// validation failure carrying the raw text.
func Parse(raw string) (types.GenerationResult, error) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		extracted, ok := extractJSONObject(raw)
		if !ok {
			return types.GenerationResult{}, fmt.Errorf("no JSON object found in model output")
		}
		if err := json.Unmarshal(extracted, &env); err != nil {
			return types.GenerationResult{}, fmt.Errorf("decoding extracted JSON: %w", err)
		}
	}
	return validate(env)
}

// extractJSONObject locates the first decodable JSON object in text that
// carries at least one expected field. Code fences are stripped first.
func extractJSONObject(text string) (json.RawMessage, bool) {
	text = stripFences(text)
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[start:]))
		var probe map[string]json.RawMessage
		if err := dec.Decode(&probe); err != nil {
			continue
		}
		for _, key := range []string{"summary", "skills", "analysis", "draft_message"} {
			if _, ok := probe[key]; ok {
				end := start + int(dec.InputOffset())
				return json.RawMessage(text[start:end]), true
			}
		}
	}
	return nil, false
}

func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "\n")
	return strings.ReplaceAll(text, "```", "\n")
}

func validate(env envelope) (types.GenerationResult, error) {
	var missing []string
	for _, field := range []struct {
		name string
		raw  json.RawMessage
	}{
		{"summary", env.Summary},
		{"skills", env.Skills},
		{"analysis", env.Analysis},
		{"draft_message", env.DraftMessage},
	} {
		if field.raw == nil {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return types.GenerationResult{}, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	var result types.GenerationResult
	if err := json.Unmarshal(env.Summary, &result.Summary); err != nil {
		return types.GenerationResult{}, fmt.Errorf("summary is not a string")
	}
	if err := json.Unmarshal(env.DraftMessage, &result.DraftMessage); err != nil {
		return types.GenerationResult{}, fmt.Errorf("draft_message is not a string")
	}
	result.Skills = coerceSkills(env.Skills)
	result.Analysis = coerceAnalysis(env.Analysis)
	return result, nil
}

// coerceSkills accepts an array of strings, a single delimited string,
// or anything else (empty list), and deduplicates case-insensitively
// keeping first-seen casing.
func coerceSkills(raw json.RawMessage) []string {
	var items []string

	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	} else {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			items = strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' || r == ';' })
		}
	}

	seen := make(map[string]bool, len(items))
	skills := []string{}
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, item)
	}
	return skills
}

func coerceAnalysis(raw json.RawMessage) types.Analysis {
	var fields struct {
		CitationScore   json.RawMessage `json:"citation_score"`
		VacancyEstimate json.RawMessage `json:"vacancy_estimate"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return types.Analysis{}
	}
	return types.Analysis{
		CitationScore:   coerceNumber(fields.CitationScore),
		VacancyEstimate: coerceNumber(fields.VacancyEstimate),
	}
}

// leadingNumber matches a number at the start of a string-typed value,
// tolerating output like "450 (estimated)".
var leadingNumber = regexp.MustCompile(`^-?\d+(\.\d+)?`)

// coerceNumber accepts a JSON number or a number-bearing string; any
// other value yields nil rather than an error.
func coerceNumber(raw json.RawMessage) *float64 {
	if raw == nil {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	match := leadingNumber.FindString(strings.TrimSpace(s))
	if match == "" {
		return nil
	}
	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &n
}
