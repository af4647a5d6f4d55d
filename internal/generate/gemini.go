// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

const defaultModel = "gemini-1.5-flash"

// GeminiService generates text through the Gemini API.
type GeminiService struct {
	client *genai.Client
	model  string
}

// NewGeminiService builds a Gemini-backed service from the generation
// config. The caller owns the returned service and should Close it.
func NewGeminiService(ctx context.Context, cfg types.GenerationConfig) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &GeminiService{client: client, model: model}, nil
}

// Generate sends the composed prompt and returns the concatenated text
// parts of the first candidate.
func (s *GeminiService) Generate(ctx context.Context, req types.GenerationRequest) (string, error) {
	model := s.client.GenerativeModel(s.model)
	if req.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(req.MaxOutputTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return b.String(), nil
}

// Close releases the underlying API client.
func (s *GeminiService) Close() error {
	return s.client.Close()
}
