// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDraft() types.Draft {
	score := 120.0
	return types.Draft{
		Reference:    "arXiv:2401.12345",
		PaperTitle:   "Sparse Attention at Scale",
		Investigator: "B. Advisor",
		Result: types.GenerationResult{
			Summary:      "A sparse attention variant.",
			Skills:       []string{"PyTorch", "NLP"},
			Analysis:     types.Analysis{CitationScore: &score},
			DraftMessage: "Dear Professor Advisor, ...",
		},
	}
}

func TestSaveAndGetDraft(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SaveDraft(sampleDraft())
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	got, err := s.GetDraft(id)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, "arXiv:2401.12345", got.Reference)
	assert.Equal(t, "Sparse Attention at Scale", got.PaperTitle)
	assert.Equal(t, "B. Advisor", got.Investigator)
	assert.Equal(t, []string{"PyTorch", "NLP"}, got.Result.Skills)
	require.NotNil(t, got.Result.Analysis.CitationScore)
	assert.Equal(t, 120.0, *got.Result.Analysis.CitationScore)
	assert.Nil(t, got.Result.Analysis.VacancyEstimate)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetDraftNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetDraft(42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListDraftsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	first := sampleDraft()
	first.PaperTitle = "Older"
	first.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.SaveDraft(first)
	require.NoError(t, err)

	second := sampleDraft()
	second.PaperTitle = "Newer"
	second.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err = s.SaveDraft(second)
	require.NoError(t, err)

	drafts, err := s.ListDrafts()
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Newer", drafts[0].PaperTitle)
	assert.Equal(t, "Older", drafts[1].PaperTitle)
}

func TestSaveAndListOpportunities(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveOpportunity(types.Opportunity{
		Title:       "Paper A",
		Domain:      "AI & Machine Learning",
		Description: "Two sentences about the work.",
		PaperURL:    "https://arxiv.org/abs/2401.00001",
	})
	require.NoError(t, err)

	_, err = s.SaveOpportunity(types.Opportunity{
		Title:       "Paper B",
		Domain:      "Robotics",
		Description: "Another description.",
	})
	require.NoError(t, err)

	all, err := s.ListOpportunities("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	ai, err := s.ListOpportunities("AI & Machine Learning")
	require.NoError(t, err)
	require.Len(t, ai, 1)
	assert.Equal(t, "Paper A", ai[0].Title)
	assert.Equal(t, "https://arxiv.org/abs/2401.00001", ai[0].PaperURL)
}

func TestHasRecentOpportunity(t *testing.T) {
	s := newTestStore(t)

	exists, err := s.HasRecentOpportunity("Paper A")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.SaveOpportunity(types.Opportunity{Title: "Paper A", Domain: "d", Description: "x"})
	require.NoError(t, err)

	exists, err = s.HasRecentOpportunity("Paper A")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestExportDraftYAML(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SaveDraft(sampleDraft())
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, s.ExportDraft(id, &buf))

	out := buf.String()
	assert.Contains(t, out, "paper_title: Sparse Attention at Scale")
	assert.Contains(t, out, "draft_message:")
	assert.Contains(t, out, "PyTorch")
}

func TestStoreReopenPersists(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStore(types.StoreConfig{DataDir: dir})
	require.NoError(t, err)
	id, err := s.SaveDraft(sampleDraft())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewStore(types.StoreConfig{DataDir: dir})
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetDraft(id)
	require.NoError(t, err)
	assert.Equal(t, "Sparse Attention at Scale", got.PaperTitle)
}
