// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/outreach-engine/internal/httputil"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlexSource is the keyword-fallback source: it resolves any reference
// by searching OpenAlex with terms derived from the reference text. DOIs
// are queried directly through the works filter.
type OpenAlexSource struct {
	Client *http.Client
	// Email is sent as mailto parameter for polite pool access.
	Email string
}

// Name returns the source identifier.
func (s *OpenAlexSource) Name() string { return "openalex" }

// Resolve queries OpenAlex and returns the top-ranked work as metadata.
func (s *OpenAlexSource) Resolve(ctx context.Context, ref types.PaperReference, cfg types.MetadataConfig) (types.PaperMetadata, error) {
	params := url.Values{"per_page": {"1"}, "page": {"1"}}

	if ref.Kind == types.RefDOI {
		params.Set("filter", "doi:"+ref.Value)
	} else {
		query := DeriveQuery(ref)
		if query == "" {
			return types.PaperMetadata{}, fmt.Errorf("no searchable terms in reference")
		}
		params.Set("search", query)
	}

	if s.Email != "" {
		params.Set("mailto", s.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.PaperMetadata{}, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return types.PaperMetadata{}, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	if len(oar.Results) == 0 {
		return types.PaperMetadata{}, fmt.Errorf("no OpenAlex results")
	}

	work := oar.Results[0]
	meta := types.PaperMetadata{
		Title:    work.Title,
		Abstract: reconstructAbstract(work.AbstractInvertedIndex),
		Source:   types.SourceIdentifierLookup,
	}
	for _, authorship := range work.Authorships {
		if authorship.Author.DisplayName != "" {
			meta.Authors = append(meta.Authors, authorship.Author.DisplayName)
		}
	}
	return meta, nil
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	// Build position→word map.
	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
