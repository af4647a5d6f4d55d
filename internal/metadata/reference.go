// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5})(?:v\d+)?$`)

// doiPattern matches DOIs: "10.1145/1234567.1234568", optionally prefixed
// with "doi:" or a doi.org URL.
var doiPattern = regexp.MustCompile(`^(?:doi:|https?://(?:dx\.)?doi\.org/)?(10\.\d{4,9}/\S+)$`)

// Classify interprets the caller's reference text as exactly one
// PaperReference variant. arXiv IDs (bare, prefixed, or as arxiv.org URLs)
// normalize to RefArxiv without the version suffix; DOIs normalize to the
// bare DOI; other http(s) URLs stay RefURL; everything else is free text.
func Classify(text string) types.PaperReference {
	trimmed := strings.TrimSpace(text)

	if m := arxivPattern.FindStringSubmatch(trimmed); m != nil {
		return types.PaperReference{Kind: types.RefArxiv, Value: m[1], Raw: text}
	}

	if m := doiPattern.FindStringSubmatch(trimmed); m != nil {
		return types.PaperReference{Kind: types.RefDOI, Value: m[1], Raw: text}
	}

	if u, err := url.Parse(trimmed); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if id := arxivIDFromURL(u); id != "" {
			return types.PaperReference{Kind: types.RefArxiv, Value: id, Raw: text}
		}
		return types.PaperReference{Kind: types.RefURL, Value: trimmed, Raw: text}
	}

	return types.PaperReference{Kind: types.RefFreeText, Value: trimmed, Raw: text}
}

// arxivIDFromURL extracts the arXiv ID from an arxiv.org abstract or PDF
// URL (e.g. "https://arxiv.org/abs/2301.07041v1" or ".../pdf/2301.07041.pdf").
func arxivIDFromURL(u *url.URL) string {
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host != "arxiv.org" && host != "export.arxiv.org" {
		return ""
	}

	path := strings.Trim(u.Path, "/")
	for _, prefix := range []string{"abs/", "pdf/"} {
		if strings.HasPrefix(path, prefix) {
			id := strings.TrimSuffix(strings.TrimPrefix(path, prefix), ".pdf")
			return stripVersion(id)
		}
	}
	return ""
}

// stripVersion removes a trailing version suffix (e.g. "v1", "v2").
func stripVersion(id string) string {
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			return id[:vIdx]
		}
	}
	return id
}
