// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/outreach-engine/internal/httputil"
)

// ddgSearchBase is the DuckDuckGo HTML search endpoint (no API key
// required). Declared as a var so tests can substitute an httptest server.
var ddgSearchBase = "https://html.duckduckgo.com/html/"

// DuckDuckGoSearch queries the DuckDuckGo HTML interface and parses
// result anchors out of the response.
type DuckDuckGoSearch struct {
	Client    *http.Client
	UserAgent string
}

// Search returns up to max candidate URLs for the query, in result order.
func (s *DuckDuckGoSearch) Search(ctx context.Context, query string, max int) ([]Candidate, error) {
	if max <= 0 {
		max = defaultMaxCandidates
	}

	reqURL := ddgSearchBase + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned HTTP %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing search results: %w", err)
	}

	var candidates []Candidate
	collectResults(doc, &candidates)
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates, nil
}

// collectResults walks the document collecting result__a anchors, the
// class DuckDuckGo's HTML frontend puts on result links.
func collectResults(n *html.Node, out *[]Candidate) {
	if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
		if href := attrValue(n, "href"); href != "" {
			if target := resolveRedirect(href); target != "" {
				*out = append(*out, Candidate{Title: nodeText(n), URL: target})
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectResults(c, out)
	}
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<encoded> redirect links;
// direct http(s) links pass through unchanged.
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if uddg := u.Query().Get("uddg"); uddg != "" {
		return uddg
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return href
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attrValue(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
