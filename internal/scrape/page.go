// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

const defaultMaxPageBytes = 2 << 20 // 2 MiB

// HTMLFetcher retrieves a page over HTTP and extracts readable text,
// skipping scripts, styles, and navigation boilerplate. The response body
// read is capped at MaxBytes.
type HTMLFetcher struct {
	Client    *http.Client
	UserAgent string
	MaxBytes  int64
}

// skipElements are tags whose subtrees carry no representative text.
var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true,
	"svg": true, "nav": true, "footer": true, "header": true,
	"form": true, "aside": true,
}

// Fetch downloads pageURL and returns whitespace-collapsed visible text.
func (f *HTMLFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned HTTP %d", resp.StatusCode)
	}

	maxBytes := f.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxPageBytes
	}
	body := io.LimitReader(resp.Body, maxBytes)

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/plain") {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("reading page: %w", err)
		}
		return collapseText(string(data)), nil
	}

	doc, err := html.Parse(body)
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}

	var b strings.Builder
	extractVisibleText(doc, &b, 0)
	return collapseText(b.String()), nil
}

// extractVisibleText walks the DOM appending text nodes, skipping
// boilerplate subtrees. The depth bound guards against pathological
// nesting.
func extractVisibleText(n *html.Node, b *strings.Builder, depth int) {
	if depth > 100 {
		return
	}

	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(text)
			b.WriteByte(' ')
		}
	case html.ElementNode:
		if skipElements[n.Data] {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractVisibleText(c, b, depth+1)
	}
}

func collapseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
