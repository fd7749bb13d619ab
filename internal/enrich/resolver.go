// Package enrich discovers a restaurant's canonical URL via web search and a
// representative image by scraping page metadata. Both lookups are single
// best-effort attempts; callers decide how to degrade when they fail.
package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultSearchURL = "https://duckduckgo.com/html/"
	userAgent        = "Mozilla/5.0 (Windows NT 10; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko)"
)

type Resolver struct {
	client    *http.Client
	searchURL string
}

// NewResolver builds a resolver around the given client. A nil client gets a
// 5 second timeout, matching the bound on the page fetch.
func NewResolver(client *http.Client) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Resolver{client: client, searchURL: defaultSearchURL}
}

// ResolveCanonicalURL searches for the query and returns the first organic
// result as an absolute http(s) URL. It returns "" with a nil error when the
// search succeeds but yields nothing usable.
func (r *Resolver) ResolveCanonicalURL(ctx context.Context, query string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.searchURL, nil)
	if err != nil {
		return "", err
	}
	q := req.URL.Query()
	q.Set("q", query)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	href, _ := doc.Find("a.result__a").First().Attr("href")
	if href == "" {
		return "", nil
	}

	// DuckDuckGo wraps results in a redirect carrying the target in "uddg".
	if strings.HasPrefix(href, "//duckduckgo.com/l/") || strings.HasPrefix(href, "/l/?uddg=") {
		return decodeRedirect(href), nil
	}
	if isHTTPURL(href) {
		return href, nil
	}
	return "", nil
}

func decodeRedirect(href string) string {
	idx := strings.Index(href, "?")
	if idx < 0 {
		return ""
	}
	values, err := url.ParseQuery(href[idx+1:])
	if err != nil {
		return ""
	}
	target := values.Get("uddg")
	if isHTTPURL(target) {
		return target
	}
	return ""
}

// ResolveImage fetches the page and returns the first absolute http(s) image
// URL among og:image, link[rel=image_src] and twitter:image, in that order.
// "" with a nil error means the page carried none of them.
func (r *Resolver) ResolveImage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page fetch returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	candidates := []string{
		doc.Find(`meta[property="og:image"]`).AttrOr("content", ""),
		doc.Find(`link[rel="image_src"]`).AttrOr("href", ""),
		doc.Find(`meta[name="twitter:image"]`).AttrOr("content", ""),
	}
	for _, candidate := range candidates {
		if isHTTPURL(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
