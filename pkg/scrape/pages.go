package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// pageQueue holds the pages left to visit. A URL is queued at most once.
type pageQueue struct {
	pending []string
	seen    map[string]bool
}

func newPageQueue(seeds []string) *pageQueue {
	q := &pageQueue{seen: make(map[string]bool, len(seeds))}
	for _, u := range seeds {
		q.push(u)
	}
	return q
}

// push queues rawURL unless it is unparseable or was queued before.
func (q *pageQueue) push(rawURL string) bool {
	normalized := normalizeURL(rawURL)
	if normalized == "" || q.seen[normalized] {
		return false
	}
	q.seen[normalized] = true
	q.pending = append(q.pending, normalized)
	return true
}

func (q *pageQueue) pop() (string, bool) {
	if len(q.pending) == 0 {
		return "", false
	}
	u := q.pending[0]
	q.pending = q.pending[1:]
	return u, true
}

// normalizeURL drops the fragment and a trailing path slash so equivalent
// page URLs compare equal.
func normalizeURL(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return ""
	}
	parsed.Fragment = ""
	if len(parsed.Path) > 1 && strings.HasSuffix(parsed.Path, "/") {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	}
	return parsed.String()
}

// nextPage resolves the href of the first element matching selector
// against the page URL.
func nextPage(doc *goquery.Document, selector, pageURL string) (string, bool) {
	if selector == "" {
		return "", false
	}
	href, ok := doc.Find(selector).First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return "", false
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	link, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(link).String(), true
}
