// Package scrape collects raw tables from HTML pages using caller-supplied
// CSS selectors. Its output is plain textual cells, ready for the loader's
// round trip through delimited text.
package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/tablewash/internal/logger"
	"github.com/jmylchreest/tablewash/pkg/table"
)

// ErrNoItems is returned when the item selector matches nothing on any page.
var ErrNoItems = errors.New("no items matched")

// Chrome user agent for better compatibility
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds configuration for the collector.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string

	// Delay is the upper bound of a random pause before each request.
	Delay time.Duration

	// Next selects the "next page" link followed after each page.
	Next string

	// MaxPages caps the number of pages visited. Zero means no limit.
	MaxPages int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: defaultUserAgent,
		Timeout:   15 * time.Second,
	}
}

// Field maps a CSS selector, relative to an item, to a column.
type Field struct {
	Name     string
	Selector string
	Attr     string // read this attribute instead of the element text
}

// ParseField parses "name=selector" or "name=selector@attr".
func ParseField(def string) (Field, error) {
	name, rest, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Field{}, fmt.Errorf("invalid field %q: expected name=selector", def)
	}

	f := Field{Name: name, Selector: strings.TrimSpace(rest)}
	if i := strings.LastIndex(f.Selector, "@"); i >= 0 {
		f.Attr = strings.TrimSpace(f.Selector[i+1:])
		f.Selector = strings.TrimSpace(f.Selector[:i])
	}
	if f.Selector == "" {
		return Field{}, fmt.Errorf("invalid field %q: empty selector", def)
	}
	return f, nil
}

// Collector fetches pages with Colly and extracts rows with goquery.
type Collector struct {
	config Config
}

// New creates a collector.
func New(cfg Config) *Collector {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Collector{config: cfg}
}

// Collect visits each URL in order, following Next links when set, and
// returns one row per element matching item with one textual column per field.
func (c *Collector) Collect(ctx context.Context, urls []string, item string, fields []Field) (*table.Table, error) {
	t, err := newTable(fields)
	if err != nil {
		return nil, err
	}

	col := colly.NewCollector(
		colly.UserAgent(c.config.UserAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	col.SetRequestTimeout(c.config.Timeout)

	if c.config.Delay > 0 {
		if err := col.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			RandomDelay: c.config.Delay,
		}); err != nil {
			return nil, fmt.Errorf("failed to set delay: %w", err)
		}
	}

	if len(c.config.Headers) > 0 {
		col.OnRequest(func(r *colly.Request) {
			for k, v := range c.config.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	var (
		body     []byte
		fetchErr error
	)
	col.OnResponse(func(r *colly.Response) {
		body = r.Body
		logger.Debug("scrape response received",
			"url", r.Request.URL.String(),
			"status", r.StatusCode,
			"body_size", len(r.Body))
	})
	col.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch error (status %d): %w", status, err)
	})

	queue := newPageQueue(urls)
	pages := 0
	for {
		u, ok := queue.pop()
		if !ok || (c.config.MaxPages > 0 && pages >= c.config.MaxPages) {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, fetchErr = nil, nil
		logger.Debug("scrape visiting URL", "url", u)
		if err := col.Visit(u); err != nil {
			return nil, fmt.Errorf("failed to visit %s: %w", u, err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("%s: %w", u, fetchErr)
		}
		pages++

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse HTML: %w", u, err)
		}
		n, err := extractRows(t, doc, item, fields)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", u, err)
		}
		logger.Info("page collected", "url", u, "items", n)

		if next, ok := nextPage(doc, c.config.Next, u); ok && queue.push(next) {
			logger.Debug("following next page", "url", next)
		}
	}

	if t.NumRows() == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoItems, item)
	}
	return t, nil
}

// ExtractHTML extracts rows from an HTML document without fetching.
func ExtractHTML(html, item string, fields []Field) (*table.Table, error) {
	t, err := newTable(fields)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	n, err := extractRows(t, doc, item, fields)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoItems, item)
	}
	return t, nil
}

func newTable(fields []Field) (*table.Table, error) {
	if len(fields) == 0 {
		return nil, errors.New("at least one field is required")
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return table.New(names...)
}

// extractRows appends one row per item element. A field that matches
// nothing inside an item yields a missing cell.
func extractRows(t *table.Table, doc *goquery.Document, item string, fields []Field) (int, error) {
	var rowErr error
	n := 0
	doc.Find(item).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		row := make([]table.Cell, len(fields))
		for i, f := range fields {
			row[i] = fieldCell(s, f)
		}
		if rowErr = t.AppendRow(row...); rowErr != nil {
			return false
		}
		n++
		return true
	})
	return n, rowErr
}

func fieldCell(item *goquery.Selection, f Field) table.Cell {
	sel := item.Find(f.Selector).First()
	if sel.Length() == 0 {
		return table.Missing()
	}
	if f.Attr != "" {
		v, ok := sel.Attr(f.Attr)
		if !ok {
			return table.Missing()
		}
		return table.Text(strings.TrimSpace(v))
	}
	return table.Text(cleanText(sel.Text()))
}

// cleanText collapses runs of whitespace and trims the ends.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
