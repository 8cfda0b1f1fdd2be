// Package article downloads web articles and extracts their readable text.
package article

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/jackdanger/collectlinks"
	"jaytaylor.com/html2text"
)

// DefaultMaxBodySize limits how much HTML is read from a page.
const DefaultMaxBodySize = 10 * 1024 * 1024

// ErrTooLarge is returned when a page exceeds the size limit.
var ErrTooLarge = errors.New("response body exceeds size limit")

// Article is the readable content of a page.
type Article struct {
	URL      string
	Title    string
	Byline   string
	SiteName string
	Text     string
}

// Fetcher downloads pages. The zero value is not usable; call NewFetcher.
type Fetcher struct {
	client      *http.Client
	maxBodySize int64
}

// NewFetcher returns a Fetcher with a 30 second timeout and the default
// size limit.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client:      &http.Client{Timeout: 30 * time.Second},
		maxBodySize: DefaultMaxBodySize,
	}
}

// WithClient replaces the HTTP client.
func (f *Fetcher) WithClient(c *http.Client) *Fetcher {
	f.client = c
	return f
}

// WithMaxBodySize replaces the size limit.
func (f *Fetcher) WithMaxBodySize(n int64) *Fetcher {
	f.maxBodySize = n
	return f
}

// Fetch downloads rawURL and extracts its main article as plain text with
// paragraphs separated by blank lines.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Article, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	body, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	art, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return nil, fmt.Errorf("extract article: %w", err)
	}

	text, err := html2text.FromString(art.Content, html2text.Options{PrettyTables: false})
	if err != nil || strings.TrimSpace(text) == "" {
		text = art.TextContent
	}
	return &Article{
		URL:      rawURL,
		Title:    art.Title,
		Byline:   art.Byline,
		SiteName: art.SiteName,
		Text:     strings.TrimSpace(text),
	}, nil
}

// Links returns the absolute links on rawURL whose resolved form matches
// pattern, in page order without duplicates. A nil pattern keeps every link.
func (f *Fetcher) Links(ctx context.Context, rawURL string, pattern *regexp.Regexp) ([]string, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	body, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, href := range collectlinks.All(bytes.NewReader(body)) {
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref)
		abs.Fragment = ""
		s := abs.String()
		if seen[s] || (pattern != nil && !pattern.MatchString(s)) {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	// Some sites block clients that do not look like a browser.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > f.maxBodySize {
		return nil, fmt.Errorf("%w: content-length %d", ErrTooLarge, resp.ContentLength)
	}
	// Read one byte past the limit to tell a full page from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, ErrTooLarge
	}
	return body, nil
}
