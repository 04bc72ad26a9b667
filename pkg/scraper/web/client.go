package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/adrianliechti/lahde/pkg/scraper"

	"golang.org/x/net/html"
)

var _ scraper.Provider = (*Client)(nil)

const (
	defaultMaxSize   = 10 << 20
	defaultUserAgent = "lahde-ingest/1.0"
)

type Client struct {
	client  *http.Client
	maxSize int64
}

type Option func(*Client)

func WithClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithMaxSize(size int64) Option {
	return func(c *Client) {
		c.maxSize = size
	}
}

func New(options ...Option) (*Client, error) {
	c := &Client{
		client:  http.DefaultClient,
		maxSize: defaultMaxSize,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

// Scrape fetches url and returns its visible text with whitespace collapsed.
// Responses that are neither HTML nor text fail with scraper.ErrUnsupported.
func (c *Client) Scrape(ctx context.Context, url string, options *scraper.ScrapeOptions) (*scraper.Document, error) {
	if options == nil {
		options = new(scraper.ScrapeOptions)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", scraper.ErrFetch, err)
	}

	agent := options.UserAgent

	if agent == "" {
		agent = defaultUserAgent
	}

	req.Header.Set("User-Agent", agent)
	req.Header.Set("Accept", "text/html, text/plain;q=0.9, */*;q=0.5")

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", scraper.ErrFetch, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", scraper.ErrFetch, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")

	if mediatype, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediatype
	}

	if !textual(contentType) {
		return nil, fmt.Errorf("%w: %s", scraper.ErrUnsupported, contentType)
	}

	text, err := Text(io.LimitReader(resp.Body, c.maxSize))

	if err != nil {
		return nil, err
	}

	return &scraper.Document{
		URL:         url,
		ContentType: contentType,

		Text: text,
	}, nil
}

// textual accepts unlabelled bodies as well as HTML and plain text.
func textual(contentType string) bool {
	if contentType == "" || strings.HasPrefix(contentType, "text/") {
		return true
	}

	return contentType == "application/xhtml+xml"
}

var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
}

// Text strips markup from an HTML document. Script, style and noscript
// content is dropped and runs of whitespace become a single space.
func Text(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)

	var parts []string
	var skip int

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}

			return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), nil

		case html.StartTagToken:
			name, _ := z.TagName()

			if skipTags[string(name)] {
				skip++
			}

		case html.EndTagToken:
			name, _ := z.TagName()

			if skipTags[string(name)] && skip > 0 {
				skip--
			}

		case html.TextToken:
			if skip == 0 {
				parts = append(parts, string(z.Text()))
			}
		}
	}
}
