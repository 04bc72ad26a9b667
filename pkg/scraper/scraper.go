package scraper

import (
	"context"
	"errors"
)

// Provider turns a web page into plain text.
type Provider interface {
	Scrape(ctx context.Context, url string, options *ScrapeOptions) (*Document, error)
}

var (
	ErrUnsupported = errors.New("unsupported content type")
	ErrFetch       = errors.New("fetch failed")
)

type ScrapeOptions struct {
	UserAgent string
}

type Document struct {
	URL         string
	ContentType string

	Text string
}
