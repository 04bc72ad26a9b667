package otel

import (
	"context"
	"net/url"

	"github.com/adrianliechti/lahde/pkg/scraper"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Scraper interface {
	Observable
	scraper.Provider
}

type observableScraper struct {
	provider string
	scraper  scraper.Provider
}

func NewScraper(provider string, p scraper.Provider) Scraper {
	return &observableScraper{
		provider: provider,
		scraper:  p,
	}
}

func (s *observableScraper) otelSetup() {
}

// Scrape records one span per fetched page with the target host and the
// size of the extracted text.
func (s *observableScraper) Scrape(ctx context.Context, rawURL string, options *scraper.ScrapeOptions) (*scraper.Document, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "scrape "+s.provider)
	defer span.End()

	span.SetAttributes(attribute.String("url.full", rawURL))

	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		span.SetAttributes(attribute.String("server.address", u.Hostname()))
	}

	doc, err := s.scraper.Scrape(ctx, rawURL, options)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(
		attribute.String("lahde.content_type", doc.ContentType),
		attribute.Int("lahde.text_length", len(doc.Text)),
	)

	return doc, nil
}
