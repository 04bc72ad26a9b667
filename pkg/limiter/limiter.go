package limiter

import (
	"context"
	"log/slog"

	"github.com/adrianliechti/lahde/pkg/provider"
	"github.com/adrianliechti/lahde/pkg/scraper"

	"golang.org/x/time/rate"
)

// Limiter marks providers whose calls are throttled by a token bucket.
type Limiter interface {
	limiterSetup()
}

// wait blocks until l admits one call. A nil limiter never blocks.
func wait(ctx context.Context, l *rate.Limiter, name string) error {
	if l == nil {
		return nil
	}

	if l.Tokens() < 1 {
		slog.Debug("throttling outbound call", "provider", name)
	}

	return l.Wait(ctx)
}

type Responder interface {
	Limiter
	provider.Responder
}

type limitedResponder struct {
	limiter   *rate.Limiter
	responder provider.Responder
}

func NewResponder(l *rate.Limiter, p provider.Responder) Responder {
	return &limitedResponder{
		limiter:   l,
		responder: p,
	}
}

func (r *limitedResponder) limiterSetup() {
}

func (r *limitedResponder) Respond(ctx context.Context, req *provider.Request) (provider.Stream, error) {
	if err := wait(ctx, r.limiter, "responder"); err != nil {
		return nil, err
	}

	return r.responder.Respond(ctx, req)
}

type Scraper interface {
	Limiter
	scraper.Provider
}

type limitedScraper struct {
	limiter *rate.Limiter
	scraper scraper.Provider
}

func NewScraper(l *rate.Limiter, p scraper.Provider) Scraper {
	return &limitedScraper{
		limiter: l,
		scraper: p,
	}
}

func (s *limitedScraper) limiterSetup() {
}

func (s *limitedScraper) Scrape(ctx context.Context, url string, options *scraper.ScrapeOptions) (*scraper.Document, error) {
	if err := wait(ctx, s.limiter, "scraper"); err != nil {
		return nil, err
	}

	return s.scraper.Scrape(ctx, url, options)
}
