package config

import (
	"time"

	"github.com/adrianliechti/lahde/pkg/ingest"
	"github.com/adrianliechti/lahde/pkg/limiter"
	"github.com/adrianliechti/lahde/pkg/otel"
	"github.com/adrianliechti/lahde/pkg/provider/openai"
	"github.com/adrianliechti/lahde/pkg/scraper"
	"github.com/adrianliechti/lahde/pkg/scraper/web"
)

type ingestConfig struct {
	VectorStoreName string `yaml:"vector_store_name"`

	Timeout time.Duration `yaml:"timeout"`
	Proxy   *proxyConfig  `yaml:"proxy"`

	Limit *int `yaml:"limit"`
}

func (c *Config) registerIngest(f *configFile) error {
	s, err := createScraper(f.Ingest)

	if err != nil {
		return err
	}

	options, err := f.OpenAI.options()

	if err != nil {
		return err
	}

	store, err := openai.NewVectorStore(f.OpenAI.URL, options...)

	if err != nil {
		return err
	}

	c.Ingest = ingest.New(s, store, ingest.WithStoreName(f.Ingest.VectorStoreName))

	return nil
}

func createScraper(cfg ingestConfig) (scraper.Provider, error) {
	timeout := 30 * time.Second

	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	client, err := httpClient(cfg.Proxy, timeout)

	if err != nil {
		return nil, err
	}

	var p scraper.Provider

	p, err = web.New(web.WithClient(client))

	if err != nil {
		return nil, err
	}

	if _, ok := p.(limiter.Scraper); !ok {
		p = limiter.NewScraper(createLimiter(cfg.Limit), p)
	}

	if _, ok := p.(otel.Scraper); !ok {
		p = otel.NewScraper("web", p)
	}

	return p, nil
}
