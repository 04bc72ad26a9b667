package config

import (
	"github.com/adrianliechti/lahde/pkg/limiter"
	"github.com/adrianliechti/lahde/pkg/otel"
	"github.com/adrianliechti/lahde/pkg/provider"
	"github.com/adrianliechti/lahde/pkg/provider/openai"
)

type openaiConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Model string `yaml:"model"`

	Organization string `yaml:"organization"`
	Project      string `yaml:"project"`

	Proxy *proxyConfig `yaml:"proxy"`

	Limit *int `yaml:"limit"`
}

func (cfg *openaiConfig) options() ([]openai.Option, error) {
	var options []openai.Option

	if cfg.Token != "" {
		options = append(options, openai.WithToken(cfg.Token))
	}

	if cfg.Organization != "" {
		options = append(options, openai.WithOrganization(cfg.Organization))
	}

	if cfg.Project != "" {
		options = append(options, openai.WithProject(cfg.Project))
	}

	client, err := httpClient(cfg.Proxy, 0)

	if err != nil {
		return nil, err
	}

	options = append(options, openai.WithClient(client))

	return options, nil
}

func (c *Config) registerProviders(f *configFile) error {
	model := f.OpenAI.Model

	if model == "" {
		model = DefaultModel
	}

	options, err := f.OpenAI.options()

	if err != nil {
		return err
	}

	var responder provider.Responder

	responder, err = openai.NewResponder(f.OpenAI.URL, model, options...)

	if err != nil {
		return err
	}

	if _, ok := responder.(limiter.Responder); !ok {
		responder = limiter.NewResponder(createLimiter(f.OpenAI.Limit), responder)
	}

	if _, ok := responder.(otel.Responder); !ok {
		responder = otel.NewResponder("openai", model, responder)
	}

	c.Model = model
	c.Responder = responder

	return nil
}
