package openai

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/openai/openai-go/v3/option"
)

const defaultURL = "https://api.openai.com/v1/"

type Config struct {
	url string

	token string
	model string

	organization string
	project      string

	client *http.Client
}

type Option func(*Config)

func WithClient(client *http.Client) Option {
	return func(c *Config) {
		c.client = client
	}
}

func WithToken(token string) Option {
	return func(c *Config) {
		c.token = token
	}
}

func WithOrganization(organization string) Option {
	return func(c *Config) {
		c.organization = organization
	}
}

func WithProject(project string) Option {
	return func(c *Config) {
		c.project = project
	}
}

// Options translates the config into client request options. Retries are
// disabled: a failed turn is reported, never replayed.
func (c *Config) Options() []option.RequestOption {
	base := c.url

	if base == "" {
		base = defaultURL
	}

	base = strings.TrimRight(base, "/") + "/"

	client := c.client

	if client == nil {
		client = http.DefaultClient
	}

	options := []option.RequestOption{
		option.WithBaseURL(base),
		option.WithHTTPClient(client),

		option.WithMaxRetries(0),
	}

	if azureHost(base) {
		options = append(options, option.WithQueryAdd("api-version", "preview"))

		if c.token != "" {
			options = append(options, option.WithHeader("Api-Key", c.token))
		}

		return options
	}

	if c.token != "" {
		options = append(options, option.WithAPIKey(c.token))
	}

	if c.organization != "" {
		options = append(options, option.WithOrganization(c.organization))
	}

	if c.project != "" {
		options = append(options, option.WithProject(c.project))
	}

	return options
}

func azureHost(base string) bool {
	u, err := url.Parse(base)

	if err != nil {
		return false
	}

	host := u.Hostname()

	return strings.HasSuffix(host, ".openai.azure.com") || strings.HasSuffix(host, ".cognitiveservices.azure.com")
}
