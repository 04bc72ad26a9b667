package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"github.com/adrianliechti/lahde/pkg/auth"
	"github.com/adrianliechti/lahde/pkg/ingest"
	"github.com/adrianliechti/lahde/pkg/interaction"
	"github.com/adrianliechti/lahde/pkg/limiter"
	"github.com/adrianliechti/lahde/pkg/mcp"
	"github.com/adrianliechti/lahde/pkg/otel"
	"github.com/adrianliechti/lahde/pkg/provider"
	"github.com/adrianliechti/lahde/pkg/tool"
	"github.com/adrianliechti/lahde/pkg/validator"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddress       = ":3004"
	DefaultModel         = "gpt-4.1"
	DefaultMonitoringKey = "dev-key-change-in-production"
)

type Config struct {
	Address string

	Model     string
	Responder provider.Responder

	Tools     *tool.Assembler
	Validator *validator.Validator

	MCP *mcp.Server

	RateLimit    *limiter.Window
	Interactions *interaction.Log

	Metrics *otel.Metrics

	Ingest *ingest.Service

	Identifier auth.Provider
	Monitoring auth.Provider

	CORSOrigins []string
}

// Parse reads the YAML file at path. An empty path yields the defaults,
// completed from the environment.
func Parse(path string) (*Config, error) {
	file := &configFile{}

	if path != "" {
		f, err := parseFile(path)

		if err != nil {
			return nil, err
		}

		file = f
	}

	file.applyEnv()

	c := &Config{
		Address: file.Address,

		CORSOrigins: file.CORS.Origins,
	}

	if c.Address == "" {
		c.Address = DefaultAddress
	}

	if err := c.registerAuthorizers(file); err != nil {
		return nil, err
	}

	if err := c.registerProviders(file); err != nil {
		return nil, err
	}

	if err := c.registerTools(file); err != nil {
		return nil, err
	}

	if err := c.registerState(file); err != nil {
		return nil, err
	}

	if err := c.registerIngest(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	OpenAI openaiConfig `yaml:"openai"`

	Prompt    string           `yaml:"prompt"`
	Functions []functionConfig `yaml:"functions"`
	Grounding groundingConfig  `yaml:"grounding"`

	RateLimit    rateLimitConfig    `yaml:"ratelimit"`
	Interactions interactionsConfig `yaml:"interactions"`

	Monitoring monitoringConfig `yaml:"monitoring"`
	CORS       corsConfig       `yaml:"cors"`

	Ingest ingestConfig `yaml:"ingest"`
}

type rateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type interactionsConfig struct {
	Capacity int `yaml:"capacity"`
}

type monitoringConfig struct {
	Key string `yaml:"key"`
}

type corsConfig struct {
	Origins []string `yaml:"origins"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &config, nil
}

// applyEnv fills settings the file leaves empty from the environment.
func (f *configFile) applyEnv() {
	if f.Address == "" {
		if port := os.Getenv("PORT"); port != "" {
			f.Address = ":" + port
		}
	}

	if f.OpenAI.URL == "" {
		f.OpenAI.URL = os.Getenv("OPENAI_BASE_URL")
	}

	if f.OpenAI.Token == "" {
		f.OpenAI.Token = os.Getenv("OPENAI_API_KEY")
	}

	if f.OpenAI.Model == "" {
		f.OpenAI.Model = os.Getenv("OPENAI_MODEL")
	}

	if f.OpenAI.Organization == "" {
		f.OpenAI.Organization = os.Getenv("OPENAI_ORG_ID")
	}

	if f.OpenAI.Project == "" {
		f.OpenAI.Project = os.Getenv("OPENAI_PROJECT_ID")
	}

	if f.Monitoring.Key == "" {
		f.Monitoring.Key = os.Getenv("MONITORING_KEY")
	}
}

func (c *Config) registerState(f *configFile) error {
	requests := f.RateLimit.Requests

	if requests < 0 {
		return errors.New("invalid ratelimit requests")
	}

	if requests == 0 {
		requests = limiter.DefaultRequests
	}

	window := f.RateLimit.Window

	if window < 0 {
		return errors.New("invalid ratelimit window")
	}

	if window == 0 {
		window = limiter.DefaultWindow
	}

	capacity := f.Interactions.Capacity

	if capacity < 0 {
		return errors.New("invalid interactions capacity")
	}

	if capacity == 0 {
		capacity = interaction.DefaultCapacity
	}

	metrics, err := otel.NewMetrics(nil)

	if err != nil {
		return err
	}

	c.RateLimit = limiter.NewWindow(requests, window)
	c.Interactions = interaction.New(capacity)

	c.Metrics = metrics

	return nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil || *limit <= 0 {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}
