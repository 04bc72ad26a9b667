package config

import (
	"errors"

	"github.com/adrianliechti/lahde/pkg/mcp"
	"github.com/adrianliechti/lahde/pkg/tool"
	"github.com/adrianliechti/lahde/pkg/validator"
)

type functionConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Parameters map[string]any `yaml:"parameters"`
}

type groundingConfig struct {
	ForceFileSearch bool   `yaml:"force_file_search"`
	VectorStoreID   string `yaml:"vector_store_id"`
}

func (c *Config) registerTools(f *configFile) error {
	var options []tool.Option

	if f.Prompt != "" {
		options = append(options, tool.WithInstructions(f.Prompt))
	}

	if f.Functions != nil {
		functions, err := createFunctions(f.Functions)

		if err != nil {
			return err
		}

		options = append(options, tool.WithFunctions(functions...))
	}

	if f.Grounding.ForceFileSearch {
		options = append(options, tool.WithForcedFileSearch(f.Grounding.VectorStoreID))
	}

	c.Tools = tool.New(options...)
	c.Validator = validator.New()
	c.MCP = mcp.New("lahde", mcp.WithValidator(c.Validator))

	return nil
}

func createFunctions(configs []functionConfig) ([]tool.Function, error) {
	result := make([]tool.Function, 0, len(configs))

	for _, cfg := range configs {
		if cfg.Name == "" {
			return nil, errors.New("function without name")
		}

		parameters := cfg.Parameters

		if parameters == nil {
			parameters = map[string]any{}
		}

		result = append(result, tool.Function{
			Name:        cfg.Name,
			Description: cfg.Description,

			Parameters: parameters,
		})
	}

	return result, nil
}
