package tool

import (
	"maps"
	"slices"
)

// Function is a client executed function the model may call.
// Parameters maps each argument name to its JSON schema.
type Function struct {
	Name        string
	Description string

	Parameters map[string]any
}

var DefaultFunctions = []Function{
	{
		Name:        "get_weather",
		Description: "Get the weather for a given location",

		Parameters: map[string]any{
			"location": map[string]any{
				"type":        "string",
				"description": "Location to get weather for",
			},

			"unit": map[string]any{
				"type":        "string",
				"description": "Unit to get weather in",
				"enum":        []string{"celsius", "fahrenheit"},
			},
		},
	},
	{
		Name:        "get_joke",
		Description: "Get a programming joke",

		Parameters: map[string]any{},
	},
}

// Descriptor converts f into a strict function tool: every declared argument
// is required and no others are accepted.
func (f Function) Descriptor() Descriptor {
	properties := make(map[string]any, len(f.Parameters))
	maps.Copy(properties, f.Parameters)

	required := slices.Sorted(maps.Keys(properties))

	if required == nil {
		required = []string{}
	}

	strict := true

	return Descriptor{
		Type: TypeFunction,

		Name:        f.Name,
		Description: f.Description,

		Parameters: map[string]any{
			"type":                 "object",
			"properties":           properties,
			"required":             required,
			"additionalProperties": false,
		},

		Strict: &strict,
	}
}
